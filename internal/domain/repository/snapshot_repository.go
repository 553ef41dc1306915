package repository

import (
	"context"

	"github.com/jhoicas/stock-control/internal/domain/entity"
)

// SnapshotRepository define el puerto de persistencia del estado completo (DIP).
// Es un almacén de blobs con nombre: Load se llama una vez al iniciar y Save después
// de cada comando que modifica el estado. Un blob ausente se devuelve como campo nil.
//
// Load puede devolver un snapshot junto con un error: el snapshot trae lo que se pudo
// leer y el error describe los blobs o registros descartados. Un snapshot nil
// significa que no se pudo leer nada.
type SnapshotRepository interface {
	Load(ctx context.Context) (*entity.Snapshot, error)
	Save(ctx context.Context, snapshot *entity.Snapshot) error
}
