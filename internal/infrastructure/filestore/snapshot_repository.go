// Package filestore implementa el almacén de blobs como un archivo JSON por blob
// dentro de un directorio (<dir>/stock.json, <dir>/profitMargin.json, ...).
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jhoicas/stock-control/internal/domain/entity"
	"github.com/jhoicas/stock-control/internal/domain/repository"
	"github.com/jhoicas/stock-control/internal/infrastructure/blob"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo adaptador de persistencia sobre el sistema de archivos.
type SnapshotRepo struct {
	dir string
}

// NewSnapshotRepository crea el directorio si no existe.
func NewSnapshotRepository(dir string) (*SnapshotRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de datos: %w", err)
	}
	return &SnapshotRepo{dir: dir}, nil
}

// Load lee los blobs existentes; los archivos ausentes se tratan como blob ausente.
func (r *SnapshotRepo) Load(ctx context.Context) (*entity.Snapshot, error) {
	blobs := make(map[string][]byte, len(blob.Keys))
	for _, key := range blob.Keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(r.path(key))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("leer blob %s: %w", key, err)
		}
		blobs[key] = b
	}
	return blob.Decode(blobs)
}

// Save reescribe cada blob completo. Cada archivo se escribe en un temporal y se
// renombra, así un fallo a mitad de escritura no deja un JSON truncado.
func (r *SnapshotRepo) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	blobs, err := blob.Encode(snapshot)
	if err != nil {
		return err
	}
	for _, key := range blob.Keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.write(key, blobs[key]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SnapshotRepo) write(key string, data []byte) error {
	tmp, err := os.CreateTemp(r.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("escribir blob %s: %w", key, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("escribir blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("escribir blob %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), r.path(key)); err != nil {
		return fmt.Errorf("reemplazar blob %s: %w", key, err)
	}
	return nil
}

func (r *SnapshotRepo) path(key string) string {
	return filepath.Join(r.dir, key+".json")
}
