// Package memory implementa el almacén de blobs en memoria (tests y modo sin disco).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-control/internal/domain/entity"
	"github.com/jhoicas/stock-control/internal/domain/repository"
	"github.com/jhoicas/stock-control/internal/infrastructure/blob"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo guarda los blobs serializados en un mapa protegido por mutex.
type SnapshotRepo struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	saves int
}

// NewSnapshotRepository construye el repositorio vacío.
func NewSnapshotRepository() *SnapshotRepo {
	return &SnapshotRepo{blobs: make(map[string][]byte)}
}

// Load decodifica los blobs guardados; sin blobs devuelve un snapshot vacío.
func (r *SnapshotRepo) Load(_ context.Context) (*entity.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return blob.Decode(r.blobs)
}

// Save reemplaza todos los blobs.
func (r *SnapshotRepo) Save(_ context.Context, snapshot *entity.Snapshot) error {
	blobs, err := blob.Encode(snapshot)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs = blobs
	r.saves++
	return nil
}

// Put escribe un blob crudo (ej. para sembrar datos de la versión anterior).
func (r *SnapshotRepo) Put(key string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[key] = append([]byte(nil), data...)
}

// Blob devuelve una copia del blob guardado con ese nombre.
func (r *SnapshotRepo) Blob(key string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blobs[key]
	return append([]byte(nil), b...), ok
}

// Saves cantidad de llamadas exitosas a Save.
func (r *SnapshotRepo) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}
