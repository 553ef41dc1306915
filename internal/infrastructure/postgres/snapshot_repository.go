package postgres

import (
	"context"
	"errors"

	"github.com/jhoicas/stock-control/internal/domain/entity"
	"github.com/jhoicas/stock-control/internal/domain/repository"
	"github.com/jhoicas/stock-control/internal/infrastructure/blob"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo persiste el snapshot como filas de ledger_blobs. Cada Save reescribe
// los cuatro blobs y stock_totals en una sola transacción.
type SnapshotRepo struct {
	db    DB
	codec *blobCodec
	tx    *TxRunner
}

// NewSnapshotRepository construye el adaptador. compressThreshold <= 0 usa el valor por defecto.
func NewSnapshotRepository(db DB, compressThreshold int) (*SnapshotRepo, error) {
	codec, err := newBlobCodec(compressThreshold)
	if err != nil {
		return nil, err
	}
	return &SnapshotRepo{db: db, codec: codec, tx: newTxRunner(db, codec)}, nil
}

// Load lee todos los blobs; una tabla vacía da un snapshot vacío.
func (r *SnapshotRepo) Load(ctx context.Context) (*entity.Snapshot, error) {
	blobs, err := newBlobRepository(r.db, r.codec).All(ctx)
	if blobs == nil {
		return nil, err
	}
	snapshot, decodeErr := blob.Decode(blobs)
	return snapshot, errors.Join(err, decodeErr)
}

// Save reescribe el estado completo.
func (r *SnapshotRepo) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	blobs, err := blob.Encode(snapshot)
	if err != nil {
		return err
	}
	return r.tx.Run(ctx, func(blobRepo *BlobRepo, totals *TotalsRepo) error {
		for _, key := range blob.Keys {
			if err := blobRepo.Put(ctx, key, blobs[key]); err != nil {
				return err
			}
		}
		return totals.Replace(ctx, TotalsFromSnapshot(snapshot))
	})
}
