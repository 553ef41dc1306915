package postgres

import (
	"context"
	"errors"
	"fmt"
)

// BlobRepo lectura y escritura de la tabla ledger_blobs (usable con pool o tx).
type BlobRepo struct {
	q     Querier
	codec *blobCodec
}

// newBlobRepository ata el repo a un Querier concreto.
func newBlobRepository(q Querier, codec *blobCodec) *BlobRepo {
	return &BlobRepo{q: q, codec: codec}
}

// All devuelve todos los blobs guardados, ya descomprimidos. Un blob que no se puede
// descomprimir se omite y se informa en el error junto con el resto.
func (r *BlobRepo) All(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.q.Query(ctx, `SELECT key, data, compression FROM ledger_blobs`)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	var broken []error
	for rows.Next() {
		var (
			key, algo string
			data      []byte
		)
		if err := rows.Scan(&key, &data, &algo); err != nil {
			return nil, fmt.Errorf("scan blob: %w", err)
		}
		raw, err := r.codec.unpack(data, algo)
		if err != nil {
			broken = append(broken, fmt.Errorf("blob %s: %w", key, err))
			continue
		}
		out[key] = raw
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	return out, errors.Join(broken...)
}

// Put inserta o reemplaza un blob completo.
func (r *BlobRepo) Put(ctx context.Context, key string, data []byte) error {
	packed, algo := r.codec.pack(data)
	query := `
		INSERT INTO ledger_blobs (key, data, compression, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (key)
		DO UPDATE SET data = EXCLUDED.data, compression = EXCLUDED.compression, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, key, packed, algo); err != nil {
		return fmt.Errorf("upsert blob %s: %w", key, err)
	}
	return nil
}
