package postgres

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Algoritmos de compresión guardados en ledger_blobs.compression.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
)

// DefaultCompressThreshold tamaño (bytes) a partir del cual un blob se comprime.
const DefaultCompressThreshold = 8 * 1024

// blobCodec comprime con zstd los blobs que superan el umbral.
type blobCodec struct {
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

func newBlobCodec(threshold int) (*blobCodec, error) {
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &blobCodec{encoder: encoder, decoder: decoder, threshold: threshold}, nil
}

// pack devuelve los bytes a guardar y el algoritmo usado.
func (c *blobCodec) pack(data []byte) ([]byte, string) {
	if len(data) <= c.threshold {
		return data, CompressionNone
	}
	return c.encoder.EncodeAll(data, nil), CompressionZstd
}

func (c *blobCodec) unpack(data []byte, algo string) ([]byte, error) {
	switch algo {
	case CompressionNone, "":
		return data, nil
	case CompressionZstd:
		out, err := c.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("descomprimir zstd: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("compresión desconocida %q", algo)
	}
}
