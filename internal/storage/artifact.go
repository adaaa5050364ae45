package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/inkproof/galley/internal/models"
)

// zstd frames start with this magic number.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// WriteResult persists an evaluation result under key as zstd-compressed
// JSON.
func WriteResult(ctx context.Context, s Store, key string, result *models.EvaluationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("building zstd encoder: %w", err)
	}
	compressed := enc.EncodeAll(data, make([]byte, 0, len(data)/3))
	enc.Close()

	return s.Store(ctx, key, compressed)
}

// ReadResult loads an evaluation result stored by WriteResult.
func ReadResult(ctx context.Context, s Store, key string) (*models.EvaluationResult, error) {
	data, err := s.Retrieve(ctx, key)
	if err != nil {
		return nil, err
	}
	return DecodeResult(data)
}

// DecodeResult parses a stored artifact, decompressing when it carries a
// zstd frame. Plain JSON artifacts are accepted too, so hand-edited results
// keep working.
func DecodeResult(data []byte) (*models.EvaluationResult, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("building zstd decoder: %w", err)
		}
		defer dec.Close()

		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("decompressing result: %w", err)
		}
	}

	var result models.EvaluationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing result: %w", err)
	}
	return &result, nil
}
