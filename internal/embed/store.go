package embed

import (
	"context"
	"fmt"

	"growthai/internal/llm"
	"growthai/internal/models"
)

// batchSize bounds how many item texts go to the encoder per call.
const batchSize = 32

// ItemText composes the canonical per-item string fed to the encoder.
// Title, category and description only; meta is display data and stays out.
func ItemText(it models.Item) string {
	return fmt.Sprintf("%s (%s): %s", it.Title, it.Category, it.Description)
}

// Store holds one embedding per catalog item, row i aligned with catalog
// index i. Immutable after Build; any catalog change means a full rebuild
// of catalog and store together.
type Store struct {
	vecs [][]float32
	dim  int
}

// Build encodes the whole catalog in order. It is all-or-nothing: a failed
// or short encoder response aborts the build and nothing partial escapes.
func Build(ctx context.Context, enc llm.Embedder, items []models.Item) (*Store, error) {
	s := &Store{vecs: make([][]float32, 0, len(items))}
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		texts := make([]string, 0, end-start)
		for _, it := range items[start:end] {
			texts = append(texts, ItemText(it))
		}
		vecs, err := enc.Embeddings(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("encode items %d..%d: %w", start, end-1, err)
		}
		if len(vecs) != len(texts) {
			return nil, fmt.Errorf("encode items %d..%d: got %d vectors for %d texts", start, end-1, len(vecs), len(texts))
		}
		for i, v := range vecs {
			if s.dim == 0 {
				s.dim = len(v)
			}
			if len(v) == 0 || len(v) != s.dim {
				return nil, fmt.Errorf("encode item %d: dimension %d, want %d", start+i, len(v), s.dim)
			}
			s.vecs = append(s.vecs, v)
		}
	}
	return s, nil
}

// Dim is the embedding dimension D fixed at build time.
func (s *Store) Dim() int { return s.dim }

func (s *Store) Len() int { return len(s.vecs) }

// Vector returns the embedding for catalog index i. Callers must not
// mutate it.
func (s *Store) Vector(i int) []float32 { return s.vecs[i] }
