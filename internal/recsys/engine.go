package recsys

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"growthai/internal/catalog"
	"growthai/internal/embed"
	"growthai/internal/models"
)

// ErrInvalidTopK rejects a non-positive top_k. Surfaced to the caller,
// never clamped.
var ErrInvalidTopK = errors.New("top_k must be positive")

// ErrDimensionMismatch is a defensive invariant check; post-build it should
// be structurally impossible. It signals a programming bug, not a retryable
// condition.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// HistorySource is the read-only interaction history. A slightly stale
// snapshot is acceptable; the engine takes one snapshot per request.
type HistorySource interface {
	InteractionsByCustomer(customerID string) []models.Interaction
}

// Engine scores the catalog against per-customer preference vectors.
// Catalog and embedding store are built once before serving and are
// shared read-only across concurrent requests; the engine itself holds no
// per-request state apart from the guarded cold-start rand.
type Engine struct {
	cat     *catalog.Catalog
	emb     *embed.Store // nil in encoder-unavailable degraded mode
	history HistorySource

	overfetch int
	rndMu     sync.Mutex
	rnd       *rand.Rand
	logger    *zap.Logger
}

type Option func(*Engine)

// WithOverfetch sets the candidate margin fetched beyond k to absorb
// history filtering.
func WithOverfetch(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.overfetch = n
		}
	}
}

// WithRand injects the cold-start random source so sampling is
// reproducible under test.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rnd = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New wires a built catalog and embedding store. emb may be nil, which
// puts the engine in degraded mode: warm-path retrieval returns empty
// results while cold start keeps working. A non-nil store must be aligned
// with the catalog row for row.
func New(cat *catalog.Catalog, emb *embed.Store, history HistorySource, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("recsys: catalog required")
	}
	if emb != nil && emb.Len() != cat.Len() {
		return nil, fmt.Errorf("recsys: embedding store has %d rows for %d items", emb.Len(), cat.Len())
	}
	e := &Engine{
		cat:       cat,
		emb:       emb,
		history:   history,
		overfetch: 20,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Degraded reports whether the engine runs without embeddings.
func (e *Engine) Degraded() bool { return e.emb == nil }

// ListItems returns the full ordered catalog.
func (e *Engine) ListItems() []models.Item { return e.cat.Items() }

// GetItem looks an item up by id.
func (e *Engine) GetItem(id string) (models.Item, bool) { return e.cat.Get(id) }

// Mode identifies which path produced a recommendation result.
type Mode string

const (
	ModeWarm      Mode = "warm"
	ModeColdStart Mode = "cold_start"
	ModeDegraded  Mode = "degraded"
)

// Recommend returns up to topK items for the customer, most similar first.
// With a usable interaction history it ranks by cosine similarity to the
// customer's preference vector and filters already-seen items; without one
// it falls back to uniform cold-start sampling. Short results are normal
// when the eligible pool runs out.
func (e *Engine) Recommend(ctx context.Context, customerID string, topK int) ([]models.Recommendation, error) {
	recs, _, err := e.RecommendWithMode(ctx, customerID, topK)
	return recs, err
}

// RecommendWithMode is Recommend plus the path taken, for callers that
// report it (metrics, diagnostics).
func (e *Engine) RecommendWithMode(ctx context.Context, customerID string, topK int) ([]models.Recommendation, Mode, error) {
	if topK <= 0 {
		return nil, "", fmt.Errorf("%w: %d", ErrInvalidTopK, topK)
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	var snapshot []models.Interaction
	if e.history != nil {
		snapshot = e.history.InteractionsByCustomer(customerID)
	}
	resolved, excluded := e.resolve(snapshot)
	if len(resolved) == 0 {
		// no profile can exist; this is the cold-start signal, not an error
		return e.coldStart(topK), ModeColdStart, nil
	}
	if e.emb == nil {
		// encoder was unavailable at build time; availability over
		// correctness-of-emptiness
		e.logger.Warn("recommend in degraded mode, returning empty", zap.String("customer", customerID))
		return []models.Recommendation{}, ModeDegraded, nil
	}
	vecs := make([][]float32, 0, len(resolved))
	for _, idx := range resolved {
		vecs = append(vecs, e.emb.Vector(idx))
	}
	userVec := embed.Mean(vecs)
	recs, err := e.retrieve(userVec, excluded, topK)
	if err != nil {
		e.logger.Error("retrieval invariant violation", zap.Error(err))
		return nil, "", err
	}
	return recs, ModeWarm, nil
}

// resolve maps the interaction snapshot onto distinct catalog indices.
// Repeat interactions with the same item contribute once to the profile
// mean. Records referencing unknown items are dropped; every referenced id
// still lands in the exclusion set. All action types weigh equally for
// now; a per-action weight map is the natural extension point.
func (e *Engine) resolve(snapshot []models.Interaction) ([]int, map[string]struct{}) {
	excluded := make(map[string]struct{}, len(snapshot))
	seen := make(map[int]struct{}, len(snapshot))
	var resolved []int
	for _, in := range snapshot {
		excluded[in.ItemID] = struct{}{}
		idx, ok := e.cat.IndexOf(in.ItemID)
		if !ok {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		resolved = append(resolved, idx)
	}
	return resolved, excluded
}
