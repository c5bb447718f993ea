package recsys

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"growthai/internal/catalog"
	"growthai/internal/embed"
	"growthai/internal/models"
)

// mapEnc returns canned vectors per canonical item text.
type mapEnc map[string][]float32

func (m mapEnc) Embeddings(ctx context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, s := range inputs {
		v, ok := m[s]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", s)
		}
		out[i] = v
	}
	return out, nil
}

type historyStub map[string][]models.Interaction

func (h historyStub) InteractionsByCustomer(id string) []models.Interaction { return h[id] }

func view(customer, item string) models.Interaction {
	return models.Interaction{CustomerID: customer, ItemID: item, Action: models.ActionView, Timestamp: time.Unix(0, 0)}
}

// fixture: items A..E with 2D embeddings at known angles from A.
func fixture(t *testing.T) (*catalog.Catalog, *embed.Store) {
	t.Helper()
	var products []catalog.ProductRecord
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		products = append(products, catalog.ProductRecord{ID: id, Name: id, Category: "c", Description: "d"})
	}
	cat, err := catalog.Build(products, nil)
	if err != nil {
		t.Fatal(err)
	}
	enc := mapEnc{
		"A (c): d": {1, 0},
		"B (c): d": {0.9, 0.1},
		"C (c): d": {0.5, 0.5},
		"D (c): d": {0, 1},
		"E (c): d": {-1, 0},
	}
	st, err := embed.Build(context.Background(), enc, cat.Items())
	if err != nil {
		t.Fatal(err)
	}
	return cat, st
}

func newEngine(t *testing.T, cat *catalog.Catalog, st *embed.Store, hist HistorySource, opts ...Option) *Engine {
	t.Helper()
	e, err := New(cat, st, hist, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestRecommendWarmPathExcludesAndOrders(t *testing.T) {
	cat, st := fixture(t)
	hist := historyStub{"X": {view("X", "A")}}
	e := newEngine(t, cat, st, hist)

	recs, err := e.Recommend(context.Background(), "X", 4)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	want := []string{"B", "C", "D", "E"} // descending cosine to A's vector
	if len(recs) != 4 {
		t.Fatalf("got %d recs", len(recs))
	}
	for i, id := range want {
		if recs[i].ID != id {
			t.Fatalf("rec %d = %s, want %s (all: %+v)", i, recs[i].ID, id, recs)
		}
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Fatalf("scores not descending at %d", i)
		}
	}
	for _, r := range recs {
		if r.Score < -1-1e-9 || r.Score > 1+1e-9 {
			t.Fatalf("score out of range: %v", r.Score)
		}
	}
}

func TestRecommendNeverReturnsSeenOrDuplicate(t *testing.T) {
	cat, st := fixture(t)
	hist := historyStub{"X": {view("X", "A"), view("X", "C"), view("X", "A")}}
	e := newEngine(t, cat, st, hist)
	recs, err := e.Recommend(context.Background(), "X", 5)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, r := range recs {
		if r.ID == "A" || r.ID == "C" {
			t.Fatalf("returned seen item %s", r.ID)
		}
		if seen[r.ID] {
			t.Fatalf("duplicate %s", r.ID)
		}
		seen[r.ID] = true
	}
	// 3 eligible items only; short result, no padding, no error
	if len(recs) != 3 {
		t.Fatalf("got %d recs, want 3", len(recs))
	}
}

func TestRecommendDeterministicWarmPath(t *testing.T) {
	cat, st := fixture(t)
	hist := historyStub{"X": {view("X", "B")}}
	e := newEngine(t, cat, st, hist)
	first, err := e.Recommend(context.Background(), "X", 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := e.Recommend(context.Background(), "X", 4)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed", i)
		}
		for j := range again {
			if again[j].ID != first[j].ID || again[j].Score != first[j].Score {
				t.Fatalf("run %d: result changed at %d", i, j)
			}
		}
	}
}

func TestRecommendTieBreakByCatalogIndex(t *testing.T) {
	var products []catalog.ProductRecord
	for _, id := range []string{"Q", "T1", "T2", "T3"} {
		products = append(products, catalog.ProductRecord{ID: id, Name: id, Category: "c", Description: "d"})
	}
	cat, err := catalog.Build(products, nil)
	if err != nil {
		t.Fatal(err)
	}
	same := []float32{0.6, 0.8}
	enc := mapEnc{
		"Q (c): d":  {1, 0},
		"T1 (c): d": same,
		"T2 (c): d": same,
		"T3 (c): d": same,
	}
	st, err := embed.Build(context.Background(), enc, cat.Items())
	if err != nil {
		t.Fatal(err)
	}
	e := newEngine(t, cat, st, historyStub{"X": {view("X", "Q")}})
	recs, err := e.Recommend(context.Background(), "X", 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"T1", "T2", "T3"} // equal scores fall back to catalog order
	for i, id := range want {
		if recs[i].ID != id {
			t.Fatalf("rec %d = %s, want %s", i, recs[i].ID, id)
		}
	}
}

func TestRecommendColdStart(t *testing.T) {
	cat, st := fixture(t)
	mk := func() *Engine {
		return newEngine(t, cat, st, historyStub{}, WithRand(rand.New(rand.NewSource(42))))
	}
	recs, err := mk().Recommend(context.Background(), "nobody", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d recs, want 3", len(recs))
	}
	seen := map[string]bool{}
	for _, r := range recs {
		if seen[r.ID] {
			t.Fatalf("duplicate %s", r.ID)
		}
		seen[r.ID] = true
		if r.Score != 0 {
			t.Fatalf("cold-start score should be omitted, got %v", r.Score)
		}
	}
	// same seed, same sample
	again, err := mk().Recommend(context.Background(), "nobody", 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range again {
		if again[i].ID != recs[i].ID {
			t.Fatalf("seeded cold start not reproducible at %d", i)
		}
	}
}

func TestRecommendColdStartWhenNoInteractionResolves(t *testing.T) {
	cat, st := fixture(t)
	hist := historyStub{"X": {view("X", "GONE-1"), view("X", "GONE-2")}}
	e := newEngine(t, cat, st, hist, WithRand(rand.New(rand.NewSource(7))))
	recs, err := e.Recommend(context.Background(), "X", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recs, want cold-start result", len(recs))
	}
}

func TestRecommendKLargerThanCatalog(t *testing.T) {
	cat, st := fixture(t)
	e := newEngine(t, cat, st, historyStub{}, WithRand(rand.New(rand.NewSource(1))))
	recs, err := e.Recommend(context.Background(), "nobody", 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != cat.Len() {
		t.Fatalf("got %d recs, want %d", len(recs), cat.Len())
	}
}

func TestRecommendInvalidTopK(t *testing.T) {
	cat, st := fixture(t)
	e := newEngine(t, cat, st, historyStub{})
	for _, k := range []int{0, -3} {
		if _, err := e.Recommend(context.Background(), "X", k); !errors.Is(err, ErrInvalidTopK) {
			t.Fatalf("k=%d err=%v, want ErrInvalidTopK", k, err)
		}
	}
}

func TestRecommendDegradedMode(t *testing.T) {
	cat, _ := fixture(t)
	hist := historyStub{"warm": {view("warm", "A")}}
	e := newEngine(t, cat, nil, hist, WithRand(rand.New(rand.NewSource(3))))
	if !e.Degraded() {
		t.Fatal("expected degraded engine")
	}
	// warm path returns empty rather than erroring past the boundary
	recs, err := e.Recommend(context.Background(), "warm", 4)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("degraded warm path returned %d recs", len(recs))
	}
	// cold start does not need embeddings and still works
	cold, err := e.Recommend(context.Background(), "nobody", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(cold) != 3 {
		t.Fatalf("degraded cold start returned %d recs", len(cold))
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	cat, err := catalog.Build(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	e := newEngine(t, cat, nil, historyStub{})
	recs, err := e.Recommend(context.Background(), "anyone", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %d recs from empty catalog", len(recs))
	}
}

func TestNewRejectsMisalignedStore(t *testing.T) {
	_, st := fixture(t)
	smaller, err := catalog.Build([]catalog.ProductRecord{{ID: "A", Name: "A", Category: "c", Description: "d"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(smaller, st, historyStub{}); err == nil {
		t.Fatal("expected alignment error")
	}
}

func TestRetrieveDimensionMismatch(t *testing.T) {
	cat, st := fixture(t)
	e := newEngine(t, cat, st, historyStub{})
	if _, err := e.retrieve([]float32{1, 2, 3}, nil, 2); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestProfileIsMeanOfHistory(t *testing.T) {
	cat, st := fixture(t)
	// history = A (1,0) and D (0,1); mean = (0.5, 0.5) = C's direction,
	// so C must rank first among unseen items
	hist := historyStub{"X": {view("X", "A"), view("X", "D")}}
	e := newEngine(t, cat, st, hist)
	recs, err := e.Recommend(context.Background(), "X", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ID != "C" {
		t.Fatalf("top rec = %+v, want C", recs)
	}
}

func TestRepeatInteractionsCountOnceInProfile(t *testing.T) {
	cat, st := fixture(t)
	// three views of A plus one of D: the profile is the mean over the
	// distinct item set {A, D} = (0.5, 0.5), so C must rank first; a
	// per-record mean would skew toward A and surface B instead
	hist := historyStub{"X": {view("X", "A"), view("X", "A"), view("X", "A"), view("X", "D")}}
	e := newEngine(t, cat, st, hist)
	recs, err := e.Recommend(context.Background(), "X", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ID != "C" {
		t.Fatalf("top rec = %+v, want C", recs)
	}
}

func TestRecommendWithModeReportsPath(t *testing.T) {
	cat, st := fixture(t)
	hist := historyStub{"warm": {view("warm", "A")}}

	e := newEngine(t, cat, st, hist)
	if _, mode, err := e.RecommendWithMode(context.Background(), "warm", 2); err != nil || mode != ModeWarm {
		t.Fatalf("warm: mode=%q err=%v", mode, err)
	}
	if _, mode, err := e.RecommendWithMode(context.Background(), "nobody", 2); err != nil || mode != ModeColdStart {
		t.Fatalf("cold: mode=%q err=%v", mode, err)
	}

	deg := newEngine(t, cat, nil, hist)
	if _, mode, err := deg.RecommendWithMode(context.Background(), "warm", 2); err != nil || mode != ModeDegraded {
		t.Fatalf("degraded: mode=%q err=%v", mode, err)
	}
}

func TestTopSelectLargeCatalogMatchesFullSort(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	n := 500
	a := make([]scoredItem, n)
	b := make([]scoredItem, n)
	for i := 0; i < n; i++ {
		s := float64(r.Intn(50)) / 10 // plenty of ties
		a[i] = scoredItem{idx: i, score: s}
		b[i] = a[i]
	}
	m := 37
	topSelect(a, m)
	topSelect(b, len(b)) // full sort path
	for i := 0; i < m; i++ {
		if a[i] != b[i] {
			t.Fatalf("partial selection diverges from full sort at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}
