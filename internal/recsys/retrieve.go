package recsys

import (
	"fmt"
	"sort"

	"growthai/internal/embed"
	"growthai/internal/models"
)

type scoredItem struct {
	idx   int
	score float64
}

// better is the strict ranking order: higher score first, ties broken by
// ascending catalog index so results reproduce across runs.
func better(a, b scoredItem) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.idx < b.idx
}

// retrieve scores the whole catalog against userVec, partially selects the
// top k+overfetch candidates and walks them in rank order, skipping items
// the customer has already seen. Fewer than k survivors is a valid result.
func (e *Engine) retrieve(userVec []float32, excluded map[string]struct{}, k int) ([]models.Recommendation, error) {
	if len(userVec) != e.emb.Dim() {
		return nil, fmt.Errorf("%w: user vector dim %d, store dim %d", ErrDimensionMismatch, len(userVec), e.emb.Dim())
	}
	n := e.cat.Len()
	scored := make([]scoredItem, n)
	for i := 0; i < n; i++ {
		scored[i] = scoredItem{idx: i, score: embed.Cosine(userVec, e.emb.Vector(i))}
	}
	m := k + e.overfetch
	topSelect(scored, m)
	if m > len(scored) {
		m = len(scored)
	}
	out := make([]models.Recommendation, 0, k)
	for _, c := range scored[:m] {
		if _, seen := excluded[e.cat.At(c.idx).ID]; seen {
			continue
		}
		out = append(out, models.Recommendation{Item: e.cat.At(c.idx), Score: c.score})
		if len(out) == k {
			break
		}
	}
	return out, nil
}

// topSelect partially orders a so that a[:m] holds the m best candidates
// in rank order. Quickselect first, then a sort of just the head; the tail
// beyond m is left unordered.
func topSelect(a []scoredItem, m int) {
	if m >= len(a) {
		sort.Slice(a, func(i, j int) bool { return better(a[i], a[j]) })
		return
	}
	nthElement(a, m)
	head := a[:m]
	sort.Slice(head, func(i, j int) bool { return better(head[i], head[j]) })
}

// nthElement quickselect-partitions a so every element of a[:m] ranks at
// least as well as every element of a[m:]. better is a strict total order,
// so the split is deterministic.
func nthElement(a []scoredItem, m int) {
	l, r := 0, len(a)-1
	for l < r {
		pivot := a[(l+r)/2]
		i, j := l, r
		for i <= j {
			for better(a[i], pivot) {
				i++
			}
			for better(pivot, a[j]) {
				j--
			}
			if i <= j {
				a[i], a[j] = a[j], a[i]
				i++
				j--
			}
		}
		if m <= j {
			r = j
		} else if m >= i {
			l = i
		} else {
			return
		}
	}
}
