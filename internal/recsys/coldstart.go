package recsys

import "growthai/internal/models"

// coldStart samples up to k distinct items uniformly, without replacement,
// independent of embeddings. Never fails: an empty catalog yields an empty
// result. Scores stay zero since no preference vector exists.
func (e *Engine) coldStart(k int) []models.Recommendation {
	n := e.cat.Len()
	if k > n {
		k = n
	}
	out := make([]models.Recommendation, 0, k)
	if k == 0 {
		return out
	}
	e.rndMu.Lock()
	perm := e.rnd.Perm(n)
	e.rndMu.Unlock()
	for _, idx := range perm[:k] {
		out = append(out, models.Recommendation{Item: e.cat.At(idx)})
	}
	return out
}
