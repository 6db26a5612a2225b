package classification

import (
	"math"
	"sort"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// rank sorts labels by descending score, keeping input order for ties, and
// truncates to k. The input slice is not modified.
func rank(labels []service.Label, k int) []service.Label {
	out := make([]service.Label, len(labels))
	copy(out, labels)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// softmax returns exp-normalized probabilities for xs
func softmax(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	maxV := xs[0]
	for _, x := range xs[1:] {
		if x > maxV {
			maxV = x
		}
	}
	out := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		out[i] = math.Exp(x - maxV)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// l2Normalize scales v to unit length. A zero vector is returned unchanged.
func l2Normalize(v []float32) []float64 {
	out := make([]float64, len(v))
	var norm float64
	for i, x := range v {
		out[i] = float64(x)
		norm += out[i] * out[i]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return out
	}
	for i := range out {
		out[i] /= norm
	}
	return out
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var s float64
	for i := 0; i < n; i++ {
		s += a[i] * b[i]
	}
	return s
}
