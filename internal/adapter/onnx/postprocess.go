package onnx

import (
	"fmt"
	"math"
	"sort"

	"github.com/nwakalordivine/AgriEase-AI/internal/classification"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

type box struct {
	x1, y1, x2, y2 float32
	class          int
	score          float32
}

// decodeYOLO reads a [1, 4+classes, anchors] output laid out row-major:
// cx, cy, w, h planes followed by one score plane per class.
func decodeYOLO(out []float32, numClasses, anchors int, conf float32) []box {
	if len(out) < (4+numClasses)*anchors {
		return nil
	}
	var boxes []box
	for a := 0; a < anchors; a++ {
		best, bestScore := -1, float32(0)
		for c := 0; c < numClasses; c++ {
			s := out[(4+c)*anchors+a]
			if s > bestScore {
				best, bestScore = c, s
			}
		}
		if best < 0 || bestScore < conf {
			continue
		}
		cx, cy := out[a], out[anchors+a]
		w, h := out[2*anchors+a], out[3*anchors+a]
		boxes = append(boxes, box{
			x1: cx - w/2, y1: cy - h/2,
			x2: cx + w/2, y2: cy + h/2,
			class: best, score: bestScore,
		})
	}
	return boxes
}

// nms drops boxes overlapping a higher-scoring box of the same class by more
// than iouThreshold. The result is ordered by descending score.
func nms(boxes []box, iouThreshold float32) []box {
	sorted := make([]box, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].score > sorted[j].score })

	kept := make([]box, 0, len(sorted))
	for _, b := range sorted {
		keep := true
		for _, k := range kept {
			if k.class == b.class && iou(k, b) > iouThreshold {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, b)
		}
	}
	return kept
}

func iou(a, b box) float32 {
	ix1 := float32(math.Max(float64(a.x1), float64(b.x1)))
	iy1 := float32(math.Max(float64(a.y1), float64(b.y1)))
	ix2 := float32(math.Min(float64(a.x2), float64(b.x2)))
	iy2 := float32(math.Min(float64(a.y2), float64(b.y2)))
	if ix2 <= ix1 || iy2 <= iy1 {
		return 0
	}
	inter := (ix2 - ix1) * (iy2 - iy1)
	union := (a.x2-a.x1)*(a.y2-a.y1) + (b.x2-b.x1)*(b.y2-b.y1) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func toDetections(boxes []box, labels []string) []classification.Detection {
	out := make([]classification.Detection, len(boxes))
	for i, b := range boxes {
		out[i] = classification.Detection{Label: labelAt(labels, b.class), Confidence: float64(b.score)}
	}
	return out
}

// topK softmaxes logits and returns the k most probable labels
func topK(logits []float32, labels []string, k int) []service.Label {
	probs := softmax32(logits)
	out := make([]service.Label, len(probs))
	for i, p := range probs {
		out[i] = service.Label{Label: labelAt(labels, i), Score: p}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

func softmax32(xs []float32) []float64 {
	if len(xs) == 0 {
		return nil
	}
	maxV := float64(xs[0])
	for _, x := range xs[1:] {
		maxV = math.Max(maxV, float64(x))
	}
	out := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		out[i] = math.Exp(float64(x) - maxV)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func labelAt(labels []string, i int) string {
	if i >= 0 && i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("class_%d", i)
}
