package detection

import (
	"image"
	"sort"
)

// suppressor runs non-maximum suppression on one set of candidates and returns
// the indices to keep.
type suppressor func(boxes []image.Rectangle, scores []float32) []int

// perClassNMS applies nms separately to the candidates of each class, so boxes
// of different classes never suppress each other. The returned indices refer to
// the input slices and are in ascending order.
func perClassNMS(boxes []image.Rectangle, scores []float32, classes []int, nms suppressor) []int {
	groups := make(map[int][]int)
	for i, c := range classes {
		groups[c] = append(groups[c], i)
	}

	keep := make([]int, 0, len(boxes))
	for _, idx := range groups {
		b := make([]image.Rectangle, len(idx))
		s := make([]float32, len(idx))
		for j, i := range idx {
			b[j], s[j] = boxes[i], scores[i]
		}
		for _, k := range nms(b, s) {
			keep = append(keep, idx[k])
		}
	}
	sort.Ints(keep)
	return keep
}
