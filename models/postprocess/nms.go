package postprocess

import (
	"sort"
)

// Overlap returns the fraction of candidate's area that is covered by picked.
//
// The ratio is asymmetric: it is normalized by the candidate's area only, so a
// small box fully inside a large one overlaps it by 1 while the large box
// overlaps the small one by much less.
func Overlap(picked, candidate ClassifiedBox) float64 {
	xx0 := max(picked.X0, candidate.X0)
	yy0 := max(picked.Y0, candidate.Y0)
	xx1 := min(picked.X1, candidate.X1)
	yy1 := min(picked.Y1, candidate.Y1)

	w := max(0, xx1-xx0+1)
	h := max(0, yy1-yy0+1)

	area := candidate.Area()
	if area <= 0 {
		return 0
	}
	return float64(w*h) / float64(area)
}

// Suppress performs Malisiewicz-style non-maximum suppression.
//
// Boxes are visited from the largest Y1 downwards. Equal Y1 values are ordered
// by confidence, then by X0, Y0, X1 and class, so the pick order depends only on
// the boxes and never on their input position. Among boxes ending on the same
// row the more confident one is picked first. Every remaining box whose Overlap
// with the picked box exceeds overlapThreshold is discarded.
//
// Because the order is a function of box contents, suppressing the output a
// second time visits the survivors in the same order and removes nothing.
//
// Arguments:
//   - boxes: The candidate boxes. The slice is not modified.
//   - overlapThreshold: The maximum tolerated overlap ratio, 0 to 1.
//
// Returns:
//   - []ClassifiedBox: The surviving boxes in pick order. Never nil.
func Suppress(boxes []ClassifiedBox, overlapThreshold float64) []ClassifiedBox {
	if len(boxes) == 0 {
		return []ClassifiedBox{}
	}

	idxs := make([]int, len(boxes))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		return pickedBefore(boxes[idxs[b]], boxes[idxs[a]])
	})

	picked := make([]ClassifiedBox, 0, len(boxes))
	for len(idxs) > 0 {
		last := len(idxs) - 1
		i := idxs[last]
		picked = append(picked, boxes[i])

		remaining := idxs[:0]
		for _, j := range idxs[:last] {
			if Overlap(boxes[i], boxes[j]) <= overlapThreshold {
				remaining = append(remaining, j)
			}
		}
		idxs = remaining
	}

	return picked
}

// pickedBefore reports whether a is visited before b: a sorts after b on
// (Y1, Confidence, X0, Y0, X1, Class).
func pickedBefore(a, b ClassifiedBox) bool {
	switch {
	case a.Y1 != b.Y1:
		return a.Y1 > b.Y1
	case a.Confidence != b.Confidence:
		return a.Confidence > b.Confidence
	case a.X0 != b.X0:
		return a.X0 > b.X0
	case a.Y0 != b.Y0:
		return a.Y0 > b.Y0
	case a.X1 != b.X1:
		return a.X1 > b.X1
	default:
		return a.Class > b.Class
	}
}
