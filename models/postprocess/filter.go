package postprocess

import "sort"

// AcceptConfidence reports whether box is a hand classified with more than
// minConfidence percent.
func AcceptConfidence(box ClassifiedBox, minConfidence float64) bool {
	return box.Class.Positive() && box.Confidence > minConfidence
}

// FilterByConfidence returns the boxes accepted by AcceptConfidence, in input order.
func FilterByConfidence(boxes []ClassifiedBox, minConfidence float64) []ClassifiedBox {
	kept := make([]ClassifiedBox, 0, len(boxes))
	for _, b := range boxes {
		if AcceptConfidence(b, minConfidence) {
			kept = append(kept, b)
		}
	}
	return kept
}

// SortByConfidence sorts boxes in place by ascending confidence, keeping the
// input order of equal confidences.
func SortByConfidence(boxes []ClassifiedBox) {
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].Confidence < boxes[j].Confidence
	})
}
