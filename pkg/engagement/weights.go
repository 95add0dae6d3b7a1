package engagement

// WeightItem is one graded component and its weight in the final grade.
type WeightItem struct {
	Key         string  `json:"key"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Weight      float64 `json:"weight"`
	Img         string  `json:"img,omitempty"`
}

// Weights is the grading-weights dataset.
type Weights struct {
	Items []WeightItem `json:"items"`
}

// Visible returns the items with a non-zero weight, in input order. Items
// weighing nothing are not drawn.
func (w Weights) Visible() []WeightItem {
	out := make([]WeightItem, 0, len(w.Items))
	for _, it := range w.Items {
		if it.Weight != 0 {
			out = append(out, it)
		}
	}
	return out
}

// MaxWeight returns the heaviest weight, the upper bound of the icon scale.
func (w Weights) MaxWeight() float64 {
	var m float64
	for _, it := range w.Items {
		m = max(m, it.Weight)
	}
	return m
}
