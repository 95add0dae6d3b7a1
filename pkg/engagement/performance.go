package engagement

// DifficultyPerformance counts answers at one difficulty level.
type DifficultyPerformance struct {
	Label     string `json:"label"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
	Total     int    `json:"total"`
}

// Answered returns the number of answered questions.
func (d DifficultyPerformance) Answered() int {
	return d.Correct + d.Incorrect
}

// StudentPerformance holds one student's results per difficulty.
type StudentPerformance struct {
	ID           string                  `json:"id,omitempty"`
	Name         string                  `json:"name"`
	Avatar       string                  `json:"avatar,omitempty"`
	Performances []DifficultyPerformance `json:"performances"`
}

// Answered sums answered questions over all difficulties.
func (s StudentPerformance) Answered() int {
	var n int
	for _, p := range s.Performances {
		n += p.Answered()
	}
	return n
}

// Performance is the class performance dataset.
type Performance struct {
	Students []StudentPerformance `json:"students"`
}

// MaxTotal returns the largest per-difficulty total in p, the upper bound of
// the bar scale.
func (p Performance) MaxTotal() int {
	var m int
	for _, s := range p.Students {
		for _, d := range s.Performances {
			m = max(m, d.Total)
		}
	}
	return m
}
