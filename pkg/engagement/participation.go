package engagement

// DefaultDelay is the default delay threshold in minutes.
const DefaultDelay = 15

// Participation classifies attendance within an event.
type Participation int

const (
	Absent Participation = iota
	Partial
	Full
)

// Classify grades total attended minutes against an event lasting
// eventMinutes, tolerating delay minutes of absence.
//
// Totals below delay are Absent; totals of at least eventMinutes-delay are
// Full; everything else is Partial. Absent wins when both bounds apply.
func Classify(total, eventMinutes, delay float64) Participation {
	switch {
	case total < delay:
		return Absent
	case total >= eventMinutes-delay:
		return Full
	default:
		return Partial
	}
}

// String returns "absent", "partial" or "full".
func (p Participation) String() string {
	switch p {
	case Absent:
		return "absent"
	case Full:
		return "full"
	default:
		return "partial"
	}
}

// Color returns the bar fill used for p.
func (p Participation) Color() string {
	switch p {
	case Absent:
		return "red"
	case Full:
		return "#2196f3"
	default:
		return "#f4b400"
	}
}

// Participations classifies every student of t by row ID.
func (t Timeline) Participations(delay float64) map[string]Participation {
	out := make(map[string]Participation, len(t.Students))
	eventMinutes := t.Event.Minutes()
	for _, st := range t.Students {
		out[StudentID(st.ID, st.Name)] = Classify(TotalMinutes(st, t.Event), eventMinutes, delay)
	}
	return out
}
