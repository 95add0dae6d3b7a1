package engagement

import (
	"time"

	"github.com/google/uuid"
)

// Event is the time window a timeline is measured against.
type Event struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Minutes returns the event duration in minutes.
func (e Event) Minutes() float64 {
	return e.End.Sub(e.Start).Minutes()
}

// Session is one continuous connection of a student.
type Session struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type,omitempty"`
}

// Minutes returns the session length in minutes, or 0 if it ends before it
// starts.
func (s Session) Minutes() float64 {
	return max(0, s.End.Sub(s.Start).Minutes())
}

// Student is one attendee with their sessions.
type Student struct {
	ID       string    `json:"id,omitempty"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar,omitempty"`
	Sessions []Session `json:"sessions"`
}

// Timeline is the attendance dataset for one event.
type Timeline struct {
	Event    Event     `json:"event"`
	Students []Student `json:"students"`
}

// MinutesWithinEvent returns how many minutes of s fall inside e. Parts of the
// session before the start or after the end are not counted.
func MinutesWithinEvent(s Session, e Event) float64 {
	start := s.Start
	if start.Before(e.Start) {
		start = e.Start
	}
	end := s.End
	if end.After(e.End) {
		end = e.End
	}
	return max(0, end.Sub(start).Minutes())
}

// TotalMinutes sums MinutesWithinEvent over all sessions of st.
func TotalMinutes(st Student, e Event) float64 {
	var total float64
	for _, s := range st.Sessions {
		total += MinutesWithinEvent(s, e)
	}
	return total
}

// Offline reports whether the student never connected.
func (st Student) Offline() bool {
	return len(st.Sessions) == 0
}

// studentNamespace scopes IDs derived from student names.
var studentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://classviz.dev/student"))

// StudentID returns id if set, otherwise a deterministic UUID derived from
// name. The same name always yields the same ID, so rows keep their join key
// across datasets. Two records without an id and with equal names collide;
// the io package rejects such datasets and names the student.
func StudentID(id, name string) string {
	if id != "" {
		return id
	}
	return uuid.NewSHA1(studentNamespace, []byte(name)).String()
}
