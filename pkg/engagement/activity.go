package engagement

// ActivityState is a student's progress on one resource.
type ActivityState string

const (
	StateCorrect        ActivityState = "correct"
	StateIncorrect      ActivityState = "incorrect"
	StateViewed         ActivityState = "viewed"
	StateNotViewed      ActivityState = "not-viewed"
	StateAwaitingAnswer ActivityState = "awaiting-answer"
	StateAwaitingReview ActivityState = "awaiting-review"
)

// Interacted reports whether the student did anything with the resource.
// A missing state counts as no interaction.
func (s ActivityState) Interacted() bool {
	return s != "" && s != StateNotViewed
}

// TopicNode is a node of the course tree. Nodes with a Type are resources
// and become chart columns; nodes with Children group them under a header.
// A node may be both.
type TopicNode struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name"`
	Type        string      `json:"type,omitempty"`
	Description string      `json:"description,omitempty"`
	Children    []TopicNode `json:"children,omitempty"`
}

// IsResource reports whether the node is a chart column.
func (n TopicNode) IsResource() bool { return n.Type != "" }

// ActivityStudent maps resource IDs to the student's state on each.
type ActivityStudent struct {
	ID           string                   `json:"id,omitempty"`
	Name         string                   `json:"name"`
	Avatar       string                   `json:"avatar,omitempty"`
	Interactions map[string]ActivityState `json:"interactions"`
}

// Activity is the resource-interaction monitor dataset.
type Activity struct {
	Topics   []TopicNode       `json:"topics"`
	Students []ActivityStudent `json:"students"`
}

// ResourceColumn is one resource in column order with the names of the
// groups above it.
type ResourceColumn struct {
	TopicNode
	Path []string
}

// HeaderSpan is a group header covering Span columns from Start at tree
// depth Level.
type HeaderSpan struct {
	Name  string
	Level int
	Start int
	Span  int
}

// Columns flattens the topic tree depth-first into resource columns and
// the group headers above them, one slice of headers per level. Groups
// without any resource below them get no header.
func (a Activity) Columns() ([]ResourceColumn, [][]HeaderSpan) {
	var cols []ResourceColumn
	var headers [][]HeaderSpan

	var walk func(nodes []TopicNode, level int, path []string)
	walk = func(nodes []TopicNode, level int, path []string) {
		for _, n := range nodes {
			if n.IsResource() {
				cols = append(cols, ResourceColumn{TopicNode: n, Path: path})
			}
			if len(n.Children) == 0 {
				continue
			}
			for len(headers) <= level {
				headers = append(headers, nil)
			}
			start := len(cols)
			walk(n.Children, level+1, append(path[:len(path):len(path)], n.Name))
			if span := len(cols) - start; span > 0 {
				headers[level] = append(headers[level], HeaderSpan{Name: n.Name, Level: level, Start: start, Span: span})
			}
		}
	}
	walk(a.Topics, 0, nil)
	return cols, headers
}

// Count returns how many of the resources in cols the student has in one
// of states.
func (st ActivityStudent) Count(cols []ResourceColumn, states ...ActivityState) int {
	var n int
	for _, c := range cols {
		s := st.Interactions[c.ID]
		for _, want := range states {
			if s == want {
				n++
				break
			}
		}
	}
	return n
}

// Progress returns how many resources in cols the student interacted with.
func (st ActivityStudent) Progress(cols []ResourceColumn) int {
	var n int
	for _, c := range cols {
		if st.Interactions[c.ID].Interacted() {
			n++
		}
	}
	return n
}
