package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/render/scale"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

var activityMargin = margin{top: 50, right: 140, bottom: 20, left: 250}

const headerLevelGap = 35.0

type stateMark struct {
	icon  string
	color string
}

var stateMarks = map[engagement.ActivityState]stateMark{
	engagement.StateCorrect:        {"✓", "#10B981"},
	engagement.StateIncorrect:      {"✕", "#EF4444"},
	engagement.StateViewed:         {"👁", "#0EA5E9"},
	engagement.StateNotViewed:      {"➖", "#CBD5E1"},
	engagement.StateAwaitingAnswer: {"💬", "#F59E0B"},
	engagement.StateAwaitingReview: {"📝", "#3B82F6"},
}

var defaultMark = stateMark{"●", "#CBD5E1"}

func markFor(s engagement.ActivityState) stateMark {
	if m, ok := stateMarks[s]; ok {
		return m
	}
	return defaultMark
}

// RenderActivitySVG draws a grid with one column per resource and one row
// per student. Each cell shows the student's state on that resource. Group
// headers from the topic tree are stacked above the resource names.
func RenderActivitySVG(a engagement.Activity, rows []rowlayout.Row, opts ...Option) []byte {
	r := newRenderer(engagement.KindActivity, opts...)
	cols, headers := a.Columns()

	m := activityMargin
	m.top += headerLevelGap * float64(len(headers))
	inner := max(0, r.width-m.left-m.right)
	height := float64(len(rows)) * r.rowHeight

	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	x := scale.Band{Domain: ids, Range: [2]float64{0, inner}}
	bw := x.Bandwidth()

	students := indexByID(len(a.Students), func(i int) string {
		return engagement.StudentID(a.Students[i].ID, a.Students[i].Name)
	})
	positions := rowlayout.Positions(rows, r.rowHeight)

	var buf bytes.Buffer
	writeHeader(&buf, r.width, height+m.top+m.bottom, r.transition)
	writeSortHeader(&buf, engagement.ColumnName, "Student", 20, m.top-15, r.state)
	writeSortHeader(&buf, engagement.ColumnProgress, "Done", m.left+inner+15, m.top-15, r.state)
	writeSortHeader(&buf, engagement.ColumnCorrect, "Correct", m.left+inner+70, m.top-15, r.state)

	fmt.Fprintf(&buf, `  <g class="chart" transform="translate(%.1f,%.1f)">`+"\n", m.left, m.top)
	for level, spans := range headers {
		y := -headerLevelGap * float64(len(headers)-level)
		for _, h := range spans {
			cx := float64(h.Start)*bw + float64(h.Span)*bw/2
			fmt.Fprintf(&buf, `    <text class="group" x="%.1f" y="%.1f" font-family="%s" font-size="13" font-weight="600" text-anchor="middle">%s</text>`+"\n",
				cx, y, fontFamily, escapeXML(h.Name))
		}
	}
	for _, c := range cols {
		x0, _ := x.Map(c.ID)
		fmt.Fprintf(&buf, `    <text class="resource" data-type="%s" x="%.1f" y="-15" font-family="%s" font-size="11" text-anchor="middle">%s</text>`+"\n",
			escapeXML(c.Type), x0+bw/2, fontFamily, escapeXML(c.Name))
	}

	for _, row := range rows {
		i, ok := students[row.ID]
		if !ok {
			continue
		}
		st := a.Students[i]

		openRow(&buf, row, positions[row.ID])
		writeRowBackground(&buf, row.Rank, -m.left, r.width, r.rowHeight)
		if st.Avatar != "" {
			writeAvatar(&buf, r.basePath+st.Avatar, -m.left+20, (r.rowHeight-40)/2, 40, false)
		}
		writeName(&buf, st.Name, -m.left+70, r.rowHeight/2)

		for _, c := range cols {
			x0, _ := x.Map(c.ID)
			state := st.Interactions[c.ID]
			mark := markFor(state)
			label := string(state)
			if label == "" {
				label = "no interaction"
			}
			fmt.Fprintf(&buf, `    <g class="cell" data-resource="%s" data-state="%s"><title>%s: %s</title>`,
				escapeXML(c.ID), escapeXML(string(state)), escapeXML(c.Name), escapeXML(label))
			fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="20" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text></g>`+"\n",
				x0+bw/2, r.rowHeight/2, mark.color, mark.icon)
		}

		fmt.Fprintf(&buf, `    <text class="progress" x="%.1f" y="%.1f" font-family="monospace" font-size="12" dominant-baseline="central">%d/%d</text>`+"\n",
			inner+15, r.rowHeight/2, st.Progress(cols), len(cols))
		fmt.Fprintf(&buf, `    <text class="correct" x="%.1f" y="%.1f" font-family="monospace" font-size="12" dominant-baseline="central">%d</text>`+"\n",
			inner+70, r.rowHeight/2, st.Count(cols, engagement.StateCorrect))
		closeRow(&buf)
	}
	buf.WriteString("  </g>\n")
	writeFooter(&buf)
	return buf.Bytes()
}
