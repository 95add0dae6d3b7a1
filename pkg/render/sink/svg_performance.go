package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/render/scale"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

var performanceMargin = margin{top: 40, right: 60, bottom: 20, left: 250}

const (
	subBarHeight  = 16.0
	subBarSpacing = 6.0
	colorTotal    = "#E5E7EB"
	colorWrong    = "#EF4444"
	colorRight    = "#10B981"
)

// RenderPerformanceSVG draws one group of stacked bars per student, one bar
// per difficulty: the gray total, red incorrect answers and green correct
// answers after them, followed by an "answered/total" label.
func RenderPerformanceSVG(p engagement.Performance, rows []rowlayout.Row, opts ...Option) []byte {
	r := newRenderer(engagement.KindPerformance, opts...)
	m := performanceMargin
	inner := r.width - m.left - m.right
	height := float64(len(rows)) * r.rowHeight

	x := scale.Linear{Domain: [2]float64{0, float64(p.MaxTotal())}, Range: [2]float64{0, inner * 0.7}}
	students := indexByID(len(p.Students), func(i int) string {
		return engagement.StudentID(p.Students[i].ID, p.Students[i].Name)
	})
	positions := rowlayout.Positions(rows, r.rowHeight)

	var buf bytes.Buffer
	writeHeader(&buf, r.width, height+m.top+m.bottom, r.transition)
	writeSortHeader(&buf, engagement.ColumnName, "Student", 20, m.top-15, r.state)
	writeSortHeader(&buf, engagement.ColumnAnswered, "Answered / Total", m.left, m.top-15, r.state)

	fmt.Fprintf(&buf, `  <g class="chart" transform="translate(%.1f,%.1f)">`+"\n", m.left, m.top)
	for _, row := range rows {
		i, ok := students[row.ID]
		if !ok {
			continue
		}
		st := p.Students[i]

		openRow(&buf, row, positions[row.ID])
		writeRowBackground(&buf, row.Rank, -m.left, r.width, r.rowHeight)
		if st.Avatar != "" {
			writeAvatar(&buf, r.basePath+st.Avatar, -m.left+20, r.rowHeight/2-25, 50, false)
		}
		writeName(&buf, st.Name, -m.left+80, r.rowHeight/2)

		buf.WriteString(`    <g class="bars" transform="translate(0,15)">` + "\n")
		for j, perf := range st.Performances {
			y := float64(j) * (subBarHeight + subBarSpacing)
			fmt.Fprintf(&buf, `      <g class="difficulty" data-label="%s"><title>%s: %d correct, %d incorrect</title>`+"\n",
				escapeXML(perf.Label), escapeXML(perf.Label), perf.Correct, perf.Incorrect)
			writeBar(&buf, 0, y, x.Map(float64(perf.Total)), colorTotal)
			writeBar(&buf, 0, y, x.Map(float64(perf.Incorrect)), colorWrong)
			writeBar(&buf, x.Map(float64(perf.Incorrect)), y, x.Map(float64(perf.Correct)), colorRight)
			fmt.Fprintf(&buf, `        <text x="%.1f" y="%.1f" dominant-baseline="middle" font-family="monospace" font-size="11" fill="#6B7280">%02d/%02d</text>`+"\n",
				x.Map(float64(perf.Total))+10, y+subBarHeight/2, perf.Answered(), perf.Total)
			buf.WriteString("      </g>\n")
		}
		buf.WriteString("    </g>\n")
		closeRow(&buf)
	}
	buf.WriteString("  </g>\n")
	writeFooter(&buf)
	return buf.Bytes()
}

func writeBar(buf *bytes.Buffer, x, y, w float64, fill string) {
	fmt.Fprintf(buf, `        <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`+"\n",
		x, y, max(0, w), subBarHeight, fill)
}
