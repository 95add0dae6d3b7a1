package sink

import (
	"bytes"
	"fmt"
	"time"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/render/scale"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

// timelinePadding extends the time axis before and after the event.
const timelinePadding = 30 * time.Minute

var timelineMargin = margin{top: 50, right: 20, bottom: 40, left: 350}

// RenderTimelineSVG draws an attendance timeline. rows must come from
// [engagement.TimelineRows] for t, ranked by a [rowlayout.Layout]; rows whose
// ID matches no student are skipped.
//
// Session bars are colored by [engagement.Classify] using the configured
// delay. Students without sessions get a grayscale avatar.
func RenderTimelineSVG(t engagement.Timeline, rows []rowlayout.Row, opts ...Option) []byte {
	r := newRenderer(engagement.KindTimeline, opts...)
	m := timelineMargin
	inner := r.width - m.left - m.right
	height := float64(len(rows)) * r.rowHeight
	total := height + m.top + m.bottom

	x := scale.Time{
		Domain: [2]time.Time{t.Event.Start.Add(-timelinePadding), t.Event.End.Add(timelinePadding)},
		Range:  [2]float64{0, inner},
	}
	students := indexByID(len(t.Students), func(i int) string {
		return engagement.StudentID(t.Students[i].ID, t.Students[i].Name)
	})
	positions := rowlayout.Positions(rows, r.rowHeight)
	eventMinutes := t.Event.Minutes()

	var buf bytes.Buffer
	writeHeader(&buf, r.width, total, r.transition)
	writeTitle(&buf, t.Event.Title, t.Event.Subtitle, m.left)

	// Column headers and the before/during/after labels.
	writeSortHeader(&buf, engagement.ColumnName, "Student", 10, m.top-20, r.state)
	writeSortHeader(&buf, engagement.ColumnStats, "Time/Connections", m.left-120, m.top-20, r.state)
	evStart, evEnd := x.Map(t.Event.Start), x.Map(t.Event.End)
	fmt.Fprintf(&buf, `  <g class="phases" transform="translate(%.1f,%.1f)" font-family="%s" font-size="13">`+"\n", m.left, m.top-25, fontFamily)
	fmt.Fprintf(&buf, `    <text x="%.1f" text-anchor="end">Before</text>`+"\n", evStart-10)
	fmt.Fprintf(&buf, `    <text x="%.1f" text-anchor="middle" font-weight="bold">During</text>`+"\n", (evStart+evEnd)/2)
	fmt.Fprintf(&buf, `    <text x="%.1f" text-anchor="start">After</text>`+"\n", evEnd+20)
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, `  <g class="chart" transform="translate(%.1f,%.1f)">`+"\n", m.left, m.top)
	fmt.Fprintf(&buf, `  <rect class="event-window" x="%.1f" y="0" width="%.1f" height="%.1f" fill="#e0e0e05a"/>`+"\n",
		evStart, evEnd-evStart, height)

	barHeight := 15.0
	avatar := r.rowHeight * 0.8
	for _, row := range rows {
		i, ok := students[row.ID]
		if !ok {
			continue
		}
		st := t.Students[i]
		minutes := engagement.TotalMinutes(st, t.Event)
		color := engagement.Classify(minutes, eventMinutes, r.delay).Color()

		openRow(&buf, row, positions[row.ID])
		writeRowBackground(&buf, row.Rank, -m.left, r.width, r.rowHeight)
		if st.Avatar != "" {
			writeAvatar(&buf, r.basePath+st.Avatar, -m.left+10, (r.rowHeight-avatar)/2, avatar, st.Offline())
		}
		if st.Offline() {
			fmt.Fprintf(&buf, `    <image class="status-icon" href="%s" x="%.1f" y="4" width="16" height="16"/>`+"\n",
				escapeXML(r.basePath+"img/offline.png"), -m.left+10)
		}
		writeName(&buf, st.Name, -m.left+10+avatar+6, r.rowHeight/2)

		fmt.Fprintf(&buf, `    <text class="stats" x="-120" y="%.1f" font-family="%s" font-size="12" dominant-baseline="central">`+
			`<tspan x="-120" dy="-0.5em">%s</tspan><tspan x="-120" dy="1.2em">%d con.</tspan></text>`+"\n",
			r.rowHeight/2, fontFamily, engagement.FormatMinutes(minutes), len(st.Sessions))

		fmt.Fprintf(&buf, `    <rect class="timeline-bg" x="0" y="%.1f" width="%.1f" height="%.1f" fill="#00000011"/>`+"\n",
			r.rowHeight/3, inner, r.rowHeight/3)
		for _, s := range st.Sessions {
			x0, x1 := x.Map(s.Start), x.Map(s.End)
			fmt.Fprintf(&buf, `    <rect class="session" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				x0, r.rowHeight/2-barHeight/2, max(0, x1-x0), barHeight, color)
		}
		closeRow(&buf)
	}

	writeTimeAxis(&buf, x, height)
	buf.WriteString("  </g>\n")
	writeFooter(&buf)
	return buf.Bytes()
}

func writeTitle(buf *bytes.Buffer, title, subtitle string, x float64) {
	if title == "" {
		return
	}
	fmt.Fprintf(buf, `  <text class="title" x="%.1f" y="16" font-family="%s" font-size="15" font-weight="bold">%s</text>`+"\n",
		x, fontFamily, escapeXML(title))
	if subtitle != "" {
		fmt.Fprintf(buf, `  <text class="subtitle" x="%.1f" y="32" font-family="%s" font-size="12" fill="#555">%s</text>`+"\n",
			x, fontFamily, escapeXML(subtitle))
	}
}

// writeTimeAxis draws hourly ticks labeled HH:MM below the rows.
func writeTimeAxis(buf *bytes.Buffer, x scale.Time, y float64) {
	fmt.Fprintf(buf, `  <g class="axis" transform="translate(0,%.1f)" font-family="%s" font-size="10">`+"\n", y, fontFamily)
	fmt.Fprintf(buf, `    <line x1="%.1f" x2="%.1f" stroke="#000"/>`+"\n", x.Range[0], x.Range[1])
	for _, tick := range x.Ticks(time.Hour) {
		px := x.Map(tick)
		fmt.Fprintf(buf, `    <line x1="%.1f" x2="%.1f" y2="6" stroke="#000"/><text x="%.1f" y="18" text-anchor="middle">%s</text>`+"\n",
			px, px, px, tick.Format("15:04"))
	}
	buf.WriteString("  </g>\n")
}
