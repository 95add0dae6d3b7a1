package sink

import (
	"bytes"
	"cmp"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/render/scale"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

var interactionsMargin = margin{top: 40, right: 30, bottom: 20, left: 350}

const (
	daySpacing   = 3.0
	defaultColor = "#ccc"
)

// RenderInteractionsSVG draws one cell per day for every student. Inside a
// cell each session is a segment colored by its interaction type, with a
// length proportional to the busiest day in the dataset.
func RenderInteractionsSVG(d engagement.Interactions, rows []rowlayout.Row, opts ...Option) []byte {
	r := newRenderer(engagement.KindInteractions, opts...)
	m := interactionsMargin
	inner := r.width - m.left - m.right
	height := float64(len(rows)) * r.rowHeight

	days := d.Days()
	dayKeys := make([]string, len(days))
	for i, day := range days {
		dayKeys[i] = day.Format(time.DateOnly)
	}
	band := scale.Band{Domain: dayKeys, Range: [2]float64{0, inner}}
	cell := inner
	if len(days) > 0 {
		cell = band.Bandwidth() - daySpacing
	}
	typeKeys := slices.Sorted(maps.Keys(d.Types))
	legendHeight := float64(len(typeKeys)) * legendRow

	totals := make(map[string][]engagement.DayTotal, len(d.Students))
	var busiest float64
	for _, st := range d.Students {
		t := d.DailyTotals(st)
		totals[engagement.StudentID(st.ID, st.Name)] = t
		for _, day := range t {
			busiest = max(busiest, day.Minutes)
		}
	}
	x := scale.Linear{Domain: [2]float64{0, busiest}, Range: [2]float64{0, cell}}
	students := indexByID(len(d.Students), func(i int) string {
		return engagement.StudentID(d.Students[i].ID, d.Students[i].Name)
	})
	positions := rowlayout.Positions(rows, r.rowHeight)

	var buf bytes.Buffer
	writeHeader(&buf, r.width, height+m.top+m.bottom+legendHeight, r.transition)
	writeSortHeader(&buf, engagement.ColumnName, "Students", 20, m.top-10, r.state)
	writeSortHeader(&buf, engagement.ColumnTotal, "Total time", m.left-90, m.top-10, r.state)
	for i, day := range days {
		x0, _ := band.Map(dayKeys[i])
		fmt.Fprintf(&buf, `  <text class="day" x="%.1f" y="%.1f" font-family="%s" font-size="11" text-anchor="middle">%s</text>`+"\n",
			m.left+x0+cell/2, m.top-10, fontFamily, day.Format("Mon 02"))
	}

	fmt.Fprintf(&buf, `  <g class="chart" transform="translate(%.1f,%.1f)">`+"\n", m.left, m.top)
	for _, row := range rows {
		i, ok := students[row.ID]
		if !ok {
			continue
		}
		st := d.Students[i]
		daily := totals[row.ID]

		openRow(&buf, row, positions[row.ID])
		writeRowBackground(&buf, row.Rank, -m.left, r.width, r.rowHeight)
		if st.AvatarURL != "" {
			writeAvatar(&buf, r.basePath+st.AvatarURL, -m.left+20, r.rowHeight/2-25, 50, false)
		}
		writeName(&buf, st.Name, -m.left+80, r.rowHeight/2)
		fmt.Fprintf(&buf, `    <text class="total" x="-50" y="%.1f" font-family="%s" font-size="12" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			r.rowHeight/2, fontFamily, engagement.FormatHours(d.GrandTotal(st)))

		for _, day := range daily {
			cx, _ := band.Map(day.Date.Format(time.DateOnly))
			fmt.Fprintf(&buf, `    <g class="day-cell" transform="translate(%.1f,%.1f)"><title>%s: %s</title>`+"\n",
				cx, r.rowHeight/4, day.Date.Format("2006-01-02"), engagement.FormatHours(day.Minutes))
			fmt.Fprintf(&buf, `      <rect width="%.1f" height="%.1f" fill="#00000008"/>`+"\n", max(0, cell), r.rowHeight/2)
			var offset float64
			for _, s := range day.Sessions {
				w := x.Map(s.Minutes())
				if w <= 0 {
					continue
				}
				color := defaultColor
				if meta, ok := d.Types[s.Type]; ok && meta.Color != "" {
					color = meta.Color
				}
				fmt.Fprintf(&buf, `      <rect class="session" data-type="%s" x="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
					escapeXML(s.Type), offset, w, r.rowHeight/2, escapeXML(color))
				offset += w
			}
			buf.WriteString("    </g>\n")
		}
		closeRow(&buf)
	}
	buf.WriteString("  </g>\n")
	writeLegend(&buf, d.Types, typeKeys, m.top+height+m.bottom, r.basePath)
	writeFooter(&buf)
	return buf.Bytes()
}

const legendRow = 24.0

// writeLegend lists the interaction types below the chart, one per line,
// with their color swatch and description.
func writeLegend(buf *bytes.Buffer, types map[string]engagement.InteractionType, keys []string, top float64, basePath string) {
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(buf, `  <g class="legend" transform="translate(20,%.1f)">`+"\n", top)
	for i, k := range keys {
		t := types[k]
		color := t.Color
		if color == "" {
			color = defaultColor
		}
		y := float64(i) * legendRow
		fmt.Fprintf(buf, `    <g class="legend-item" data-type="%s">`, escapeXML(k))
		if t.IconURL != "" {
			fmt.Fprintf(buf, `<image href="%s" x="0" y="%.1f" width="16" height="16"/>`, escapeXML(basePath+t.IconURL), y)
		}
		fmt.Fprintf(buf, `<rect x="20" y="%.1f" width="12" height="12" fill="%s"/>`, y+2, escapeXML(color))
		fmt.Fprintf(buf, `<text x="40" y="%.1f" font-family="%s" font-size="12" dominant-baseline="central"><tspan font-weight="bold" fill="%s">%s</tspan>`,
			y+8, fontFamily, escapeXML(color), escapeXML(cmp.Or(t.Name, k)))
		if t.Legend != "" {
			fmt.Fprintf(buf, ` %s`, escapeXML(t.Legend))
		}
		buf.WriteString("</text></g>\n")
	}
	buf.WriteString("  </g>\n")
}
