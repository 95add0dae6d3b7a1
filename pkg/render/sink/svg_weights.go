package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/render/scale"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

var weightsMargin = margin{top: 40, right: 30, bottom: 20, left: 20}

const weightColor = "#6B7280"

// RenderWeightsSVG draws one row per graded component. The square in front
// of the title grows with the weight, the heaviest filling the row height.
// Items weighing nothing have no row.
func RenderWeightsSVG(w engagement.Weights, rows []rowlayout.Row, opts ...Option) []byte {
	r := newRenderer(engagement.KindWeights, opts...)
	m := weightsMargin
	height := float64(len(rows)) * r.rowHeight
	box := max(0, r.rowHeight-10)

	size := scale.Linear{Domain: [2]float64{0, w.MaxWeight()}, Range: [2]float64{0, box}}
	items := w.Visible()
	byID := indexByID(len(items), func(i int) string {
		return engagement.StudentID(items[i].Key, items[i].Title)
	})
	positions := rowlayout.Positions(rows, r.rowHeight)

	var buf bytes.Buffer
	writeHeader(&buf, r.width, height+m.top+m.bottom, r.transition)
	writeSortHeader(&buf, engagement.ColumnTitle, "Component", m.left+box+60, m.top-15, r.state)
	writeSortHeader(&buf, engagement.ColumnWeight, "Weight", r.width-m.right-80, m.top-15, r.state)

	fmt.Fprintf(&buf, `  <g class="chart" transform="translate(%.1f,%.1f)">`+"\n", m.left, m.top)
	for _, row := range rows {
		i, ok := byID[row.ID]
		if !ok {
			continue
		}
		it := items[i]
		s := size.Map(it.Weight)

		openRow(&buf, row, positions[row.ID])
		writeRowBackground(&buf, row.Rank, -m.left, r.width, r.rowHeight)
		if it.Description != "" {
			fmt.Fprintf(&buf, "    <title>%s</title>\n", escapeXML(it.Description))
		}
		fmt.Fprintf(&buf, `    <rect class="weight" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s"/>`+"\n",
			(box-s)/2, (r.rowHeight-s)/2, s, s, weightColor)
		if it.Img != "" {
			writeAvatar(&buf, r.basePath+it.Img, box+20, (r.rowHeight-30)/2, 30, false)
		}
		writeName(&buf, it.Title, box+60, r.rowHeight/2)
		fmt.Fprintf(&buf, `    <text class="weight-label" x="%.1f" y="%.1f" font-family="monospace" font-size="12" dominant-baseline="central">%g kg</text>`+"\n",
			r.width-m.left-m.right-80, r.rowHeight/2, it.Weight)
		closeRow(&buf)
	}
	buf.WriteString("  </g>\n")
	writeFooter(&buf)
	return buf.Bytes()
}
