package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/classviz/pkg/rowlayout"
)

const (
	fontFamily   = "sans-serif"
	stripeEven   = "#FFFFFF"
	stripeOdd    = "#F8F8F8"
	maxLineChars = 20
)

const grayscaleFilter = `  <defs>
    <filter id="grayscale">
      <feColorMatrix type="matrix" values="0.3333 0.3333 0.3333 0 0 0.3333 0.3333 0.3333 0 0 0.3333 0.3333 0.3333 0 0 0 0 0 1 0"/>
    </filter>
  </defs>
`

type margin struct{ top, right, bottom, left float64 }

func writeHeader(buf *bytes.Buffer, width, height float64, transition time.Duration) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(grayscaleFilter)
	fmt.Fprintf(buf, "  <style>\n    .row { transition: transform %dms ease; }\n    .row-bg { transition: fill %dms ease; }\n    .sort-header { cursor: pointer; user-select: none; }\n    .sort-header.active { font-weight: bold; }\n  </style>\n",
		transition.Milliseconds(), transition.Milliseconds())
}

func writeFooter(buf *bytes.Buffer) {
	buf.WriteString("</svg>\n")
}

// openRow starts a row group translated to its rank offset. The group id is
// derived from the row ID so that in-place updates keep the element.
func openRow(buf *bytes.Buffer, row rowlayout.Row, offset float64) {
	fmt.Fprintf(buf, `  <g class="row" id="row-%s" data-rank="%d" style="transform: translate(0px, %.1fpx)">`+"\n",
		escapeXML(row.ID), row.Rank, offset)
}

func closeRow(buf *bytes.Buffer) {
	buf.WriteString("  </g>\n")
}

func stripeFill(rank int) string {
	if rowlayout.Striped(rank) {
		return stripeOdd
	}
	return stripeEven
}

func writeRowBackground(buf *bytes.Buffer, rank int, x, width, height float64) {
	fmt.Fprintf(buf, `    <rect class="row-bg" x="%.1f" y="0" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.5"/>`+"\n",
		x, width, height, stripeFill(rank))
}

// writeSortHeader draws a clickable column header, marked with an arrow when
// it is the active sort column.
func writeSortHeader(buf *bytes.Buffer, column, label string, x, y float64, state rowlayout.SortState) {
	class := "sort-header"
	if state.Column == column {
		class += " active"
		if state.Direction == rowlayout.Descending {
			label += " ▼"
		} else {
			label += " ▲"
		}
	}
	fmt.Fprintf(buf, `  <text class="%s" data-column="%s" x="%.1f" y="%.1f" font-family="%s" font-size="13">%s</text>`+"\n",
		class, escapeXML(column), x, y, fontFamily, escapeXML(label))
}

func writeAvatar(buf *bytes.Buffer, href string, x, y, size float64, gray bool) {
	if href == "" {
		return
	}
	filter := ""
	if gray {
		filter = ` filter="url(#grayscale)"`
	}
	fmt.Fprintf(buf, `    <image class="avatar" href="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" clip-path="circle(50%%)"%s/>`+"\n",
		escapeXML(href), x, y, size, size, filter)
}

// writeName draws a name wrapped to lines of at most maxLineChars
// characters, vertically centered on cy.
func writeName(buf *bytes.Buffer, name string, x, cy float64) {
	lines := wrapWords(name, maxLineChars)
	y := cy - float64(len(lines)-1)*7
	fmt.Fprintf(buf, `    <text class="name" x="%.1f" y="%.1f" font-family="%s" font-size="12" dominant-baseline="central">`, x, y, fontFamily)
	for i, ln := range lines {
		dy := "0"
		if i > 0 {
			dy = "1.2em"
		}
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%s">%s</tspan>`, x, dy, escapeXML(ln))
	}
	buf.WriteString("</text>\n")
}

// wrapWords splits s on spaces into lines no longer than limit. A single
// word longer than limit gets a line of its own.
func wrapWords(s string, limit int) []string {
	var lines []string
	var line string
	for _, w := range strings.Fields(s) {
		candidate := strings.TrimSpace(line + " " + w)
		if len([]rune(candidate)) > limit && line != "" {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// indexByID returns a lookup from row ID to the position of the matching
// record in the dataset.
func indexByID(n int, id func(i int) string) map[string]int {
	idx := make(map[string]int, n)
	for i := 0; i < n; i++ {
		idx[id(i)] = i
	}
	return idx
}
