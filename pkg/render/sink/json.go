package sink

import (
	"encoding/json"

	"github.com/matzehuels/classviz/pkg/rowlayout"
)

type jsonOutput struct {
	Sort      jsonSort   `json:"sort"`
	RowHeight float64    `json:"row_height"`
	Height    float64    `json:"height"`
	Rows      []jsonRow  `json:"rows"`
	Moves     []jsonMove `json:"moves,omitempty"`
}

type jsonSort struct {
	Column    string `json:"column,omitempty"`
	Direction string `json:"direction,omitempty"`
}

type jsonRow struct {
	ID      string         `json:"id"`
	Label   string         `json:"label"`
	Rank    int            `json:"rank"`
	Offset  float64        `json:"offset"`
	Striped bool           `json:"striped,omitempty"`
	Keys    map[string]any `json:"keys,omitempty"`
}

type jsonMove struct {
	ID   string `json:"id"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// RenderJSON exports the ranked rows with their vertical offsets and the
// active sort state, in rank order. Moves recorded with [WithMoves] are
// included so a client can animate the change itself.
//
// Only row height, sort state and moves are read from opts.
func RenderJSON(rows []rowlayout.Row, opts ...Option) ([]byte, error) {
	r := newRenderer("", opts...)
	positions := rowlayout.Positions(rows, r.rowHeight)

	out := jsonOutput{
		RowHeight: r.rowHeight,
		Height:    float64(len(rows)) * r.rowHeight,
		Rows:      make([]jsonRow, len(rows)),
	}
	if r.state.IsSet() {
		out.Sort = jsonSort{Column: r.state.Column, Direction: r.state.Direction.String()}
	}
	for i, row := range rows {
		out.Rows[i] = jsonRow{
			ID:      row.ID,
			Label:   row.Label,
			Rank:    row.Rank,
			Offset:  positions[row.ID],
			Striped: rowlayout.Striped(row.Rank),
			Keys:    jsonKeys(row.Keys),
		}
	}
	for _, m := range r.moves {
		if m.Moved() {
			out.Moves = append(out.Moves, jsonMove{ID: m.ID, From: m.From, To: m.To})
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

func jsonKeys(keys map[string]rowlayout.Key) map[string]any {
	if len(keys) == 0 {
		return nil
	}
	out := make(map[string]any, len(keys))
	for col, k := range keys {
		if k.IsNumber() {
			out[col] = k.Number()
		} else {
			out[col] = k.String()
		}
	}
	return out
}
