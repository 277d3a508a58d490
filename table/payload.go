// Package table implements the sparse cell-span model for table blocks:
// rectangular merges over a rows×cols grid plus the normalization that
// reconciles hand-authored hidden flags with span metadata.
package table

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Style selects the table rendering style.
type Style string

const (
	StyleNormal    Style = "normal"
	StyleThreeLine Style = "three-line"
)

// Cell is one grid position. Rowspan and Colspan are meaningful only on a
// non-hidden master cell; zero means an unset span of one. A hidden cell is
// covered by some master's rectangle and renders nothing.
type Cell struct {
	Content string `json:"content"`
	Rowspan int    `json:"rowspan,omitempty"`
	Colspan int    `json:"colspan,omitempty"`
	Hidden  bool   `json:"hidden,omitempty"`
}

// span treats the zero value as a span of one.
func span(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// Payload is the storage-level representation of one table block. All
// operations over it are pure, a table block owns exactly one payload and
// replaces it wholesale on every change.
type Payload struct {
	Caption string   `json:"caption,omitempty"`
	Style   Style    `json:"style,omitempty"`
	Rows    int      `json:"rows"`
	Cols    int      `json:"cols"`
	Cells   [][]Cell `json:"cells"`
}

func (p Payload) clone() Payload {
	out := p
	out.Cells = make([][]Cell, len(p.Cells))
	for i, row := range p.Cells {
		out.Cells[i] = make([]Cell, len(row))
		copy(out.Cells[i], row)
	}
	return out
}

// Marshal serializes the payload back to its storage record.
func (p Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// Default returns an empty rows×cols payload (at least 1×1).
func Default(rows, cols int) Payload {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
	}
	return Payload{Rows: rows, Cols: cols, Cells: cells}
}

// storageRecord tolerates both record shapes: the full cell-object form with
// integer rows/cols, and the legacy plain 2-D text form where "rows" holds
// the cell contents themselves.
type storageRecord struct {
	Caption string          `json:"caption"`
	Style   Style           `json:"style"`
	Rows    json.RawMessage `json:"rows"`
	Cols    int             `json:"cols"`
	Cells   [][]Cell        `json:"cells"`
}

// Decode parses a stored table record. Structural errors are never
// propagated: anything unusable falls back to an empty rows×cols payload.
// The result is always normalized.
func Decode(data []byte, rows, cols int, log *zap.Logger) Payload {
	if log == nil {
		log = zap.NewNop()
	}

	var rec storageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Warn("Unable to decode table record, using empty payload", zap.Error(err))
		return Default(rows, cols)
	}

	// Legacy form first: "rows" is a 2-D array of cell text.
	var legacy [][]string
	if err := json.Unmarshal(rec.Rows, &legacy); err == nil {
		return decodeLegacy(rec, legacy, rows, cols, log)
	}

	var rowCount int
	if err := json.Unmarshal(rec.Rows, &rowCount); err != nil {
		log.Warn("Table record has unusable rows field, using empty payload", zap.String("rows", string(rec.Rows)))
		return Default(rows, cols)
	}
	p := Payload{
		Caption: rec.Caption,
		Style:   rec.Style,
		Rows:    rowCount,
		Cols:    rec.Cols,
		Cells:   rec.Cells,
	}
	return Normalize(p, log)
}

// decodeLegacy upgrades the plain 2-D text form to the full cell-object
// form. Grid dimensions come from the data itself, no span metadata exists.
func decodeLegacy(rec storageRecord, rows [][]string, defRows, defCols int, log *zap.Logger) Payload {
	if len(rows) == 0 {
		return Default(defRows, defCols)
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return Default(defRows, defCols)
	}
	log.Debug("Upgrading legacy table record", zap.Int("rows", len(rows)), zap.Int("cols", cols))

	p := Payload{
		Caption: rec.Caption,
		Style:   rec.Style,
		Rows:    len(rows),
		Cols:    cols,
		Cells:   make([][]Cell, len(rows)),
	}
	for i, row := range rows {
		p.Cells[i] = make([]Cell, cols)
		for j, content := range row {
			p.Cells[i][j].Content = content
		}
	}
	return Normalize(p, log)
}
