package table

import (
	"strings"

	"go.uber.org/zap"
)

// Normalize resizes the grid to exactly rows×cols and repairs span metadata
// so that every hidden cell is covered by some master's rectangle. The data
// may be hand-authored or machine-generated with hidden flags but missing
// span numbers, this is the single place that reconciles them.
func Normalize(p Payload, log *zap.Logger) Payload {
	if log == nil {
		log = zap.NewNop()
	}
	out := p.clone()
	if out.Rows < 1 {
		out.Rows = 1
	}
	if out.Cols < 1 {
		out.Cols = 1
	}

	// Exact rows×cols grid, padding with empty cells or truncating.
	if len(out.Cells) > out.Rows {
		out.Cells = out.Cells[:out.Rows]
	}
	for len(out.Cells) < out.Rows {
		out.Cells = append(out.Cells, make([]Cell, out.Cols))
	}
	for i := range out.Cells {
		if len(out.Cells[i]) > out.Cols {
			out.Cells[i] = out.Cells[i][:out.Cols]
		}
		for len(out.Cells[i]) < out.Cols {
			out.Cells[i] = append(out.Cells[i], Cell{})
		}
	}

	// Span inference repair. For each uncovered hidden cell the nearest
	// non-hidden cell to the left is extended first, the one above is only
	// consulted when the row holds no candidate. Keep this priority, the
	// persisted corpus depends on it.
	for r := 0; r < out.Rows; r++ {
		for c := 0; c < out.Cols; c++ {
			if !out.Cells[r][c].Hidden {
				continue
			}
			left := nearestNonHiddenLeft(out, r, c)
			if left >= 0 && span(out.Cells[r][left].Colspan) >= c-left+1 {
				continue
			}
			up := nearestNonHiddenUp(out, r, c)
			if up >= 0 && span(out.Cells[up][c].Rowspan) >= r-up+1 {
				continue
			}
			switch {
			case left >= 0:
				out.Cells[r][left].Colspan = c - left + 1
				log.Debug("Repaired table span", zap.Int("row", r), zap.Int("col", left), zap.Int("colspan", c-left+1))
			case up >= 0:
				out.Cells[up][c].Rowspan = r - up + 1
				log.Debug("Repaired table span", zap.Int("row", up), zap.Int("col", c), zap.Int("rowspan", r-up+1))
			}
		}
	}
	return out
}

func nearestNonHiddenLeft(p Payload, r, c int) int {
	for j := c - 1; j >= 0; j-- {
		if !p.Cells[r][j].Hidden {
			return j
		}
	}
	return -1
}

func nearestNonHiddenUp(p Payload, r, c int) int {
	for i := r - 1; i >= 0; i-- {
		if !p.Cells[i][c].Hidden {
			return i
		}
	}
	return -1
}

// FlattenMerges returns a copy with every span and hidden flag cleared, a
// full un-merge of the whole grid with contents kept in place.
func FlattenMerges(p Payload) Payload {
	out := p.clone()
	for i := range out.Cells {
		for j := range out.Cells[i] {
			out.Cells[i][j].Rowspan = 0
			out.Cells[i][j].Colspan = 0
			out.Cells[i][j].Hidden = false
		}
	}
	return out
}

// MergeRect merges the bounding rectangle of the two given corners. When the
// rectangle touches an existing merge the call is a no-op returning the
// normalized but otherwise unmodified payload: merges never cascade and
// never override each other. On success the top-left cell becomes the master
// holding the newline-joined non-empty contents of the whole rectangle.
func MergeRect(p Payload, r1, c1, r2, c2 int, log *zap.Logger) Payload {
	out := Normalize(p, log)

	r1, r2 = ordered(r1, r2)
	c1, c2 = ordered(c1, c2)
	r1, r2 = clamp(r1, out.Rows-1), clamp(r2, out.Rows-1)
	c1, c2 = clamp(c1, out.Cols-1), clamp(c2, out.Cols-1)

	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			cell := out.Cells[r][c]
			if cell.Hidden || span(cell.Rowspan) > 1 || span(cell.Colspan) > 1 {
				return out
			}
		}
	}

	var parts []string
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			if content := strings.TrimSpace(out.Cells[r][c].Content); content != "" {
				parts = append(parts, content)
			}
		}
	}

	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			if r == r1 && c == c1 {
				continue
			}
			out.Cells[r][c] = Cell{Hidden: true}
		}
	}
	master := &out.Cells[r1][c1]
	master.Content = strings.Join(parts, "\n")
	master.Rowspan = r2 - r1 + 1
	master.Colspan = c2 - c1 + 1
	return out
}

// Unmerge dissolves the rectangle owned by the cell at (r, c). Covered cells
// become visible again but empty, the merge concatenated their contents into
// the master and that is not undone. A cell without a span is a no-op.
func Unmerge(p Payload, r, c int, log *zap.Logger) Payload {
	out := Normalize(p, log)
	if r < 0 || r >= out.Rows || c < 0 || c >= out.Cols {
		return out
	}
	master := &out.Cells[r][c]
	rs, cs := span(master.Rowspan), span(master.Colspan)
	if rs == 1 && cs == 1 {
		return out
	}
	master.Rowspan = 0
	master.Colspan = 0
	for i := r; i < r+rs && i < out.Rows; i++ {
		for j := c; j < c+cs && j < out.Cols; j++ {
			if i == r && j == c {
				continue
			}
			cell := &out.Cells[i][j]
			cell.Hidden = false
			cell.Rowspan = 0
			cell.Colspan = 0
		}
	}
	return out
}

func ordered(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
