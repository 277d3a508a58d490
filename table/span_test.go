package table

import (
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"
)

// grid builds a payload from plain contents, no spans.
func grid(contents [][]string) Payload {
	p := Payload{Rows: len(contents), Cols: len(contents[0])}
	p.Cells = make([][]Cell, p.Rows)
	for i, row := range contents {
		p.Cells[i] = make([]Cell, p.Cols)
		for j, content := range row {
			p.Cells[i][j].Content = content
		}
	}
	return p
}

func TestNormalize(t *testing.T) {
	log := zaptest.NewLogger(t)

	t.Run("pads_missing_cells", func(t *testing.T) {
		p := Payload{Rows: 2, Cols: 3, Cells: [][]Cell{{{Content: "a"}}}}
		got := Normalize(p, log)
		if len(got.Cells) != 2 || len(got.Cells[0]) != 3 || len(got.Cells[1]) != 3 {
			t.Fatalf("grid = %+v", got.Cells)
		}
		if got.Cells[0][0].Content != "a" {
			t.Fatalf("content lost: %+v", got.Cells[0][0])
		}
	})

	t.Run("truncates_extra_cells", func(t *testing.T) {
		p := grid([][]string{{"a", "b"}, {"c", "d"}})
		p.Rows, p.Cols = 1, 1
		got := Normalize(p, log)
		if len(got.Cells) != 1 || len(got.Cells[0]) != 1 {
			t.Fatalf("grid = %+v", got.Cells)
		}
	})

	t.Run("repairs_missing_colspan", func(t *testing.T) {
		p := grid([][]string{{"a", ""}})
		p.Cells[0][1].Hidden = true
		got := Normalize(p, log)
		if got.Cells[0][0].Colspan != 2 {
			t.Fatalf("colspan = %d, want 2", got.Cells[0][0].Colspan)
		}
	})

	t.Run("repairs_missing_rowspan", func(t *testing.T) {
		p := grid([][]string{{"a"}, {""}})
		p.Cells[1][0].Hidden = true
		got := Normalize(p, log)
		if got.Cells[0][0].Rowspan != 2 {
			t.Fatalf("rowspan = %d, want 2", got.Cells[0][0].Rowspan)
		}
	})

	t.Run("left_wins_over_above", func(t *testing.T) {
		// (1,1) is hidden, both (1,0) and (0,1) could cover it. The left
		// neighbour's colspan is extended, the cell above stays untouched.
		p := grid([][]string{{"a", "b"}, {"c", ""}})
		p.Cells[1][1].Hidden = true
		got := Normalize(p, log)
		if got.Cells[1][0].Colspan != 2 {
			t.Fatalf("left colspan = %d, want 2", got.Cells[1][0].Colspan)
		}
		if got.Cells[0][1].Rowspan != 0 {
			t.Fatalf("above rowspan = %d, want untouched", got.Cells[0][1].Rowspan)
		}
	})

	t.Run("consistent_spans_left_alone", func(t *testing.T) {
		p := grid([][]string{{"a", ""}})
		p.Cells[0][0].Colspan = 2
		p.Cells[0][1].Hidden = true
		got := Normalize(p, log)
		if !reflect.DeepEqual(got, p) {
			t.Fatalf("payload changed: %+v", got)
		}
	})
}

func TestMergeRect(t *testing.T) {
	log := zaptest.NewLogger(t)

	t.Run("merges_full_rectangle", func(t *testing.T) {
		p := grid([][]string{{"A", "B"}, {"C", "D"}})
		got := MergeRect(p, 0, 0, 1, 1, log)
		master := got.Cells[0][0]
		if master.Content != "A\nB\nC\nD" || master.Rowspan != 2 || master.Colspan != 2 {
			t.Fatalf("master = %+v", master)
		}
		for _, pos := range [][2]int{{0, 1}, {1, 0}, {1, 1}} {
			cell := got.Cells[pos[0]][pos[1]]
			if !cell.Hidden || cell.Content != "" {
				t.Fatalf("cell %v = %+v", pos, cell)
			}
		}
	})

	t.Run("corners_are_order_independent", func(t *testing.T) {
		p := grid([][]string{{"A", "B"}, {"C", "D"}})
		a := MergeRect(p, 0, 0, 1, 1, log)
		b := MergeRect(p, 1, 1, 0, 0, log)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("corner order changed the result")
		}
	})

	t.Run("skips_empty_contents", func(t *testing.T) {
		p := grid([][]string{{"A", "  "}, {"", "D"}})
		got := MergeRect(p, 0, 0, 1, 1, log)
		if got.Cells[0][0].Content != "A\nD" {
			t.Fatalf("content = %q", got.Cells[0][0].Content)
		}
	})

	t.Run("conflicting_merge_is_noop", func(t *testing.T) {
		p := grid([][]string{{"A", "B", "E"}, {"C", "D", "F"}})
		merged := MergeRect(p, 0, 0, 1, 1, log)
		again := MergeRect(merged, 0, 0, 1, 1, log)
		if !reflect.DeepEqual(merged, again) {
			t.Fatalf("second merge modified the payload")
		}
		overlapping := MergeRect(merged, 0, 1, 1, 2, log)
		if !reflect.DeepEqual(merged, overlapping) {
			t.Fatalf("overlapping merge modified the payload")
		}
	})
}

func TestUnmerge(t *testing.T) {
	log := zaptest.NewLogger(t)

	t.Run("does_not_restore_contents", func(t *testing.T) {
		p := grid([][]string{{"A", "B"}, {"C", "D"}})
		got := Unmerge(MergeRect(p, 0, 0, 1, 1, log), 0, 0, log)
		if got.Cells[0][0].Content != "A\nB\nC\nD" {
			t.Fatalf("master content = %q", got.Cells[0][0].Content)
		}
		for _, pos := range [][2]int{{0, 1}, {1, 0}, {1, 1}} {
			cell := got.Cells[pos[0]][pos[1]]
			if cell.Hidden || cell.Content != "" {
				t.Fatalf("cell %v = %+v", pos, cell)
			}
		}
		if got.Cells[0][0].Rowspan != 0 || got.Cells[0][0].Colspan != 0 {
			t.Fatalf("master spans not cleared: %+v", got.Cells[0][0])
		}
	})

	t.Run("unmerged_cell_is_noop", func(t *testing.T) {
		p := grid([][]string{{"A", "B"}})
		got := Unmerge(p, 0, 0, log)
		if !reflect.DeepEqual(got, Normalize(p, log)) {
			t.Fatalf("payload changed: %+v", got)
		}
	})

	t.Run("out_of_bounds_is_noop", func(t *testing.T) {
		p := grid([][]string{{"A"}})
		got := Unmerge(p, 5, 5, log)
		if !reflect.DeepEqual(got, Normalize(p, log)) {
			t.Fatalf("payload changed: %+v", got)
		}
	})
}

func TestFlattenMerges(t *testing.T) {
	log := zaptest.NewLogger(t)

	p := grid([][]string{{"A", "B"}, {"C", "D"}})
	merged := MergeRect(p, 0, 0, 0, 1, log)
	got := FlattenMerges(merged)
	for i := range got.Cells {
		for j := range got.Cells[i] {
			cell := got.Cells[i][j]
			if cell.Hidden || cell.Rowspan != 0 || cell.Colspan != 0 {
				t.Fatalf("cell (%d,%d) = %+v", i, j, cell)
			}
		}
	}
	// contents stay in place, including the merge concatenation
	if got.Cells[0][0].Content != "A\nB" {
		t.Fatalf("content = %q", got.Cells[0][0].Content)
	}
	if got.Cells[1][0].Content != "C" {
		t.Fatalf("content = %q", got.Cells[1][0].Content)
	}
}
