package layout

import (
	"fmt"
	"testing"

	"github.com/sukalov/chordview/internal/songtext"
)

func makeLines(n int) []songtext.Line {
	lines := make([]songtext.Line, n)
	for i := range lines {
		lines[i] = songtext.NewLyricsLine(fmt.Sprintf("line %d", i), nil)
		lines[i].Index = i
	}
	return lines
}

func uniform(n, h int) []int {
	heights := make([]int, n)
	for i := range heights {
		heights[i] = h
	}
	return heights
}

// flatten walks a layout in (page, column, position) order.
func flatten(l Layout) []songtext.Line {
	var out []songtext.Line
	for _, page := range l.Pages {
		for _, col := range page.Columns {
			out = append(out, col...)
		}
	}
	return out
}

func assertConserved(t *testing.T, l Layout, lines []songtext.Line) {
	t.Helper()
	flat := flatten(l)
	if len(flat) != len(lines) {
		t.Fatalf("flattened layout has %d lines, want %d", len(flat), len(lines))
	}
	for i := range flat {
		if flat[i].Index != lines[i].Index {
			t.Fatalf("line %d out of order: got index %d", i, flat[i].Index)
		}
	}
}

func assertHardLimit(t *testing.T, l Layout, heights []int, containerHeight int) {
	t.Helper()
	pos := 0
	for p, page := range l.Pages {
		for c, col := range page.Columns {
			sum := 0
			for range col {
				sum += heights[pos]
				pos++
			}
			if sum > containerHeight && len(col) > 1 {
				t.Errorf("page %d column %d height %d exceeds %d", p, c, sum, containerHeight)
			}
		}
	}
}

func TestPaginateTenLinesTwoColumns(t *testing.T) {
	lines := makeLines(10)
	heights := uniform(10, 50)

	l := Paginate(lines, heights, 220, 2)

	if l.TotalPages() != 2 {
		t.Fatalf("TotalPages() = %d, want 2", l.TotalPages())
	}
	got := []int{
		len(l.Pages[0].Columns[0]), len(l.Pages[0].Columns[1]),
		len(l.Pages[1].Columns[0]), len(l.Pages[1].Columns[1]),
	}
	want := []int{4, 4, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column sizes = %v, want %v", got, want)
		}
	}
	assertConserved(t, l, lines)
	assertHardLimit(t, l, heights, 220)
}

func TestPaginateBalancesWithinPage(t *testing.T) {
	// Greedy packs 300/220; balancing moves the third line over so the
	// page is not front-loaded, while staying under the limit.
	lines := makeLines(6)
	heights := []int{100, 100, 100, 100, 100, 20}

	l := Paginate(lines, heights, 320, 2)

	if l.TotalPages() != 1 {
		t.Fatalf("TotalPages() = %d, want 1", l.TotalPages())
	}
	if n := len(l.Pages[0].Columns[0]); n != 2 {
		t.Errorf("first column has %d lines, want 2", n)
	}
	if n := len(l.Pages[0].Columns[1]); n != 4 {
		t.Errorf("second column has %d lines, want 4", n)
	}
	assertConserved(t, l, lines)
	assertHardLimit(t, l, heights, 320)
}

func TestPaginateBalanceNeverSplitsAcrossPages(t *testing.T) {
	lines := makeLines(9)
	heights := uniform(9, 100)

	l := Paginate(lines, heights, 250, 2)

	// Greedy: columns of 2, so pages of 4 lines; page membership is fixed
	// before balancing.
	if l.TotalPages() != 3 {
		t.Fatalf("TotalPages() = %d, want 3", l.TotalPages())
	}
	for p, page := range l.Pages[:2] {
		total := 0
		for _, col := range page.Columns {
			total += len(col)
		}
		if total != 4 {
			t.Errorf("page %d holds %d lines, want 4", p, total)
		}
	}
	assertConserved(t, l, lines)
	assertHardLimit(t, l, heights, 250)
}

func TestPaginateEmptyDocument(t *testing.T) {
	l := Paginate(nil, nil, 220, 3)

	if l.TotalPages() != 1 {
		t.Fatalf("TotalPages() = %d, want 1", l.TotalPages())
	}
	if len(l.Pages[0].Columns) != 3 {
		t.Fatalf("page has %d columns, want 3", len(l.Pages[0].Columns))
	}
	for c, col := range l.Pages[0].Columns {
		if len(col) != 0 {
			t.Errorf("column %d not empty", c)
		}
	}
}

func TestPaginateOversizedLine(t *testing.T) {
	// A line taller than the container still gets its own column; content
	// is never dropped.
	lines := makeLines(3)
	heights := []int{50, 500, 50}

	l := Paginate(lines, heights, 220, 2)

	assertConserved(t, l, lines)
	if l.TotalPages() != 2 {
		t.Fatalf("TotalPages() = %d, want 2", l.TotalPages())
	}
	if n := len(l.Pages[0].Columns[1]); n != 1 {
		t.Errorf("oversized line shares a column with %d-1 others", n)
	}
}

func TestPaginatePadsEveryPage(t *testing.T) {
	lines := makeLines(3)
	l := Paginate(lines, uniform(3, 10), 100, 4)

	for p, page := range l.Pages {
		if len(page.Columns) != 4 {
			t.Errorf("page %d has %d columns, want 4", p, len(page.Columns))
		}
	}
}

func TestPaginateColumnCountFloor(t *testing.T) {
	lines := makeLines(2)
	l := Paginate(lines, uniform(2, 10), 100, 0)

	if l.ColumnCount != 1 {
		t.Fatalf("ColumnCount = %d, want 1", l.ColumnCount)
	}
	assertConserved(t, l, lines)
}

func TestPaginateDegenerateHeights(t *testing.T) {
	// Zero, negative and missing heights degrade to 0 instead of
	// breaking pagination.
	lines := makeLines(4)
	l := Paginate(lines, []int{0, -5, 10}, 100, 2)
	assertConserved(t, l, lines)
}

func TestMeasureAll(t *testing.T) {
	lines := makeLines(3)
	heights := MeasureAll(measurerFunc(func(line songtext.Line) int {
		switch line.Index {
		case 0:
			return 40
		case 1:
			return -3
		default:
			return 0
		}
	}), lines)

	want := []int{40, 0, 0}
	for i := range want {
		if heights[i] != want[i] {
			t.Fatalf("MeasureAll() = %v, want %v", heights, want)
		}
	}
}

type measurerFunc func(songtext.Line) int

func (f measurerFunc) MeasureHeight(line songtext.Line) int { return f(line) }
