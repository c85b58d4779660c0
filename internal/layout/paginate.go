// Package layout partitions an ordered sequence of song lines into pages
// of fixed-column layouts. It never truncates: every line lands in
// exactly one column, in document order, and no column is allowed to
// grow past the container height.
package layout

import (
	"github.com/sukalov/chordview/internal/songtext"
)

// Measurer reports the rendered height of one line at the current view
// parameters (font size, column width, transposition). The hosting layer
// supplies it; the paginator itself never renders anything.
type Measurer interface {
	MeasureHeight(line songtext.Line) int
}

// MeasureAll measures every line of a document. A degenerate measurement
// (zero or negative) degrades to height 0 rather than aborting: a line
// the surface failed to measure still has to land somewhere.
func MeasureAll(m Measurer, lines []songtext.Line) []int {
	heights := make([]int, len(lines))
	for i, line := range lines {
		if h := m.MeasureHeight(line); h > 0 {
			heights[i] = h
		}
	}
	return heights
}

// Page is one screen of the song: a fixed number of columns, each an
// ordered run of lines. Trailing columns may be empty; they are padded in
// so the caller can always render a constant grid.
type Page struct {
	Columns [][]songtext.Line
}

// Layout is the paged arrangement of a whole document. Flattening it in
// (page, column, position) order reproduces the input lines exactly.
type Layout struct {
	Pages       []Page
	ColumnCount int
}

// TotalPages is reported to the navigation controls.
func (l Layout) TotalPages() int {
	return len(l.Pages)
}

// Paginate partitions lines into pages of columnCount columns, given the
// measured height of each line and the pixel height of the container.
//
// A greedy pass first packs lines in order, closing a column as soon as
// the next line would overflow it; this fixes the minimum number of
// columns and which lines belong to which page. A second, page-local pass
// then rebalances each page so column heights approach the page average
// instead of front-loading everything into the first column. The balance
// pass never moves a line across a page boundary and never reintroduces
// an overflow: if a balanced page would break the height limit, the
// greedy split for that page is kept.
func Paginate(lines []songtext.Line, heights []int, containerHeight, columnCount int) Layout {
	if columnCount < 1 {
		columnCount = 1
	}

	clamped := make([]int, len(lines))
	for i := range lines {
		if i < len(heights) && heights[i] > 0 {
			clamped[i] = heights[i]
		}
	}

	columns := greedyColumns(clamped, containerHeight)

	var pages []Page
	for start := 0; start < len(columns); start += columnCount {
		end := start + columnCount
		if end > len(columns) {
			end = len(columns)
		}
		pages = append(pages, buildPage(lines, clamped, columns[start:end], containerHeight, columnCount))
	}
	if len(pages) == 0 {
		pages = []Page{buildPage(lines, clamped, nil, containerHeight, columnCount)}
	}

	return Layout{Pages: pages, ColumnCount: columnCount}
}

// column is a half-open range [start, end) of line indices.
type column struct {
	start, end int
}

// greedyColumns packs lines in order, starting a new column whenever the
// next line would push the running height past the limit. A single line
// taller than the container still gets a column of its own: the height
// limit yields to the no-truncation guarantee for pathological inputs.
func greedyColumns(heights []int, containerHeight int) []column {
	var cols []column
	start := 0
	acc := 0
	for i, h := range heights {
		if i > start && acc+h > containerHeight {
			cols = append(cols, column{start: start, end: i})
			start = i
			acc = 0
		}
		acc += h
	}
	if start < len(heights) {
		cols = append(cols, column{start: start, end: len(heights)})
	}
	return cols
}

// buildPage materializes one page from its greedy columns, rebalancing
// and padding to the fixed column count.
func buildPage(lines []songtext.Line, heights []int, greedy []column, containerHeight, columnCount int) Page {
	balanced := balance(heights, greedy, containerHeight)

	page := Page{Columns: make([][]songtext.Line, 0, columnCount)}
	for _, col := range balanced {
		page.Columns = append(page.Columns, lines[col.start:col.end:col.end])
	}
	for len(page.Columns) < columnCount {
		page.Columns = append(page.Columns, nil)
	}
	return page
}

// balance redistributes the lines of one page across its columns so each
// column's height approaches the page average. A line is deferred to the
// next column when it would overshoot the target and enough lines remain
// to give every later column at least one. The greedy split is returned
// unchanged when rebalancing would overflow a column.
func balance(heights []int, greedy []column, containerHeight int) []column {
	if len(greedy) < 2 {
		return greedy
	}

	start, end := greedy[0].start, greedy[len(greedy)-1].end
	total := 0
	for i := start; i < end; i++ {
		total += heights[i]
	}
	active := len(greedy)
	target := (total + active - 1) / active

	out := make([]column, 0, active)
	idx := start
	for c := 0; c < active; c++ {
		colStart := idx
		acc := 0
		for idx < end {
			h := heights[idx]
			if idx > colStart {
				if acc+h > containerHeight {
					break
				}
				remainingCols := active - c - 1
				if c < active-1 && acc+h > target && end-idx >= remainingCols {
					break
				}
			}
			acc += h
			idx++
		}
		if c == active-1 {
			idx = end
		}
		out = append(out, column{start: colStart, end: idx})
	}

	for _, col := range out {
		if columnHeight(heights, col) > containerHeight && !oversized(heights, col, containerHeight) {
			return greedy
		}
	}
	return out
}

func columnHeight(heights []int, col column) int {
	sum := 0
	for i := col.start; i < col.end; i++ {
		sum += heights[i]
	}
	return sum
}

// oversized reports a single-line column whose one line is itself taller
// than the container. Such a line overflows in any arrangement.
func oversized(heights []int, col column, containerHeight int) bool {
	return col.end-col.start == 1 && heights[col.start] > containerHeight
}

// Signature keys an in-flight measurement/pagination pass. The driving
// layer compares signatures before committing results so a layout
// computed for a song, transposition, font size or viewport the user has
// already left is discarded instead of applied.
type Signature struct {
	DocID           string
	Semitones       int
	FontSize        int
	ContainerHeight int
	ColumnCount     int
	ColumnWidth     int
}
