// Package render is the text measuring and drawing surface of the
// viewer. It lays lines out on a monospace grid: chord labels sit on
// their own row above the lyric row, columns wrap at a fixed rune width,
// and heights are reported in pixels derived from the font size so that
// font and transposition changes retrigger measurement.
package render

import (
	"strings"

	"github.com/sukalov/chordview/internal/layout"
	"github.com/sukalov/chordview/internal/segment"
	"github.com/sukalov/chordview/internal/songtext"
)

// Renderer renders song lines at one set of view parameters. It
// implements layout.Measurer, so the same instance that draws a page is
// the one that measured it.
type Renderer struct {
	width     int // column width in character cells
	fontSize  int // pixels
	semitones int
	opts      segment.Options
}

const (
	// rowFactor approximates a 1.25 line height in integer math.
	rowFactorNum = 5
	rowFactorDen = 4

	minWidth    = 8
	minFontSize = 8
)

func NewRenderer(width, fontSize, semitones int) *Renderer {
	if width < minWidth {
		width = minWidth
	}
	if fontSize < minFontSize {
		fontSize = minFontSize
	}
	return &Renderer{
		width:     width,
		fontSize:  fontSize,
		semitones: semitones,
		opts:      segment.DefaultOptions(),
	}
}

// RowHeight is the pixel height of one text row at the renderer's font
// size.
func (r *Renderer) RowHeight() int {
	return r.fontSize * rowFactorNum / rowFactorDen
}

// MeasureHeight reports the rendered pixel height of one line.
func (r *Renderer) MeasureHeight(line songtext.Line) int {
	return len(r.renderRows(line)) * r.RowHeight()
}

// renderRows lays one line out as rows of at most width cells. Lyrics
// lines with chords produce alternating chord/text row pairs; everything
// else produces plain text rows.
func (r *Renderer) renderRows(line songtext.Line) []string {
	switch line.Kind {
	case songtext.KindLyrics:
		segs := segment.SplitWithOptions(line.Lyrics, line.Chords, r.semitones, r.opts)
		if len(segs) == 0 {
			return []string{""}
		}
		return r.rowsFromSegments(segs)
	case songtext.KindChords:
		labels := segment.ChordsOnlyLabels(line.Labels, r.semitones)
		return wrapCells([]rune(strings.Join(labels, "  ")), r.width)
	case songtext.KindSection:
		return wrapCells([]rune(line.Text), r.width)
	default:
		return []string{""}
	}
}

// rowsFromSegments aligns a chord row over a text row cell by cell, then
// wraps both in parallel at the column width. Every wrapped chunk of a
// line with chords keeps its own chord row so the pair never drifts
// apart.
func (r *Renderer) rowsFromSegments(segs []segment.Segment) []string {
	var chordCells, textCells []rune
	hasChords := false
	for _, seg := range segs {
		label := strings.Join(seg.Labels, " ")
		if label != "" {
			hasChords = true
		}
		text := []rune(seg.Text)
		cellWidth := len(text)
		if w := len([]rune(label)) + 1; seg.Labels != nil && w > cellWidth {
			cellWidth = w
		}
		chordCells = append(chordCells, padCells([]rune(label), cellWidth)...)
		textCells = append(textCells, padCells(text, cellWidth)...)
	}

	if !hasChords {
		return wrapCells(textCells, r.width)
	}

	chordRows := wrapCells(chordCells, r.width)
	textRows := wrapCells(textCells, r.width)
	rows := make([]string, 0, len(chordRows)+len(textRows))
	for i := 0; i < len(chordRows) || i < len(textRows); i++ {
		if i < len(chordRows) {
			rows = append(rows, chordRows[i])
		} else {
			rows = append(rows, "")
		}
		if i < len(textRows) {
			rows = append(rows, textRows[i])
		} else {
			rows = append(rows, "")
		}
	}
	return rows
}

// RenderPage draws one page of a layout as plain text, columns side by
// side separated by a gutter. RTL lyric text passes through untouched;
// display direction belongs to the terminal or the message renderer.
func (r *Renderer) RenderPage(lay layout.Layout, page int) string {
	if page < 0 || page >= len(lay.Pages) {
		return ""
	}

	columns := make([][]string, 0, len(lay.Pages[page].Columns))
	tallest := 0
	for _, col := range lay.Pages[page].Columns {
		var rows []string
		for _, line := range col {
			rows = append(rows, r.renderRows(line)...)
		}
		if len(rows) > tallest {
			tallest = len(rows)
		}
		columns = append(columns, rows)
	}

	var b strings.Builder
	for row := 0; row < tallest; row++ {
		for c, col := range columns {
			cell := ""
			if row < len(col) {
				cell = col[row]
			}
			if c < len(columns)-1 {
				b.WriteString(padCell(cell, r.width))
				b.WriteString("  ")
			} else {
				b.WriteString(cell)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Semitones reports the transposition baked into this renderer, for
// signature keying by the driving layer.
func (r *Renderer) Semitones() int { return r.semitones }

// FontSize reports the font size baked into this renderer.
func (r *Renderer) FontSize() int { return r.fontSize }

// Width reports the column width in cells.
func (r *Renderer) Width() int { return r.width }

// Signature builds the input-signature key for a pagination pass driven
// through this renderer.
func (r *Renderer) Signature(docID string, containerHeight, columnCount int) layout.Signature {
	return layout.Signature{
		DocID:           docID,
		Semitones:       r.semitones,
		FontSize:        r.fontSize,
		ContainerHeight: containerHeight,
		ColumnCount:     columnCount,
		ColumnWidth:     r.width,
	}
}

func padCells(cells []rune, width int) []rune {
	for len(cells) < width {
		cells = append(cells, ' ')
	}
	return cells
}

func padCell(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}

// wrapCells chunks a row of cells at the column width, trimming the
// trailing padding of each chunk.
func wrapCells(cells []rune, width int) []string {
	if len(cells) == 0 {
		return []string{""}
	}
	var rows []string
	for start := 0; start < len(cells); start += width {
		end := start + width
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, strings.TrimRight(string(cells[start:end]), " "))
	}
	return rows
}
