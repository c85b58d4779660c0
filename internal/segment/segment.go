// Package segment places chord labels above the correct runs of lyric
// text. Raw chord offsets from the scraper frequently land mid-word
// (an artifact of the upstream RTL/LTR offset translation), which would
// strand a single trailing letter on line wrap, so the segmenter snaps
// anchors back to word starts before cutting the line.
package segment

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sukalov/chordview/internal/chords"
	"github.com/sukalov/chordview/internal/songtext"
)

// Segment is one display unit: an optional stack of chord labels over a
// run of lyric text. Concatenating the Text of every segment of a line
// reproduces the lyric line, up to the final-trim and placeholder rules.
type Segment struct {
	Text   string
	Labels []string // nil when no chord is anchored to this run
}

// Options carries the display-tuning knobs of the segmenter. The values
// are heuristics, not correctness rules, so they stay configurable.
type Options struct {
	// Placeholder replaces zero-width segment text (two chords back to
	// back with nothing between them) so the chord stack keeps its
	// layout width.
	Placeholder string

	// MinRun is the shortest text run, in runes, a chord segment may
	// keep for itself. A shorter segment is folded into the one after
	// it, stacking the labels of both. Zero disables folding.
	MinRun int
}

// DefaultOptions matches the tuning the viewer ships with.
func DefaultOptions() Options {
	return Options{
		Placeholder: "\u00a0",
		MinRun:      0,
	}
}

// Split builds the display segments for a lyric line with DefaultOptions.
func Split(lyrics string, positions []songtext.ChordPosition, semitones int) []Segment {
	return SplitWithOptions(lyrics, positions, semitones, DefaultOptions())
}

// SplitWithOptions builds the display segments for a lyric line.
//
// Chords are sorted by offset, clamped into the line, snapped back to the
// nearest word start that does not cross the previous chord's segment,
// and grouped when several land on the same snapped offset. Each group
// claims the text up to the next group's start; text before the first
// group becomes a chord-less segment. Only the final segment has trailing
// whitespace trimmed, so interior word separation survives rendering.
func SplitWithOptions(lyrics string, positions []songtext.ChordPosition, semitones int, opts Options) []Segment {
	if lyrics == "" {
		return nil
	}
	if len(positions) == 0 {
		return []Segment{{Text: lyrics}}
	}
	if opts.Placeholder == "" {
		opts.Placeholder = "\u00a0"
	}

	runes := []rune(lyrics)
	n := len(runes)

	sorted := make([]songtext.ChordPosition, len(positions))
	copy(sorted, positions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })

	type group struct {
		start  int
		labels []string
	}
	var groups []group
	prevStart := 0
	for _, pos := range sorted {
		at := snapToWordStart(runes, clamp(pos.At, 0, n), prevStart)
		label := renderLabel(pos.Chord, semitones)
		if len(groups) > 0 && groups[len(groups)-1].start == at {
			last := &groups[len(groups)-1]
			last.labels = append(last.labels, label)
		} else {
			groups = append(groups, group{start: at, labels: []string{label}})
		}
		prevStart = at
	}

	var segments []Segment
	if groups[0].start > 0 {
		segments = append(segments, Segment{Text: string(runes[:groups[0].start])})
	}
	for i, g := range groups {
		end := n
		if i+1 < len(groups) {
			end = groups[i+1].start
		}
		segments = append(segments, Segment{Text: string(runes[g.start:end]), Labels: g.labels})
	}

	segments = foldShortRuns(segments, opts.MinRun)
	return finalize(segments, opts.Placeholder)
}

// foldShortRuns merges chord segments whose text is shorter than minRun
// into the segment after them, stacking the labels of both. Folding only
// regroups: the total label count never changes. The pass builds a fresh
// slice rather than editing in place.
func foldShortRuns(segments []Segment, minRun int) []Segment {
	if minRun <= 0 {
		return segments
	}
	out := make([]Segment, 0, len(segments))
	var carryText string
	var carryLabels []string
	for i, seg := range segments {
		short := seg.Labels != nil && i < len(segments)-1 && len([]rune(seg.Text)) < minRun
		if short {
			carryText += seg.Text
			carryLabels = append(carryLabels, seg.Labels...)
			continue
		}
		if carryText != "" || len(carryLabels) > 0 {
			seg.Text = carryText + seg.Text
			seg.Labels = append(carryLabels, seg.Labels...)
			carryText, carryLabels = "", nil
		}
		out = append(out, seg)
	}
	return out
}

// finalize trims trailing whitespace off the last segment only and swaps
// zero-width texts for the placeholder.
func finalize(segments []Segment, placeholder string) []Segment {
	if len(segments) == 0 {
		return segments
	}
	last := len(segments) - 1
	segments[last].Text = strings.TrimRightFunc(segments[last].Text, unicode.IsSpace)
	for i := range segments {
		if segments[i].Text == "" {
			segments[i].Text = placeholder
		}
	}
	return segments
}

// snapToWordStart walks back from at to the nearest preceding space and
// anchors the chord at the word start after it. The snap is skipped when
// no space precedes at, or when the word start would fall inside the
// previous chord's segment.
func snapToWordStart(runes []rune, at, prevStart int) int {
	for j := at - 1; j >= 0; j-- {
		if runes[j] != ' ' {
			continue
		}
		if j+1 >= prevStart {
			return j + 1
		}
		break
	}
	if at < prevStart {
		return prevStart
	}
	return at
}

// renderLabel runs one scraped chord label through the tokenizer and the
// transposer, joining glued sub-chords with a space.
func renderLabel(label string, semitones int) string {
	parts := chords.SplitAndTranspose(label, semitones)
	if len(parts) == 0 {
		return label
	}
	return strings.Join(parts, " ")
}

// ChordsOnlyLabels transposes the labels of an instrumental line, one
// display unit per source chord, in document order. Direction is a
// rendering concern, so nothing is reversed here.
func ChordsOnlyLabels(labels []string, semitones int) []string {
	out := make([]string, len(labels))
	for i, label := range labels {
		out[i] = renderLabel(label, semitones)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
