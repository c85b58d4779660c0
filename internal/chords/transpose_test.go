package chords

import (
	"reflect"
	"testing"
)

func TestTransposeNote(t *testing.T) {
	tests := []struct {
		note      string
		semitones int
		want      string
	}{
		{"C", 2, "D"},
		{"C", -1, "B"},
		{"A", 3, "C"},
		{"B", 1, "C"},
		{"G#", 1, "A"},
		{"F#", 6, "C"},
		{"C", 14, "D"},
		{"C", -13, "B"},
		// Flat spellings stay in the flat family.
		{"Bb", 2, "C"},
		{"Eb", 2, "F"},
		{"Db", 1, "D"},
		{"Ab", -2, "Gb"},
		{"E♭", 1, "E"},
		{"F♯", 1, "G"},
		// Unicode accidental glyphs survive a shift, full octaves included.
		{"E♭", 12, "E♭"},
		{"F♯", 12, "F♯"},
		{"A♭", -2, "G♭"},
		{"B♭", 2, "C"},
	}
	for _, tt := range tests {
		if got := TransposeNote(tt.note, tt.semitones); got != tt.want {
			t.Errorf("TransposeNote(%q, %d) = %q, want %q", tt.note, tt.semitones, got, tt.want)
		}
	}
}

func TestTransposeNoteZeroIsIdentity(t *testing.T) {
	// Zero semitones returns the input byte-identical, quirky spellings
	// included.
	for _, note := range []string{"C", "Bb", "E♭", "Cb", "B#", "x", ""} {
		if got := TransposeNote(note, 0); got != note {
			t.Errorf("TransposeNote(%q, 0) = %q", note, got)
		}
	}
}

func TestTransposeNoteUnknownPassthrough(t *testing.T) {
	for _, note := range []string{"H", "x", "?", ""} {
		if got := TransposeNote(note, 5); got != note {
			t.Errorf("TransposeNote(%q, 5) = %q, want unchanged", note, got)
		}
	}
}

func TestTransposeChord(t *testing.T) {
	tests := []struct {
		label     string
		semitones int
		want      string
	}{
		{"Am", 2, "Bm"},
		{"E7", 2, "F#7"},
		{"C#/G", 1, "D/G#"},
		{"F#m7/A", -2, "Em7/G"},
		{"Bbmaj7", 2, "Cmaj7"},
		{"Dsus4", 7, "Asus4"},
		{"not a chord", 3, "not a chord"},
		{"Am", 0, "Am"},
	}
	for _, tt := range tests {
		if got := TransposeChord(tt.label, tt.semitones); got != tt.want {
			t.Errorf("TransposeChord(%q, %d) = %q, want %q", tt.label, tt.semitones, got, tt.want)
		}
	}
}

func TestTransposeChordRoundTrip(t *testing.T) {
	// Round trips hold for chords that start in the canonical sharp
	// spelling. Flat spellings may legitimately come back sharp after
	// crossing the boundary, so they are not asserted here.
	labels := []string{"C", "C#m7", "D7/F#", "Em", "G#dim", "A#sus2", "Badd9"}
	for _, label := range labels {
		for n := -24; n <= 24; n++ {
			if got := TransposeChord(TransposeChord(label, n), -n); got != label {
				t.Errorf("round trip %q by %d = %q", label, n, got)
			}
		}
	}
}

func TestTransposeChordFullOctave(t *testing.T) {
	// Twelve semitones is spelling-identical for every parseable chord,
	// flats included.
	labels := []string{"C", "Bb", "Ebm7", "F#m7/A", "Gbmaj7/Db", "Am", "E♭m7", "F♯m7/A"}
	for _, label := range labels {
		if got := TransposeChord(label, 12); got != label {
			t.Errorf("TransposeChord(%q, 12) = %q", label, got)
		}
		if got := TransposeChord(label, -12); got != label {
			t.Errorf("TransposeChord(%q, -12) = %q", label, got)
		}
	}
}

func TestSplitAndTranspose(t *testing.T) {
	tests := []struct {
		label     string
		semitones int
		want      []string
	}{
		{"E7Am", 2, []string{"F#7", "Bm"}},
		{"AmDm", -2, []string{"Gm", "Cm"}},
		{"Bm7b5", 1, []string{"Cm7b5"}},
		{"Am", 0, []string{"Am"}},
	}
	for _, tt := range tests {
		if got := SplitAndTranspose(tt.label, tt.semitones); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitAndTranspose(%q, %d) = %v, want %v", tt.label, tt.semitones, got, tt.want)
		}
	}
}

func TestSemitonesFromTones(t *testing.T) {
	tests := []struct {
		tones float64
		want  int
	}{
		{0, 0},
		{0.5, 1},
		{-0.5, -1},
		{1, 2},
		{-2.5, -5},
		{3, 6},
	}
	for _, tt := range tests {
		if got := SemitonesFromTones(tt.tones); got != tt.want {
			t.Errorf("SemitonesFromTones(%v) = %d, want %d", tt.tones, got, tt.want)
		}
	}
}
