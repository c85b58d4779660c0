package chords

import (
	"math"
	"strings"
)

// The chromatic scale with sharp spellings as the canonical internal
// representation, index 0 = C .. 11 = B. Flat spellings exist only at the
// parse and display edges.
var sharpScale = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var flatScale = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

var noteIndex = map[string]int{
	"C": 0, "C#": 1, "Db": 1,
	"D": 2, "D#": 3, "Eb": 3,
	"E": 4, "F": 5,
	"F#": 6, "Gb": 6,
	"G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10,
	"B": 11,
}

var accidentalNormalizer = strings.NewReplacer("♯", "#", "♭", "b")

// noteAt resolves a note spelling (unicode accidentals included) to its
// chromatic index. The second return reports whether the spelling is a
// recognizable note at all.
func noteAt(note string) (int, bool) {
	idx, ok := noteIndex[accidentalNormalizer.Replace(note)]
	return idx, ok
}

// usesFlat reports whether a note spelling carries a flat accidental.
func usesFlat(note string) bool {
	return strings.ContainsAny(note, "b♭")
}

// TransposeNote shifts a single note by the given number of semitones,
// preserving the sharp/flat family of the original spelling. Zero
// semitones and unrecognizable notes are returned byte-identical.
func TransposeNote(note string, semitones int) string {
	if semitones == 0 {
		return note
	}
	idx, ok := noteAt(note)
	if !ok {
		return note
	}
	shifted := ((idx+semitones)%12 + 12) % 12
	if usesFlat(note) {
		return restoreGlyphs(flatScale[shifted], note)
	}
	return restoreGlyphs(sharpScale[shifted], note)
}

// restoreGlyphs keeps the accidental glyph family of the source
// spelling: "E♭" shifted by a full octave stays "E♭", not "Eb".
func restoreGlyphs(spelled, source string) string {
	if strings.ContainsRune(source, '♭') {
		return strings.ReplaceAll(spelled, "b", "♭")
	}
	if strings.ContainsRune(source, '♯') {
		return strings.ReplaceAll(spelled, "#", "♯")
	}
	return spelled
}

// TransposeChord shifts a whole chord label by the given number of
// semitones. Root and bass move by the same delta, the modifier suffix is
// reattached verbatim. Labels with no recognizable root pass through
// unchanged.
func TransposeChord(label string, semitones int) string {
	if semitones == 0 {
		return label
	}
	tok, ok := ParseToken(label)
	if !ok {
		return label
	}
	return tok.Transpose(semitones).String()
}

// SplitAndTranspose recovers the individual chords glued into a scraped
// label and transposes each of them. This is the full per-label pipeline
// used for rendering.
func SplitAndTranspose(label string, semitones int) []string {
	parts := Tokenize(label)
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = TransposeChord(part, semitones)
	}
	return out
}

// SemitonesFromTones converts the UI transposition value (whole tones with
// half-tone steps) into the semitone count the engine works in.
func SemitonesFromTones(tones float64) int {
	return int(math.Round(tones * 2))
}
