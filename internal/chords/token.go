package chords

// Token is a chord label decomposed into the parts transposition cares
// about. Everything between the root and the optional bass (numbers, "m",
// "maj", "sus", "add", "dim" and whatever else the source invents) is an
// opaque suffix that passes through untouched.
type Token struct {
	Root   string
	Suffix string
	Bass   string
}

// ParseToken decomposes a single chord label. The second return is false
// when the label has no recognizable root, in which case callers must
// treat the input as plain text and pass it through unchanged.
func ParseToken(label string) (Token, bool) {
	runes := []rune(label)
	root, rest := takeNote(runes)
	if root == "" {
		return Token{}, false
	}

	// Scan the suffix up to a "/" that introduces a bass note. A "/"
	// followed by anything that is not exactly a note stays in the
	// suffix, so labels like "D/" or "C/x" survive a round trip.
	for i := 0; i < len(rest); i++ {
		if rest[i] != '/' {
			continue
		}
		bass, tail := takeNote(rest[i+1:])
		if bass != "" && len(tail) == 0 {
			return Token{Root: root, Suffix: string(rest[:i]), Bass: bass}, true
		}
	}
	return Token{Root: root, Suffix: string(rest)}, true
}

// takeNote consumes a note spelling (natural letter plus at most one
// accidental) from the front of runes. It returns "" when the front is
// not a note.
func takeNote(runes []rune) (string, []rune) {
	if len(runes) == 0 || runes[0] < 'A' || runes[0] > 'G' {
		return "", runes
	}
	if len(runes) > 1 && isAccidental(runes[1]) {
		return string(runes[:2]), runes[2:]
	}
	return string(runes[:1]), runes[1:]
}

func isAccidental(r rune) bool {
	return r == '#' || r == 'b' || r == '♯' || r == '♭'
}

// String reassembles the label.
func (t Token) String() string {
	if t.Bass != "" {
		return t.Root + t.Suffix + "/" + t.Bass
	}
	return t.Root + t.Suffix
}

// Transpose shifts the root and bass by the same semitone delta and keeps
// the suffix verbatim.
func (t Token) Transpose(semitones int) Token {
	out := Token{
		Root:   TransposeNote(t.Root, semitones),
		Suffix: t.Suffix,
	}
	if t.Bass != "" {
		out.Bass = TransposeNote(t.Bass, semitones)
	}
	return out
}
