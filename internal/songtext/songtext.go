package songtext

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the line variants of a normalized song document.
type Kind int

const (
	KindLyrics Kind = iota
	KindChords
	KindSection
	KindEmpty
)

// ChordPosition anchors a chord label at a code-point offset in a lyric
// line. Offsets from the scraper are noisy: they may arrive unsorted and
// sometimes point past the end of the string, so consumers clamp instead
// of validating.
type ChordPosition struct {
	Chord string `json:"chord"`
	At    int    `json:"at"`
}

// Line is one line of a song document. Exactly one variant is populated,
// according to Kind.
type Line struct {
	Kind   Kind
	Index  int             // stable position in the document, set at decode time
	Lyrics string          // KindLyrics
	Chords []ChordPosition // KindLyrics
	Labels []string        // KindChords, in document order
	Text   string          // KindSection
}

// Document is the normalized song handed over by the scraping edge
// function. It is immutable for the lifetime of a viewing session:
// transposition and font size are view parameters, never mutations.
type Document struct {
	ID    string
	Lines []Line
}

func NewLyricsLine(lyrics string, chords []ChordPosition) Line {
	return Line{Kind: KindLyrics, Lyrics: lyrics, Chords: chords}
}

func NewChordsLine(labels []string) Line {
	return Line{Kind: KindChords, Labels: labels}
}

func NewSectionLine(text string) Line {
	return Line{Kind: KindSection, Text: text}
}

func NewEmptyLine() Line {
	return Line{Kind: KindEmpty}
}

// lineJSON is the wire shape of a document line. The "chords" field is a
// list of {chord, at} objects on lyrics lines and a list of plain labels
// on chords-only lines, so it is kept raw until the type tag is known.
type lineJSON struct {
	Type   string          `json:"type"`
	Lyrics string          `json:"lyrics,omitempty"`
	Chords json.RawMessage `json:"chords,omitempty"`
	Text   string          `json:"text,omitempty"`
}

// UnmarshalJSON decodes one tagged line. Unknown type tags decode as an
// empty line: the document must stay renderable even when the scraper
// grows new line kinds before the viewer does.
func (l *Line) UnmarshalJSON(data []byte) error {
	var raw lineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Type {
	case "lyrics":
		var chords []ChordPosition
		if len(raw.Chords) > 0 {
			if err := json.Unmarshal(raw.Chords, &chords); err != nil {
				return fmt.Errorf("lyrics line chords: %w", err)
			}
		}
		*l = NewLyricsLine(raw.Lyrics, chords)
	case "chords":
		var labels []string
		if len(raw.Chords) > 0 {
			if err := json.Unmarshal(raw.Chords, &labels); err != nil {
				return fmt.Errorf("chords line labels: %w", err)
			}
		}
		*l = NewChordsLine(labels)
	case "section":
		*l = NewSectionLine(raw.Text)
	default:
		*l = NewEmptyLine()
	}
	return nil
}

// MarshalJSON encodes a line back into its tagged wire shape.
func (l Line) MarshalJSON() ([]byte, error) {
	raw := lineJSON{}
	switch l.Kind {
	case KindLyrics:
		raw.Type = "lyrics"
		raw.Lyrics = l.Lyrics
		if l.Chords != nil {
			b, err := json.Marshal(l.Chords)
			if err != nil {
				return nil, err
			}
			raw.Chords = b
		}
	case KindChords:
		raw.Type = "chords"
		if l.Labels != nil {
			b, err := json.Marshal(l.Labels)
			if err != nil {
				return nil, err
			}
			raw.Chords = b
		}
	case KindSection:
		raw.Type = "section"
		raw.Text = l.Text
	default:
		raw.Type = "empty"
	}
	return json.Marshal(raw)
}

// DecodeDocument parses the edge-function payload and assigns each line
// its stable index. The index is the document key used by layout and
// debugging surfaces; pointer identity is never relied on.
func DecodeDocument(id string, data []byte) (*Document, error) {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode song document: %w", err)
	}
	for i := range lines {
		lines[i].Index = i
	}
	return &Document{ID: id, Lines: lines}, nil
}

// Encode serializes the document lines back to the wire format.
func (d *Document) Encode() ([]byte, error) {
	lines := d.Lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}
