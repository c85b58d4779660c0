package songtext

import (
	"reflect"
	"testing"
)

const sampleDoc = `[
	{"type": "section", "text": "Chorus:"},
	{"type": "lyrics", "lyrics": "שלום עולם", "chords": [{"chord": "Am", "at": 0}, {"chord": "E", "at": 5}]},
	{"type": "chords", "chords": ["Am", "E7Am", "Dm"]},
	{"type": "empty"},
	{"type": "lyrics", "lyrics": "no chords here"}
]`

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument("42", []byte(sampleDoc))
	if err != nil {
		t.Fatalf("DecodeDocument() error: %v", err)
	}
	if doc.ID != "42" {
		t.Errorf("ID = %q, want %q", doc.ID, "42")
	}
	if len(doc.Lines) != 5 {
		t.Fatalf("decoded %d lines, want 5", len(doc.Lines))
	}

	wantKinds := []Kind{KindSection, KindLyrics, KindChords, KindEmpty, KindLyrics}
	for i, k := range wantKinds {
		if doc.Lines[i].Kind != k {
			t.Errorf("line %d kind = %v, want %v", i, doc.Lines[i].Kind, k)
		}
		if doc.Lines[i].Index != i {
			t.Errorf("line %d index = %d", i, doc.Lines[i].Index)
		}
	}

	lyr := doc.Lines[1]
	if lyr.Lyrics != "שלום עולם" {
		t.Errorf("lyrics = %q", lyr.Lyrics)
	}
	wantChords := []ChordPosition{{Chord: "Am", At: 0}, {Chord: "E", At: 5}}
	if !reflect.DeepEqual(lyr.Chords, wantChords) {
		t.Errorf("chords = %+v, want %+v", lyr.Chords, wantChords)
	}

	if want := []string{"Am", "E7Am", "Dm"}; !reflect.DeepEqual(doc.Lines[2].Labels, want) {
		t.Errorf("labels = %v, want %v", doc.Lines[2].Labels, want)
	}
	if doc.Lines[0].Text != "Chorus:" {
		t.Errorf("section text = %q", doc.Lines[0].Text)
	}
	if doc.Lines[4].Chords != nil {
		t.Errorf("chordless lyrics line decoded chords %+v", doc.Lines[4].Chords)
	}
}

func TestDecodeDocumentUnknownKind(t *testing.T) {
	// New line kinds from the scraper must not break older viewers; they
	// degrade to empty lines.
	doc, err := DecodeDocument("x", []byte(`[{"type": "tablature", "text": "e|-0-"}]`))
	if err != nil {
		t.Fatalf("DecodeDocument() error: %v", err)
	}
	if doc.Lines[0].Kind != KindEmpty {
		t.Errorf("unknown kind decoded as %v, want KindEmpty", doc.Lines[0].Kind)
	}
}

func TestDecodeDocumentBadPayload(t *testing.T) {
	if _, err := DecodeDocument("x", []byte(`{"not": "a list"}`)); err == nil {
		t.Fatal("DecodeDocument() succeeded on a non-list payload")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc, err := DecodeDocument("1", []byte(sampleDoc))
	if err != nil {
		t.Fatalf("DecodeDocument() error: %v", err)
	}
	encoded, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	again, err := DecodeDocument("1", encoded)
	if err != nil {
		t.Fatalf("re-decode error: %v", err)
	}
	if !reflect.DeepEqual(doc.Lines, again.Lines) {
		t.Errorf("round trip changed the document:\n%+v\n%+v", doc.Lines, again.Lines)
	}
}
