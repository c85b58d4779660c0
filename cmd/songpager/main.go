package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sukalov/chordview/internal/chords"
	"github.com/sukalov/chordview/internal/layout"
	"github.com/sukalov/chordview/internal/render"
	"github.com/sukalov/chordview/internal/songtext"
)

// songpager pages a normalized song document on the command line: the
// same measure/paginate/draw pipeline the bot runs, without the bot.
func main() {
	transpose := flag.Float64("transpose", 0, "key shift in tones (0.5 = one semitone)")
	fontSize := flag.Int("font", 16, "font size in px")
	width := flag.Int("width", 60, "column width in characters")
	height := flag.Int("height", 560, "page height in px")
	columns := flag.Int("columns", 1, "columns per page")
	output := flag.String("output", "", "write pages to a file instead of stdout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: songpager [flags] <document.json>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %v\n", path, err)
		os.Exit(1)
	}

	doc, err := songtext.DecodeDocument(path, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not decode %s: %v\n", path, err)
		os.Exit(1)
	}

	r := render.NewRenderer(*width, *fontSize, chords.SemitonesFromTones(*transpose))
	heights := layout.MeasureAll(r, doc.Lines)
	lay := layout.Paginate(doc.Lines, heights, *height, *columns)

	var out strings.Builder
	for page := 0; page < lay.TotalPages(); page++ {
		fmt.Fprintf(&out, "--- page %d / %d ---\n", page+1, lay.TotalPages())
		out.WriteString(r.RenderPage(lay, page))
	}

	if *output == "" {
		fmt.Print(out.String())
		return
	}
	if err := os.WriteFile(*output, []byte(out.String()), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "could not write %s: %v\n", *output, err)
		os.Exit(1)
	}
}
