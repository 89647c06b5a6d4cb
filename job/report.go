package job

import (
	"fmt"
	"io"

	"appshots/models"
)

// Reporter prints the human-readable progress of a run.
type Reporter struct {
	w io.Writer
}

func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w}
}

// Header prints the discovery counts.
func (r *Reporter) Header(discovered, selected int) {
	fmt.Fprintf(r.w, "Found %d screenshots\n", discovered)
	fmt.Fprintf(r.w, "Selected %d best screenshots\n\n", selected)
}

// File prints one line per written artifact and one per failure. A source
// that could not be decoded gets a single line.
func (r *Reporter) File(fr models.FileResult) {
	if fr.DecodeErr != nil {
		fmt.Fprintf(r.w, "❌ Error processing %s: %v\n", fr.Source, fr.DecodeErr)
		return
	}
	for _, a := range fr.Artifacts {
		if a.OK() {
			fmt.Fprintf(r.w, "✅ %s\n", a.Output)
		} else {
			fmt.Fprintf(r.w, "❌ Error processing %s: %v\n", a.Source, a.Err)
		}
	}
}

// Footer prints the closing summary. The count is the number of selected
// sources, not the number of artifacts actually written.
func (r *Reporter) Footer(selected int, targets []models.TargetSpec) {
	fmt.Fprintf(r.w, "\n🎉 Done! Created %d screenshots for each size\n", selected)
	for _, t := range targets {
		fmt.Fprintf(r.w, "\n%s screenshots: %s/\n", t.DisplayName(), t.Dir)
	}
}
