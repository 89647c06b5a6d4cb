package encoder

import (
	"image"
	"io"

	"github.com/chai2010/webp"
)

// EncodeWebP is lossless at Quality 100 (or 0), lossy otherwise.
func EncodeWebP(w io.Writer, img image.Image, o EncodeOptions) error {
	lossless := o.Quality <= 0 || o.Quality >= 100
	return webp.Encode(w, img, &webp.Options{
		Lossless: lossless,
		Quality:  float32(o.Quality),
		Exact:    true,
	})
}
