package encoder

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// EncodePNG writes a lossless PNG at the highest zlib compression level.
func EncodePNG(w io.Writer, img image.Image, _ EncodeOptions) error {
	return pngEncoder.Encode(w, img)
}

// EncodeJPG writes a baseline JPEG; Quality 0 means jpeg.DefaultQuality.
func EncodeJPG(w io.Writer, img image.Image, o EncodeOptions) error {
	q := o.Quality
	if q <= 0 {
		q = jpeg.DefaultQuality
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
}
