package encoder

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Resize scales img to exactly width×height. The source aspect ratio is not
// preserved.
//
// lanczos, box and nearest go through imaging; catmullrom and bilinear
// through x/image/draw. An empty filter means lanczos.
func Resize(img image.Image, width, height int, filter string) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	switch filter {
	case "", "lanczos":
		return imaging.Resize(img, width, height, imaging.Lanczos), nil
	case "box":
		return imaging.Resize(img, width, height, imaging.Box), nil
	case "nearest":
		return imaging.Resize(img, width, height, imaging.NearestNeighbor), nil
	case "catmullrom":
		return drawScale(img, width, height, draw.CatmullRom), nil
	case "bilinear":
		return drawScale(img, width, height, draw.BiLinear), nil
	}
	return nil, fmt.Errorf("unknown resample filter %q", filter)
}

func drawScale(img image.Image, width, height int, s draw.Scaler) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	s.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
