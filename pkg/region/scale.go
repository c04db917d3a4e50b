package region

import (
	"image"

	"golang.org/x/image/draw"
)

// Upscale enlarges img so that its shorter side is at least minDim pixels,
// keeping the aspect ratio. Images that are already large enough are
// returned unchanged.
func Upscale(img image.Image, minDim int) image.Image {
	b := img.Bounds()
	short := min(b.Dx(), b.Dy())
	if short <= 0 || short >= minDim {
		return img
	}

	scale := float64(minDim) / float64(short)
	w := int(float64(b.Dx())*scale + 0.5)
	h := int(float64(b.Dy())*scale + 0.5)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	return dst
}
