package buffer

import (
	"image"

	"swraster/core"
)

// FromImage copies a decoded image.Image into a new RGBA8 Buffer2D, the
// same per-pixel RGBA() extraction the teacher's texture loader used for
// its GPU upload path, adapted to target a CPU-sampled Buffer2D instead.
func FromImage(img image.Image) (*Buffer2D, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	b, err := New(w, h, core.FormatRGBA8)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b2, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			b.Write(x, y, core.Color{
				R: float32(r>>8) / 255,
				G: float32(g>>8) / 255,
				B: float32(b2>>8) / 255,
				A: float32(a>>8) / 255,
			})
		}
	}
	return b, nil
}

// ToRGBAImage copies a buffer's contents into a standard image.RGBA, used
// by cmd/raster-bench to PNG-encode a rendered frame.
func (b *Buffer2D) ToRGBAImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.Read(x, y)
			off := img.PixOffset(x, y)
			img.Pix[off] = byte(clamp01(c.R) * 255)
			img.Pix[off+1] = byte(clamp01(c.G) * 255)
			img.Pix[off+2] = byte(clamp01(c.B) * 255)
			img.Pix[off+3] = byte(clamp01(c.A) * 255)
		}
	}
	return img
}
