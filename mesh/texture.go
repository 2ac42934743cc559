package mesh

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	"swraster/buffer"
)

// maxTextureDim caps the resolution of a decoded texture. Source art
// shipped in an OBJ/glTF asset can arrive far larger than anything the
// rasterizer benefits from sampling; anything wider or taller than this
// gets scaled down before it becomes a Buffer2D.
const maxTextureDim = 2048

// LoadTexture decodes an image file into an RGBA8 Buffer2D, following the
// teacher's textures.loadImageFile decode loop but targeting a CPU-sampled
// buffer.Buffer2D instead of a GPU upload. Oversized source images are
// downscaled through the same resize path LoadTextureResized exposes
// directly.
func LoadTexture(path string) (*buffer.Buffer2D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: open texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("mesh: decode texture %q: %w", path, err)
	}

	bounds := img.Bounds()
	if w, h := bounds.Dx(), bounds.Dy(); w > maxTextureDim || h > maxTextureDim {
		cw, ch := fitWithinMax(w, h)
		return resizeToBuffer(img, cw, ch)
	}
	return buffer.FromImage(img)
}

// LoadTextureResized decodes an image file and resizes it to exactly w*h
// before converting, using golang.org/x/image/draw's Catmull-Rom filter
// rather than a hand-rolled box filter. Useful when a caller needs a
// texture at a specific size regardless of the source's native
// resolution, such as matching a render target's dimensions for a
// procedurally-driven material.
func LoadTextureResized(path string, w, h int) (*buffer.Buffer2D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: open texture %q: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("mesh: decode texture %q: %w", path, err)
	}
	return resizeToBuffer(src, w, h)
}

func resizeToBuffer(src image.Image, w, h int) (*buffer.Buffer2D, error) {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return buffer.FromImage(dst)
}

// fitWithinMax scales (w, h) down proportionally so neither dimension
// exceeds maxTextureDim.
func fitWithinMax(w, h int) (int, int) {
	scale := float64(maxTextureDim) / float64(w)
	if hs := float64(maxTextureDim) / float64(h); hs < scale {
		scale = hs
	}
	cw := int(float64(w) * scale)
	ch := int(float64(h) * scale)
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	return cw, ch
}
