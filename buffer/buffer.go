// Package buffer implements Buffer2D, the typed 2D pixel store every render
// target, depth buffer, and texture in the pipeline is built from. A single
// concrete struct is parameterized at construction by a dispatch table of
// read/write/clear functions selected from core.PixelFormat, rather than one
// Go type per format — the "tagged variant... with a dispatch table"
// guidance from the distilled spec's design notes.
package buffer

import (
	"fmt"
	"math"

	"swraster/core"
	vmath "swraster/math"
)

// Buffer2D is a contiguous byte store laid out row-major: row y begins at
// byte offset y*BytesPerRow. Coordinate (0,0) is the top-left texel.
type Buffer2D struct {
	Width, Height int
	Format        core.PixelFormat
	BytesPerPixel int
	BytesPerRow   int
	Data          []byte

	ops formatOps
}

// formatOps is the per-format dispatch table: every Buffer2D method outside
// of construction and RowPtr routes through these two functions.
type formatOps struct {
	bytesPerPixel int
	read          func(px []byte) core.Color
	write         func(px []byte, c core.Color)
}

var tables = map[core.PixelFormat]formatOps{
	core.FormatU16:    {bytesPerPixel: 2, read: readU16, write: writeU16},
	core.FormatF32:    {bytesPerPixel: 4, read: readF32, write: writeF32},
	core.FormatRGB8:   {bytesPerPixel: 3, read: readRGB8, write: writeRGB8},
	core.FormatRGBA8:  {bytesPerPixel: 4, read: readRGBA8, write: writeRGBA8},
	core.FormatRGBF32: {bytesPerPixel: 12, read: readRGBF32, write: writeRGBF32},
	core.FormatRGBAF32: {bytesPerPixel: 16, read: readRGBAF32, write: writeRGBAF32},
}

// New allocates a width*height buffer of the given format. Returns an error
// rather than mutating any shared state on bad dimensions or an unknown
// format, per the configuration-error taxonomy.
func New(width, height int, format core.PixelFormat) (*Buffer2D, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("buffer: invalid dimensions %dx%d", width, height)
	}
	ops, ok := tables[format]
	if !ok {
		return nil, fmt.Errorf("buffer: unknown pixel format %v", format)
	}
	b := &Buffer2D{
		Width:         width,
		Height:        height,
		Format:        format,
		BytesPerPixel: ops.bytesPerPixel,
		BytesPerRow:   width * ops.bytesPerPixel,
		ops:           ops,
	}
	b.Data = make([]byte, height*b.BytesPerRow)
	return b, nil
}

// RowPtr returns the byte slice backing row y, for inner raster loops that
// sweep a scanline without per-pixel bounds recomputation.
func (b *Buffer2D) RowPtr(y int) []byte {
	off := y * b.BytesPerRow
	return b.Data[off : off+b.BytesPerRow]
}

func (b *Buffer2D) pixelSlice(x, y int) []byte {
	off := y*b.BytesPerRow + x*b.BytesPerPixel
	return b.Data[off : off+b.BytesPerPixel]
}

// Read returns the pixel at (x,y) as a normalized RGBA color. Single-channel
// formats (U16, F32) fill R with the sample, zero G/B, and report an opaque
// alpha — this is the "single-channel formats fill R" rule from §4.1.
func (b *Buffer2D) Read(x, y int) core.Color {
	return b.ops.read(b.pixelSlice(x, y))
}

// Write stores c at (x,y), clamping floats to [0,1] before narrowing to an
// integer format.
func (b *Buffer2D) Write(x, y int, c core.Color) {
	b.ops.write(b.pixelSlice(x, y), c)
}

// Clear fills row 0 with c, then replicates that row to every other row.
func (b *Buffer2D) Clear(c core.Color) {
	row0 := b.RowPtr(0)
	for x := 0; x < b.Width; x++ {
		b.ops.write(row0[x*b.BytesPerPixel:(x+1)*b.BytesPerPixel], c)
	}
	for y := 1; y < b.Height; y++ {
		copy(b.RowPtr(y), row0)
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func fract(v float32) float32 {
	return v - float32(math.Floor(float64(v)))
}

// SampleNearest samples the texel nearest to (u,v) under wrap-by-fract
// addressing: u' = u - floor(u), scaled by width/height, floored to an
// integer texel coordinate.
func (b *Buffer2D) SampleNearest(u, v float32) core.Color {
	x := int(fract(u) * float32(b.Width))
	y := int(fract(v) * float32(b.Height))
	if x >= b.Width {
		x = b.Width - 1
	}
	if y >= b.Height {
		y = b.Height - 1
	}
	return b.Read(x, y)
}

// SampleLinear performs bilinear filtering with wrapped addressing. The
// blend weight is tu = fract(cx0) (the spec's corrected formula — the
// original renderer used 1-fract, documented in spec.md §9 as "very likely
// a bug" and not reproduced here).
func (b *Buffer2D) SampleLinear(u, v float32) core.Color {
	cx := fract(u) * float32(b.Width)
	cy := fract(v) * float32(b.Height)

	x0 := int(math.Floor(float64(cx)))
	y0 := int(math.Floor(float64(cy)))
	tu := cx - float32(x0)
	tv := cy - float32(y0)

	x0 = wrap(x0, b.Width)
	y0 = wrap(y0, b.Height)
	x1 := wrap(x0+1, b.Width)
	y1 := wrap(y0+1, b.Height)

	c00 := b.Read(x0, y0)
	c10 := b.Read(x1, y0)
	c01 := b.Read(x0, y1)
	c11 := b.Read(x1, y1)

	w00 := (1 - tu) * (1 - tv)
	w10 := tu * (1 - tv)
	w01 := (1 - tu) * tv
	w11 := tu * tv

	return core.Color{
		R: c00.R*w00 + c10.R*w10 + c01.R*w01 + c11.R*w11,
		G: c00.G*w00 + c10.G*w10 + c01.G*w01 + c11.G*w11,
		B: c00.B*w00 + c10.B*w10 + c01.B*w01 + c11.B*w11,
		A: c00.A*w00 + c10.A*w10 + c01.A*w01 + c11.A*w11,
	}
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// --- per-format read/write ---

func readU16(px []byte) core.Color {
	v := uint16(px[0]) | uint16(px[1])<<8
	r := float32(v) / float32(0xffff)
	return core.Color{R: r, A: 1}
}

func writeU16(px []byte, c core.Color) {
	r := clamp01(c.R)
	v := uint16(r * float32(0xffff))
	px[0] = byte(v)
	px[1] = byte(v >> 8)
}

func readF32(px []byte) core.Color {
	bits := uint32(px[0]) | uint32(px[1])<<8 | uint32(px[2])<<16 | uint32(px[3])<<24
	return core.Color{R: math.Float32frombits(bits), A: 1}
}

func writeF32(px []byte, c core.Color) {
	bits := math.Float32bits(c.R)
	px[0] = byte(bits)
	px[1] = byte(bits >> 8)
	px[2] = byte(bits >> 16)
	px[3] = byte(bits >> 24)
}

func readRGB8(px []byte) core.Color {
	return core.Color{
		R: float32(px[0]) / 255,
		G: float32(px[1]) / 255,
		B: float32(px[2]) / 255,
		A: 1,
	}
}

func writeRGB8(px []byte, c core.Color) {
	px[0] = byte(clamp01(c.R) * 255)
	px[1] = byte(clamp01(c.G) * 255)
	px[2] = byte(clamp01(c.B) * 255)
}

func readRGBA8(px []byte) core.Color {
	return core.Color{
		R: float32(px[0]) / 255,
		G: float32(px[1]) / 255,
		B: float32(px[2]) / 255,
		A: float32(px[3]) / 255,
	}
}

func writeRGBA8(px []byte, c core.Color) {
	packed := vmath.PackRGBA8([4]float32{c.R, c.G, c.B, c.A})
	px[0], px[1], px[2], px[3] = packed[0], packed[1], packed[2], packed[3]
}

func readRGBF32(px []byte) core.Color {
	return core.Color{
		R: readFloatAt(px, 0),
		G: readFloatAt(px, 4),
		B: readFloatAt(px, 8),
		A: 1,
	}
}

func writeRGBF32(px []byte, c core.Color) {
	writeFloatAt(px, 0, c.R)
	writeFloatAt(px, 4, c.G)
	writeFloatAt(px, 8, c.B)
}

func readRGBAF32(px []byte) core.Color {
	return core.Color{
		R: readFloatAt(px, 0),
		G: readFloatAt(px, 4),
		B: readFloatAt(px, 8),
		A: readFloatAt(px, 12),
	}
}

func writeRGBAF32(px []byte, c core.Color) {
	writeFloatAt(px, 0, c.R)
	writeFloatAt(px, 4, c.G)
	writeFloatAt(px, 8, c.B)
	writeFloatAt(px, 12, c.A)
}

func readFloatAt(px []byte, off int) float32 {
	bits := uint32(px[off]) | uint32(px[off+1])<<8 | uint32(px[off+2])<<16 | uint32(px[off+3])<<24
	return math.Float32frombits(bits)
}

func writeFloatAt(px []byte, off int, v float32) {
	bits := math.Float32bits(v)
	px[off] = byte(bits)
	px[off+1] = byte(bits >> 8)
	px[off+2] = byte(bits >> 16)
	px[off+3] = byte(bits >> 24)
}
