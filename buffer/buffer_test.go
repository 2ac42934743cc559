package buffer

import (
	"testing"

	"swraster/core"
)

func TestNewRejectsBadDimensions(t *testing.T) {
	if _, err := New(0, 10, core.FormatRGBA8); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := New(10, -1, core.FormatRGBA8); err == nil {
		t.Error("expected error for negative height")
	}
}

func TestWriteReadRoundTripRGBA8(t *testing.T) {
	b, err := New(4, 4, core.FormatRGBA8)
	if err != nil {
		t.Fatal(err)
	}
	want := core.Color{R: 0.2, G: 0.4, B: 0.6, A: 1.0}
	b.Write(2, 3, want)
	got := b.Read(2, 3)
	const eps = 1.0 / 255
	if abs32(got.R-want.R) > eps || abs32(got.G-want.G) > eps ||
		abs32(got.B-want.B) > eps || abs32(got.A-want.A) > eps {
		t.Errorf("round trip RGBA8: got %+v want %+v", got, want)
	}
}

func TestWriteReadRoundTripRGBAF32(t *testing.T) {
	b, err := New(2, 2, core.FormatRGBAF32)
	if err != nil {
		t.Fatal(err)
	}
	want := core.Color{R: 0.123456, G: 0.987654, B: 0.5, A: 0.25}
	b.Write(1, 1, want)
	got := b.Read(1, 1)
	if got != want {
		t.Errorf("round trip F32: got %+v want %+v", got, want)
	}
}

func TestWriteClampsOutOfRangeFloats(t *testing.T) {
	b, _ := New(1, 1, core.FormatRGBA8)
	b.Write(0, 0, core.Color{R: 2.0, G: -1.0, B: 0.5, A: 1})
	got := b.Read(0, 0)
	if got.R != 1 || got.G != 0 {
		t.Errorf("expected clamp to [0,1], got %+v", got)
	}
}

func TestSingleChannelFormatsFillROnly(t *testing.T) {
	b, _ := New(1, 1, core.FormatF32)
	b.Write(0, 0, core.Color{R: 0.75})
	got := b.Read(0, 0)
	if got.G != 0 || got.B != 0 || got.A != 1 {
		t.Errorf("single-channel read should zero G/B and force opaque A, got %+v", got)
	}
}

func TestClearReplicatesFirstRow(t *testing.T) {
	b, _ := New(3, 5, core.FormatRGBA8)
	c := core.Color{R: 1, G: 0, B: 1, A: 1}
	b.Clear(c)
	for y := 0; y < 5; y++ {
		for x := 0; x < 3; x++ {
			got := b.Read(x, y)
			if got != c {
				t.Fatalf("clear mismatch at (%d,%d): got %+v", x, y, got)
			}
		}
	}
}

func TestSampleLinearAtIntegerTexelCenterMatchesRead(t *testing.T) {
	b, _ := New(4, 4, core.FormatRGBA8)
	b.Clear(core.Color{A: 1})
	want := core.Color{R: 1, G: 0.5, B: 0.25, A: 1}
	b.Write(2, 1, want)

	u := 2.0 / 4.0
	v := 1.0 / 4.0
	got := b.SampleLinear(u, v)
	const eps = 1.0 / 255
	if abs32(got.R-want.R) > eps || abs32(got.G-want.G) > eps || abs32(got.B-want.B) > eps {
		t.Errorf("sample_linear at texel center: got %+v want %+v", got, want)
	}
}

func TestSampleWrapsByFract(t *testing.T) {
	b, _ := New(4, 4, core.FormatRGBA8)
	want := core.Color{R: 1, G: 1, B: 1, A: 1}
	b.Write(0, 0, want)

	a := b.SampleNearest(0.125, 0.125)
	c := b.SampleNearest(1.125, 1.125)
	if a != c {
		t.Errorf("wrap-by-fract must be exact: sample(u,v) != sample(u+1,v+1): %+v vs %+v", a, c)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
