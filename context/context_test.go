package context

import (
	"testing"

	"swraster/core"
	"swraster/math"
)

func TestSetRenderTargetRejectsTooManyColorTargets(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()

	if err := c.SetRenderTarget(64, 64, core.MaxMRT+1, false, 0); err == nil {
		t.Error("expected error for color count exceeding MaxMRT")
	}
}

func TestSetRenderTargetLeavesStateUntouchedOnFailure(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()

	if err := c.SetRenderTarget(64, 64, 1, false, 0); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRenderTarget(-1, 64, 1, false, 0); err == nil {
		t.Fatal("expected error")
	}
	if c.Width() != 64 || c.Height() != 64 {
		t.Errorf("failed SetRenderTarget must not mutate existing state, got %dx%d", c.Width(), c.Height())
	}
}

func TestClearSeparatesDepthFromColor(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()
	if err := c.SetRenderTarget(4, 4, 1, false, 0); err != nil {
		t.Fatal(err)
	}
	c.ClearRenderTarget(core.Color{R: 0.1, G: 0.2, B: 0.3, A: 1})

	depth := c.Depth.Read(0, 0)
	if depth.R != 1 {
		t.Errorf("depth clear must always be 1.0 regardless of clear color, got %v", depth.R)
	}
	col := c.GetColorBuffer(0).Read(0, 0)
	const eps = 1.0 / 255
	if abs(col.R-0.1) > eps || abs(col.G-0.2) > eps || abs(col.B-0.3) > eps {
		t.Errorf("color target not cleared to requested color: %+v", col)
	}
}

func TestDepthTestAndOverrideFavorsLaterOfEquals(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()
	if err := c.SetRenderTarget(4, 4, 1, false, 0); err != nil {
		t.Fatal(err)
	}
	c.ClearRenderTarget(core.Color{})

	if !DepthTestAndOverride(c.Depth, 0, 0, 0.5) {
		t.Fatal("first write at 0.5 against cleared depth 1.0 should pass")
	}
	if !DepthTestAndOverride(c.Depth, 0, 0, 0.5) {
		t.Error("LESS_EQUAL must favor the later of equal depths")
	}
	if DepthTestAndOverride(c.Depth, 0, 0, 0.6) {
		t.Error("a greater depth must fail the test")
	}
	if !DepthTestAndOverride(c.Depth, 0, 0, 0.2) {
		t.Error("a lesser depth must pass the test")
	}
}

func TestNDCToScreenInvertsYExactlyOnce(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()
	c.SetViewport(0, 0, 600, 600)

	top := c.NDCToScreen(math.Vec3{X: 0, Y: 1, Z: 0})
	bottom := c.NDCToScreen(math.Vec3{X: 0, Y: -1, Z: 0})
	if top.Y != 0 {
		t.Errorf("NDC y=+1 should map to screen y=0 (top), got %v", top.Y)
	}
	if bottom.Y != 600 {
		t.Errorf("NDC y=-1 should map to screen y=viewport height (bottom), got %v", bottom.Y)
	}
}

func TestMSAAResolveOfFullyCoveredPixelEqualsPerSampleValue(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()
	if err := c.SetRenderTarget(2, 2, 1, true, 4); err != nil {
		t.Fatal(err)
	}
	c.ClearRenderTarget(core.Color{})

	want := core.Color{R: 0.7, G: 0.3, B: 0.1, A: 1}
	for k := 0; k < 4; k++ {
		c.MSAA.ColorSidecars[0].Write(1*4+k, 1, want)
		c.MSAA.DepthSidecar.Write(1*4+k, 1, core.Color{R: 0.25, A: 1})
	}
	c.EndFrame()

	got := c.GetColorBuffer(0).Read(1, 1)
	const eps = 1.0 / 255
	if abs(got.R-want.R) > eps || abs(got.G-want.G) > eps || abs(got.B-want.B) > eps {
		t.Errorf("resolved color mismatch: got %+v want %+v", got, want)
	}
	depth := c.Depth.Read(1, 1)
	if abs(depth.R-0.25) > 1e-6 {
		t.Errorf("resolved depth mismatch: got %v want 0.25", depth.R)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
