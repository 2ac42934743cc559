package shader

import (
	"testing"

	"swraster/core"
	"swraster/math"
)

func TestColorPassthroughForwardsAttributeZero(t *testing.T) {
	vs, ps := NewColorPassthrough()
	in := core.VSInput{
		Position: math.Vec4{X: 0, Y: 0, Z: 0, W: 1},
		Attributes: core.AttributeSet{
			Count:  1,
			Values: [core.MaxAttributes]math.Vec4{{X: 1, Y: 0, Z: 0, W: 1}},
		},
	}
	vctx := &VertexContext{Matrices: core.NewMVPMatrices(math.Mat4Identity(), math.Mat4Identity())}
	out := vs.Process(vctx, in)

	pin := core.PSInput{Attributes: out.Attributes}
	pout := ps.Process(&PixelContext{}, pin)
	if pout.ColorCount != 1 {
		t.Fatalf("expected 1 output color, got %d", pout.ColorCount)
	}
	if pout.Colors[0] != (math.Vec4{X: 1, Y: 0, Z: 0, W: 1}) {
		t.Errorf("expected passthrough color, got %+v", pout.Colors[0])
	}
	if ps.OutputColorCount() != 1 {
		t.Errorf("OutputColorCount() = %d, want 1", ps.OutputColorCount())
	}
}

func TestDepthOnlyWritesNoColor(t *testing.T) {
	_, ps := NewDepthOnly()
	if ps.OutputColorCount() != 0 {
		t.Fatalf("depth-only shader must report 0 output colors, got %d", ps.OutputColorCount())
	}
	out := ps.Process(&PixelContext{}, core.PSInput{})
	if out.ColorCount != 0 {
		t.Errorf("depth-only Process() must not set ColorCount, got %d", out.ColorCount)
	}
}

func TestLitColorZeroWhenFacingAway(t *testing.T) {
	_, ps := NewLitColor()
	ctx := &PixelContext{
		Light: DirectionalLight{Direction: math.Vec3{X: 0, Y: 1, Z: 0}, Color: core.ColorWhite, Intensity: 1},
	}
	in := core.PSInput{Attributes: core.AttributeSet{
		Count:  1,
		Values: [core.MaxAttributes]math.Vec4{{X: 0, Y: -1, Z: 0, W: 0}},
	}}
	out := ps.Process(ctx, in)
	if out.Colors[0].X != 0 || out.Colors[0].Y != 0 || out.Colors[0].Z != 0 {
		t.Errorf("surface facing away from light should be black, got %+v", out.Colors[0])
	}
}

func TestLitColorFullWhenFacingLight(t *testing.T) {
	_, ps := NewLitColor()
	ctx := &PixelContext{
		Light: DirectionalLight{Direction: math.Vec3{X: 0, Y: 1, Z: 0}, Color: core.ColorWhite, Intensity: 1},
	}
	in := core.PSInput{Attributes: core.AttributeSet{
		Count:  1,
		Values: [core.MaxAttributes]math.Vec4{{X: 0, Y: 1, Z: 0, W: 0}},
	}}
	out := ps.Process(ctx, in)
	if out.Colors[0].X < 0.99 {
		t.Errorf("surface facing the light directly should be near-full bright, got %+v", out.Colors[0])
	}
}
