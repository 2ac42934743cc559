package rasterize

import (
	"testing"

	"swraster/context"
	"swraster/core"
	"swraster/math"
	"swraster/shader"
)

func newTestContext(t *testing.T, w, h int) *context.Context {
	t.Helper()
	ctx := context.New(nil)
	if err := ctx.SetRenderTarget(w, h, 1, false, 0); err != nil {
		t.Fatalf("SetRenderTarget: %v", err)
	}
	ctx.SetViewport(0, 0, float32(w), float32(h))
	ctx.SetModelView(math.Mat4Identity())
	ctx.SetProjection(math.Mat4Identity())
	ctx.SetCullFace(core.FrontFaceCW)
	t.Cleanup(func() { ctx.Shutdown() })
	return ctx
}

func colorVertex(x, y, z float32, c core.Color) core.VSInput {
	return core.VSInput{
		Position: math.Vec4{X: x, Y: y, Z: z, W: 1},
		Attributes: core.AttributeSet{
			Count:  1,
			Values: [core.MaxAttributes]math.Vec4{c.ToVec4()},
		},
	}
}

func approxColor(t *testing.T, got, want core.Color) bool {
	t.Helper()
	const eps = 1.0 / 255
	return abs32(got.R-want.R) <= eps && abs32(got.G-want.G) <= eps && abs32(got.B-want.B) <= eps
}

func TestDrawTriangleColorPlacement(t *testing.T) {
	ctx := newTestContext(t, 600, 600)
	vs, ps := shader.NewColorPassthrough()
	ctx.SetShader(vs, ps)
	r := NewRenderer(ctx)

	ctx.ClearRenderTarget(core.ColorBlack)
	ctx.BeginFrame()
	r.DrawTriangle(
		colorVertex(-0.5, -0.5, 1, core.ColorRed),
		colorVertex(-0.5, 0.5, 1, core.ColorGreen),
		colorVertex(0.5, 0.5, 1, core.ColorBlue),
	)
	ctx.EndFrame()

	buf := ctx.GetColorBuffer(0)
	cases := []struct {
		x, y int
		want core.Color
	}{
		{150, 450, core.ColorRed},
		{150, 150, core.ColorGreen},
		{450, 150, core.ColorBlue},
	}
	for _, c := range cases {
		got := buf.Read(c.x, c.y)
		if !approxColor(t, got, c.want) {
			t.Errorf("pixel (%d,%d) = %+v, want %+v", c.x, c.y, got, c.want)
		}
	}
	if got := buf.Read(0, 0); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("untouched pixel (0,0) = %+v, want clear color", got)
	}
}

func TestDrawTriangleBackfaceCull(t *testing.T) {
	ctx := newTestContext(t, 600, 600)
	vs, ps := shader.NewColorPassthrough()
	ctx.SetShader(vs, ps)
	r := NewRenderer(ctx)

	ctx.ClearRenderTarget(core.ColorBlack)
	ctx.BeginFrame()
	// Same geometry as the placement test but with the last two vertices
	// swapped, reversing the screen-space winding.
	r.DrawTriangle(
		colorVertex(-0.5, -0.5, 1, core.ColorRed),
		colorVertex(0.5, 0.5, 1, core.ColorBlue),
		colorVertex(-0.5, 0.5, 1, core.ColorGreen),
	)
	ctx.EndFrame()

	buf := ctx.GetColorBuffer(0)
	for _, p := range [][2]int{{150, 450}, {150, 150}, {450, 150}} {
		got := buf.Read(p[0], p[1])
		if got.R != 0 || got.G != 0 || got.B != 0 {
			t.Errorf("pixel (%d,%d) = %+v, expected culled (untouched)", p[0], p[1], got)
		}
	}
}

func TestDrawTriangleDepthOrdering(t *testing.T) {
	ctx := newTestContext(t, 64, 64)
	vs, ps := shader.NewColorPassthrough()
	ctx.SetShader(vs, ps)
	r := NewRenderer(ctx)

	ctx.ClearRenderTarget(core.ColorBlack)
	ctx.BeginFrame()
	// Far triangle (z closer to far plane) covers the whole viewport, drawn
	// first; a nearer triangle drawn second must win the depth test.
	r.DrawTriangle(
		colorVertex(-1, -1, 0.8, core.ColorRed),
		colorVertex(-1, 1, 0.8, core.ColorRed),
		colorVertex(1, 1, 0.8, core.ColorRed),
	)
	r.DrawTriangle(
		colorVertex(-1, -1, 0.8, core.ColorRed),
		colorVertex(1, 1, 0.8, core.ColorRed),
		colorVertex(1, -1, 0.8, core.ColorRed),
	)
	r.DrawTriangle(
		colorVertex(-0.5, -0.5, 0.2, core.ColorBlue),
		colorVertex(-0.5, 0.5, 0.2, core.ColorBlue),
		colorVertex(0.5, 0.5, 0.2, core.ColorBlue),
	)
	ctx.EndFrame()

	buf := ctx.GetColorBuffer(0)
	// (24,24) lies inside the blue triangle; its hypotenuse passes through
	// the viewport centre, so (32,32) does not.
	inside := buf.Read(24, 24)
	if !approxColor(t, inside, core.ColorBlue) {
		t.Errorf("pixel inside the blue triangle = %+v, want the nearer blue triangle to win depth test", inside)
	}
	corner := buf.Read(2, 2)
	if !approxColor(t, corner, core.ColorRed) {
		t.Errorf("corner pixel = %+v, want the farther red triangle untouched by the smaller blue one", corner)
	}
}

func TestClipAgainstPlanesFullyOutsideYieldsEmpty(t *testing.T) {
	poly := []clipVertex{
		{Position: math.Vec4{X: 0, Y: 0, Z: -2, W: 1}},
		{Position: math.Vec4{X: 0.1, Y: 0, Z: -2, W: 1}},
		{Position: math.Vec4{X: 0, Y: 0.1, Z: -2, W: 1}},
	}
	got := clipAgainstPlanes(poly)
	if len(got) != 0 {
		t.Errorf("expected fully-outside triangle to clip to 0 vertices, got %d", len(got))
	}
}

func TestClipAgainstPlanesFullyInsideUnchanged(t *testing.T) {
	poly := []clipVertex{
		{Position: math.Vec4{X: -0.1, Y: -0.1, Z: 0, W: 1}},
		{Position: math.Vec4{X: 0.1, Y: -0.1, Z: 0, W: 1}},
		{Position: math.Vec4{X: 0, Y: 0.1, Z: 0, W: 1}},
	}
	got := clipAgainstPlanes(poly)
	if len(got) != 3 {
		t.Fatalf("expected fully-inside triangle to survive with 3 vertices, got %d", len(got))
	}
	for i, v := range got {
		if v.Position != poly[i].Position {
			t.Errorf("vertex %d position changed: got %+v, want %+v", i, v.Position, poly[i].Position)
		}
	}
}

func TestClipAgainstPlanesNearPlaneProducesQuad(t *testing.T) {
	// One vertex behind the near plane (z+w < 0 when w=1, z<-1).
	poly := []clipVertex{
		{Position: math.Vec4{X: 0, Y: 0, Z: -1.5, W: 1}},
		{Position: math.Vec4{X: 0.5, Y: 0, Z: 0, W: 1}},
		{Position: math.Vec4{X: 0, Y: 0.5, Z: 0, W: 1}},
	}
	got := clipAgainstPlanes(poly)
	if len(got) != 4 {
		t.Fatalf("expected a near-plane clip against one behind-vertex to produce a quad, got %d vertices", len(got))
	}
}

func TestFanTriangulateQuad(t *testing.T) {
	quad := []clipVertex{
		{Position: math.Vec4{X: 0, Y: 0, Z: 0, W: 1}},
		{Position: math.Vec4{X: 1, Y: 0, Z: 0, W: 1}},
		{Position: math.Vec4{X: 1, Y: 1, Z: 0, W: 1}},
		{Position: math.Vec4{X: 0, Y: 1, Z: 0, W: 1}},
	}
	tris := fanTriangulate(quad)
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles from a fan-triangulated quad, got %d", len(tris))
	}
	for _, tri := range tris {
		if tri[0].Position != quad[0].Position {
			t.Errorf("every fan triangle should share the first vertex, got %+v", tri[0].Position)
		}
	}
}

func TestTopLeftFillRuleSharedEdgeExactlyOnce(t *testing.T) {
	ctx := newTestContext(t, 16, 16)
	vs, ps := shader.NewColorPassthrough()
	ctx.SetShader(vs, ps)
	r := NewRenderer(ctx)

	ctx.ClearRenderTarget(core.ColorBlack)
	ctx.BeginFrame()
	// Two triangles sharing the diagonal edge (0,0)-(16,16), tiling the
	// whole viewport with no gap and no overlap if the fill rule is exact.
	r.DrawTriangle(
		colorVertex(-1, -1, 0, core.ColorRed),
		colorVertex(-1, 1, 0, core.ColorRed),
		colorVertex(1, 1, 0, core.ColorRed),
	)
	r.DrawTriangle(
		colorVertex(-1, -1, 0, core.ColorBlue),
		colorVertex(1, 1, 0, core.ColorBlue),
		colorVertex(1, -1, 0, core.ColorBlue),
	)
	ctx.EndFrame()

	buf := ctx.GetColorBuffer(0)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := buf.Read(x, y)
			isRed := approxColor(t, c, core.ColorRed)
			isBlue := approxColor(t, c, core.ColorBlue)
			if !isRed && !isBlue {
				t.Errorf("pixel (%d,%d) = %+v belongs to neither triangle", x, y, c)
			}
		}
	}
	// A pixel shaded by both triangles would be counted twice.
	if got := ctx.LastFrameStats().PixelsShaded; got != 16*16 {
		t.Errorf("shaded %d pixels, want %d: every pixel exactly once", got, 16*16)
	}
}
