// Package rasterize implements the triangle pipeline: vertex invocation,
// frustum rejection, homogeneous clipping, perspective divide, back-face
// culling, screen-space setup, tile dispatch, and the two per-tile raster
// paths (normal and MSAA), grounded on the teacher's internal/opengl
// renderer's draw loop but reimplemented entirely on the CPU per §4.3.
package rasterize

import (
	"swraster/context"
	"swraster/core"
	"swraster/math"
	"swraster/mesh"
	"swraster/shader"
	"swraster/tile"
)

// Renderer drives a single bound context.Context through the clip/cull/
// raster pipeline. A Renderer holds no state of its own beyond the
// context it was built with — everything mutable lives in Context.
type Renderer struct {
	Ctx *context.Context
}

// NewRenderer binds a Renderer to a context. The context's shaders,
// material, matrices, viewport, and cull mode must already be configured.
func NewRenderer(ctx *context.Context) *Renderer {
	return &Renderer{Ctx: ctx}
}

// clipVertex is a clip-space vertex carried through Sutherland-Hodgman
// clipping: position plus whatever attributes the bound pixel shader
// expects, both linearly interpolated at plane crossings.
type clipVertex struct {
	Position   math.Vec4
	Attributes core.AttributeSet
}

// DrawTriangle runs one triangle through the full pipeline: vertex shading,
// frustum rejection, clipping, fan triangulation, and per-subtriangle
// setup/dispatch (§4.3 steps 1-9).
func (r *Renderer) DrawTriangle(v0, v1, v2 core.VSInput) {
	ctx := r.Ctx
	vctx := &shader.VertexContext{Matrices: ctx.Matrices}
	out0 := ctx.VS.Process(vctx, v0)
	out1 := ctx.VS.Process(vctx, v1)
	out2 := ctx.VS.Process(vctx, v2)

	poly := [3]clipVertex{
		{Position: out0.Position, Attributes: out0.Attributes},
		{Position: out1.Position, Attributes: out1.Attributes},
		{Position: out2.Position, Attributes: out2.Attributes},
	}

	if frustumReject(poly) {
		return
	}

	clipped := clipAgainstPlanes(poly[:])
	if len(clipped) < 3 {
		return
	}

	for _, tri := range fanTriangulate(clipped) {
		r.cullAndSetup(tri)
	}
}

// DrawMesh runs draw_triangle over every submesh of m, binding each
// submesh's material before its triangles are emitted, per §6's
// "vertex format for draw_mesh" and §3's submesh-ordered-by-material
// invariant.
func (r *Renderer) DrawMesh(m *mesh.Mesh) {
	for _, sm := range m.Submeshes {
		if sm.MaterialIndex >= 0 && sm.MaterialIndex < len(m.Materials) {
			r.Ctx.SetMaterial(m.Materials[sm.MaterialIndex])
		}
		end := sm.IndexOffset + sm.IndexCount
		for i := sm.IndexOffset; i+2 < end; i += 3 {
			i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
			v0 := m.Vertices[i0].ToVSInput()
			v1 := m.Vertices[i1].ToVSInput()
			v2 := m.Vertices[i2].ToVSInput()
			r.DrawTriangle(v0, v1, v2)
		}
	}
}

// clipPlanes are the six canonical homogeneous-form frustum planes in the
// fixed order left, right, near, far, top, bottom; each function returns
// the signed distance D such that D >= 0 means "inside" (§4.3 step 2-3).
var clipPlanes = [6]func(math.Vec4) float32{
	func(v math.Vec4) float32 { return v.X + v.W }, // left
	func(v math.Vec4) float32 { return v.W - v.X }, // right
	func(v math.Vec4) float32 { return v.Z + v.W }, // near
	func(v math.Vec4) float32 { return v.W - v.Z }, // far
	func(v math.Vec4) float32 { return v.W - v.Y }, // top
	func(v math.Vec4) float32 { return v.W + v.Y }, // bottom
}

// frustumReject reports whether every vertex lies on the negative side of
// a single common plane, i.e. the whole triangle can be discarded before
// any clipping work (§4.3 step 2).
func frustumReject(poly [3]clipVertex) bool {
	for _, d := range clipPlanes {
		allOutside := true
		for _, v := range poly {
			if d(v.Position) >= 0 {
				allOutside = false
				break
			}
		}
		if allOutside {
			return true
		}
	}
	return false
}

// clipAgainstPlanes runs Sutherland-Hodgman against each of the six planes
// in sequence, per §4.3 step 3's emit rules.
func clipAgainstPlanes(poly []clipVertex) []clipVertex {
	for _, d := range clipPlanes {
		poly = clipOnePlane(poly, d)
		if len(poly) == 0 {
			return poly
		}
	}
	return poly
}

func clipOnePlane(poly []clipVertex, d func(math.Vec4) float32) []clipVertex {
	if len(poly) == 0 {
		return nil
	}
	out := make([]clipVertex, 0, len(poly)+1)
	for i := range poly {
		cur := poly[i]
		prev := poly[(i-1+len(poly))%len(poly)]
		dCur, dPrev := d(cur.Position), d(prev.Position)
		curIn, prevIn := dCur >= 0, dPrev >= 0

		switch {
		case prevIn && curIn:
			out = append(out, cur)
		case prevIn && !curIn:
			out = append(out, lerpClipVertex(prev, cur, dPrev/(dPrev-dCur)))
		case !prevIn && curIn:
			out = append(out, lerpClipVertex(prev, cur, dPrev/(dPrev-dCur)))
			out = append(out, cur)
		}
		// both outside: emit nothing
	}
	return out
}

func lerpClipVertex(a, b clipVertex, t float32) clipVertex {
	return clipVertex{
		Position:   a.Position.Add(b.Position.Sub(a.Position).Mul(t)),
		Attributes: a.Attributes.Lerp(b.Attributes, t),
	}
}

// fanTriangulate re-triangulates an N >= 3 vertex convex polygon as the
// fan (v0,v1,v2), (v0,v2,v3), ... of §4.3 step 4.
func fanTriangulate(poly []clipVertex) [][3]clipVertex {
	tris := make([][3]clipVertex, 0, len(poly)-2)
	for i := 1; i+1 < len(poly); i++ {
		tris = append(tris, [3]clipVertex{poly[0], poly[i], poly[i+1]})
	}
	return tris
}

// cullAndSetup runs perspective divide, degeneracy/back-face cull, winding
// canonicalization, bounding-box rejection, and attribute pre-division
// (§4.3 steps 5-8), then hands the surviving triangle to dispatchTiles.
func (r *Renderer) cullAndSetup(tri [3]clipVertex) {
	ctx := r.Ctx

	var screen [3]math.Vec3
	var invW [3]float32
	for i, v := range tri {
		invW[i] = 1 / v.Position.W
		ndc := math.Vec3{X: v.Position.X * invW[i], Y: v.Position.Y * invW[i], Z: v.Position.Z * invW[i]}
		screen[i] = ctx.NDCToScreen(ndc)
	}

	e012 := edgeFunc2(screen[0], screen[1], screen[2])
	if abs32(e012) < 1 {
		return
	}

	wantPositive := ctx.CullFace == core.FrontFaceCW
	isPositive := e012 > 0
	if isPositive != wantPositive {
		return
	}

	attrs := [3]core.AttributeSet{tri[0].Attributes, tri[1].Attributes, tri[2].Attributes}
	if e012 < 0 {
		screen[1], screen[2] = screen[2], screen[1]
		invW[1], invW[2] = invW[2], invW[1]
		attrs[1], attrs[2] = attrs[2], attrs[1]
		e012 = -e012
	}

	bbox := core.Rectangle{
		MinX: min3(screen[0].X, screen[1].X, screen[2].X),
		MinY: min3(screen[0].Y, screen[1].Y, screen[2].Y),
		MaxX: max3(screen[0].X, screen[1].X, screen[2].X),
		MaxY: max3(screen[0].Y, screen[1].Y, screen[2].Y),
	}
	vp := ctx.Viewport
	bbox = bbox.Intersect(core.Rectangle{MinX: vp.X, MinY: vp.Y, MaxX: vp.X + vp.W, MaxY: vp.Y + vp.H})
	if bbox.Empty() {
		return
	}

	var attrsOverW [3]core.AttributeSet
	for i := range attrs {
		attrsOverW[i].Count = attrs[i].Count
		for k := 0; k < attrs[i].Count; k++ {
			attrsOverW[i].Values[k] = attrs[i].Values[k].Mul(invW[i])
		}
	}

	setup := &triangleSetup{
		screen:     screen,
		invW:       invW,
		attrsOverW: attrsOverW,
		e012:       e012,
		ps:         ctx.PS,
		pctx: shader.PixelContext{
			Matrices: ctx.Matrices,
			Material: ctx.Material,
			Light:    ctx.Light,
		},
		colorTargets:     ctx.ColorTargets,
		activeColorCount: ctx.ActiveColorCount(),
		depth:            ctx.Depth,
	}
	if ctx.MSAA.Enabled {
		setup.msaaEnabled = true
		setup.msaaSamples = ctx.MSAA.Samples
		setup.msaaColorSidecars = ctx.MSAA.ColorSidecars
		setup.msaaDepthSidecar = ctx.MSAA.DepthSidecar
	}

	r.dispatchTiles(setup, bbox)
}

// dispatchTiles clips the triangle's bounding box against the viewport
// tile grid and enqueues one command per intersected tile, per §4.3 step 9.
func (r *Renderer) dispatchTiles(setup *triangleSetup, bbox core.Rectangle) {
	ctx := r.Ctx
	tx, ty := ctx.Scheduler.Dims()
	tileW := float32(ctx.Width()) / float32(tx)
	tileH := float32(ctx.Height()) / float32(ty)

	startX := clampTileIndex(int(bbox.MinX/tileW), tx)
	endX := clampTileIndex(int(bbox.MaxX/tileW), tx)
	startY := clampTileIndex(int(bbox.MinY/tileH), ty)
	endY := clampTileIndex(int(bbox.MaxY/tileH), ty)

	for gy := startY; gy <= endY; gy++ {
		for gx := startX; gx <= endX; gx++ {
			tileRect := core.Rectangle{
				MinX: float32(gx) * tileW, MinY: float32(gy) * tileH,
				MaxX: float32(gx+1) * tileW, MaxY: float32(gy+1) * tileH,
			}
			rect := bbox.Intersect(tileRect)
			if rect.Empty() {
				continue
			}
			idx := ctx.Scheduler.TileIndex(gx, gy)
			stats := ctx.TileStats(idx)
			var cmd tile.Command
			if setup.msaaEnabled {
				cmd = &msaaTileCommand{setup: setup, rect: rect, stats: stats}
			} else {
				cmd = &normalTileCommand{setup: setup, rect: rect, stats: stats}
			}
			ctx.Scheduler.Enqueue(idx, cmd)
		}
	}
}

func clampTileIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func min3(a, b, c float32) float32 { return minf(a, minf(b, c)) }
func max3(a, b, c float32) float32 { return maxf(a, maxf(b, c)) }

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
