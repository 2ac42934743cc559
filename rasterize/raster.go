package rasterize

import (
	stdmath "math"

	"swraster/buffer"
	"swraster/context"
	"swraster/core"
	"swraster/math"
	"swraster/shader"
)

// triangleSetup is the immutable per-subtriangle snapshot handed to every
// tile command it is dispatched to (§4.3 step 9 / §4.4's "immutable
// triangle-setup snapshot"). It is read concurrently by every worker
// rasterizing a tile this triangle overlaps and must never be mutated
// after cullAndSetup builds it.
type triangleSetup struct {
	screen     [3]math.Vec3 // x,y in screen space; z already post-divide NDC depth
	invW       [3]float32
	attrsOverW [3]core.AttributeSet
	e012       float32 // positive after winding canonicalization

	ps   shader.PixelShader
	pctx shader.PixelContext

	colorTargets     [core.MaxMRT]*buffer.Buffer2D
	activeColorCount int
	depth            *buffer.Buffer2D

	msaaEnabled       bool
	msaaSamples       int
	msaaColorSidecars [core.MaxMRT]*buffer.Buffer2D
	msaaDepthSidecar  *buffer.Buffer2D
}

// edgeFunc is the signed-area edge function of A->B evaluated at P:
// positive when P is to the left of the directed edge, matching §4.3
// step 6's E012 = (P1.x−P0.x)(P2.y−P0.y) − (P1.y−P0.y)(P2.x−P0.x) with
// A=P0, B=P1, P=P2.
func edgeFunc(a, b math.Vec3, px, py float32) float32 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

// edgeFunc2 is edgeFunc applied to a third triangle vertex, used for the
// overall triangle area test E012 of §4.3 step 6.
func edgeFunc2(a, b, c math.Vec3) float32 {
	return edgeFunc(a, b, c.X, c.Y)
}

// edgeStep bundles an edge function's incremental x/y steps with its
// value at a starting pixel center, for the zero-multiply traversal of
// §4.3.1: stepX/stepY are edgeFunc's exact partial derivatives in x/y.
type edgeStep struct {
	value, stepX, stepY float32
}

func makeEdgeStep(a, b math.Vec3, startX, startY float32) edgeStep {
	return edgeStep{
		value: edgeFunc(a, b, startX, startY),
		stepX: -(b.Y - a.Y),
		stepY: b.X - a.X,
	}
}

// isTopLeft classifies edge A->B per the top-left fill rule of §4.3.1: a
// top edge has dy=0, dx>0; a left edge has dy>0.
func isTopLeft(a, b math.Vec3) bool {
	dy := b.Y - a.Y
	dx := b.X - a.X
	if dy == 0 && dx > 0 {
		return true
	}
	return dy > 0
}

// edgeIncluded applies the fill rule to one edge's value: strictly
// positive is always inside; exactly zero is inside only on a top or
// left edge, which guarantees shared edges are rasterized exactly once.
func edgeIncluded(v float32, topLeft bool) bool {
	if v > 0 {
		return true
	}
	if v == 0 {
		return topLeft
	}
	return false
}

func pixelBounds(rect core.Rectangle) (x0, y0, x1, y1 int) {
	x0 = int(rect.MinX)
	y0 = int(rect.MinY)
	x1 = int(rect.MaxX)
	y1 = int(rect.MaxY)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}

// normalTileCommand rasterizes setup's triangle within rect against the
// primary render targets, per §4.3.1.
type normalTileCommand struct {
	setup *triangleSetup
	rect  core.Rectangle
	stats *context.Stats
}

func (c *normalTileCommand) Execute() {
	rasterizeTileNormal(c.setup, c.rect, c.stats)
}

func rasterizeTileNormal(s *triangleSetup, rect core.Rectangle, stats *context.Stats) {
	x0, y0, x1, y1 := pixelBounds(rect)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	stats.Triangles++
	stats.Vertices += 3
	stats.ClipInvocations++

	v0, v1, v2 := s.screen[0], s.screen[1], s.screen[2]
	tl12, tl20, tl01 := isTopLeft(v1, v2), isTopLeft(v2, v0), isTopLeft(v0, v1)

	startX, startY := float32(x0)+0.5, float32(y0)+0.5
	e12 := makeEdgeStep(v1, v2, startX, startY)
	e20 := makeEdgeStep(v2, v0, startX, startY)
	e01 := makeEdgeStep(v0, v1, startX, startY)

	row12, row20, row01 := e12.value, e20.value, e01.value
	for y := y0; y < y1; y++ {
		cur12, cur20, cur01 := row12, row20, row01
		for x := x0; x < x1; x++ {
			stats.RasterInvocations++
			if edgeIncluded(cur12, tl12) && edgeIncluded(cur20, tl20) && edgeIncluded(cur01, tl01) {
				shadeAndWritePixel(s, x, y, cur12, cur20, s.depth, s.colorTargets, s.activeColorCount, stats)
			} else if cur12 < 0 && e12.stepX <= 0 && cur20 < 0 && e20.stepX <= 0 && cur01 < 0 && e01.stepX <= 0 {
				break
			}
			cur12 += e12.stepX
			cur20 += e20.stepX
			cur01 += e01.stepX
		}
		row12 += e12.stepY
		row20 += e20.stepY
		row01 += e01.stepY
	}
}

// shadeAndWritePixel computes barycentrics from two of the three edge
// values (the third follows as 1-w0-w1 to avoid rounding drift, §4.3.1),
// depth-tests, interpolates attributes perspective-correctly, invokes the
// pixel shader, and writes the resulting colors.
func shadeAndWritePixel(s *triangleSetup, x, y int, e12, e20 float32, depthBuf *buffer.Buffer2D,
	colorTargets [core.MaxMRT]*buffer.Buffer2D, activeColorCount int, stats *context.Stats) {

	w0 := e12 / s.e012
	w1 := e20 / s.e012
	w2 := 1 - w0 - w1

	depth := w0*s.screen[0].Z + w1*s.screen[1].Z + w2*s.screen[2].Z
	if !context.DepthTestAndOverride(depthBuf, x, y, depth) {
		return
	}

	interp := interpolateAttributes(s, w0, w1, w2)
	out := s.ps.Process(&s.pctx, core.PSInput{Attributes: interp})
	stats.PixelsShaded++

	n := out.ColorCount
	if n > activeColorCount {
		n = activeColorCount
	}
	for i := 0; i < n; i++ {
		colorTargets[i].Write(x, y, core.ColorFromVec4(out.Colors[i]))
	}
}

func interpolateAttributes(s *triangleSetup, w0, w1, w2 float32) core.AttributeSet {
	W := 1 / (w0*s.invW[0] + w1*s.invW[1] + w2*s.invW[2])
	count := s.attrsOverW[0].Count
	var out core.AttributeSet
	out.Count = count
	for k := 0; k < count; k++ {
		v := s.attrsOverW[0].Values[k].Mul(w0).
			Add(s.attrsOverW[1].Values[k].Mul(w1)).
			Add(s.attrsOverW[2].Values[k].Mul(w2))
		out.Values[k] = v.Mul(W)
	}
	return out
}

// msaaTileCommand rasterizes setup's triangle within rect against the
// MSAA sidecar targets, per §4.3.2.
type msaaTileCommand struct {
	setup *triangleSetup
	rect  core.Rectangle
	stats *context.Stats
}

func (c *msaaTileCommand) Execute() {
	rasterizeTileMSAA(c.setup, c.rect, c.stats)
}

// sampleOffsets4 is the canonical 4-sample rotated grid named in §4.3.2.
var sampleOffsets4 = [4][2]float32{
	{0.25, 0.25}, {0.75, 0.25}, {0.75, 0.75}, {0.25, 0.75},
}

// sampleOffsets returns n per-pixel sample offsets in [0,1)x[0,1). n=4
// uses the spec's literal rotated grid; other counts fall back to an
// evenly rotated ring around the pixel center.
func sampleOffsets(n int) [][2]float32 {
	if n == 4 {
		return sampleOffsets4[:]
	}
	out := make([][2]float32, n)
	for k := 0; k < n; k++ {
		theta := (float32(k)+0.5)*2*3.14159265/float32(n) + 0.78539816
		out[k] = [2]float32{0.5 + 0.25*cos32(theta), 0.5 + 0.25*sin32(theta)}
	}
	return out
}

func rasterizeTileMSAA(s *triangleSetup, rect core.Rectangle, stats *context.Stats) {
	x0, y0, x1, y1 := pixelBounds(rect)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	stats.Triangles++
	stats.Vertices += 3
	stats.ClipInvocations++

	v0, v1, v2 := s.screen[0], s.screen[1], s.screen[2]
	tl12, tl20, tl01 := isTopLeft(v1, v2), isTopLeft(v2, v0), isTopLeft(v0, v1)
	offsets := sampleOffsets(s.msaaSamples)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			stats.RasterInvocations++
			covered := make([]bool, len(offsets))
			anyCovered := false
			for k, off := range offsets {
				sx, sy := float32(x)+off[0], float32(y)+off[1]
				e12 := edgeFunc(v1, v2, sx, sy)
				e20 := edgeFunc(v2, v0, sx, sy)
				e01 := edgeFunc(v0, v1, sx, sy)
				if !edgeIncluded(e12, tl12) || !edgeIncluded(e20, tl20) || !edgeIncluded(e01, tl01) {
					continue
				}
				w0, w1 := e12/s.e012, e20/s.e012
				w2 := 1 - w0 - w1
				depth := w0*v0.Z + w1*v1.Z + w2*v2.Z
				col := x*len(offsets) + k
				if context.DepthTestAndOverride(s.msaaDepthSidecar, col, y, depth) {
					covered[k] = true
					anyCovered = true
				}
			}
			if !anyCovered {
				continue
			}

			cx, cy := float32(x)+0.5, float32(y)+0.5
			e12c := edgeFunc(v1, v2, cx, cy)
			e20c := edgeFunc(v2, v0, cx, cy)
			w0 := e12c / s.e012
			w1 := e20c / s.e012
			w2 := 1 - w0 - w1
			interp := interpolateAttributes(s, w0, w1, w2)
			out := s.ps.Process(&s.pctx, core.PSInput{Attributes: interp})
			stats.PixelsShaded++

			n := out.ColorCount
			if n > s.activeColorCount {
				n = s.activeColorCount
			}
			for i := 0; i < n; i++ {
				color := core.ColorFromVec4(out.Colors[i])
				for k, isCovered := range covered {
					if isCovered {
						s.msaaColorSidecars[i].Write(x*len(offsets)+k, y, color)
					}
				}
			}
		}
	}
}

func cos32(x float32) float32 { return float32(stdmath.Cos(float64(x))) }
func sin32(x float32) float32 { return float32(stdmath.Sin(float64(x))) }
