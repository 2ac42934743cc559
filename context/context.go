// Package context implements the render context of §4.2: render target and
// MSAA sidecar ownership, the matrix/viewport/cull state a draw call binds
// to, the frame lifecycle (begin/end, clear, depth test, MSAA resolve),
// and performance counters. Unlike the source renderer's process-wide tile
// scheduler singleton, Context owns its own tile.Scheduler so multiple
// contexts can coexist (spec.md §9 design notes).
package context

import (
	"fmt"

	"swraster/buffer"
	"swraster/core"
	"swraster/math"
	"swraster/rlog"
	"swraster/shader"
	"swraster/tile"
)

// MSAAConfig holds the MSAA sidecar state: whether multisampling is
// enabled, the per-pixel sample count, and the sidecar render targets.
type MSAAConfig struct {
	Enabled bool
	Samples int

	ColorSidecars [core.MaxMRT]*buffer.Buffer2D
	DepthSidecar  *buffer.Buffer2D
}

// Stats are the per-tile-worker-local performance counters named by §4.2
// and §5; each tile exclusively owns one Stats value (no atomics needed,
// since a pixel — and hence a counter update for it — belongs to exactly
// one tile), aggregated into a FrameStats snapshot on EndFrame.
type Stats struct {
	Triangles         int64
	Vertices          int64
	ClipInvocations   int64
	RasterInvocations int64
	PixelsShaded      int64
}

func (s *Stats) add(o Stats) {
	s.Triangles += o.Triangles
	s.Vertices += o.Vertices
	s.ClipInvocations += o.ClipInvocations
	s.RasterInvocations += o.RasterInvocations
	s.PixelsShaded += o.PixelsShaded
}

// FrameStats is the aggregated Stats snapshot for the most recently
// completed frame, supplemented from
// original_source/Renderer/Include/SR_Performance.h.
type FrameStats = Stats

// Context owns every render target, the tile scheduler, and the state a
// draw call binds (matrices, viewport, cull mode, bound shaders/material).
type Context struct {
	log *rlog.Logger

	width, height int
	colorFormat   core.PixelFormat

	ColorTargets     [core.MaxMRT]*buffer.Buffer2D
	activeColorCount int
	Depth            *buffer.Buffer2D

	MSAA MSAAConfig

	Viewport core.Viewport
	CullFace core.FrontFace

	Matrices core.MVPMatrices

	VS       shader.VertexShader
	PS       shader.PixelShader
	Material shader.MaterialRef
	Light    shader.DirectionalLight

	Scheduler *tile.Scheduler

	tileStats     []Stats
	lastFrameStat FrameStats
}

// New constructs a Context with its own tile scheduler, started
// immediately (this is the only place a Scheduler is created; a process
// may hold as many contexts as it likes).
func New(log *rlog.Logger) *Context {
	c := &Context{
		log:      log,
		CullFace: core.FrontFaceCW,
		Light:    shader.DefaultDirectionalLight(),
	}
	c.Scheduler = tile.NewScheduler(tile.DefaultGridSize, tile.DefaultGridSize, tile.DefaultQueueCapacity, log)
	c.tileStats = make([]Stats, c.Scheduler.TileCount())
	c.Scheduler.Start()
	return c
}

// TileStats returns a pointer to the given tile's local counter block.
// Rasterizer commands running on that tile's worker update it directly;
// no synchronization is needed because each tile has exactly one writer.
func (c *Context) TileStats(tileIndex int) *Stats {
	return &c.tileStats[tileIndex]
}

// SetRenderTarget allocates activeColorCount color targets and one F32
// depth target at w*h, plus MSAA sidecars at (w*samples)*h if enabled.
// No existing state is mutated if the request is invalid.
func (c *Context) SetRenderTarget(w, h, activeColorCount int, enableMSAA bool, samples int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("context: invalid render target dimensions %dx%d", w, h)
	}
	if activeColorCount < 1 || activeColorCount > core.MaxMRT {
		return fmt.Errorf("context: color target count %d exceeds MaxMRT=%d", activeColorCount, core.MaxMRT)
	}
	if enableMSAA && samples < 2 {
		return fmt.Errorf("context: MSAA requires samples >= 2, got %d", samples)
	}

	colorTargets := [core.MaxMRT]*buffer.Buffer2D{}
	for i := 0; i < activeColorCount; i++ {
		b, err := buffer.New(w, h, core.FormatRGBA8)
		if err != nil {
			return fmt.Errorf("context: color target %d: %w", i, err)
		}
		colorTargets[i] = b
	}
	depth, err := buffer.New(w, h, core.FormatF32)
	if err != nil {
		return fmt.Errorf("context: depth target: %w", err)
	}

	var msaa MSAAConfig
	if enableMSAA {
		msaa.Enabled = true
		msaa.Samples = samples
		for i := 0; i < activeColorCount; i++ {
			b, err := buffer.New(w*samples, h, core.FormatRGBA8)
			if err != nil {
				return fmt.Errorf("context: MSAA color sidecar %d: %w", i, err)
			}
			msaa.ColorSidecars[i] = b
		}
		d, err := buffer.New(w*samples, h, core.FormatF32)
		if err != nil {
			return fmt.Errorf("context: MSAA depth sidecar: %w", err)
		}
		msaa.DepthSidecar = d
	}

	c.width, c.height = w, h
	c.activeColorCount = activeColorCount
	c.ColorTargets = colorTargets
	c.Depth = depth
	c.MSAA = msaa
	c.log.Debugf("render target set: %dx%d, %d color targets, msaa=%v samples=%d", w, h, activeColorCount, enableMSAA, samples)
	return nil
}

// Width and Height return the logical render target dimensions.
func (c *Context) Width() int  { return c.width }
func (c *Context) Height() int { return c.height }

// ActiveColorCount returns how many of ColorTargets are live.
func (c *Context) ActiveColorCount() int { return c.activeColorCount }

// GetColorBuffer returns render target i, or nil if i is out of range —
// this is §6's "Read color buffer 0... blit to the host surface" contract.
func (c *Context) GetColorBuffer(i int) *buffer.Buffer2D {
	if i < 0 || i >= c.activeColorCount {
		return nil
	}
	return c.ColorTargets[i]
}

// SetViewport defines the screen-space rectangle NDC coordinates map into.
func (c *Context) SetViewport(x, y, w, h float32) {
	c.Viewport = core.Viewport{X: x, Y: y, W: w, H: h}
}

// SetModelView recomputes the full matrix set from a new modelview matrix,
// keeping the current projection.
func (c *Context) SetModelView(modelView math.Mat4) {
	c.Matrices = core.NewMVPMatrices(modelView, c.Matrices.Projection)
}

// SetProjection recomputes the full matrix set from a new projection
// matrix, keeping the current modelview.
func (c *Context) SetProjection(projection math.Mat4) {
	c.Matrices = core.NewMVPMatrices(c.Matrices.ModelView, projection)
}

// SetCullFace selects which screen-space winding is front-facing.
func (c *Context) SetCullFace(mode core.FrontFace) {
	c.CullFace = mode
}

// SetShader binds the vertex/pixel shader pair for subsequent draws.
func (c *Context) SetShader(vs shader.VertexShader, ps shader.PixelShader) {
	c.VS, c.PS = vs, ps
}

// SetMaterial binds the material subsequent draws' pixel shader will read.
func (c *Context) SetMaterial(m shader.MaterialRef) {
	c.Material = m
}

// ClearRenderTarget clears depth to 1.0 (always, independent of the clear
// color — spec.md §9's resolved open question: depth clear is never tied
// to a clear color channel) and every color target (and MSAA sidecar, if
// enabled) to the given color.
func (c *Context) ClearRenderTarget(color core.Color) {
	depthClear := core.Color{R: 1, A: 1}
	c.Depth.Clear(depthClear)
	for i := 0; i < c.activeColorCount; i++ {
		c.ColorTargets[i].Clear(color)
	}
	if c.MSAA.Enabled {
		c.MSAA.DepthSidecar.Clear(depthClear)
		for i := 0; i < c.activeColorCount; i++ {
			c.MSAA.ColorSidecars[i].Clear(color)
		}
	}
}

// BeginFrame resets per-tile performance counters.
func (c *Context) BeginFrame() {
	for i := range c.tileStats {
		c.tileStats[i] = Stats{}
	}
}

// EndFrame drains the tile scheduler (the frame-level barrier: every
// enqueued tile command has finished before this returns), then resolves
// MSAA sidecars into the primary targets if enabled, then aggregates
// per-tile stats into LastFrameStats.
func (c *Context) EndFrame() {
	c.Scheduler.Drain()
	if c.MSAA.Enabled {
		c.resolveMSAA()
	}
	var agg Stats
	for i := range c.tileStats {
		agg.add(c.tileStats[i])
	}
	c.lastFrameStat = agg
}

// LastFrameStats returns the aggregated counters from the most recently
// completed frame.
func (c *Context) LastFrameStats() FrameStats {
	return c.lastFrameStat
}

// resolveMSAA averages the S samples per pixel in each sidecar into the
// corresponding primary render target and depth buffer, per §4.3.3.
func (c *Context) resolveMSAA() {
	s := c.MSAA.Samples
	inv := 1.0 / float32(s)

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			var depthSum float32
			for k := 0; k < s; k++ {
				depthSum += c.MSAA.DepthSidecar.Read(x*s+k, y).R
			}
			c.Depth.Write(x, y, core.Color{R: depthSum * inv, A: 1})
		}
	}

	for i := 0; i < c.activeColorCount; i++ {
		sidecar := c.MSAA.ColorSidecars[i]
		target := c.ColorTargets[i]
		for y := 0; y < c.height; y++ {
			for x := 0; x < c.width; x++ {
				var r, g, b, a float32
				for k := 0; k < s; k++ {
					sample := sidecar.Read(x*s+k, y)
					r += sample.R
					g += sample.G
					b += sample.B
					a += sample.A
				}
				target.Write(x, y, core.Color{R: r * inv, G: g * inv, B: b * inv, A: a * inv})
			}
		}
	}
	c.log.Debugf("msaa resolved: %dx%d at %d samples", c.width, c.height, s)
}

// DepthTestAndOverride performs the LESS_EQUAL depth test against buf at
// (x,y) and writes z on pass. A pixel belongs to exactly one tile, so this
// read-then-write is race-free without atomics despite running
// concurrently across tiles (§5).
func DepthTestAndOverride(buf *buffer.Buffer2D, x, y int, z float32) bool {
	prev := buf.Read(x, y).R
	if z <= prev {
		buf.Write(x, y, core.Color{R: z, A: 1})
		return true
	}
	return false
}

// NDCToScreen maps a post-divide NDC coordinate to screen space through
// the bound viewport. Viewport y grows downward; NDC y grows upward; the
// mapping inverts y exactly once here (spec.md §9's resolved open
// question on the Y-axis convention).
func (c *Context) NDCToScreen(ndc math.Vec3) math.Vec3 {
	vp := c.Viewport
	sx := vp.X + (ndc.X+1)*0.5*vp.W
	sy := vp.Y + (1-(ndc.Y+1)*0.5)*vp.H
	sz := (ndc.Z + 1) * 0.5
	return math.Vec3{X: sx, Y: sy, Z: sz}
}

// Shutdown joins the tile scheduler's workers. Call once, when the
// context itself is being torn down (not between frames).
func (c *Context) Shutdown() error {
	return c.Scheduler.Shutdown()
}
