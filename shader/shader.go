// Package shader defines the pipeline's shader contract (§4.5 of the
// distilled spec): the VertexShader/PixelShader capability interfaces the
// renderer binds per draw call, plus the built-in shader set the spec
// expects to ship (color pass-through, diffuse-textured, depth-only) and a
// directional-light Lambertian shader supplemented from
// original_source/Renderer/Include/SR_Light.h.
package shader

import (
	"swraster/buffer"
	"swraster/core"
	"swraster/math"
)

// MaterialRef is the minimal contract a pixel shader needs from a bound
// material: §3 states the core "only requires an optional diffuse texture
// reference" from the otherwise-opaque Material bag.
type MaterialRef interface {
	DiffuseTexture() *buffer.Buffer2D
	BaseColor() core.Color
}

// VertexContext carries the per-draw matrix set a vertex shader needs to
// transform object-space input into clip space. Vertex shaders must be
// pure functions of (ctx, in) — no mutable global state — because the
// producer may run ahead of workers still consuming prior commands.
type VertexContext struct {
	Matrices core.MVPMatrices
}

// PixelContext carries a snapshot of the matrices (including the normal
// matrix) and the bound material for a draw call. Workers may invoke a
// pixel shader concurrently on different pixels of the same draw, so
// PixelContext must never be mutated after it is captured into a tile
// command.
type PixelContext struct {
	Matrices core.MVPMatrices
	Material MaterialRef
	Light    DirectionalLight
}

// VertexShader transforms one object-space vertex into clip space and
// forwards whatever attributes the bound pixel shader expects.
type VertexShader interface {
	Process(ctx *VertexContext, in core.VSInput) core.VSOutput
}

// PixelShader shades one interpolated sample into up to core.MaxMRT output
// colors. OutputColorCount must never exceed the active render target
// count the context is currently configured with.
type PixelShader interface {
	Process(ctx *PixelContext, in core.PSInput) core.PSOutput
	OutputColorCount() int
}

// DirectionalLight is a single directional light, supplemented from
// original_source/Renderer/Include/SR_Light.h; the distilled spec's
// Non-goals exclude gamma/tonemap/stencil/mipmaps but not lighting.
type DirectionalLight struct {
	Direction math.Vec3 // points from the surface toward the light, normalized
	Color     core.Color
	Intensity float32
}

// DefaultDirectionalLight mirrors the single hard-coded light the teacher's
// internal/opengl/renderer.go fragment shader uses for its diffuse term.
func DefaultDirectionalLight() DirectionalLight {
	return DirectionalLight{
		Direction: math.Vec3{X: 0.3, Y: 0.8, Z: 0.5}.Normalize(),
		Color:     core.ColorWhite,
		Intensity: 1.0,
	}
}

func oneColorOutput(v math.Vec4) core.PSOutput {
	var out core.PSOutput
	out.Colors[0] = v
	out.ColorCount = 1
	return out
}
