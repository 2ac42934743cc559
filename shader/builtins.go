package shader

import (
	"swraster/core"
)

// ColorPassthroughVS transforms position by the draw's MVP and forwards
// attribute slot 0 (a per-vertex color) unchanged to the pixel shader,
// which writes it straight to render target 0. This is the simplest shader
// in the built-in set named by §4.5.
type ColorPassthroughVS struct{}

func (ColorPassthroughVS) Process(ctx *VertexContext, in core.VSInput) core.VSOutput {
	return core.VSOutput{
		Position:   ctx.Matrices.MVP.MulVec(in.Position),
		Attributes: in.Attributes,
	}
}

// colorPassthroughPS writes attribute slot 0 straight to render target 0.
type colorPassthroughPS struct{}

func (colorPassthroughPS) Process(ctx *PixelContext, in core.PSInput) core.PSOutput {
	return oneColorOutput(in.Attributes.Values[0])
}

func (colorPassthroughPS) OutputColorCount() int { return 1 }

// NewColorPassthrough returns the (VertexShader, PixelShader) pair for the
// color pass-through built-in: attribute slot 0 carries a per-vertex color
// straight through to render target 0.
func NewColorPassthrough() (VertexShader, PixelShader) {
	return ColorPassthroughVS{}, colorPassthroughPS{}
}

// DiffuseTexturedVS forwards attribute slot 0 (normal) and slot 1 (UV)
// unchanged; sampling happens in the pixel shader once UVs are
// perspective-correct interpolated.
type DiffuseTexturedVS struct{}

func (DiffuseTexturedVS) Process(ctx *VertexContext, in core.VSInput) core.VSOutput {
	return core.VSOutput{
		Position:   ctx.Matrices.MVP.MulVec(in.Position),
		Attributes: in.Attributes,
	}
}

// DiffuseTexturedPS samples the bound material's diffuse texture at
// attribute slot 1 (UV, per §6: "slot 1 = UV" for draw_mesh vertices).
type DiffuseTexturedPS struct{}

func (DiffuseTexturedPS) Process(ctx *PixelContext, in core.PSInput) core.PSOutput {
	uv := in.Attributes.Values[1]
	base := core.ColorWhite
	if ctx.Material != nil {
		base = ctx.Material.BaseColor()
		if tex := ctx.Material.DiffuseTexture(); tex != nil {
			sampled := tex.SampleLinear(uv.X, uv.Y)
			base = core.Color{
				R: base.R * sampled.R,
				G: base.G * sampled.G,
				B: base.B * sampled.B,
				A: base.A * sampled.A,
			}
		}
	}
	return oneColorOutput(base.ToVec4())
}

func (DiffuseTexturedPS) OutputColorCount() int { return 1 }

// NewDiffuseTextured returns the (VertexShader, PixelShader) pair for the
// diffuse-textured built-in.
func NewDiffuseTextured() (VertexShader, PixelShader) {
	return DiffuseTexturedVS{}, DiffuseTexturedPS{}
}

// DepthOnlyVS transforms position only; no attributes are forwarded, since
// no pixel shader will read them.
type DepthOnlyVS struct{}

func (DepthOnlyVS) Process(ctx *VertexContext, in core.VSInput) core.VSOutput {
	return core.VSOutput{Position: ctx.Matrices.MVP.MulVec(in.Position)}
}

// DepthOnlyPS writes no color output; a draw bound to this shader updates
// only the depth buffer. OutputColorCount = 0 per §4.5.
type DepthOnlyPS struct{}

func (DepthOnlyPS) Process(ctx *PixelContext, in core.PSInput) core.PSOutput {
	return core.PSOutput{}
}

func (DepthOnlyPS) OutputColorCount() int { return 0 }

// NewDepthOnly returns the (VertexShader, PixelShader) pair for the
// depth-only built-in.
func NewDepthOnly() (VertexShader, PixelShader) {
	return DepthOnlyVS{}, DepthOnlyPS{}
}

// LitVS forwards the world-space normal in attribute slot 0 and UV in
// slot 1, transformed by the normal matrix so non-uniform scale doesn't
// skew shading.
type LitVS struct{}

func (LitVS) Process(ctx *VertexContext, in core.VSInput) core.VSOutput {
	out := core.VSOutput{
		Position:   ctx.Matrices.MVP.MulVec(in.Position),
		Attributes: in.Attributes,
	}
	if out.Attributes.Count > 0 {
		n := ctx.Matrices.NormalMatrix.MulVec3(out.Attributes.Values[0].ToVec3()).Normalize()
		out.Attributes.Values[0] = n.ToVec4(0)
	}
	return out
}

// LitColorPS is the Lambertian N·L shader supplemented from
// original_source/Renderer/Include/SR_Light.h: it has no counterpart in
// spec.md's built-in list but the spec's Non-goals never exclude simple
// directional lighting, and the teacher's internal/opengl/renderer.go
// fragment shader performs the same diffuse computation in GLSL.
type LitColorPS struct{}

func (LitColorPS) Process(ctx *PixelContext, in core.PSInput) core.PSOutput {
	n := in.Attributes.Values[0].ToVec3().Normalize()
	ndotl := n.Dot(ctx.Light.Direction)
	if ndotl < 0 {
		ndotl = 0
	}
	base := core.ColorWhite
	if ctx.Material != nil {
		base = ctx.Material.BaseColor()
	}
	lit := ndotl * ctx.Light.Intensity
	color := core.Color{
		R: base.R * ctx.Light.Color.R * lit,
		G: base.G * ctx.Light.Color.G * lit,
		B: base.B * ctx.Light.Color.B * lit,
		A: base.A,
	}
	return oneColorOutput(color.ToVec4())
}

func (LitColorPS) OutputColorCount() int { return 1 }

// NewLitColor returns the (VertexShader, PixelShader) pair for the
// directional-light Lambertian built-in.
func NewLitColor() (VertexShader, PixelShader) {
	return LitVS{}, LitColorPS{}
}
