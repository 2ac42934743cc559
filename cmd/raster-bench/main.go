// Command raster-bench is the headless smoke/benchmark CLI named by the
// package map: it drives the same context/rasterize pipeline as the
// windowed demo but with no GLFW/GL host at all, encoding the resolved
// color buffer straight to a PNG for CI, docs, or a quick visual diff.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"time"

	"swraster/camera"
	"swraster/context"
	"swraster/core"
	rmath "swraster/math"
	"swraster/mesh"
	"swraster/rasterize"
	"swraster/rlog"
	"swraster/shader"
)

func main() {
	width := flag.Int("width", 512, "render target width")
	height := flag.Int("height", 512, "render target height")
	msaa := flag.Bool("msaa", false, "enable MSAA resolve")
	samples := flag.Int("samples", 4, "MSAA sample count, ignored unless -msaa")
	frames := flag.Int("frames", 1, "number of frames to render before exiting")
	out := flag.String("out", "raster-bench.png", "output PNG path")
	shaderName := flag.String("shader", "lit", "built-in shader: lit, color, diffuse, depth")
	logLevel := flag.String("log-level", "warn", "debug, info, warn, error")
	flag.Parse()

	log := rlog.New(rlog.Config{Level: *logLevel})

	ctx := context.New(log)
	defer ctx.Shutdown()

	if err := ctx.SetRenderTarget(*width, *height, 1, *msaa, *samples); err != nil {
		fmt.Fprintf(os.Stderr, "raster-bench: set render target: %v\n", err)
		os.Exit(1)
	}
	ctx.SetViewport(0, 0, float32(*width), float32(*height))
	ctx.SetCullFace(core.FrontFaceCW)

	vs, ps := selectShader(*shaderName)
	ctx.SetShader(vs, ps)
	ctx.SetMaterial(mesh.DefaultMaterial())

	scene := benchCube()
	cam := camera.NewOrbitCamera(rmath.Vec3Zero, 4, 1.0471976, float32(*width)/float32(*height)) // 60° vertical FOV, in radians
	renderer := rasterize.NewRenderer(ctx)

	start := time.Now()
	for i := 0; i < *frames; i++ {
		cam.Orbit(0.05, 0)
		mvp := cam.MVP(rmath.Mat4Identity())
		ctx.SetModelView(mvp.ModelView)
		ctx.SetProjection(mvp.Projection)

		ctx.ClearRenderTarget(core.Color{R: 0.05, G: 0.05, B: 0.08, A: 1})
		ctx.BeginFrame()
		renderer.DrawMesh(scene)
		ctx.EndFrame()
	}
	elapsed := time.Since(start)

	stats := ctx.LastFrameStats()
	fmt.Printf("rendered %d frame(s) in %s (%.2f ms/frame); last frame: %d triangles, %d pixels shaded\n",
		*frames, elapsed, float64(elapsed.Milliseconds())/float64(*frames), stats.Triangles, stats.PixelsShaded)

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "raster-bench: create %s: %v\n", *out, err)
		os.Exit(1)
	}
	defer f.Close()

	img := ctx.GetColorBuffer(0).ToRGBAImage()
	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "raster-bench: encode png: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}

func selectShader(name string) (shader.VertexShader, shader.PixelShader) {
	switch name {
	case "color":
		return shader.NewColorPassthrough()
	case "diffuse":
		return shader.NewDiffuseTextured()
	case "depth":
		return shader.NewDepthOnly()
	default:
		return shader.NewLitColor()
	}
}

// benchCube returns a fixed unit cube so successive runs of this command
// render an identical scene, suitable for a visual diff across commits.
func benchCube() *mesh.Mesh {
	faces := []struct {
		normal rmath.Vec3
		verts  [4]rmath.Vec3
	}{
		{rmath.Vec3{Z: 1}, [4]rmath.Vec3{{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1}}},
		{rmath.Vec3{Z: -1}, [4]rmath.Vec3{{X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}}},
		{rmath.Vec3{X: 1}, [4]rmath.Vec3{{X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}}},
		{rmath.Vec3{X: -1}, [4]rmath.Vec3{{X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}}},
		{rmath.Vec3{Y: 1}, [4]rmath.Vec3{{X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1}}},
		{rmath.Vec3{Y: -1}, [4]rmath.Vec3{{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1}}},
	}
	uvs := [4]rmath.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	var vertices []mesh.Vertex
	var indices []uint32
	for _, f := range faces {
		base := uint32(len(vertices))
		for i, p := range f.verts {
			vertices = append(vertices, mesh.Vertex{Position: p, Normal: f.normal, UV: uvs[i]})
		}
		indices = append(indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	return mesh.SingleSubmesh(vertices, indices, mesh.DefaultMaterial())
}
