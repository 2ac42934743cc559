// Command raster-demo is the GLFW + OpenGL host named by §6's external
// interface: it owns the window and frame tick, drives the CPU rasterizer
// through a full begin/draw/end cycle every frame, and presents the
// resolved color buffer by blitting it onto a single textured quad. GL
// never touches triangle, pixel, or depth processing here — only the
// final present of a buffer the CPU pipeline already finished, matching
// §1's "window/surface management is host responsibility".
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"swraster/buffer"
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
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 720, "window height")
	msaa := flag.Bool("msaa", false, "enable MSAA resolve")
	samples := flag.Int("samples", 4, "MSAA sample count, ignored unless -msaa")
	meshPath := flag.String("mesh", "", "OBJ or glTF file to load; a built-in cube is drawn if empty")
	shaderName := flag.String("shader", "lit", "built-in shader: lit, color, diffuse, depth")
	logLevel := flag.String("log-level", "info", "debug, info, warn, error")
	logFile := flag.String("log-file", "", "rotating log file path; empty logs to stderr")
	flag.Parse()

	log := rlog.New(rlog.Config{Level: *logLevel, LogFile: *logFile})

	window, err := core.NewWindow(core.WindowConfig{
		Width:     *width,
		Height:    *height,
		Title:     "raster-demo",
		Resizable: true,
		VSync:     true,
	})
	if err != nil {
		log.Errorf("create window: %v", err)
		os.Exit(1)
	}
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		log.Errorf("gl init: %v", err)
		os.Exit(1)
	}
	log.Infof("opengl version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	blit, err := newBlitter()
	if err != nil {
		log.Errorf("blitter setup: %v", err)
		os.Exit(1)
	}
	defer blit.destroy()

	ctx := context.New(log)
	defer ctx.Shutdown()

	if err := ctx.SetRenderTarget(*width, *height, 1, *msaa, *samples); err != nil {
		log.Errorf("set render target: %v", err)
		os.Exit(1)
	}
	ctx.SetViewport(0, 0, float32(*width), float32(*height))
	ctx.SetCullFace(core.FrontFaceCW)

	vs, ps := selectShader(*shaderName)
	ctx.SetShader(vs, ps)

	scene, err := loadScene(*meshPath)
	if err != nil {
		log.Errorf("load scene: %v", err)
		os.Exit(1)
	}

	aspect := float32(*width) / float32(*height)
	cam := camera.NewOrbitCamera(rmath.Vec3Zero, 4, 1.0471976, aspect) // 60° vertical FOV, in radians

	dragging := false
	lastX, lastY := 0.0, 0.0
	window.SetScrollCallback(func(_, yoff float64) {
		cam.Zoom(float32(-yoff) * 0.3)
	})

	renderer := rasterize.NewRenderer(ctx)

	for !window.ShouldClose() {
		window.PollEvents()

		fw, fh := window.GetFramebufferSize()
		if fw != ctx.Width() || fh != ctx.Height() {
			if err := ctx.SetRenderTarget(fw, fh, 1, *msaa, *samples); err != nil {
				log.Warnf("resize render target: %v", err)
			} else {
				ctx.SetViewport(0, 0, float32(fw), float32(fh))
				cam.UpdateAspectRatio(float32(fw), float32(fh))
			}
		}

		if window.IsMouseButtonPressed(0) {
			cx, cy := window.GetCursorPos()
			if dragging {
				cam.Orbit(float32(cx-lastX)*0.005, float32(cy-lastY)*0.005)
			}
			dragging = true
			lastX, lastY = cx, cy
		} else {
			dragging = false
		}

		ctx.SetMaterial(mesh.DefaultMaterial())
		mvp := cam.MVP(rmath.Mat4Identity())
		ctx.SetModelView(mvp.ModelView)
		ctx.SetProjection(mvp.Projection)

		ctx.ClearRenderTarget(core.Color{R: 0.05, G: 0.05, B: 0.08, A: 1})
		ctx.BeginFrame()
		renderer.DrawMesh(scene)
		ctx.EndFrame()

		stats := ctx.LastFrameStats()
		log.Debugf("frame: triangles=%d pixels=%d", stats.Triangles, stats.PixelsShaded)

		blit.present(ctx.GetColorBuffer(0))
		window.SwapBuffers()
	}
}

func selectShader(name string) (shader.VertexShader, shader.PixelShader) {
	switch strings.ToLower(name) {
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

// loadScene loads path as an OBJ or glTF mesh by extension, or falls back
// to a built-in cube so the demo always has something to draw.
func loadScene(path string) (*mesh.Mesh, error) {
	if path == "" {
		return buildCube(), nil
	}
	lower := strings.ToLower(path)
	var m *mesh.Mesh
	var err error
	switch {
	case strings.HasSuffix(lower, ".gltf"), strings.HasSuffix(lower, ".glb"):
		m, err = mesh.LoadGLTF(path)
	default:
		m, err = mesh.LoadOBJ(path)
	}
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("loaded mesh failed validation: %w", err)
	}
	return m, nil
}

// buildCube returns a 24-vertex, per-face-normal unit cube so the demo
// has a lit subject without requiring a mesh on disk.
func buildCube() *mesh.Mesh {
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

// blitter owns the GL program, quad geometry, and texture used to present
// a CPU-rasterized Buffer2D every frame, grounded on the teacher's
// opengl.Renderer shader-compilation helpers adapted from a 3D mesh draw
// to a fixed full-screen textured quad.
type blitter struct {
	program uint32
	vao     uint32
	vbo     uint32
	texture uint32
}

const blitVertexShader = `#version 410 core
layout(location = 0) in vec2 inPosition;
layout(location = 1) in vec2 inUV;
out vec2 fragUV;
void main() {
    fragUV = inUV;
    gl_Position = vec4(inPosition, 0.0, 1.0);
}
` + "\x00"

const blitFragmentShader = `#version 410 core
in vec2 fragUV;
out vec4 outColor;
uniform sampler2D colorBuffer;
void main() {
    outColor = texture(colorBuffer, fragUV);
}
` + "\x00"

// quadVertices is a clip-space full-screen quad; V is flipped relative to
// the buffer's top-left-origin row layout so row 0 of Buffer2D lands at
// the top of the window.
var quadVertices = [...]float32{
	-1, -1, 0, 1,
	1, -1, 1, 1,
	1, 1, 1, 0,
	-1, -1, 0, 1,
	1, 1, 1, 0,
	-1, 1, 0, 0,
}

func newBlitter() (*blitter, error) {
	prog, err := newProgram(blitVertexShader, blitFragmentShader)
	if err != nil {
		return nil, err
	}

	b := &blitter{program: prog}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices[:]), gl.STATIC_DRAW)
	stride := int32(4 * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.BindVertexArray(0)

	gl.GenTextures(1, &b.texture)
	gl.BindTexture(gl.TEXTURE_2D, b.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return b, nil
}

// present uploads buf's RGBA8 bytes to the texture and draws the quad.
// buf.Data is tightly packed (BytesPerRow == Width*4), matching the row
// alignment GL_UNPACK_ALIGNMENT=4 expects for RGBA8.
func (b *blitter) present(buf *buffer.Buffer2D) {
	gl.UseProgram(b.program)
	gl.BindTexture(gl.TEXTURE_2D, b.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(buf.Width), int32(buf.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf.Data))
	gl.Uniform1i(gl.GetUniformLocation(b.program, gl.Str("colorBuffer\x00")), 0)

	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (b *blitter) destroy() {
	gl.DeleteTextures(1, &b.texture)
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteProgram(b.program)
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		logStr := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(logStr))
		return 0, fmt.Errorf("link failed: %v", logStr)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		logStr := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(logStr))
		return 0, fmt.Errorf("compile failed: %v", logStr)
	}
	return shader, nil
}
