// Package mesh implements the §3 data model's Mesh/SubMesh/Material types
// and the loaders that supplement §6's "host supplies vertex/index/material
// data already in memory": the core never reads files itself, but a CPU
// rasterizer with no way to get a triangle onto the screen besides literal
// coordinates isn't a complete system, so an OBJ loader (adapted from the
// teacher's scene.LoadOBJ) and a glTF loader (github.com/qmuntal/gltf,
// already a teacher dependency) live here.
package mesh

import (
	"fmt"
	"sort"

	"swraster/buffer"
	"swraster/core"
	"swraster/math"
)

// Vertex is the draw_mesh vertex format from §6: position is a 3-vector;
// attribute slot 0 = normal, slot 1 = UV (with the V flip applied at load
// time to match top-left texture origin).
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// ToVSInput builds the core.VSInput the renderer feeds to the bound vertex
// shader: slot 0 = normal (w unused), slot 1 = UV (u, v, 1).
func (v Vertex) ToVSInput() core.VSInput {
	return core.VSInput{
		Position: v.Position.ToVec4(1),
		Attributes: core.AttributeSet{
			Count: 2,
			Values: [core.MaxAttributes]math.Vec4{
				v.Normal.ToVec4(0),
				{X: v.UV.X, Y: v.UV.Y, Z: 1},
			},
		},
	}
}

// Material is the §3 "opaque polymorphic bag keyed by shader
// expectations"; the core only requires an optional diffuse texture
// reference and a base color, realized as shader.MaterialRef via Go's
// structural interfaces (no import of package shader needed here).
type Material struct {
	Name    string
	Color   core.Color
	Diffuse *buffer.Buffer2D
}

// DefaultMaterial returns an opaque-white material with no texture.
func DefaultMaterial() *Material {
	return &Material{Name: "default", Color: core.ColorWhite}
}

func (m *Material) DiffuseTexture() *buffer.Buffer2D { return m.Diffuse }
func (m *Material) BaseColor() core.Color            { return m.Color }

// SubMesh is one (index_offset, index_count, material_index) run, per §3.
type SubMesh struct {
	IndexOffset   int
	IndexCount    int
	MaterialIndex int
}

// Mesh is the vertex array + 32-bit index array + materials list +
// submeshes data model of §3.
type Mesh struct {
	Vertices  []Vertex
	Indices   []uint32
	Materials []*Material
	Submeshes []SubMesh
}

// Validate supplements the spec's bare invariant statement ("index_count %
// 3 == 0... all indices < vertex_count") with an actual boundary-time check,
// grounded on original_source/Renderer/Source/SR_Mesh.cc's
// assert(idx < VertexBuffer.size()) — called once at load time rather than
// per-triangle, since §7 treats out-of-bounds coordinates as a programming
// error only after a mesh has passed its load-time boundary check.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index count %d not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("mesh: index %d at position %d out of range (have %d vertices)", idx, i, len(m.Vertices))
		}
	}
	for i, sm := range m.Submeshes {
		if sm.IndexCount%3 != 0 {
			return fmt.Errorf("mesh: submesh %d index count %d not a multiple of 3", i, sm.IndexCount)
		}
		if sm.IndexOffset+sm.IndexCount > len(m.Indices) {
			return fmt.Errorf("mesh: submesh %d range [%d,%d) exceeds index buffer of length %d",
				i, sm.IndexOffset, sm.IndexOffset+sm.IndexCount, len(m.Indices))
		}
		if sm.MaterialIndex < 0 || sm.MaterialIndex >= len(m.Materials) {
			return fmt.Errorf("mesh: submesh %d material index %d out of range", i, sm.MaterialIndex)
		}
	}
	return nil
}

// SortSubmeshesByMaterial orders submeshes by material index to minimize
// state flips, per §3's invariant "submeshes are sorted by material_index".
func (m *Mesh) SortSubmeshesByMaterial() {
	sort.SliceStable(m.Submeshes, func(i, j int) bool {
		return m.Submeshes[i].MaterialIndex < m.Submeshes[j].MaterialIndex
	})
}

// SingleSubmesh returns a Mesh with one submesh spanning every index,
// bound to material index 0 — the common case for a loader that doesn't
// know about multiple materials.
func SingleSubmesh(vertices []Vertex, indices []uint32, material *Material) *Mesh {
	return &Mesh{
		Vertices:  vertices,
		Indices:   indices,
		Materials: []*Material{material},
		Submeshes: []SubMesh{{IndexOffset: 0, IndexCount: len(indices), MaterialIndex: 0}},
	}
}
