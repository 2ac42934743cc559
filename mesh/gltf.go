package mesh

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"swraster/buffer"
	"swraster/core"
	"swraster/math"
)

// LoadGLTF opens a .glb or .gltf file and flattens every mesh primitive
// into a single Mesh with one submesh per primitive, adapted from the
// teacher's scene.LoadGLTF: that loader built a full Node scene graph with
// PBR-to-Phong material approximation; this loader keeps the geometry and
// base-color/diffuse-texture extraction but drops the node hierarchy,
// since §3's Material model only has a single diffuse reference and
// draw_mesh has no notion of a transform hierarchy — the caller positions
// the whole mesh with one modelview matrix per §6.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	texCache := make([]*buffer.Buffer2D, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]
		var tex *buffer.Buffer2D
		if img.BufferView != nil {
			raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				continue
			}
			decoded, _, err := image.Decode(bytes.NewReader(raw))
			if err != nil {
				continue
			}
			tex, _ = buffer.FromImage(decoded)
		} else if img.URI != "" && !img.IsEmbeddedResource() {
			tex, _ = LoadTexture(filepath.Join(dir, img.URI))
		}
		texCache[i] = tex
	}

	mats := make([]*Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := DefaultMaterial()
		mat.Name = gm.Name
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Color = core.Color{R: float32(cf[0]), G: float32(cf[1]), B: float32(cf[2]), A: float32(cf[3])}
			if pbr.BaseColorTexture != nil {
				idx := pbr.BaseColorTexture.Index
				if idx < len(texCache) {
					mat.Diffuse = texCache[idx]
				}
			}
		}
		mats[i] = mat
	}
	if len(mats) == 0 {
		mats = append(mats, DefaultMaterial())
	}

	var vertices []Vertex
	var indices []uint32
	var submeshes []SubMesh

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			baseVertex := uint32(len(vertices))
			posIdx, ok := prim.Attributes["POSITION"]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				continue
			}
			var normals [][3]float32
			var uvs [][2]float32
			if idx, ok := prim.Attributes["NORMAL"]; ok {
				normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
			}
			if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
				uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
			}

			for i, p := range positions {
				v := Vertex{Position: toVec3(p), Normal: math.Vec3Up}
				if i < len(normals) {
					v.Normal = toVec3(normals[i])
				}
				if i < len(uvs) {
					v.UV.X, v.UV.Y = uvs[i][0], 1-uvs[i][1]
				}
				vertices = append(vertices, v)
			}

			var primIndices []uint32
			if prim.Indices != nil {
				raw, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err == nil {
					primIndices = raw
				}
			} else {
				primIndices = make([]uint32, len(positions))
				for i := range primIndices {
					primIndices[i] = uint32(i)
				}
			}

			matIdx := 0
			if prim.Material != nil && *prim.Material < len(mats) {
				matIdx = *prim.Material
			}

			offset := len(indices)
			for _, idx := range primIndices {
				indices = append(indices, baseVertex+idx)
			}
			submeshes = append(submeshes, SubMesh{
				IndexOffset:   offset,
				IndexCount:    len(primIndices),
				MaterialIndex: matIdx,
			})
		}
	}

	m := &Mesh{Vertices: vertices, Indices: indices, Materials: mats, Submeshes: submeshes}
	m.SortSubmeshesByMaterial()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("mesh: loaded invalid gltf mesh from %q: %w", path, err)
	}
	return m, nil
}

func toVec3(p [3]float32) math.Vec3 {
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}
