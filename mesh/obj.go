package mesh

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"swraster/core"
	"swraster/math"
)

// objFace is an already fan-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx, vnIdx [3]int // 0-based; -1 = absent
}

// LoadOBJ parses a Wavefront .obj file into a single Mesh, adapted from the
// teacher's scene.LoadOBJ: the vertex layout changes from a fixed
// core.Vertex struct to mesh.Vertex (position + attribute-slot
// normal/UV), and the V coordinate is flipped to 1-v at load time per §6.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: open obj %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)

	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2

	materials := map[string]*Material{}
	var materialOrder []string
	var faces []objFace
	var faceMatName []string
	curMat := ""

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			x, _ := strconv.ParseFloat(fields[1], 32)
			y, _ := strconv.ParseFloat(fields[2], 32)
			z, _ := strconv.ParseFloat(fields[3], 32)
			positions = append(positions, math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})

		case "vn":
			if len(fields) < 4 {
				continue
			}
			x, _ := strconv.ParseFloat(fields[1], 32)
			y, _ := strconv.ParseFloat(fields[2], 32)
			z, _ := strconv.ParseFloat(fields[3], 32)
			normals = append(normals, math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})

		case "vt":
			if len(fields) < 3 {
				continue
			}
			u, _ := strconv.ParseFloat(fields[1], 32)
			v, _ := strconv.ParseFloat(fields[2], 32)
			// V flip at load time to match top-left texture origin (§6).
			uvs = append(uvs, math.Vec2{X: float32(u), Y: 1 - float32(v)})

		case "usemtl":
			if len(fields) > 1 {
				curMat = fields[1]
			}

		case "mtllib":
			if len(fields) > 1 {
				loaded, err := loadMTL(filepath.Join(dir, fields[1]), dir)
				if err == nil {
					for k, v := range loaded {
						if _, seen := materials[k]; !seen {
							materialOrder = append(materialOrder, k)
						}
						materials[k] = v
					}
				}
			}

		case "f":
			if len(fields) < 4 {
				continue
			}
			var fv []struct{ v, vt, vn int }
			for _, tok := range fields[1:] {
				fv = append(fv, parseFaceVertex(tok))
			}
			for i := 1; i+1 < len(fv); i++ {
				f0, f1, f2 := fv[0], fv[i], fv[i+1]
				faces = append(faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
				faceMatName = append(faceMatName, curMat)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mesh: scan obj: %w", err)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("mesh: no geometry found in %q", path)
	}

	safePos := func(i int) math.Vec3 {
		if i >= 0 && i < len(positions) {
			return positions[i]
		}
		return math.Vec3Zero
	}
	safeNorm := func(i int) math.Vec3 {
		if i >= 0 && i < len(normals) {
			return normals[i]
		}
		return math.Vec3Up
	}
	safeUV := func(i int) math.Vec2 {
		if i >= 0 && i < len(uvs) {
			return uvs[i]
		}
		return math.Vec2{}
	}

	type key struct{ v, vt, vn int }
	vertMap := map[key]uint32{}
	var vertices []Vertex
	var indices []uint32

	// materialName -> SubMesh being accumulated, in first-seen order.
	matIndexOf := map[string]int{}
	var matNames []string
	var subRuns []SubMesh

	for fi, face := range faces {
		matName := faceMatName[fi]
		midx, ok := matIndexOf[matName]
		if !ok {
			midx = len(matNames)
			matIndexOf[matName] = midx
			matNames = append(matNames, matName)
			subRuns = append(subRuns, SubMesh{IndexOffset: len(indices), MaterialIndex: midx})
		}

		for c := 0; c < 3; c++ {
			k := key{face.vIdx[c], face.vtIdx[c], face.vnIdx[c]}
			idx, ok := vertMap[k]
			if !ok {
				idx = uint32(len(vertices))
				vertices = append(vertices, Vertex{
					Position: safePos(k.v),
					Normal:   safeNorm(k.vn),
					UV:       safeUV(k.vt),
				})
				vertMap[k] = idx
			}
			indices = append(indices, idx)
			subRuns[midx].IndexCount += 1
		}
	}

	var mats []*Material
	for _, name := range matNames {
		if mat, ok := materials[name]; ok {
			mats = append(mats, mat)
		} else {
			mats = append(mats, DefaultMaterial())
		}
	}

	m := &Mesh{Vertices: vertices, Indices: indices, Materials: mats, Submeshes: subRuns}
	m.SortSubmeshesByMaterial()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("mesh: loaded invalid mesh from %q: %w", path, err)
	}
	return m, nil
}

func parseFaceVertex(tok string) struct{ v, vt, vn int } {
	parseIdx := func(s string) int {
		if s == "" {
			return -1
		}
		n, _ := strconv.Atoi(s)
		if n > 0 {
			return n - 1
		}
		return n
	}
	parts := strings.Split(tok, "/")
	res := struct{ v, vt, vn int }{v: -1, vt: -1, vn: -1}
	if len(parts) > 0 {
		res.v = parseIdx(parts[0])
	}
	if len(parts) > 1 {
		res.vt = parseIdx(parts[1])
	}
	if len(parts) > 2 {
		res.vn = parseIdx(parts[2])
	}
	return res
}

// loadMTL parses the subset of the MTL format the renderer's Material
// cares about: Kd (diffuse color) and map_Kd (diffuse texture path).
func loadMTL(path, baseDir string) (map[string]*Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	materials := map[string]*Material{}
	var cur *Material

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "newmtl":
			if len(fields) > 1 {
				cur = &Material{Name: fields[1], Color: core.ColorWhite}
				materials[fields[1]] = cur
			}
		case "Kd":
			if cur != nil && len(fields) >= 4 {
				r, _ := strconv.ParseFloat(fields[1], 32)
				g, _ := strconv.ParseFloat(fields[2], 32)
				b, _ := strconv.ParseFloat(fields[3], 32)
				cur.Color = core.Color{R: float32(r), G: float32(g), B: float32(b), A: 1}
			}
		case "map_Kd":
			if cur != nil && len(fields) > 1 {
				tex, err := LoadTexture(filepath.Join(baseDir, fields[len(fields)-1]))
				if err == nil {
					cur.Diffuse = tex
				}
			}
		}
	}
	return materials, scanner.Err()
}
