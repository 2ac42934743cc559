package mesh

import (
	"testing"

	"swraster/math"
)

func triangleMesh() *Mesh {
	verts := []Vertex{
		{Position: math.Vec3{X: 0, Y: 0, Z: 0}},
		{Position: math.Vec3{X: 1, Y: 0, Z: 0}},
		{Position: math.Vec3{X: 0, Y: 1, Z: 0}},
	}
	return SingleSubmesh(verts, []uint32{0, 1, 2}, DefaultMaterial())
}

func TestValidateAcceptsWellFormedMesh(t *testing.T) {
	if err := triangleMesh().Validate(); err != nil {
		t.Errorf("expected valid mesh, got %v", err)
	}
}

func TestValidateRejectsNonMultipleOfThreeIndices(t *testing.T) {
	m := triangleMesh()
	m.Indices = append(m.Indices, 0)
	if err := m.Validate(); err == nil {
		t.Error("expected error for index count not a multiple of 3")
	}
}

func TestValidateRejectsOutOfRangeIndex(t *testing.T) {
	m := triangleMesh()
	m.Indices[1] = 99
	if err := m.Validate(); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestSortSubmeshesByMaterial(t *testing.T) {
	m := &Mesh{
		Materials: []*Material{DefaultMaterial(), DefaultMaterial(), DefaultMaterial()},
		Indices:   make([]uint32, 9),
		Submeshes: []SubMesh{
			{IndexOffset: 0, IndexCount: 3, MaterialIndex: 2},
			{IndexOffset: 3, IndexCount: 3, MaterialIndex: 0},
			{IndexOffset: 6, IndexCount: 3, MaterialIndex: 1},
		},
	}
	m.SortSubmeshesByMaterial()
	for i := 0; i+1 < len(m.Submeshes); i++ {
		if m.Submeshes[i].MaterialIndex > m.Submeshes[i+1].MaterialIndex {
			t.Fatalf("submeshes not sorted by material index: %+v", m.Submeshes)
		}
	}
}

func TestToVSInputPopulatesNormalAndUVSlots(t *testing.T) {
	v := Vertex{
		Position: math.Vec3{X: 1, Y: 2, Z: 3},
		Normal:   math.Vec3{X: 0, Y: 1, Z: 0},
		UV:       math.Vec2{X: 0.25, Y: 0.75},
	}
	in := v.ToVSInput()
	if in.Attributes.Count != 2 {
		t.Fatalf("expected 2 attributes (normal, uv), got %d", in.Attributes.Count)
	}
	if in.Attributes.Values[0].Y != 1 {
		t.Errorf("slot 0 should be the normal, got %+v", in.Attributes.Values[0])
	}
	if in.Attributes.Values[1].X != 0.25 || in.Attributes.Values[1].Y != 0.75 {
		t.Errorf("slot 1 should be the UV, got %+v", in.Attributes.Values[1])
	}
}
