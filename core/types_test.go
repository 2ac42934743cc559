package core

import (
	"testing"

	"swraster/math"
)

func TestRectangleIntersect(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Rectangle
		want  Rectangle
		empty bool
	}{
		{
			name: "overlap",
			a:    Rectangle{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
			b:    Rectangle{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15},
			want: Rectangle{MinX: 5, MinY: 5, MaxX: 10, MaxY: 10},
		},
		{
			name:  "disjoint",
			a:     Rectangle{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
			b:     Rectangle{MinX: 20, MinY: 20, MaxX: 30, MaxY: 30},
			empty: true,
		},
		{
			name: "contained",
			a:    Rectangle{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100},
			b:    Rectangle{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20},
			want: Rectangle{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersect(tt.b)
			if got.Empty() != tt.empty {
				t.Fatalf("Empty() = %v, want %v (rect %+v)", got.Empty(), tt.empty, got)
			}
			if !tt.empty && got != tt.want {
				t.Errorf("Intersect: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAttributeSetLerp(t *testing.T) {
	a := AttributeSet{Count: 2, Values: [MaxAttributes]math.Vec4{
		{X: 0, Y: 0, Z: 0, W: 0},
		{X: 1, Y: 1, Z: 1, W: 1},
	}}
	b := AttributeSet{Count: 2, Values: [MaxAttributes]math.Vec4{
		{X: 10, Y: 0, Z: 0, W: 0},
		{X: 3, Y: 3, Z: 3, W: 3},
	}}

	mid := a.Lerp(b, 0.5)
	if mid.Count != 2 {
		t.Fatalf("Count = %d, want 2", mid.Count)
	}
	if want := (math.Vec4{X: 5, Y: 0, Z: 0, W: 0}); mid.Values[0] != want {
		t.Errorf("slot 0: got %+v, want %+v", mid.Values[0], want)
	}
	if want := (math.Vec4{X: 2, Y: 2, Z: 2, W: 2}); mid.Values[1] != want {
		t.Errorf("slot 1: got %+v, want %+v", mid.Values[1], want)
	}
}

func TestAttributeSetCopyOnlyLiveSlots(t *testing.T) {
	var dst AttributeSet
	dst.Values[3] = math.Vec4{X: 9, Y: 9, Z: 9, W: 9}
	src := AttributeSet{Count: 1, Values: [MaxAttributes]math.Vec4{{X: 1, Y: 2, Z: 3, W: 4}}}

	dst.Copy(src)
	if dst.Count != 1 {
		t.Fatalf("Count = %d, want 1", dst.Count)
	}
	if dst.Values[0] != src.Values[0] {
		t.Errorf("slot 0 not copied: got %+v", dst.Values[0])
	}
	if dst.Values[3] != (math.Vec4{X: 9, Y: 9, Z: 9, W: 9}) {
		t.Errorf("slot beyond count was clobbered: got %+v", dst.Values[3])
	}
}

func TestNewMVPMatricesIdentity(t *testing.T) {
	m := NewMVPMatrices(math.Mat4Identity(), math.Mat4Identity())
	if m.MVP != math.Mat4Identity() {
		t.Errorf("MVP of two identities should be identity, got %+v", m.MVP)
	}
	if m.ModelViewInv != math.Mat4Identity() {
		t.Errorf("ModelViewInv of identity should be identity, got %+v", m.ModelViewInv)
	}
}

func TestColorVec4RoundTrip(t *testing.T) {
	c := Color{R: 0.1, G: 0.2, B: 0.3, A: 0.4}
	if got := ColorFromVec4(c.ToVec4()); got != c {
		t.Errorf("round trip: got %+v, want %+v", got, c)
	}
}

func TestPixelFormatString(t *testing.T) {
	tests := []struct {
		f    PixelFormat
		want string
	}{
		{FormatU16, "U16"},
		{FormatRGBA8, "RGBA8"},
		{PixelFormat(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("String(%d): got %q, want %q", tt.f, got, tt.want)
		}
	}
}
