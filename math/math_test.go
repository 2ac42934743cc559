package math

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, 7, 9)},
		{"Sub", b.Sub(a), NewVec3(3, 3, 3)},
		{"Mul", a.Mul(2), NewVec3(2, 4, 6)},
		{"Cross right-up", Vec3Right.Cross(Vec3Up), Vec3Front},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if dot := a.Dot(b); dot != 32 {
		t.Errorf("Dot: got %v, want 32", dot)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 0).Normalize()
	if v != NewVec3(1, 0, 0) {
		t.Errorf("Normalize: got %v, want (1,0,0)", v)
	}
	if l := v.Length(); math.Abs(float64(l-1)) > 1e-4 {
		t.Errorf("Normalize: resulting length = %v, want 1", l)
	}
	if z := Vec3Zero.Normalize(); z != Vec3Zero {
		t.Errorf("Normalize(zero): got %v, want zero vector unchanged", z)
	}
}

func TestMat4Identity(t *testing.T) {
	m := Mat4Identity()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			want := float32(0)
			if row == col {
				want = 1
			}
			if m[row][col] != want {
				t.Errorf("m[%d][%d] = %v, want %v", row, col, m[row][col], want)
			}
		}
	}
}

func TestMat4MulIdentityIsNoop(t *testing.T) {
	m := Mat4RotationY(0.7).Mul(Mat4Identity())
	want := Mat4RotationY(0.7)
	if m != want {
		t.Errorf("Mul by identity changed the matrix: got %v, want %v", m, want)
	}
}

func TestMat4TranslationAppliesToPoint(t *testing.T) {
	offset := NewVec3(1, 2, 3)
	m := Mat4Translation(offset)

	if m[3][0] != 1 || m[3][1] != 2 || m[3][2] != 3 {
		t.Fatalf("translation row = (%v,%v,%v), want (1,2,3)", m[3][0], m[3][1], m[3][2])
	}

	origin := NewVec4(0, 0, 0, 1)
	got := origin.MulMat(m).ToVec3()
	if got != offset {
		t.Errorf("transformed origin = %v, want %v", got, offset)
	}
}

func TestMat4Inverse(t *testing.T) {
	m := Mat4Translation(NewVec3(2, -1, 5)).Mul(Mat4RotationX(0.4))
	roundTrip := m.Mul(m.Inverse())
	id := Mat4Identity()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if diff := roundTrip[row][col] - id[row][col]; math.Abs(float64(diff)) > 1e-3 {
				t.Fatalf("m * m.Inverse()[%d][%d] = %v, want %v", row, col, roundTrip[row][col], id[row][col])
			}
		}
	}
}

func TestNormalMatrixUndoesNonUniformScale(t *testing.T) {
	modelView := Mat4Scale(NewVec3(2, 1, 1))
	n := NormalMatrix(modelView)

	normal := Vec3Right
	transformed := n.MulVec3(normal).Normalize()
	if transformed.Dot(Vec3Right) < 0.999 {
		t.Errorf("normal skewed by non-uniform scale: got %v", transformed)
	}
}

func TestQuaternionIdentityIsNoRotation(t *testing.T) {
	q := QuaternionIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("QuaternionIdentity() = %+v, want (0,0,0,1)", q)
	}
	if v := q.RotateVector(Vec3Right); v != Vec3Right {
		t.Errorf("identity quaternion rotated a vector: got %v", v)
	}
}

func TestQuaternionFromAxisAngleMatchesMat4(t *testing.T) {
	const angle = float32(math.Pi / 3)
	q := QuaternionFromAxisAngle(Vec3Up, angle)
	m := Mat4RotationAxis(Vec3Up, angle)

	byQuat := q.RotateVector(Vec3Right)
	byMat := m.MulVec3(Vec3Right)

	tol := float32(1e-3)
	if byQuat.Distance(byMat) > tol {
		t.Errorf("quaternion and matrix rotations disagree: %v vs %v", byQuat, byMat)
	}
}

func TestMat4Perspective(t *testing.T) {
	m := Mat4Perspective(float32(math.Pi/4), 16.0/9.0, 0.1, 100)
	if m[0][0] == 0 {
		t.Error("Perspective: X scale is zero")
	}
	if m[1][1] == 0 {
		t.Error("Perspective: Y scale is zero")
	}
	if m[2][3] != -1 {
		t.Errorf("Perspective: m[2][3] = %v, want -1 (w-divide row)", m[2][3])
	}
}

func TestMat4LookAtPlacesEyeAtOrigin(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)

	got := m.MulVec(eye.ToVec4(1))
	tol := float32(1e-3)
	if math.Abs(float64(got.X)) > float64(tol) || math.Abs(float64(got.Y)) > float64(tol) || math.Abs(float64(got.Z)) > float64(tol) {
		t.Errorf("LookAt did not map eye to origin: got (%v,%v,%v)", got.X, got.Y, got.Z)
	}
}

func BenchmarkVec3Add(b *testing.B) {
	v1, v2 := NewVec3(1, 2, 3), NewVec3(4, 5, 6)
	for i := 0; i < b.N; i++ {
		_ = v1.Add(v2)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1, m2 := Mat4RotationX(0.3), Mat4RotationY(0.6)
	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
