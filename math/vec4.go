package math

// Vec4 is a homogeneous coordinate: clip-space vertex positions and any
// attribute the pipeline needs to carry a w component through perspective
// interpolation travel as Vec4.
type Vec4 struct {
	X, Y, Z, W float32
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z, W: v.W + other.W}
}

func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z, W: v.W - other.W}
}

func (v Vec4) Mul(scalar float32) Vec4 {
	return Vec4{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar, W: v.W * scalar}
}

// MulMat applies m to v as a row vector, v*M, reading m column by column.
// Every object-to-clip transform in the pipeline (model, view, projection)
// goes through this one multiply; Mat4.MulVec is just the mirror call.
func (v Vec4) MulMat(m Mat4) Vec4 {
	x := v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0] + v.W*m[3][0]
	y := v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1] + v.W*m[3][1]
	z := v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2] + v.W*m[3][2]
	w := v.X*m[0][3] + v.Y*m[1][3] + v.Z*m[2][3] + v.W*m[3][3]
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func (v Vec4) Dot(other Vec4) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z + v.W*other.W
}

// ToVec3 drops w without dividing, used when w is already known to be 1 or
// is being carried for a reason other than perspective (e.g. a packed
// color attribute).
func (v Vec4) ToVec3() Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// ToVec3DivW performs the perspective divide that turns a clip-space
// position into NDC. w == 0 means a direction rather than a point, so it's
// passed through unscaled instead of dividing by zero.
func (v Vec4) ToVec3DivW() Vec3 {
	if v.W == 0 {
		return Vec3{X: v.X, Y: v.Y, Z: v.Z}
	}
	invW := 1 / v.W
	return Vec3{X: v.X * invW, Y: v.Y * invW, Z: v.Z * invW}
}
