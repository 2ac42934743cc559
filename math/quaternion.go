package math

import "math"

// Quaternion represents an orientation, used by the orbit camera instead
// of raw Euler angles so repeated drag/zoom updates don't accumulate
// gimbal-lock artifacts.
type Quaternion struct {
	X, Y, Z, W float32
}

func QuaternionIdentity() Quaternion {
	return Quaternion{W: 1}
}

func NewQuaternion(x, y, z, w float32) Quaternion {
	return Quaternion{X: x, Y: y, Z: z, W: w}
}

// QuaternionFromAxisAngle builds the rotation of angle radians about axis
// (normalized internally).
func QuaternionFromAxisAngle(axis Vec3, angle float32) Quaternion {
	axis = axis.Normalize()
	s, c := sincos(angle / 2)
	return Quaternion{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// QuaternionFromEuler builds a rotation from Euler angles in radians,
// applied in X then Y then Z order.
func QuaternionFromEuler(euler Vec3) Quaternion {
	sx, cx := sincos(euler.X / 2)
	sy, cy := sincos(euler.Y / 2)
	sz, cz := sincos(euler.Z / 2)

	return Quaternion{
		X: sx*cy*cz - cx*sy*sz,
		Y: cx*sy*cz + sx*cy*sz,
		Z: cx*cy*sz - sx*sy*cz,
		W: cx*cy*cz + sx*sy*sz,
	}
}

// Mul composes rotations: q.Mul(other) applies other first, then q.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

func (q Quaternion) lengthSqr() float32 {
	return q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
}

// Normalize rescales q to unit length; orbit-camera drag updates
// accumulate floating point drift, so callers renormalize after each
// incremental rotation.
func (q Quaternion) Normalize() Quaternion {
	l := float32(math.Sqrt(float64(q.lengthSqr())))
	if l == 0 {
		return q
	}
	inv := 1 / l
	return Quaternion{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Inverse returns the multiplicative inverse, the conjugate scaled by
// 1/|q|^2 so that unit quaternions invert to their conjugate exactly.
func (q Quaternion) Inverse() Quaternion {
	lsq := q.lengthSqr()
	if lsq == 0 {
		return q
	}
	inv := 1 / lsq
	c := q.Conjugate()
	return Quaternion{X: c.X * inv, Y: c.Y * inv, Z: c.Z * inv, W: c.W * inv}
}

// RotateVector rotates v by q directly, without building an intermediate
// Mat4 — the hot path for the camera, which rotates its basis vectors
// every frame the user drags.
func (q Quaternion) RotateVector(v Vec3) Vec3 {
	axis := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := axis.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(axis.Cross(t))
}

// ToMat4 expands q into an equivalent rotation matrix for use alongside
// translation/scale in a TRS composite.
func (q Quaternion) ToMat4() Mat4 {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z

	return Mat4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

// ToEuler decomposes q back into Euler angles in radians, the inverse of
// QuaternionFromEuler: X, Y and Z hold the rotations about those axes
// (named roll, pitch and yaw below), clamping the Y-axis asin argument
// against floating-point overshoot at the gimbal-lock poles.
func (q Quaternion) ToEuler() Vec3 {
	rollSin := 2 * (q.W*q.X + q.Y*q.Z)
	rollCos := 1 - 2*(q.X*q.X+q.Y*q.Y)
	roll := float32(math.Atan2(float64(rollSin), float64(rollCos)))

	pitchSin := 2 * (q.W*q.Y - q.Z*q.X)
	var pitch float32
	if math.Abs(float64(pitchSin)) >= 1 {
		pitch = float32(math.Copysign(math.Pi/2, float64(pitchSin)))
	} else {
		pitch = float32(math.Asin(float64(pitchSin)))
	}

	yawSin := 2 * (q.W*q.Z + q.X*q.Y)
	yawCos := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	yaw := float32(math.Atan2(float64(yawSin), float64(yawCos)))

	return Vec3{X: roll, Y: pitch, Z: yaw}
}

// Lerp linearly blends two quaternions and renormalizes; cheap but not
// constant-angular-velocity, adequate for per-frame camera smoothing where
// the step is already small.
func (q Quaternion) Lerp(other Quaternion, t float32) Quaternion {
	return Quaternion{
		X: q.X + (other.X-q.X)*t,
		Y: q.Y + (other.Y-q.Y)*t,
		Z: q.Z + (other.Z-q.Z)*t,
		W: q.W + (other.W-q.W)*t,
	}.Normalize()
}

// Slerp spherically interpolates between q and other, falling back to
// Lerp when the two are nearly parallel to avoid dividing by a
// near-zero sin(theta).
func (q Quaternion) Slerp(other Quaternion, t float32) Quaternion {
	dot := q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W

	if dot < 0 {
		dot = -dot
		other = Quaternion{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
	}

	if dot > 0.9995 {
		return q.Lerp(other, t)
	}

	theta0 := math.Acos(float64(dot))
	theta := theta0 * float64(t)
	sinTheta0 := math.Sin(theta0)
	sinTheta := math.Sin(theta)

	s0 := float32(math.Cos(theta) - float64(dot)*sinTheta/sinTheta0)
	s1 := float32(sinTheta / sinTheta0)

	return Quaternion{
		X: q.X*s0 + other.X*s1,
		Y: q.Y*s0 + other.Y*s1,
		Z: q.Z*s0 + other.Z*s1,
		W: q.W*s0 + other.W*s1,
	}
}
