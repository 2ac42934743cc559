package camera

import (
	"math"

	rmath "swraster/math"
)

// Camera represents a view camera producing the view and projection
// matrices consumed by a draw call's MVPMatrices.
type Camera struct {
	Position    rmath.Vec3
	Rotation    rmath.Quaternion
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	viewMatrix       rmath.Mat4
	projectionMatrix rmath.Mat4
	viewProjMatrix   rmath.Mat4
	dirty            bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Position:    rmath.Vec3Zero,
		Rotation:    rmath.QuaternionIdentity(),
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos rmath.Vec3) {
	c.Position = pos
	c.dirty = true
}

func (c *Camera) SetRotation(rot rmath.Quaternion) {
	c.Rotation = rot
	c.dirty = true
}

func (c *Camera) Translate(delta rmath.Vec3) {
	c.Position = c.Position.Add(delta)
	c.dirty = true
}

func (c *Camera) Rotate(axis rmath.Vec3, angle float32) {
	rotation := rmath.QuaternionFromAxisAngle(axis, angle)
	c.Rotation = c.Rotation.Mul(rotation).Normalize()
	c.dirty = true
}

func (c *Camera) LookAt(target, up rmath.Vec3) {
	c.viewMatrix = rmath.Mat4LookAt(c.Position, target, up)
	c.Rotation = c.quaternionFromLookAt(target, up)
	c.dirty = true
}

func (c *Camera) GetViewMatrix() rmath.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) GetProjectionMatrix() rmath.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projectionMatrix
}

func (c *Camera) GetViewProjectionMatrix() rmath.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewProjMatrix
}

func (c *Camera) GetForward() rmath.Vec3 {
	return c.Rotation.RotateVector(rmath.Vec3Front)
}

func (c *Camera) GetRight() rmath.Vec3 {
	return c.Rotation.RotateVector(rmath.Vec3Right)
}

func (c *Camera) GetUp() rmath.Vec3 {
	return c.Rotation.RotateVector(rmath.Vec3Up)
}

// MVP builds the full matrix set a draw call needs, including the inverse
// and normal matrices derived from the model and view matrices.
func (c *Camera) MVP(model rmath.Mat4) MVP {
	view := c.GetViewMatrix()
	proj := c.GetProjectionMatrix()
	modelView := view.Mul(model)
	return MVP{
		Model:            model,
		View:             view,
		Projection:       proj,
		ModelView:        modelView,
		ModelViewProj:    proj.Mul(modelView),
		ModelViewInverse: modelView.Inverse(),
		NormalMatrix:     rmath.NormalMatrix(modelView),
	}
}

// MVP bundles the matrices derived for a single draw call.
type MVP struct {
	Model            rmath.Mat4
	View             rmath.Mat4
	Projection       rmath.Mat4
	ModelView        rmath.Mat4
	ModelViewProj    rmath.Mat4
	ModelViewInverse rmath.Mat4
	NormalMatrix     rmath.Mat3
}

func (c *Camera) updateMatrices() {
	rotationMatrix := c.Rotation.ToMat4()
	translationMatrix := rmath.Mat4Translation(c.Position.Negate())
	c.viewMatrix = rotationMatrix.Mul(translationMatrix)

	c.projectionMatrix = rmath.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)

	c.viewProjMatrix = c.projectionMatrix.Mul(c.viewMatrix)

	c.dirty = false
}

func (c *Camera) quaternionFromLookAt(target, up rmath.Vec3) rmath.Quaternion {
	forward := target.Sub(c.Position).Normalize()
	right := up.Cross(forward).Normalize()
	upNew := forward.Cross(right)

	m := rmath.Mat4{
		{right.X, upNew.X, -forward.X, 0},
		{right.Y, upNew.Y, -forward.Y, 0},
		{right.Z, upNew.Z, -forward.Z, 0},
		{0, 0, 0, 1},
	}

	trace := m[0][0] + m[1][1] + m[2][2]

	var q rmath.Quaternion
	if trace > 0 {
		s := float32(0.5 / math.Sqrt(float64(trace+1)))
		q.W = 0.25 / s
		q.X = (m[2][1] - m[1][2]) * s
		q.Y = (m[0][2] - m[2][0]) * s
		q.Z = (m[1][0] - m[0][1]) * s
	} else if m[0][0] > m[1][1] && m[0][0] > m[2][2] {
		s := 2 * float32(math.Sqrt(float64(1+m[0][0]-m[1][1]-m[2][2])))
		q.W = (m[2][1] - m[1][2]) / s
		q.X = 0.25 * s
		q.Y = (m[0][1] + m[1][0]) / s
		q.Z = (m[0][2] + m[2][0]) / s
	} else if m[1][1] > m[2][2] {
		s := 2 * float32(math.Sqrt(float64(1+m[1][1]-m[0][0]-m[2][2])))
		q.W = (m[0][2] - m[2][0]) / s
		q.X = (m[0][1] + m[1][0]) / s
		q.Y = 0.25 * s
		q.Z = (m[1][2] + m[2][1]) / s
	} else {
		s := 2 * float32(math.Sqrt(float64(1+m[2][2]-m[0][0]-m[1][1])))
		q.W = (m[1][0] - m[0][1]) / s
		q.X = (m[0][2] + m[2][0]) / s
		q.Y = (m[1][2] + m[2][1]) / s
		q.Z = 0.25 * s
	}

	return q.Normalize()
}

// OrbitCamera orbits a target point at a fixed distance, driven by yaw and
// pitch rather than an explicit position, convenient for the demo viewer.
type OrbitCamera struct {
	Camera
	Target   rmath.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32
}

func NewOrbitCamera(target rmath.Vec3, distance, fov, aspectRatio float32) *OrbitCamera {
	c := &OrbitCamera{
		Target:   target,
		Distance: distance,
		Yaw:      0,
		Pitch:    0.3,
	}
	c.Camera = *NewCamera(fov, aspectRatio, 0.1, 1000.0)
	c.UpdatePosition()
	return c
}

func (c *OrbitCamera) UpdatePosition() {
	if c.Pitch > 1.5 {
		c.Pitch = 1.5
	}
	if c.Pitch < -1.5 {
		c.Pitch = -1.5
	}

	cosPitch := float32(math.Cos(float64(c.Pitch)))
	sinPitch := float32(math.Sin(float64(c.Pitch)))
	cosYaw := float32(math.Cos(float64(c.Yaw)))
	sinYaw := float32(math.Sin(float64(c.Yaw)))

	offset := rmath.Vec3{
		X: c.Distance * cosPitch * sinYaw,
		Y: c.Distance * sinPitch,
		Z: c.Distance * cosPitch * cosYaw,
	}

	c.Position = c.Target.Add(offset)
	c.LookAt(c.Target, rmath.Vec3Up)
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.UpdatePosition()
}

func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance += delta
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.UpdatePosition()
}
