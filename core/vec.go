package core

import "math"

// Vec3 is a float64 3D vector for placement and motion
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Mag() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns the unit vector, zero vector stays zero
func (v Vec3) Normalize() Vec3 {
	mag := v.Mag()
	if mag == 0 {
		return Vec3{}
	}
	return v.Scale(1 / mag)
}

// Lerp interpolates towards o by t
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// Quat is a rotation quaternion
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity is the no-rotation quaternion
var QuatIdentity = Quat{W: 1}

// LookRotation builds a quaternion facing forward with up as the Y hint
// Degenerate forward vectors yield identity
func LookRotation(forward, up Vec3) Quat {
	f := forward.Normalize()
	if f == (Vec3{}) {
		return QuatIdentity
	}
	r := cross(up, f).Normalize()
	if r == (Vec3{}) {
		return QuatIdentity
	}
	u := cross(f, r)

	// Rotation matrix columns r,u,f to quaternion
	m00, m11, m22 := r.X, u.Y, f.Z
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		return Quat{W: 0.25 * s, X: (u.Z - f.Y) / s, Y: (f.X - r.Z) / s, Z: (r.Y - u.X) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		return Quat{W: (u.Z - f.Y) / s, X: 0.25 * s, Y: (u.X + r.Y) / s, Z: (f.X + r.Z) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		return Quat{W: (f.X - r.Z) / s, X: (u.X + r.Y) / s, Y: 0.25 * s, Z: (f.Y + u.Z) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		return Quat{W: (r.Y - u.X) / s, X: (f.X + r.Z) / s, Y: (f.Y + u.Z) / s, Z: 0.25 * s}
	}
}

func cross(a, b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Transform places an object in the scene
// Parent names the owning node (shelf, vessel), empty for scene root
type Transform struct {
	Position    Vec3
	Orientation Quat
	Parent      string
}
