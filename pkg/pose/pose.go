// Package pose provides the minimal rigid-body math used by the tracking
// core: 3-vectors, unit quaternions, and rigid transforms with composition
// and inversion. Conventions follow the backend runtime: right-handed,
// meters, +y up, -z forward.
package pose

import "math"

// Vec3 is a 3-component vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// ApproxEq reports whether v and o differ by less than eps per component.
func (v Vec3) ApproxEq(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) < eps &&
		math.Abs(v.Y-o.Y) < eps &&
		math.Abs(v.Z-o.Z) < eps
}

// Quat is a rotation quaternion. The zero value is not a valid rotation;
// use QuatIdentity for "no rotation".
type Quat struct {
	W, X, Y, Z float64
}

// QuatIdentity is the identity rotation.
var QuatIdentity = Quat{W: 1}

// Mul returns the Hamilton product q * o (apply o, then q).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Conjugate returns the conjugate of q. For unit quaternions this is the
// inverse rotation.
func (q Quat) Conjugate() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Normalize returns q scaled to unit length. A degenerate (near-zero)
// quaternion normalizes to the identity.
func (q Quat) Normalize() Quat {
	n := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if n < 1e-12 {
		return QuatIdentity
	}
	inv := 1 / n
	return Quat{W: q.W * inv, X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv}
}

// Rotate applies the rotation q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = q * (0,v) * q^-1, expanded.
	u := Vec3{q.X, q.Y, q.Z}
	s := q.W
	uv := cross(u, v)
	uuv := cross(u, uv)
	return v.Add(uv.Scale(2 * s)).Add(uuv.Scale(2))
}

// AxisAngle returns the rotation of angle radians around the given axis.
// The axis need not be normalized.
func AxisAngle(axis Vec3, angle float64) Quat {
	l := axis.Length()
	if l < 1e-12 {
		return QuatIdentity
	}
	s := math.Sin(angle/2) / l
	return Quat{
		W: math.Cos(angle / 2),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

// ApproxEq reports whether q and o represent nearly the same rotation,
// accounting for the double cover (q and -q are the same rotation).
func (q Quat) ApproxEq(o Quat, eps float64) bool {
	dot := q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
	return math.Abs(math.Abs(dot)-1) < eps
}

func cross(a, b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Transform is a rigid transform: rotate, then translate.
type Transform struct {
	Rotation Quat
	Position Vec3
}

// Identity is the identity transform.
var Identity = Transform{Rotation: QuatIdentity}

// Mul composes transforms: (t.Mul(o)).Apply(v) == t.Apply(o.Apply(v)).
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		Rotation: t.Rotation.Mul(o.Rotation),
		Position: t.Rotation.Rotate(o.Position).Add(t.Position),
	}
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	inv := t.Rotation.Conjugate()
	return Transform{
		Rotation: inv,
		Position: inv.Rotate(t.Position.Scale(-1)),
	}
}

// Apply transforms the point v.
func (t Transform) Apply(v Vec3) Vec3 {
	return t.Rotation.Rotate(v).Add(t.Position)
}

// ApproxEq reports whether t and o are nearly the same transform.
func (t Transform) ApproxEq(o Transform, eps float64) bool {
	return t.Rotation.ApproxEq(o.Rotation, eps) && t.Position.ApproxEq(o.Position, eps)
}

// IsIdentity reports whether t is within eps of the identity transform.
func (t Transform) IsIdentity(eps float64) bool {
	return t.ApproxEq(Identity, eps)
}
