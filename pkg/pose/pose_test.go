package pose

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestQuatRotate(t *testing.T) {
	t.Run("IdentityLeavesVectorUnchanged", func(t *testing.T) {
		v := Vec3{1, 2, 3}
		got := QuatIdentity.Rotate(v)
		if !got.ApproxEq(v, eps) {
			t.Errorf("Rotate() = %v, want %v", got, v)
		}
	})

	t.Run("QuarterTurnAroundY", func(t *testing.T) {
		q := AxisAngle(Vec3{0, 1, 0}, math.Pi/2)
		got := q.Rotate(Vec3{1, 0, 0})
		want := Vec3{0, 0, -1}
		if !got.ApproxEq(want, eps) {
			t.Errorf("Rotate() = %v, want %v", got, want)
		}
	})

	t.Run("ConjugateUndoesRotation", func(t *testing.T) {
		q := AxisAngle(Vec3{1, 1, 0}, 0.7)
		v := Vec3{0.3, -1.2, 4}
		got := q.Conjugate().Rotate(q.Rotate(v))
		if !got.ApproxEq(v, eps) {
			t.Errorf("round trip = %v, want %v", got, v)
		}
	})
}

func TestQuatNormalize(t *testing.T) {
	t.Run("DegenerateBecomesIdentity", func(t *testing.T) {
		if got := (Quat{}).Normalize(); !got.ApproxEq(QuatIdentity, eps) {
			t.Errorf("Normalize() = %v, want identity", got)
		}
	})

	t.Run("ScaledQuaternionNormalizes", func(t *testing.T) {
		q := Quat{W: 2, X: 0, Y: 0, Z: 0}.Normalize()
		if !q.ApproxEq(QuatIdentity, eps) {
			t.Errorf("Normalize() = %v, want identity", q)
		}
	})
}

func TestTransformCompose(t *testing.T) {
	t.Run("MulMatchesSequentialApply", func(t *testing.T) {
		a := Transform{
			Rotation: AxisAngle(Vec3{0, 1, 0}, 0.4),
			Position: Vec3{1, 0, -2},
		}
		b := Transform{
			Rotation: AxisAngle(Vec3{1, 0, 0}, -1.1),
			Position: Vec3{0, 3, 0.5},
		}
		v := Vec3{-1, 2, 0.25}

		got := a.Mul(b).Apply(v)
		want := a.Apply(b.Apply(v))
		if !got.ApproxEq(want, eps) {
			t.Errorf("a.Mul(b).Apply = %v, want %v", got, want)
		}
	})

	t.Run("InverseComposesToIdentity", func(t *testing.T) {
		a := Transform{
			Rotation: AxisAngle(Vec3{0.2, 1, -0.3}, 2.1),
			Position: Vec3{5, -1, 0.01},
		}
		if got := a.Mul(a.Inverse()); !got.IsIdentity(1e-9) {
			t.Errorf("a * a^-1 = %v, want identity", got)
		}
		if got := a.Inverse().Mul(a); !got.IsIdentity(1e-9) {
			t.Errorf("a^-1 * a = %v, want identity", got)
		}
	})

	t.Run("IdentityIsNeutral", func(t *testing.T) {
		a := Transform{
			Rotation: AxisAngle(Vec3{0, 0, 1}, 0.9),
			Position: Vec3{0, 1.6, 0},
		}
		if got := Identity.Mul(a); !got.ApproxEq(a, eps) {
			t.Errorf("I * a = %v, want %v", got, a)
		}
		if got := a.Mul(Identity); !got.ApproxEq(a, eps) {
			t.Errorf("a * I = %v, want %v", got, a)
		}
	})
}
