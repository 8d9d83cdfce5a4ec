package math

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)
	// translation lives in column 4
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestComposeAppliesRightFirst(t *testing.T) {
	a := Translate(1, 2, 3)
	b := RotateZ(math.Pi / 2)
	p := Vec3{1, 0, 0}

	got := Compose(a, b).TransformPoint(p)
	want := a.TransformPoint(b.TransformPoint(p))
	if !got.ApproxEqual(want, eps) {
		t.Errorf("Compose(a,b)(p) = %v, want a(b(p)) = %v", got, want)
	}
	// rotate (1,0,0) to (0,1,0), then translate
	if !got.ApproxEqual(Vec3{1, 3, 3}, eps) {
		t.Errorf("Compose(a,b)(p) = %v, want (1,3,3)", got)
	}
}

func TestComposeProperty(t *testing.T) {
	transforms := []Mat4{
		Identity(),
		Translate(-4, 7, 0.5),
		Scale(2, 0.5, 3),
		RotateX(0.3),
		RotateAxis(Vec3{1, 1, 0}, 1.1),
		IdentityTransform().Rotated(UnitY, 33).Translated(Vec3{1, 1, 1}).Matrix(),
	}
	points := []Vec3{{0, 0, 0}, {1, 2, 3}, {-5, 0.25, 9}}

	for i, a := range transforms {
		for j, b := range transforms {
			for _, p := range points {
				got := Compose(a, b).TransformPoint(p)
				want := a.TransformPoint(b.TransformPoint(p))
				if !got.ApproxEqual(want, 1e-9) {
					t.Errorf("a=%d b=%d p=%v: got %v, want %v", i, j, p, got, want)
				}
			}
		}
	}
}

func TestTransformVectorIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30)
	if got := m.TransformVector(UnitX); got != UnitX {
		t.Errorf("TransformVector() = %v, want %v", got, UnitX)
	}
	if got := m.TransformPoint(UnitX); got != (Vec3{11, 20, 30}) {
		t.Errorf("TransformPoint() = %v, want (11,20,30)", got)
	}
}

func TestTransformNormalNonUniformScale(t *testing.T) {
	// a 45 degree plane in XZ: normal (1,0,1)/sqrt2, tangent (1,0,-1)
	m := Scale(2, 1, 1)
	n := Vec3{1, 0, 1}.Normalize()
	tangent := Vec3{1, 0, -1}

	tn := m.TransformNormal(n)
	tt := m.TransformVector(tangent)
	if d := tn.Dot(tt); abs(d) > 1e-12 {
		t.Errorf("normal not perpendicular after scale: dot = %v", d)
	}
	// transforming the normal as a plain vector would break perpendicularity
	if d := m.TransformVector(n).Dot(tt); abs(d) < 1e-3 {
		t.Errorf("expected naive transform to be wrong, dot = %v", d)
	}
}

func TestInverse(t *testing.T) {
	m := Compose(Translate(1, 2, 3), Scale(2, 4, 8))
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse() error: %v", err)
	}
	if !m.Mul(inv).ApproxEqual(Identity(), eps) {
		t.Errorf("M * M^-1 = %v, want identity", m.Mul(inv))
	}

	if _, err := Scale(1, 0, 1).Inverse(); !errors.Is(err, ErrDegenerateTransform) {
		t.Errorf("singular Inverse() err = %v, want ErrDegenerateTransform", err)
	}
}
