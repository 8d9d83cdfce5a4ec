package math

import (
	"errors"
	"testing"
)

func TestTransformOrderScaleRotateTranslate(t *testing.T) {
	tr := IdentityTransform()
	tr, _ = tr.Scaled(Vec3{2, 1, 1})
	tr = tr.Rotated(UnitZ, 90)
	tr = tr.Translated(Vec3{10, 0, 0})

	// (1,0,0) -> scale (2,0,0) -> rotate (0,2,0) -> translate (10,2,0)
	got := tr.Matrix().TransformPoint(UnitX)
	if !got.ApproxEqual(Vec3{10, 2, 0}, 1e-9) {
		t.Errorf("Matrix().TransformPoint() = %v, want (10,2,0)", got)
	}

	// scaling after rotation still scales the local X axis, not world X
	tr2 := IdentityTransform().Rotated(UnitZ, 90)
	tr2, _ = tr2.Scaled(Vec3{2, 1, 1})
	got = tr2.Matrix().TransformPoint(UnitX)
	if !got.ApproxEqual(Vec3{0, 2, 0}, 1e-9) {
		t.Errorf("rotate then scale: got %v, want (0,2,0)", got)
	}
}

func TestTransformScaledRejectsZero(t *testing.T) {
	tr := IdentityTransform().Translated(Vec3{1, 2, 3})
	got, err := tr.Scaled(Vec3{1, 0, 1})
	if !errors.Is(err, ErrDegenerateScale) {
		t.Fatalf("Scaled(0) err = %v, want ErrDegenerateScale", err)
	}
	if got != tr {
		t.Errorf("Scaled(0) changed the transform: %v", got)
	}
}

func TestTransformScaledRejectsNegative(t *testing.T) {
	tr := IdentityTransform()
	for _, f := range []Vec3{{-1, -1, -1}, {2, -0.5, 1}} {
		got, err := tr.Scaled(f)
		if !errors.Is(err, ErrDegenerateScale) {
			t.Errorf("Scaled(%v) err = %v, want ErrDegenerateScale", f, err)
		}
		if got != tr {
			t.Errorf("Scaled(%v) changed the transform: %v", f, got)
		}
	}
}

func TestTransformInverse(t *testing.T) {
	tr := IdentityTransform().Rotated(Vec3{1, 1, 1}, 40).Translated(Vec3{3, -2, 5})
	tr, _ = tr.Scaled(Vec3{2, 3, 4})

	inv, err := tr.Inverse()
	if err != nil {
		t.Fatalf("Inverse() error: %v", err)
	}
	p := Vec3{7, 8, 9}
	if back := inv.TransformPoint(tr.Matrix().TransformPoint(p)); !back.ApproxEqual(p, 1e-9) {
		t.Errorf("inverse round trip = %v, want %v", back, p)
	}

	zero := IdentityTransform()
	zero.Scale.Y = 0
	if _, err := zero.Inverse(); !errors.Is(err, ErrDegenerateTransform) {
		t.Errorf("zero-scale Inverse() err = %v, want ErrDegenerateTransform", err)
	}
}
