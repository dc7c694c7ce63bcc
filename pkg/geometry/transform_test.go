package geometry

import (
	"math"
	"testing"

	"github.com/taigrr/obj2three/pkg/math3d"
)

// near compares vectors component-wise within tolerance.
func near(a, b math3d.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

func TestTranslate(t *testing.T) {
	vertices := []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(-1.1, 1.1, 1.1),
		math3d.V3(2.2, 0, 1.1),
		math3d.V3(1.1, 0, 2.2),
	}
	want := []math3d.Vec3{
		math3d.V3(1.0, -2.0, 3.3),
		math3d.V3(-0.1, -0.9, 4.4),
		math3d.V3(3.2, -2.0, 4.4),
		math3d.V3(2.1, -2.0, 5.5),
	}

	Translate(vertices, math3d.V3(1.0, -2.0, 3.3))

	for i := range vertices {
		if !near(vertices[i], want[i], 0.01) {
			t.Errorf("vertex %d = %v, want %v", i, vertices[i], want[i])
		}
	}
}

func TestTranslateRoundTrip(t *testing.T) {
	orig := []math3d.Vec3{
		math3d.V3(0.25, -7, 3),
		math3d.V3(12, 0.001, -9.5),
	}
	vertices := append([]math3d.Vec3(nil), orig...)

	delta := math3d.V3(4.2, -0.7, 11)
	Translate(vertices, delta)
	Translate(vertices, delta.Negate())

	for i := range vertices {
		if !near(vertices[i], orig[i], 0.01) {
			t.Errorf("vertex %d = %v, want %v after round trip", i, vertices[i], orig[i])
		}
	}
}

func TestTranslateZeroIsIdentity(t *testing.T) {
	vertices := []math3d.Vec3{math3d.V3(1, 2, 3), math3d.V3(-4, 5, -6)}
	want := append([]math3d.Vec3(nil), vertices...)

	Translate(vertices, math3d.Zero3())

	for i := range vertices {
		if vertices[i] != want[i] {
			t.Errorf("vertex %d changed under zero translation: %v", i, vertices[i])
		}
	}
}

func TestAlignCenter(t *testing.T) {
	vertices := []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(2, 2, 2),
		math3d.V3(4, 4, 4),
	}
	want := []math3d.Vec3{
		math3d.V3(-2, -2, -2),
		math3d.V3(0, 0, 0),
		math3d.V3(2, 2, 2),
	}

	Align(vertices, AlignCenter)

	for i := range vertices {
		if !near(vertices[i], want[i], 1e-9) {
			t.Errorf("vertex %d = %v, want %v", i, vertices[i], want[i])
		}
	}
}

func TestAlignCenterIdempotent(t *testing.T) {
	vertices := []math3d.Vec3{
		math3d.V3(1, 7, -3),
		math3d.V3(5, 9, 2),
		math3d.V3(3, 8, 0.5),
	}

	Align(vertices, AlignCenter)
	once := append([]math3d.Vec3(nil), vertices...)
	Align(vertices, AlignCenter)

	for i := range vertices {
		if !near(vertices[i], once[i], 1e-9) {
			t.Errorf("second centering moved vertex %d: %v -> %v", i, once[i], vertices[i])
		}
	}
}

func TestAlignTop(t *testing.T) {
	vertices := []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(2, 2, 2),
		math3d.V3(4, 4, 4),
	}
	want := []math3d.Vec3{
		math3d.V3(-2, -4, -2),
		math3d.V3(0, -2, 0),
		math3d.V3(2, 0, 2),
	}

	Align(vertices, AlignTop)

	for i := range vertices {
		if !near(vertices[i], want[i], 1e-9) {
			t.Errorf("vertex %d = %v, want %v", i, vertices[i], want[i])
		}
	}

	if box := BoundingBox(vertices); math.Abs(box.Max.Y) > 1e-9 {
		t.Errorf("top of box at y=%v, want 0", box.Max.Y)
	}
}

func TestAlignBottom(t *testing.T) {
	vertices := []math3d.Vec3{
		math3d.V3(0, 1, 0),
		math3d.V3(2, 3, 2),
		math3d.V3(4, 5, 4),
	}

	Align(vertices, AlignBottom)

	box := BoundingBox(vertices)
	if math.Abs(box.Min.Y) > 1e-9 {
		t.Errorf("bottom of box at y=%v, want 0", box.Min.Y)
	}
	if math.Abs(box.Min.X+box.Max.X) > 1e-9 || math.Abs(box.Min.Z+box.Max.Z) > 1e-9 {
		t.Errorf("x/z not centered: %+v", box)
	}
}

func TestAlignCenterXZKeepsVertical(t *testing.T) {
	vertices := []math3d.Vec3{
		math3d.V3(1, 7, 3),
		math3d.V3(5, 9, 5),
	}

	Align(vertices, AlignCenterXZ)

	if vertices[0].Y != 7 || vertices[1].Y != 9 {
		t.Errorf("vertical positions changed: %v", vertices)
	}
	box := BoundingBox(vertices)
	if math.Abs(box.Min.X+box.Max.X) > 1e-9 || math.Abs(box.Min.Z+box.Max.Z) > 1e-9 {
		t.Errorf("x/z not centered: %+v", box)
	}
}

func TestAlignSingleVertex(t *testing.T) {
	vertices := []math3d.Vec3{math3d.V3(3, 4, 5)}

	Align(vertices, AlignCenter)
	if !near(vertices[0], math3d.Zero3(), 1e-9) {
		t.Errorf("single vertex should land on the origin, got %v", vertices[0])
	}

	vertices = []math3d.Vec3{math3d.V3(3, 4, 5)}
	Align(vertices, AlignCenterXZ)
	if !near(vertices[0], math3d.V3(0, 4, 0), 1e-9) {
		t.Errorf("centerxz should keep y, got %v", vertices[0])
	}
}

func TestAlignNoneIsNoOp(t *testing.T) {
	vertices := []math3d.Vec3{math3d.V3(1, 2, 3)}
	Align(vertices, AlignNone)
	if vertices[0] != math3d.V3(1, 2, 3) {
		t.Errorf("AlignNone moved vertices: %v", vertices[0])
	}
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		in   string
		want Alignment
		ok   bool
	}{
		{"none", AlignNone, true},
		{"center", AlignCenter, true},
		{"centerxz", AlignCenterXZ, true},
		{"top", AlignTop, true},
		{"bottom", AlignBottom, true},
		{"middle", AlignNone, false},
		{"", AlignNone, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAlignment(tc.in)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error for %q", tc.in)
			}
			if got != tc.want {
				t.Errorf("ParseAlignment(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAlignmentString(t *testing.T) {
	for _, a := range []Alignment{AlignNone, AlignCenter, AlignCenterXZ, AlignTop, AlignBottom} {
		parsed, err := ParseAlignment(a.String())
		if err != nil || parsed != a {
			t.Errorf("round trip failed for %v: %v, %v", a, parsed, err)
		}
	}
}
