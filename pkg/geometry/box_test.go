package geometry

import (
	"testing"

	"github.com/taigrr/obj2three/pkg/math3d"
)

func TestBoundingBox(t *testing.T) {
	vertices := []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(-1.1, 1.1, 1.1),
		math3d.V3(2.2, 0, 1.1),
		math3d.V3(1.1, 0, 2.2),
	}

	box := BoundingBox(vertices)

	want := Box{Min: math3d.V3(-1.1, 0, 0), Max: math3d.V3(2.2, 1.1, 2.2)}
	if box != want {
		t.Errorf("BoundingBox = %+v, want %+v", box, want)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	box := BoundingBox(nil)
	if box != (Box{}) {
		t.Errorf("empty input should yield the zero box, got %+v", box)
	}
}

func TestBoundingBoxSingleVertex(t *testing.T) {
	v := math3d.V3(3, -4, 5)
	box := BoundingBox([]math3d.Vec3{v})
	if box.Min != v || box.Max != v {
		t.Errorf("single vertex box = %+v, want min=max=%v", box, v)
	}
}

func TestBoundingBoxContainsAndTight(t *testing.T) {
	vertices := []math3d.Vec3{
		math3d.V3(4, 0, -7),
		math3d.V3(-2, 9, 3),
		math3d.V3(0.5, -1.5, 0),
		math3d.V3(4, 9, 3),
	}

	box := BoundingBox(vertices)

	for i, v := range vertices {
		if v.X < box.Min.X || v.X > box.Max.X ||
			v.Y < box.Min.Y || v.Y > box.Max.Y ||
			v.Z < box.Min.Z || v.Z > box.Max.Z {
			t.Errorf("vertex %d (%v) outside box %+v", i, v, box)
		}
	}

	// Every bound must be attained by some input vertex.
	attained := func(get func(math3d.Vec3) float64, bound float64) bool {
		for _, v := range vertices {
			if get(v) == bound {
				return true
			}
		}
		return false
	}
	getX := func(v math3d.Vec3) float64 { return v.X }
	getY := func(v math3d.Vec3) float64 { return v.Y }
	getZ := func(v math3d.Vec3) float64 { return v.Z }

	for _, tc := range []struct {
		name  string
		get   func(math3d.Vec3) float64
		bound float64
	}{
		{"min x", getX, box.Min.X},
		{"max x", getX, box.Max.X},
		{"min y", getY, box.Min.Y},
		{"max y", getY, box.Max.Y},
		{"min z", getZ, box.Min.Z},
		{"max z", getZ, box.Max.Z},
	} {
		if !attained(tc.get, tc.bound) {
			t.Errorf("%s = %v not attained by any input vertex", tc.name, tc.bound)
		}
	}
}

func TestBoxCenterSize(t *testing.T) {
	box := Box{Min: math3d.V3(0, 0, 0), Max: math3d.V3(10, 20, 30)}

	if got := box.Center(); got != math3d.V3(5, 10, 15) {
		t.Errorf("Center = %v, want (5, 10, 15)", got)
	}
	if got := box.Size(); got != math3d.V3(10, 20, 30) {
		t.Errorf("Size = %v, want (10, 20, 30)", got)
	}
}
