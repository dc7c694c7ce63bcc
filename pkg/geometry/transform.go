package geometry

import (
	"fmt"

	"github.com/taigrr/obj2three/pkg/math3d"
)

// Alignment selects how Align positions a model relative to the origin.
type Alignment int

const (
	// AlignNone leaves the model where it is.
	AlignNone Alignment = iota
	// AlignCenter moves the bounding box midpoint to the origin.
	AlignCenter
	// AlignCenterXZ centers the two horizontal axes and leaves the
	// vertical position untouched.
	AlignCenterXZ
	// AlignTop puts the top of the bounding box on the y=0 plane.
	AlignTop
	// AlignBottom puts the bottom of the bounding box on the y=0 plane.
	AlignBottom
)

// ParseAlignment maps the command-line spelling of an alignment mode.
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "none":
		return AlignNone, nil
	case "center":
		return AlignCenter, nil
	case "centerxz":
		return AlignCenterXZ, nil
	case "top":
		return AlignTop, nil
	case "bottom":
		return AlignBottom, nil
	}
	return AlignNone, fmt.Errorf("unknown alignment %q (want center, centerxz, top, bottom or none)", s)
}

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignCenterXZ:
		return "centerxz"
	case AlignTop:
		return "top"
	case AlignBottom:
		return "bottom"
	}
	return "none"
}

// Translate adds delta to every vertex in place.
func Translate(vertices []math3d.Vec3, delta math3d.Vec3) {
	for i := range vertices {
		vertices[i].X += delta.X
		vertices[i].Y += delta.Y
		vertices[i].Z += delta.Z
	}
}

// Align translates the vertices in place so the model satisfies the given
// alignment policy. The horizontal center is derived from the bounding box
// for every policy; only the vertical offset differs:
//
//	AlignCenter    vertical midpoint of the box
//	AlignTop       box maximum y
//	AlignBottom    box minimum y
//	AlignCenterXZ  zero (vertical position kept)
//
// An empty or single-vertex input degenerates to a zero-size box, so the
// lone vertex simply lands on the origin (or the horizontal origin for
// AlignCenterXZ) without any special casing.
func Align(vertices []math3d.Vec3, policy Alignment) {
	Translate(vertices, AlignOffset(vertices, policy))
}

// AlignOffset derives the translation Align would apply without moving
// anything. Morph target frames must be shifted by the base model's
// offset, not their own, which is why this is separate.
func AlignOffset(vertices []math3d.Vec3, policy Alignment) math3d.Vec3 {
	if policy == AlignNone {
		return math3d.Zero3()
	}

	box := BoundingBox(vertices)

	cx := box.Min.X + (box.Max.X-box.Min.X)/2
	cz := box.Min.Z + (box.Max.Z-box.Min.Z)/2

	var cy float64
	switch policy {
	case AlignCenter:
		cy = box.Min.Y + (box.Max.Y-box.Min.Y)/2
	case AlignTop:
		cy = box.Max.Y
	case AlignBottom:
		cy = box.Min.Y
	case AlignCenterXZ:
		cy = 0
	}

	return math3d.V3(-cx, -cy, -cz)
}
