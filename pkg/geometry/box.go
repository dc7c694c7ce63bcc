// Package geometry implements the vertex-level transforms the converter
// applies before export: bounding box computation, translation, model
// alignment and normal vector normalization.
package geometry

import "github.com/taigrr/obj2three/pkg/math3d"

// Box is an axis-aligned bounding volume described by two corner points.
// Boxes produced by BoundingBox satisfy Min.c <= Max.c on every axis;
// nothing is enforced for boxes built by hand.
type Box struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the midpoint of the box.
func (b Box) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box on each axis.
func (b Box) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// BoundingBox returns the smallest axis-aligned box containing all the
// given vertices in a single pass.
//
// An empty input yields the zero box (Min = Max = origin). That sentinel
// is indistinguishable from a single vertex sitting at the origin; callers
// that care must check len(vertices) themselves.
func BoundingBox(vertices []math3d.Vec3) Box {
	if len(vertices) == 0 {
		return Box{}
	}

	box := Box{Min: vertices[0], Max: vertices[0]}

	// Per axis the min and max updates are mutually exclusive: a value
	// equal to a bound updates neither, the bound is already tight.
	for _, v := range vertices[1:] {
		if v.X < box.Min.X {
			box.Min.X = v.X
		} else if v.X > box.Max.X {
			box.Max.X = v.X
		}

		if v.Y < box.Min.Y {
			box.Min.Y = v.Y
		} else if v.Y > box.Max.Y {
			box.Max.Y = v.Y
		}

		if v.Z < box.Min.Z {
			box.Min.Z = v.Z
		} else if v.Z > box.Max.Z {
			box.Max.Z = v.Z
		}
	}

	return box
}
