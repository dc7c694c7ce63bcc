package geometry

import (
	"math"

	"github.com/taigrr/obj2three/pkg/math3d"
)

// isNormal reports whether f is a normal floating-point value: finite,
// non-zero and not subnormal.
func isNormal(f float64) bool {
	exp := math.Float64bits(f) >> 52 & 0x7ff
	return exp != 0 && exp != 0x7ff
}

// Normalize rescales v in place to unit Euclidean length.
//
// The division only happens when the magnitude is a normal float. A zero,
// infinite, NaN or subnormal magnitude leaves v untouched: the zero vector
// normalizes to itself, and near-zero subnormal lengths are not blown up
// into meaningless huge components.
func Normalize(v *math3d.Vec3) {
	l := v.Len()
	if !isNormal(l) {
		return
	}
	v.X /= l
	v.Y /= l
	v.Z /= l
}

// NormalizeAll normalizes every vector of a normal list in place,
// applying the same degenerate-input policy per element.
func NormalizeAll(normals []math3d.Vec3) {
	for i := range normals {
		Normalize(&normals[i])
	}
}
