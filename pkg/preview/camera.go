package preview

import (
	"math"

	"github.com/taigrr/obj2three/pkg/math3d"
)

// Camera is a fixed-orientation perspective camera looking down -Z.
// The preview spins the model, not the camera, so orientation controls
// are not needed.
type Camera struct {
	Position math3d.Vec3

	FOV         float64
	AspectRatio float64
	Near        float64
	Far         float64
}

func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 5),
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         100,
	}
}

func (c *Camera) viewProjection() math3d.Mat4 {
	proj := math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
	view := math3d.Translate(c.Position.Negate())
	return proj.Mul(view)
}

// WorldToScreen projects a world point to pixel coordinates. Points
// behind the camera or outside the frustum come back invisible.
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y float64, visible bool) {
	clip := c.viewProjection().MulVec4(math3d.V4FromV3(worldPos, 1))
	if clip.W <= 0 {
		return 0, 0, false
	}

	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight)
	return x, y, true
}
