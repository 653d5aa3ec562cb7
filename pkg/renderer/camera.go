package renderer

import (
	"math"

	"pathtracer/pkg/core"
)

// Camera maps integer pixel coordinates to primary rays using a virtual
// 36x24mm sensor at the given focal length. The image plane is precomputed
// as an upper-left corner plus per-pixel right and down steps.
type Camera struct {
	origin    core.Vec3
	rightStep core.Vec3
	downStep  core.Vec3
	upperLeft core.Vec3
}

// Sub-pixel offsets of the four supersampling rays. Row 0 is the top of the
// image and +y moves down.
var pixelOffsets = [4]core.Vec2{
	{X: -0.25, Y: -0.25},
	{X: 0.25, Y: -0.25},
	{X: -0.25, Y: 0.25},
	{X: 0.25, Y: 0.25},
}

// NewCamera creates a camera at origin looking at lookAt. focal is the
// focal length in millimeters, rotate the roll angle in degrees around the
// view direction.
func NewCamera(origin, lookAt core.Vec3, focal, rotate float64, width, height int) *Camera {
	fWidth := float64(width)
	fHeight := float64(height)

	direction := lookAt.Subtract(origin).Normalize()
	right := direction.Cross(core.NewVec3(0, 1, 0)).Normalize()
	down := direction.Cross(right).Normalize()

	// The sensor is 36mm wide when the image is wider than 3:2, else 24mm
	// tall; the other extent follows the image aspect
	var halfRight, halfDown core.Vec3
	if fWidth/fHeight >= 1.5 {
		halfRight = right.Multiply(18.0 / focal)
		halfDown = down.Multiply(18.0 / focal / (fWidth / fHeight))
	} else {
		halfDown = down.Multiply(12.0 / focal)
		halfRight = right.Multiply(12.0 / focal * (fWidth / fHeight))
	}

	upperLeft := direction.Subtract(halfRight).Subtract(halfDown)
	rightStep := halfRight.Multiply(1.0 / (fWidth / 2.0))
	downStep := halfDown.Multiply(1.0 / (fHeight / 2.0))

	angle := rotate * math.Pi / 180.0
	return &Camera{
		origin:    origin,
		upperLeft: upperLeft.RotateAround(direction, angle),
		rightStep: rightStep.RotateAround(direction, angle),
		downStep:  downStep.RotateAround(direction, angle),
	}
}

// GetRays returns the four supersampling rays for pixel (x, y), with
// normalized directions
func (c *Camera) GetRays(x, y int) [4]core.Ray {
	var rays [4]core.Ray
	for i, offset := range pixelOffsets {
		direction := c.upperLeft.
			Add(c.rightStep.Multiply(float64(x) + offset.X)).
			Add(c.downStep.Multiply(float64(y) + offset.Y))
		rays[i] = core.NewRay(c.origin, direction.Normalize())
	}
	return rays
}
