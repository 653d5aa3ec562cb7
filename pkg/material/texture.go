package material

import (
	"math"

	"pathtracer/pkg/core"
)

// Texture is an immutable RGB pixel grid sampled with nearest-neighbor
// lookups. Pixels are stored in linear space, row 0 at the bottom, so v
// grows upward like the uv coordinates coming out of the mesh importer.
type Texture struct {
	width  int
	height int
	pixels []core.Vec3
	uMax   float64 // width - 1
	vMax   float64 // height - 1
}

// NewTexture builds a texture from an sRGB pixel grid in [0,1], row 0 at
// the bottom. Channels are linearized with gamma 2.2.
func NewTexture(width, height int, srgbPixels []core.Vec3) *Texture {
	pixels := make([]core.Vec3, len(srgbPixels))
	for i, p := range srgbPixels {
		pixels[i] = core.NewVec3(
			math.Pow(p.X, 2.2),
			math.Pow(p.Y, 2.2),
			math.Pow(p.Z, 2.2),
		)
	}

	return &Texture{
		width:  width,
		height: height,
		pixels: pixels,
		uMax:   float64(width - 1),
		vMax:   float64(height - 1),
	}
}

// Sample returns the linear color nearest to the uv coordinate. Indices are
// clamped to the grid, so uv values slightly outside [0,1] read the border.
func (t *Texture) Sample(uv core.Vec2) core.Vec3 {
	x := int(math.Round(uv.X * t.uMax))
	y := int(math.Round(uv.Y * t.vMax))

	if x < 0 {
		x = 0
	} else if x >= t.width {
		x = t.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.height {
		y = t.height - 1
	}

	return t.pixels[y*t.width+x]
}

// Width returns the pixel grid width
func (t *Texture) Width() int { return t.width }

// Height returns the pixel grid height
func (t *Texture) Height() int { return t.height }
