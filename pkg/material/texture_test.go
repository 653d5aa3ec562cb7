package material

import (
	"math"
	"testing"

	"pathtracer/pkg/core"
)

// solidPixels builds a w*h grid of one color
func solidPixels(w, h int, c core.Vec3) []core.Vec3 {
	pixels := make([]core.Vec3, w*h)
	for i := range pixels {
		pixels[i] = c
	}
	return pixels
}

func TestTextureLinearizesOnLoad(t *testing.T) {
	tex := NewTexture(1, 1, []core.Vec3{core.NewVec3(0.5, 1, 0)})
	got := tex.Sample(core.NewVec2(0, 0))

	want := math.Pow(0.5, 2.2)
	if math.Abs(got.X-want) > 1e-12 {
		t.Errorf("R = %v, want %v", got.X, want)
	}
	if got.Y != 1 || got.Z != 0 {
		t.Errorf("G,B = %v,%v, want 1,0", got.Y, got.Z)
	}
}

func TestTextureNearestNeighbor(t *testing.T) {
	// 2x2 grid: bottom row red/green, top row blue/white
	pixels := []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1),
	}
	tex := NewTexture(2, 2, pixels)

	tests := []struct {
		uv   core.Vec2
		want core.Vec3
	}{
		{core.NewVec2(0, 0), core.NewVec3(1, 0, 0)},
		{core.NewVec2(1, 0), core.NewVec3(0, 1, 0)},
		{core.NewVec2(0, 1), core.NewVec3(0, 0, 1)},
		{core.NewVec2(1, 1), core.NewVec3(1, 1, 1)},
		{core.NewVec2(0.2, 0.2), core.NewVec3(1, 0, 0)}, // rounds to (0,0)
		{core.NewVec2(0.8, 0.8), core.NewVec3(1, 1, 1)}, // rounds to (1,1)
	}
	for _, tt := range tests {
		if got := tex.Sample(tt.uv); got != tt.want {
			t.Errorf("Sample(%v) = %v, want %v", tt.uv, got, tt.want)
		}
	}
}

func TestTextureClampsOutOfRange(t *testing.T) {
	tex := NewTexture(2, 2, solidPixels(2, 2, core.NewVec3(1, 1, 1)))

	for _, uv := range []core.Vec2{
		core.NewVec2(-0.5, 0.5),
		core.NewVec2(1.5, 0.5),
		core.NewVec2(0.5, -0.5),
		core.NewVec2(0.5, 1.5),
	} {
		if got := tex.Sample(uv); got != core.NewVec3(1, 1, 1) {
			t.Errorf("Sample(%v) = %v, want clamped border", uv, got)
		}
	}
}
