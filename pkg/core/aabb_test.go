package core

import (
	"math/rand"
	"testing"
)

func TestAABBHit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name string
		ray  Ray
		want bool
	}{
		{"through center", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"pointing away", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)), false},
		{"box behind origin", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)), false},
		{"origin inside box", NewRay(NewVec3(0, 0, 0), NewVec3(1, 1, 1)), true},
		{"off to the side", NewRay(NewVec3(5, 0, -5), NewVec3(0, 0, 1)), false},
		{"diagonal hit", NewRay(NewVec3(-5, -5, -5), NewVec3(1, 1, 1)), true},
		{"axis-aligned through center", NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0)), true},
	}

	for _, tt := range tests {
		if got := box.Hit(tt.ray); got != tt.want {
			t.Errorf("%s: Hit = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAABBHitParallelRay(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	// Parallel to the X slab, origin between the slab planes: the slab
	// contributes no tightening and the other axes decide
	inside := NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1))
	if !box.Hit(inside) {
		t.Error("parallel ray with origin inside the slab should hit")
	}

	// Parallel to the X slab, origin outside the slab planes: reject
	outside := NewRay(NewVec3(3, 0, -5), NewVec3(0, 0, 1))
	if box.Hit(outside) {
		t.Error("parallel ray with origin outside the slab should miss")
	}
}

func TestAABBUnionContains(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(-1, 0.5, 0), NewVec3(0.5, 2, 0.5))

	u := a.Union(b)
	if !u.Contains(a) || !u.Contains(b) {
		t.Errorf("union %v does not contain both inputs", u)
	}
	if u.Min != NewVec3(-1, 0, 0) || u.Max != NewVec3(1, 2, 1) {
		t.Errorf("union bounds wrong: %v", u)
	}
}

func TestAABBLongestAxis(t *testing.T) {
	tests := []struct {
		max  Vec3
		want int
	}{
		{NewVec3(3, 1, 1), 0},
		{NewVec3(1, 3, 1), 1},
		{NewVec3(1, 1, 3), 2},
		{NewVec3(2, 2, 1), 0}, // tie resolves to the lowest axis
		{NewVec3(1, 2, 2), 1},
	}
	for _, tt := range tests {
		box := NewAABB(NewVec3(0, 0, 0), tt.max)
		if got := box.LongestAxis(); got != tt.want {
			t.Errorf("LongestAxis(%v): got %d, want %d", tt.max, got, tt.want)
		}
	}
}

func TestAABBFromPoints(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(1, 5, -2), NewVec3(-3, 2, 4), NewVec3(0, 0, 0))
	if box.Min != NewVec3(-3, 0, -2) || box.Max != NewVec3(1, 5, 4) {
		t.Errorf("bounds wrong: %v", box)
	}
}

func TestAABBHitRandomRaysThroughCenter(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	box := NewAABB(NewVec3(-1, -2, -3), NewVec3(2, 1, 3))
	center := box.Center()

	for i := 0; i < 100; i++ {
		origin := NewVec3(rng.Float64()*20-10, rng.Float64()*20-10, rng.Float64()*20-10)
		ray := NewRay(origin, center.Subtract(origin).Normalize())
		if !box.Hit(ray) {
			t.Fatalf("ray from %v through box center missed", origin)
		}
	}
}
