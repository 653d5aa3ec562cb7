package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomInUnitBall(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		p := RandomInUnitBall(rng)
		if p.LengthSquared() >= 1 {
			t.Fatalf("point %v outside the unit ball", p)
		}
		if p.IsZero() {
			t.Fatal("point at the origin")
		}
	}
}

func TestRandomUnitVector(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	sum := Vec3{}
	for i := 0; i < 5000; i++ {
		v := RandomUnitVector(rng)
		if math.Abs(v.Length()-1.0) > 1e-12 {
			t.Fatalf("direction %v not unit length", v)
		}
		sum = sum.Add(v)
	}

	// Uniform directions should average out near zero
	mean := sum.Multiply(1.0 / 5000)
	if mean.Length() > 0.05 {
		t.Errorf("directions look biased, mean = %v", mean)
	}
}
