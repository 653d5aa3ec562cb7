package core

import "math/rand"

// RandomInUnitBall returns a uniformly distributed point inside the unit
// ball, by rejection sampling from the [-1,1] cube
func RandomInUnitBall(rng *rand.Rand) Vec3 {
	for {
		p := NewVec3(
			2*rng.Float64()-1,
			2*rng.Float64()-1,
			2*rng.Float64()-1,
		)
		if s := p.LengthSquared(); s > 0 && s < 1 {
			return p
		}
	}
}

// RandomUnitVector returns a uniformly distributed direction on the unit
// sphere
func RandomUnitVector(rng *rand.Rand) Vec3 {
	return RandomInUnitBall(rng).Normalize()
}
