package core

import (
	"math/rand"
)

// RandomVec3 returns a vector whose components are uniform in [min, max)
func RandomVec3(random *rand.Rand, minVal, maxVal float64) Vec3 {
	span := maxVal - minVal
	return Vec3{
		X: minVal + span*random.Float64(),
		Y: minVal + span*random.Float64(),
		Z: minVal + span*random.Float64(),
	}
}

// RandomInUnitSphere rejection-samples a point strictly inside the unit sphere.
// The origin itself is rejected so the result can always be normalized.
func RandomInUnitSphere(random *rand.Rand) Vec3 {
	for {
		p := RandomVec3(random, -1, 1)
		lengthSquared := p.LengthSquared()
		if lengthSquared > 0 && lengthSquared < 1 {
			return p
		}
	}
}

// RandomUnitVector returns a uniformly distributed direction on the unit sphere
func RandomUnitVector(random *rand.Rand) Vec3 {
	return RandomInUnitSphere(random).Normalize()
}

// RowSeed derives an independent seed for one image row from a base seed
func RowSeed(seed int64, row int) int64 {
	// splitmix64 finalizer
	z := uint64(seed) + uint64(row+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
