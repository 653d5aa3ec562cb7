package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	bounds := AABB{Min: points[0], Max: points[0]}
	for _, point := range points[1:] {
		bounds.Min = bounds.Min.Min(point)
		bounds.Max = bounds.Max.Max(point)
	}
	return bounds
}

// Hit tests whether a ray might intersect this AABB using the slab method.
// The interval starts at [0, +Inf), so boxes entirely behind the origin miss.
// A ray parallel to a slab produces infinities that tighten nothing when the
// origin lies between the slab planes and reject otherwise.
func (aabb AABB) Hit(ray Ray) bool {
	tMin := 0.0
	tMax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		invD := 1.0 / ray.Direction.Axis(axis)
		t0 := (aabb.Min.Axis(axis) - ray.Origin.Axis(axis)) * invD
		t1 := (aabb.Max.Axis(axis) - ray.Origin.Axis(axis)) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax < tMin {
			return false
		}
	}
	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: aabb.Min.Min(other.Min),
		Max: aabb.Max.Max(other.Max),
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the extent of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent.
// Ties resolve to the lowest axis index.
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X >= size.Y && size.X >= size.Z {
		return 0
	}
	if size.Y >= size.Z {
		return 1
	}
	return 2
}

// Contains reports whether other lies entirely within this AABB
func (aabb AABB) Contains(other AABB) bool {
	return other.Min.X >= aabb.Min.X && other.Min.Y >= aabb.Min.Y && other.Min.Z >= aabb.Min.Z &&
		other.Max.X <= aabb.Max.X && other.Max.Y <= aabb.Max.Y && other.Max.Z <= aabb.Max.Z
}
