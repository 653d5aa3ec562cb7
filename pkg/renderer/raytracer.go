package renderer

import (
	"math"
	"math/rand"

	"pathtracer/pkg/core"
	"pathtracer/pkg/geometry"
	"pathtracer/pkg/scene"
)

// Raytracer evaluates radiance along rays for one worker. Each worker owns
// its own instance: the random generator and the BVH candidate scratch
// buffer are not safe to share, while the scene and BVH behind them are
// read-only.
type Raytracer struct {
	scene      *scene.Scene
	bvh        *geometry.BVH
	rng        *rand.Rand
	candidates []int32
}

// NewRaytracer creates a raytracer over a fully built scene
func NewRaytracer(sc *scene.Scene, bvh *geometry.BVH, rng *rand.Rand) *Raytracer {
	return &Raytracer{
		scene: sc,
		bvh:   bvh,
		rng:   rng,
	}
}

// closestHit selects the nearest accepted intersection among the BVH
// candidates for the ray
func (rt *Raytracer) closestHit(r core.Ray) (int, geometry.HitResult) {
	rt.candidates = rt.bvh.Hit(r, rt.candidates)

	best := -1
	bestHit := geometry.HitResult{T: math.Inf(1)}
	for _, index := range rt.candidates {
		if hit, ok := rt.scene.Triangles[index].Hit(r); ok && hit.T < bestHit.T {
			best = int(index)
			bestHit = hit
		}
	}
	return best, bestHit
}

// Color returns the radiance estimate along r at the given recursion depth.
// Primary rays enter at depth 0; recursion stops at the scene's maximum
// depth.
func (rt *Raytracer) Color(depth int, r core.Ray) core.Vec3 {
	index, hit := rt.closestHit(r)
	if index < 0 {
		if rt.scene.Skybox != nil {
			return rt.scene.Skybox.Sample(r)
		}
		return rt.scene.BackgroundColor
	}

	tri := &rt.scene.Triangles[index]
	gamma := 1 - hit.Alpha - hit.Beta
	normal := tri.N0.Multiply(hit.Alpha).
		Add(tri.N1.Multiply(hit.Beta)).
		Add(tri.N2.Multiply(gamma)).
		Normalize()

	if depth == rt.scene.MaxDepth {
		return core.Vec3{}
	}

	// A ray grazing or exiting an opaque surface contributes nothing
	if !tri.IsTransparent && normal.Dot(r.Direction) >= 0 {
		return core.Vec3{}
	}

	if tri.IsLightEmitting {
		return tri.Color
	}

	hitPoint := r.At(hit.T)

	if tri.IsMetal {
		return rt.specularAverage(depth, tri, normal, hitPoint, r).MultiplyVec(tri.Color)
	}

	if tri.IsTransparent {
		specular := rt.specularAverage(depth, tri, normal, hitPoint, r)
		weight, transmitted := tri.Refract(normal, r)

		var refracted core.Vec3
		if weight > 0 {
			refracted = rt.Color(depth+1, core.NewRay(hitPoint, transmitted.Normalize()))
		}
		return refracted.Multiply(weight).Add(specular.Multiply(1 - weight))
	}

	// Opaque dielectric: a fixed 0.04 specular lobe plus a diffuse base
	specular := rt.specularAverage(depth, tri, normal, hitPoint, r).Multiply(0.04)

	diffuse := core.Vec3{}
	for _, dir := range tri.Diffuse(normal, r, rt.scene.DiffuseRayNum, rt.rng) {
		diffuse = diffuse.Add(rt.Color(depth+1, core.NewRay(hitPoint, dir)))
	}
	diffuse = diffuse.Multiply(1.0 / float64(rt.scene.DiffuseRayNum)).MultiplyVec(tri.Color)

	if tex := rt.scene.Texture(tri.TextureIndex); tex != nil {
		uv := tri.UV0.Multiply(hit.Alpha).
			Add(tri.UV1.Multiply(hit.Beta)).
			Add(tri.UV2.Multiply(gamma))
		diffuse = diffuse.MultiplyVec(tex.Sample(uv))
	}

	return specular.Add(diffuse.Multiply(math.Abs(normal.Dot(r.Direction))))
}

// specularAverage traces the triangle's specular lobe and averages the
// returned radiance
func (rt *Raytracer) specularAverage(depth int, tri *geometry.Triangle, normal, hitPoint core.Vec3, r core.Ray) core.Vec3 {
	sum := core.Vec3{}
	for _, dir := range tri.Specular(normal, r, rt.scene.SpecularRayNum, rt.rng) {
		sum = sum.Add(rt.Color(depth+1, core.NewRay(hitPoint, dir)))
	}
	return sum.Multiply(1.0 / float64(rt.scene.SpecularRayNum))
}
