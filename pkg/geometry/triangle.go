package geometry

import (
	"math"
	"math/rand"

	"pathtracer/pkg/core"
)

// Triangle is the only primitive the renderer knows. It carries its geometry
// together with the material attributes that drive scattering.
type Triangle struct {
	V0, V1, V2 core.Vec3 // Vertex positions
	N0, N1, N2 core.Vec3 // Per-vertex unit normals

	// PlaneNormal is the unit normal of the containing plane, oriented per
	// construction (see NewTriangle)
	PlaneNormal core.Vec3

	UV0, UV1, UV2 core.Vec2 // Texture coordinates, valid only if TextureIndex >= 0

	Color             core.Vec3 // Diffuse or specular RGB in [0,1]
	SpecularRoughness float64   // 0 = perfect mirror, 1 = full hemisphere
	RefractiveIndex   float64   // >= 1
	TextureIndex      int       // Index into the scene's textures, -1 = none

	IsMetal         bool
	IsLightEmitting bool
	IsTransparent   bool
}

// HitResult describes an accepted ray-triangle intersection
type HitResult struct {
	T     float64 // Ray parameter at the hit point
	Alpha float64 // Barycentric weight on V0
	Beta  float64 // Barycentric weight on V1 (weight on V2 is 1-Alpha-Beta)
}

// NewTriangle creates an explicit triangle, as described by a scene config
// block. The plane normal is the unit cross product of the edges, flipped if
// needed so that it agrees with the normalSide hint. Vertex normals are set
// to the plane normal.
func NewTriangle(v0, v1, v2, normalSide core.Vec3) Triangle {
	planeNormal := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	if planeNormal.Dot(normalSide) < 0 {
		planeNormal = planeNormal.Negate()
	}

	return Triangle{
		V0: v0, V1: v1, V2: v2,
		N0: planeNormal, N1: planeNormal, N2: planeNormal,
		PlaneNormal:  planeNormal,
		TextureIndex: -1,
	}
}

// NewMeshTriangle creates a triangle from imported mesh data. Zero-length
// source normals fall back to the plane normal; the others are normalized.
func NewMeshTriangle(positions, normals [3]core.Vec3, uvs [3]core.Vec2, textureIndex int) Triangle {
	planeNormal := positions[1].Subtract(positions[0]).
		Cross(positions[2].Subtract(positions[0])).Normalize()

	for i := range normals {
		if normals[i].IsZero() {
			normals[i] = planeNormal
		} else {
			normals[i] = normals[i].Normalize()
		}
	}

	return Triangle{
		V0: positions[0], V1: positions[1], V2: positions[2],
		N0: normals[0], N1: normals[1], N2: normals[2],
		UV0: uvs[0], UV1: uvs[1], UV2: uvs[2],
		PlaneNormal:  planeNormal,
		TextureIndex: textureIndex,
	}
}

// Bounds returns the axis-aligned bounding box over the three vertices
func (t *Triangle) Bounds() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2)
}

// Hit intersects the ray with the triangle. The plane parameter must exceed
// 1e-3, which rejects self-intersection at the ray origin and, via the same
// comparison, the NaN produced by rays parallel to the plane. Barycentric
// weights come from solving [V0-V2 | V1-V2]·[α;β] = p-V2 by Gaussian
// elimination with full pivoting. A degenerate triangle has a zero plane
// normal, so its plane parameter is NaN and fails the same comparison.
func (t *Triangle) Hit(r core.Ray) (HitResult, bool) {
	tParam := t.PlaneNormal.Dot(t.V0.Subtract(r.Origin)) / t.PlaneNormal.Dot(r.Direction)
	if !(tParam > 1e-3) {
		return HitResult{}, false
	}

	p := r.At(tParam)
	a1 := t.V0.Subtract(t.V2)
	a2 := t.V1.Subtract(t.V2)
	b := p.Subtract(t.V2)

	alpha, beta := solveBarycentric(a1, a2, b)
	if !(alpha >= 0 && beta >= 0 && alpha+beta <= 1) {
		return HitResult{}, false
	}

	return HitResult{T: tParam, Alpha: alpha, Beta: beta}, true
}

// solveBarycentric solves the 3x2 system [a1 | a2]·[α;β] = b by Gaussian
// elimination with full pivoting. The system is consistent because b lies in
// the plane spanned by a1 and a2.
func solveBarycentric(a1, a2, b core.Vec3) (alpha, beta float64) {
	rows := [3][3]float64{
		{a1.X, a2.X, b.X},
		{a1.Y, a2.Y, b.Y},
		{a1.Z, a2.Z, b.Z},
	}

	// First pivot: the row with the largest first-column magnitude
	pivot := 0
	maxAbs := math.Abs(rows[0][0])
	for i := 1; i < 3; i++ {
		if abs := math.Abs(rows[i][0]); abs > maxAbs {
			maxAbs = abs
			pivot = i
		}
	}
	rows[0], rows[pivot] = rows[pivot], rows[0]

	// Normalize the pivot row and eliminate the first column below it
	d := rows[0][0]
	rows[0][0], rows[0][1], rows[0][2] = 1, rows[0][1]/d, rows[0][2]/d
	for i := 1; i < 3; i++ {
		m := rows[i][0]
		rows[i][0] = 0
		rows[i][1] -= m * rows[0][1]
		rows[i][2] -= m * rows[0][2]
	}

	// Second pivot from the remaining two rows
	if math.Abs(rows[2][1]) > math.Abs(rows[1][1]) {
		rows[1], rows[2] = rows[2], rows[1]
	}
	d = rows[1][1]
	rows[1][1], rows[1][2] = 1, rows[1][2]/d

	// Back-substitute into the first row
	m := rows[0][1]
	rows[0][1] = 0
	rows[0][2] -= m * rows[1][2]

	return rows[0][2], rows[1][2]
}

// Diffuse returns count outgoing directions for a diffuse bounce: the
// normal, oriented against the incoming ray, plus a uniform unit-sphere
// offset. All returned directions are normalized.
func (t *Triangle) Diffuse(normal core.Vec3, r core.Ray, count int, rng *rand.Rand) []core.Vec3 {
	oriented := normal
	if r.Direction.Dot(normal) >= 0 {
		oriented = normal.Negate()
	}

	result := make([]core.Vec3, count)
	for i := range result {
		result[i] = oriented.Add(core.RandomUnitVector(rng)).Normalize()
	}
	return result
}

// Specular returns count outgoing directions around the mirror reflection,
// perturbed by a unit-ball sample scaled by the surface roughness. At
// roughness 0 every sample is the exact mirror direction.
func (t *Triangle) Specular(normal core.Vec3, r core.Ray, count int, rng *rand.Rand) []core.Vec3 {
	mirror := r.Direction.Subtract(normal.Multiply(2 * r.Direction.Dot(normal)))

	result := make([]core.Vec3, count)
	for i := range result {
		offset := core.RandomInUnitBall(rng).Multiply(t.SpecularRoughness)
		result[i] = mirror.Add(offset).Normalize()
	}
	return result
}

// Refract computes the transmitted direction and the refraction weight
// 1-R, with R from Schlick's approximation. Total internal reflection
// returns weight 0 and a zero direction; an index ratio of exactly 1
// returns weight 1 and the incident direction.
func (t *Triangle) Refract(normal core.Vec3, r core.Ray) (float64, core.Vec3) {
	d := r.Direction.Dot(normal)

	// Ratio of incident to transmitted refractive index; the working normal
	// always opposes the incident ray
	indexRatio := 1.0 / t.RefractiveIndex
	oriented := normal
	if d > 0 {
		indexRatio = t.RefractiveIndex
		oriented = normal.Negate()
	}

	cosTheta := math.Abs(d)
	sinSq1 := 1 - cosTheta*cosTheta
	sinSq2 := indexRatio * indexRatio * sinSq1
	if sinSq2 > 1 {
		return 0, core.Vec3{}
	}

	cos2 := math.Sqrt(1 - sinSq2)
	transmitted := r.Direction.Add(oriented.Multiply(cosTheta)).
		Multiply(indexRatio).
		Subtract(oriented.Multiply(cos2))

	// Equal indices form no interface, so nothing is reflected
	if indexRatio == 1 {
		return 1, transmitted
	}

	// Schlick's approximation for the reflected proportion
	r0 := (1 - indexRatio) / (1 + indexRatio)
	r0 *= r0
	reflected := r0 + (1-r0)*math.Pow(1-cosTheta, 5)

	return 1 - reflected, transmitted
}
