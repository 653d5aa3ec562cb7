package material

import "pathtracer/pkg/core"

// Skybox face order
const (
	FaceFront = iota // +Z
	FaceBack         // -Z
	FaceLeft         // -X
	FaceRight        // +X
	FaceTop          // +Y
	FaceBottom       // -Y
	FaceCount
)

// Skybox is a cubemap of six textures with a brightness scale. A skybox
// either has all six faces or does not exist; partial loads are discarded
// by the scene loader.
type Skybox struct {
	faces      [FaceCount]*Texture
	brightness float64
}

// NewSkybox creates a skybox from six fully loaded faces
func NewSkybox(brightness float64, faces [FaceCount]*Texture) *Skybox {
	return &Skybox{faces: faces, brightness: brightness}
}

// Sample projects the ray direction onto the cube and samples the face it
// exits through, scaled by the skybox brightness. Each face is tried in
// order: the direction is scaled so the face coordinate reaches ±1, and the
// face accepts when the divisor is positive and the uv lands inside [0,1].
func (s *Skybox) Sample(r core.Ray) core.Vec3 {
	dir := r.Direction

	for face := 0; face < FaceCount; face++ {
		var divisor, u, v float64
		switch face {
		case FaceFront:
			divisor = dir.Z
			u = (1 - dir.X/divisor) * 0.5
			v = (1 + dir.Y/divisor) * 0.5
		case FaceBack:
			divisor = -dir.Z
			u = (1 + dir.X/divisor) * 0.5
			v = (1 + dir.Y/divisor) * 0.5
		case FaceLeft:
			divisor = -dir.X
			u = (1 - dir.Z/divisor) * 0.5
			v = (1 + dir.Y/divisor) * 0.5
		case FaceRight:
			divisor = dir.X
			u = (1 + dir.Z/divisor) * 0.5
			v = (1 + dir.Y/divisor) * 0.5
		case FaceTop:
			divisor = dir.Y
			u = (1 + dir.X/divisor) * 0.5
			v = (1 + dir.Z/divisor) * 0.5
		case FaceBottom:
			divisor = -dir.Y
			u = (1 + dir.X/divisor) * 0.5
			v = (1 + dir.Z/divisor) * 0.5
		}

		if divisor <= 0 || u < 0 || u > 1 || v < 0 || v > 1 {
			continue
		}
		return s.faces[face].Sample(core.NewVec2(u, v)).Multiply(s.brightness)
	}

	return core.Vec3{}
}
