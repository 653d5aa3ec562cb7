package scene

import (
	"go.uber.org/zap"

	"pathtracer/pkg/core"
	"pathtracer/pkg/geometry"
	"pathtracer/pkg/loaders"
	"pathtracer/pkg/material"
)

// Scene holds everything the renderer needs: camera parameters, sampling
// parameters, geometry, textures, and the optional skybox. Triangles and
// textures are appended during construction and never mutated afterwards.
type Scene struct {
	Width  int
	Height int

	CameraOrigin core.Vec3
	CameraLookAt core.Vec3
	FocalLength  float64 // mm, on a 36x24mm sensor model
	RotateAngle  float64 // degrees around the view direction

	BackgroundColor core.Vec3
	MaxDepth        int
	DiffuseRayNum   int
	SpecularRayNum  int
	FrameCount      int

	Triangles []geometry.Triangle
	Textures  []*material.Texture
	Skybox    *material.Skybox

	logger *zap.SugaredLogger
}

// ModelConfig carries the per-model attributes from a model block
type ModelConfig struct {
	Path              string
	TexturePath       string // empty = no texture
	Offset            core.Vec3
	IsMetal           bool
	IsLightEmitting   bool
	IsTransparent     bool
	SpecularRoughness float64
	RefractiveIndex   float64
	OverrideColor     *core.Vec3
}

// NewScene creates an empty scene
func NewScene(logger *zap.SugaredLogger) *Scene {
	return &Scene{logger: logger}
}

// AddTriangle appends one explicit triangle
func (s *Scene) AddTriangle(tri geometry.Triangle) {
	s.Triangles = append(s.Triangles, tri)
}

// Texture returns the texture at index, or nil when the index is -1
func (s *Scene) Texture(index int) *material.Texture {
	if index < 0 || index >= len(s.Textures) {
		return nil
	}
	return s.Textures[index]
}

// AddModel imports a mesh file and appends its triangles with the block's
// material attributes. A failed mesh load skips the model; a failed texture
// load keeps the model untextured. Both are logged, neither stops the scene.
func (s *Scene) AddModel(cfg ModelConfig) {
	mesh, err := loaders.LoadMesh(cfg.Path)
	if err != nil {
		s.logger.Warnf("skipping model: %v", err)
		return
	}

	textureIndex := -1
	if cfg.TexturePath != "" {
		img, err := loaders.LoadImage(cfg.TexturePath)
		if err != nil {
			s.logger.Warnf("model %s rendered untextured: %v", cfg.Path, err)
		} else {
			textureIndex = len(s.Textures)
			s.Textures = append(s.Textures, material.NewTexture(img.Width, img.Height, img.Pixels))
		}
	}

	color := core.NewVec3(1, 1, 1)
	if mesh.HasColor {
		color = mesh.BaseColor
	}
	if cfg.OverrideColor != nil {
		color = *cfg.OverrideColor
	}

	for _, mt := range mesh.Triangles {
		positions := [3]core.Vec3{
			mt.Positions[0].Add(cfg.Offset),
			mt.Positions[1].Add(cfg.Offset),
			mt.Positions[2].Add(cfg.Offset),
		}
		tri := geometry.NewMeshTriangle(positions, mt.Normals, mt.UVs, textureIndex)
		tri.Color = color
		tri.IsMetal = cfg.IsMetal
		tri.IsLightEmitting = cfg.IsLightEmitting
		tri.IsTransparent = cfg.IsTransparent
		tri.SpecularRoughness = cfg.SpecularRoughness
		tri.RefractiveIndex = cfg.RefractiveIndex
		s.Triangles = append(s.Triangles, tri)
	}

	s.logger.Infof("loaded model %s: %d triangles", cfg.Path, len(mesh.Triangles))
}

// LoadSkybox loads the six cubemap faces. If any face fails, the skybox is
// discarded entirely and the background color is used instead.
func (s *Scene) LoadSkybox(brightness float64, paths [material.FaceCount]string) {
	var faces [material.FaceCount]*material.Texture
	for i, path := range paths {
		img, err := loaders.LoadImage(path)
		if err != nil {
			s.logger.Warnf("skybox discarded: %v", err)
			return
		}
		faces[i] = material.NewTexture(img.Width, img.Height, img.Pixels)
	}
	s.Skybox = material.NewSkybox(brightness, faces)
}
