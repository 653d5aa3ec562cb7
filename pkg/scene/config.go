package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"pathtracer/pkg/core"
	"pathtracer/pkg/geometry"
	"pathtracer/pkg/material"
)

// LoadConfig parses a scene description file and assembles the scene,
// loading any referenced models, textures, and skybox faces
func LoadConfig(path string, logger *zap.SugaredLogger) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return ParseConfig(file, logger)
}

// parser tokenizes a config stream into whitespace-separated words
type parser struct {
	scanner *bufio.Scanner
}

func (p *parser) next() (string, bool) {
	if !p.scanner.Scan() {
		return "", false
	}
	return p.scanner.Text(), true
}

// expect consumes the next token and fails unless it equals key
func (p *parser) expect(key string) error {
	tok, ok := p.next()
	if !ok {
		return fmt.Errorf("config ended while expecting key %q", key)
	}
	if tok != key {
		return fmt.Errorf("expected key %q, found %q", key, tok)
	}
	return nil
}

// word reads one value token for the named key
func (p *parser) word(key string) (string, error) {
	tok, ok := p.next()
	if !ok {
		return "", fmt.Errorf("config ended while reading value for %q", key)
	}
	return tok, nil
}

func (p *parser) float(key string) (float64, error) {
	tok, err := p.word(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("key %q: invalid number %q", key, tok)
	}
	return value, nil
}

func (p *parser) integer(key string) (int, error) {
	tok, err := p.word(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("key %q: invalid integer %q", key, tok)
	}
	return value, nil
}

func (p *parser) vec3(key string) (core.Vec3, error) {
	var values [3]float64
	for i := range values {
		v, err := p.float(key)
		if err != nil {
			return core.Vec3{}, err
		}
		values[i] = v
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

// boolean reads a 0|1 value
func (p *parser) boolean(key string) (bool, error) {
	tok, err := p.word(key)
	if err != nil {
		return false, err
	}
	switch tok {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("key %q: expected 0 or 1, found %q", key, tok)
}

// keyedVec3 consumes "key x y z"
func (p *parser) keyedVec3(key string) (core.Vec3, error) {
	if err := p.expect(key); err != nil {
		return core.Vec3{}, err
	}
	return p.vec3(key)
}

// ParseConfig reads the whitespace-separated key/value stream. The fixed
// prefix keys must appear in order, then skybox/model/triangle blocks in any
// order until render_num terminates the stream. Any missing or out-of-order
// key is a fatal error naming the offending key.
func ParseConfig(r io.Reader, logger *zap.SugaredLogger) (*Scene, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	p := &parser{scanner: scanner}
	s := NewScene(logger)

	if err := p.expect("frame"); err != nil {
		return nil, err
	}
	var err error
	if s.Width, err = p.integer("frame"); err != nil {
		return nil, err
	}
	if s.Height, err = p.integer("frame"); err != nil {
		return nil, err
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("key %q: dimensions must be positive, got %dx%d", "frame", s.Width, s.Height)
	}

	if err = p.expect("camera"); err != nil {
		return nil, err
	}
	if s.CameraOrigin, err = p.vec3("camera"); err != nil {
		return nil, err
	}
	if s.CameraLookAt, err = p.vec3("camera"); err != nil {
		return nil, err
	}
	if s.FocalLength, err = p.float("camera"); err != nil {
		return nil, err
	}
	if s.RotateAngle, err = p.float("camera"); err != nil {
		return nil, err
	}

	if err = p.expect("background_color"); err != nil {
		return nil, err
	}
	if s.BackgroundColor, err = p.vec3("background_color"); err != nil {
		return nil, err
	}

	if s.MaxDepth, err = p.requiredCount("max_recursion_depth"); err != nil {
		return nil, err
	}
	if s.DiffuseRayNum, err = p.requiredCount("diffuse_ray_number"); err != nil {
		return nil, err
	}
	if s.SpecularRayNum, err = p.requiredCount("specular_ray_number"); err != nil {
		return nil, err
	}

	for {
		key, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("config ended without %q", "render_num")
		}

		switch key {
		case "skybox":
			if err := p.parseSkybox(s); err != nil {
				return nil, err
			}
		case "model_start":
			if err := p.parseModel(s); err != nil {
				return nil, err
			}
		case "triangle_start":
			if err := p.parseTriangle(s); err != nil {
				return nil, err
			}
		case "render_num":
			n, err := p.integer("render_num")
			if err != nil {
				return nil, err
			}
			if n < 1 {
				return nil, fmt.Errorf("key %q: must be >= 1, got %d", "render_num", n)
			}
			s.FrameCount = n
			return s, nil
		default:
			return nil, fmt.Errorf("unknown key %q", key)
		}
	}
}

// requiredCount consumes "key n" with n >= 1
func (p *parser) requiredCount(key string) (int, error) {
	if err := p.expect(key); err != nil {
		return 0, err
	}
	n, err := p.integer(key)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("key %q: must be >= 1, got %d", key, n)
	}
	return n, nil
}

// parseSkybox consumes "brightness front back left right top bottom"
func (p *parser) parseSkybox(s *Scene) error {
	brightness, err := p.float("skybox")
	if err != nil {
		return err
	}
	var paths [material.FaceCount]string
	for i := range paths {
		if paths[i], err = p.word("skybox"); err != nil {
			return err
		}
	}
	s.LoadSkybox(brightness, paths)
	return nil
}

// parseModel consumes a model_start..model_end block
func (p *parser) parseModel(s *Scene) error {
	var cfg ModelConfig
	var err error

	if err = p.expect("model_path"); err != nil {
		return err
	}
	if cfg.Path, err = p.word("model_path"); err != nil {
		return err
	}

	if err = p.expect("texture_path"); err != nil {
		return err
	}
	texturePath, err := p.word("texture_path")
	if err != nil {
		return err
	}
	if texturePath != "no" {
		cfg.TexturePath = texturePath
	}

	if cfg.Offset, err = p.keyedVec3("position_offset"); err != nil {
		return err
	}

	if err = p.expect("is_metal"); err != nil {
		return err
	}
	if cfg.IsMetal, err = p.boolean("is_metal"); err != nil {
		return err
	}
	if err = p.expect("is_light_emitting"); err != nil {
		return err
	}
	if cfg.IsLightEmitting, err = p.boolean("is_light_emitting"); err != nil {
		return err
	}
	if err = p.expect("is_transparent"); err != nil {
		return err
	}
	if cfg.IsTransparent, err = p.boolean("is_transparent"); err != nil {
		return err
	}

	if err = p.expect("specular_roughness"); err != nil {
		return err
	}
	if cfg.SpecularRoughness, err = p.float("specular_roughness"); err != nil {
		return err
	}
	if err = p.expect("refractive_index"); err != nil {
		return err
	}
	if cfg.RefractiveIndex, err = p.float("refractive_index"); err != nil {
		return err
	}

	// Optional override_color before model_end
	key, ok := p.next()
	if !ok {
		return fmt.Errorf("config ended while expecting key %q", "model_end")
	}
	switch key {
	case "override_color":
		color, err := p.vec3("override_color")
		if err != nil {
			return err
		}
		cfg.OverrideColor = &color
		if err := p.expect("model_end"); err != nil {
			return err
		}
	case "model_end":
	default:
		return fmt.Errorf("expected key %q or %q, found %q", "override_color", "model_end", key)
	}

	s.AddModel(cfg)
	return nil
}

// parseTriangle consumes a triangle_start..triangle_end block
func (p *parser) parseTriangle(s *Scene) error {
	v0, err := p.keyedVec3("vertex_0")
	if err != nil {
		return err
	}
	v1, err := p.keyedVec3("vertex_1")
	if err != nil {
		return err
	}
	v2, err := p.keyedVec3("vertex_2")
	if err != nil {
		return err
	}
	normalSide, err := p.keyedVec3("normal_side")
	if err != nil {
		return err
	}
	color, err := p.keyedVec3("color")
	if err != nil {
		return err
	}

	tri := geometry.NewTriangle(v0, v1, v2, normalSide)
	tri.Color = color

	if err = p.expect("is_metal"); err != nil {
		return err
	}
	if tri.IsMetal, err = p.boolean("is_metal"); err != nil {
		return err
	}
	if err = p.expect("is_light_emitting"); err != nil {
		return err
	}
	if tri.IsLightEmitting, err = p.boolean("is_light_emitting"); err != nil {
		return err
	}
	if err = p.expect("is_transparent"); err != nil {
		return err
	}
	if tri.IsTransparent, err = p.boolean("is_transparent"); err != nil {
		return err
	}

	if err = p.expect("specular_roughness"); err != nil {
		return err
	}
	if tri.SpecularRoughness, err = p.float("specular_roughness"); err != nil {
		return err
	}
	if err = p.expect("refractive_index"); err != nil {
		return err
	}
	if tri.RefractiveIndex, err = p.float("refractive_index"); err != nil {
		return err
	}

	if err = p.expect("triangle_end"); err != nil {
		return err
	}

	s.AddTriangle(tri)
	return nil
}
