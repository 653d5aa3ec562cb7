package scene

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"pathtracer/pkg/core"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

const configPrefix = `
frame 320 240
camera 0 1 5  0 1 0  50 0
background_color 0.2 0.4 0.6
max_recursion_depth 4
diffuse_ray_number 10
specular_ray_number 5
`

func TestParseConfigMinimal(t *testing.T) {
	s, err := ParseConfig(strings.NewReader(configPrefix+"render_num 3\n"), testLogger())
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if s.Width != 320 || s.Height != 240 {
		t.Errorf("frame = %dx%d", s.Width, s.Height)
	}
	if s.CameraOrigin != core.NewVec3(0, 1, 5) || s.CameraLookAt != core.NewVec3(0, 1, 0) {
		t.Errorf("camera = %v -> %v", s.CameraOrigin, s.CameraLookAt)
	}
	if s.FocalLength != 50 || s.RotateAngle != 0 {
		t.Errorf("focal/rotate = %v/%v", s.FocalLength, s.RotateAngle)
	}
	if s.BackgroundColor != core.NewVec3(0.2, 0.4, 0.6) {
		t.Errorf("background = %v", s.BackgroundColor)
	}
	if s.MaxDepth != 4 || s.DiffuseRayNum != 10 || s.SpecularRayNum != 5 {
		t.Errorf("sampling = %d/%d/%d", s.MaxDepth, s.DiffuseRayNum, s.SpecularRayNum)
	}
	if s.FrameCount != 3 {
		t.Errorf("render_num = %d", s.FrameCount)
	}
	if len(s.Triangles) != 0 {
		t.Errorf("unexpected triangles: %d", len(s.Triangles))
	}
}

func TestParseConfigTriangleBlock(t *testing.T) {
	config := configPrefix + `
triangle_start
vertex_0 0 0 0
vertex_1 1 0 0
vertex_2 0 1 0
normal_side 0 0 1
color 1 0.5 0.25
is_metal 0
is_light_emitting 1
is_transparent 0
specular_roughness 0.3
refractive_index 1.5
triangle_end
render_num 1
`
	s, err := ParseConfig(strings.NewReader(config), testLogger())
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if len(s.Triangles) != 1 {
		t.Fatalf("triangles = %d, want 1", len(s.Triangles))
	}

	tri := s.Triangles[0]
	if tri.Color != core.NewVec3(1, 0.5, 0.25) {
		t.Errorf("color = %v", tri.Color)
	}
	if tri.IsMetal || !tri.IsLightEmitting || tri.IsTransparent {
		t.Errorf("flags = %v/%v/%v", tri.IsMetal, tri.IsLightEmitting, tri.IsTransparent)
	}
	if tri.SpecularRoughness != 0.3 || tri.RefractiveIndex != 1.5 {
		t.Errorf("roughness/index = %v/%v", tri.SpecularRoughness, tri.RefractiveIndex)
	}
	if tri.PlaneNormal.Z <= 0 {
		t.Errorf("plane normal %v not oriented to the hint", tri.PlaneNormal)
	}
	if tri.TextureIndex != -1 {
		t.Errorf("explicit triangle has texture index %d", tri.TextureIndex)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantKey string
	}{
		{"empty input", "", "frame"},
		{"wrong first key", "camera 0 0 0 0 0 0 50 0", "frame"},
		{"out of order prefix", "frame 100 100\nbackground_color 0 0 0", "camera"},
		{"bad number", "frame 100 nope", "frame"},
		{"zero depth", configPrefix2("max_recursion_depth 0"), "max_recursion_depth"},
		{"zero diffuse rays", configPrefix3("diffuse_ray_number 0"), "diffuse_ray_number"},
		{"missing render_num", configPrefix, "render_num"},
		{"unknown block", configPrefix + "sphere_start", "sphere_start"},
		{"triangle key out of order", configPrefix + "triangle_start vertex_1 0 0 0", "vertex_0"},
		{"model missing texture_path", configPrefix + "model_start model_path a.glb position_offset 0 0 0", "texture_path"},
	}

	for _, tt := range tests {
		_, err := ParseConfig(strings.NewReader(tt.config), testLogger())
		if err == nil {
			t.Errorf("%s: expected an error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantKey) {
			t.Errorf("%s: error %q does not name key %q", tt.name, err, tt.wantKey)
		}
	}
}

// configPrefix2 rebuilds the prefix with a replacement max_recursion_depth line
func configPrefix2(depth string) string {
	return strings.Replace(configPrefix, "max_recursion_depth 4", depth, 1)
}

// configPrefix3 rebuilds the prefix with a replacement diffuse_ray_number line
func configPrefix3(diffuse string) string {
	return strings.Replace(configPrefix, "diffuse_ray_number 10", diffuse, 1)
}

func TestParseConfigStopsAtRenderNum(t *testing.T) {
	config := configPrefix + "render_num 2\ntrailing garbage ignored\n"
	s, err := ParseConfig(strings.NewReader(config), testLogger())
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if s.FrameCount != 2 {
		t.Errorf("render_num = %d", s.FrameCount)
	}
}

func TestParseConfigMissingModelLoggedNotFatal(t *testing.T) {
	config := configPrefix + `
model_start
model_path does-not-exist.glb
texture_path no
position_offset 0 0 0
is_metal 0
is_light_emitting 0
is_transparent 0
specular_roughness 1
refractive_index 1.5
model_end
render_num 1
`
	s, err := ParseConfig(strings.NewReader(config), testLogger())
	if err != nil {
		t.Fatalf("a missing model file must not fail the parse: %v", err)
	}
	if len(s.Triangles) != 0 {
		t.Errorf("triangles = %d, want 0", len(s.Triangles))
	}
}
