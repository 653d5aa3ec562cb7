package loaders

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"pathtracer/pkg/core"
)

// MeshTriangle is one imported triangle: three vertex positions with their
// normals and texture coordinates. Normals may be zero when the source mesh
// carries none; UVs are meaningful only when the mesh has texture
// coordinates.
type MeshTriangle struct {
	Positions [3]core.Vec3
	Normals   [3]core.Vec3
	UVs       [3]core.Vec2
}

// MeshData is the result of importing one model file
type MeshData struct {
	Triangles []MeshTriangle
	BaseColor core.Vec3 // Diffuse color from the first material
	HasColor  bool
}

// LoadMesh imports every triangle primitive of a glTF or GLB file. Vertex
// positions, normals, and the first uv set are read per primitive; the v
// coordinate is flipped to the bottom-origin convention used by textures.
func LoadMesh(path string) (*MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mesh %s: %w", path, err)
	}

	data := &MeshData{}
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			// Mode 0 is what an absent mode field decodes to; the glTF
			// default is triangles
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}
			if err := readPrimitive(doc, prim, data); err != nil {
				return nil, fmt.Errorf("mesh %s: %w", path, err)
			}
		}
	}

	if len(data.Triangles) == 0 {
		return nil, fmt.Errorf("mesh %s contains no triangles", path)
	}
	return data, nil
}

// readPrimitive appends one primitive's triangles to data
func readPrimitive(doc *gltf.Document, prim *gltf.Primitive, data *MeshData) error {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("uvs: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		var tri MeshTriangle
		for k := 0; k < 3; k++ {
			vi := indices[i+k]
			p := positions[vi]
			tri.Positions[k] = core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))
			if int(vi) < len(normals) {
				n := normals[vi]
				tri.Normals[k] = core.NewVec3(float64(n[0]), float64(n[1]), float64(n[2]))
			}
			if int(vi) < len(uvs) {
				// glTF uv origin is top-left; flip v to bottom-origin
				tri.UVs[k] = core.NewVec2(float64(uvs[vi][0]), 1-float64(uvs[vi][1]))
			}
		}
		data.Triangles = append(data.Triangles, tri)
	}

	if !data.HasColor && prim.Material != nil {
		if pbr := doc.Materials[*prim.Material].PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			data.BaseColor = core.NewVec3(cf[0], cf[1], cf[2])
			data.HasColor = true
		}
	}
	return nil
}
