// Package three writes meshes in the three.js JSON model format, both
// the ascii variant and the two-file binary variant.
package three

import "github.com/taigrr/obj2three/pkg/models"

// dbgPalette colors the DbgColor debug field of exported materials. The
// loader shows these when real materials are disabled, so neighbours
// should contrast; the palette cycles when a model has more materials.
var dbgPalette = []int{
	0xeeeeee,
	0xee0000,
	0x00ee00,
	0x0000ee,
	0xeeee00,
	0x00eeee,
	0xee00ee,
}

// MaterialJSON is one entry of the exported materials array. Field names
// follow the loader's expectations, not Go conventions.
type MaterialJSON struct {
	DbgColor int    `json:"DbgColor"`
	DbgIndex int    `json:"DbgIndex"`
	DbgName  string `json:"DbgName"`

	ColorAmbient  [3]float64 `json:"colorAmbient"`
	ColorDiffuse  [3]float64 `json:"colorDiffuse"`
	ColorSpecular [3]float64 `json:"colorSpecular"`

	Illumination   int     `json:"illumination"`
	OpticalDensity float64 `json:"opticalDensity"`
	SpecularCoef   float64 `json:"specularCoef"`

	// Transparency holds the opacity value; the name is historical and
	// the loader expects it.
	Transparency float64 `json:"transparency"`
	Transparent  bool    `json:"transparent"`

	MapDiffuse  string `json:"mapDiffuse,omitempty"`
	MapAmbient  string `json:"mapAmbient,omitempty"`
	MapSpecular string `json:"mapSpecular,omitempty"`
	MapBump     string `json:"mapBump,omitempty"`
	MapAlpha    string `json:"mapAlpha,omitempty"`

	VertexColors bool `json:"vertexColors"`
}

// BuildMaterials converts the mesh materials to their JSON form. When
// invert is set the dissolve values are treated as inverted (0 opaque,
// 1 fully transparent).
func BuildMaterials(mesh *models.Mesh, invert bool) []MaterialJSON {
	out := make([]MaterialJSON, 0, len(mesh.Materials))
	for i, mat := range mesh.Materials {
		opacity := mat.EffectiveOpacity(invert)
		out = append(out, MaterialJSON{
			DbgColor: dbgPalette[i%len(dbgPalette)],
			DbgIndex: i,
			DbgName:  mat.Name,

			ColorAmbient:  mat.Ambient,
			ColorDiffuse:  mat.Diffuse,
			ColorSpecular: mat.Specular,

			Illumination:   mat.Illum,
			OpticalDensity: mat.OpticalDensity,
			SpecularCoef:   mat.Shininess,

			Transparency: opacity,
			Transparent:  opacity < 1,

			MapDiffuse:  mat.DiffuseMap,
			MapAmbient:  mat.AmbientMap,
			MapSpecular: mat.SpecularMap,
			MapBump:     mat.BumpMap,
			MapAlpha:    mat.AlphaMap,
		})
	}
	return out
}
