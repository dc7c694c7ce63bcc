package models

// Material holds the subset of MTL properties the converter exports.
// Colors are RGB in the 0-1 range.
type Material struct {
	Name string

	Ambient  [3]float64 // Ka
	Diffuse  [3]float64 // Kd
	Specular [3]float64 // Ks

	Shininess      float64 // Ns
	OpticalDensity float64 // Ni
	Opacity        float64 // d (Tr stores the complement)
	Illum          int     // illum

	DiffuseMap  string // map_Kd
	AmbientMap  string // map_Ka
	SpecularMap string // map_Ks
	BumpMap     string // map_Bump / bump
	AlphaMap    string // map_d
}

// NewMaterial returns a material with the conventional MTL defaults:
// mid-gray diffuse, fully opaque, color-on illumination.
func NewMaterial(name string) Material {
	return Material{
		Name:           name,
		Diffuse:        [3]float64{0.8, 0.8, 0.8},
		OpticalDensity: 1,
		Opacity:        1,
		Illum:          1,
	}
}

// EffectiveOpacity returns the opacity with the optional inversion
// applied; some exporters write dissolve with the opposite meaning
// (0.0 opaque, 1.0 transparent).
func (m *Material) EffectiveOpacity(invert bool) float64 {
	if invert {
		return 1 - m.Opacity
	}
	return m.Opacity
}
