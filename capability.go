package orrery

import (
	"fmt"
	"math/bits"
	"strings"
)

// Property names one settable attribute of an engine object. Components
// store property values locally and forward them to their handle when the
// handle advertises the property in its CapabilitySet.
type Property uint8

const (
	propInvalid Property = iota

	// Shared by most visual kinds.
	PropPosition
	PropScale
	PropIntensity
	PropColor
	PropPointerIntensity
	PropTrajectoryIntensity
	PropLabelIntensity

	// Planet.
	PropCloudsIntensity
	PropCloudSpeed
	PropCloudDirection
	PropCloudThickness
	PropCloudRaininess
	PropScatteringIntensity
	PropWaterSpecularIntensity
	PropWaterSpecularShininess
	PropTerrainIntensity
	PropTerrainModel
	PropTerrainRenderingMode
	PropElevationScale
	PropEquatorialGridIntensity
	PropEclipticGridIntensity
	PropGalacticGridIntensity
	PropSupergalacticGridIntensity
	PropShadowStrength
	PropShadowContrast
	PropSeaLevel
	PropSeaLevelRenderingMode
	PropTreeIntensity
	PropTreeDensity
	PropTreeMaxDistance
	PropLivePatchIntensity
	PropLivePatchTexture
	PropLivePatchBottomLeft
	PropLivePatchTopRight
	PropLivePatchRotation
	PropLivePatchGamma
	PropLivePatchHSV
	PropLivePatchVibrance
	PropLivePatchKeyColor

	// Sun.
	PropCoronaIntensity
	PropPhotosphereIntensity
	PropMagneticLinesIntensity
	PropMagnetogramIntensity
	PropHabitableZoneIntensity
	PropHabitableZoneColor
	PropGalacticBandIntensity
	PropGalacticMarkLineIntensity
	PropZodiacalLightIntensity
	PropZodiacalLightScatteringIntensity
	PropSaturationFactor
	PropOpening
	PropHybridRatio
	PropUseHybridRatio

	// Constellation.
	PropLinesIntensity
	PropArtIntensity
	PropBoundaryIntensity

	// Stars.
	PropExposure
	PropContrast
	PropTwinklingAmplitude

	// Small bodies.
	PropOrbitIntensity
	PropTailIntensity

	// Text.
	PropText
	PropSize

	// Camera.
	PropCameraPosition
	PropCameraPositionLBR
	PropCameraRotation
	PropCameraDistance
	PropCameraFOV
	PropCameraFocus
	PropCameraTarget

	numProperties
)

// ValueKind is the value type a property accepts.
type ValueKind uint8

const (
	ValueFloat ValueKind = iota
	ValueString
	ValueVec
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueFloat:
		return "number"
	case ValueString:
		return "string"
	case ValueVec:
		return "vec3"
	case ValueBool:
		return "bool"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

type propertyInfo struct {
	name string
	kind ValueKind
}

var propertyTable = [numProperties]propertyInfo{
	PropPosition:            {"position", ValueVec},
	PropScale:               {"scale", ValueFloat},
	PropIntensity:           {"intensity", ValueFloat},
	PropColor:               {"color", ValueVec},
	PropPointerIntensity:    {"pointer_intensity", ValueFloat},
	PropTrajectoryIntensity: {"trajectory_intensity", ValueFloat},
	PropLabelIntensity:      {"label_intensity", ValueFloat},

	PropCloudsIntensity:            {"clouds_intensity", ValueFloat},
	PropCloudSpeed:                 {"cloud_speed", ValueFloat},
	PropCloudDirection:             {"cloud_direction", ValueFloat},
	PropCloudThickness:             {"cloud_thickness", ValueFloat},
	PropCloudRaininess:             {"cloud_raininess", ValueFloat},
	PropScatteringIntensity:        {"scattering_intensity", ValueFloat},
	PropWaterSpecularIntensity:     {"water_specular_intensity", ValueFloat},
	PropWaterSpecularShininess:     {"water_specular_shininess", ValueFloat},
	PropTerrainIntensity:           {"terrain_intensity", ValueFloat},
	PropTerrainModel:               {"terrain_model", ValueString},
	PropTerrainRenderingMode:       {"terrain_rendering_mode", ValueString},
	PropElevationScale:             {"elevation_scale", ValueFloat},
	PropEquatorialGridIntensity:    {"equatorial_grid_intensity", ValueFloat},
	PropEclipticGridIntensity:      {"ecliptic_grid_intensity", ValueFloat},
	PropGalacticGridIntensity:      {"galactic_grid_intensity", ValueFloat},
	PropSupergalacticGridIntensity: {"supergalactic_grid_intensity", ValueFloat},
	PropShadowStrength:             {"shadow_strength", ValueFloat},
	PropShadowContrast:             {"shadow_contrast", ValueFloat},
	PropSeaLevel:                   {"sea_level", ValueFloat},
	PropSeaLevelRenderingMode:      {"sea_level_rendering_mode", ValueString},
	PropTreeIntensity:              {"tree_intensity", ValueFloat},
	PropTreeDensity:                {"tree_density", ValueFloat},
	PropTreeMaxDistance:            {"tree_max_distance", ValueFloat},
	PropLivePatchIntensity:         {"live_patch_intensity", ValueFloat},
	PropLivePatchTexture:           {"live_patch_texture", ValueString},
	PropLivePatchBottomLeft:        {"live_patch_bottom_left", ValueVec},
	PropLivePatchTopRight:          {"live_patch_top_right", ValueVec},
	PropLivePatchRotation:          {"live_patch_rotation", ValueFloat},
	PropLivePatchGamma:             {"live_patch_gamma", ValueVec},
	PropLivePatchHSV:               {"live_patch_hsv", ValueVec},
	PropLivePatchVibrance:          {"live_patch_vibrance", ValueFloat},
	PropLivePatchKeyColor:          {"live_patch_key_color", ValueVec},

	PropCoronaIntensity:                  {"corona_intensity", ValueFloat},
	PropPhotosphereIntensity:             {"photosphere_intensity", ValueFloat},
	PropMagneticLinesIntensity:           {"magnetic_lines_intensity", ValueFloat},
	PropMagnetogramIntensity:             {"magnetogram_intensity", ValueFloat},
	PropHabitableZoneIntensity:           {"habitable_zone_intensity", ValueFloat},
	PropHabitableZoneColor:               {"habitable_zone_color", ValueVec},
	PropGalacticBandIntensity:            {"galactic_band_intensity", ValueFloat},
	PropGalacticMarkLineIntensity:        {"galactic_mark_line_intensity", ValueFloat},
	PropZodiacalLightIntensity:           {"zodiacal_light_intensity", ValueFloat},
	PropZodiacalLightScatteringIntensity: {"zodiacal_light_scattering_intensity", ValueFloat},
	PropSaturationFactor:                 {"saturation_factor", ValueFloat},
	PropOpening:                          {"opening", ValueFloat},
	PropHybridRatio:                      {"hybrid_ratio", ValueFloat},
	PropUseHybridRatio:                   {"use_hybrid_ratio", ValueBool},

	PropLinesIntensity:    {"lines_intensity", ValueFloat},
	PropArtIntensity:      {"art_intensity", ValueFloat},
	PropBoundaryIntensity: {"boundary_intensity", ValueFloat},

	PropExposure:           {"exposure", ValueFloat},
	PropContrast:           {"contrast", ValueFloat},
	PropTwinklingAmplitude: {"twinkling_amplitude", ValueFloat},

	PropOrbitIntensity: {"orbit_intensity", ValueFloat},
	PropTailIntensity:  {"tail_intensity", ValueFloat},

	PropText: {"text", ValueString},
	PropSize: {"size", ValueFloat},

	PropCameraPosition:    {"camera_position", ValueVec},
	PropCameraPositionLBR: {"camera_position_lbr", ValueVec},
	PropCameraRotation:    {"camera_rotation", ValueVec},
	PropCameraDistance:    {"camera_distance", ValueFloat},
	PropCameraFOV:         {"camera_fov", ValueFloat},
	PropCameraFocus:       {"camera_focus", ValueFloat},
	PropCameraTarget:      {"camera_target", ValueVec},
}

var propertyByName = func() map[string]Property {
	m := make(map[string]Property, numProperties)
	for p := PropPosition; p < numProperties; p++ {
		m[propertyTable[p].name] = p
	}
	return m
}()

// PropertyByName looks a property up by its snake_case name.
func PropertyByName(name string) (Property, bool) {
	p, ok := propertyByName[name]
	return p, ok
}

func (p Property) String() string {
	if p == propInvalid || p >= numProperties {
		return fmt.Sprintf("Property(%d)", uint8(p))
	}
	return propertyTable[p].name
}

// Kind returns the value type the property accepts.
func (p Property) Kind() ValueKind {
	if p >= numProperties {
		return ValueFloat
	}
	return propertyTable[p].kind
}

// coerce normalizes v and checks it against the property's value kind.
func (p Property) coerce(v any) (any, error) {
	v = normalizeValue(v)
	var ok bool
	switch p.Kind() {
	case ValueFloat:
		_, ok = v.(float64)
	case ValueString:
		_, ok = v.(string)
	case ValueVec:
		_, ok = v.(Vec3)
	case ValueBool:
		_, ok = v.(bool)
	}
	if !ok {
		return nil, fmt.Errorf("%w: property %s wants %s, got %T", ErrBadArgument, p, p.Kind(), v)
	}
	return v, nil
}

// --- CapabilitySet ---

// CapabilitySet is the set of properties an engine object accepts. It is
// probed once when a handle is resolved and cached by the component.
type CapabilitySet [2]uint64

// Capabilities builds a set from the given properties.
func Capabilities(props ...Property) CapabilitySet {
	var s CapabilitySet
	for _, p := range props {
		s = s.With(p)
	}
	return s
}

// Has reports whether p is in the set.
func (s CapabilitySet) Has(p Property) bool {
	return s[p/64]&(1<<(p%64)) != 0
}

// With returns s with p added.
func (s CapabilitySet) With(p Property) CapabilitySet {
	s[p/64] |= 1 << (p % 64)
	return s
}

// Without returns s with p removed.
func (s CapabilitySet) Without(p Property) CapabilitySet {
	s[p/64] &^= 1 << (p % 64)
	return s
}

// Union returns the properties present in either set.
func (s CapabilitySet) Union(o CapabilitySet) CapabilitySet {
	return CapabilitySet{s[0] | o[0], s[1] | o[1]}
}

// Len returns the number of properties in the set.
func (s CapabilitySet) Len() int {
	return bits.OnesCount64(s[0]) + bits.OnesCount64(s[1])
}

// Properties lists the set in ascending order.
func (s CapabilitySet) Properties() []Property {
	out := make([]Property, 0, s.Len())
	for p := PropPosition; p < numProperties; p++ {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s CapabilitySet) String() string {
	props := s.Properties()
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.String()
	}
	return "{" + strings.Join(names, " ") + "}"
}

// --- Engine collaborator ---

// Handle is an engine-side object a component drives. Apply is only called
// for properties present in Capabilities.
type Handle interface {
	Capabilities() CapabilitySet
	Apply(p Property, v any) error
}

// EngineContext resolves engine-side objects for components and the camera.
type EngineContext interface {
	ResolveCamera() (Handle, error)
	Resolve(kind ObjectKind, name string) (Handle, error)
}
