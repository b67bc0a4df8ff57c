package orrery

// --- Planet ---

// Planet drives a planet object: clouds, atmosphere, terrain, grids, sea
// level, vegetation and live texture patches.
type Planet struct{ visual }

var planetDefaults = []propertyDefault{
	{PropCloudsIntensity, 0.0},
	{PropCloudSpeed, 1.0},
	{PropCloudDirection, 0.0},
	{PropCloudThickness, 0.5},
	{PropCloudRaininess, 0.0},
	{PropScatteringIntensity, 0.0},
	{PropWaterSpecularIntensity, 0.0},
	{PropWaterSpecularShininess, 32.0},
	{PropTerrainIntensity, 0.0},
	{PropTerrainModel, "DefaultTerrain"},
	{PropTerrainRenderingMode, "TOPOGRAPHY"},
	{PropElevationScale, 1.0},
	{PropEquatorialGridIntensity, 0.0},
	{PropEclipticGridIntensity, 0.0},
	{PropGalacticGridIntensity, 0.0},
	{PropSupergalacticGridIntensity, 0.0},
	{PropShadowStrength, 0.0},
	{PropShadowContrast, 0.0},
	{PropSeaLevel, 0.0},
	{PropSeaLevelRenderingMode, "NONE"},
	{PropTreeIntensity, 0.0},
	{PropTreeDensity, 1.0},
	{PropTreeMaxDistance, 1000.0},
	{PropLivePatchIntensity, 0.0},
	{PropLivePatchTexture, ""},
	{PropLivePatchBottomLeft, Vec3{0, 0, 0}},
	{PropLivePatchTopRight, Vec3{1, 1, 1}},
	{PropLivePatchRotation, 0.0},
	{PropLivePatchGamma, Vec3{1, 1, 1}},
	{PropLivePatchHSV, Vec3{1, 1, 1}},
	{PropLivePatchVibrance, 1.0},
	{PropLivePatchKeyColor, Vec3{1, 1, 1}},
}

// NewPlanet returns a Planet component bound to the named planet.
func NewPlanet(body string) *Planet {
	return &Planet{newVisual("Planet", KindPlanet, body, true, planetDefaults)}
}

// Body returns the planet name.
func (p *Planet) Body() string { return p.target }

func (p *Planet) SetCloudsIntensity(v float64) error     { return p.Set(PropCloudsIntensity, v) }
func (p *Planet) SetScatteringIntensity(v float64) error { return p.Set(PropScatteringIntensity, v) }
func (p *Planet) SetTerrainIntensity(v float64) error    { return p.Set(PropTerrainIntensity, v) }
func (p *Planet) SetTerrainRenderingMode(mode string) error {
	return p.Set(PropTerrainRenderingMode, mode)
}

// SetLivePatchBounds sets both corners of the live patch.
func (p *Planet) SetLivePatchBounds(bottomLeft, topRight Vec3) error {
	if err := p.Set(PropLivePatchBottomLeft, bottomLeft); err != nil {
		return err
	}
	return p.Set(PropLivePatchTopRight, topRight)
}

func planetFactory(params map[string]any) (Component, error) {
	body, err := stringParam(params, "body", "Earth")
	if err != nil {
		return nil, err
	}
	p := NewPlanet(body)
	return p, p.applyParams(params, "body")
}

// --- Sun ---

// Sun drives the sun: corona, photosphere, magnetic field, habitable zone,
// galactic band and zodiacal light layers.
type Sun struct{ visual }

var sunDefaults = []propertyDefault{
	{PropCoronaIntensity, 0.0},
	{PropPhotosphereIntensity, 0.0},
	{PropMagneticLinesIntensity, 0.0},
	{PropMagnetogramIntensity, 0.0},
	{PropHabitableZoneIntensity, 0.0},
	{PropHabitableZoneColor, Vec3{1, 1, 1}},
	{PropGalacticBandIntensity, 0.0},
	{PropGalacticGridIntensity, 0.0},
	{PropGalacticMarkLineIntensity, 0.0},
	{PropZodiacalLightIntensity, 0.0},
	{PropZodiacalLightScatteringIntensity, 0.0},
	{PropColor, Vec3{1, 1, 1}},
	{PropSaturationFactor, 1.0},
	{PropOpening, 0.0},
	{PropPointerIntensity, 0.0},
	{PropTrajectoryIntensity, 0.0},
	{PropHybridRatio, 0.0},
	{PropUseHybridRatio, false},
}

// NewSun returns a Sun component.
func NewSun() *Sun {
	return &Sun{newVisual("Sun", KindSun, "Sun", true, sunDefaults)}
}

func (s *Sun) SetCoronaIntensity(v float64) error      { return s.Set(PropCoronaIntensity, v) }
func (s *Sun) SetPhotosphereIntensity(v float64) error { return s.Set(PropPhotosphereIntensity, v) }
func (s *Sun) SetColor(c Vec3) error                   { return s.Set(PropColor, c) }

func sunFactory(params map[string]any) (Component, error) {
	s := NewSun()
	return s, s.applyParams(params)
}

// --- Constellation ---

// Constellation drives one constellation's stick figure, artwork, label and
// boundary layers.
type Constellation struct{ visual }

var constellationDefaults = []propertyDefault{
	{PropLinesIntensity, 1.0},
	{PropArtIntensity, 0.5},
	{PropLabelIntensity, 1.0},
	{PropBoundaryIntensity, 0.0},
	{PropPointerIntensity, 0.0},
	{PropTrajectoryIntensity, 0.0},
}

// NewConstellation returns a Constellation component for the given
// abbreviation (for example "UMa").
func NewConstellation(abbrev string) *Constellation {
	return &Constellation{newVisual("Constellation", KindConstellation, abbrev, false, constellationDefaults)}
}

// Abbrev returns the constellation abbreviation.
func (c *Constellation) Abbrev() string { return c.target }

func (c *Constellation) SetLinesIntensity(v float64) error    { return c.Set(PropLinesIntensity, v) }
func (c *Constellation) SetArtIntensity(v float64) error      { return c.Set(PropArtIntensity, v) }
func (c *Constellation) SetLabelIntensity(v float64) error    { return c.Set(PropLabelIntensity, v) }
func (c *Constellation) SetBoundaryIntensity(v float64) error { return c.Set(PropBoundaryIntensity, v) }

func (c *Constellation) TurnLinesOn() error       { return c.SetLinesIntensity(1) }
func (c *Constellation) TurnLinesOff() error      { return c.SetLinesIntensity(0) }
func (c *Constellation) TurnArtOn() error         { return c.SetArtIntensity(1) }
func (c *Constellation) TurnArtOff() error        { return c.SetArtIntensity(0) }
func (c *Constellation) TurnLabelsOn() error      { return c.SetLabelIntensity(1) }
func (c *Constellation) TurnLabelsOff() error     { return c.SetLabelIntensity(0) }
func (c *Constellation) TurnBoundariesOn() error  { return c.SetBoundaryIntensity(1) }
func (c *Constellation) TurnBoundariesOff() error { return c.SetBoundaryIntensity(0) }

// TurnAllOn sets every layer to full intensity.
func (c *Constellation) TurnAllOn() error { return c.setAll(1) }

// TurnAllOff hides every layer.
func (c *Constellation) TurnAllOff() error { return c.setAll(0) }

func (c *Constellation) setAll(v float64) error {
	for _, p := range []Property{PropLinesIntensity, PropArtIntensity, PropLabelIntensity, PropBoundaryIntensity} {
		if err := c.Set(p, v); err != nil {
			return err
		}
	}
	return nil
}

func constellationFactory(params map[string]any) (Component, error) {
	abbrev, err := stringParam(params, "constellation", "UMa")
	if err != nil {
		return nil, err
	}
	c := NewConstellation(abbrev)
	return c, c.applyParams(params, "constellation")
}

// --- Stars ---

// Stars drives a star catalogue layer.
type Stars struct{ visual }

var starsDefaults = []propertyDefault{
	{PropIntensity, 1.0},
	{PropExposure, 1.0},
	{PropContrast, 1.0},
	{PropTwinklingAmplitude, 0.0},
	{PropLabelIntensity, 0.0},
}

// NewStars returns a Stars component for the named catalogue.
func NewStars(catalog string) *Stars {
	return &Stars{newVisual("Stars", KindStars, catalog, false, starsDefaults)}
}

func (s *Stars) TurnOn() error  { return s.SetIntensity(1) }
func (s *Stars) TurnOff() error { return s.SetIntensity(0) }

func starsFactory(params map[string]any) (Component, error) {
	catalog, err := stringParam(params, "catalog", "Stars")
	if err != nil {
		return nil, err
	}
	s := NewStars(catalog)
	return s, s.applyParams(params, "catalog")
}

// --- Text ---

// Text drives an overlay text slot. Its position is screen placement and
// does not follow the node.
type Text struct{ visual }

// NewText returns a Text component showing s.
func NewText(s string) *Text {
	return &Text{newVisual("Text", KindText, "InsertText001", false, []propertyDefault{
		{PropText, s},
		{PropPosition, Vec3{0, 30, 0}},
		{PropSize, 0.05},
		{PropIntensity, 1.0},
	})}
}

// Text returns the displayed string.
func (t *Text) Text() string {
	s, _ := t.values[PropText].(string)
	return s
}

func (t *Text) SetText(s string) error   { return t.Set(PropText, s) }
func (t *Text) SetSize(v float64) error  { return t.Set(PropSize, v) }
func (t *Text) SetPosition(p Vec3) error { return t.Set(PropPosition, p) }

func textFactory(params map[string]any) (Component, error) {
	s, err := stringParam(params, "text", "Hello World")
	if err != nil {
		return nil, err
	}
	t := NewText(s)
	return t, t.applyParams(params, "text")
}

// --- Small bodies ---

// SmallBody drives an asteroid, comet or satellite.
type SmallBody struct{ visual }

var smallBodyDefaults = []propertyDefault{
	{PropOrbitIntensity, 0.0},
	{PropLabelIntensity, 0.0},
	{PropPointerIntensity, 0.0},
	{PropTrajectoryIntensity, 0.0},
}

// NewSmallBody returns a component for the named small body of the given
// kind. Comets also accept tail_intensity.
func NewSmallBody(kind ObjectKind, body string) *SmallBody {
	var extra []Property
	if kind == KindComet {
		extra = append(extra, PropTailIntensity)
	}
	return &SmallBody{newVisual(smallBodyName(kind), kind, body, true, smallBodyDefaults, extra...)}
}

func smallBodyName(kind ObjectKind) string {
	switch kind {
	case KindComet:
		return "Comet"
	case KindSatellite:
		return "Satellite"
	}
	return "Asteroid"
}

func (b *SmallBody) SetOrbitIntensity(v float64) error { return b.Set(PropOrbitIntensity, v) }

func smallBodyFactory(kind ObjectKind) ComponentFactory {
	return func(params map[string]any) (Component, error) {
		body, err := stringParam(params, "body", "")
		if err != nil {
			return nil, err
		}
		if body == "" {
			return nil, badArg("add_component", "%s needs a body parameter", smallBodyName(kind))
		}
		b := NewSmallBody(kind, body)
		return b, b.applyParams(params, "body")
	}
}
