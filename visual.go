package orrery

import (
	"errors"
	"fmt"
	"slices"
)

type propertyDefault struct {
	prop  Property
	value any
}

// visual is the shared core of components that drive an engine-side object.
// Property values are stored locally first and applied to the handle only
// when it is resolved and advertises the property, so setting a property
// before initialization or on an incapable handle is never an error.
type visual struct {
	name     string
	kind     ObjectKind
	target   string
	declared CapabilitySet
	values   map[Property]any
	follows  bool

	handle  Handle
	caps    CapabilitySet
	running bool
	err     error
}

func newVisual(name string, kind ObjectKind, target string, follows bool, defaults []propertyDefault, extra ...Property) visual {
	v := visual{
		name:    name,
		kind:    kind,
		target:  target,
		values:  make(map[Property]any, len(defaults)),
		follows: follows,
	}
	v.declared = Capabilities(PropIntensity)
	if follows {
		v.declared = v.declared.With(PropPosition).With(PropScale)
	}
	for _, d := range defaults {
		v.declared = v.declared.With(d.prop)
		v.values[d.prop] = d.value
	}
	for _, p := range extra {
		v.declared = v.declared.With(p)
	}
	return v
}

// Name returns the component name.
func (v *visual) Name() string { return v.name }

// Kind returns the class of engine object the component binds to.
func (v *visual) Kind() ObjectKind { return v.kind }

// Target returns the engine object name the component resolves.
func (v *visual) Target() string { return v.target }

// Start marks the component running.
func (v *visual) Start() { v.running = true }

// Stop marks the component stopped. The handle is kept.
func (v *visual) Stop() { v.running = false }

// Running reports whether the component is between Start and Stop.
func (v *visual) Running() bool { return v.running }

// Update is a no-op; engine objects animate themselves.
func (v *visual) Update(float64) {}

// Handle returns the resolved engine object, or nil before initialization.
func (v *visual) Handle() Handle { return v.handle }

// Capabilities returns the cached capability set of the handle.
func (v *visual) Capabilities() CapabilitySet { return v.caps }

// Declared returns the properties the component accepts.
func (v *visual) Declared() CapabilitySet { return v.declared }

// Err returns the last error from applying a followed transform.
func (v *visual) Err() error { return v.err }

// Initialize resolves the handle, caches its capabilities and applies every
// stored property value it supports.
func (v *visual) Initialize(ctx EngineContext) error {
	h, err := ctx.Resolve(v.kind, v.target)
	if err != nil {
		return fmt.Errorf("resolve %s %q: %w", v.kind, v.target, err)
	}
	v.handle = h
	v.caps = h.Capabilities()
	var errs []error
	for _, p := range v.declared.Properties() {
		if val, ok := v.values[p]; ok {
			if err := v.apply(p, val); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Set stores a property value and applies it to the handle when possible.
func (v *visual) Set(p Property, val any) error {
	if !v.declared.Has(p) {
		return fmt.Errorf("%w: %s has no property %s", ErrUnknownProperty, v.name, p)
	}
	val, err := p.coerce(val)
	if err != nil {
		return err
	}
	v.values[p] = val
	return v.apply(p, val)
}

// Get returns the stored value of p.
func (v *visual) Get(p Property) (any, bool) {
	val, ok := v.values[p]
	return val, ok
}

// Float returns the stored value of a number property, or 0.
func (v *visual) Float(p Property) float64 {
	f, _ := v.values[p].(float64)
	return f
}

// SetProperty sets a property by its snake_case name.
func (v *visual) SetProperty(name string, val any) error {
	p, ok := PropertyByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	return v.Set(p, val)
}

// SetIntensity sets the overall intensity.
func (v *visual) SetIntensity(i float64) error { return v.Set(PropIntensity, i) }

// FollowTransform relays the world position and average world scale.
func (v *visual) FollowTransform(world Transform) {
	if !v.follows {
		return
	}
	v.values[PropPosition] = world.Position
	v.values[PropScale] = world.AverageScale()
	v.err = errors.Join(
		v.apply(PropPosition, world.Position),
		v.apply(PropScale, world.AverageScale()),
	)
}

func (v *visual) apply(p Property, val any) error {
	if v.handle == nil || !v.caps.Has(p) {
		return nil
	}
	if err := v.handle.Apply(p, val); err != nil {
		return fmt.Errorf("%s: apply %s: %w", v.name, p, err)
	}
	return nil
}

// applyParams sets every parameter except the skipped ones as a property.
func (v *visual) applyParams(params map[string]any, skip ...string) error {
	for k, val := range params {
		if slices.Contains(skip, k) {
			continue
		}
		if err := v.SetProperty(k, val); err != nil {
			return err
		}
	}
	return nil
}

// stringParam reads a string parameter with a fallback.
func stringParam(params map[string]any, key, fallback string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: parameter %q wants string, got %T", ErrBadArgument, key, raw)
	}
	return s, nil
}
