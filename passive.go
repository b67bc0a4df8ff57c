package orrery

import (
	"fmt"
	"slices"
)

// --- Clock ---

// Clock is a passive component that accumulates scaled time while running
// and not paused.
type Clock struct {
	time    float64
	scale   float64
	running bool
	paused  bool
}

// NewClock returns a stopped clock at time zero with unit time scale.
func NewClock() *Clock {
	return &Clock{scale: 1}
}

func (c *Clock) Name() string { return "Clock" }
func (c *Clock) Start()       { c.running = true }
func (c *Clock) Stop()        { c.running = false }

// Update advances the clock by dt times the time scale.
func (c *Clock) Update(dt float64) {
	if c.running && !c.paused {
		c.time += dt * c.scale
	}
}

func (c *Clock) Pause()                     { c.paused = true }
func (c *Clock) Resume()                    { c.paused = false }
func (c *Clock) Paused() bool               { return c.paused }
func (c *Clock) Running() bool              { return c.running }
func (c *Clock) Now() float64               { return c.time }
func (c *Clock) SetTime(t float64)          { c.time = t }
func (c *Clock) TimeScale() float64         { return c.scale }
func (c *Clock) SetTimeScale(scale float64) { c.scale = scale }

// SetProperty accepts time, time_scale and paused.
func (c *Clock) SetProperty(name string, v any) error {
	v = normalizeValue(v)
	switch name {
	case "time", "time_scale":
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("%w: clock %s wants number, got %T", ErrBadArgument, name, v)
		}
		if name == "time" {
			c.time = f
		} else {
			c.scale = f
		}
	case "paused":
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: clock paused wants bool, got %T", ErrBadArgument, v)
		}
		c.paused = b
	default:
		return fmt.Errorf("%w: Clock has no property %q", ErrUnknownProperty, name)
	}
	return nil
}

func clockFactory(params map[string]any) (Component, error) {
	c := NewClock()
	for k, v := range params {
		if err := c.SetProperty(k, v); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// --- Tags ---

// Tags is a passive component holding an ordered set of string labels.
type Tags struct {
	labels []string
}

// NewTags returns a Tags component holding the given labels.
func NewTags(labels ...string) *Tags {
	t := &Tags{}
	for _, l := range labels {
		t.Add(l)
	}
	return t
}

func (t *Tags) Name() string     { return "Tags" }
func (t *Tags) Start()           {}
func (t *Tags) Stop()            {}
func (t *Tags) Update(float64)   {}
func (t *Tags) Labels() []string { return slices.Clone(t.labels) }

// Has reports whether label is present.
func (t *Tags) Has(label string) bool { return slices.Contains(t.labels, label) }

// Add appends label unless it is already present.
func (t *Tags) Add(label string) {
	if !t.Has(label) {
		t.labels = append(t.labels, label)
	}
}

// Remove deletes label if present.
func (t *Tags) Remove(label string) {
	if i := slices.Index(t.labels, label); i >= 0 {
		t.labels = slices.Delete(t.labels, i, i+1)
	}
}

// SetProperty accepts "add" and "remove" with a string label.
func (t *Tags) SetProperty(name string, v any) error {
	label, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: tag wants string, got %T", ErrBadArgument, v)
	}
	switch name {
	case "add":
		t.Add(label)
	case "remove":
		t.Remove(label)
	default:
		return fmt.Errorf("%w: Tags has no property %q", ErrUnknownProperty, name)
	}
	return nil
}

func tagsFactory(params map[string]any) (Component, error) {
	t := NewTags()
	switch labels := params["labels"].(type) {
	case nil:
	case string:
		t.Add(labels)
	case []any:
		for _, l := range labels {
			s, ok := l.(string)
			if !ok {
				return nil, fmt.Errorf("%w: tag wants string, got %T", ErrBadArgument, l)
			}
			t.Add(s)
		}
	default:
		return nil, fmt.Errorf("%w: labels wants list of strings, got %T", ErrBadArgument, labels)
	}
	return t, nil
}
