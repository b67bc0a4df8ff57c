package orrery

import (
	"fmt"
	"maps"
	"sync"
)

// AllCapabilities accepts every property.
var AllCapabilities = func() CapabilitySet {
	var s CapabilitySet
	for p := PropPosition; p < numProperties; p++ {
		s = s.With(p)
	}
	return s
}()

// CameraCapabilities is the property set of a fully capable camera.
var CameraCapabilities = Capabilities(
	PropCameraPosition, PropCameraPositionLBR, PropCameraRotation,
	PropCameraDistance, PropCameraFOV, PropCameraFocus, PropCameraTarget,
)

// AppliedValue is one entry of a MemoryHandle's history.
type AppliedValue struct {
	Property Property
	Value    any
}

// MemoryHandle is an in-process engine object. It keeps the last value of
// every applied property and the full apply history.
type MemoryHandle struct {
	mu      sync.Mutex
	kind    ObjectKind
	name    string
	caps    CapabilitySet
	values  map[Property]any
	history []AppliedValue
	fail    map[Property]error
}

func newMemoryHandle(kind ObjectKind, name string, caps CapabilitySet) *MemoryHandle {
	return &MemoryHandle{
		kind:   kind,
		name:   name,
		caps:   caps,
		values: make(map[Property]any),
	}
}

// Kind returns the object class the handle was resolved for.
func (h *MemoryHandle) Kind() ObjectKind { return h.kind }

// Name returns the object name the handle was resolved for.
func (h *MemoryHandle) Name() string { return h.name }

// Capabilities implements Handle.
func (h *MemoryHandle) Capabilities() CapabilitySet { return h.caps }

// Apply implements Handle.
func (h *MemoryHandle) Apply(p Property, v any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.caps.Has(p) {
		return fmt.Errorf("%s %q does not accept %s", h.kind, h.name, p)
	}
	if err := h.fail[p]; err != nil {
		return err
	}
	h.values[p] = v
	h.history = append(h.history, AppliedValue{Property: p, Value: v})
	return nil
}

// Value returns the last applied value of p.
func (h *MemoryHandle) Value(p Property) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.values[p]
	return v, ok
}

// Values returns a copy of the last applied value of every property.
func (h *MemoryHandle) Values() map[Property]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return maps.Clone(h.values)
}

// History returns every apply in order.
func (h *MemoryHandle) History() []AppliedValue {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]AppliedValue, len(h.history))
	copy(out, h.history)
	return out
}

// FailOn makes every later Apply of p return err. A nil err clears it.
func (h *MemoryHandle) FailOn(p Property, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fail == nil {
		h.fail = make(map[Property]error)
	}
	if err == nil {
		delete(h.fail, p)
		return
	}
	h.fail[p] = err
}

type handleKey struct {
	kind ObjectKind
	name string
}

// MemoryBackend is an EngineContext that resolves in-process handles. Each
// kind and name pair resolves to the same handle every time. It backs
// headless runs, the preview window and tests.
type MemoryBackend struct {
	mu      sync.Mutex
	caps    map[ObjectKind]CapabilitySet
	refused map[handleKey]bool
	handles map[handleKey]*MemoryHandle
	order   []*MemoryHandle
	camera  *MemoryHandle
}

// NewMemoryBackend returns a backend whose objects accept every property and
// whose camera accepts every camera property.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		caps:    map[ObjectKind]CapabilitySet{KindCamera: CameraCapabilities},
		refused: make(map[handleKey]bool),
		handles: make(map[handleKey]*MemoryHandle),
	}
}

// SetCapabilities sets the capability set given to handles of kind resolved
// from now on.
func (b *MemoryBackend) SetCapabilities(kind ObjectKind, caps CapabilitySet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.caps[kind] = caps
}

// Refuse makes resolving kind and name fail.
func (b *MemoryBackend) Refuse(kind ObjectKind, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refused[handleKey{kind, name}] = true
}

// ResolveCamera implements EngineContext.
func (b *MemoryBackend) ResolveCamera() (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refused[handleKey{KindCamera, ""}] {
		return nil, fmt.Errorf("%w: camera", ErrUnresolved)
	}
	if b.camera == nil {
		b.camera = newMemoryHandle(KindCamera, "", b.capsFor(KindCamera))
	}
	return b.camera, nil
}

// Resolve implements EngineContext.
func (b *MemoryBackend) Resolve(kind ObjectKind, name string) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := handleKey{kind, name}
	if b.refused[key] {
		return nil, fmt.Errorf("%w: %s %q", ErrUnresolved, kind, name)
	}
	h, ok := b.handles[key]
	if !ok {
		h = newMemoryHandle(kind, name, b.capsFor(kind))
		b.handles[key] = h
		b.order = append(b.order, h)
	}
	return h, nil
}

func (b *MemoryBackend) capsFor(kind ObjectKind) CapabilitySet {
	if caps, ok := b.caps[kind]; ok {
		return caps
	}
	return AllCapabilities
}

// Camera returns the camera handle, or nil before it is resolved.
func (b *MemoryBackend) Camera() *MemoryHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.camera
}

// Handle returns a resolved handle.
func (b *MemoryBackend) Handle(kind ObjectKind, name string) (*MemoryHandle, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.handles[handleKey{kind, name}]
	return h, ok
}

// Handles returns every resolved handle in resolution order, camera excluded.
func (b *MemoryBackend) Handles() []*MemoryHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*MemoryHandle, len(b.order))
	copy(out, b.order)
	return out
}
