package orrery

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animator holds the transition duration applied to engine-side changes
// that support animation, such as camera moves. A zero duration applies
// changes immediately.
type Animator struct {
	duration float64
	ease     ease.TweenFunc
}

func newAnimator() *Animator {
	return &Animator{ease: ease.InOutQuad}
}

// Duration returns the transition duration in seconds.
func (a *Animator) Duration() float64 { return a.duration }

// SetDuration sets the transition duration in seconds. Negative values are
// treated as zero.
func (a *Animator) SetDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	a.duration = seconds
}

// SetEase replaces the easing function. nil restores the default.
func (a *Animator) SetEase(fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.InOutQuad
	}
	a.ease = fn
}

// vecTween animates the three components of a Vec3. Call update(dt) each
// frame until it reports done.
type vecTween struct {
	tweens [3]*gween.Tween
	done   bool
}

func (a *Animator) tween(from, to Vec3) *vecTween {
	t := &vecTween{}
	d := float32(a.duration)
	for i := 0; i < 3; i++ {
		t.tweens[i] = gween.New(float32(from[i]), float32(to[i]), d, a.ease)
	}
	return t
}

// update advances the tween by dt seconds and returns the current value.
// The final frame returns exactly to, without float32 rounding.
func (t *vecTween) update(dt float64, to Vec3) Vec3 {
	if t.done {
		return to
	}
	var out Vec3
	allDone := true
	for i := 0; i < 3; i++ {
		val, finished := t.tweens[i].Update(float32(dt))
		out[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	t.done = allDone
	if allDone {
		return to
	}
	return out
}
