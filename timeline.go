package orrery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FrameFunc builds one frame of a timeline through a command client.
type FrameFunc func(cmd *Commands) error

type frame struct {
	number     int
	keyed      bool
	transition time.Duration
	hold       time.Duration
	fn         FrameFunc
	log        *CommandLog
}

// Timeline sequences numbered frames against an engine. Plain frames run
// their function directly. Keyframes capture their function through a
// Recorder, replay the capture in parallel mode with the animator set to the
// transition, then wait out the transition and hold.
type Timeline struct {
	engine   *Engine
	frames   []frame
	replayer *Replayer
	logger   *zap.Logger
	wait     func(ctx context.Context, d time.Duration) error
}

// TimelineOption configures a Timeline.
type TimelineOption func(*Timeline)

// WithWait replaces the function that waits between keyframes. Tests use it
// to run timelines without sleeping.
func WithWait(wait func(ctx context.Context, d time.Duration) error) TimelineOption {
	return func(t *Timeline) { t.wait = wait }
}

// NewTimeline returns an empty timeline for e.
func NewTimeline(e *Engine, opts ...TimelineOption) *Timeline {
	t := &Timeline{
		engine:   e,
		logger:   e.log,
		replayer: NewReplayer(WithReplayLogger(e.log), WithReplayMetrics(e.metrics)),
		wait:     sleep,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Frame registers a plain frame. Registering a number twice replaces it.
func (t *Timeline) Frame(n int, fn FrameFunc) {
	t.put(frame{number: n, fn: fn})
}

// Keyframe registers an animated frame.
func (t *Timeline) Keyframe(n int, transition, hold time.Duration, fn FrameFunc) {
	t.put(frame{number: n, keyed: true, transition: transition, hold: hold, fn: fn})
}

// KeyframeLog registers an animated frame that replays a stored log.
func (t *Timeline) KeyframeLog(n int, transition, hold time.Duration, log *CommandLog) {
	t.put(frame{number: n, keyed: true, transition: transition, hold: hold, log: log})
}

func (t *Timeline) put(f frame) {
	i, found := slices.BinarySearchFunc(t.frames, f.number, func(a frame, n int) int { return a.number - n })
	if found {
		t.frames[i] = f
		return
	}
	t.frames = slices.Insert(t.frames, i, f)
}

// Frames returns the registered frame numbers in ascending order.
func (t *Timeline) Frames() []int {
	out := make([]int, len(t.frames))
	for i, f := range t.frames {
		out[i] = f.number
	}
	return out
}

// RunAll runs every frame in ascending order. A failing frame is logged and
// the sequence continues; the failures are returned joined. Cancelling ctx
// stops the sequence.
func (t *Timeline) RunAll(ctx context.Context) error {
	var errs []error
	for _, f := range t.frames {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := t.run(ctx, f); err != nil {
			if ctx.Err() != nil {
				return errors.Join(append(errs, err)...)
			}
			t.logger.Warn("frame failed", zap.Int("frame", f.number), zap.Error(err))
			errs = append(errs, fmt.Errorf("frame %d: %w", f.number, err))
		}
	}
	return errors.Join(errs...)
}

// Run runs frame n.
func (t *Timeline) Run(ctx context.Context, n int) error {
	i, found := slices.BinarySearchFunc(t.frames, n, func(a frame, n int) int { return a.number - n })
	if !found {
		return fmt.Errorf("%w: %d", ErrFrameNotFound, n)
	}
	return t.run(ctx, t.frames[i])
}

func (t *Timeline) run(ctx context.Context, f frame) error {
	t.logger.Debug("frame", zap.Int("frame", f.number), zap.Bool("keyed", f.keyed))
	if !f.keyed {
		t.engine.animator.SetDuration(0)
		return f.fn(NewCommands(t.engine))
	}

	log := f.log
	var buildErr error
	if log == nil {
		rec := NewRecorder(t.engine)
		if err := rec.Start(); err != nil {
			return err
		}
		buildErr = f.fn(NewCommands(rec))
		log, _ = rec.Stop()
	}
	t.engine.animator.SetDuration(f.transition.Seconds())
	rep := t.replayer.Parallel(log, t.engine)
	if err := t.wait(ctx, f.transition+f.hold); err != nil {
		return err
	}
	return errors.Join(buildErr, rep.Err())
}

// --- Scripts ---

// TimelineScript lists keyframes that replay command log files.
type TimelineScript struct {
	Frames []ScriptFrame `json:"frames" yaml:"frames"`
}

// ScriptFrame is one keyframe of a TimelineScript. Durations are seconds.
type ScriptFrame struct {
	Frame      int     `json:"frame" yaml:"frame"`
	Log        string  `json:"log" yaml:"log"`
	Transition float64 `json:"transition" yaml:"transition"`
	Hold       float64 `json:"hold" yaml:"hold"`
}

// ParseTimelineScript decodes a script document.
func ParseTimelineScript(r io.Reader, f Format) (*TimelineScript, error) {
	var s TimelineScript
	var err error
	if f == FormatYAML {
		err = yaml.NewDecoder(r).Decode(&s)
	} else {
		err = json.NewDecoder(r).Decode(&s)
	}
	if err != nil {
		return nil, fmt.Errorf("parse timeline script: %w", err)
	}
	if len(s.Frames) == 0 {
		return nil, errors.New("parse timeline script: no frames")
	}
	return &s, nil
}

// AddScript loads every log named by s, relative to dir, and registers it as
// a keyframe.
func (t *Timeline) AddScript(s *TimelineScript, dir string) error {
	for _, sf := range s.Frames {
		path := sf.Log
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		log, err := LoadFile(path)
		if err != nil {
			return fmt.Errorf("frame %d: %w", sf.Frame, err)
		}
		t.KeyframeLog(sf.Frame, seconds(sf.Transition), seconds(sf.Hold), log)
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
