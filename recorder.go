package orrery

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecorderState is Idle or Recording.
type RecorderState uint8

const (
	Idle RecorderState = iota
	Recording
)

func (s RecorderState) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// Recorder wraps a Facade and, while recording, turns mutating calls into
// instructions instead of executing them. Factory calls (create_object) run
// for real so the caller gets a working node, and are captured with the
// created node as target. Queries always pass through and are never
// captured, so a session of N non-query calls yields N instructions. While
// idle every call passes through untouched.
//
// A Recorder is not safe for concurrent use.
type Recorder struct {
	inner   Facade
	state   RecorderState
	log     *CommandLog
	logger  *zap.Logger
	metrics *Metrics
	now     func() time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger sets the recorder's logger.
func WithRecorderLogger(l *zap.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = l }
}

// WithRecorderMetrics sets the recorder's metrics.
func WithRecorderMetrics(m *Metrics) RecorderOption {
	return func(r *Recorder) { r.metrics = m }
}

// WithClock sets the time source used to stamp sessions.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder wraps inner. When inner is an *Engine, its logger and metrics
// are the defaults.
func NewRecorder(inner Facade, opts ...RecorderOption) *Recorder {
	r := &Recorder{inner: inner, now: time.Now, log: &CommandLog{}}
	if e, ok := inner.(*Engine); ok {
		r.logger = e.log
		r.metrics = e.metrics
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// State returns the current state.
func (r *Recorder) State() RecorderState { return r.state }

// Recording reports whether calls are being captured.
func (r *Recorder) Recording() bool { return r.state == Recording }

// Log returns the current session's log, or the last one after Stop.
func (r *Recorder) Log() *CommandLog { return r.log }

// Start begins a new session with an empty log. Starting while recording
// returns *RecordingStateError and leaves the running session untouched.
func (r *Recorder) Start() error {
	if r.state == Recording {
		r.logger.Warn("recorder already recording", zap.Stringer("session", r.log.session))
		return &RecordingStateError{Op: "start", State: r.state}
	}
	r.log = &CommandLog{session: uuid.New(), recordedAt: r.now()}
	r.state = Recording
	r.metrics.sessionStarted()
	r.logger.Info("recording started", zap.Stringer("session", r.log.session))
	return nil
}

// Stop ends the session and returns its log. Stopping while idle returns
// *RecordingStateError and the previous log, if any.
func (r *Recorder) Stop() (*CommandLog, error) {
	if r.state != Recording {
		r.logger.Warn("recorder not recording")
		return r.log, &RecordingStateError{Op: "stop", State: r.state}
	}
	r.state = Idle
	r.logger.Info("recording stopped",
		zap.Stringer("session", r.log.session), zap.Int("instructions", r.log.Len()))
	return r.log, nil
}

// Invoke captures or forwards call according to the recorder state and the
// operation's class. Unknown operations return *UnknownInstructionError and
// are never captured.
func (r *Recorder) Invoke(call Call) (Result, error) {
	if r.state != Recording {
		return r.inner.Invoke(call)
	}
	info, ok := LookupOp(call.Op)
	if !ok {
		return Result{}, &UnknownInstructionError{Op: call.Op}
	}
	switch info.Class {
	case ClassQuery:
		return r.inner.Invoke(call)
	case ClassFactory:
		res, err := r.inner.Invoke(call)
		if err != nil {
			return res, err
		}
		call.Target = res.Node
		r.capture(call, info.Class)
		return res, nil
	}
	r.capture(call, info.Class)
	return Result{}, nil
}

func (r *Recorder) capture(call Call, class OpClass) {
	in := instructionFromCall(call)
	r.log.append(in)
	r.metrics.instructionRecorded(class)
	r.logger.Debug("instruction recorded", zap.Stringer("instruction", in))
}
