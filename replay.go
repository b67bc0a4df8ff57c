package orrery

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// ReplayMode selects instruction ordering.
type ReplayMode uint8

const (
	// Sequential replays in recorded order.
	Sequential ReplayMode = iota
	// Parallel replays bucket by bucket: camera, object lifecycle, component
	// mutation, other. Order within a bucket is preserved. Execution is still
	// one instruction at a time.
	Parallel
)

func (m ReplayMode) String() string {
	if m == Parallel {
		return "parallel"
	}
	return "sequential"
}

// ParseReplayMode parses "sequential" or "parallel".
func ParseReplayMode(s string) (ReplayMode, error) {
	switch s {
	case "sequential", "":
		return Sequential, nil
	case "parallel":
		return Parallel, nil
	}
	return 0, fmt.Errorf("unknown replay mode %q", s)
}

// ReplayReport summarizes one replay.
type ReplayReport struct {
	Mode     ReplayMode
	Executed int
	Skipped  int
	// Errors holds one entry per skipped instruction, wrapped with its index.
	Errors []error
}

// Err joins the per-instruction errors, or returns nil when none failed.
func (r ReplayReport) Err() error {
	return errors.Join(r.Errors...)
}

// Replayer drives a Facade from a CommandLog. Failed instructions are logged
// and reported, and replay continues with the next one.
type Replayer struct {
	logger  *zap.Logger
	metrics *Metrics
	// produced holds, per target, the ids of nodes this replayer created.
	// They are never reused for a recorded create_object.
	produced map[any]map[NodeID]struct{}
}

// ReplayOption configures a Replayer.
type ReplayOption func(*Replayer)

// WithReplayLogger sets the replayer's logger.
func WithReplayLogger(l *zap.Logger) ReplayOption {
	return func(r *Replayer) { r.logger = l }
}

// WithReplayMetrics sets the replayer's metrics.
func WithReplayMetrics(m *Metrics) ReplayOption {
	return func(r *Replayer) { r.metrics = m }
}

// NewReplayer returns a replayer.
func NewReplayer(opts ...ReplayOption) *Replayer {
	r := &Replayer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Sequential replays log against f in recorded order.
func (r *Replayer) Sequential(log *CommandLog, f Facade) ReplayReport {
	return r.Replay(log, f, Sequential)
}

// Parallel replays log against f in bucket order.
func (r *Replayer) Parallel(log *CommandLog, f Facade) ReplayReport {
	return r.Replay(log, f, Parallel)
}

// Replay replays log against f in the given mode.
//
// Node ids are remapped: a create_object whose recorded target is not live
// in f with the same name creates a new node, and later instructions that
// name the recorded id are sent the new one. A recorded target that is
// still live with the same name is reused, so replaying against the engine
// that was recorded does not duplicate nodes. Nodes this replayer created in
// an earlier replay are never reused: replaying a log twice into the same
// engine builds its nodes twice.
func (r *Replayer) Replay(log *CommandLog, f Facade, mode ReplayMode) ReplayReport {
	rep := ReplayReport{Mode: mode}
	remap := make(map[NodeID]NodeID)
	produced := r.producedBy(f)
	for i, in := range Plan(log, mode) {
		err := r.execute(in, f, remap, produced)
		if err != nil {
			rep.Skipped++
			rep.Errors = append(rep.Errors, fmt.Errorf("instruction %d (%s): %w", i, in.op, err))
			r.metrics.instructionReplayed(mode, "failed")
			r.logger.Warn("instruction skipped",
				zap.Int("index", i), zap.Stringer("instruction", in), zap.Error(err))
			continue
		}
		rep.Executed++
		r.metrics.instructionReplayed(mode, "ok")
	}
	r.logger.Info("replay finished",
		zap.Stringer("mode", mode), zap.Stringer("session", log.session),
		zap.Int("executed", rep.Executed), zap.Int("skipped", rep.Skipped))
	return rep
}

// Plan returns the instructions of log in the order mode replays them.
func Plan(log *CommandLog, mode ReplayMode) []Instruction {
	if mode != Parallel {
		return log.Instructions()
	}
	var buckets [numBuckets][]Instruction
	for _, in := range log.instructions {
		b := BucketOf(in.op)
		buckets[b] = append(buckets[b], in)
	}
	out := make([]Instruction, 0, log.Len())
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

// producedBy returns the set of ids created in f by this replayer. Targets
// that cannot key a map get a fresh set, so nothing is ever reused there.
// A Recorder shares the set of the facade it wraps.
func (r *Replayer) producedBy(f Facade) map[NodeID]struct{} {
	for {
		rec, ok := f.(*Recorder)
		if !ok {
			break
		}
		f = rec.inner
	}
	if f == nil || !reflect.TypeOf(f).Comparable() {
		return make(map[NodeID]struct{})
	}
	if r.produced == nil {
		r.produced = make(map[any]map[NodeID]struct{})
	}
	set, ok := r.produced[f]
	if !ok {
		set = make(map[NodeID]struct{})
		r.produced[f] = set
	}
	return set
}

func (r *Replayer) execute(in Instruction, f Facade, remap map[NodeID]NodeID, produced map[NodeID]struct{}) error {
	call := in.Call()
	info, known := LookupOp(call.Op)
	if !known {
		return &UnknownInstructionError{Op: call.Op}
	}

	if call.Op == OpCreateObject && in.target != 0 {
		if _, mine := produced[in.target]; !mine {
			if reused, ok := liveWithName(f, in.target, call); ok {
				remap[in.target] = reused
				return nil
			}
		}
		call.Target = 0
		res, err := f.Invoke(call)
		if err != nil {
			return err
		}
		remap[in.target] = res.Node
		produced[res.Node] = struct{}{}
		return nil
	}

	if call.Target != 0 {
		call.Target = mapID(remap, call.Target)
	}
	if info.NodeArg >= 0 && info.NodeArg < len(call.Args) {
		if id, err := call.Node(info.NodeArg); err == nil {
			call.Args[info.NodeArg] = mapID(remap, id)
		}
	}
	_, err := f.Invoke(call)
	return err
}

func mapID(remap map[NodeID]NodeID, id NodeID) NodeID {
	if to, ok := remap[id]; ok {
		return to
	}
	return id
}

// liveWithName reports whether id is live in f under the name create_object
// would give it.
func liveWithName(f Facade, id NodeID, create Call) (NodeID, bool) {
	res, err := f.Invoke(NewCall(OpGetObjectInfo, id))
	if err != nil {
		return 0, false
	}
	info, ok := res.Value.(NodeInfo)
	if !ok {
		return 0, false
	}
	name := "GameObject"
	if len(create.Args) > 0 {
		name, _ = create.Str(0)
	}
	if info.Name != name {
		return 0, false
	}
	return info.ID, true
}
