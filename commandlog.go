package orrery

import (
	"iter"
	"maps"
	"time"

	"github.com/google/uuid"
)

// Instruction is one captured call: an operation name, positional and named
// arguments, and the node it targeted. Instructions are immutable; accessors
// return copies.
type Instruction struct {
	op     Op
	target NodeID
	args   []any
	kwargs map[string]any
}

// NewInstruction builds an instruction with normalized arguments.
func NewInstruction(op Op, target NodeID, args []any, kwargs map[string]any) Instruction {
	return Instruction{op: op, target: target, args: normalizeArgs(args), kwargs: normalizeKwargs(kwargs)}
}

func instructionFromCall(call Call) Instruction {
	return NewInstruction(call.Op, call.Target, call.Args, call.Kwargs)
}

func (in Instruction) Op() Op         { return in.op }
func (in Instruction) Target() NodeID { return in.target }

// Args returns a copy of the positional arguments.
func (in Instruction) Args() []any {
	return append([]any(nil), in.args...)
}

// Kwargs returns a copy of the named arguments.
func (in Instruction) Kwargs() map[string]any {
	if in.kwargs == nil {
		return nil
	}
	return maps.Clone(in.kwargs)
}

// Call converts the instruction back into a call.
func (in Instruction) Call() Call {
	return Call{Op: in.op, Target: in.target, Args: in.Args(), Kwargs: in.Kwargs()}
}

func (in Instruction) String() string { return in.Call().String() }

// CommandLog is an ordered list of instructions captured in one recording
// session. It is appended to only by its recorder while recording and is
// read-only afterwards.
type CommandLog struct {
	session      uuid.UUID
	recordedAt   time.Time
	instructions []Instruction
}

// NewCommandLog builds a log from instructions, as a loader or test would.
func NewCommandLog(session uuid.UUID, recordedAt time.Time, instructions ...Instruction) *CommandLog {
	return &CommandLog{
		session:      session,
		recordedAt:   recordedAt,
		instructions: append([]Instruction(nil), instructions...),
	}
}

// Session returns the id of the recording session that produced the log.
func (l *CommandLog) Session() uuid.UUID { return l.session }

// RecordedAt returns when the recording session started.
func (l *CommandLog) RecordedAt() time.Time { return l.recordedAt }

// Len returns the number of instructions.
func (l *CommandLog) Len() int { return len(l.instructions) }

// At returns the i-th instruction.
func (l *CommandLog) At(i int) Instruction { return l.instructions[i] }

// Instructions returns a copy of the instruction list.
func (l *CommandLog) Instructions() []Instruction {
	return append([]Instruction(nil), l.instructions...)
}

// All iterates the instructions in recorded order.
func (l *CommandLog) All() iter.Seq2[int, Instruction] {
	return func(yield func(int, Instruction) bool) {
		for i, in := range l.instructions {
			if !yield(i, in) {
				return
			}
		}
	}
}

// Ops returns the operation names in recorded order.
func (l *CommandLog) Ops() []Op {
	ops := make([]Op, len(l.instructions))
	for i, in := range l.instructions {
		ops[i] = in.op
	}
	return ops
}

func (l *CommandLog) append(in Instruction) {
	l.instructions = append(l.instructions, in)
}
