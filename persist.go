package orrery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// documentVersion is the command log document format version.
const documentVersion = 1

// Format selects the command log document encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks a format by file extension: .json, .yaml or .yml.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unsupported command log extension %q", filepath.Ext(path))
}

// document is the persisted form of a CommandLog.
type document struct {
	Version      int       `json:"version" yaml:"version"`
	Session      string    `json:"session" yaml:"session"`
	RecordedAt   time.Time `json:"recorded_at" yaml:"recorded_at"`
	Checksum     string    `json:"checksum" yaml:"checksum"`
	Instructions []record  `json:"instructions" yaml:"instructions"`
}

// record is one persisted instruction.
type record struct {
	Method string         `json:"method" yaml:"method"`
	Args   []any          `json:"args" yaml:"args"`
	Kwargs map[string]any `json:"kwargs" yaml:"kwargs"`
	Target uint64         `json:"target,omitempty" yaml:"target,omitempty"`
}

func recordOf(in Instruction) record {
	r := record{
		Method: string(in.op),
		Args:   make([]any, len(in.args)),
		Kwargs: make(map[string]any, len(in.kwargs)),
		Target: uint64(in.target),
	}
	for i, a := range in.args {
		r.Args[i] = persistValue(a)
	}
	for k, v := range in.kwargs {
		r.Kwargs[k] = persistValue(v)
	}
	return r
}

func (r record) instruction() Instruction {
	return NewInstruction(Op(r.Method), NodeID(r.Target), r.Args, r.Kwargs)
}

// checksum hashes the canonical JSON encoding of records. encoding/json
// sorts map keys, so equal logs hash equally regardless of document format.
func checksum(records []record) (string, error) {
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(b)), nil
}

func (l *CommandLog) document() (document, error) {
	doc := document{
		Version:      documentVersion,
		Session:      l.session.String(),
		RecordedAt:   l.recordedAt,
		Instructions: make([]record, len(l.instructions)),
	}
	for i, in := range l.instructions {
		doc.Instructions[i] = recordOf(in)
	}
	sum, err := checksum(doc.Instructions)
	if err != nil {
		return document{}, err
	}
	doc.Checksum = sum
	return doc, nil
}

// Encode writes the log as a document in the given format. Argument values
// other than numbers, strings, booleans, vectors, lists and maps of those
// are written as their fmt text.
func (l *CommandLog) Encode(w io.Writer, f Format) error {
	doc, err := l.document()
	if err != nil {
		return &SerializationError{Err: err}
	}
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return &SerializationError{Err: err}
		}
		err = enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	}
	if err != nil {
		return &SerializationError{Err: err}
	}
	return nil
}

// Decode reads a document in the given format and verifies its checksum.
func Decode(r io.Reader, f Format) (*CommandLog, error) {
	var doc document
	var err error
	switch f {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		err = json.NewDecoder(r).Decode(&doc)
	}
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	l, err := fromDocument(doc)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	return l, nil
}

func fromDocument(doc document) (*CommandLog, error) {
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported document version %d", doc.Version)
	}
	session := uuid.Nil
	if doc.Session != "" {
		id, err := uuid.Parse(doc.Session)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		session = id
	}
	l := &CommandLog{session: session, recordedAt: doc.RecordedAt}
	canon := make([]record, len(doc.Instructions))
	for i, rec := range doc.Instructions {
		if rec.Method == "" {
			return nil, fmt.Errorf("instruction %d: missing method", i)
		}
		in := rec.instruction()
		l.instructions = append(l.instructions, in)
		canon[i] = recordOf(in)
	}
	if doc.Checksum != "" {
		sum, err := checksum(canon)
		if err != nil {
			return nil, err
		}
		if sum != doc.Checksum {
			return nil, fmt.Errorf("checksum mismatch: document says %s, instructions hash to %s", doc.Checksum, sum)
		}
	}
	return l, nil
}

// SaveFile writes the log to path in the format implied by its extension.
func SaveFile(path string, l *CommandLog) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	out, err := os.Create(path)
	if err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	err = l.Encode(out, f)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		var se *SerializationError
		if errors.As(err, &se) {
			se.Path = path
			return se
		}
		return &SerializationError{Path: path, Err: err}
	}
	return nil
}

// LoadFile reads a log from path in the format implied by its extension.
func LoadFile(path string) (*CommandLog, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, &SerializationError{Path: path, Err: err}
	}
	in, err := os.Open(path)
	if err != nil {
		return nil, &SerializationError{Path: path, Err: err}
	}
	defer in.Close()
	l, err := Decode(in, f)
	if err != nil {
		var se *SerializationError
		if errors.As(err, &se) {
			se.Path = path
		}
		return nil, err
	}
	return l, nil
}
