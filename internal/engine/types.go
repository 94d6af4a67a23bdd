// Package engine is the YAML grammar engine behind the parser and emitter
// packages.
//
// The engine exposes two handles with a C-style contract: a pull Parser
// producing one Event per Parse call and a push Emitter accepting one Event
// per Emit call. Both record failures in exported error fields and refuse to
// make progress once an error has been recorded. Handles must be allocated
// with new, initialized once, never copied and released with Delete.
package engine

import (
	"unicode/utf8"
)

// ErrorType classifies the failure recorded in a handle.
type ErrorType int

const (
	NoError ErrorType = iota

	MemoryError   // Cannot allocate or reuse handle state.
	ReaderError   // Cannot read or decode the input stream.
	ScannerError  // Cannot scan the input stream.
	ParserError   // Cannot parse the input stream.
	ComposerError // Cannot compose a YAML document.
	WriterError   // Cannot write to the output stream.
	EmitterError  // Cannot emit a YAML stream.
)

func (t ErrorType) String() string {
	switch t {
	case NoError:
		return "NO_ERROR"
	case MemoryError:
		return "MEMORY"
	case ReaderError:
		return "READER"
	case ScannerError:
		return "SCANNER"
	case ParserError:
		return "PARSER"
	case ComposerError:
		return "COMPOSER"
	case WriterError:
		return "WRITER"
	case EmitterError:
		return "EMITTER"
	default:
		return "UNKNOWN"
	}
}

// Encoding is the stream encoding.
type Encoding int

const (
	AnyEncoding Encoding = iota
	UTF8Encoding
)

// Mark is a position in the input stream. Line and Column are 0-based,
// Column counts characters.
type Mark struct {
	Index  int
	Line   int
	Column int
}

type EventType int

const (
	NoEvent EventType = iota

	StreamStartEvent
	StreamEndEvent
	DocumentStartEvent
	DocumentEndEvent
	AliasEvent
	ScalarEvent
	SequenceStartEvent
	SequenceEndEvent
	MappingStartEvent
	MappingEndEvent
)

func (t EventType) String() string {
	switch t {
	case NoEvent:
		return "NO-EVENT"
	case StreamStartEvent:
		return "STREAM-START"
	case StreamEndEvent:
		return "STREAM-END"
	case DocumentStartEvent:
		return "DOCUMENT-START"
	case DocumentEndEvent:
		return "DOCUMENT-END"
	case AliasEvent:
		return "ALIAS"
	case ScalarEvent:
		return "SCALAR"
	case SequenceStartEvent:
		return "SEQUENCE-START"
	case SequenceEndEvent:
		return "SEQUENCE-END"
	case MappingStartEvent:
		return "MAPPING-START"
	case MappingEndEvent:
		return "MAPPING-END"
	default:
		return "UNKNOWN-EVENT"
	}
}

type ScalarStyle int

const (
	AnyScalarStyle ScalarStyle = iota
	PlainScalarStyle
	SingleQuotedScalarStyle
	DoubleQuotedScalarStyle
	LiteralScalarStyle
	FoldedScalarStyle
)

type SequenceStyle int

const (
	AnySequenceStyle SequenceStyle = iota
	BlockSequenceStyle
	FlowSequenceStyle
)

type MappingStyle int

const (
	AnyMappingStyle MappingStyle = iota
	BlockMappingStyle
	FlowMappingStyle
)

// Event is the engine's native event. Which fields are meaningful depends
// on Type.
type Event struct {
	Type EventType

	StartMark Mark
	EndMark   Mark

	// STREAM-START
	Encoding Encoding

	// ALIAS, SCALAR, SEQUENCE-START, MAPPING-START
	Anchor []byte

	// SCALAR, SEQUENCE-START, MAPPING-START
	Tag []byte

	// SCALAR
	Value []byte

	// DOCUMENT-START, DOCUMENT-END, SEQUENCE-START, MAPPING-START; for
	// SCALAR it is the plain implicit flag.
	Implicit bool

	// SCALAR
	QuotedImplicit bool

	ScalarStyle   ScalarStyle
	SequenceStyle SequenceStyle
	MappingStyle  MappingStyle
}

// Delete clears the event.
func (e *Event) Delete() {
	*e = Event{}
}

// The constructors below copy every byte slice they are given: the emitter
// queues events for lookahead, so an event must not share storage with the
// caller. They fail, like their libyaml counterparts, when the data is not
// valid UTF-8.

func NewStreamStartEvent(enc Encoding) (Event, bool) {
	return Event{Type: StreamStartEvent, Encoding: enc}, true
}

func NewStreamEndEvent() (Event, bool) {
	return Event{Type: StreamEndEvent}, true
}

func NewDocumentStartEvent(implicit bool) (Event, bool) {
	return Event{Type: DocumentStartEvent, Implicit: implicit}, true
}

func NewDocumentEndEvent(implicit bool) (Event, bool) {
	return Event{Type: DocumentEndEvent, Implicit: implicit}, true
}

func NewAliasEvent(anchor []byte) (Event, bool) {
	if anchor == nil || !utf8.Valid(anchor) {
		return Event{}, false
	}
	return Event{Type: AliasEvent, Anchor: clone(anchor)}, true
}

func NewScalarEvent(anchor, tag, value []byte, plainImplicit, quotedImplicit bool, style ScalarStyle) (Event, bool) {
	if !utf8.Valid(anchor) || !utf8.Valid(tag) || !utf8.Valid(value) {
		return Event{}, false
	}
	if value == nil {
		value = []byte{}
	}
	return Event{
		Type:           ScalarEvent,
		Anchor:         clone(anchor),
		Tag:            clone(tag),
		Value:          clone(value),
		Implicit:       plainImplicit,
		QuotedImplicit: quotedImplicit,
		ScalarStyle:    style,
	}, true
}

func NewSequenceStartEvent(anchor, tag []byte, implicit bool, style SequenceStyle) (Event, bool) {
	if !utf8.Valid(anchor) || !utf8.Valid(tag) {
		return Event{}, false
	}
	return Event{
		Type:          SequenceStartEvent,
		Anchor:        clone(anchor),
		Tag:           clone(tag),
		Implicit:      implicit,
		SequenceStyle: style,
	}, true
}

func NewSequenceEndEvent() (Event, bool) {
	return Event{Type: SequenceEndEvent}, true
}

func NewMappingStartEvent(anchor, tag []byte, implicit bool, style MappingStyle) (Event, bool) {
	if !utf8.Valid(anchor) || !utf8.Valid(tag) {
		return Event{}, false
	}
	return Event{
		Type:         MappingStartEvent,
		Anchor:       clone(anchor),
		Tag:          clone(tag),
		Implicit:     implicit,
		MappingStyle: style,
	}, true
}

func NewMappingEndEvent() (Event, bool) {
	return Event{Type: MappingEndEvent}, true
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
