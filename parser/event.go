package parser

import (
	"bytes"
	"fmt"

	"github.com/signadot/yev/internal/engine"
)

// EventType identifies the kind of an Event.
type EventType int

const (
	EventStreamStart EventType = iota
	EventStreamEnd
	EventDocumentStart
	EventDocumentEnd
	EventAlias
	EventScalar
	EventSequenceStart
	EventSequenceEnd
	EventMappingStart
	EventMappingEnd
)

func (t EventType) String() string {
	switch t {
	case EventStreamStart:
		return "StreamStart"
	case EventStreamEnd:
		return "StreamEnd"
	case EventDocumentStart:
		return "DocumentStart"
	case EventDocumentEnd:
		return "DocumentEnd"
	case EventAlias:
		return "Alias"
	case EventScalar:
		return "Scalar"
	case EventSequenceStart:
		return "SequenceStart"
	case EventSequenceEnd:
		return "SequenceEnd"
	case EventMappingStart:
		return "MappingStart"
	case EventMappingEnd:
		return "MappingEnd"
	default:
		return "Unknown"
	}
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(d []byte) error {
	k := string(d)
	pt, ok := map[string]EventType{
		"StreamStart":   EventStreamStart,
		"StreamEnd":     EventStreamEnd,
		"DocumentStart": EventDocumentStart,
		"DocumentEnd":   EventDocumentEnd,
		"Alias":         EventAlias,
		"Scalar":        EventScalar,
		"SequenceStart": EventSequenceStart,
		"SequenceEnd":   EventSequenceEnd,
		"MappingStart":  EventMappingStart,
		"MappingEnd":    EventMappingEnd,
	}[k]
	if ok {
		*t = pt
		return nil
	}
	return fmt.Errorf("unknown event type %q", k)
}

// Event is a structural YAML event. Alias is set for EventAlias, Scalar for
// EventScalar and Collection for EventSequenceStart and EventMappingStart.
type Event struct {
	Type       EventType
	Alias      Anchor
	Scalar     *Scalar
	Collection *CollectionHeader
}

// Scalar is the payload of a scalar event.
type Scalar struct {
	Anchor Anchor
	Tag    Tag
	// Value is never nil.
	Value []byte
	Style ScalarStyle
	// Repr is the scalar's source text, quotes included. It aliases a
	// borrowed input and is nil for owned input.
	Repr []byte
}

// CollectionHeader is the payload of a sequence or mapping start event.
type CollectionHeader struct {
	Anchor Anchor
	Tag    Tag
}

type ScalarStyle int

const (
	Plain ScalarStyle = iota
	SingleQuoted
	DoubleQuoted
	Literal
	Folded
)

func (s ScalarStyle) String() string {
	switch s {
	case Plain:
		return "Plain"
	case SingleQuoted:
		return "SingleQuoted"
	case DoubleQuoted:
		return "DoubleQuoted"
	case Literal:
		return "Literal"
	case Folded:
		return "Folded"
	default:
		return "Unknown"
	}
}

// Anchor is a node anchor name. A nil Anchor is absent.
type Anchor []byte

func (a Anchor) String() string {
	return string(a)
}

func (a Anchor) Equal(b Anchor) bool {
	return bytes.Equal(a, b)
}

func (a Anchor) Compare(b Anchor) int {
	return bytes.Compare(a, b)
}

// Tag is a resolved node tag. A nil Tag is absent.
type Tag []byte

// Tags of the core schema.
const (
	TagNull  = engine.CoreTagPrefix + "null"
	TagBool  = engine.CoreTagPrefix + "bool"
	TagInt   = engine.CoreTagPrefix + "int"
	TagFloat = engine.CoreTagPrefix + "float"
)

func (t Tag) String() string {
	return string(t)
}

func (t Tag) Equal(u Tag) bool {
	return bytes.Equal(t, u)
}

func (t Tag) Compare(u Tag) int {
	return bytes.Compare(t, u)
}

// Is reports whether t is the tag named s.
func (t Tag) Is(s string) bool {
	return string(t) == s
}
