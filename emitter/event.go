package emitter

// EventType identifies the kind of an Event.
type EventType int

const (
	EventStreamStart EventType = iota
	EventStreamEnd
	EventDocumentStart
	EventDocumentEnd
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

// Event is an event to serialize. Scalar is set for EventScalar; Collection
// may be set for EventSequenceStart and EventMappingStart to give a tag.
type Event struct {
	Type       EventType
	Scalar     *Scalar
	Collection *Collection
}

// Scalar is the payload of a scalar event. A nil Tag lets the reader resolve
// the value; a tagged scalar is always written with its tag.
type Scalar struct {
	Tag   *string
	Value string
	Style ScalarStyle
}

// Collection is the optional payload of a sequence or mapping start event.
type Collection struct {
	Tag *string
}

// ScalarStyle requests a presentation for a scalar. The emitter falls back
// to a quoted style when the requested one cannot represent the value.
type ScalarStyle int

const (
	Any ScalarStyle = iota
	Plain
	SingleQuoted
	DoubleQuoted
	Literal
	Folded
)

func (s ScalarStyle) String() string {
	switch s {
	case Any:
		return "Any"
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

// Tagged returns a pointer to tag, for use in Scalar.Tag and Collection.Tag.
func Tagged(tag string) *string {
	return &tag
}
