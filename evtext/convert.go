package evtext

import (
	"fmt"

	"github.com/signadot/yev/emitter"
	"github.com/signadot/yev/parser"
)

// ToEmitter converts a decoded event into one that can be emitted. Anchors
// are dropped; an alias cannot be converted and yields ErrAnchor.
func ToEmitter(ev parser.Event) (emitter.Event, error) {
	switch ev.Type {
	case parser.EventStreamStart:
		return emitter.Event{Type: emitter.EventStreamStart}, nil
	case parser.EventStreamEnd:
		return emitter.Event{Type: emitter.EventStreamEnd}, nil
	case parser.EventDocumentStart:
		return emitter.Event{Type: emitter.EventDocumentStart}, nil
	case parser.EventDocumentEnd:
		return emitter.Event{Type: emitter.EventDocumentEnd}, nil
	case parser.EventAlias:
		return emitter.Event{}, fmt.Errorf("alias *%s: %w", ev.Alias, ErrAnchor)
	case parser.EventScalar:
		s := ev.Scalar
		return emitter.Event{
			Type: emitter.EventScalar,
			Scalar: &emitter.Scalar{
				Tag:   tagPtr(s.Tag),
				Value: string(s.Value),
				Style: emitStyle(s.Style),
			},
		}, nil
	case parser.EventSequenceStart:
		return emitter.Event{Type: emitter.EventSequenceStart, Collection: collectionOf(ev.Collection)}, nil
	case parser.EventSequenceEnd:
		return emitter.Event{Type: emitter.EventSequenceEnd}, nil
	case parser.EventMappingStart:
		return emitter.Event{Type: emitter.EventMappingStart, Collection: collectionOf(ev.Collection)}, nil
	case parser.EventMappingEnd:
		return emitter.Event{Type: emitter.EventMappingEnd}, nil
	}
	panic(fmt.Sprintf("evtext: unknown event type %d", ev.Type))
}

func collectionOf(c *parser.CollectionHeader) *emitter.Collection {
	if c == nil || c.Tag == nil {
		return nil
	}
	return &emitter.Collection{Tag: tagPtr(c.Tag)}
}

func tagPtr(t parser.Tag) *string {
	if t == nil {
		return nil
	}
	return emitter.Tagged(t.String())
}

func emitStyle(s parser.ScalarStyle) emitter.ScalarStyle {
	switch s {
	case parser.Plain:
		return emitter.Plain
	case parser.SingleQuoted:
		return emitter.SingleQuoted
	case parser.DoubleQuoted:
		return emitter.DoubleQuoted
	case parser.Literal:
		return emitter.Literal
	case parser.Folded:
		return emitter.Folded
	}
	panic(fmt.Sprintf("evtext: unknown scalar style %d", s))
}
