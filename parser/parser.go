package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/signadot/yev/debug"
	"github.com/signadot/yev/internal/engine"
	"github.com/signadot/yev/yamlerr"
)

// Mark is the position of an event in the input.
type Mark = yamlerr.Mark

// Input is the byte source of a Parser.
type Input struct {
	data     []byte
	borrowed bool
}

// Own returns an Input holding a private copy of b.
func Own(b []byte) Input {
	return Input{data: bytes.Clone(b)}
}

// Borrow returns an Input reading b in place. Scalar events carry Repr
// slices of b.
func Borrow(b []byte) Input {
	return Input{data: b, borrowed: true}
}

// Parser decodes a YAML stream into events.
type Parser struct {
	pin     *engine.Parser
	input   Input
	cleanup runtime.Cleanup
}

// New returns a Parser reading in. It panics if the engine cannot be
// initialized.
func New(in Input) *Parser {
	pin := new(engine.Parser)
	if !pin.Initialize() {
		panic("malloc error: " + yamlerr.FromParser(pin).Error())
	}
	ok := false
	defer func() {
		if !ok {
			pin.Delete()
		}
	}()
	pin.SetEncoding(engine.UTF8Encoding)
	pin.SetInputString(in.data)

	p := &Parser{pin: pin, input: in}
	p.cleanup = runtime.AddCleanup(p, (*engine.Parser).Delete, pin)
	ok = true
	return p
}

// Next returns the next event and the mark where it starts. It returns
// io.EOF once the stream end event has been returned, and a *yamlerr.Error
// on invalid input.
func (p *Parser) Next() (Event, Mark, error) {
	if p.pin == nil {
		panic("parser: Next called on a closed Parser")
	}
	if p.pin.Error != engine.NoError {
		return Event{}, Mark{}, yamlerr.FromParser(p.pin)
	}
	var native engine.Event
	if !p.pin.Parse(&native) {
		err := yamlerr.FromParser(p.pin)
		if debug.Parse() {
			debug.Log("parse error", "error", err.Error())
		}
		return Event{}, Mark{}, err
	}
	if native.Type == engine.NoEvent {
		return Event{}, Mark{}, io.EOF
	}
	ev := p.convert(&native)
	mark := yamlerr.FromEngine(native.StartMark)
	if debug.Parse() {
		debug.Log("parse", "event", ev.Type, "mark", mark.String())
	}
	return ev, mark, nil
}

// ReadAll drains p, returning every event and its mark.
func (p *Parser) ReadAll() ([]Event, []Mark, error) {
	var (
		events []Event
		marks  []Mark
	)
	for {
		ev, mark, err := p.Next()
		if errors.Is(err, io.EOF) {
			return events, marks, nil
		}
		if err != nil {
			return events, marks, err
		}
		events = append(events, ev)
		marks = append(marks, mark)
	}
}

// Close releases the engine. Close is idempotent; Next panics after it.
func (p *Parser) Close() {
	if p.pin == nil {
		return
	}
	p.cleanup.Stop()
	p.pin.Delete()
	p.pin = nil
}

func (p *Parser) convert(ev *engine.Event) Event {
	switch ev.Type {
	case engine.StreamStartEvent:
		return Event{Type: EventStreamStart}
	case engine.StreamEndEvent:
		return Event{Type: EventStreamEnd}
	case engine.DocumentStartEvent:
		return Event{Type: EventDocumentStart}
	case engine.DocumentEndEvent:
		return Event{Type: EventDocumentEnd}
	case engine.AliasEvent:
		if ev.Anchor == nil {
			panic("parser: alias event without anchor")
		}
		return Event{Type: EventAlias, Alias: Anchor(ev.Anchor)}
	case engine.ScalarEvent:
		value := ev.Value
		if value == nil {
			value = []byte{}
		}
		s := &Scalar{
			Anchor: optional[Anchor](ev.Anchor),
			Tag:    optional[Tag](ev.Tag),
			Value:  value,
			Style:  scalarStyle(ev.ScalarStyle),
		}
		if p.input.borrowed {
			s.Repr = p.repr(ev.StartMark, ev.EndMark)
		}
		return Event{Type: EventScalar, Scalar: s}
	case engine.SequenceStartEvent:
		return Event{Type: EventSequenceStart, Collection: header(ev)}
	case engine.SequenceEndEvent:
		return Event{Type: EventSequenceEnd}
	case engine.MappingStartEvent:
		return Event{Type: EventMappingStart, Collection: header(ev)}
	case engine.MappingEndEvent:
		return Event{Type: EventMappingEnd}
	}
	panic(fmt.Sprintf("parser: unexpected engine event type %d", ev.Type))
}

func (p *Parser) repr(start, end engine.Mark) []byte {
	data := p.input.data
	s := min(max(start.Index, 0), len(data))
	e := min(max(end.Index, s), len(data))
	return data[s:e:e]
}

func header(ev *engine.Event) *CollectionHeader {
	return &CollectionHeader{
		Anchor: optional[Anchor](ev.Anchor),
		Tag:    optional[Tag](ev.Tag),
	}
}

func optional[T ~[]byte](b []byte) T {
	if b == nil {
		return nil
	}
	return T(b)
}

func scalarStyle(s engine.ScalarStyle) ScalarStyle {
	switch s {
	case engine.PlainScalarStyle:
		return Plain
	case engine.SingleQuotedScalarStyle:
		return SingleQuoted
	case engine.DoubleQuotedScalarStyle:
		return DoubleQuoted
	case engine.LiteralScalarStyle:
		return Literal
	case engine.FoldedScalarStyle:
		return Folded
	}
	panic(fmt.Sprintf("parser: unexpected engine scalar style %d", s))
}
