// Package emitter provides push-style encoding of structural events into
// YAML text.
//
// Events must be supplied in stream order: StreamStart, then documents, then
// StreamEnd. Output is buffered and reaches the sink at the end of each
// document, at the end of the stream, when the buffer fills up and on Flush.
package emitter

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/signadot/yev/debug"
	"github.com/signadot/yev/internal/engine"
	"github.com/signadot/yev/yamlerr"
)

// Emitter writes YAML for a sequence of events to a sink of type W.
type Emitter[W io.Writer] struct {
	pin     *engine.Emitter
	sink    *sink[W]
	cleanup runtime.Cleanup
}

type sink[W io.Writer] struct {
	w     W
	err   error
	taken bool
}

func (s *sink[W]) write(b []byte) bool {
	if _, err := s.w.Write(b); err != nil {
		s.err = err
		return false
	}
	return true
}

// New returns an Emitter writing to w. By default non-ASCII text is written
// as is and lines are never wrapped. New panics if the engine cannot be
// initialized.
func New[W io.Writer](w W, opts ...Option) *Emitter[W] {
	c := &config{width: -1, unicode: true}
	for _, opt := range opts {
		opt(c)
	}
	pin := new(engine.Emitter)
	if !pin.Initialize() {
		panic("malloc error: " + yamlerr.FromEmitter(pin).Error())
	}
	ok := false
	defer func() {
		if !ok {
			pin.Delete()
		}
	}()
	s := &sink[W]{w: w}
	pin.SetUnicode(c.unicode)
	pin.SetWidth(c.width)
	pin.SetOutput(s.write)

	e := &Emitter[W]{pin: pin, sink: s}
	e.cleanup = runtime.AddCleanup(e, (*engine.Emitter).Delete, pin)
	ok = true
	return e
}

// Emit serializes ev. Once Emit or Flush has failed, every later call fails.
func (e *Emitter[W]) Emit(ev Event) error {
	pin := e.handle()
	if debug.Emit() {
		debug.Log("emit", "event", ev.Type, "scalar", scalarValue(ev))
	}
	native, err := toEngine(ev)
	if err != nil {
		return &Error{Op: "emit", Engine: err}
	}
	if !pin.Emit(&native) {
		return e.fail("emit")
	}
	return nil
}

// Flush writes buffered output to the sink.
func (e *Emitter[W]) Flush() error {
	if !e.handle().Flush() {
		return e.fail("flush")
	}
	return nil
}

// IntoInner releases the emitter and returns its sink, without flushing.
// It panics if called twice.
func (e *Emitter[W]) IntoInner() W {
	if e.sink.taken {
		panic("writer is already taken")
	}
	e.Close()
	e.sink.taken = true
	return e.sink.w
}

// Close releases the emitter without flushing. Close is idempotent; Emit
// and Flush panic after it.
func (e *Emitter[W]) Close() {
	if e.pin == nil {
		return
	}
	e.cleanup.Stop()
	e.pin.Delete()
	e.pin = nil
}

func (e *Emitter[W]) handle() *engine.Emitter {
	if e.pin == nil {
		panic("emitter: use of a closed Emitter")
	}
	return e.pin
}

// fail reports the sink's error if the last write failed, and the engine's
// state otherwise. The sink's error is reported once; the engine keeps its
// own writer error for later calls.
func (e *Emitter[W]) fail(op string) error {
	if err := e.sink.err; err != nil {
		e.sink.err = nil
		return &Error{Op: op, IO: err}
	}
	return &Error{Op: op, Engine: yamlerr.FromEmitter(e.pin)}
}

func toEngine(ev Event) (engine.Event, *yamlerr.Error) {
	var (
		native engine.Event
		ok     bool
	)
	switch ev.Type {
	case EventStreamStart:
		native, ok = engine.NewStreamStartEvent(engine.UTF8Encoding)
	case EventStreamEnd:
		native, ok = engine.NewStreamEndEvent()
	case EventDocumentStart:
		native, ok = engine.NewDocumentStartEvent(true)
	case EventDocumentEnd:
		native, ok = engine.NewDocumentEndEvent(true)
	case EventScalar:
		s := ev.Scalar
		if s == nil {
			s = &Scalar{}
		}
		tag, err := tagBytes(s.Tag)
		if err != nil {
			return native, err
		}
		implicit := tag == nil
		native, ok = engine.NewScalarEvent(nil, tag, []byte(s.Value), implicit, implicit, scalarStyle(s.Style))
	case EventSequenceStart:
		tag, err := collectionTag(ev.Collection)
		if err != nil {
			return native, err
		}
		native, ok = engine.NewSequenceStartEvent(nil, tag, tag == nil, engine.AnySequenceStyle)
	case EventSequenceEnd:
		native, ok = engine.NewSequenceEndEvent()
	case EventMappingStart:
		tag, err := collectionTag(ev.Collection)
		if err != nil {
			return native, err
		}
		native, ok = engine.NewMappingStartEvent(nil, tag, tag == nil, engine.AnyMappingStyle)
	case EventMappingEnd:
		native, ok = engine.NewMappingEndEvent()
	default:
		panic(fmt.Sprintf("emitter: unexpected event type %d", ev.Type))
	}
	if !ok {
		return native, &yamlerr.Error{Kind: yamlerr.KindEmitter, Problem: "event data is not valid UTF-8"}
	}
	return native, nil
}

func collectionTag(c *Collection) ([]byte, *yamlerr.Error) {
	if c == nil {
		return nil, nil
	}
	return tagBytes(c.Tag)
}

// tagBytes copies tag into a fresh slice. The engine treats tags as
// NUL-terminated text, so an embedded NUL is rejected.
func tagBytes(tag *string) ([]byte, *yamlerr.Error) {
	if tag == nil {
		return nil, nil
	}
	if strings.IndexByte(*tag, 0) >= 0 {
		return nil, &yamlerr.Error{Kind: yamlerr.KindEmitter, Problem: "tag contains a NUL byte"}
	}
	return append([]byte{}, *tag...), nil
}

func scalarStyle(s ScalarStyle) engine.ScalarStyle {
	switch s {
	case Any:
		return engine.AnyScalarStyle
	case Plain:
		return engine.PlainScalarStyle
	case SingleQuoted:
		return engine.SingleQuotedScalarStyle
	case DoubleQuoted:
		return engine.DoubleQuotedScalarStyle
	case Literal:
		return engine.LiteralScalarStyle
	case Folded:
		return engine.FoldedScalarStyle
	}
	panic(fmt.Sprintf("emitter: unexpected scalar style %d", s))
}

func scalarValue(ev Event) string {
	if ev.Scalar == nil {
		return ""
	}
	return ev.Scalar.Value
}
