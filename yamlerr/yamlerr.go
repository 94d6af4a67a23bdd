// Package yamlerr holds the error and position model shared by the parser
// and emitter packages.
package yamlerr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/yev/internal/engine"
)

// Kind classifies an Error.
type Kind int

const (
	KindNone Kind = iota
	KindMemory
	KindReader
	KindScanner
	KindParser
	KindComposer
	KindWriter
	KindEmitter
	// KindIO marks a failure of the emitter's sink. It never comes from
	// the engine.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindMemory:
		return "MEMORY"
	case KindReader:
		return "READER"
	case KindScanner:
		return "SCANNER"
	case KindParser:
		return "PARSER"
	case KindComposer:
		return "COMPOSER"
	case KindWriter:
		return "WRITER"
	case KindEmitter:
		return "EMITTER"
	case KindIO:
		return "IO"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

func kindOf(t engine.ErrorType) Kind {
	switch t {
	case engine.NoError:
		return KindNone
	case engine.MemoryError:
		return KindMemory
	case engine.ReaderError:
		return KindReader
	case engine.ScannerError:
		return KindScanner
	case engine.ParserError:
		return KindParser
	case engine.ComposerError:
		return KindComposer
	case engine.WriterError:
		return KindWriter
	case engine.EmitterError:
		return KindEmitter
	}
	panic(fmt.Sprintf("yamlerr: unknown engine error type %d", t))
}

// Mark is a position in the input. Line and Column are 0-based, Column
// counts characters.
//
// A Mark at line 0 column 0 is indistinguishable from an absent one and is
// displayed by its Index.
type Mark struct {
	Index  int
	Line   int
	Column int
}

// Available reports whether m carries a line and column.
func (m Mark) Available() bool {
	return m.Line != 0 || m.Column != 0
}

func (m Mark) String() string {
	if m.Available() {
		return fmt.Sprintf("line %d column %d", m.Line+1, m.Column+1)
	}
	return fmt.Sprintf("position %d", m.Index)
}

func (m Mark) GoString() string {
	if m.Available() {
		return fmt.Sprintf("Mark{Line: %d, Column: %d}", m.Line+1, m.Column+1)
	}
	return fmt.Sprintf("Mark{Index: %d}", m.Index)
}

// FromEngine converts an engine mark.
func FromEngine(m engine.Mark) Mark {
	return Mark{Index: m.Index, Line: m.Line, Column: m.Column}
}

// Error is a snapshot of the error state of a parser or emitter. An empty
// Problem or Context means it is absent.
type Error struct {
	Kind          Kind
	Problem       string
	ProblemOffset int
	ProblemMark   Mark
	Context       string
	ContextMark   Mark
}

// FromParser copies the error state out of p.
func FromParser(p *engine.Parser) *Error {
	return &Error{
		Kind:          kindOf(p.Error),
		Problem:       p.Problem,
		ProblemOffset: p.ProblemOffset,
		ProblemMark:   FromEngine(p.ProblemMark),
		Context:       p.Context,
		ContextMark:   FromEngine(p.ContextMark),
	}
}

// FromEmitter copies the error state out of e. Emitter errors carry no
// position.
func FromEmitter(e *engine.Emitter) *Error {
	return &Error{
		Kind:    kindOf(e.Error),
		Problem: e.Problem,
	}
}

// Mark returns the position of the problem.
func (e *Error) Mark() Mark {
	return e.ProblemMark
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Problem != "" {
		b.WriteString(e.Problem)
	} else {
		b.WriteString("yaml engine failed but there is no error")
	}
	if e.ProblemMark.Available() {
		fmt.Fprintf(&b, " at %s", e.ProblemMark)
	} else if e.ProblemOffset != 0 {
		fmt.Fprintf(&b, " at position %d", e.ProblemOffset)
	}
	if e.Context != "" {
		b.WriteString(", ")
		b.WriteString(e.Context)
		if e.ContextMark.Available() &&
			(e.ContextMark.Line != e.ProblemMark.Line || e.ContextMark.Column != e.ProblemMark.Column) {
			fmt.Fprintf(&b, " at %s", e.ContextMark)
		}
	}
	return b.String()
}

// GoString lists the fields that are set.
func (e *Error) GoString() string {
	var b strings.Builder
	b.WriteString("Error{")
	sep := ""
	field := func(name, value string) {
		b.WriteString(sep)
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		sep = ", "
	}
	if e.Kind != KindNone {
		field("Kind", e.Kind.String())
	}
	if e.Problem != "" {
		field("Problem", strconv.Quote(e.Problem))
	}
	if e.ProblemMark.Available() {
		field("ProblemMark", e.ProblemMark.GoString())
	} else if e.ProblemOffset != 0 {
		field("ProblemOffset", strconv.Itoa(e.ProblemOffset))
	}
	if e.Context != "" {
		field("Context", strconv.Quote(e.Context))
		if e.ContextMark.Available() {
			field("ContextMark", e.ContextMark.GoString())
		}
	}
	b.WriteString("}")
	return b.String()
}

// Format implements fmt.Formatter: %+v and %#v give the GoString form,
// everything else the message.
func (e *Error) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && (s.Flag('+') || s.Flag('#')):
		fmt.Fprint(s, e.GoString())
	case verb == 'q':
		fmt.Fprint(s, strconv.Quote(e.Error()))
	default:
		fmt.Fprint(s, e.Error())
	}
}
