// Package evtext reads and writes YAML events in the line notation of the
// YAML test suite:
//
//	+STR
//	+DOC
//	+MAP
//	=VAL :a
//	=VAL &x <tag:yaml.org,2002:int> :1
//	=ALI *x
//	-MAP
//	-DOC
//	-STR
//
// Scalar values are prefixed by a style character (: ' " | >) and escape
// backslash, control characters and line breaks.
package evtext

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/yev/parser"
)

type formatState struct {
	color func(parser.EventType, ColorAttr, string) string
}

type Option func(*formatState)

// FormatColors colors the output with c.
func FormatColors(c *Colors) Option {
	return func(fs *formatState) { fs.color = c.Color }
}

// Format writes ev as one line, without a trailing newline.
func Format(w io.Writer, ev parser.Event, opts ...Option) error {
	fs := &formatState{}
	for _, opt := range opts {
		opt(fs)
	}
	_, err := io.WriteString(w, fs.line(ev))
	return err
}

// String returns ev as one line.
func String(ev parser.Event, opts ...Option) string {
	fs := &formatState{}
	for _, opt := range opts {
		opt(fs)
	}
	return fs.line(ev)
}

// FormatAll writes evs, one per line.
func FormatAll(w io.Writer, evs []parser.Event, opts ...Option) error {
	fs := &formatState{}
	for _, opt := range opts {
		opt(fs)
	}
	for _, ev := range evs {
		if _, err := io.WriteString(w, fs.line(ev)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (fs *formatState) paint(t parser.EventType, a ColorAttr, s string) string {
	if fs.color == nil {
		return s
	}
	return fs.color(t, a, s)
}

func (fs *formatState) line(ev parser.Event) string {
	parts := []string{fs.paint(ev.Type, IndicatorColor, indicator(ev.Type))}
	props := func(anchor parser.Anchor, tag parser.Tag) {
		if anchor != nil {
			parts = append(parts, fs.paint(ev.Type, AnchorColor, "&"+anchor.String()))
		}
		if tag != nil {
			parts = append(parts, fs.paint(ev.Type, TagColor, "<"+tag.String()+">"))
		}
	}
	switch ev.Type {
	case parser.EventAlias:
		parts = append(parts, fs.paint(ev.Type, AnchorColor, "*"+ev.Alias.String()))
	case parser.EventSequenceStart, parser.EventMappingStart:
		if c := ev.Collection; c != nil {
			props(c.Anchor, c.Tag)
		}
	case parser.EventScalar:
		s := ev.Scalar
		props(s.Anchor, s.Tag)
		parts = append(parts,
			fs.paint(ev.Type, StyleColor, string(styleChar(s.Style)))+
				fs.paint(ev.Type, ValueColor, Escape(string(s.Value))))
	}
	return strings.Join(parts, " ")
}

func indicator(t parser.EventType) string {
	switch t {
	case parser.EventStreamStart:
		return "+STR"
	case parser.EventStreamEnd:
		return "-STR"
	case parser.EventDocumentStart:
		return "+DOC"
	case parser.EventDocumentEnd:
		return "-DOC"
	case parser.EventAlias:
		return "=ALI"
	case parser.EventScalar:
		return "=VAL"
	case parser.EventSequenceStart:
		return "+SEQ"
	case parser.EventSequenceEnd:
		return "-SEQ"
	case parser.EventMappingStart:
		return "+MAP"
	case parser.EventMappingEnd:
		return "-MAP"
	}
	panic(fmt.Sprintf("evtext: unknown event type %d", t))
}

func styleChar(s parser.ScalarStyle) byte {
	switch s {
	case parser.Plain:
		return ':'
	case parser.SingleQuoted:
		return '\''
	case parser.DoubleQuoted:
		return '"'
	case parser.Literal:
		return '|'
	case parser.Folded:
		return '>'
	}
	panic(fmt.Sprintf("evtext: unknown scalar style %d", s))
}

// Escape renders a scalar value on a single line.
func Escape(v string) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case 0:
			b.WriteString(`\0`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, c)
				continue
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}
