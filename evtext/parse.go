package evtext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/yev/emitter"
)

var (
	ErrAnchor = errors.New("anchors and aliases cannot be emitted")
	ErrSyntax = errors.New("syntax error")
)

// Parse reads events in the notation written by Format. Blank lines are
// skipped, and the flow and explicit markers of the test suite ({} [] ---
// ...) are accepted and ignored.
func Parse(r io.Reader) ([]emitter.Event, error) {
	var evs []emitter.Event
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1<<24)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		ev, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		evs = append(evs, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return evs, nil
}

// ParseLine reads a single event.
func ParseLine(line string) (emitter.Event, error) {
	head, rest, _ := strings.Cut(line, " ")
	switch head {
	case "+STR":
		return simple(emitter.EventStreamStart, rest)
	case "-STR":
		return simple(emitter.EventStreamEnd, rest)
	case "+DOC":
		return simple(emitter.EventDocumentStart, marker(rest, "---"))
	case "-DOC":
		return simple(emitter.EventDocumentEnd, marker(rest, "..."))
	case "-SEQ":
		return simple(emitter.EventSequenceEnd, rest)
	case "-MAP":
		return simple(emitter.EventMappingEnd, rest)
	case "+SEQ":
		return collection(emitter.EventSequenceStart, marker(rest, "[]"))
	case "+MAP":
		return collection(emitter.EventMappingStart, marker(rest, "{}"))
	case "=ALI":
		return emitter.Event{}, ErrAnchor
	case "=VAL":
		return value(rest)
	}
	return emitter.Event{}, fmt.Errorf("%w: unknown event %q", ErrSyntax, head)
}

func marker(rest, m string) string {
	if rest == m {
		return ""
	}
	if after, ok := strings.CutPrefix(rest, m+" "); ok {
		return after
	}
	return rest
}

func simple(t emitter.EventType, rest string) (emitter.Event, error) {
	if rest != "" {
		return emitter.Event{}, fmt.Errorf("%w: unexpected %q after %s", ErrSyntax, rest, t)
	}
	return emitter.Event{Type: t}, nil
}

func collection(t emitter.EventType, rest string) (emitter.Event, error) {
	tag, rest, err := props(rest)
	if err != nil {
		return emitter.Event{}, err
	}
	ev, err := simple(t, rest)
	if err != nil {
		return ev, err
	}
	if tag != nil {
		ev.Collection = &emitter.Collection{Tag: tag}
	}
	return ev, nil
}

func value(rest string) (emitter.Event, error) {
	tag, rest, err := props(rest)
	if err != nil {
		return emitter.Event{}, err
	}
	if rest == "" {
		return emitter.Event{}, fmt.Errorf("%w: missing scalar value", ErrSyntax)
	}
	var style emitter.ScalarStyle
	switch rest[0] {
	case ':':
		style = emitter.Plain
	case '\'':
		style = emitter.SingleQuoted
	case '"':
		style = emitter.DoubleQuoted
	case '|':
		style = emitter.Literal
	case '>':
		style = emitter.Folded
	default:
		return emitter.Event{}, fmt.Errorf("%w: unknown scalar style %q", ErrSyntax, rest[0])
	}
	v, err := Unescape(rest[1:])
	if err != nil {
		return emitter.Event{}, err
	}
	return emitter.Event{
		Type:   emitter.EventScalar,
		Scalar: &emitter.Scalar{Tag: tag, Value: v, Style: style},
	}, nil
}

// props consumes an optional anchor and tag.
func props(rest string) (*string, string, error) {
	if strings.HasPrefix(rest, "&") {
		return nil, "", ErrAnchor
	}
	if !strings.HasPrefix(rest, "<") {
		return nil, rest, nil
	}
	end := strings.IndexByte(rest, '>')
	if end < 0 {
		return nil, "", fmt.Errorf("%w: unterminated tag", ErrSyntax)
	}
	tag := rest[1:end]
	rest = strings.TrimPrefix(rest[end+1:], " ")
	if strings.HasPrefix(rest, "&") {
		return nil, "", ErrAnchor
	}
	return &tag, rest, nil
}

// Unescape reverses Escape.
func Unescape(v string) (string, error) {
	if strings.IndexByte(v, '\\') < 0 {
		return v, nil
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(v) {
			return "", fmt.Errorf("%w: trailing backslash", ErrSyntax)
		}
		switch v[i] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case '0':
			b.WriteByte(0)
		case 'x':
			if i+3 > len(v) {
				return "", fmt.Errorf("%w: short \\x escape", ErrSyntax)
			}
			x, err := strconv.ParseUint(v[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("%w: bad \\x escape %q", ErrSyntax, v[i+1:i+3])
			}
			b.WriteByte(byte(x))
			i += 2
		default:
			return "", fmt.Errorf("%w: unknown escape \\%c", ErrSyntax, v[i])
		}
	}
	return b.String(), nil
}
