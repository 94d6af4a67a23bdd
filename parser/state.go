package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// State tracks nesting and the path of the current node over a stream of
// events. It checks that collections are balanced; it does not otherwise
// validate the stream.
type State struct {
	stack []item
}

type item struct {
	mapping bool
	n       int
	key     string
	hasKey  bool
}

func NewState() *State {
	return &State{}
}

func (s *State) current() *item {
	return &s.stack[len(s.stack)-1]
}

func (s *State) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

// ProcessEvent updates the state with ev. Call it for each event in order.
func (s *State) ProcessEvent(ev *Event) error {
	switch ev.Type {
	case EventStreamStart, EventStreamEnd, EventDocumentStart, EventDocumentEnd:
		if s.Depth() > 0 {
			return fmt.Errorf("%s inside a collection at %s", ev.Type, s.CurrentPath())
		}
	case EventSequenceStart, EventMappingStart:
		s.node(ev)
		s.stack = append(s.stack, item{mapping: ev.Type == EventMappingStart, n: -1})
	case EventSequenceEnd:
		if s.Depth() == 0 || s.current().mapping {
			return fmt.Errorf("%s outside a sequence", ev.Type)
		}
		s.pop()
	case EventMappingEnd:
		if s.Depth() == 0 || !s.current().mapping {
			return fmt.Errorf("%s outside a mapping", ev.Type)
		}
		if s.current().hasKey {
			return fmt.Errorf("key %s has no value", s.CurrentPath())
		}
		s.pop()
	case EventScalar, EventAlias:
		s.node(ev)
	}
	return nil
}

func (s *State) node(ev *Event) {
	if s.Depth() == 0 {
		return
	}
	cur := s.current()
	if !cur.mapping {
		cur.n++
		return
	}
	if cur.hasKey {
		cur.hasKey = false
		return
	}
	cur.hasKey = true
	switch ev.Type {
	case EventScalar:
		cur.key = string(ev.Scalar.Value)
	case EventAlias:
		cur.key = "*" + ev.Alias.String()
	default:
		cur.key = "?"
	}
}

// Depth returns the number of open collections.
func (s *State) Depth() int {
	return len(s.stack)
}

// CurrentPath returns the path of the last node processed, such as "",
// "a", "a.b[2]" or `a."x.y"`.
func (s *State) CurrentPath() string {
	var b strings.Builder
	for i := range s.stack {
		it := &s.stack[i]
		switch {
		case it.mapping:
			if !it.hasKey && it.key == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(pathKey(it.key))
		case it.n >= 0:
			fmt.Fprintf(&b, "[%d]", it.n)
		}
	}
	return b.String()
}

// IsInMapping reports whether the innermost open collection is a mapping.
func (s *State) IsInMapping() bool {
	return s.Depth() > 0 && s.current().mapping
}

// IsInSequence reports whether the innermost open collection is a sequence.
func (s *State) IsInSequence() bool {
	return s.Depth() > 0 && !s.current().mapping
}

func pathKey(k string) string {
	if k == "" || strings.ContainsAny(k, ".[]\" \t\n") {
		return strconv.Quote(k)
	}
	return k
}
