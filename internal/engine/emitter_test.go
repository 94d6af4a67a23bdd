package engine

import (
	"bytes"
	"testing"
)

func mustEvent(t *testing.T) func(Event, bool) Event {
	return func(ev Event, ok bool) Event {
		t.Helper()
		if !ok {
			t.Fatalf("event initialization failed")
		}
		return ev
	}
}

// emitDoc runs body through a fresh emitter, wrapped in a stream and a
// single implicit document.
func emitDoc(t *testing.T, body ...Event) string {
	t.Helper()
	ev := mustEvent(t)
	events := []Event{
		ev(NewStreamStartEvent(UTF8Encoding)),
		ev(NewDocumentStartEvent(true)),
	}
	events = append(events, body...)
	events = append(events,
		ev(NewDocumentEndEvent(true)),
		ev(NewStreamEndEvent()),
	)
	return emitAll(t, events...)
}

func emitAll(t *testing.T, events ...Event) string {
	t.Helper()
	var buf bytes.Buffer
	e := new(Emitter)
	if !e.Initialize() {
		t.Fatalf("initialize: %s", e.Problem)
	}
	defer e.Delete()
	e.SetUnicode(true)
	e.SetWidth(-1)
	e.SetOutput(func(b []byte) bool {
		buf.Write(b)
		return true
	})
	for i := range events {
		if !e.Emit(&events[i]) {
			t.Fatalf("emit %s: %s %s", events[i].Type, e.Error, e.Problem)
		}
	}
	return buf.String()
}

func scalar(t *testing.T, value string, style ScalarStyle) Event {
	t.Helper()
	return mustEvent(t)(NewScalarEvent(nil, nil, []byte(value), true, true, style))
}

func taggedScalar(t *testing.T, tag, value string) Event {
	t.Helper()
	return mustEvent(t)(NewScalarEvent(nil, []byte(tag), []byte(value), false, false, AnyScalarStyle))
}

func seqStart(t *testing.T, style SequenceStyle) Event {
	t.Helper()
	return mustEvent(t)(NewSequenceStartEvent(nil, nil, true, style))
}

func mapStart(t *testing.T, style MappingStyle) Event {
	t.Helper()
	return mustEvent(t)(NewMappingStartEvent(nil, nil, true, style))
}

func seqEnd(t *testing.T) Event {
	return mustEvent(t)(NewSequenceEndEvent())
}

func mapEnd(t *testing.T) Event {
	return mustEvent(t)(NewMappingEndEvent())
}

func TestEmitterScalars(t *testing.T) {
	tests := []struct {
		name  string
		value string
		style ScalarStyle
		want  string
	}{
		{"plain", "hello", PlainScalarStyle, "hello\n"},
		{"any", "hello", AnyScalarStyle, "hello\n"},
		{"single", "x", SingleQuotedScalarStyle, "'x'\n"},
		{"single-quote", "it's", SingleQuotedScalarStyle, "'it''s'\n"},
		{"double", "x", DoubleQuotedScalarStyle, "\"x\"\n"},
		{"double-escapes", "a\tb\\\"", DoubleQuotedScalarStyle, "\"a\\tb\\\\\\\"\"\n"},
		{"tab-forces-double", "a\tb", PlainScalarStyle, "\"a\\tb\"\n"},
		{"control", "\x01", PlainScalarStyle, "\"\\x01\"\n"},
		{"next-line", "a\u0085b", PlainScalarStyle, "\"a\\Nb\"\n"},
		{"indicator", "- a", PlainScalarStyle, "'- a'\n"},
		{"comment", "a #b", PlainScalarStyle, "'a #b'\n"},
		{"leading-space", " a", PlainScalarStyle, "' a'\n"},
		{"document-marker", "---", PlainScalarStyle, "'---'\n"},
		{"unicode", "héllo", PlainScalarStyle, "héllo\n"},
		{"literal", "a\nb\n", LiteralScalarStyle, "|\n  a\n  b\n"},
		{"literal-strip", "a", LiteralScalarStyle, "|-\n  a\n"},
		{"literal-keep", "a\n\n", LiteralScalarStyle, "|+\n  a\n\n...\n"},
		{"literal-indent-hint", " a\n", LiteralScalarStyle, "|2\n   a\n"},
		{"folded", "a b\n", FoldedScalarStyle, ">\n  a b\n"},
		{"literal-trailing-space", "a \n", LiteralScalarStyle, "\"a \\n\"\n"},
		{"multiline-plain", "a\nb", PlainScalarStyle, "'a\n\n  b'\n"},
		{"empty", "", PlainScalarStyle, "---\n"},
		{"empty-single", "", SingleQuotedScalarStyle, "''\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := emitDoc(t, scalar(t, tt.value, tt.style))
			if got != tt.want {
				t.Errorf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestEmitterTags(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"tag:yaml.org,2002:int", "!!int 1\n"},
		{"!local", "!local 1\n"},
		{"urn:x", "!<urn:x> 1\n"},
		{"!", "!<!> 1\n"},
		{"tag:yaml.org,2002:a b", "!!a%20b 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := emitDoc(t, taggedScalar(t, tt.tag, "1"))
			if got != tt.want {
				t.Errorf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestEmitterCollections(t *testing.T) {
	tests := []struct {
		name string
		body func(t *testing.T) []Event
		want string
	}{
		{
			name: "mapping",
			body: func(t *testing.T) []Event {
				return []Event{mapStart(t, AnyMappingStyle), scalar(t, "a", PlainScalarStyle), scalar(t, "b", PlainScalarStyle), mapEnd(t)}
			},
			want: "a: b\n",
		},
		{
			name: "sequence",
			body: func(t *testing.T) []Event {
				return []Event{seqStart(t, AnySequenceStyle), scalar(t, "a", PlainScalarStyle), scalar(t, "b", PlainScalarStyle), seqEnd(t)}
			},
			want: "- a\n- b\n",
		},
		{
			name: "empty-mapping",
			body: func(t *testing.T) []Event {
				return []Event{mapStart(t, BlockMappingStyle), mapEnd(t)}
			},
			want: "{}\n",
		},
		{
			name: "empty-sequence",
			body: func(t *testing.T) []Event {
				return []Event{seqStart(t, BlockSequenceStyle), seqEnd(t)}
			},
			want: "[]\n",
		},
		{
			name: "sequence-in-mapping",
			body: func(t *testing.T) []Event {
				return []Event{
					mapStart(t, AnyMappingStyle),
					scalar(t, "k", PlainScalarStyle),
					seqStart(t, AnySequenceStyle), scalar(t, "x", PlainScalarStyle), seqEnd(t),
					mapEnd(t),
				}
			},
			want: "k:\n- x\n",
		},
		{
			name: "mapping-in-mapping",
			body: func(t *testing.T) []Event {
				return []Event{
					mapStart(t, AnyMappingStyle),
					scalar(t, "a", PlainScalarStyle),
					mapStart(t, AnyMappingStyle), scalar(t, "b", PlainScalarStyle), scalar(t, "c", PlainScalarStyle), mapEnd(t),
					mapEnd(t),
				}
			},
			want: "a:\n  b: c\n",
		},
		{
			name: "mapping-in-sequence",
			body: func(t *testing.T) []Event {
				return []Event{
					seqStart(t, AnySequenceStyle),
					mapStart(t, AnyMappingStyle), scalar(t, "a", PlainScalarStyle), scalar(t, "b", PlainScalarStyle), mapEnd(t),
					seqEnd(t),
				}
			},
			want: "- a: b\n",
		},
		{
			name: "empty-value",
			body: func(t *testing.T) []Event {
				return []Event{mapStart(t, AnyMappingStyle), scalar(t, "a", PlainScalarStyle), scalar(t, "", PlainScalarStyle), mapEnd(t)}
			},
			want: "a:\n",
		},
		{
			name: "empty-key",
			body: func(t *testing.T) []Event {
				return []Event{mapStart(t, AnyMappingStyle), scalar(t, "", PlainScalarStyle), scalar(t, "v", PlainScalarStyle), mapEnd(t)}
			},
			want: "'': v\n",
		},
		{
			name: "flow-sequence",
			body: func(t *testing.T) []Event {
				return []Event{seqStart(t, FlowSequenceStyle), scalar(t, "a", PlainScalarStyle), scalar(t, "b", PlainScalarStyle), seqEnd(t)}
			},
			want: "[a, b]\n",
		},
		{
			name: "flow-mapping",
			body: func(t *testing.T) []Event {
				return []Event{mapStart(t, FlowMappingStyle), scalar(t, "a", PlainScalarStyle), scalar(t, "b", PlainScalarStyle), mapEnd(t)}
			},
			want: "{a: b}\n",
		},
		{
			name: "tagged-mapping",
			body: func(t *testing.T) []Event {
				start := mustEvent(t)(NewMappingStartEvent(nil, []byte("!foo"), false, AnyMappingStyle))
				return []Event{start, scalar(t, "a", PlainScalarStyle), scalar(t, "b", PlainScalarStyle), mapEnd(t)}
			},
			want: "!foo\na: b\n",
		},
		{
			name: "multiline-key",
			body: func(t *testing.T) []Event {
				return []Event{mapStart(t, AnyMappingStyle), scalar(t, "a\nb", PlainScalarStyle), scalar(t, "c", PlainScalarStyle), mapEnd(t)}
			},
			want: "? 'a\n\n  b'\n: c\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := emitDoc(t, tt.body(t)...)
			if got != tt.want {
				t.Errorf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestEmitterAnchors(t *testing.T) {
	ev := mustEvent(t)
	got := emitDoc(t,
		mapStart(t, AnyMappingStyle),
		scalar(t, "a", PlainScalarStyle),
		ev(NewScalarEvent([]byte("x"), nil, []byte("1"), true, true, PlainScalarStyle)),
		scalar(t, "b", PlainScalarStyle),
		ev(NewAliasEvent([]byte("x"))),
		mapEnd(t),
	)
	want := "a: &x 1\nb: *x\n"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestEmitterDocuments(t *testing.T) {
	ev := mustEvent(t)
	got := emitAll(t,
		ev(NewStreamStartEvent(UTF8Encoding)),
		ev(NewDocumentStartEvent(true)),
		scalar(t, "a", PlainScalarStyle),
		ev(NewDocumentEndEvent(true)),
		ev(NewDocumentStartEvent(true)),
		mapStart(t, AnyMappingStyle), scalar(t, "b", PlainScalarStyle), scalar(t, "2", PlainScalarStyle), mapEnd(t),
		ev(NewDocumentEndEvent(false)),
		ev(NewStreamEndEvent()),
	)
	want := "a\n---\nb: 2\n...\n"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestEmitterOutOfOrder(t *testing.T) {
	ev := mustEvent(t)
	tests := []struct {
		name    string
		events  []Event
		problem string
	}{
		{
			name:    "no-stream-start",
			events:  []Event{ev(NewDocumentStartEvent(true))},
			problem: "expected STREAM-START",
		},
		{
			name: "collection-outside-document",
			events: []Event{
				ev(NewStreamStartEvent(UTF8Encoding)),
				ev(NewSequenceStartEvent(nil, nil, true, BlockSequenceStyle)),
			},
			problem: "expected DOCUMENT-START or STREAM-END",
		},
		{
			name: "mapping-after-stream-end",
			events: []Event{
				ev(NewStreamStartEvent(UTF8Encoding)),
				ev(NewStreamEndEvent()),
				ev(NewMappingStartEvent(nil, nil, true, BlockMappingStyle)),
			},
			problem: "expected nothing after STREAM-END",
		},
		{
			name:    "scalar-outside-document",
			events:  []Event{ev(NewStreamStartEvent(UTF8Encoding)), scalar(t, "a", PlainScalarStyle)},
			problem: "expected DOCUMENT-START or STREAM-END",
		},
		{
			name: "after-stream-end",
			events: []Event{
				ev(NewStreamStartEvent(UTF8Encoding)),
				ev(NewStreamEndEvent()),
				ev(NewStreamEndEvent()),
			},
			problem: "expected nothing after STREAM-END",
		},
		{
			name: "missing-tag",
			events: []Event{
				ev(NewStreamStartEvent(UTF8Encoding)),
				ev(NewDocumentStartEvent(true)),
				ev(NewScalarEvent(nil, nil, []byte("a"), false, false, PlainScalarStyle)),
			},
			problem: "neither tag nor implicit flags are specified",
		},
		{
			name: "empty-tag",
			events: []Event{
				ev(NewStreamStartEvent(UTF8Encoding)),
				ev(NewDocumentStartEvent(true)),
				ev(NewScalarEvent(nil, []byte{}, []byte("a"), false, false, PlainScalarStyle)),
			},
			problem: "tag value must not be empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := new(Emitter)
			e.Initialize()
			defer e.Delete()
			e.SetOutput(func([]byte) bool { return true })
			ok := true
			for i := range tt.events {
				if ok = e.Emit(&tt.events[i]); !ok {
					break
				}
			}
			if ok {
				t.Fatalf("expected failure")
			}
			if e.Error != EmitterError || e.Problem != tt.problem {
				t.Errorf("got %s %q want EMITTER %q", e.Error, e.Problem, tt.problem)
			}
			// sticky
			again := scalar(t, "b", PlainScalarStyle)
			if e.Emit(&again) || e.Flush() {
				t.Errorf("expected sticky failure")
			}
			if e.Problem != tt.problem {
				t.Errorf("problem changed to %q", e.Problem)
			}
		})
	}
}

func TestEmitterWriteError(t *testing.T) {
	ev := mustEvent(t)
	e := new(Emitter)
	e.Initialize()
	defer e.Delete()
	e.SetOutput(func([]byte) bool { return false })
	events := []Event{
		ev(NewStreamStartEvent(UTF8Encoding)),
		ev(NewDocumentStartEvent(true)),
		scalar(t, "a", PlainScalarStyle),
		ev(NewDocumentEndEvent(true)),
	}
	for i := range events[:3] {
		if !e.Emit(&events[i]) {
			t.Fatalf("emit %s: %s", events[i].Type, e.Problem)
		}
	}
	if e.Emit(&events[3]) {
		t.Fatalf("expected write failure at document end")
	}
	if e.Error != WriterError || e.Problem != "write error" {
		t.Errorf("got %s %q", e.Error, e.Problem)
	}
}

func TestEmitterBufferFull(t *testing.T) {
	ev := mustEvent(t)
	value := bytes.Repeat([]byte("a"), 3*outputBufferSize)
	var writes int
	var buf bytes.Buffer
	e := new(Emitter)
	e.Initialize()
	defer e.Delete()
	e.SetUnicode(true)
	e.SetWidth(-1)
	e.SetOutput(func(b []byte) bool {
		writes++
		buf.Write(b)
		return true
	})
	events := []Event{
		ev(NewStreamStartEvent(UTF8Encoding)),
		ev(NewDocumentStartEvent(true)),
		ev(NewScalarEvent(nil, nil, value, true, true, PlainScalarStyle)),
	}
	for i := range events {
		if !e.Emit(&events[i]) {
			t.Fatalf("emit: %s", e.Problem)
		}
	}
	if writes < 2 {
		t.Errorf("expected the full buffer to be flushed, got %d writes", writes)
	}
	if !e.Flush() {
		t.Fatalf("flush: %s", e.Problem)
	}
	if !bytes.Equal(buf.Bytes(), value) {
		t.Errorf("got %d bytes want %d", buf.Len(), len(value))
	}
}

func TestEmitterInitializeTwice(t *testing.T) {
	e := new(Emitter)
	if !e.Initialize() {
		t.Fatal("first initialize failed")
	}
	if e.Initialize() {
		t.Fatal("second initialize succeeded")
	}
	if e.Error != MemoryError {
		t.Errorf("got %s", e.Error)
	}
	e.Delete()
	e.Delete()
}

func TestNewEventsValidateUTF8(t *testing.T) {
	if _, ok := NewScalarEvent(nil, nil, []byte{0xff}, true, true, PlainScalarStyle); ok {
		t.Error("invalid value accepted")
	}
	if _, ok := NewMappingStartEvent(nil, []byte{0xff}, false, AnyMappingStyle); ok {
		t.Error("invalid tag accepted")
	}
	if _, ok := NewAliasEvent(nil); ok {
		t.Error("nil alias accepted")
	}
	tag := []byte("!t")
	ev, ok := NewSequenceStartEvent(nil, tag, false, AnySequenceStyle)
	if !ok {
		t.Fatal("valid tag rejected")
	}
	tag[1] = 'x'
	if string(ev.Tag) != "!t" {
		t.Errorf("event shares tag storage: %q", ev.Tag)
	}
}
