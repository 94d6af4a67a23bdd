package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type parsed struct {
	Type   EventType
	Anchor string
	Tag    string
	Value  string
	Style  ScalarStyle
}

func parseAll(t *testing.T, input string) ([]parsed, *Parser) {
	t.Helper()
	p := new(Parser)
	if !p.Initialize() {
		t.Fatalf("initialize: %s", p.Problem)
	}
	t.Cleanup(p.Delete)
	p.SetEncoding(UTF8Encoding)
	p.SetInputString([]byte(input))
	var res []parsed
	for {
		var ev Event
		if !p.Parse(&ev) {
			return res, p
		}
		if ev.Type == NoEvent {
			return res, p
		}
		res = append(res, parsed{
			Type:   ev.Type,
			Anchor: string(ev.Anchor),
			Tag:    string(ev.Tag),
			Value:  string(ev.Value),
			Style:  ev.ScalarStyle,
		})
	}
}

func TestParserEvents(t *testing.T) {
	var (
		sst = parsed{Type: StreamStartEvent}
		sen = parsed{Type: StreamEndEvent}
		dst = parsed{Type: DocumentStartEvent}
		den = parsed{Type: DocumentEndEvent}
		mst = parsed{Type: MappingStartEvent}
		men = parsed{Type: MappingEndEvent}
		qst = parsed{Type: SequenceStartEvent}
		qen = parsed{Type: SequenceEndEvent}
	)
	plain := func(v string) parsed {
		return parsed{Type: ScalarEvent, Value: v, Style: PlainScalarStyle}
	}
	tests := []struct {
		name  string
		input string
		want  []parsed
	}{
		{"empty", "", []parsed{sst, sen}},
		{"scalar", "hello", []parsed{sst, dst, plain("hello"), den, sen}},
		{"flow-mapping", "{}", []parsed{sst, dst, mst, men, den, sen}},
		{"flow-sequence", "[a, b]", []parsed{sst, dst, qst, plain("a"), plain("b"), qen, den, sen}},
		{"mapping", "a: 1\nb: c\n", []parsed{sst, dst, mst, plain("a"), plain("1"), plain("b"), plain("c"), men, den, sen}},
		{"sequence", "- a\n- b\n", []parsed{sst, dst, qst, plain("a"), plain("b"), qen, den, sen}},
		{"nested", "a:\n  - x\n", []parsed{sst, dst, mst, plain("a"), qst, plain("x"), qen, men, den, sen}},
		{"empty-value", "a:\n", []parsed{sst, dst, mst, plain("a"), plain(""), men, den, sen}},
		{"null", "a: ~\n", []parsed{sst, dst, mst, plain("a"), plain("~"), men, den, sen}},
		{"duplicate-keys", "a: 1\na: 2\n", []parsed{sst, dst, mst, plain("a"), plain("1"), plain("a"), plain("2"), men, den, sen}},
		{
			"quoted",
			"- 'x'\n- \"y\"\n",
			[]parsed{sst, dst, qst,
				{Type: ScalarEvent, Value: "x", Style: SingleQuotedScalarStyle},
				{Type: ScalarEvent, Value: "y", Style: DoubleQuotedScalarStyle},
				qen, den, sen},
		},
		{
			"literal",
			"a: |\n  x\n",
			[]parsed{sst, dst, mst, plain("a"),
				{Type: ScalarEvent, Value: "x\n", Style: LiteralScalarStyle},
				men, den, sen},
		},
		{
			"tags",
			"- !!str 1\n- !local x\n",
			[]parsed{sst, dst, qst,
				{Type: ScalarEvent, Tag: "tag:yaml.org,2002:str", Value: "1", Style: PlainScalarStyle},
				{Type: ScalarEvent, Tag: "!local", Value: "x", Style: PlainScalarStyle},
				qen, den, sen},
		},
		{
			"alias",
			"a: &x 1\nb: *x\n",
			[]parsed{sst, dst, mst,
				plain("a"),
				{Type: ScalarEvent, Anchor: "x", Value: "1", Style: PlainScalarStyle},
				plain("b"),
				{Type: AliasEvent, Anchor: "x"},
				men, den, sen},
		},
		{
			"tagged-block-value",
			"a: !!str 123\nb: !custom foo\n",
			[]parsed{sst, dst, mst,
				plain("a"),
				{Type: ScalarEvent, Tag: "tag:yaml.org,2002:str", Value: "123", Style: PlainScalarStyle},
				plain("b"),
				{Type: ScalarEvent, Tag: "!custom", Value: "foo", Style: PlainScalarStyle},
				men, den, sen},
		},
		{
			"tagged-flow-mapping",
			"!foo {a: b}",
			[]parsed{sst, dst, {Type: MappingStartEvent, Tag: "!foo"}, plain("a"), plain("b"), men, den, sen},
		},
		{
			"tag-default-value",
			"[!!str, x]",
			[]parsed{sst, dst, qst,
				{Type: ScalarEvent, Tag: "tag:yaml.org,2002:str", Style: PlainScalarStyle},
				plain("x"),
				qen, den, sen},
		},
		{
			"tag-only-document",
			"!!null",
			[]parsed{sst, dst, {Type: ScalarEvent, Tag: "tag:yaml.org,2002:null", Style: PlainScalarStyle}, den, sen},
		},
		{
			"tag-only-line",
			"!!str\n",
			[]parsed{sst, dst, {Type: ScalarEvent, Tag: "tag:yaml.org,2002:str", Style: PlainScalarStyle}, den, sen},
		},
		{
			"tag-directive",
			"%TAG !e! tag:example.com,2000:\n---\n!e!foo x",
			[]parsed{sst, dst, {Type: ScalarEvent, Tag: "tag:example.com,2000:foo", Value: "x", Style: PlainScalarStyle}, den, sen},
		},
		{"documents", "a\n---\nb\n", []parsed{sst, dst, plain("a"), den, dst, plain("b"), den, sen}},
		{"explicit-empty", "---\n", []parsed{sst, dst, plain(""), den, sen}},
		{"bom", "\ufeffhello", []parsed{sst, dst, plain("hello"), den, sen}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, p := parseAll(t, tt.input)
			if p.Error != NoError {
				t.Fatalf("%s: %s", p.Error, p.Problem)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParserImplicitFlags(t *testing.T) {
	p := new(Parser)
	p.Initialize()
	defer p.Delete()
	p.SetInputString([]byte("--- 'a'\n...\n"))
	var evs []Event
	for {
		var ev Event
		if !p.Parse(&ev) {
			t.Fatalf("%s: %s", p.Error, p.Problem)
		}
		if ev.Type == NoEvent {
			break
		}
		evs = append(evs, ev)
	}
	if len(evs) != 5 {
		t.Fatalf("got %d events", len(evs))
	}
	if evs[1].Implicit {
		t.Errorf("document start should be explicit")
	}
	if evs[2].Implicit || !evs[2].QuotedImplicit {
		t.Errorf("quoted scalar flags: plain %v quoted %v", evs[2].Implicit, evs[2].QuotedImplicit)
	}
	if evs[3].Implicit {
		t.Errorf("document end should be explicit")
	}
}

func TestParserMarks(t *testing.T) {
	p := new(Parser)
	p.Initialize()
	defer p.Delete()
	input := "a: bc\nd: 'e'\n"
	p.SetInputString([]byte(input))
	var scalars []Event
	for {
		var ev Event
		if !p.Parse(&ev) {
			t.Fatalf("%s: %s", p.Error, p.Problem)
		}
		if ev.Type == NoEvent {
			break
		}
		if ev.Type == ScalarEvent {
			scalars = append(scalars, ev)
		}
	}
	want := []struct {
		start, end Mark
		text       string
	}{
		{Mark{0, 0, 0}, Mark{1, 0, 1}, "a"},
		{Mark{3, 0, 3}, Mark{5, 0, 5}, "bc"},
		{Mark{6, 1, 0}, Mark{7, 1, 1}, "d"},
		{Mark{9, 1, 3}, Mark{12, 1, 6}, "'e'"},
	}
	if len(scalars) != len(want) {
		t.Fatalf("got %d scalars", len(scalars))
	}
	for i, w := range want {
		ev := scalars[i]
		if diff := cmp.Diff(w.start, ev.StartMark); diff != "" {
			t.Errorf("scalar %d start (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(w.end, ev.EndMark); diff != "" {
			t.Errorf("scalar %d end (-want +got):\n%s", i, diff)
		}
		if got := input[ev.StartMark.Index:ev.EndMark.Index]; got != w.text {
			t.Errorf("scalar %d text %q want %q", i, got, w.text)
		}
	}
}

func TestParserTaggedMarks(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a: !!str 123\n", []string{"a", "!!str 123"}},
		{"!foo {a: b, c: 'd'}", []string{"a", "b", "c", "'d'"}},
		{"- &x !t y\n- !!int 7\n", []string{"&x !t y", "!!int 7"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := new(Parser)
			p.Initialize()
			defer p.Delete()
			p.SetInputString([]byte(tt.input))
			var got []string
			for {
				var ev Event
				if !p.Parse(&ev) {
					t.Fatalf("%s: %s", p.Error, p.Problem)
				}
				if ev.Type == NoEvent {
					break
				}
				if ev.Type == ScalarEvent {
					got = append(got, tt.input[ev.StartMark.Index:ev.EndMark.Index])
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("scalar text (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParserUndefinedTagHandle(t *testing.T) {
	_, p := parseAll(t, "- !e!foo x\n")
	if p.Error != ParserError {
		t.Fatalf("got %s %q want PARSER", p.Error, p.Problem)
	}
	if p.Problem != "found undefined tag handle" || p.Context != "while parsing a node" {
		t.Errorf("got %q, %q", p.Problem, p.Context)
	}
	if p.ProblemMark.Column != 2 {
		t.Errorf("mark %+v", p.ProblemMark)
	}
}

func TestParserTagDirectiveScope(t *testing.T) {
	_, p := parseAll(t, "%TAG !e! tag:example.com,2000:\n---\n!e!a x\n...\n---\n!e!b y\n")
	if p.Error != ParserError || p.Problem != "found undefined tag handle" {
		t.Fatalf("handle leaked into the next document: %s %q", p.Error, p.Problem)
	}
	if p.ProblemMark.Line != 5 {
		t.Errorf("mark %+v", p.ProblemMark)
	}
}

// Complex keys are not supported by the underlying grammar.
func TestParserComplexKey(t *testing.T) {
	_, p := parseAll(t, "? [a]\n: b\n")
	if p.Error != ParserError {
		t.Errorf("got %s %q want PARSER", p.Error, p.Problem)
	}
}

func TestParserUnclosedFlow(t *testing.T) {
	tests := []struct {
		input   string
		context string
	}{
		{"[a, b", "while parsing a flow sequence"},
		{"x: {a: b", "while parsing a flow mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, p := parseAll(t, tt.input)
			if p.Error != ParserError {
				t.Fatalf("got %s want PARSER", p.Error)
			}
			end := Mark{Index: len(tt.input), Line: 0, Column: len(tt.input)}
			if diff := cmp.Diff(end, p.ProblemMark); diff != "" {
				t.Errorf("problem mark (-want +got):\n%s", diff)
			}
			if p.ProblemOffset != len(tt.input) {
				t.Errorf("offset %d", p.ProblemOffset)
			}
			if p.Context != tt.context {
				t.Errorf("context %q", p.Context)
			}
		})
	}
}

func TestParserReaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		problem string
		offset  int
	}{
		{"leading", "a\xffb", "invalid leading UTF-8 octet", 1},
		{"trailing", "ab\xc3(", "invalid trailing UTF-8 octet", 2},
		{"incomplete", "abc\xe2\x82", "incomplete UTF-8 octet sequence", 3},
		{"control", "a\x01", "control characters are not allowed", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, p := parseAll(t, tt.input)
			if len(got) != 1 || got[0].Type != StreamStartEvent {
				t.Errorf("expected only STREAM-START before the error, got %v", got)
			}
			if p.Error != ReaderError {
				t.Fatalf("got %s want READER", p.Error)
			}
			if p.Problem != tt.problem || p.ProblemOffset != tt.offset {
				t.Errorf("got %q at %d want %q at %d", p.Problem, p.ProblemOffset, tt.problem, tt.offset)
			}
			if p.ProblemMark != (Mark{}) {
				t.Errorf("reader errors carry no mark, got %+v", p.ProblemMark)
			}
		})
	}
}

func TestParserSticky(t *testing.T) {
	_, p := parseAll(t, "a: [b\n")
	if p.Error != ParserError {
		t.Fatalf("got %s want PARSER", p.Error)
	}
	problem, mark := p.Problem, p.ProblemMark
	for range 3 {
		var ev Event
		if p.Parse(&ev) {
			t.Fatal("parse succeeded after error")
		}
		if ev.Type != NoEvent {
			t.Errorf("got event %s after error", ev.Type)
		}
	}
	if p.Problem != problem || p.ProblemMark != mark {
		t.Errorf("error changed: %q %+v", p.Problem, p.ProblemMark)
	}
}

func TestParserUndefinedAlias(t *testing.T) {
	got, p := parseAll(t, "a: *nope\n")
	if p.Error != ComposerError {
		t.Fatalf("got %s %q want COMPOSER", p.Error, p.Problem)
	}
	if p.Problem != "found undefined alias" {
		t.Errorf("problem %q", p.Problem)
	}
	if p.ProblemMark.Line != 0 || p.ProblemMark.Column != 3 {
		t.Errorf("mark %+v", p.ProblemMark)
	}
	if n := len(got); n == 0 || got[n-1].Value != "a" {
		t.Errorf("events before the error: %v", got)
	}
}

func TestParserEndOfStream(t *testing.T) {
	_, p := parseAll(t, "a")
	for range 2 {
		var ev Event
		if !p.Parse(&ev) || ev.Type != NoEvent {
			t.Fatalf("expected NO-EVENT after STREAM-END, got %s", ev.Type)
		}
	}
}

func TestParserInitializeTwice(t *testing.T) {
	p := new(Parser)
	if !p.Initialize() {
		t.Fatal("first initialize failed")
	}
	if p.Initialize() || p.Error != MemoryError {
		t.Fatalf("second initialize: %s", p.Error)
	}
	p.Delete()
	p.Delete()
	defer func() {
		if recover() == nil {
			t.Error("expected panic after Delete")
		}
	}()
	var ev Event
	p.Parse(&ev)
}
