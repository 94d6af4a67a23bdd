package engine

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"

	"github.com/signadot/yev/debug"
)

// CoreTagPrefix is the prefix the "!!" tag handle expands to.
const CoreTagPrefix = "tag:yaml.org,2002:"

var bom = []byte{0xEF, 0xBB, 0xBF}

type parserState int

const (
	parseStreamStartState parserState = iota
	parseDocumentStartState
	parseDocumentContentState
	parseNodeState
	parseDocumentEndState
	parseEndState
)

// Parser is the pull side of the engine. The input is scanned and parsed by
// the goccy/go-yaml lexer and parser the first time document content is
// requested; the resulting syntax tree is then walked one event per Parse
// call.
type Parser struct {
	noCopy noCopy

	Error         ErrorType
	Problem       string
	ProblemOffset int
	ProblemValue  int
	ProblemMark   Mark
	Context       string
	ContextMark   Mark

	initialized bool
	encoding    Encoding
	input       []byte
	inputSet    bool
	base        int
	lines       *lineDoc

	state   parserState
	loaded  bool
	docs    []*ast.DocumentNode
	doc     int
	stack   []frame
	anchors map[string]bool
	handles map[string]string
	last    Mark
}

type frame struct {
	end    EventType
	nodes  []ast.Node
	next   int
	endTok *token.Token
}

// Initialize prepares a zero Parser for use. It fails with a MemoryError if
// the handle has already been initialized and not deleted.
func (p *Parser) Initialize() bool {
	if p.initialized {
		p.Error = MemoryError
		p.Problem = "parser handle is already in use"
		return false
	}
	p.initialized = true
	p.state = parseStreamStartState
	p.stack = make([]frame, 0, 16)
	p.anchors = map[string]bool{}
	p.handles = map[string]string{}
	return true
}

// Delete releases the parser state. Deleting twice is a no-op.
func (p *Parser) Delete() {
	if !p.initialized {
		return
	}
	p.initialized = false
	p.input = nil
	p.lines = nil
	p.docs = nil
	p.stack = nil
	p.anchors = nil
	p.handles = nil
}

func (p *Parser) SetEncoding(enc Encoding) {
	p.mustBeInitialized()
	if p.encoding != AnyEncoding {
		panic("engine: parser encoding is already set")
	}
	p.encoding = enc
}

// SetInputString binds the input buffer. The parser reads it in place and
// never modifies it.
func (p *Parser) SetInputString(input []byte) {
	p.mustBeInitialized()
	if p.inputSet {
		panic("engine: parser input is already set")
	}
	p.inputSet = true
	p.input = input
	if bytes.HasPrefix(input, bom) {
		p.base = len(bom)
	}
	p.lines = newLineDoc(input[p.base:])
}

func (p *Parser) mustBeInitialized() {
	if !p.initialized {
		panic("engine: parser handle used before Initialize or after Delete")
	}
}

// Parse produces the next event. After STREAM-END it produces NO-EVENT. It
// returns false once an error has been recorded, without touching ev's
// previous content beyond clearing it.
func (p *Parser) Parse(ev *Event) bool {
	p.mustBeInitialized()
	*ev = Event{}
	if p.Error != NoError {
		return false
	}
	if !p.inputSet {
		panic("engine: parser input is not set")
	}
	ok := p.stateMachine(ev)
	if ok && ev.Type != NoEvent {
		p.last = ev.EndMark
		if debug.Engine() {
			debug.Log("engine parse", "event", ev.Type, "line", ev.StartMark.Line, "column", ev.StartMark.Column)
		}
	}
	return ok
}

func (p *Parser) stateMachine(ev *Event) bool {
	switch p.state {
	case parseStreamStartState:
		m := p.mark(0)
		*ev = Event{Type: StreamStartEvent, Encoding: p.encoding, StartMark: m, EndMark: m}
		p.state = parseDocumentStartState
		return true

	case parseDocumentStartState:
		if !p.loaded && !p.load() {
			return false
		}
		for p.doc < len(p.docs) && emptyDocument(p.docs[p.doc]) {
			if d, ok := p.docs[p.doc].Body.(*ast.DirectiveNode); ok {
				p.directive(d)
			}
			p.doc++
		}
		if p.doc == len(p.docs) {
			m := p.mark(len(p.input))
			*ev = Event{Type: StreamEndEvent, StartMark: m, EndMark: m}
			p.state = parseEndState
			return true
		}
		d := p.docs[p.doc]
		start := docStart(d)
		m := p.last
		if start != nil {
			m = p.tokenMark(start)
		} else if !bodyless(d.Body) {
			m = p.nodeMark(d.Body)
		}
		clear(p.anchors)
		*ev = Event{Type: DocumentStartEvent, Implicit: start == nil, StartMark: m, EndMark: m}
		p.state = parseDocumentContentState
		return true

	case parseDocumentContentState:
		body := p.docs[p.doc].Body
		if bodyless(body) {
			body = nil
		}
		return p.node(ev, body)

	case parseNodeState:
		top := &p.stack[len(p.stack)-1]
		if top.next < len(top.nodes) {
			n := top.nodes[top.next]
			top.next++
			return p.node(ev, n)
		}
		m := p.last
		if top.endTok != nil {
			m = p.tokenMark(top.endTok)
		}
		*ev = Event{Type: top.end, StartMark: m, EndMark: m}
		p.stack = p.stack[:len(p.stack)-1]
		if len(p.stack) == 0 {
			p.state = parseDocumentEndState
		}
		return true

	case parseDocumentEndState:
		d := p.docs[p.doc]
		m := p.last
		if d.End != nil {
			m = p.tokenMark(d.End)
		}
		*ev = Event{Type: DocumentEndEvent, Implicit: d.End == nil, StartMark: m, EndMark: m}
		clear(p.handles)
		p.doc++
		p.state = parseDocumentStartState
		return true

	case parseEndState:
		return true
	}
	panic(fmt.Sprintf("engine: invalid parser state %d", p.state))
}

func (p *Parser) load() bool {
	p.loaded = true
	if off, problem, value := checkInput(p.input); problem != "" {
		return p.readerError(problem, off, value)
	}
	f, err := parser.ParseBytes(scannable(p.input[p.base:]), 0, parser.AllowDuplicateMapKey())
	if err != nil {
		return p.syntaxError(err)
	}
	p.docs = f.Docs
	return true
}

// node produces the event for n, pushing a frame when n is a collection. A
// nil node is an empty plain scalar.
func (p *Parser) node(ev *Event, n ast.Node) bool {
	start := p.last
	if n != nil {
		start = p.nodeMark(n)
	}
	var anchor, tag []byte
	for unwrap := true; unwrap; {
		switch x := n.(type) {
		case *ast.TagNode:
			var ok bool
			if tag, ok = p.resolveTag(x.Start.Value); !ok {
				return p.parserError("found undefined tag handle", p.tokenMark(x.Start), "while parsing a node", start)
			}
			n = x.Value
		case *ast.AnchorNode:
			anchor = []byte(nodeText(x.Name))
			n = x.Value
		case *ast.MappingKeyNode:
			n = x.Value
		default:
			unwrap = false
		}
	}
	if anchor != nil {
		p.anchors[string(anchor)] = true
	}

	*ev = Event{Anchor: anchor, Tag: tag, StartMark: start, EndMark: start}
	switch x := n.(type) {
	case nil, *ast.CommentGroupNode, *ast.CommentNode:
		p.scalar(ev, []byte{}, PlainScalarStyle, nil)

	case *ast.AliasNode:
		name := nodeText(x.Value)
		if !p.anchors[name] {
			return p.composerError("found undefined alias", start)
		}
		ev.Type = AliasEvent
		ev.Anchor = []byte(name)
		ev.EndMark = p.scalarEnd(x.Value.GetToken(), PlainScalarStyle, start)

	case *ast.MappingNode:
		ev.Type = MappingStartEvent
		ev.Implicit = tag == nil
		ev.MappingStyle = BlockMappingStyle
		var end *token.Token
		if x.IsFlowStyle {
			ev.MappingStyle = FlowMappingStyle
			end = x.End
		}
		nodes := make([]ast.Node, 0, 2*len(x.Values))
		for _, mv := range x.Values {
			nodes = append(nodes, mv.Key, mv.Value)
		}
		p.push(MappingEndEvent, nodes, end)

	case *ast.MappingValueNode:
		ev.Type = MappingStartEvent
		ev.Implicit = tag == nil
		ev.MappingStyle = BlockMappingStyle
		p.push(MappingEndEvent, []ast.Node{x.Key, x.Value}, nil)

	case *ast.SequenceNode:
		ev.Type = SequenceStartEvent
		ev.Implicit = tag == nil
		ev.SequenceStyle = BlockSequenceStyle
		var end *token.Token
		if x.IsFlowStyle {
			ev.SequenceStyle = FlowSequenceStyle
			end = x.End
		}
		p.push(SequenceEndEvent, x.Values, end)

	case *ast.LiteralNode:
		style := LiteralScalarStyle
		if strings.HasPrefix(x.Start.Value, ">") {
			style = FoldedScalarStyle
		}
		value, tk := []byte{}, x.Start
		if x.Value != nil {
			value, tk = []byte(x.Value.Value), x.Value.GetToken()
		}
		p.scalar(ev, value, style, tk)

	case *ast.StringNode:
		tk := x.GetToken()
		style := PlainScalarStyle
		switch tk.Type {
		case token.SingleQuoteType:
			style = SingleQuotedScalarStyle
		case token.DoubleQuoteType:
			style = DoubleQuotedScalarStyle
		}
		if style == PlainScalarStyle && synthesized(tk, tag != nil) {
			p.scalar(ev, []byte{}, style, nil)
			break
		}
		p.scalar(ev, []byte(x.Value), style, tk)

	case *ast.NullNode, *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode, *ast.InfinityNode, *ast.NanNode, *ast.MergeKeyNode:
		tk := n.GetToken()
		if synthesized(tk, tag != nil) {
			p.scalar(ev, []byte{}, PlainScalarStyle, nil)
			break
		}
		p.scalar(ev, []byte(tk.Value), PlainScalarStyle, tk)

	default:
		return p.composerError(fmt.Sprintf("unexpected node %T", n), start)
	}

	if len(p.stack) == 0 {
		p.state = parseDocumentEndState
	} else {
		p.state = parseNodeState
	}
	return true
}

func (p *Parser) scalar(ev *Event, value []byte, style ScalarStyle, tk *token.Token) {
	ev.Type = ScalarEvent
	ev.Value = value
	ev.ScalarStyle = style
	ev.Implicit = ev.Tag == nil && style == PlainScalarStyle
	ev.QuotedImplicit = ev.Tag == nil && style != PlainScalarStyle
	if tk != nil {
		ev.EndMark = p.scalarEnd(tk, style, ev.StartMark)
	}
}

func (p *Parser) push(end EventType, nodes []ast.Node, endTok *token.Token) {
	p.stack = append(p.stack, frame{end: end, nodes: nodes, endTok: endTok})
}

// synthesized reports whether tk was made up by the parser for an empty
// node rather than scanned from the input: the implicit null of "a:", or the
// default value goccy gives a bare "!!int" or "!!str" in "[!!int, x]". The
// latter is never linked into the token list; a scanned token after a tag
// always has the tag before it.
func synthesized(tk *token.Token, tagged bool) bool {
	switch {
	case tk == nil || tk.Position == nil || tk.Type == token.ImplicitNullType:
		return true
	case tagged:
		return tk.Prev == nil && tk.Next == nil
	}
	return false
}

func (p *Parser) mark(off int) Mark {
	m := p.lines.mark(off - p.base)
	m.Index += p.base
	return m
}

// tokenMark returns the mark of the first character of tk. The goccy scanner
// does not count the separator after a tag property, so every later token on
// the same line reports a column one short per preceding tag.
func (p *Parser) tokenMark(tk *token.Token) Mark {
	if tk == nil || tk.Position == nil {
		return p.last
	}
	line, col := max(tk.Position.Line-1, 0), max(tk.Position.Column-1, 0)
	for prev := tk.Prev; prev != nil && prev.Position != nil && prev.Position.Line == tk.Position.Line; prev = prev.Prev {
		if prev.Type == token.TagType {
			col++
		}
	}
	return Mark{
		Index:  p.lines.offset(line, col) + p.base,
		Line:   line,
		Column: col,
	}
}

// nodeMark returns the start of n including its properties. Block mappings
// start at their first key.
func (p *Parser) nodeMark(n ast.Node) Mark {
	m := p.tokenMark(n.GetToken())
	switch x := n.(type) {
	case *ast.MappingNode:
		if len(x.Values) > 0 {
			if k := p.nodeMark(x.Values[0]); k.Index < m.Index {
				m = k
			}
		}
	case *ast.MappingValueNode:
		if x.Key != nil {
			if k := p.nodeMark(x.Key); k.Index < m.Index {
				m = k
			}
		}
	}
	return m
}

// scalarEnd returns the mark just past the source text of the scalar whose
// value token is tk.
func (p *Parser) scalarEnd(tk *token.Token, style ScalarStyle, start Mark) Mark {
	if tk == nil || tk.Position == nil {
		return start
	}
	src := p.input
	i := p.tokenMark(tk).Index
	switch style {
	case SingleQuotedScalarStyle:
		i = quotedEnd(src, i, '\'')
	case DoubleQuotedScalarStyle:
		i = quotedEnd(src, i, '"')
	case LiteralScalarStyle, FoldedScalarStyle:
		lo := i
		i = len(src)
		if next := tk.Next; next != nil && next.Position != nil {
			i = max(p.tokenMark(next).Index, lo)
			for i > lo && src[i-1] != '\n' {
				i--
			}
		}
	default:
		text := strings.TrimSpace(tk.Origin)
		if text == "" {
			text = tk.Value
		}
		if bytes.HasPrefix(src[i:], []byte(text)) {
			i += len(text)
		} else {
			i = plainEnd(src, i)
		}
	}
	if i < start.Index {
		return start
	}
	return p.mark(i)
}

func (p *Parser) readerError(problem string, off, value int) bool {
	p.Error = ReaderError
	p.Problem = problem
	p.ProblemOffset = off
	p.ProblemValue = value
	return false
}

func (p *Parser) parserError(problem string, m Mark, context string, cm Mark) bool {
	p.Error = ParserError
	p.Problem = problem
	p.ProblemOffset = m.Index
	p.ProblemMark = m
	p.Context = context
	p.ContextMark = cm
	return false
}

func (p *Parser) composerError(problem string, m Mark) bool {
	p.Error = ComposerError
	p.Problem = problem
	p.ProblemOffset = m.Index
	p.ProblemMark = m
	return false
}

// tokenError is implemented by the syntax errors of goccy/go-yaml.
type tokenError interface {
	GetToken() *token.Token
	GetMessage() string
}

// syntaxError records a goccy syntax error. An unclosed flow collection is
// reported where the input ran out, with the opening indicator as context;
// so is an error that carries no token at all.
func (p *Parser) syntaxError(err error) bool {
	p.Error = ParserError
	p.Problem = err.Error()
	p.ProblemMark = p.mark(len(p.input))
	var te tokenError
	if errors.As(err, &te) {
		p.Problem = te.GetMessage()
		if tk := te.GetToken(); tk != nil && tk.Position != nil {
			switch tk.Type {
			case token.SequenceStartType:
				p.Context, p.ContextMark = "while parsing a flow sequence", p.tokenMark(tk)
			case token.MappingStartType:
				p.Context, p.ContextMark = "while parsing a flow mapping", p.tokenMark(tk)
			default:
				p.ProblemMark = p.tokenMark(tk)
			}
		}
	}
	p.ProblemOffset = p.ProblemMark.Index
	return false
}

func emptyDocument(d *ast.DocumentNode) bool {
	return d == nil || (bodyless(d.Body) && docStart(d) == nil && d.End == nil)
}

// docStart returns the "---" token of d. A document without content may
// carry some other token in Start.
func docStart(d *ast.DocumentNode) *token.Token {
	if d.Start == nil || d.Start.Type != token.DocumentHeaderType {
		return nil
	}
	return d.Start
}

func bodyless(n ast.Node) bool {
	switch n.(type) {
	case nil, *ast.CommentGroupNode, *ast.CommentNode, *ast.DirectiveNode:
		return true
	}
	return false
}

func nodeText(n ast.Node) string {
	switch x := n.(type) {
	case nil:
		return ""
	case *ast.StringNode:
		return x.Value
	default:
		if tk := n.GetToken(); tk != nil {
			return tk.Value
		}
		return ""
	}
}

// directive records the handle of a %TAG directive for the next document.
func (p *Parser) directive(d *ast.DirectiveNode) {
	if nodeText(d.Name) != "TAG" || len(d.Values) != 2 {
		return
	}
	p.handles[nodeText(d.Values[0])] = nodeText(d.Values[1])
}

// resolveTag expands the shorthand forms of a tag property. It fails for a
// named handle that no %TAG directive of the document declares.
func (p *Parser) resolveTag(s string) ([]byte, bool) {
	if strings.HasPrefix(s, "!<") && strings.HasSuffix(s, ">") {
		return []byte(s[2 : len(s)-1]), true
	}
	handle, suffix := "!", strings.TrimPrefix(s, "!")
	if i := strings.IndexByte(suffix, '!'); i >= 0 {
		handle, suffix = s[:i+2], suffix[i+1:]
	}
	prefix, ok := p.handles[handle]
	if !ok {
		switch handle {
		case "!":
			prefix, ok = "!", true
		case "!!":
			prefix, ok = CoreTagPrefix, true
		}
	}
	if !ok {
		return nil, false
	}
	return []byte(prefix + suffix), true
}

// scannable returns the input to hand to goccy. Its scanner drops a tag
// that ends the input, as in "!!null" or "a: !!str", unless a line break
// follows.
func scannable(d []byte) []byte {
	line := d[bytes.LastIndexByte(d, '\n')+1:]
	fields := bytes.Fields(line)
	if len(fields) == 0 || fields[len(fields)-1][0] != '!' {
		return d
	}
	out := make([]byte, len(d)+1)
	copy(out, d)
	out[len(d)] = '\n'
	return out
}

func quotedEnd(src []byte, i int, q byte) int {
	if i >= len(src) || src[i] != q {
		j := bytes.IndexByte(src[min(i, len(src)):], q)
		if j < 0 {
			return len(src)
		}
		i += j
	}
	for j := i + 1; j < len(src); j++ {
		switch {
		case q == '"' && src[j] == '\\':
			j++
		case src[j] == q:
			if q == '\'' && j+1 < len(src) && src[j+1] == '\'' {
				j++
				continue
			}
			return j + 1
		}
	}
	return len(src)
}

// plainEnd finds the end of a single line plain scalar starting at i.
func plainEnd(src []byte, i int) int {
	j := i
loop:
	for ; j < len(src); j++ {
		switch src[j] {
		case '\n', '\r', ',', ']', '}':
			break loop
		case '#':
			if j > i && (src[j-1] == ' ' || src[j-1] == '\t') {
				break loop
			}
		case ':':
			if j+1 == len(src) || isBlankz(src, j+1) {
				break loop
			}
		}
	}
	for j > i && (src[j-1] == ' ' || src[j-1] == '\t') {
		j--
	}
	return j
}
