package engine

import (
	"bytes"
	"fmt"
	"math"

	"github.com/signadot/yev/debug"
)

// WriteHandler receives the emitter's buffered output. The slice is only
// valid for the duration of the call. Returning false records a WriterError.
type WriteHandler func(b []byte) bool

const outputBufferSize = 16384

type emitterState int

const (
	emitStreamStartState emitterState = iota
	emitFirstDocumentStartState
	emitDocumentStartState
	emitDocumentContentState
	emitDocumentEndState
	emitFlowSequenceFirstItemState
	emitFlowSequenceItemState
	emitFlowMappingFirstKeyState
	emitFlowMappingKeyState
	emitFlowMappingSimpleValueState
	emitFlowMappingValueState
	emitBlockSequenceFirstItemState
	emitBlockSequenceItemState
	emitBlockMappingFirstKeyState
	emitBlockMappingKeyState
	emitBlockMappingSimpleValueState
	emitBlockMappingValueState
	emitEndState
)

type tagDirective struct {
	handle []byte
	prefix []byte
}

var defaultTagDirectives = []tagDirective{
	{handle: []byte("!"), prefix: []byte("!")},
	{handle: []byte("!!"), prefix: []byte(CoreTagPrefix)},
}

// Emitter is the push side of the engine: a serializer turning events into
// block style YAML.
type Emitter struct {
	noCopy noCopy

	Error   ErrorType
	Problem string

	initialized bool
	write       WriteHandler
	buffer      []byte

	encoding   Encoding
	unicode    bool
	bestIndent int
	bestWidth  int

	state  emitterState
	states []emitterState

	events []Event
	head   int

	indents []int
	indent  int

	flowLevel int

	rootContext      bool
	sequenceContext  bool
	mappingContext   bool
	simpleKeyContext bool

	line       int
	column     int
	whitespace bool
	indention  bool
	openEnded  int

	anchorData struct {
		anchor []byte
		alias  bool
	}
	tagData struct {
		handle []byte
		suffix []byte
	}
	scalarData struct {
		value               []byte
		multiline           bool
		flowPlainAllowed    bool
		blockPlainAllowed   bool
		singleQuotedAllowed bool
		blockAllowed        bool
		style               ScalarStyle
	}
}

// Initialize prepares a zero Emitter for use. It fails with a MemoryError if
// the handle has already been initialized and not deleted.
func (e *Emitter) Initialize() bool {
	if e.initialized {
		e.Error = MemoryError
		e.Problem = "emitter handle is already in use"
		return false
	}
	e.initialized = true
	e.buffer = make([]byte, 0, outputBufferSize)
	e.states = make([]emitterState, 0, 16)
	e.events = make([]Event, 0, 16)
	e.indents = make([]int, 0, 16)
	e.bestIndent = 2
	return true
}

// Delete releases the emitter state without flushing. Deleting twice is a
// no-op.
func (e *Emitter) Delete() {
	if !e.initialized {
		return
	}
	e.initialized = false
	e.write = nil
	e.buffer = nil
	e.states = nil
	e.events = nil
	e.indents = nil
}

func (e *Emitter) mustBeInitialized() {
	if !e.initialized {
		panic("engine: emitter handle used before Initialize or after Delete")
	}
}

func (e *Emitter) SetUnicode(unicode bool) {
	e.mustBeInitialized()
	e.unicode = unicode
}

// SetWidth sets the preferred line width; -1 means unlimited.
func (e *Emitter) SetWidth(width int) {
	e.mustBeInitialized()
	if width < 0 {
		width = -1
	}
	e.bestWidth = width
}

func (e *Emitter) SetEncoding(enc Encoding) {
	e.mustBeInitialized()
	if e.encoding != AnyEncoding {
		panic("engine: emitter encoding is already set")
	}
	e.encoding = enc
}

func (e *Emitter) SetOutput(h WriteHandler) {
	e.mustBeInitialized()
	if e.write != nil {
		panic("engine: emitter output is already set")
	}
	e.write = h
}

// Emit queues ev and serializes every queued event that no longer needs
// lookahead. It returns false once an error has been recorded.
func (e *Emitter) Emit(ev *Event) bool {
	e.mustBeInitialized()
	if e.Error != NoError {
		return false
	}
	if debug.Engine() {
		debug.Log("engine emit", "event", ev.Type, "value", ev.Value)
	}
	if e.head == len(e.events) && !e.checkOrder(ev) {
		return false
	}
	e.events = append(e.events, *ev)
	for !e.needMoreEvents() {
		head := &e.events[e.head]
		if !e.analyzeEvent(head) || !e.stateMachine(head) {
			return false
		}
		e.events[e.head] = Event{}
		e.head++
	}
	if e.head == len(e.events) {
		e.events = e.events[:0]
		e.head = 0
	}
	return true
}

// Flush writes the buffered output through the write handler.
func (e *Emitter) Flush() bool {
	e.mustBeInitialized()
	if e.Error != NoError {
		return false
	}
	return e.flush()
}

func (e *Emitter) flush() bool {
	if e.write == nil {
		panic("engine: emitter output is not set")
	}
	if len(e.buffer) == 0 {
		return true
	}
	if !e.write(e.buffer) {
		e.Error = WriterError
		e.Problem = "write error"
		return false
	}
	e.buffer = e.buffer[:0]
	return true
}

// checkOrder rejects an event that cannot follow the current state. It is
// only meaningful with an empty queue; queued events are checked when they
// are serialized.
func (e *Emitter) checkOrder(ev *Event) bool {
	switch e.state {
	case emitStreamStartState:
		if ev.Type != StreamStartEvent {
			return e.emitterError("expected STREAM-START")
		}
	case emitFirstDocumentStartState, emitDocumentStartState:
		if ev.Type != DocumentStartEvent && ev.Type != StreamEndEvent {
			return e.emitterError("expected DOCUMENT-START or STREAM-END")
		}
	case emitEndState:
		return e.emitterError("expected nothing after STREAM-END")
	}
	return true
}

func (e *Emitter) emitterError(problem string) bool {
	e.Error = EmitterError
	e.Problem = problem
	return false
}

// needMoreEvents reports whether the head of the queue needs more lookahead
// before it can be serialized.
func (e *Emitter) needMoreEvents() bool {
	if e.head == len(e.events) {
		return true
	}
	var accumulate int
	switch e.events[e.head].Type {
	case DocumentStartEvent:
		accumulate = 1
	case SequenceStartEvent:
		accumulate = 2
	case MappingStartEvent:
		accumulate = 3
	default:
		return false
	}
	if len(e.events)-e.head > accumulate {
		return false
	}
	level := 0
	for i := e.head; i < len(e.events); i++ {
		switch e.events[i].Type {
		case StreamStartEvent, DocumentStartEvent, SequenceStartEvent, MappingStartEvent:
			level++
		case StreamEndEvent, DocumentEndEvent, SequenceEndEvent, MappingEndEvent:
			level--
		}
		if level == 0 {
			return false
		}
	}
	return true
}

func (e *Emitter) increaseIndent(flow, indentless bool) {
	e.indents = append(e.indents, e.indent)
	if e.indent < 0 {
		if flow {
			e.indent = e.bestIndent
		} else {
			e.indent = 0
		}
	} else if !indentless {
		e.indent += e.bestIndent
	}
}

func (e *Emitter) popIndent() {
	e.indent = e.indents[len(e.indents)-1]
	e.indents = e.indents[:len(e.indents)-1]
}

func (e *Emitter) pushState(s emitterState) {
	e.states = append(e.states, s)
}

func (e *Emitter) popState() {
	e.state = e.states[len(e.states)-1]
	e.states = e.states[:len(e.states)-1]
}

func (e *Emitter) stateMachine(ev *Event) bool {
	switch e.state {
	case emitStreamStartState:
		return e.emitStreamStart(ev)
	case emitFirstDocumentStartState:
		return e.emitDocumentStart(ev, true)
	case emitDocumentStartState:
		return e.emitDocumentStart(ev, false)
	case emitDocumentContentState:
		return e.emitDocumentContent(ev)
	case emitDocumentEndState:
		return e.emitDocumentEnd(ev)
	case emitFlowSequenceFirstItemState:
		return e.emitFlowSequenceItem(ev, true)
	case emitFlowSequenceItemState:
		return e.emitFlowSequenceItem(ev, false)
	case emitFlowMappingFirstKeyState:
		return e.emitFlowMappingKey(ev, true)
	case emitFlowMappingKeyState:
		return e.emitFlowMappingKey(ev, false)
	case emitFlowMappingSimpleValueState:
		return e.emitFlowMappingValue(ev, true)
	case emitFlowMappingValueState:
		return e.emitFlowMappingValue(ev, false)
	case emitBlockSequenceFirstItemState:
		return e.emitBlockSequenceItem(ev, true)
	case emitBlockSequenceItemState:
		return e.emitBlockSequenceItem(ev, false)
	case emitBlockMappingFirstKeyState:
		return e.emitBlockMappingKey(ev, true)
	case emitBlockMappingKeyState:
		return e.emitBlockMappingKey(ev, false)
	case emitBlockMappingSimpleValueState:
		return e.emitBlockMappingValue(ev, true)
	case emitBlockMappingValueState:
		return e.emitBlockMappingValue(ev, false)
	case emitEndState:
		return e.emitterError("expected nothing after STREAM-END")
	}
	panic(fmt.Sprintf("engine: invalid emitter state %d", e.state))
}

func (e *Emitter) emitStreamStart(ev *Event) bool {
	if ev.Type != StreamStartEvent {
		return e.emitterError("expected STREAM-START")
	}
	if e.encoding == AnyEncoding {
		e.encoding = ev.Encoding
		if e.encoding == AnyEncoding {
			e.encoding = UTF8Encoding
		}
	}
	if e.bestIndent < 2 || e.bestIndent > 9 {
		e.bestIndent = 2
	}
	if e.bestWidth >= 0 && e.bestWidth <= e.bestIndent*2 {
		e.bestWidth = 80
	}
	if e.bestWidth < 0 {
		e.bestWidth = math.MaxInt
	}
	e.indent = -1
	e.line = 0
	e.column = 0
	e.whitespace = true
	e.indention = true
	e.state = emitFirstDocumentStartState
	return true
}

func (e *Emitter) emitDocumentStart(ev *Event, first bool) bool {
	switch ev.Type {
	case DocumentStartEvent:
		e.openEnded = 0
		if first && ev.Implicit && !e.checkEmptyDocument() {
			e.state = emitDocumentContentState
			return true
		}
		if !e.writeIndent() || !e.writeIndicator("---", true, false, false) {
			return false
		}
		e.state = emitDocumentContentState
		return true

	case StreamEndEvent:
		// A keep-chomped block scalar at the end of the stream would
		// otherwise absorb trailing lines on reading.
		if e.openEnded == 2 {
			if !e.writeIndicator("...", true, false, false) {
				return false
			}
			e.openEnded = 0
			if !e.writeIndent() {
				return false
			}
		}
		if !e.flush() {
			return false
		}
		e.state = emitEndState
		return true
	}
	return e.emitterError("expected DOCUMENT-START or STREAM-END")
}

func (e *Emitter) emitDocumentContent(ev *Event) bool {
	e.pushState(emitDocumentEndState)
	return e.emitNode(ev, true, false, false, false)
}

func (e *Emitter) emitDocumentEnd(ev *Event) bool {
	if ev.Type != DocumentEndEvent {
		return e.emitterError("expected DOCUMENT-END")
	}
	if !e.writeIndent() {
		return false
	}
	if !ev.Implicit {
		if !e.writeIndicator("...", true, false, false) || !e.writeIndent() {
			return false
		}
		e.openEnded = 0
	} else if e.openEnded == 0 {
		e.openEnded = 1
	}
	if !e.flush() {
		return false
	}
	e.state = emitDocumentStartState
	return true
}

func (e *Emitter) emitFlowSequenceItem(ev *Event, first bool) bool {
	if first {
		if !e.writeIndicator("[", true, true, false) {
			return false
		}
		e.increaseIndent(true, false)
		e.flowLevel++
	}
	if ev.Type == SequenceEndEvent {
		e.flowLevel--
		e.popIndent()
		if !e.writeIndicator("]", false, false, false) {
			return false
		}
		e.popState()
		return true
	}
	if !first && !e.writeIndicator(",", false, false, false) {
		return false
	}
	if e.column > e.bestWidth && !e.writeIndent() {
		return false
	}
	e.pushState(emitFlowSequenceItemState)
	return e.emitNode(ev, false, true, false, false)
}

func (e *Emitter) emitFlowMappingKey(ev *Event, first bool) bool {
	if first {
		if !e.writeIndicator("{", true, true, false) {
			return false
		}
		e.increaseIndent(true, false)
		e.flowLevel++
	}
	if ev.Type == MappingEndEvent {
		e.flowLevel--
		e.popIndent()
		if !e.writeIndicator("}", false, false, false) {
			return false
		}
		e.popState()
		return true
	}
	if !first && !e.writeIndicator(",", false, false, false) {
		return false
	}
	if e.column > e.bestWidth && !e.writeIndent() {
		return false
	}
	if e.checkSimpleKey() {
		e.pushState(emitFlowMappingSimpleValueState)
		return e.emitNode(ev, false, false, true, true)
	}
	if !e.writeIndicator("?", true, false, false) {
		return false
	}
	e.pushState(emitFlowMappingValueState)
	return e.emitNode(ev, false, false, true, false)
}

func (e *Emitter) emitFlowMappingValue(ev *Event, simple bool) bool {
	if simple {
		if !e.writeIndicator(":", false, false, false) {
			return false
		}
	} else {
		if e.column > e.bestWidth && !e.writeIndent() {
			return false
		}
		if !e.writeIndicator(":", true, false, false) {
			return false
		}
	}
	e.pushState(emitFlowMappingKeyState)
	return e.emitNode(ev, false, false, true, false)
}

func (e *Emitter) emitBlockSequenceItem(ev *Event, first bool) bool {
	if first {
		e.increaseIndent(false, e.mappingContext && !e.indention)
	}
	if ev.Type == SequenceEndEvent {
		e.popIndent()
		e.popState()
		return true
	}
	if !e.writeIndent() || !e.writeIndicator("-", true, false, true) {
		return false
	}
	e.pushState(emitBlockSequenceItemState)
	return e.emitNode(ev, false, true, false, false)
}

func (e *Emitter) emitBlockMappingKey(ev *Event, first bool) bool {
	if first {
		e.increaseIndent(false, false)
	}
	if ev.Type == MappingEndEvent {
		e.popIndent()
		e.popState()
		return true
	}
	if !e.writeIndent() {
		return false
	}
	if e.checkSimpleKey() {
		e.pushState(emitBlockMappingSimpleValueState)
		return e.emitNode(ev, false, false, true, true)
	}
	if !e.writeIndicator("?", true, false, true) {
		return false
	}
	e.pushState(emitBlockMappingValueState)
	return e.emitNode(ev, false, false, true, false)
}

func (e *Emitter) emitBlockMappingValue(ev *Event, simple bool) bool {
	if simple {
		if !e.writeIndicator(":", false, false, false) {
			return false
		}
	} else {
		if !e.writeIndent() || !e.writeIndicator(":", true, false, true) {
			return false
		}
	}
	e.pushState(emitBlockMappingKeyState)
	return e.emitNode(ev, false, false, true, false)
}

func (e *Emitter) emitNode(ev *Event, root, sequence, mapping, simpleKey bool) bool {
	e.rootContext = root
	e.sequenceContext = sequence
	e.mappingContext = mapping
	e.simpleKeyContext = simpleKey

	switch ev.Type {
	case AliasEvent:
		return e.emitAlias()
	case ScalarEvent:
		return e.emitScalar(ev)
	case SequenceStartEvent:
		return e.emitSequenceStart(ev)
	case MappingStartEvent:
		return e.emitMappingStart(ev)
	}
	return e.emitterError(fmt.Sprintf("expected SCALAR, SEQUENCE-START, MAPPING-START, or ALIAS, got %s", ev.Type))
}

func (e *Emitter) emitAlias() bool {
	if !e.processAnchor() {
		return false
	}
	if e.simpleKeyContext && !e.put(' ') {
		return false
	}
	e.popState()
	return true
}

func (e *Emitter) emitScalar(ev *Event) bool {
	if !e.selectScalarStyle(ev) || !e.processAnchor() || !e.processTag() {
		return false
	}
	e.increaseIndent(true, false)
	if !e.processScalar() {
		return false
	}
	e.popIndent()
	e.popState()
	return true
}

func (e *Emitter) emitSequenceStart(ev *Event) bool {
	if !e.processAnchor() || !e.processTag() {
		return false
	}
	if e.flowLevel > 0 || ev.SequenceStyle == FlowSequenceStyle || e.checkEmptySequence() {
		e.state = emitFlowSequenceFirstItemState
	} else {
		e.state = emitBlockSequenceFirstItemState
	}
	return true
}

func (e *Emitter) emitMappingStart(ev *Event) bool {
	if !e.processAnchor() || !e.processTag() {
		return false
	}
	if e.flowLevel > 0 || ev.MappingStyle == FlowMappingStyle || e.checkEmptyMapping() {
		e.state = emitFlowMappingFirstKeyState
	} else {
		e.state = emitBlockMappingFirstKeyState
	}
	return true
}

// checkEmptyDocument reports whether the document starting at the head of
// the queue consists of an untagged empty plain scalar, which would vanish
// without an explicit document start marker.
func (e *Emitter) checkEmptyDocument() bool {
	if len(e.events)-e.head < 2 {
		return false
	}
	ev := &e.events[e.head+1]
	if ev.Type != ScalarEvent || ev.Anchor != nil || len(ev.Value) != 0 || !ev.Implicit {
		return false
	}
	return ev.ScalarStyle == AnyScalarStyle || ev.ScalarStyle == PlainScalarStyle
}

func (e *Emitter) checkEmptySequence() bool {
	if len(e.events)-e.head < 2 {
		return false
	}
	return e.events[e.head].Type == SequenceStartEvent && e.events[e.head+1].Type == SequenceEndEvent
}

func (e *Emitter) checkEmptyMapping() bool {
	if len(e.events)-e.head < 2 {
		return false
	}
	return e.events[e.head].Type == MappingStartEvent && e.events[e.head+1].Type == MappingEndEvent
}

// checkSimpleKey reports whether the head event can be written as an
// implicit key: a short single line scalar, an alias or an empty
// collection.
func (e *Emitter) checkSimpleKey() bool {
	ev := &e.events[e.head]
	length := 0
	switch ev.Type {
	case AliasEvent:
		length += len(e.anchorData.anchor)
	case ScalarEvent:
		if e.scalarData.multiline {
			return false
		}
		length += len(e.anchorData.anchor) + len(e.tagData.handle) + len(e.tagData.suffix) + len(e.scalarData.value)
	case SequenceStartEvent:
		if !e.checkEmptySequence() {
			return false
		}
		length += len(e.anchorData.anchor) + len(e.tagData.handle) + len(e.tagData.suffix)
	case MappingStartEvent:
		if !e.checkEmptyMapping() {
			return false
		}
		length += len(e.anchorData.anchor) + len(e.tagData.handle) + len(e.tagData.suffix)
	default:
		return false
	}
	return length <= 128
}

func (e *Emitter) processAnchor() bool {
	if e.anchorData.anchor == nil {
		return true
	}
	c := "&"
	if e.anchorData.alias {
		c = "*"
	}
	if !e.writeIndicator(c, true, false, false) {
		return false
	}
	return e.writeAnchor(e.anchorData.anchor)
}

func (e *Emitter) processTag() bool {
	handle, suffix := e.tagData.handle, e.tagData.suffix
	if len(handle) == 0 && len(suffix) == 0 {
		return true
	}
	if len(handle) > 0 {
		if !e.writeTagHandle(handle) {
			return false
		}
		if len(suffix) > 0 {
			return e.writeTagContent(suffix, false)
		}
		return true
	}
	if !e.writeIndicator("!<", true, false, false) || !e.writeTagContent(suffix, false) {
		return false
	}
	return e.writeIndicator(">", false, false, false)
}

func (e *Emitter) processScalar() bool {
	value := e.scalarData.value
	switch e.scalarData.style {
	case PlainScalarStyle:
		return e.writePlainScalar(value, !e.simpleKeyContext)
	case SingleQuotedScalarStyle:
		return e.writeSingleQuotedScalar(value, !e.simpleKeyContext)
	case DoubleQuotedScalarStyle:
		return e.writeDoubleQuotedScalar(value, !e.simpleKeyContext)
	case LiteralScalarStyle:
		return e.writeLiteralScalar(value)
	case FoldedScalarStyle:
		return e.writeFoldedScalar(value)
	}
	panic(fmt.Sprintf("engine: invalid scalar style %d", e.scalarData.style))
}

func (e *Emitter) analyzeEvent(ev *Event) bool {
	e.anchorData.anchor = nil
	e.anchorData.alias = false
	e.tagData.handle = nil
	e.tagData.suffix = nil
	e.scalarData.value = nil

	switch ev.Type {
	case AliasEvent:
		return e.analyzeAnchor(ev.Anchor, true)
	case ScalarEvent:
		if ev.Anchor != nil && !e.analyzeAnchor(ev.Anchor, false) {
			return false
		}
		if ev.Tag != nil && !ev.Implicit && !ev.QuotedImplicit && !e.analyzeTag(ev.Tag) {
			return false
		}
		e.analyzeScalar(ev.Value)
	case SequenceStartEvent, MappingStartEvent:
		if ev.Anchor != nil && !e.analyzeAnchor(ev.Anchor, false) {
			return false
		}
		if ev.Tag != nil && !ev.Implicit && !e.analyzeTag(ev.Tag) {
			return false
		}
	}
	return true
}

func (e *Emitter) analyzeAnchor(anchor []byte, alias bool) bool {
	if len(anchor) == 0 {
		if alias {
			return e.emitterError("alias value must not be empty")
		}
		return e.emitterError("anchor value must not be empty")
	}
	for _, c := range anchor {
		if !isAlpha(c) {
			if alias {
				return e.emitterError("alias value must contain alphanumerical characters only")
			}
			return e.emitterError("anchor value must contain alphanumerical characters only")
		}
	}
	e.anchorData.anchor = anchor
	e.anchorData.alias = alias
	return true
}

func (e *Emitter) analyzeTag(tag []byte) bool {
	if len(tag) == 0 {
		return e.emitterError("tag value must not be empty")
	}
	for _, td := range defaultTagDirectives {
		if len(td.prefix) < len(tag) && bytes.HasPrefix(tag, td.prefix) {
			e.tagData.handle = td.handle
			e.tagData.suffix = tag[len(td.prefix):]
			return true
		}
	}
	e.tagData.suffix = tag
	return true
}

func (e *Emitter) selectScalarStyle(ev *Event) bool {
	noTag := len(e.tagData.handle) == 0 && len(e.tagData.suffix) == 0
	if noTag && !ev.Implicit && !ev.QuotedImplicit {
		return e.emitterError("neither tag nor implicit flags are specified")
	}

	style := ev.ScalarStyle
	if style == AnyScalarStyle {
		style = PlainScalarStyle
	}
	if e.simpleKeyContext && e.scalarData.multiline {
		style = DoubleQuotedScalarStyle
	}
	if style == PlainScalarStyle {
		if e.flowLevel > 0 && !e.scalarData.flowPlainAllowed ||
			e.flowLevel == 0 && !e.scalarData.blockPlainAllowed {
			style = SingleQuotedScalarStyle
		}
		if len(e.scalarData.value) == 0 && (e.flowLevel > 0 || e.simpleKeyContext) {
			style = SingleQuotedScalarStyle
		}
		if noTag && !ev.Implicit {
			style = SingleQuotedScalarStyle
		}
	}
	if style == SingleQuotedScalarStyle && !e.scalarData.singleQuotedAllowed {
		style = DoubleQuotedScalarStyle
	}
	if style == LiteralScalarStyle || style == FoldedScalarStyle {
		if !e.scalarData.blockAllowed || e.flowLevel > 0 || e.simpleKeyContext {
			style = DoubleQuotedScalarStyle
		}
	}
	if noTag && !ev.QuotedImplicit && style != PlainScalarStyle {
		e.tagData.handle = []byte("!")
	}
	e.scalarData.style = style
	return true
}

// analyzeScalar records which styles can represent value.
func (e *Emitter) analyzeScalar(value []byte) {
	sd := &e.scalarData
	sd.value = value
	if len(value) == 0 {
		sd.multiline = false
		sd.flowPlainAllowed = false
		sd.blockPlainAllowed = true
		sd.singleQuotedAllowed = true
		sd.blockAllowed = false
		return
	}

	var (
		blockIndicators, flowIndicators, lineBreaks, specialCharacters bool

		leadingSpace, leadingBreak, trailingSpace, trailingBreak bool
		breakSpace, spaceBreak                                   bool

		previousSpace, previousBreak bool
	)
	if bytes.HasPrefix(value, []byte("---")) || bytes.HasPrefix(value, []byte("...")) {
		blockIndicators = true
		flowIndicators = true
	}

	precededByWhitespace := true
	for i, w := 0, 0; i < len(value); i += w {
		_, w = runeAt(value, i)
		followedByWhitespace := i+w >= len(value) || isBlankz(value, i+w)

		if i == 0 {
			switch value[i] {
			case '#', ',', '[', ']', '{', '}', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
				flowIndicators = true
				blockIndicators = true
			case '?', ':':
				flowIndicators = true
				if followedByWhitespace {
					blockIndicators = true
				}
			case '-':
				if followedByWhitespace {
					flowIndicators = true
					blockIndicators = true
				}
			}
		} else {
			switch value[i] {
			case ',', '?', '[', ']', '{', '}':
				flowIndicators = true
			case ':':
				flowIndicators = true
				if followedByWhitespace {
					blockIndicators = true
				}
			case '#':
				if precededByWhitespace {
					flowIndicators = true
					blockIndicators = true
				}
			}
		}

		if !isEmitPrintable(value, i) || !e.unicode && value[i] >= 0x80 {
			specialCharacters = true
		}
		switch {
		case isSpace(value, i):
			if i == 0 {
				leadingSpace = true
			}
			if i+w == len(value) {
				trailingSpace = true
			}
			if previousBreak {
				breakSpace = true
			}
			previousSpace, previousBreak = true, false
		case isBreak(value, i):
			lineBreaks = true
			if i == 0 {
				leadingBreak = true
			}
			if i+w == len(value) {
				trailingBreak = true
			}
			if previousSpace {
				spaceBreak = true
			}
			previousSpace, previousBreak = false, true
		default:
			previousSpace, previousBreak = false, false
		}
		precededByWhitespace = isBlankz(value, i)
	}

	sd.multiline = lineBreaks
	sd.flowPlainAllowed = true
	sd.blockPlainAllowed = true
	sd.singleQuotedAllowed = true
	sd.blockAllowed = true

	if leadingSpace || leadingBreak || trailingSpace || trailingBreak {
		sd.flowPlainAllowed = false
		sd.blockPlainAllowed = false
	}
	if trailingSpace {
		sd.blockAllowed = false
	}
	if breakSpace {
		sd.flowPlainAllowed = false
		sd.blockPlainAllowed = false
		sd.singleQuotedAllowed = false
	}
	if spaceBreak || specialCharacters {
		sd.flowPlainAllowed = false
		sd.blockPlainAllowed = false
		sd.singleQuotedAllowed = false
		sd.blockAllowed = false
	}
	if lineBreaks {
		sd.flowPlainAllowed = false
		sd.blockPlainAllowed = false
	}
	if flowIndicators {
		sd.flowPlainAllowed = false
	}
	if blockIndicators {
		sd.blockPlainAllowed = false
	}
}
