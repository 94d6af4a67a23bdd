package evtext

import (
	"strings"

	"github.com/fatih/color"

	"github.com/signadot/yev/parser"
)

type Colorable struct {
	Type parser.EventType
	Attr ColorAttr
}

type ColorAttr int

const (
	IndicatorColor ColorAttr = iota
	AnchorColor
	TagColor
	StyleColor
	ValueColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, t := range eventTypes {
		able := Colorable{Type: t, Attr: IndicatorColor}
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		able.Attr = AnchorColor
		colors.Map[able] = color.RGB(196, 96, 16).SprintfFunc()
		able.Attr = TagColor
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
	}
	able := Colorable{Attr: IndicatorColor}

	able.Type = parser.EventStreamStart
	colors.Map[able] = color.RGB(96, 96, 96).SprintfFunc()
	able.Type = parser.EventStreamEnd
	colors.Map[able] = color.RGB(96, 96, 96).SprintfFunc()
	able.Type = parser.EventDocumentStart
	colors.Map[able] = color.BlueString
	able.Type = parser.EventDocumentEnd
	colors.Map[able] = color.BlueString
	able.Type = parser.EventAlias
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()

	able.Type = parser.EventScalar
	able.Attr = StyleColor
	colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()
	able.Attr = ValueColor
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()

	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

var eventTypes = []parser.EventType{
	parser.EventStreamStart,
	parser.EventStreamEnd,
	parser.EventDocumentStart,
	parser.EventDocumentEnd,
	parser.EventAlias,
	parser.EventScalar,
	parser.EventSequenceStart,
	parser.EventSequenceEnd,
	parser.EventMappingStart,
	parser.EventMappingEnd,
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t parser.EventType, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t parser.EventType, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
