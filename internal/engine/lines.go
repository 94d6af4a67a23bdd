package engine

import (
	"sort"
	"unicode/utf8"
)

// lineDoc maps between byte offsets and line/column positions of an input
// buffer. n holds the offsets of every '\n'.
type lineDoc struct {
	d []byte
	n []int
}

func newLineDoc(d []byte) *lineDoc {
	p := &lineDoc{d: d}
	for i, c := range d {
		if c == '\n' {
			p.n = append(p.n, i)
		}
	}
	return p
}

// lineStart returns the offset of the first byte of the 0-based line l.
func (p *lineDoc) lineStart(l int) int {
	switch {
	case l <= 0:
		return 0
	case l > len(p.n):
		return len(p.d)
	default:
		return p.n[l-1] + 1
	}
}

// lineEnd returns the offset of the '\n' ending line l, or len(d).
func (p *lineDoc) lineEnd(l int) int {
	if l < 0 || l >= len(p.n) {
		return len(p.d)
	}
	return p.n[l]
}

// mark returns the Mark of byte offset off.
func (p *lineDoc) mark(off int) Mark {
	off = min(max(off, 0), len(p.d))
	l := sort.Search(len(p.n), func(i int) bool {
		return p.n[i] >= off
	})
	start := p.lineStart(l)
	return Mark{
		Index:  off,
		Line:   l,
		Column: utf8.RuneCount(p.d[start:off]),
	}
}

// offset returns the byte offset of the 0-based line and character column.
// Columns past the end of the line are clamped to the line end.
func (p *lineDoc) offset(line, col int) int {
	if line > len(p.n) {
		return len(p.d)
	}
	i, end := p.lineStart(line), p.lineEnd(line)
	for ; col > 0 && i < end; col-- {
		_, w := utf8.DecodeRune(p.d[i:end])
		i += w
	}
	return i
}
