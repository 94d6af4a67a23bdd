package engine

import "unicode/utf8"

// utf8Width returns the length of the UTF-8 sequence introduced by the
// leading octet c, or 0 if c cannot start a sequence.
func utf8Width(c byte) int {
	switch {
	case c&0x80 == 0x00:
		return 1
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	}
	return 0
}

// checkInput validates that b is printable UTF-8. On failure it returns the
// offset of the offending character, the problem and the offending value
// (-1 when there is none).
func checkInput(b []byte) (int, string, int) {
	for i := 0; i < len(b); {
		c := b[i]
		w := utf8Width(c)
		switch {
		case w == 0:
			return i, "invalid leading UTF-8 octet", int(c)
		case i+w > len(b):
			return i, "incomplete UTF-8 octet sequence", -1
		}
		for k := 1; k < w; k++ {
			if b[i+k]&0xC0 != 0x80 {
				return i, "invalid trailing UTF-8 octet", int(b[i+k])
			}
		}
		r, rw := utf8.DecodeRune(b[i : i+w])
		if r == utf8.RuneError && rw != 3 {
			return i, "invalid Unicode character", -1
		}
		if !isPrintable(r) {
			return i, "control characters are not allowed", int(r)
		}
		i += w
	}
	return 0, "", 0
}

// isPrintable reports whether r may appear in a YAML stream.
func isPrintable(r rune) bool {
	switch {
	case r == 0x09, r == 0x0A, r == 0x0D:
		return true
	case r >= 0x20 && r <= 0x7E:
		return true
	case r == 0x85:
		return true
	case r >= 0xA0 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// isBlankz reports whether b[i] is a space, tab, line break or past the end.
func isBlankz(b []byte, i int) bool {
	if i >= len(b) {
		return true
	}
	switch b[i] {
	case ' ', '\t', '\r', '\n', 0:
		return true
	}
	return false
}

func isSpace(b []byte, i int) bool {
	return i < len(b) && b[i] == ' '
}

func isBlank(b []byte, i int) bool {
	return i < len(b) && (b[i] == ' ' || b[i] == '\t')
}

// isBreak reports whether a line break (CR, LF, NEL, LS or PS) starts at
// b[i].
func isBreak(b []byte, i int) bool {
	if i >= len(b) {
		return false
	}
	switch b[i] {
	case '\r', '\n':
		return true
	case 0xC2:
		return i+1 < len(b) && b[i+1] == 0x85
	case 0xE2:
		return i+2 < len(b) && b[i+1] == 0x80 && (b[i+2] == 0xA8 || b[i+2] == 0xA9)
	}
	return false
}

func isAlpha(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_' || c == '-'
}

// runeAt decodes the character starting at b[i] and its width, which is
// at least 1.
func runeAt(b []byte, i int) (rune, int) {
	r, w := utf8.DecodeRune(b[i:])
	if w == 0 {
		w = 1
	}
	return r, w
}

// isEmitPrintable reports whether the character at b[i] may be written
// unescaped. Unlike isPrintable, tab, carriage return, NEL and the byte
// order mark must be escaped on output.
func isEmitPrintable(b []byte, i int) bool {
	r, _ := runeAt(b, i)
	switch {
	case r == utf8.RuneError:
		return false
	case r == 0x0A:
		return true
	case r >= 0x20 && r <= 0x7E:
		return true
	case r >= 0xA0 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return r != 0xFEFF
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
