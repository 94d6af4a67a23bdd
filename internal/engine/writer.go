package engine

// Low level output of the emitter. Every writer keeps line, column,
// whitespace and indention current; callers rely on them to decide where
// breaks and separating spaces go.

func (e *Emitter) flushIfFull() bool {
	if len(e.buffer)+5 < cap(e.buffer) {
		return true
	}
	return e.flush()
}

func (e *Emitter) put(c byte) bool {
	if !e.flushIfFull() {
		return false
	}
	e.buffer = append(e.buffer, c)
	e.column++
	return true
}

func (e *Emitter) putBreak() bool {
	if !e.flushIfFull() {
		return false
	}
	e.buffer = append(e.buffer, '\n')
	e.column = 0
	e.line++
	return true
}

// writeChar copies the character at s[*i] and advances *i past it.
func (e *Emitter) writeChar(s []byte, i *int) bool {
	if !e.flushIfFull() {
		return false
	}
	_, w := runeAt(s, *i)
	e.buffer = append(e.buffer, s[*i:*i+w]...)
	e.column++
	*i += w
	return true
}

func (e *Emitter) writeAll(s []byte) bool {
	for i := 0; i < len(s); {
		if !e.writeChar(s, &i) {
			return false
		}
	}
	return true
}

func (e *Emitter) writeBreak(s []byte, i *int) bool {
	if s[*i] == '\n' {
		if !e.putBreak() {
			return false
		}
		*i++
		return true
	}
	if !e.writeChar(s, i) {
		return false
	}
	e.column = 0
	e.line++
	return true
}

func (e *Emitter) writeIndent() bool {
	indent := max(e.indent, 0)
	if !e.indention || e.column > indent || (e.column == indent && !e.whitespace) {
		if !e.putBreak() {
			return false
		}
	}
	for e.column < indent {
		if !e.put(' ') {
			return false
		}
	}
	e.whitespace = true
	e.indention = true
	return true
}

func (e *Emitter) writeIndicator(indicator string, needWhitespace, isWhitespace, isIndention bool) bool {
	if needWhitespace && !e.whitespace {
		if !e.put(' ') {
			return false
		}
	}
	if !e.writeAll([]byte(indicator)) {
		return false
	}
	e.whitespace = isWhitespace
	e.indention = e.indention && isIndention
	e.openEnded = 0
	return true
}

func (e *Emitter) writeAnchor(value []byte) bool {
	if !e.writeAll(value) {
		return false
	}
	e.whitespace = false
	e.indention = false
	return true
}

func (e *Emitter) writeTagHandle(value []byte) bool {
	if !e.whitespace {
		if !e.put(' ') {
			return false
		}
	}
	if !e.writeAll(value) {
		return false
	}
	e.whitespace = false
	e.indention = false
	return true
}

const upperHex = "0123456789ABCDEF"

// writeTagContent writes a tag suffix, %-escaping characters that are not
// allowed in a URI.
func (e *Emitter) writeTagContent(value []byte, needWhitespace bool) bool {
	if needWhitespace && !e.whitespace {
		if !e.put(' ') {
			return false
		}
	}
	for i := 0; i < len(value); {
		if isTagChar(value[i]) {
			if !e.writeChar(value, &i) {
				return false
			}
			continue
		}
		_, w := runeAt(value, i)
		for ; w > 0; w-- {
			c := value[i]
			i++
			if !e.put('%') || !e.put(upperHex[c>>4]) || !e.put(upperHex[c&0x0F]) {
				return false
			}
		}
	}
	e.whitespace = false
	e.indention = false
	return true
}

func isTagChar(c byte) bool {
	if isAlpha(c) {
		return true
	}
	switch c {
	case ';', '/', '?', ':', '@', '&', '=', '+', '$', ',', '.', '!', '~', '*', '\'', '(', ')', '[', ']':
		return true
	}
	return false
}

func (e *Emitter) writePlainScalar(value []byte, allowBreaks bool) bool {
	if !e.whitespace && (len(value) > 0 || e.flowLevel > 0) {
		if !e.put(' ') {
			return false
		}
	}
	spaces, breaks := false, false
	for i := 0; i < len(value); {
		switch {
		case isSpace(value, i):
			if allowBreaks && !spaces && e.column > e.bestWidth && !isSpace(value, i+1) {
				if !e.writeIndent() {
					return false
				}
				i++
			} else if !e.writeChar(value, &i) {
				return false
			}
			spaces = true
		case isBreak(value, i):
			if !breaks && value[i] == '\n' {
				if !e.putBreak() {
					return false
				}
			}
			if !e.writeBreak(value, &i) {
				return false
			}
			e.indention = true
			breaks = true
		default:
			if breaks {
				if !e.writeIndent() {
					return false
				}
			}
			if !e.writeChar(value, &i) {
				return false
			}
			e.indention = false
			spaces, breaks = false, false
		}
	}
	e.whitespace = false
	e.indention = false
	if e.rootContext {
		e.openEnded = 1
	}
	return true
}

func (e *Emitter) writeSingleQuotedScalar(value []byte, allowBreaks bool) bool {
	if !e.writeIndicator("'", true, false, false) {
		return false
	}
	spaces, breaks := false, false
	for i := 0; i < len(value); {
		switch {
		case isSpace(value, i):
			if allowBreaks && !spaces && e.column > e.bestWidth && i != 0 && i != len(value)-1 && !isSpace(value, i+1) {
				if !e.writeIndent() {
					return false
				}
				i++
			} else if !e.writeChar(value, &i) {
				return false
			}
			spaces = true
		case isBreak(value, i):
			if !breaks && value[i] == '\n' {
				if !e.putBreak() {
					return false
				}
			}
			if !e.writeBreak(value, &i) {
				return false
			}
			e.indention = true
			breaks = true
		default:
			if breaks {
				if !e.writeIndent() {
					return false
				}
			}
			if value[i] == '\'' {
				if !e.put('\'') {
					return false
				}
			}
			if !e.writeChar(value, &i) {
				return false
			}
			e.indention = false
			spaces, breaks = false, false
		}
	}
	if breaks {
		if !e.writeIndent() {
			return false
		}
	}
	if !e.writeIndicator("'", false, false, false) {
		return false
	}
	e.whitespace = false
	e.indention = false
	return true
}

func (e *Emitter) writeDoubleQuotedScalar(value []byte, allowBreaks bool) bool {
	if !e.writeIndicator("\"", true, false, false) {
		return false
	}
	spaces := false
	for i := 0; i < len(value); {
		switch {
		case !isEmitPrintable(value, i) || (!e.unicode && value[i] >= 0x80) ||
			isBreak(value, i) || value[i] == '"' || value[i] == '\\':
			v, w := runeAt(value, i)
			if v == 0xFFFD && w == 1 {
				v = rune(value[i])
			}
			i += w
			if !e.put('\\') || !e.writeEscape(v) {
				return false
			}
			spaces = false
		case isSpace(value, i):
			if allowBreaks && !spaces && e.column > e.bestWidth && i != 0 && i != len(value)-1 {
				if !e.writeIndent() {
					return false
				}
				if isSpace(value, i+1) {
					if !e.put('\\') {
						return false
					}
				}
				i++
			} else if !e.writeChar(value, &i) {
				return false
			}
			spaces = true
		default:
			if !e.writeChar(value, &i) {
				return false
			}
			spaces = false
		}
	}
	if !e.writeIndicator("\"", false, false, false) {
		return false
	}
	e.whitespace = false
	e.indention = false
	return true
}

// writeEscape writes the escape sequence for v, after the backslash.
func (e *Emitter) writeEscape(v rune) bool {
	var c byte
	switch v {
	case 0x00:
		c = '0'
	case 0x07:
		c = 'a'
	case 0x08:
		c = 'b'
	case 0x09:
		c = 't'
	case 0x0A:
		c = 'n'
	case 0x0B:
		c = 'v'
	case 0x0C:
		c = 'f'
	case 0x0D:
		c = 'r'
	case 0x1B:
		c = 'e'
	case '"':
		c = '"'
	case '\\':
		c = '\\'
	case 0x85:
		c = 'N'
	case 0xA0:
		c = '_'
	case 0x2028:
		c = 'L'
	case 0x2029:
		c = 'P'
	}
	if c != 0 {
		return e.put(c)
	}
	var digits int
	switch {
	case v <= 0xFF:
		c, digits = 'x', 2
	case v <= 0xFFFF:
		c, digits = 'u', 4
	default:
		c, digits = 'U', 8
	}
	if !e.put(c) {
		return false
	}
	for k := (digits - 1) * 4; k >= 0; k -= 4 {
		if !e.put(upperHex[(v>>uint(k))&0x0F]) {
			return false
		}
	}
	return true
}

// writeBlockScalarHints writes the indentation and chomping indicators of
// a literal or folded scalar.
func (e *Emitter) writeBlockScalarHints(value []byte) bool {
	if isSpace(value, 0) || isBreak(value, 0) {
		if !e.writeIndicator(string(rune('0'+e.bestIndent)), false, false, false) {
			return false
		}
	}
	e.openEnded = 0

	chomp, keep := "", false
	if len(value) == 0 {
		chomp = "-"
	} else {
		i := len(value) - 1
		for i > 0 && value[i]&0xC0 == 0x80 {
			i--
		}
		switch {
		case !isBreak(value, i):
			chomp = "-"
		case i == 0:
			chomp, keep = "+", true
		default:
			i--
			for i > 0 && value[i]&0xC0 == 0x80 {
				i--
			}
			if isBreak(value, i) {
				chomp, keep = "+", true
			}
		}
	}
	if chomp != "" && !e.writeIndicator(chomp, false, false, false) {
		return false
	}
	if keep {
		e.openEnded = 2
	}
	return true
}

func (e *Emitter) writeLiteralScalar(value []byte) bool {
	if !e.writeIndicator("|", true, false, false) || !e.writeBlockScalarHints(value) || !e.putBreak() {
		return false
	}
	e.indention = true
	e.whitespace = true
	breaks := true
	for i := 0; i < len(value); {
		if isBreak(value, i) {
			if !e.writeBreak(value, &i) {
				return false
			}
			e.indention = true
			breaks = true
			continue
		}
		if breaks {
			if !e.writeIndent() {
				return false
			}
		}
		if !e.writeChar(value, &i) {
			return false
		}
		e.indention = false
		breaks = false
	}
	return true
}

func (e *Emitter) writeFoldedScalar(value []byte) bool {
	if !e.writeIndicator(">", true, false, false) || !e.writeBlockScalarHints(value) || !e.putBreak() {
		return false
	}
	e.indention = true
	e.whitespace = true
	breaks, leadingSpaces := true, true
	for i := 0; i < len(value); {
		if isBreak(value, i) {
			if !breaks && !leadingSpaces && value[i] == '\n' {
				k := i
				for isBreak(value, k) {
					_, w := runeAt(value, k)
					k += w
				}
				if !isBlankz(value, k) {
					if !e.putBreak() {
						return false
					}
				}
			}
			if !e.writeBreak(value, &i) {
				return false
			}
			e.indention = true
			breaks = true
			continue
		}
		if breaks {
			if !e.writeIndent() {
				return false
			}
			leadingSpaces = isBlank(value, i)
		}
		if !breaks && isSpace(value, i) && !isSpace(value, i+1) && e.column > e.bestWidth {
			if !e.writeIndent() {
				return false
			}
			i++
		} else if !e.writeChar(value, &i) {
			return false
		}
		e.indention = false
		breaks = false
	}
	return true
}
