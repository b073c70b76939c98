package token

import "html"

// ScanRValue tokenizes one non-empty segment of a rule's lvalue or
// rvalue (after context splitting) into characters, quoted strings,
// group refs, the revisit mark, HTML entities, repeat/plus/optional
// sentinels, open/close set and group brackets, and Unicode escapes.
// Whitespace outside quotes is discarded. Code points outside the Basic
// Multilingual Plane — whether written as a literal UTF-8 rune or as a
// \uXXXX surrogate pair — are silently skipped, matching the compiler's
// documented BMP-only scope.
func ScanRValue(s string) ([]Token, error) {
	sc := newScanner("rvalue", s)
	var out []Token
	prevWasBoundary := true // true at start-of-string and after whitespace

	for !sc.atEOF() {
		switch {
		case isWhitespace(sc.ch):
			sc.readChar()
			prevWasBoundary = true
			continue

		case sc.ch == '\\':
			sc.readChar()
			if sc.atEOF() {
				return nil, sc.fail()
			}
			if sc.ch == 'u' || sc.ch == 'U' {
				r, skip, err := scanUnicodeEscape(sc)
				if err != nil {
					return nil, err
				}
				if !skip {
					out = append(out, Token{Kind: Char, Rune: r})
				}
			} else {
				out = append(out, Token{Kind: Char, Rune: sc.ch})
				sc.readChar()
			}

		case sc.ch == '\'':
			if sc.peekChar() == '\'' {
				out = append(out, Token{Kind: Char, Rune: '\''})
				sc.readChar()
				sc.readChar()
			} else {
				str, err := scanQuoted(sc)
				if err != nil {
					return nil, err
				}
				out = append(out, Token{Kind: QuotedString, Str: str})
			}

		case sc.ch == '[':
			out = append(out, Token{Kind: OpenSet})
			sc.readChar()

		case sc.ch == ']':
			out = append(out, Token{Kind: CloseSet})
			sc.readChar()

		case sc.ch == '(':
			out = append(out, Token{Kind: OpenGroup})
			sc.readChar()

		case sc.ch == ')':
			out = append(out, Token{Kind: CloseGroup})
			sc.readChar()

		case sc.ch == '$' && isDigit(sc.peekChar()):
			sc.readChar()
			d := sc.ch
			sc.readChar()
			out = append(out, Token{Kind: GroupRef, Rune: d})

		case sc.ch == '|':
			out = append(out, Token{Kind: Revisit})
			sc.readChar()

		case sc.ch == '&':
			name, err := scanHTMLEntity(sc)
			if err != nil {
				return nil, err
			}
			out = append(out, Token{Kind: HTMLEntity, Rune: name})

		case sc.ch == '*':
			out = append(out, Token{Kind: RepeatStar})
			sc.readChar()

		case sc.ch == '+':
			out = append(out, Token{Kind: RepeatPlus})
			sc.readChar()

		case sc.ch == '?' && !prevWasBoundary:
			out = append(out, Token{Kind: Optional})
			sc.readChar()

		default:
			if sc.ch > 0xFFFF {
				// Non-BMP literal rune: bug-compatible skip, see package doc.
				sc.readChar()
				prevWasBoundary = false
				continue
			}
			out = append(out, Token{Kind: Char, Rune: sc.ch})
			sc.readChar()
		}
		prevWasBoundary = false
	}

	return out, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// scanUnicodeEscape reads the digits following a \u or \U that the caller
// has already positioned on. It returns skip=true when the escape (or the
// escape plus an immediately following low-surrogate escape) denotes a
// non-BMP code point.
func scanUnicodeEscape(sc *scanner) (rune, bool, error) {
	wide := sc.ch == 'U'
	sc.readChar()
	n := 4
	if wide {
		n = 8
	}
	r, err := sc.readHexDigits(n)
	if err != nil {
		return 0, false, err
	}
	if wide {
		return 0, r > 0xFFFF, nil
	}
	if r >= 0xD800 && r <= 0xDBFF {
		// High surrogate: look for a following \u low surrogate and skip both.
		save := *sc
		if sc.ch == '\\' && sc.peekChar() == 'u' {
			sc.readChar()
			sc.readChar()
			low, err := sc.readHexDigits(4)
			if err == nil && low >= 0xDC00 && low <= 0xDFFF {
				return 0, true, nil
			}
		}
		*sc = save
		return 0, true, nil
	}
	return r, false, nil
}

func scanQuoted(sc *scanner) (string, error) {
	sc.readChar() // consume opening quote
	var runes []rune
	for {
		if sc.atEOF() {
			return "", sc.fail()
		}
		if sc.ch == '\'' {
			if sc.peekChar() == '\'' {
				runes = append(runes, '\'')
				sc.readChar()
				sc.readChar()
				continue
			}
			sc.readChar() // consume closing quote
			break
		}
		runes = append(runes, sc.ch)
		sc.readChar()
	}
	return string(runes), nil
}

func scanHTMLEntity(sc *scanner) (rune, error) {
	start := sc.position
	sc.readChar() // consume '&'
	for !sc.atEOF() && sc.ch != ';' {
		sc.readChar()
	}
	if sc.atEOF() {
		return 0, sc.fail()
	}
	sc.readChar() // consume ';'
	raw := sc.input[start:sc.position]
	decoded := html.UnescapeString(raw)
	if decoded == raw {
		return 0, sc.fail()
	}
	r := []rune(decoded)
	return r[0], nil
}
