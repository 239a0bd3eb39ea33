// internal/browser/parser/scanner.go
package parser

import "strings"

// scanner is a byte cursor over the stylesheet source. Reads past the end
// return 0 and never move the cursor.
type scanner struct {
	src string
	off int
}

func (s *scanner) done() bool { return s.off >= len(s.src) }

func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.src[s.off]
}

func (s *scanner) next() byte {
	ch := s.peek()
	s.advance(1)
	return ch
}

func (s *scanner) advance(n int) { s.off = min(s.off+n, len(s.src)) }

func (s *scanner) hasPrefix(prefix string) bool {
	return strings.HasPrefix(s.src[s.off:], prefix)
}

func (s *scanner) skipSpace() {
	s.off += len(s.src[s.off:]) - len(strings.TrimLeft(s.src[s.off:], " \t\n\r\f"))
}

// ident consumes a run of name characters; it may be empty.
func (s *scanner) ident() string {
	rest := s.src[s.off:]
	n := strings.IndexFunc(rest, func(r rune) bool { return r < 0x80 && !isNameChar(byte(r)) })
	if n < 0 {
		n = len(rest)
	}
	s.off += n
	return rest[:n]
}

// skipComment consumes a /* ... */ comment; an unterminated one runs to EOF.
func (s *scanner) skipComment() {
	s.advance(2)
	if end := strings.Index(s.src[s.off:], "*/"); end >= 0 {
		s.advance(end + 2)
		return
	}
	s.off = len(s.src)
}

// skipUntil stops on the first stop byte outside a quoted string.
func (s *scanner) skipUntil(stops ...byte) {
	for !s.done() {
		switch ch := s.peek(); {
		case strings.IndexByte(string(stops), ch) >= 0:
			return
		case ch == '"' || ch == '\'':
			s.skipString(ch)
		default:
			s.off++
		}
	}
}

// skipString consumes a quoted string, opening quote included.
func (s *scanner) skipString(quote byte) {
	s.next()
	for !s.done() {
		switch s.next() {
		case '\\':
			s.next()
		case quote:
			return
		}
	}
}

// skipBlock consumes input up to the close byte matching an open byte the
// caller already consumed.
func (s *scanner) skipBlock(open, close byte) {
	for depth := 1; !s.done(); {
		switch s.next() {
		case open:
			depth++
		case close:
			if depth--; depth == 0 {
				return
			}
		}
	}
}

// skipAtRule skips an at-rule with its block, if any. Conditions such as
// media queries are not evaluated.
func (s *scanner) skipAtRule() {
	s.next()
	s.ident()
	for !s.done() {
		switch s.next() {
		case '{':
			s.skipBlock('{', '}')
			return
		case ';':
			return
		}
	}
}

func isSpace(ch byte) bool {
	return strings.IndexByte(" \t\n\r\f", ch) >= 0
}

// isNameStart accepts any non-ASCII byte so UTF-8 names pass through whole.
func isNameStart(ch byte) bool {
	return ch == '_' || ch == '-' || ch >= 0x80 || ('a' <= ch|0x20 && ch|0x20 <= 'z')
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || ('0' <= ch && ch <= '9')
}
