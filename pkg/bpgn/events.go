// Package bpgn reads bughouse game records (PGN with BPGN move numbers such as "12A.") as a
// lazy stream of structural events.
package bpgn

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
	"unicode"
)

type Kind int

const (
	BeginRecord Kind = iota
	Header
	Move
)

func (k Kind) String() string {
	switch k {
	case BeginRecord:
		return "begin-record"
	case Header:
		return "header"
	case Move:
		return "move"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one structural element of the input. Key and Value are set for headers, SAN for
// moves. Line is the 1-based line the element starts on.
type Event struct {
	Kind  Kind
	Key   string
	Value string
	SAN   string
	Line  int
}

// SyntaxError reports malformed tag or movetext framing.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

var (
	moveNumberRe = regexp.MustCompile(`^\d+[A-Za-z]?\.+`)
	bareNumberRe = regexp.MustCompile(`^\d+[A-Za-z]?$`)
	resultTokens = map[string]bool{"1-0": true, "0-1": true, "1/2-1/2": true, "½-½": true, "*": true}
)

// Events yields the events of text in document order. Each range over the returned sequence
// starts again from the beginning. A structural error is yielded once, as the last element.
func Events(text string) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		l := &lexer{src: text, line: 1}
		inRecord := false
		begin := func() bool {
			if inRecord {
				return true
			}
			inRecord = true
			return yield(Event{Kind: BeginRecord, Line: l.line}, nil)
		}

		for {
			l.skipSpace()
			if l.eof() {
				return
			}
			line := l.line
			switch c := l.peek(); {
			case c == '%' && l.atLineStart():
				l.skipLine()
			case c == ';':
				l.skipLine()
			case c == '{':
				if err := l.skipComment(); err != nil {
					yield(Event{}, err)
					return
				}
			case c == '(':
				if err := l.skipVariation(); err != nil {
					yield(Event{}, err)
					return
				}
			case c == ')':
				l.pos++
			case c == '$':
				l.pos++
				l.readWhile(unicode.IsDigit)
			case c == '[':
				key, value, err := l.readTag()
				if err != nil {
					yield(Event{}, err)
					return
				}
				if !begin() || !yield(Event{Kind: Header, Key: key, Value: value, Line: line}, nil) {
					return
				}
			default:
				token := l.readToken()
				if token == "" {
					// unknown glyphs are passed on as a move token for the reader to reject
					token = l.readWord()
				}
				if resultTokens[token] {
					if !begin() {
						return
					}
					inRecord = false
					continue
				}
				token = moveNumberRe.ReplaceAllString(token, "")
				if token == "" || bareNumberRe.MatchString(token) {
					continue
				}
				if !begin() || !yield(Event{Kind: Move, SAN: token, Line: line}, nil) {
					return
				}
			}
		}
	}
}

// Collect drains Events into a slice, stopping at the first error.
func Collect(text string) ([]Event, error) {
	var events []Event
	for ev, err := range Events(text) {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}

type lexer struct {
	src  string
	pos  int
	line int
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.src)
}

func (l *lexer) peek() byte {
	return l.src[l.pos]
}

func (l *lexer) next() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
	}
	return c
}

func (l *lexer) atLineStart() bool {
	return l.pos == 0 || l.src[l.pos-1] == '\n'
}

func (l *lexer) skipSpace() {
	for !l.eof() && strings.IndexByte(" \t\r\n\f\v", l.peek()) >= 0 {
		l.next()
	}
}

func (l *lexer) skipLine() {
	for !l.eof() && l.next() != '\n' {
	}
}

func (l *lexer) skipComment() error {
	start := l.line
	l.next()
	for !l.eof() {
		if l.next() == '}' {
			return nil
		}
	}
	return &SyntaxError{Line: start, Msg: "unterminated comment"}
}

// skipVariation drops a parenthesised side line, nested ones and comments included.
func (l *lexer) skipVariation() error {
	start := l.line
	depth := 0
	for !l.eof() {
		switch l.peek() {
		case '(':
			depth++
			l.next()
		case ')':
			depth--
			l.next()
			if depth == 0 {
				return nil
			}
		case '{':
			if err := l.skipComment(); err != nil {
				return err
			}
		default:
			l.next()
		}
	}
	return &SyntaxError{Line: start, Msg: "unterminated variation"}
}

func (l *lexer) readWhile(pred func(rune) bool) string {
	start := l.pos
	for !l.eof() && pred(rune(l.peek())) {
		l.next()
	}
	return l.src[start:l.pos]
}

func (l *lexer) readToken() string {
	return l.readWhile(func(r rune) bool {
		return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("@=-+#!?/*._~:", r))
	})
}

// readWord reads up to the next space or framing character. It always consumes at least one byte.
func (l *lexer) readWord() string {
	start := l.pos
	l.next()
	for !l.eof() && strings.IndexByte(" \t\r\n\f\v{}()[];", l.peek()) < 0 {
		l.next()
	}
	return l.src[start:l.pos]
}

func (l *lexer) readTag() (string, string, error) {
	start := l.line
	l.next()
	for !l.eof() && (l.peek() == ' ' || l.peek() == '\t') {
		l.next()
	}
	key := l.readWhile(func(r rune) bool {
		return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	if key == "" {
		return "", "", &SyntaxError{Line: start, Msg: "missing tag name"}
	}
	for !l.eof() && (l.peek() == ' ' || l.peek() == '\t') {
		l.next()
	}
	if l.eof() || l.peek() != '"' {
		return "", "", &SyntaxError{Line: start, Msg: fmt.Sprintf("tag %s: missing opening quote", key)}
	}
	l.next()

	var value strings.Builder
	for {
		if l.eof() || l.peek() == '\n' {
			return "", "", &SyntaxError{Line: start, Msg: fmt.Sprintf("tag %s: unterminated value", key)}
		}
		c := l.next()
		if c == '"' {
			break
		}
		if c == '\\' && !l.eof() && (l.peek() == '"' || l.peek() == '\\') {
			c = l.next()
		}
		value.WriteByte(c)
	}

	for !l.eof() && (l.peek() == ' ' || l.peek() == '\t') {
		l.next()
	}
	if l.eof() || l.peek() != ']' {
		return "", "", &SyntaxError{Line: start, Msg: fmt.Sprintf("tag %s: missing closing bracket", key)}
	}
	l.next()
	return key, value.String(), nil
}
