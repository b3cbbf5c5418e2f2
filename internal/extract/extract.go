package extract

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Model is a parsed reference implementation: the function name, which
// becomes the instruction mnemonic, and the function body including the
// surrounding braces.
type Model struct {
	Name       string
	Definition string
}

// ParseError reports a reference file that could not be parsed.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("extract: %s", e.Reason)
	}
	return fmt.Sprintf("extract %s: %s", e.Path, e.Reason)
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// ParseFile reads a C++ reference implementation from path.
func ParseFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference: %w", err)
	}
	m, err := Parse(string(data))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, err
	}
	return m, nil
}

// Parse scans src for function definitions and returns the last one
// found, mirroring a depth-first walk of the translation unit. The body
// is returned verbatim; comments, strings and preprocessor lines are
// only tracked so that braces inside them do not confuse the scan.
func Parse(src string) (*Model, error) {
	s := scanner{src: src}

	var last *Model
	for {
		m, err := s.nextFunction()
		if err != nil {
			return nil, err
		}
		if m == nil {
			break
		}
		last = m
	}
	if last == nil {
		return nil, &ParseError{Reason: "no function definition found"}
	}
	return last, nil
}

type scanner struct {
	src string
	pos int
}

// nextFunction advances to the next top-level function definition and
// returns it, or nil when the input is exhausted.
func (s *scanner) nextFunction() (*Model, error) {
	var ident string
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLine()
		case c == '/' && s.peek(1) == '*':
			if err := s.skipBlockComment(); err != nil {
				return nil, err
			}
		case c == '#':
			s.skipLine()
		case c == '"' || c == '\'':
			if err := s.skipLiteral(c); err != nil {
				return nil, err
			}
		case isIdentByte(c):
			start := s.pos
			for s.pos < len(s.src) && isIdentByte(s.src[s.pos]) {
				s.pos++
			}
			ident = s.src[start:s.pos]
		case c == '(':
			name := ident
			if err := s.skipParens(); err != nil {
				return nil, err
			}
			s.skipSpace()
			if s.pos < len(s.src) && s.src[s.pos] == '{' && name != "" {
				body, err := s.captureBraces()
				if err != nil {
					return nil, err
				}
				return &Model{Name: name, Definition: body}, nil
			}
			ident = ""
		default:
			if !unicode.IsSpace(rune(c)) {
				ident = ""
			}
			s.pos++
		}
	}
	return nil, nil
}

func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) skipLine() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if unicode.IsSpace(rune(c)) {
			s.pos++
			continue
		}
		if c == '/' && s.peek(1) == '/' {
			s.skipLine()
			continue
		}
		if c == '/' && s.peek(1) == '*' {
			if s.skipBlockComment() != nil {
				return
			}
			continue
		}
		return
	}
}

func (s *scanner) skipBlockComment() error {
	s.pos += 2
	end := strings.Index(s.src[s.pos:], "*/")
	if end < 0 {
		return &ParseError{Reason: "unterminated block comment"}
	}
	s.pos += end + 2
	return nil
}

func (s *scanner) skipLiteral(quote byte) error {
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\\' {
			s.pos += 2
			continue
		}
		if c == quote {
			s.pos++
			return nil
		}
		s.pos++
	}
	return &ParseError{Reason: "unterminated literal"}
}

// skipParens consumes a balanced parenthesis group starting at '('.
func (s *scanner) skipParens() error {
	depth := 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLine()
			continue
		case c == '/' && s.peek(1) == '*':
			if err := s.skipBlockComment(); err != nil {
				return err
			}
			continue
		case c == '"' || c == '\'':
			if err := s.skipLiteral(c); err != nil {
				return err
			}
			continue
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				s.pos++
				return nil
			}
		}
		s.pos++
	}
	return &ParseError{Reason: "unterminated parameter list"}
}

// captureBraces returns the balanced brace group starting at '{',
// braces included.
func (s *scanner) captureBraces() (string, error) {
	start := s.pos
	depth := 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLine()
			continue
		case c == '/' && s.peek(1) == '*':
			if err := s.skipBlockComment(); err != nil {
				return "", err
			}
			continue
		case c == '"' || c == '\'':
			if err := s.skipLiteral(c); err != nil {
				return "", err
			}
			continue
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				s.pos++
				return s.src[start:s.pos], nil
			}
		}
		s.pos++
	}
	return "", &ParseError{Reason: "unterminated function body"}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
