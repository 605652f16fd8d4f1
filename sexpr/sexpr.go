package sexpr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/sergev/anaphora/lang"
)

// position is a 1-based line and column.
type position struct {
	line int
	col  int
}

type scannedRune struct {
	r   rune
	pos position
}

type scanner struct {
	br   *bufio.Reader
	undo []scannedRune
	pos  position
}

func newScanner(r io.Reader) *scanner {
	return &scanner{
		br:  bufio.NewReader(r),
		pos: position{line: 1, col: 1},
	}
}

func (s *scanner) read() (scannedRune, error) {
	var sr scannedRune
	if n := len(s.undo); n > 0 {
		sr = s.undo[n-1]
		s.undo = s.undo[:n-1]
	} else {
		r, _, err := s.br.ReadRune()
		if err != nil {
			return scannedRune{}, err
		}
		sr = scannedRune{r: r, pos: s.pos}
	}
	if sr.r == '\n' {
		s.pos = position{line: sr.pos.line + 1, col: 1}
	} else {
		s.pos = position{line: sr.pos.line, col: sr.pos.col + 1}
	}
	return sr, nil
}

func (s *scanner) unread(sr scannedRune) {
	s.undo = append(s.undo, sr)
	s.pos = sr.pos
}

func (s *scanner) peek() (scannedRune, error) {
	sr, err := s.read()
	if err != nil {
		return scannedRune{}, err
	}
	s.unread(sr)
	return sr, nil
}

func (s *scanner) errorAt(pos position, format string, args ...interface{}) error {
	return &Error{Line: pos.line, Column: pos.col, Err: fmt.Errorf(format, args...)}
}

// incomplete wraps an EOF hit inside an unfinished form. Other read errors
// pass through unchanged.
func (s *scanner) incomplete(err error, what string) error {
	if errors.Is(err, io.EOF) {
		return &Error{Line: s.pos.line, Column: s.pos.col, Err: fmt.Errorf("unterminated %s", what), Incomplete: true}
	}
	return err
}

func (s *scanner) skipWhitespace() error {
	for {
		sr, err := s.read()
		if err != nil {
			return err
		}
		switch {
		case unicode.IsSpace(sr.r):
		case sr.r == ';':
			if err := s.skipLine(); err != nil {
				return err
			}
		default:
			s.unread(sr)
			return nil
		}
	}
}

func (s *scanner) skipLine() error {
	for {
		sr, err := s.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if sr.r == '\n' {
			return nil
		}
	}
}

var quoteTags = map[rune]string{
	'\'': "quote",
	'`':  "quasiquote",
}

func readExpr(sc *scanner) (lang.Value, error) {
	if err := sc.skipWhitespace(); err != nil {
		return lang.Value{}, err
	}
	sr, err := sc.read()
	if err != nil {
		return lang.Value{}, err
	}
	switch sr.r {
	case '(':
		return readList(sc)
	case ')':
		return lang.Value{}, sc.errorAt(sr.pos, "unexpected )")
	case '\'', '`':
		return readQuoted(sc, quoteTags[sr.r])
	case ',':
		next, err := sc.peek()
		if err != nil {
			return lang.Value{}, sc.incomplete(err, "unquote")
		}
		if next.r == '@' {
			if _, err := sc.read(); err != nil {
				return lang.Value{}, err
			}
			return readQuoted(sc, "unquote-splicing")
		}
		return readQuoted(sc, "unquote")
	case '"':
		return readString(sc)
	case '#':
		return readDispatch(sc, sr.pos)
	default:
		sc.unread(sr)
		return readAtom(sc)
	}
}

func readQuoted(sc *scanner, tag string) (lang.Value, error) {
	expr, err := readExpr(sc)
	if err != nil {
		return lang.Value{}, sc.incomplete(err, tag)
	}
	return lang.List(lang.SymbolValue(tag), expr), nil
}

func readDispatch(sc *scanner, start position) (lang.Value, error) {
	sr, err := sc.read()
	if err != nil {
		return lang.Value{}, sc.incomplete(err, "dispatch sequence")
	}
	switch sr.r {
	case 't':
		return lang.BoolValue(true), nil
	case 'f':
		return lang.BoolValue(false), nil
	default:
		return lang.Value{}, sc.errorAt(start, "unknown dispatch sequence: #%c", sr.r)
	}
}

func readList(sc *scanner) (lang.Value, error) {
	var elems []lang.Value
	for {
		if err := sc.skipWhitespace(); err != nil {
			return lang.Value{}, sc.incomplete(err, "list")
		}
		next, err := sc.peek()
		if err != nil {
			return lang.Value{}, sc.incomplete(err, "list")
		}
		switch {
		case next.r == ')':
			if _, err := sc.read(); err != nil {
				return lang.Value{}, err
			}
			return lang.List(elems...), nil
		case next.r == '.' && isDelimiterAfterDot(sc):
			if len(elems) == 0 {
				return lang.Value{}, sc.errorAt(next.pos, "dotted pair without head")
			}
			return readDottedTail(sc, elems)
		}
		elem, err := readExpr(sc)
		if err != nil {
			return lang.Value{}, sc.incomplete(err, "list")
		}
		elems = append(elems, elem)
	}
}

// isDelimiterAfterDot distinguishes the dotted-pair marker from symbols and
// numbers that begin with a dot, such as .5 or ...
func isDelimiterAfterDot(sc *scanner) bool {
	dot, err := sc.read()
	if err != nil {
		return false
	}
	after, err := sc.peek()
	sc.unread(dot)
	if err != nil {
		return true
	}
	return unicode.IsSpace(after.r) || after.r == '(' || after.r == ')'
}

func readDottedTail(sc *scanner, elems []lang.Value) (lang.Value, error) {
	if _, err := sc.read(); err != nil {
		return lang.Value{}, err
	}
	tail, err := readExpr(sc)
	if err != nil {
		return lang.Value{}, sc.incomplete(err, "list")
	}
	if err := sc.skipWhitespace(); err != nil {
		return lang.Value{}, sc.incomplete(err, "list")
	}
	closing, err := sc.read()
	if err != nil {
		return lang.Value{}, sc.incomplete(err, "list")
	}
	if closing.r != ')' {
		return lang.Value{}, sc.errorAt(closing.pos, "expected ) after dotted pair, got %q", closing.r)
	}
	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		result = lang.PairValue(elems[i], result)
	}
	return result, nil
}

func isAtomDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' || r == ';' || r == '\'' || r == '`' || r == ','
}

func readAtom(sc *scanner) (lang.Value, error) {
	var builder strings.Builder
	for {
		sr, err := sc.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return lang.Value{}, err
		}
		if isAtomDelimiter(sr.r) {
			sc.unread(sr)
			break
		}
		builder.WriteRune(sr.r)
	}
	token := builder.String()
	if token == "" {
		return lang.Value{}, sc.errorAt(sc.pos, "unexpected token")
	}
	if val, ok := tryNumber(token); ok {
		return val, nil
	}
	return lang.SymbolValue(token), nil
}

var stringEscapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'"':  '"',
}

func readString(sc *scanner) (lang.Value, error) {
	var builder strings.Builder
	for {
		sr, err := sc.read()
		if err != nil {
			return lang.Value{}, sc.incomplete(err, "string")
		}
		switch sr.r {
		case '"':
			return lang.StringValue(builder.String()), nil
		case '\\':
			esc, err := sc.read()
			if err != nil {
				return lang.Value{}, sc.incomplete(err, "escape sequence")
			}
			if mapped, ok := stringEscapes[esc.r]; ok {
				builder.WriteRune(mapped)
			} else {
				builder.WriteRune(esc.r)
			}
		default:
			builder.WriteRune(sr.r)
		}
	}
}

func tryNumber(token string) (lang.Value, bool) {
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return lang.IntValue(i), true
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return lang.RealValue(f), true
	}
	return lang.Value{}, false
}

// ReadAll reads all s-expressions from the provided reader.
func ReadAll(r io.Reader) ([]lang.Value, error) {
	rd := NewReader(r)
	var values []lang.Value
	for {
		val, err := rd.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return values, nil
			}
			return nil, err
		}
		values = append(values, val)
	}
}

// ReadString parses all expressions from a string.
func ReadString(src string) ([]lang.Value, error) {
	return ReadAll(strings.NewReader(src))
}

// Reader incrementally reads s-expressions from an input stream.
type Reader struct {
	sc *scanner
}

// NewReader constructs a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{sc: newScanner(r)}
}

// Read parses and returns the next s-expression from the stream.
// It returns io.EOF when no more expressions are available.
func (rd *Reader) Read() (lang.Value, error) {
	if rd == nil || rd.sc == nil {
		return lang.Value{}, io.EOF
	}
	if err := rd.sc.skipWhitespace(); err != nil {
		return lang.Value{}, err
	}
	return readExpr(rd.sc)
}
