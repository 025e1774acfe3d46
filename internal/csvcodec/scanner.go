package csvcodec

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	errBareQuote = errors.New(`bare " in non-quoted field`)
	errQuote     = errors.New(`extraneous or missing " in quoted field`)
)

// recordScanner splits CSV text into records the way encoding/csv does with
// TrimLeadingSpace set, except that quoted fields keep their bytes exactly,
// "\r\n" included.
type recordScanner struct {
	text string
	pos  int
	line int
}

func newRecordScanner(text string) *recordScanner {
	return &recordScanner{text: text, line: 1}
}

// next returns the following record, or io.EOF once the text is consumed.
// After an error the scanner resumes at the next line.
func (s *recordScanner) next() ([]string, error) {
	if s.pos >= len(s.text) {
		return nil, io.EOF
	}
	start := s.line

	var record []string
	for {
		s.skipBlanks()
		var (
			field string
			err   error
		)
		if s.pos < len(s.text) && s.text[s.pos] == '"' {
			field, err = s.quoted()
		} else {
			field, err = s.unquoted()
		}
		if err != nil {
			s.skipLine()
			return nil, fmt.Errorf("record on line %d: %w", start, err)
		}
		record = append(record, field)

		if s.pos >= len(s.text) {
			return record, nil
		}
		switch s.text[s.pos] {
		case ',':
			s.pos++
		case '\n':
			s.pos++
			s.line++
			return record, nil
		}
	}
}

func (s *recordScanner) skipBlanks() {
	for s.pos < len(s.text) && (s.text[s.pos] == ' ' || s.text[s.pos] == '\t') {
		s.pos++
	}
}

// unquoted reads up to the next comma or line break. A carriage return that
// ends the line is dropped.
func (s *recordScanner) unquoted() (string, error) {
	end := strings.IndexAny(s.text[s.pos:], ",\n")
	if end < 0 {
		end = len(s.text) - s.pos
	}
	field := s.text[s.pos : s.pos+end]
	s.pos += end
	if s.pos < len(s.text) && s.text[s.pos] == '\n' {
		field = strings.TrimSuffix(field, "\r")
	}
	if strings.Contains(field, `"`) {
		return "", errBareQuote
	}
	return field, nil
}

// quoted reads a field that starts at an opening quote, undoubling embedded
// quotes. Line breaks inside the quotes are kept as they are.
func (s *recordScanner) quoted() (string, error) {
	s.pos++
	var b strings.Builder
	for {
		i := strings.IndexByte(s.text[s.pos:], '"')
		if i < 0 {
			return "", errQuote
		}
		chunk := s.text[s.pos : s.pos+i]
		s.line += strings.Count(chunk, "\n")
		b.WriteString(chunk)
		s.pos += i + 1

		if s.pos < len(s.text) && s.text[s.pos] == '"' {
			b.WriteByte('"')
			s.pos++
			continue
		}
		rest := s.text[s.pos:]
		switch {
		case rest == "", rest[0] == ',', rest[0] == '\n':
		case strings.HasPrefix(rest, "\r\n"):
			s.pos++
		default:
			return "", errQuote
		}
		return b.String(), nil
	}
}

// skipLine moves past the next line break.
func (s *recordScanner) skipLine() {
	i := strings.IndexByte(s.text[s.pos:], '\n')
	if i < 0 {
		s.pos = len(s.text)
		return
	}
	s.pos += i + 1
	s.line++
}
