// Package csvparse is a tolerant lexer for comma separated text that keeps
// absent fields apart from empty strings.
package csvparse

import (
	"strings"
)

// Field is one parsed cell. The zero Field is absent; a present field may
// hold the empty string.
type Field struct {
	Value string
	Valid bool
}

// Present returns a field holding s
func Present(s string) Field { return Field{Value: s, Valid: true} }

// Absent returns the absent field
func Absent() Field { return Field{} }

// Parse splits text into rows of fields. Quoted fields may contain commas,
// newlines and doubled quotes. An empty unquoted field is absent while ""
// is the empty string. Malformed quoting never fails: characters between a
// closing quote and the next delimiter are dropped and an unterminated quote
// is read as plain text.
func Parse(text string) [][]Field {
	var rows [][]Field
	if text == "" {
		return rows
	}

	n := len(text)
	pos := 0
	newRow := true
	for {
		if newRow {
			rows = append(rows, []Field{})
		}
		var f Field
		f, pos = lexField(text, pos)
		rows[len(rows)-1] = append(rows[len(rows)-1], f)

		// skip to the next delimiter
		for pos < n && !isDelimiter(text[pos]) {
			pos++
		}
		if pos >= n {
			break
		}
		switch text[pos] {
		case ',':
			newRow = false
			pos++
		case '\r':
			newRow = true
			pos++
			if pos < n && text[pos] == '\n' {
				pos++
			}
		case '\n':
			newRow = true
			pos++
		}
	}

	if len(rows) > 1 {
		last := rows[len(rows)-1]
		if len(last) == 1 && !last[0].Valid {
			rows = rows[:len(rows)-1]
		}
	}
	return rows
}

func lexField(text string, pos int) (Field, int) {
	if pos < len(text) && text[pos] == '"' {
		if end, ok := closingQuote(text, pos+1); ok {
			return Present(unescape(text[pos+1 : end])), end + 1
		}
	}
	end := pos
	for end < len(text) && !isDelimiter(text[end]) {
		end++
	}
	raw := text[pos:end]
	if raw == "" {
		return Absent(), end
	}
	return Present(unescape(raw)), end
}

// closingQuote finds the quote ending a quoted field whose content starts at
// i, stepping over doubled quotes.
func closingQuote(text string, i int) (int, bool) {
	for {
		k := strings.IndexByte(text[i:], '"')
		if k < 0 {
			return 0, false
		}
		k += i
		if k+1 < len(text) && text[k+1] == '"' {
			i = k + 2
			continue
		}
		return k, true
	}
}

func unescape(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

func isDelimiter(c byte) bool {
	return c == ',' || c == '\n' || c == '\r'
}
