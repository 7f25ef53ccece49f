package csvparse

import (
	"strings"
)

// Format serializes rows so that Parse recovers them exactly. Absent fields
// are written empty, present fields are quoted when they are empty or hold a
// comma, quote or line break.
func Format(rows [][]Field) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		for j, f := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			writeField(&b, f)
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, f Field) {
	if !f.Valid {
		return
	}
	if f.Value != "" && !strings.ContainsAny(f.Value, ",\"\r\n") {
		b.WriteString(f.Value)
		return
	}
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(f.Value, `"`, `""`))
	b.WriteByte('"')
}

// Strings converts plain string records into present fields, reading empty
// strings as absent. Spreadsheet readers report blank cells this way.
func Strings(records [][]string) [][]Field {
	rows := make([][]Field, len(records))
	for i, rec := range records {
		row := make([]Field, len(rec))
		for j, s := range rec {
			if s != "" {
				row[j] = Present(s)
			}
		}
		rows[i] = row
	}
	return rows
}
