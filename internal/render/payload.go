package render

import (
	"strings"
	"unicode/utf8"

	"github.com/unity-school/idcard-api/internal/models"
)

// MaxPayloadLen bounds the scannable-code payload. The cut is a hard byte
// cut, not field-aware: a truncated payload may not parse as JSON but still
// scans, and consumers treat it as a best-effort summary.
const MaxPayloadLen = 100

// EncodePayload projects {id, name, rollNumber, classDivision} into a
// compact JSON string with fixed field order, truncated to MaxPayloadLen.
// Pure function of the record; always returns a string.
func EncodePayload(record models.StudentRecord) string {
	var b strings.Builder
	b.WriteString(`{"id":`)
	b.WriteString(quoteJSON(record.ID))
	b.WriteString(`,"name":`)
	b.WriteString(quoteJSON(record.Name))
	b.WriteString(`,"rollNumber":`)
	b.WriteString(quoteJSON(record.RollNumber))
	b.WriteString(`,"classDivision":`)
	b.WriteString(quoteJSON(string(record.ClassDivision)))
	b.WriteString("}")

	out := b.String()
	if len(out) <= MaxPayloadLen {
		return out
	}
	return out[:MaxPayloadLen]
}

// quoteJSON writes a JSON string literal for s. Control characters and the
// two JSON metacharacters are escaped; everything else passes through so the
// payload stays compact.
func quoteJSON(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20:
			const hex = "0123456789abcdef"
			b.WriteString(`\u00`)
			b.WriteByte(hex[byte(r)>>4])
			b.WriteByte(hex[byte(r)&0xF])
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('"')
	return b.String()
}
