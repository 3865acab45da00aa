package core

// text.go cleans raw import payloads before parsing.
//
// Pasted and uploaded payloads commonly carry a UTF-8 BOM from Windows
// editors, stray Latin-1 bytes, and CRLF line endings. CleanPayload removes
// all three so the parsers only ever see valid UTF-8 with LF line endings.

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// utf8BOM is the byte order mark some editors prepend to UTF-8 files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CleanPayload strips a leading BOM, replaces invalid UTF-8 with U+FFFD and
// normalizes CRLF and lone CR line endings to LF.
func CleanPayload(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = sanitizeUTF8(data)
	s := string(data)
	if strings.IndexByte(s, '\r') >= 0 {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	return s
}

// sanitizeUTF8 replaces each invalid byte with the replacement character.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
