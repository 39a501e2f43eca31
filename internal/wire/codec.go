// Package wire implements the flat key:value;key:value; payload format
// shared by every event class on the broker.
package wire

import (
	"bytes"
	"strings"
)

// Field is a single key/value attribute. Encoding preserves field order,
// so payloads stay readable in logs.
type Field struct {
	Key   string
	Value string
}

// Encode renders fields as "key:value;" segments in the given order.
// Keys and values must not contain ':' or ';' — the format has no escaping,
// and callers are expected to keep those characters out by construction.
func Encode(fields []Field) []byte {
	var buf bytes.Buffer
	for _, f := range fields {
		buf.WriteString(f.Key)
		buf.WriteByte(':')
		buf.WriteString(f.Value)
		buf.WriteByte(';')
	}
	return buf.Bytes()
}

// Decode parses a payload back into a key/value map. Segments are split on
// ';', each segment on its first ':'. A segment with no colon or an empty
// key is malformed: it is skipped and counted, never fatal — the rest of
// the payload still decodes.
func Decode(body []byte) (map[string]string, int) {
	attrs := make(map[string]string)
	skipped := 0
	for _, seg := range strings.Split(string(body), ";") {
		if seg == "" {
			continue
		}
		key, value, ok := strings.Cut(seg, ":")
		if !ok || key == "" {
			skipped++
			continue
		}
		attrs[key] = value
	}
	return attrs, skipped
}
