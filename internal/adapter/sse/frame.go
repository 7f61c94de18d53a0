package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// pingFrame is an SSE comment line. Browsers ignore it.
var pingFrame = []byte(": ping\n\n")

// EncodeFrame renders one named event in text/event-stream framing:
//
//	event: <name>
//	data: <compact JSON>
//	<blank line>
//
// The JSON encoder never emits raw newlines, so the payload always fits on a
// single data line. HTML characters are left unescaped.
func EncodeFrame(name string, payload any) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, "\r\n") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEventName, name)
	}

	var buf bytes.Buffer
	buf.WriteString("event: ")
	buf.WriteString(name)
	buf.WriteString("\ndata: ")

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encode terminates the value with '\n', which ends the data line.
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", name, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
