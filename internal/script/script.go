package script

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// InlinePayloadPrefix marks a frame field whose value is an embedded
// base64 image instead of a file path.
const InlinePayloadPrefix = "data:image/"

// Scene is one entry in a script's ordered scene list.
type Scene struct {
	ID                string  `json:"id"`
	Narration         string  `json:"narration,omitempty"`
	DurationSeconds   float64 `json:"durationSeconds,omitempty"`
	FirstFrameDataURL *string `json:"firstFrameDataUrl,omitempty"`
	LastFrameDataURL  *string `json:"lastFrameDataUrl,omitempty"`
}

// Document is the typed view of a scene script. Metadata fields outside
// the scene list are intentionally not modeled here; repairs operate on
// the raw text so unknown fields survive verbatim.
type Document struct {
	Title  string  `json:"title,omitempty"`
	Scenes []Scene `json:"scenes"`
}

// Validate checks that data is well-formed JSON. On failure it returns the
// byte offset where parsing stopped, when the error carries one, otherwise
// the length of the input.
func Validate(data []byte) (int64, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return syn.Offset, err
		}
		return int64(len(data)), err
	}
	return 0, nil
}

// Decode parses data into a typed Document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Format pretty-prints raw JSON with two-space indentation. Field order is
// preserved as written, which keeps script metadata byte-stable across
// repairs.
func Format(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// IsInlinePayload reports whether a frame field value is an embedded image
// rather than a file path reference.
func IsInlinePayload(value string) bool {
	return strings.HasPrefix(value, InlinePayloadPrefix)
}
