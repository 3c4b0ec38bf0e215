package repair

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// lookbackWindow is how far back (in bytes) to search for the owning scene's
// id when rewriting a payload occurrence.
const lookbackWindow = 500

var (
	// payloadPattern matches an inline frame field with a complete data-URI
	// string value. A payload whose closing quote was lost to truncation will
	// not match; that case falls through to reconstruction.
	payloadPattern = regexp.MustCompile(`"(first|last)FrameDataUrl"\s*:\s*"data:image/[^"]*"`)

	sceneIDPattern = regexp.MustCompile(`"id"\s*:\s*"([^"]+)"`)
)

// CountPayloads returns the number of inline frame payloads found in content.
func CountPayloads(content string) int {
	return len(payloadPattern.FindAllStringIndex(content, -1))
}

// StripPayloads rewrites every inline frame payload in content as a frame
// file path under framesDir, named after the nearest scene id preceding the
// occurrence. When no id is found within the lookback window the field is set
// to null instead. All surrounding text, including whitespace, is preserved
// verbatim. Returns the rewritten text and the number of replacements.
func StripPayloads(content, framesDir string) (string, int) {
	matches := payloadPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, 0
	}

	var b strings.Builder
	b.Grow(len(content) / 2)

	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		frameType := content[m[2]:m[3]] // "first" or "last"

		b.WriteString(content[last:start])
		b.WriteString(replacementFor(content, start, frameType, framesDir))
		last = end
	}
	b.WriteString(content[last:])

	return b.String(), len(matches)
}

// replacementFor builds the substitute field for a payload occurrence
// starting at offset.
func replacementFor(content string, offset int, frameType, framesDir string) string {
	windowStart := offset - lookbackWindow
	if windowStart < 0 {
		windowStart = 0
	}
	window := content[windowStart:offset]

	ids := sceneIDPattern.FindAllStringSubmatch(window, -1)
	if len(ids) == 0 {
		// No scene id in reach; drop the payload entirely.
		return fmt.Sprintf(`"%sFrameDataUrl": null`, frameType)
	}

	// The last match in the window is the nearest preceding id, i.e. the
	// scene this payload belongs to.
	sceneID := ids[len(ids)-1][1]
	framePath := path.Join(framesDir, fmt.Sprintf("%s-%s.png", sceneID, frameType))
	return fmt.Sprintf(`"%sFrameDataUrl": %q`, frameType, framePath)
}
