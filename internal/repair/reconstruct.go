package repair

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrNoCompleteScenes means no intact scene record exists before the
	// truncation point, so there is nothing to rebuild from.
	ErrNoCompleteScenes = errors.New("no complete scene records found before the truncation point")

	// ErrNoScenesMarker means the scene list opener was itself lost, so the
	// metadata header cannot be separated from the scene records.
	ErrNoScenesMarker = errors.New(`script header is missing the "scenes" marker`)
)

const scenesMarker = `"scenes"`

// sceneStartPattern requires id to be the first field of a scene record,
// which is how the script writer emits scenes.
var sceneStartPattern = regexp.MustCompile(`^\{\s*"id"\s*:`)

// CompleteScenes returns every syntactically complete scene record in
// content, in order of appearance. A complete scene is a balanced JSON
// object whose first field is "id" and which is followed, after optional
// whitespace, by a comma or the closing bracket of the scene list. Brace
// nesting is tracked explicitly (string literals and escapes are skipped)
// so scenes containing nested objects or braces inside narration text are
// matched at their true boundaries.
func CompleteScenes(content string) []string {
	var scenes []string

	i := 0
	for i < len(content) {
		switch content[i] {
		case '"':
			j, ok := skipString(content, i)
			if !ok {
				return scenes
			}
			i = j
		case '{':
			end, ok := matchObject(content, i)
			if ok && sceneStartPattern.MatchString(content[i:end]) && sceneTerminated(content, end) {
				scenes = append(scenes, content[i:end])
				i = end
				continue
			}
			// Not a complete scene at this brace; descend one byte so any
			// nested or later record is still considered.
			i++
		default:
			i++
		}
	}

	return scenes
}

// matchObject scans a balanced object starting at the opening brace and
// returns the index just past its closing brace.
func matchObject(s string, start int) (int, bool) {
	depth := 0
	i := start
	for i < len(s) {
		switch s[i] {
		case '"':
			j, ok := skipString(s, i)
			if !ok {
				return 0, false
			}
			i = j
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
		i++
	}
	return 0, false
}

// skipString advances past a JSON string literal opened at index i and
// returns the index just past the closing quote. ok is false when the
// string runs off the end of the input (truncated mid-string).
func skipString(s string, i int) (int, bool) {
	i++ // opening quote
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i + 1, true
		}
		i++
	}
	return 0, false
}

// sceneTerminated reports whether the object ending at end sits at a list
// element boundary: the next non-whitespace byte is a comma or a closing
// bracket.
func sceneTerminated(s string, end int) bool {
	for i := end; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case ',', ']':
			return true
		default:
			return false
		}
	}
	return false
}

// Reconstruct rebuilds a minimal valid script from the prefix of content
// that precedes the parse failure at errOffset: the original metadata
// header followed by every complete scene record found before the
// truncation point. Returns the reassembled text and the number of scenes
// it carries.
func Reconstruct(content string, errOffset int64) (string, int, error) {
	cut := int(errOffset)
	if cut < 0 || cut > len(content) {
		cut = len(content)
	}
	searchSpace := content[:cut]

	scenes := CompleteScenes(searchSpace)
	if len(scenes) == 0 {
		return "", 0, ErrNoCompleteScenes
	}

	headerEnd := strings.Index(searchSpace, scenesMarker)
	if headerEnd <= 0 {
		return "", 0, ErrNoScenesMarker
	}

	var b strings.Builder
	b.WriteString(searchSpace[:headerEnd])
	b.WriteString(scenesMarker + ": [\n")
	for i, scene := range scenes {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(scene)
	}
	b.WriteString("\n]\n}")

	return b.String(), len(scenes), nil
}
