package script

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := `{"title": "Demo", "scenes": [{"id": "s1"}]}`
	if _, err := Validate([]byte(valid)); err != nil {
		t.Errorf("Expected valid JSON, got error: %v", err)
	}

	truncated := `{"title": "Demo", "scenes": [{"id": "s1"`
	offset, err := Validate([]byte(truncated))
	if err == nil {
		t.Fatal("Expected error for truncated JSON, got nil")
	}
	if offset <= 0 || offset > int64(len(truncated)) {
		t.Errorf("Expected offset within input bounds, got %d", offset)
	}
}

func TestDecode(t *testing.T) {
	data := `{"title": "Demo", "scenes": [
		{"id": "s1", "narration": "hello", "firstFrameDataUrl": "/frames/s1-first.png"},
		{"id": "s2", "lastFrameDataUrl": null}
	]}`

	doc, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if doc.Title != "Demo" {
		t.Errorf("Expected title Demo, got %s", doc.Title)
	}
	if len(doc.Scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d", len(doc.Scenes))
	}
	if doc.Scenes[0].ID != "s1" {
		t.Errorf("Expected scene id s1, got %s", doc.Scenes[0].ID)
	}
	if doc.Scenes[0].FirstFrameDataURL == nil || *doc.Scenes[0].FirstFrameDataURL != "/frames/s1-first.png" {
		t.Errorf("Unexpected first frame field: %v", doc.Scenes[0].FirstFrameDataURL)
	}
	if doc.Scenes[1].LastFrameDataURL != nil {
		t.Errorf("Expected nil last frame for null value, got %v", *doc.Scenes[1].LastFrameDataURL)
	}
}

func TestFormatPreservesFieldOrder(t *testing.T) {
	// Keys deliberately out of alphabetical order.
	data := `{"zeta": 1, "alpha": 2, "scenes": []}`

	pretty, err := Format([]byte(data))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	out := string(pretty)
	if strings.Index(out, `"zeta"`) > strings.Index(out, `"alpha"`) {
		t.Error("Expected original field order to be preserved")
	}
	if !strings.Contains(out, "  \"zeta\": 1") {
		t.Errorf("Expected two-space indentation, got:\n%s", out)
	}
}

func TestIsInlinePayload(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "png data uri", value: "data:image/png;base64,iVBOR", expected: true},
		{name: "jpeg data uri", value: "data:image/jpeg;base64,/9j/", expected: true},
		{name: "file path", value: "/frames/s1-first.png", expected: false},
		{name: "empty", value: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInlinePayload(tt.value); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
