package script

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadLossy(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "script.json")

	content := `{"title": "Demo", "scenes": []}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	got, err := ReadLossy(path)
	if err != nil {
		t.Fatalf("ReadLossy failed: %v", err)
	}
	if got != content {
		t.Errorf("Expected %q, got %q", content, got)
	}
}

func TestReadLossyDropsInvalidUTF8(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "script.json")

	// 0xff and 0xfe are not valid in any UTF-8 sequence.
	raw := []byte{'{', '"', 'a', '"', ':', 0xff, '1', 0xfe, '}'}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	got, err := ReadLossy(path)
	if err != nil {
		t.Fatalf("ReadLossy failed: %v", err)
	}
	if got != `{"a":1}` {
		t.Errorf("Expected invalid bytes dropped, got %q", got)
	}
}

func TestReadLossyMissingFile(t *testing.T) {
	_, err := ReadLossy("/nonexistent/path/script.json")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}
