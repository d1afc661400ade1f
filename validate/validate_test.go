package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validMap = `{
	"name": "Test Map",
	"width": 5,
	"height": 5,
	"walls": [
		{"location": 2, "x": 1, "y": 1},
		{"location": 3, "x": 3, "y": 0}
	],
	"goals": [
		{"color": 1, "type": 1, "x": 1, "y": 1},
		{"color": 6, "type": 5, "x": 3, "y": 0}
	],
	"obstacles": [
		{"type": 1, "x": 2, "y": 2}
	],
	"barriers": [
		{"type": 2, "color": 2, "x": 4, "y": 3}
	]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write map: %v", err)
	}
	return path
}

func hasMessage(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestValidateMap_Valid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "test.json", validMap)

	result := ValidateMap(path)
	if !result.Valid {
		t.Fatalf("Expected valid map, but got errors: %v", result.Errors)
	}
	if result.File != "test.json" {
		t.Errorf("Expected file test.json, got %s", result.File)
	}

	for _, expected := range []string{
		"✓ Name: Test Map",
		"✓ Board: 5x5",
		"✓ Goals: 2",
		"✓ Obstacles: 1",
		"✓ Free cells: 23",
		"✓ Stopping points: 1/2",
		"Needs a blocker: mix swirl at (3,0)",
	} {
		if !hasMessage(result.Errors, expected) {
			t.Errorf("Expected message %q in %v", expected, result.Errors)
		}
	}
}

func TestValidateMap_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"bad json", `{"width": 5,`, "decode map description"},
		{"too small", `{"width": 1, "height": 5}`, "width must be between"},
		{"no goals", `{"width": 4, "height": 4}`, "Must have at least 1 goal"},
		{"goal outside", `{"width": 4, "height": 4, "goals": [{"color": 1, "type": 1, "x": 9, "y": 0}]}`, "outside the board"},
		{"bad barrier color", `{"width": 4, "height": 4, "goals": [{"color": 1, "type": 1, "x": 0, "y": 0}], "barriers": [{"type": 1, "color": 9, "x": 1, "y": 1}]}`, "invalid color"},
		{"crowded", `{"width": 2, "height": 2, "goals": [{"color": 1, "type": 1, "x": 0, "y": 0}], "obstacles": [{"type": 1, "x": 1, "y": 1}]}`, "Only 3 free cells"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "map.json", tt.content)
			result := ValidateMap(path)
			if result.Valid {
				t.Fatal("Expected invalid map")
			}
			if !hasMessage(result.Errors, tt.expected) {
				t.Errorf("Expected error containing %q, got %v", tt.expected, result.Errors)
			}
		})
	}

	result := ValidateMap(filepath.Join(t.TempDir(), "missing.json"))
	if result.Valid {
		t.Error("Expected missing file to be invalid")
	}
}

func TestValidateDirAndReport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_valid.json", validMap)
	writeFile(t, dir, "a_broken.json", `{`)
	writeFile(t, dir, "notes.txt", "ignored")

	results, err := ValidateDir(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].File != "a_broken.json" || results[1].File != "b_valid.json" {
		t.Errorf("Expected results sorted by file name, got %s, %s", results[0].File, results[1].File)
	}

	var buf bytes.Buffer
	if Report(&buf, results) {
		t.Error("Expected report to flag the broken map")
	}
	out := buf.String()
	if !strings.Contains(out, "❌ INVALID") || !strings.Contains(out, "✅ VALID") {
		t.Errorf("Unexpected report:\n%s", out)
	}

	buf.Reset()
	if !Report(&buf, results[1:]) {
		t.Error("Expected a clean report for valid maps only")
	}
	if !strings.Contains(buf.String(), "All maps are valid") {
		t.Errorf("Unexpected report:\n%s", buf.String())
	}
}
