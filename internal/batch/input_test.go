package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two words", "cat\ndog", []string{"cat", "dog"}},
		{"trims whitespace", "  cat \n\tdog\t", []string{"cat", "dog"}},
		{"windows line endings", "cat\r\ndog\r\n", []string{"cat", "dog"}},
		{"skips blank lines", "\n\ncat\n   \n\ndog\n", []string{"cat", "dog"}},
		{"keeps inner spaces", "ice cream\n", []string{"ice cream"}},
		{"drops repeats", "cat\ndog\ncat\n cat ", []string{"cat", "dog"}},
		{"empty", "", nil},
		{"whitespace only", "  \n\t\n \r\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Words(ParseWords(tt.input))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseWords(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseWords_LineNumbers(t *testing.T) {
	entries := ParseWords("\ncat\n\ndog")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Line != 2 || entries[1].Line != 4 {
		t.Errorf("unexpected line numbers: %+v", entries)
	}
}

func TestReadBatchFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "words.txt")
	if err := os.WriteFile(path, []byte("apple\n\nbanana\n"), 0644); err != nil {
		t.Fatalf("Failed to write batch file: %v", err)
	}

	entries, err := ReadBatchFile(path)
	if err != nil {
		t.Fatalf("ReadBatchFile() error = %v", err)
	}

	want := []string{"apple", "banana"}
	if got := Words(entries); !reflect.DeepEqual(got, want) {
		t.Errorf("ReadBatchFile() = %v, want %v", got, want)
	}
}

func TestReadBatchFile_Missing(t *testing.T) {
	if _, err := ReadBatchFile("/nonexistent/words.txt"); err == nil {
		t.Error("Expected error for missing file")
	}
}
