package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestArchiveRuns(t *testing.T) {
	tmpDir := t.TempDir()

	outputDir := filepath.Join(tmpDir, "runs")
	runDir := filepath.Join(outputDir, "run")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatalf("Failed to create run directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "flashcards.apkg"), []byte("deck"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	archivePath, err := ArchiveRuns(outputDir)
	if err != nil {
		t.Fatalf("ArchiveRuns failed: %v", err)
	}

	if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
		t.Error("Output directory still exists after archiving")
	}

	if filepath.Dir(archivePath) != filepath.Join(tmpDir, "archive") {
		t.Errorf("Unexpected archive location %s", archivePath)
	}
	if !strings.HasPrefix(filepath.Base(archivePath), "runs-") {
		t.Errorf("Archived directory name doesn't start with 'runs-': %s", archivePath)
	}

	if _, err := os.Stat(filepath.Join(archivePath, "run", "flashcards.apkg")); err != nil {
		t.Error("Deck not found in archive")
	}
}

func TestArchiveRuns_NonExistentDirectory(t *testing.T) {
	_, err := ArchiveRuns(filepath.Join(t.TempDir(), "nonexistent"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestArchiveRuns_MultipleArchives(t *testing.T) {
	tmpDir := t.TempDir()
	outputDir := filepath.Join(tmpDir, "runs")

	seen := make(map[string]bool)
	for i := 0; i < 2; i++ {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			t.Fatalf("Failed to create output directory: %v", err)
		}

		archivePath, err := ArchiveRuns(outputDir)
		if err != nil {
			t.Fatalf("ArchiveRuns failed on iteration %d: %v", i, err)
		}
		seen[archivePath] = true
	}

	if len(seen) != 2 {
		t.Error("Archive names are not unique")
	}
}
