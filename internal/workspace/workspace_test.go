package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws, err := New(filepath.Join(t.TempDir(), "output"), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return ws
}

func TestNewRun(t *testing.T) {
	ws := newTestWorkspace(t)

	run, err := ws.NewRun()
	if err != nil {
		t.Fatalf("NewRun() error = %v", err)
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		t.Errorf("Run id is not a UUID: %s", run.ID)
	}
	if filepath.Dir(run.Dir) != ws.Root() {
		t.Errorf("Run directory %s not inside %s", run.Dir, ws.Root())
	}

	other, err := ws.NewRun()
	if err != nil {
		t.Fatalf("NewRun() error = %v", err)
	}
	if other.ID == run.ID {
		t.Error("Runs must have distinct ids")
	}
}

func TestRunFiles(t *testing.T) {
	ws := newTestWorkspace(t)
	run, _ := ws.NewRun()

	path, err := run.WriteFile("cat.jpg", []byte("jpeg"))
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if path != filepath.Join(run.Dir, "cat.jpg") {
		t.Errorf("Unexpected path %s", path)
	}
	if !run.Exists("cat.jpg") {
		t.Error("Written file should exist")
	}

	// Names never escape the run directory
	if got := run.Path("../../etc/passwd"); got != filepath.Join(run.Dir, "passwd") {
		t.Errorf("Path() = %s", got)
	}

	if err := run.Remove("cat.jpg"); err != nil {
		t.Errorf("Remove() error = %v", err)
	}
	if run.Exists("cat.jpg") {
		t.Error("Removed file should not exist")
	}
	if err := run.Remove("missing.mp3"); err != nil {
		t.Errorf("Removing a missing file should succeed, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	ws := newTestWorkspace(t)
	run, _ := ws.NewRun()

	opened, err := ws.Open(run.ID)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened.Dir != run.Dir {
		t.Errorf("Open() dir = %s, want %s", opened.Dir, run.Dir)
	}

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"path traversal", "../secret", ErrInvalidRunID},
		{"empty", "", ErrInvalidRunID},
		{"unknown uuid", uuid.NewString(), ErrRunNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ws.Open(tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Open(%q) error = %v, want %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestPrune(t *testing.T) {
	ws := newTestWorkspace(t)

	oldRun, _ := ws.NewRun()
	newRun, _ := ws.NewRun()

	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldRun.Dir, past, past); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	// Non-run directories are left alone even when old
	keep := filepath.Join(ws.Root(), "notes")
	os.Mkdir(keep, 0755)
	os.Chtimes(keep, past, past)

	removed, err := ws.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed run, got %d", removed)
	}
	if _, err := os.Stat(oldRun.Dir); !os.IsNotExist(err) {
		t.Error("Old run should be removed")
	}
	if _, err := os.Stat(newRun.Dir); err != nil {
		t.Error("New run should be kept")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("Foreign directory should be kept")
	}
}
