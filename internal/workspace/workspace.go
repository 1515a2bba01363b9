package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run id does not name an existing run
var ErrRunNotFound = errors.New("run not found")

// ErrInvalidRunID is returned for ids that are not UUIDs
var ErrInvalidRunID = errors.New("invalid run id")

// Workspace is the root directory of all runs
type Workspace struct {
	root   string
	logger *slog.Logger
}

// Run is the directory of a single generation
type Run struct {
	ID  string
	Dir string
}

// New creates the workspace root if needed
func New(root string, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Workspace{root: root, logger: logger}, nil
}

// Root returns the workspace directory
func (w *Workspace) Root() string {
	return w.root
}

// NewRun creates a fresh run directory named by a random UUID
func (w *Workspace) NewRun() (*Run, error) {
	id := uuid.NewString()
	dir := filepath.Join(w.root, id)
	if err := os.Mkdir(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	w.logger.Debug("created run", "run_id", id, "dir", dir)
	return &Run{ID: id, Dir: dir}, nil
}

// Open resolves an existing run. The id must be a UUID so it can never
// point outside the workspace.
func (w *Workspace) Open(id string) (*Run, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRunID, id)
	}

	canonical := parsed.String()
	dir := filepath.Join(w.root, canonical)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, canonical)
	}
	return &Run{ID: canonical, Dir: dir}, nil
}

// Prune removes runs whose directory is older than maxAge and returns the
// number of removed runs. Entries that are not run directories are kept.
func (w *Workspace) Prune(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return 0, fmt.Errorf("failed to read output directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(w.root, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove run %s: %w", entry.Name(), err)
		}
		removed++
	}

	if removed > 0 {
		w.logger.Info("pruned old runs", "count", removed, "max_age", maxAge)
	}
	return removed, nil
}

// Path returns the path of a file inside the run
func (r *Run) Path(name string) string {
	return filepath.Join(r.Dir, filepath.Base(name))
}

// WriteFile stores data under name inside the run
func (r *Run) WriteFile(name string, data []byte) (string, error) {
	path := r.Path(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}

// Remove deletes a file from the run, ignoring files that do not exist
func (r *Run) Remove(name string) error {
	err := os.Remove(r.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether name exists inside the run
func (r *Run) Exists(name string) bool {
	_, err := os.Stat(r.Path(name))
	return err == nil
}

// Discard removes the run directory and everything in it
func (r *Run) Discard() error {
	return os.RemoveAll(r.Dir)
}
