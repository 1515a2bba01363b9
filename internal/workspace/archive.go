package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveRuns moves the output directory to an archive with timestamp and
// returns the archive path
func ArchiveRuns(outputDir string) (string, error) {
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		return "", fmt.Errorf("output directory does not exist: %s", outputDir)
	}

	archiveDir := filepath.Join(filepath.Dir(outputDir), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(outputDir)
	archivePath := filepath.Join(archiveDir,
		fmt.Sprintf("%s-%s", base, time.Now().Format("20060102-150405")))

	// Two archives within the same second
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir,
			fmt.Sprintf("%s-%s", base, time.Now().Format("20060102-150405.000000")))
	}

	if err := os.Rename(outputDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive output directory: %w", err)
	}

	return archivePath, nil
}
