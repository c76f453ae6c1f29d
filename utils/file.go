package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteFileWithTimestamp writes data to outDir as <name>_<unix time><ext>,
// creating outDir when needed.
// Returns the destination path and error if any
func WriteFileWithTimestamp(data []byte, name, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// Create destination filename with timestamp
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	baseFileName := strings.TrimSuffix(base, ext)
	timestamp := time.Now().Unix()
	destPath := filepath.Join(outDir, fmt.Sprintf("%s_%d%s", baseFileName, timestamp, ext))

	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return destPath, nil
}

// FileNameWithoutExt returns the base name of path without its extension.
func FileNameWithoutExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ExtensionForFormat maps an image format tag to a file extension.
func ExtensionForFormat(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "":
		return ".bin"
	default:
		return "." + format
	}
}
