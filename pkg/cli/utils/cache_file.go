package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// CacheFilePath returns the absolute path of a file inside the mcplaunch
// cache directory, creating the directory if needed.
func CacheFilePath(name string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user cache dir: %w", err)
	}

	dir := filepath.Join(base, ".mcplaunch")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to ensure %s exists: %w", dir, err)
	}

	return filepath.Join(dir, name), nil
}
