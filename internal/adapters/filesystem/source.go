package filesystem

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"anchorbar/internal/ports"
)

// Sources implements ports.SourceFiles on the local filesystem
type Sources struct{}

var _ ports.SourceFiles = Sources{}

// NewSources creates a new source file resolver
func NewSources() Sources {
	return Sources{}
}

// Stat resolves path to an absolute location and fingerprints its bytes
func (Sources) Stat(path string) (*ports.SourceFile, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fingerprint, err := Fingerprint(abs)
	if err != nil {
		return nil, err
	}

	return &ports.SourceFile{
		Dir:         filepath.Dir(abs),
		Name:        filepath.Base(abs),
		Fingerprint: fingerprint,
	}, nil
}

// Fingerprint returns the hex SHA-1 digest of the file at path
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
