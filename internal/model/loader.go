package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MissingArtifactError reports an artifact path that does not exist. It is a
// configuration problem: an operator has to supply the file.
type MissingArtifactError struct {
	Path string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("%s: %s", ErrArtifactMissing, e.Path)
}

func (e *MissingArtifactError) Unwrap() error {
	return ErrArtifactMissing
}

// File is the base name shown to users.
func (e *MissingArtifactError) File() string {
	return filepath.Base(e.Path)
}

// Load reads and parses the artifact at path.
func Load(path string) (Predictor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingArtifactError{Path: path}
		}
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}
	p, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// Stat checks that path is a readable regular file without parsing it.
func Stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingArtifactError{Path: path}
		}
		return nil, fmt.Errorf("stat model artifact %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidArtifact, path)
	}
	return info, nil
}
