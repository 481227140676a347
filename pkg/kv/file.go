package kv

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// File stores each key as one file under root. Keys are hex encoded into
// file names so any key is a safe path component.
type File struct {
	root string
}

func NewFile(root string) *File {
	return &File{root: root}
}

func (f *File) path(key string) string {
	return filepath.Join(f.root, hex.EncodeToString([]byte(key))+".json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	body, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}

	return body, true, nil
}

// Set writes through a temporary file so a crash never leaves a torn value.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(f.root, 0750); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for key %s: %w", key, err)
	}

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write key %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to close temp file for key %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to store key %s: %w", key, err)
	}

	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

func (f *File) Close() error {
	return nil
}
