// Package kv provides the key-value substrate behind local persistence:
// the Go counterpart of browser local storage, with file, redis, sqlite and
// in-memory backends.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrQuotaExceeded is returned when a write does not fit the store.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store is a flat string-keyed byte store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var supportedProviders = []string{"file", "memory", "redis", "sqlite"}

// Open returns the store described by url. Supported forms are
// file:///dir, memory://, redis://host:port/db and sqlite:///path/to.db.
// A url without a scheme is treated as a file directory.
func Open(ctx context.Context, url string) (Store, error) {
	switch provider := parseProvider(url); provider {
	case "memory":
		return NewMemory(0), nil
	case "redis":
		return NewRedis(ctx, url)
	case "sqlite":
		return NewSQLite(ctx, strings.TrimPrefix(url, "sqlite://"))
	case "file":
		return NewFile(strings.TrimPrefix(url, "file://")), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", provider)
	}
}

func parseProvider(url string) string {
	provider, _, found := strings.Cut(url, "://")
	if !found {
		return "file"
	}

	for _, supported := range supportedProviders {
		if provider == supported {
			return provider
		}
	}

	return provider
}
