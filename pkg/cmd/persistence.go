// Package cmd holds the factories shared by the promptfinder commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/kv"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence/file"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence/postgresql"
)

var supportedRepositoryProviders = []string{"file", "postgres", "postgresql"}

// NewPresetRepository opens the server-side preset repository described by
// databaseURL. Unknown schemes fall back to the file repository.
func NewPresetRepository(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.PresetRepository, error) {
	switch parseRepositoryProvider(databaseURL) {
	case "postgres", "postgresql":
		repo, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres preset repository: %w", err)
		}

		return repo, nil
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

// NewStore opens the key-value store backing local presets and drafts.
func NewStore(ctx context.Context, storageURL string) (kv.Store, error) {
	store, err := kv.Open(ctx, storageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage %q: %w", storageURL, err)
	}

	return store, nil
}

func parseRepositoryProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	for _, supported := range supportedRepositoryProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
