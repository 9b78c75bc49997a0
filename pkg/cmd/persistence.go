// Package cmd provides common initialization for command-line applications.
package cmd

import (
	"fmt"
	"strings"

	"github.com/edukit/assignflow/pkg/persistence"
	"github.com/edukit/assignflow/pkg/persistence/file"
	"github.com/edukit/assignflow/pkg/persistence/redis"
)

// NewPersistence selects a persistence backend from the database URL scheme.
// Anything that is not redis:// is treated as a file path.
func NewPersistence(databaseURL string) persistence.Persistence {
	switch parsePersistenceProvider(databaseURL) {
	case "redis":
		p, err := redis.NewPersistence(databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to connect to redis: %w", err))
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
