package server

import (
	"path/filepath"
	"strings"

	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/options"
)

const engineMarkerFile = "engine"

// resolveEngineKind implements spec.md §4.5 "Engine selection persistence":
// on first start the chosen engine name is written to a plain-text `engine`
// file in dataDir; on later starts a requested engine that differs from the
// stored one is refused, an unrequested engine falls back to the stored
// one, and if neither exists the default (kvs) is used and recorded.
func resolveEngineKind(dataDir string, requested options.EngineKind) (options.EngineKind, error) {
	markerPath := filepath.Join(dataDir, engineMarkerFile)

	exists, err := filesys.Exists(markerPath)
	if err != nil {
		return "", errors.NewStorageError(err, errors.ErrorCodeIO, "failed to check engine marker file").
			WithPath(markerPath)
	}

	if exists {
		raw, err := filesys.ReadFile(markerPath)
		if err != nil {
			return "", errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read engine marker file").
				WithPath(markerPath)
		}

		stored := options.EngineKind(strings.TrimSpace(string(raw)))
		if requested != "" && requested != stored {
			return "", errors.NewEngineMismatchError(string(requested), string(stored))
		}
		return stored, nil
	}

	chosen := requested
	if chosen == "" {
		chosen = options.DefaultEngine
	}

	if err := filesys.WriteFile(markerPath, 0o644, []byte(chosen)); err != nil {
		return "", errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write engine marker file").
			WithPath(markerPath)
	}
	return chosen, nil
}
