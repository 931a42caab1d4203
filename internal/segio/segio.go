// Package segio names and discovers segment files on disk. A segment file
// is named "<N>.log", where N is a non-negative decimal segment id; the
// active segment is always the one with the largest id (spec.md §3, §6.1).
package segio

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ignitedb/ignite/pkg/filesys"
)

const extension = ".log"

// Name returns the filename for segment id within a data directory.
func Name(id uint64) string {
	return fmt.Sprintf("%d%s", id, extension)
}

// Path returns the full path to segment id within dataDir.
func Path(dataDir string, id uint64) string {
	return filepath.Join(dataDir, Name(id))
}

// ParseID extracts the segment id from a segment filename (or full path).
// Filenames whose stem isn't a non-negative decimal integer, or that don't
// carry the ".log" extension, are rejected by returning ok == false; callers
// treat that as "not a segment" and skip it (spec.md §9) rather than treat
// it as fatal.
func ParseID(path string) (uint64, bool) {
	base := filepath.Base(path)
	if filepath.Ext(base) != extension {
		return 0, false
	}

	stem := strings.TrimSuffix(base, extension)
	id, err := strconv.ParseUint(stem, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Discover scans dataDir for segment files and returns their ids in
// ascending order. Non-matching files are silently skipped.
func Discover(dataDir string) ([]uint64, error) {
	matches, err := filesys.ReadDir(filepath.Join(dataDir, "*"+extension))
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(matches))
	for _, m := range matches {
		if id, ok := ParseID(m); ok {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)
	return ids, nil
}
