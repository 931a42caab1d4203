// Package compaction implements the rewrite-and-reclaim procedure of
// spec.md §4.3.1: copy every live record into fresh segments, delete the
// old ones, and rebuild the index from the surviving files.
package compaction

import (
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/replay"
	"github.com/ignitedb/ignite/internal/segstore"
	"go.uber.org/zap"
)

type liveEntry struct {
	key string
	loc segstore.Location
}

// Run executes one synchronous compaction pass against store and idx,
// rotating into new segments above the old maximum id, then deletes every
// segment at or below that old maximum and rebuilds idx by replaying the
// survivors (spec.md §4.3.1 steps 1-5).
//
// Between the first write in step 3 and the first unlink in step 4, the
// directory holds both old and new copies of live data; a replay in that
// window is still correct because ascending segment-id order makes the new,
// larger ids win (spec.md §4.3.1 "Crash window"). Run performs no recovery
// of its own for this window — a crash mid-compaction is resolved the next
// time anything replays the directory, including Run's own final step.
func Run(store *segstore.Store, idx *index.Index, rotationThreshold uint64, log *zap.SugaredLogger) error {
	oldSegments := store.SegmentIDs()
	if len(oldSegments) == 0 {
		return nil
	}
	oldMax := oldSegments[len(oldSegments)-1]

	log.Infow("compaction starting", "oldMaxSegment", oldMax, "staleBytes", idx.StaleBytes(), "liveKeys", idx.Len())

	if err := store.RotateTo(oldMax + 1); err != nil {
		return err
	}

	var live []liveEntry
	idx.Range(func(key string, loc segstore.Location) bool {
		live = append(live, liveEntry{key: key, loc: loc})
		return true
	})

	for _, e := range live {
		data, err := store.Read(e.loc)
		if err != nil {
			return err
		}
		if _, err := store.AppendWithRotation(data, rotationThreshold); err != nil {
			return err
		}
	}

	for _, id := range oldSegments {
		if id <= oldMax {
			if err := store.Delete(id); err != nil {
				return err
			}
		}
	}

	idx.Reset(make(map[string]segstore.Location, len(live)))
	if err := replay.Apply(store, idx); err != nil {
		return err
	}

	log.Infow("compaction complete", "liveKeys", idx.Len(), "staleBytes", idx.StaleBytes(), "activeSegment", store.ActiveSegmentID())
	return nil
}
