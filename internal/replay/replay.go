// Package replay rebuilds an in-memory index from the segment log, the
// procedure both engine startup (spec.md §4.3 "Startup / replay") and
// post-compaction index rebuilding (spec.md §4.3.1 step 5) share.
package replay

import (
	"fmt"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/segstore"
)

// Apply decodes every record in store, in ascending (segment-id, offset)
// order, and applies each to idx in turn so later records override earlier
// ones. A Set record installs its location; a Remove record erases the
// entry and — per spec.md §9 open question (b) — always counts its own
// on-disk length as stale, regardless of whether the key it names was live.
func Apply(store *segstore.Store, idx *index.Index) error {
	return store.Replay(func(v segstore.VisitedRecord) error {
		switch rec := v.Record.(type) {
		case codec.SetRecord:
			idx.Set(rec.Key, v.Location)
		case codec.RemoveRecord:
			idx.Remove(rec.Key)
			idx.AddStale(uint64(v.Location.Length))
		default:
			return fmt.Errorf("replay: unrecognized record type %T", v.Record)
		}
		return nil
	})
}
