package segstore

import (
	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/pkg/errors"
)

// VisitedRecord pairs a decoded command record with the location it was
// read from, for replay-driven index rebuilding.
type VisitedRecord struct {
	Location Location
	Record   codec.Record
}

// Replay decodes every record from every known segment, strictly in
// ascending (segment-id, offset) order — the tie-break spec.md §4.3.1
// defines as "latest record wins" — invoking fn for each one in turn.
func (s *Store) Replay(fn func(VisitedRecord) error) error {
	for _, id := range s.SegmentIDs() {
		file, err := s.Reader(id)
		if err != nil {
			return err
		}

		decErr := codec.DecodeAll(file, func(e codec.Entry) error {
			return fn(VisitedRecord{
				Location: Location{SegmentID: id, Offset: e.Offset, Length: e.Length},
				Record:   e.Record,
			})
		})
		if decErr != nil {
			return errors.NewCodecError(decErr, errors.ErrorCodeCodec, "failed to decode segment during replay").
				WithSegmentID(int64(id))
		}
	}
	return nil
}
