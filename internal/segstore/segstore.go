// Package segstore owns the segment-file directory: enumeration, random
// reads by location, appends to the active segment, segment creation, and
// segment deletion (spec.md §4.1). It has no notion of keys or values — it
// deals only in raw record bytes and (segment-id, offset, length) locations.
package segstore

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/ignitedb/ignite/internal/segio"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"go.uber.org/zap"
)

// Location pinpoints a record within the segment directory.
type Location struct {
	SegmentID uint64
	Offset    int64
	Length    int64
}

// reader is a segment file kept open for the store's lifetime; Read uses
// ReadAt at the record's offset, so no separate Seek precedes each read.
type reader struct {
	file *os.File
}

// Store is the append-only segment directory. It maintains one writer for
// the active segment and one reader per known segment, including the active
// one (a segment is always readable, even while it is being appended to).
type Store struct {
	mu      sync.Mutex
	dataDir string
	log     *zap.SugaredLogger

	activeID   uint64
	activeFile *os.File
	activeSize int64

	readers map[uint64]*reader
}

// Config configures a new or reopened Store.
type Config struct {
	DataDir string
	Logger  *zap.SugaredLogger
}

// Open creates dataDir if absent, enumerates existing "<N>.log" segments,
// and opens (or creates) the active segment — the one with the largest id,
// or id 0 if the directory was empty (spec.md §4.1 "open(dir)"; segment
// ids start at 0, so a fresh store's first file is "0.log").
func Open(cfg Config) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, errors.NewRequiredFieldError("dataDir")
	}
	if cfg.Logger == nil {
		return nil, errors.NewRequiredFieldError("logger")
	}

	if err := filesys.CreateDir(cfg.DataDir, 0o755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, cfg.DataDir)
	}

	ids, err := segio.Discover(cfg.DataDir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to discover segments").
			WithPath(cfg.DataDir)
	}

	s := &Store{
		dataDir: cfg.DataDir,
		log:     cfg.Logger,
		readers: make(map[uint64]*reader, len(ids)),
	}

	activeID := uint64(0)
	if len(ids) > 0 {
		activeID = ids[len(ids)-1]
	}

	for _, id := range ids {
		if err := s.openReader(id); err != nil {
			s.closeAll()
			return nil, err
		}
	}

	if err := s.openActive(activeID); err != nil {
		s.closeAll()
		return nil, err
	}

	cfg.Logger.Infow("segment store opened", "dataDir", cfg.DataDir, "activeSegment", activeID, "segments", len(ids))
	return s, nil
}

func (s *Store) openReader(id uint64) error {
	path := segio.Path(s.dataDir, id)
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, segio.Name(id))
	}
	s.readers[id] = &reader{file: f}
	return nil
}

func (s *Store) openActive(id uint64) error {
	path := segio.Path(s.dataDir, id)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, segio.Name(id))
	}

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek active segment").
			WithSegmentID(int(id)).WithPath(path)
	}

	if s.activeFile != nil {
		s.activeFile.Close()
	}
	s.activeID = id
	s.activeFile = f
	s.activeSize = size

	if _, ok := s.readers[id]; !ok {
		if err := s.openReader(id); err != nil {
			return err
		}
	}
	return nil
}

// Append writes bytes to the active segment and returns their location
// (spec.md §4.1 "append(bytes)"). The write reaches the kernel page cache
// immediately via os.File.Write, so a reader sharing the same descriptor
// table sees it without an explicit flush.
func (s *Store) Append(data []byte) (Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offset := s.activeSize
	n, err := s.activeFile.Write(data)
	if err != nil {
		return Location{}, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to append record").
			WithSegmentID(int(s.activeID)).WithOffset(int(offset))
	}
	s.activeSize += int64(n)

	return Location{SegmentID: s.activeID, Offset: offset, Length: int64(n)}, nil
}

// ErrSegmentNotOpen is returned by Read when loc names a segment id the
// store has no reader for — an index entry pointing past what the segment
// directory actually contains.
var ErrSegmentNotOpen = fmt.Errorf("segstore: segment not open for reading")

// Read seeks the reader for loc.SegmentID and returns exactly loc.Length
// bytes starting at loc.Offset (spec.md §4.1 "read(...)").
func (s *Store) Read(loc Location) ([]byte, error) {
	s.mu.Lock()
	r, ok := s.readers[loc.SegmentID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSegmentNotOpen
	}

	buf := make([]byte, loc.Length)
	if _, err := r.file.ReadAt(buf, loc.Offset); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read record").
			WithSegmentID(int(loc.SegmentID)).WithOffset(int(loc.Offset))
	}
	return buf, nil
}

// ActiveSize returns the current byte size of the active segment.
func (s *Store) ActiveSize() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSize
}

// ActiveSegmentID returns the id of the segment currently accepting appends.
func (s *Store) ActiveSegmentID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Rotate closes the active segment for writing, increments the active id,
// opens the new file for append, and registers a reader for it (spec.md
// §4.1 "rotate()"). Rotation never discards data: the prior active segment
// remains open for reads via its existing reader.
func (s *Store) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotateLocked()
}

func (s *Store) rotateLocked() error {
	newID := s.activeID + 1
	s.log.Infow("rotating segment", "from", s.activeID, "to", newID)
	return s.openActive(newID)
}

// RotateTo forcibly makes id the active segment, used by compaction when it
// allocates a new segment at M+1 and beyond. id must not already exist.
func (s *Store) RotateTo(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openActive(id)
}

// AppendWithRotation appends data to the active segment, rotating first if
// the active segment has already grown past threshold bytes — the single
// shared "append with rotation" helper spec.md §9 calls for, used both by
// normal engine writes and by compaction's own segment-filling loop.
func (s *Store) AppendWithRotation(data []byte, threshold uint64) (Location, error) {
	s.mu.Lock()
	if uint64(s.activeSize) > threshold {
		if err := s.rotateLocked(); err != nil {
			s.mu.Unlock()
			return Location{}, err
		}
	}
	s.mu.Unlock()
	return s.Append(data)
}

// SegmentIDs returns every known segment id in ascending order.
func (s *Store) SegmentIDs() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uint64, 0, len(s.readers))
	for id := range s.readers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Delete closes the reader for id and unlinks its file. It must only be
// called for non-active segments (spec.md §4.1 "delete(segment-id)").
func (s *Store) Delete(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.activeID {
		return fmt.Errorf("segstore: refusing to delete active segment %d", id)
	}

	if r, ok := s.readers[id]; ok {
		r.file.Close()
		delete(s.readers, id)
	}

	path := segio.Path(s.dataDir, id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to delete segment").
			WithSegmentID(int(id)).WithPath(path)
	}
	return nil
}

// Reader returns the underlying *os.File backing the reader for id, for use
// by callers that need to stream-decode the whole segment (replay,
// compaction). The returned file must not be closed by the caller.
func (s *Store) Reader(id uint64) (*os.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.readers[id]
	if !ok {
		return nil, fmt.Errorf("segstore: segment %d not open", id)
	}
	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to rewind segment reader").
			WithSegmentID(int(id))
	}
	return r.file, nil
}

// Close releases every open file descriptor (spec.md §5 "resource scoping").
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeAll()
	return nil
}

func (s *Store) closeAll() {
	if s.activeFile != nil {
		s.activeFile.Close()
	}
	for id, r := range s.readers {
		r.file.Close()
		delete(s.readers, id)
	}
}
