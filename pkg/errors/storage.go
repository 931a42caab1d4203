package errors

// StorageError reports a failure in the segment-file layer (internal/segstore):
// a failed open, append, read, or delete against a specific segment, byte
// offset, or path.
type StorageError struct {
	*baseError
	segmentId int
	offset    int
	fileName  string
	path      string
}

// NewStorageError wraps err as a StorageError tagged with code.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithSegmentID attaches the segment id involved in the failure.
func (se *StorageError) WithSegmentID(id int) *StorageError {
	se.segmentId = id
	return se
}

// WithOffset attaches the byte offset within the segment.
func (se *StorageError) WithOffset(offset int) *StorageError {
	se.offset = offset
	return se
}

// WithFileName attaches the segment file's base name (e.g. "3.log").
func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

// WithPath attaches the segment file's full path.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// SegmentId returns the segment id involved in the failure.
func (se *StorageError) SegmentId() int {
	return se.segmentId
}

// Offset returns the byte offset within the segment, alongside SegmentId.
func (se *StorageError) Offset() int {
	return se.offset
}

// FileName returns the segment file's base name.
func (se *StorageError) FileName() string {
	return se.fileName
}

// Path returns the segment file's full path, as set by WithPath.
func (se *StorageError) Path() string {
	return se.path
}
