package errors

// CodecError is a specialized error type for command-record and wire-message
// (de)serialization failures. It embeds baseError to inherit standard error
// functionality, then adds the location context needed to point at exactly
// which record or message failed to decode.
type CodecError struct {
	*baseError
	segmentID int64  // Which segment the malformed record was read from, if any (-1 if not applicable).
	offset    int64  // Byte offset within the segment (or wire stream) where decoding failed.
	kind      string // What was being decoded: "record" or "message".
}

// NewCodecError creates a new codec-specific error.
func NewCodecError(err error, code ErrorCode, msg string) *CodecError {
	return &CodecError{baseError: NewBaseError(err, code, msg), segmentID: -1}
}

// WithMessage updates the error message while maintaining the CodecError type.
func (ce *CodecError) WithMessage(msg string) *CodecError {
	ce.baseError.WithMessage(msg)
	return ce
}

// WithDetail adds contextual information while maintaining the CodecError type.
func (ce *CodecError) WithDetail(key string, value any) *CodecError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithSegmentID records which segment the malformed record came from.
func (ce *CodecError) WithSegmentID(id int64) *CodecError {
	ce.segmentID = id
	return ce
}

// WithOffset records the byte offset at which decoding failed.
func (ce *CodecError) WithOffset(offset int64) *CodecError {
	ce.offset = offset
	return ce
}

// WithKind records whether a log record or a wire message failed to decode.
func (ce *CodecError) WithKind(kind string) *CodecError {
	ce.kind = kind
	return ce
}

// SegmentID returns the segment the malformed record was read from, or -1.
func (ce *CodecError) SegmentID() int64 {
	return ce.segmentID
}

// Offset returns the byte offset at which decoding failed.
func (ce *CodecError) Offset() int64 {
	return ce.offset
}

// Kind returns "record" or "message", describing what failed to decode.
func (ce *CodecError) Kind() string {
	return ce.kind
}

// NewMalformedRecordError builds a CodecError for a command record that
// failed to decode from a segment file.
func NewMalformedRecordError(err error, segmentID int64, offset int64) *CodecError {
	return NewCodecError(err, ErrorCodeCodec, "malformed command record").
		WithSegmentID(segmentID).
		WithOffset(offset).
		WithKind("record")
}

// NewMalformedMessageError builds a CodecError for a wire request/response
// that failed to decode.
func NewMalformedMessageError(err error) *CodecError {
	return NewCodecError(err, ErrorCodeCodec, "malformed wire message").WithKind("message")
}

// NewUtf8Error builds an error for a value read back from storage that is
// not valid UTF-8 text.
func NewUtf8Error(err error, key string) *CodecError {
	return NewCodecError(err, ErrorCodeUtf8, "stored value is not valid UTF-8").
		WithDetail("key", key)
}
