// Package codec serializes and deserializes the two command record
// variants (spec.md §3, §6.1) to and from the JSON shape
// {"Set":{"key":...,"value":...}} / {"Remove":{"key":...}}, and provides a
// streaming decoder that exposes the exact byte span of each record so the
// engine can record (segment-id, offset, length) locations during replay.
package codec

import (
	"encoding/json"
	"fmt"
)

// Record is a command log entry: either a Set or a Remove.
type Record interface {
	isRecord()
}

// SetRecord stores a key/value pair.
type SetRecord struct {
	Key   string
	Value string
}

func (SetRecord) isRecord() {}

// RemoveRecord deletes a key.
type RemoveRecord struct {
	Key string
}

func (RemoveRecord) isRecord() {}

// wireRecord mirrors the externally-tagged JSON shape of the two variants,
// one field populated per record, matching serde's default enum encoding
// that the original log format was defined against.
type wireRecord struct {
	Set *struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"Set,omitempty"`
	Remove *struct {
		Key string `json:"key"`
	} `json:"Remove,omitempty"`
}

// MarshalRecord encodes a Record to its tagged JSON representation.
func MarshalRecord(r Record) ([]byte, error) {
	var w wireRecord
	switch rec := r.(type) {
	case SetRecord:
		w.Set = &struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}{Key: rec.Key, Value: rec.Value}
	case RemoveRecord:
		w.Remove = &struct {
			Key string `json:"key"`
		}{Key: rec.Key}
	default:
		return nil, fmt.Errorf("codec: unknown record type %T", r)
	}
	return json.Marshal(w)
}

// UnmarshalRecord decodes a tagged JSON record into a Record.
func UnmarshalRecord(data []byte) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return w.toRecord()
}

func (w wireRecord) toRecord() (Record, error) {
	switch {
	case w.Set != nil:
		return SetRecord{Key: w.Set.Key, Value: w.Set.Value}, nil
	case w.Remove != nil:
		return RemoveRecord{Key: w.Remove.Key}, nil
	default:
		return nil, fmt.Errorf("codec: record has neither Set nor Remove variant")
	}
}
