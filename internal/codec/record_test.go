package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalRecordRoundTrip(t *testing.T) {
	set := SetRecord{Key: "foo", Value: "bar"}
	data, err := MarshalRecord(set)
	require.NoError(t, err)
	require.JSONEq(t, `{"Set":{"key":"foo","value":"bar"}}`, string(data))

	got, err := UnmarshalRecord(data)
	require.NoError(t, err)
	require.Equal(t, set, got)

	rm := RemoveRecord{Key: "foo"}
	data, err = MarshalRecord(rm)
	require.NoError(t, err)
	require.JSONEq(t, `{"Remove":{"key":"foo"}}`, string(data))

	got, err = UnmarshalRecord(data)
	require.NoError(t, err)
	require.Equal(t, rm, got)
}

func TestUnmarshalRecordRejectsEmptyVariant(t *testing.T) {
	_, err := UnmarshalRecord([]byte(`{}`))
	require.Error(t, err)
}

func TestDecoderReportsOffsets(t *testing.T) {
	var buf bytes.Buffer
	records := []Record{
		SetRecord{Key: "a", Value: "1"},
		SetRecord{Key: "b", Value: "2"},
		RemoveRecord{Key: "a"},
	}
	for _, r := range records {
		data, err := MarshalRecord(r)
		require.NoError(t, err)
		buf.Write(data)
	}

	dec := NewDecoder(&buf)
	var entries []Entry
	for {
		e, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		entries = append(entries, e)
	}

	require.Len(t, entries, 3)
	require.Equal(t, records[0], entries[0].Record)
	require.Equal(t, records[1], entries[1].Record)
	require.Equal(t, records[2], entries[2].Record)

	for _, e := range entries {
		require.Equal(t, int64(e.Length), int64(len(mustMarshal(t, e.Record))))
	}
}

func mustMarshal(t *testing.T, r Record) []byte {
	t.Helper()
	data, err := MarshalRecord(r)
	require.NoError(t, err)
	return data
}

func TestDecodeAll(t *testing.T) {
	var buf bytes.Buffer
	data, err := MarshalRecord(SetRecord{Key: "k", Value: "v"})
	require.NoError(t, err)
	buf.Write(data)

	var seen []Entry
	err = DecodeAll(&buf, func(e Entry) error {
		seen = append(seen, e)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 1)
}
