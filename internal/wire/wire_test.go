package wire_test

import (
	"bytes"
	"testing"

	"github.com/ignitedb/ignite/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestRequestRoundTrip(t *testing.T) {
	cases := []wire.Request{
		wire.GetRequest{Key: "k"},
		wire.SetRequest{Key: "k", Value: "v"},
		wire.RemoveRequest{Key: "k"},
	}

	for _, req := range cases {
		var buf bytes.Buffer
		require.NoError(t, wire.EncodeRequest(&buf, req))

		got, err := wire.DecodeRequest(&buf)
		require.NoError(t, err)
		require.Equal(t, req, got)
	}
}

func TestResponseRoundTripOkValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.EncodeResponse(&buf, wire.OkValue("hello")))

	resp, err := wire.DecodeResponse(&buf)
	require.NoError(t, err)
	require.False(t, resp.IsErr())
	value, ok := resp.Value()
	require.True(t, ok)
	require.Equal(t, "hello", value)
}

func TestResponseRoundTripOkNone(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.EncodeResponse(&buf, wire.OkNone()))
	require.JSONEq(t, `{"Ok":null}`, buf.String())

	resp, err := wire.DecodeResponse(&buf)
	require.NoError(t, err)
	require.False(t, resp.IsErr())
	_, ok := resp.Value()
	require.False(t, ok)
}

func TestResponseRoundTripErr(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.EncodeResponse(&buf, wire.ErrResponse("key not found")))

	resp, err := wire.DecodeResponse(&buf)
	require.NoError(t, err)
	require.True(t, resp.IsErr())
	require.Equal(t, "key not found", resp.ErrMessage())
}
