// Package client implements the one-shot request/response client of
// spec.md §4.5: open a connection, write one request, read one response,
// close.
package client

import (
	"net"
	"time"

	"github.com/ignitedb/ignite/internal/wire"
	"github.com/ignitedb/ignite/pkg/errors"
)

// Client issues requests against a single server address, opening a fresh
// connection for every operation.
type Client struct {
	addr    string
	dialer  net.Dialer
	timeout time.Duration
}

// New builds a Client targeting addr. The store's wire protocol and engine
// have no request timeout (spec.md §5); dialTimeout only bounds connection
// establishment, not the request/response exchange itself.
func New(addr string, dialTimeout time.Duration) *Client {
	return &Client{addr: addr, timeout: dialTimeout}
}

func (c *Client) roundTrip(req wire.Request) (wire.Response, error) {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return wire.Response{}, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to connect to server").
			WithPath(c.addr)
	}
	defer conn.Close()

	if err := wire.EncodeRequest(conn, req); err != nil {
		return wire.Response{}, errors.NewMalformedMessageError(err)
	}

	resp, err := wire.DecodeResponse(conn)
	if err != nil {
		return wire.Response{}, errors.NewMalformedMessageError(err)
	}
	return resp, nil
}

// Get requests the value stored under key. ok is false both when the
// server reports no value and when an error occurs.
func (c *Client) Get(key string) (value string, ok bool, err error) {
	resp, err := c.roundTrip(wire.GetRequest{Key: key})
	if err != nil {
		return "", false, err
	}
	if resp.IsErr() {
		return "", false, errors.NewProtocolError(resp.ErrMessage())
	}
	value, ok = resp.Value()
	return value, ok, nil
}

// Set stores value under key.
func (c *Client) Set(key, value string) error {
	resp, err := c.roundTrip(wire.SetRequest{Key: key, Value: value})
	if err != nil {
		return err
	}
	if resp.IsErr() {
		return errors.NewProtocolError(resp.ErrMessage())
	}
	return nil
}

// Remove deletes key. Since the wire protocol carries only a message, not a
// typed error, a server-side KeyNotFound is recognized by comparing the
// message text against errors.ErrKeyNotFound and resurfaced as that same
// sentinel so callers can use errors.Is.
func (c *Client) Remove(key string) error {
	resp, err := c.roundTrip(wire.RemoveRequest{Key: key})
	if err != nil {
		return err
	}
	if resp.IsErr() {
		if resp.ErrMessage() == errors.ErrKeyNotFound.Error() {
			return errors.ErrKeyNotFound
		}
		return errors.NewProtocolError(resp.ErrMessage())
	}
	return nil
}
