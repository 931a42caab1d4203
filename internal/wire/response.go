package wire

import (
	"encoding/json"
	"fmt"
	"io"
)

// Response is a server reply: either a successful result (whose value may
// itself be absent, for a Get of an absent key) or an error message
// (spec.md §6.2).
type Response struct {
	value  *string
	isErr  bool
	errMsg string
}

// OkValue builds a successful response carrying value.
func OkValue(value string) Response {
	return Response{value: &value}
}

// OkNone builds a successful response carrying no value, used for
// set/remove and for a Get that found nothing.
func OkNone() Response {
	return Response{}
}

// ErrResponse builds an error response carrying msg.
func ErrResponse(msg string) Response {
	return Response{isErr: true, errMsg: msg}
}

// IsErr reports whether the response is an error.
func (r Response) IsErr() bool { return r.isErr }

// ErrMessage returns the error message; only meaningful when IsErr is true.
func (r Response) ErrMessage() string { return r.errMsg }

// Value returns the carried value and whether one was present.
func (r Response) Value() (string, bool) {
	if r.value == nil {
		return "", false
	}
	return *r.value, true
}

// MarshalJSON emits exactly one of {"Ok": ...} or {"Err": "..."}.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.isErr {
		return json.Marshal(struct {
			Err string `json:"Err"`
		}{r.errMsg})
	}
	return json.Marshal(struct {
		Ok *string `json:"Ok"`
	}{r.value})
}

// UnmarshalJSON parses either response shape, distinguishing a present
// `"Ok":null` from an absent Ok key by probing with a json.RawMessage
// before decoding its contents.
func (r *Response) UnmarshalJSON(data []byte) error {
	var probe struct {
		Ok  json.RawMessage `json:"Ok"`
		Err *string         `json:"Err"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if probe.Err != nil {
		r.isErr = true
		r.errMsg = *probe.Err
		return nil
	}

	if probe.Ok != nil {
		var value *string
		if err := json.Unmarshal(probe.Ok, &value); err != nil {
			return err
		}
		r.value = value
		return nil
	}

	return fmt.Errorf("wire: response has neither Ok nor Err")
}

// EncodeResponse writes r to out as a single JSON value.
func EncodeResponse(out io.Writer, r Response) error {
	return json.NewEncoder(out).Encode(r)
}

// DecodeResponse reads exactly one JSON value from in and decodes it into
// a Response.
func DecodeResponse(in io.Reader) (Response, error) {
	var r Response
	if err := json.NewDecoder(in).Decode(&r); err != nil {
		return Response{}, err
	}
	return r, nil
}
