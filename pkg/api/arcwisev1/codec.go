// Package arcwisev1 holds the wire messages of the arcwise.v1 Connect API.
//
// Messages are plain Go structs carried by JSONCodec, so browsers can call
// the API with the Connect protocol's application/json encoding. Amounts
// travel as decimal strings and timestamps as RFC 3339 strings.
package arcwisev1

import (
	"encoding/json"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// JSONCodec is a connect.Codec for the arcwise.v1 messages. The zero value
// is registered under "json", replacing Connect's protobuf-only JSON codec.
type JSONCodec struct {
	name string
}

// Codecs returns JSONCodec under every name Connect registers a JSON codec
// for, so "application/json; charset=utf-8" requests decode too.
func Codecs() []JSONCodec {
	return []JSONCodec{{name: "json"}, {name: "json; charset=utf-8"}}
}

func (c JSONCodec) Name() string {
	if c.name == "" {
		return "json"
	}
	return c.name
}

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// Timestamp wraps the protobuf well-known Timestamp so it encodes the same
// way protojson does.
type Timestamp struct {
	*timestamppb.Timestamp
}

// NewTimestamp converts t. The zero time encodes as null.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{timestamppb.New(t)}
}

// Time returns the UTC time, or the zero time when unset.
func (t Timestamp) Time() time.Time {
	if t.Timestamp == nil {
		return time.Time{}
	}
	return t.AsTime()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Timestamp == nil {
		return []byte("null"), nil
	}
	return protojson.Marshal(t.Timestamp)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Timestamp = nil
		return nil
	}
	ts := &timestamppb.Timestamp{}
	if err := protojson.Unmarshal(data, ts); err != nil {
		return err
	}
	t.Timestamp = ts
	return nil
}
