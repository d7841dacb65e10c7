package wal

import (
	"encoding/json"
	"errors"

	"google.golang.org/protobuf/proto"
)

// Serializer encodes record payloads. JSON is the journal default; the
// protobuf implementation is available for consumers that carry generated
// message types.
type Serializer interface {
	Encode(any) ([]byte, error)
	Decode([]byte, any) error
}

// ---------- JSON ----------

type JSONSerializer struct{}

func (JSONSerializer) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONSerializer) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ---------- Protobuf ----------

type ProtoSerializer struct{}

var ErrNotProto = errors.New("value does not implement proto.Message")

func (ProtoSerializer) Encode(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, ErrNotProto
	}
	return proto.Marshal(msg)
}

func (ProtoSerializer) Decode(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return ErrNotProto
	}
	return proto.Unmarshal(data, msg)
}
