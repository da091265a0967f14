package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/game/state"
)

// Format 快照编码格式
type Format string

const (
	FormatJSON     Format = "json"
	FormatProtobuf Format = "protobuf"
)

// ParseFormat accepts "json", "protobuf" or "" (json).
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatProtobuf:
		return FormatProtobuf, nil
	}
	return "", apperrors.ErrInvalidMsg.WithDetail("unknown snapshot format %q", s)
}

// ContentType returns the HTTP content type for the format.
func (f Format) ContentType() string {
	if f == FormatProtobuf {
		return "application/x-protobuf"
	}
	return "application/json"
}

// EncodeSnapshot 将快照编码为指定格式. The protobuf form is a
// google.protobuf.Struct carrying the same document as the JSON form.
func EncodeSnapshot(p state.Payload, f Format) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if f != FormatProtobuf {
		return data, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	st, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return proto.Marshal(st)
}

// SnapshotJSON converts an encoded snapshot back to its JSON document, ready
// for engine.RestoreJSON.
func SnapshotJSON(data []byte, f Format) ([]byte, error) {
	if f != FormatProtobuf {
		return data, nil
	}
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, apperrors.ErrMalformedPayload.WithDetail("%v", err)
	}
	out, err := json.Marshal(st.AsMap())
	if err != nil {
		return nil, apperrors.ErrMalformedPayload.WithDetail("%v", err)
	}
	return out, nil
}
