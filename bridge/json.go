package bridge

import (
	"github.com/hyperpolymath/betlang/core"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Marshal encodes v as JSON.
func Marshal(v core.Value) ([]byte, error) {
	pv, err := ToProto(v)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(pv)
}

// MarshalIndent is Marshal with multi-line output for people to read.
func MarshalIndent(v core.Value) ([]byte, error) {
	pv, err := ToProto(v)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(pv)
}

// Unmarshal decodes JSON produced by Marshal, or any plain JSON document.
func Unmarshal(data []byte) (core.Value, error) {
	pv := &structpb.Value{}
	if err := protojson.Unmarshal(data, pv); err != nil {
		return nil, invalid(err, "json")
	}
	return FromProto(pv)
}
