// Package bridge converts runtime values to and from a JSON-compatible form.
//
// Values JSON represents natively (Bool, String, List, finite Float) map to
// the matching structpb kinds.  Everything else is a struct tagged with a
// "$type" field so that decoding gives back exactly the value that was
// encoded:
//
//	Int       {"$type": "int", "value": "42"}
//	Float     {"$type": "float", "value": "NaN"}   (non-finite only)
//	Ternary   {"$type": "ternary", "value": "unknown"}
//	Bytes     {"$type": "bytes", "value": "<base64>"}
//	Unit      {"$type": "unit"}
//	Tuple     {"$type": "tuple", "elems": [...]}
//	Set       {"$type": "set", "elems": [...]}
//	Map       {"$type": "map", "entries": {...}}
//	Error     {"$type": "error", "message": "..."}
//	Variant   {"$type": "variant", "tag": "Some", "args": [...]}
//
// An untagged JSON object decodes as a Map and a JSON null as Unit.
package bridge

import (
	"encoding/base64"
	"math"
	"strconv"

	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
	"google.golang.org/protobuf/types/known/structpb"
)

const TypeKey = "$type"

func tagged(tag string, fields map[string]*structpb.Value) *structpb.Value {
	fields[TypeKey] = structpb.NewStringValue(tag)
	return structpb.NewStructValue(&structpb.Struct{Fields: fields})
}

// ToProto converts v to its external form.
func ToProto(v core.Value) (*structpb.Value, error) {
	switch v := v.(type) {
	case core.UnitVal:
		return tagged("unit", map[string]*structpb.Value{}), nil
	case core.BoolVal:
		return structpb.NewBoolValue(bool(v)), nil
	case core.TernaryVal:
		return tagged("ternary", map[string]*structpb.Value{
			"value": structpb.NewStringValue(v.String()),
		}), nil
	case core.IntVal:
		return tagged("int", map[string]*structpb.Value{
			"value": structpb.NewStringValue(strconv.FormatInt(int64(v), 10)),
		}), nil
	case core.FloatVal:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return tagged("float", map[string]*structpb.Value{
				"value": structpb.NewStringValue(strconv.FormatFloat(f, 'g', -1, 64)),
			}), nil
		}
		return structpb.NewNumberValue(f), nil
	case core.StringVal:
		return structpb.NewStringValue(string(v)), nil
	case core.BytesVal:
		return tagged("bytes", map[string]*structpb.Value{
			"value": structpb.NewStringValue(base64.StdEncoding.EncodeToString(v.Bytes())),
		}), nil
	case core.ErrorVal:
		return tagged("error", map[string]*structpb.Value{
			"message": structpb.NewStringValue(v.Message),
		}), nil
	case *core.ListVal:
		return listToProto(v.Elems)
	case *core.TupleVal:
		elems, err := listToProto(v.Elems)
		if err != nil {
			return nil, err
		}
		return tagged("tuple", map[string]*structpb.Value{"elems": elems}), nil
	case *core.SetVal:
		elems, err := listToProto(v.Elems())
		if err != nil {
			return nil, err
		}
		return tagged("set", map[string]*structpb.Value{"elems": elems}), nil
	case *core.MapVal:
		entries := &structpb.Struct{Fields: make(map[string]*structpb.Value, v.Len())}
		for _, k := range v.Keys() {
			ev, _ := v.Get(k)
			pv, err := ToProto(ev)
			if err != nil {
				return nil, err
			}
			entries.Fields[k] = pv
		}
		return tagged("map", map[string]*structpb.Value{"entries": structpb.NewStructValue(entries)}), nil
	case *core.VariantVal:
		args, err := listToProto(v.Args)
		if err != nil {
			return nil, err
		}
		return tagged("variant", map[string]*structpb.Value{
			"tag":  structpb.NewStringValue(v.Tag),
			"args": args,
		}), nil
	case nil:
		return nil, unsupported("nil value")
	}
	return nil, unsupported("%s values have no external form", v.Kind())
}

func listToProto(elems []core.Value) (*structpb.Value, error) {
	out := make([]*structpb.Value, len(elems))
	for i, e := range elems {
		pv, err := ToProto(e)
		if err != nil {
			return nil, err
		}
		out[i] = pv
	}
	return structpb.NewListValue(&structpb.ListValue{Values: out}), nil
}

// FromProto converts an external form back to a value.
func FromProto(pv *structpb.Value) (core.Value, error) {
	if pv == nil {
		return nil, invalid(nil, "missing value")
	}
	switch k := pv.Kind.(type) {
	case *structpb.Value_NullValue:
		return core.Unit, nil
	case *structpb.Value_BoolValue:
		return core.BoolVal(k.BoolValue), nil
	case *structpb.Value_NumberValue:
		return core.FloatVal(k.NumberValue), nil
	case *structpb.Value_StringValue:
		return core.StringVal(k.StringValue), nil
	case *structpb.Value_ListValue:
		elems, err := listFromProto(k.ListValue)
		if err != nil {
			return nil, err
		}
		return core.NewList(elems...), nil
	case *structpb.Value_StructValue:
		return structFromProto(k.StructValue)
	}
	return nil, invalid(nil, "value has no kind")
}

func listFromProto(l *structpb.ListValue) ([]core.Value, error) {
	out := make([]core.Value, len(l.GetValues()))
	for i, pv := range l.GetValues() {
		v, err := FromProto(pv)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func plainMap(fields map[string]*structpb.Value) (core.Value, error) {
	entries := make(map[string]core.Value, len(fields))
	for k, pv := range fields {
		v, err := FromProto(pv)
		if err != nil {
			return nil, err
		}
		entries[k] = v
	}
	return core.NewMap(entries), nil
}

func structFromProto(s *structpb.Struct) (core.Value, error) {
	fields := s.GetFields()
	tv, ok := fields[TypeKey]
	if !ok {
		return plainMap(fields)
	}
	tag, ok := tv.Kind.(*structpb.Value_StringValue)
	if !ok {
		return nil, invalid(nil, "%s must be a string", TypeKey)
	}
	str := func(name string) (string, error) {
		f, ok := fields[name].GetKind().(*structpb.Value_StringValue)
		if !ok {
			return "", invalid(nil, "%s: field %q must be a string", tag.StringValue, name)
		}
		return f.StringValue, nil
	}
	list := func(name string) ([]core.Value, error) {
		f, ok := fields[name].GetKind().(*structpb.Value_ListValue)
		if !ok {
			return nil, invalid(nil, "%s: field %q must be a list", tag.StringValue, name)
		}
		return listFromProto(f.ListValue)
	}

	switch tag.StringValue {
	case "unit":
		return core.Unit, nil
	case "int":
		s, err := str("value")
		if err != nil {
			return nil, err
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, invalid(err, "int %q", s)
		}
		return core.IntVal(i), nil
	case "float":
		s, err := str("value")
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, invalid(err, "float %q", s)
		}
		return core.FloatVal(f), nil
	case "ternary":
		s, err := str("value")
		if err != nil {
			return nil, err
		}
		t, err := decl.ParseTernary(s)
		if err != nil {
			return nil, invalid(err, "ternary")
		}
		return core.TernaryVal(t), nil
	case "bytes":
		s, err := str("value")
		if err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, invalid(err, "bytes")
		}
		return core.BytesVal(b), nil
	case "error":
		msg, err := str("message")
		if err != nil {
			return nil, err
		}
		return core.ErrorVal{Message: msg}, nil
	case "tuple":
		elems, err := list("elems")
		if err != nil {
			return nil, err
		}
		return core.NewTuple(elems...), nil
	case "set":
		elems, err := list("elems")
		if err != nil {
			return nil, err
		}
		return core.NewSet(elems...), nil
	case "map":
		entries, ok := fields["entries"].GetKind().(*structpb.Value_StructValue)
		if !ok {
			return nil, invalid(nil, "map: field \"entries\" must be an object")
		}
		return plainMap(entries.StructValue.GetFields())
	case "variant":
		name, err := str("tag")
		if err != nil {
			return nil, err
		}
		args, err := list("args")
		if err != nil {
			return nil, err
		}
		return core.NewVariant(name, args...), nil
	}
	return nil, invalid(nil, "unknown %s %q", TypeKey, tag.StringValue)
}
