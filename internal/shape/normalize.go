// Package shape turns loosely shaped backend payloads into ordered records and
// resolves logical fields against drifting property names.
package shape

import (
	"bytes"
	"encoding/json"
)

// Record is one loosely typed backend object.
type Record map[string]any

// Envelope names the outer shape a payload arrived in.
type Envelope string

const (
	EnvelopeList      Envelope = "list"
	EnvelopePaginated Envelope = "paginated"
	EnvelopeKeyed     Envelope = "keyed"
	EnvelopeSingle    Envelope = "single"
	EnvelopeNone      Envelope = "none"
)

// Result is a normalized payload plus the envelope it was extracted from.
type Result struct {
	Records  []Record
	Envelope Envelope
}

// IsList reports whether the payload was a bare list or a {results: [...]} page.
func (r Result) IsList() bool {
	return r.Envelope == EnvelopeList || r.Envelope == EnvelopePaginated
}

// Normalize extracts the ordered records of any decoded JSON value.
// It never fails; unknown shapes yield an empty, non-nil slice.
func Normalize(v any) []Record {
	return Classify(v).Records
}

// NormalizeJSON is Normalize for raw JSON. Object key order is preserved.
func NormalizeJSON(data []byte) []Record {
	return Decode(data).Records
}

// Classify normalizes v and reports its envelope.
func Classify(v any) Result {
	switch t := v.(type) {
	case nil:
		return empty()
	case []Record:
		return Result{Records: t, Envelope: EnvelopeList}
	case []map[string]any:
		out := make([]Record, 0, len(t))
		for _, m := range t {
			if m != nil {
				out = append(out, Record(m))
			}
		}
		return Result{Records: out, Envelope: EnvelopeList}
	case []any:
		return Result{Records: fromSlice(t), Envelope: EnvelopeList}
	case Record:
		return fromObject(orderedFromMap(t))
	case map[string]any:
		return fromObject(orderedFromMap(t))
	case *OrderedObject:
		if t == nil {
			return empty()
		}
		return fromObject(t)
	case json.RawMessage:
		return Decode(t)
	case []byte:
		return Decode(t)
	default:
		return empty()
	}
}

// Decode classifies a raw JSON payload. Invalid JSON yields EnvelopeNone.
func Decode(data []byte) Result {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return empty()
	}
	if data[0] == '{' {
		obj, err := DecodeObject(data)
		if err != nil {
			return empty()
		}
		return fromObject(obj)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return empty()
	}
	return Classify(v)
}

func empty() Result {
	return Result{Records: []Record{}, Envelope: EnvelopeNone}
}

func fromSlice(items []any) []Record {
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if rec, ok := AsRecord(item); ok {
			out = append(out, rec)
		}
	}
	return out
}

func fromObject(obj *OrderedObject) Result {
	if results, ok := obj.Get("results"); ok {
		if items, ok := results.([]any); ok {
			return Result{Records: fromSlice(items), Envelope: EnvelopePaginated}
		}
	}
	if obj.Len() == 0 {
		return Result{Records: []Record{}, Envelope: EnvelopeKeyed}
	}
	if isKeyed(obj) {
		out := make([]Record, 0, obj.Len())
		for _, k := range obj.Keys() {
			v, _ := obj.Get(k)
			if rec, ok := AsRecord(v); ok {
				out = append(out, rec)
			}
		}
		return Result{Records: out, Envelope: EnvelopeKeyed}
	}
	return Result{Records: []Record{obj.Record()}, Envelope: EnvelopeSingle}
}

// An object is a keyed map of records when it has no id of its own and every
// non-null value is itself an object. At least one value must be an object.
func isKeyed(obj *OrderedObject) bool {
	if _, ok := obj.Get("id"); ok {
		return false
	}
	records := 0
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		if v == nil {
			continue
		}
		if _, ok := AsRecord(v); !ok {
			return false
		}
		records++
	}
	return records > 0
}

// AsRecord converts a decoded JSON object into a Record.
func AsRecord(v any) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, t != nil
	case map[string]any:
		return Record(t), t != nil
	case *OrderedObject:
		if t == nil {
			return nil, false
		}
		return t.Record(), true
	default:
		return nil, false
	}
}
