package shape

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
)

var errNotObject = errors.New("shape: payload is not a JSON object")

// OrderedObject is a top-level JSON object that remembers key insertion order.
// Nested values are decoded the usual way.
type OrderedObject struct {
	keys   []string
	values map[string]any
}

// DecodeObject decodes a JSON object keeping its key order.
func DecodeObject(data []byte) (*OrderedObject, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	obj := &OrderedObject{values: map[string]any{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errNotObject
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		obj.set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func (o *OrderedObject) set(key string, v any) {
	if _, dup := o.values[key]; !dup {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *OrderedObject) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *OrderedObject) Keys() []string { return o.keys }

func (o *OrderedObject) Len() int { return len(o.keys) }

// Record returns the object's values as an unordered Record.
func (o *OrderedObject) Record() Record {
	rec := make(Record, len(o.values))
	for k, v := range o.values {
		rec[k] = v
	}
	return rec
}

// orderedFromMap recovers a stable order for a Go map, which has none:
// numeric keys ascending first, then the rest lexically.
func orderedFromMap(m map[string]any) *OrderedObject {
	obj := &OrderedObject{values: make(map[string]any, len(m))}
	for k, v := range m {
		obj.set(k, v)
	}
	sort.SliceStable(obj.keys, func(i, j int) bool {
		a, aErr := strconv.ParseInt(obj.keys[i], 10, 64)
		b, bErr := strconv.ParseInt(obj.keys[j], 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return obj.keys[i] < obj.keys[j]
		}
	})
	return obj
}
