package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one row of a dataset: field name to scalar value, in column order.
// Values are nil, string or float64 when produced by ingest or JSON decoding.
type Record struct {
	keys   []string
	values map[string]interface{}
}

// NewRecord builds a record from alternating key/value arguments.
// Pairs with a non-string key are skipped.
func NewRecord(pairs ...interface{}) Record {
	r := Record{values: make(map[string]interface{}, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		r.set(key, pairs[i+1])
	}
	return r
}

func (r *Record) set(key string, value interface{}) {
	if r.values == nil {
		r.values = map[string]interface{}{}
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r Record) Get(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the field names in column order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r Record) Len() int {
	return len(r.keys)
}

// Rename returns a copy with keys mapped through fn; later duplicates overwrite earlier values.
func (r Record) Rename(fn func(string) string) Record {
	out := Record{values: make(map[string]interface{}, len(r.keys))}
	for _, k := range r.keys {
		out.set(fn(k), r.values[k])
	}
	return out
}

func (r Record) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBufferString("{")
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = Record{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object, got %v", tok)
	}
	out := Record{values: map[string]interface{}{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected record key %v", tok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		out.set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}
