package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// fieldWriter builds a JSON object preserving the order fields are appended
// in, rather than the arbitrary order a map would give. Output records
// (§6.2) use it so that two runs over the same events always serialize
// identically, field for field.
//
// Its zero value is ready to use.
type fieldWriter struct {
	bytes.Buffer
	err error
}

// Append adds a key-value pair, marshaling value with encoding/json.
func (w *fieldWriter) Append(key string, value interface{}) *fieldWriter {
	if w.err != nil {
		return w
	}
	valBytes, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}
	w.WriteString(fmt.Sprintf("%q:", key))
	w.Write(valBytes)
	w.WriteString(",")
	return w
}

// Optional appends key-value only if value is not the zero value for its type.
func (w *fieldWriter) Optional(key string, value interface{}) *fieldWriter {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON finalizes the object, wrapping the accumulated fields in braces.
func (w *fieldWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	content := bytes.TrimSuffix(w.Bytes(), []byte(","))
	final := make([]byte, 0, len(content)+2)
	final = append(final, '{')
	final = append(final, content...)
	final = append(final, '}')
	return final, nil
}
