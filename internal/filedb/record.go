package filedb

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is one untyped document. Server-assigned fields use the reserved
// keys below; everything else belongs to the caller.
type Record map[string]interface{}

// Reserved record keys assigned by the store.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldStatus    = "status"
)

// TimeFormat is the timestamp layout used for created_at/updated_at.
const TimeFormat = time.RFC3339Nano

// ID returns the record identifier, or "" when absent.
func (r Record) ID() string {
	return r.String(FieldID)
}

// String returns the value under key when it is a string, or "".
func (r Record) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns the value under key when it is a bool.
func (r Record) Bool(key string) bool {
	v, _ := r[key].(bool)
	return v
}

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// merge shallow-merges partial into the record: supplied keys overwrite,
// absent keys survive untouched.
func (r Record) merge(partial Record) {
	for k, v := range partial {
		r[k] = v
	}
}

// Encode converts a typed value into a Record via its JSON representation.
func Encode(v interface{}) (Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// Decode converts a Record into a typed value via its JSON representation.
func Decode(rec Record, v interface{}) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// DecodeAll converts a slice of records into a typed slice.
func DecodeAll(recs []Record, v interface{}) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("decode records: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode records: %w", err)
	}
	return nil
}

// Observer receives store instrumentation events.
type Observer interface {
	ObserveOperation(collection, op string, err error, duration time.Duration)
	ObserveLockWait(collection string, duration time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveOperation(string, string, error, time.Duration) {}
func (nopObserver) ObserveLockWait(string, time.Duration)                 {}
