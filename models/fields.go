package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONValue stores an arbitrary structured value as JSON text in a TEXT column.
// Decoding is forgiving: text that is not valid JSON is wrapped in a
// single-element list instead of failing the scan, so legacy rows with plain
// string payloads remain readable.
type JSONValue struct {
	Data interface{}
}

// NewJSONValue wraps a value for storage
func NewJSONValue(v interface{}) JSONValue {
	return JSONValue{Data: v}
}

// Value implements driver.Valuer
func (j JSONValue) Value() (driver.Value, error) {
	if j.Data == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(j.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON value: %w", err)
	}
	return string(bytes), nil
}

// Scan implements sql.Scanner
func (j *JSONValue) Scan(src interface{}) error {
	if src == nil {
		j.Data = nil
		return nil
	}

	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported source type for JSON value: %T", src)
	}

	if raw == "" {
		j.Data = nil
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		// Not valid JSON - treat the raw text as an opaque string
		j.Data = []interface{}{raw}
		return nil
	}
	j.Data = decoded
	return nil
}

// IsEmpty reports whether the value holds no data
func (j JSONValue) IsEmpty() bool {
	return j.Data == nil
}

// String returns the JSON encoding of the value, or an empty string
func (j JSONValue) String() string {
	if j.Data == nil {
		return ""
	}
	bytes, err := json.Marshal(j.Data)
	if err != nil {
		return ""
	}
	return string(bytes)
}

// MarshalJSON implements json.Marshaler
func (j JSONValue) MarshalJSON() ([]byte, error) {
	if j.Data == nil {
		return []byte("null"), nil
	}
	return json.Marshal(j.Data)
}

// UnmarshalJSON implements json.Unmarshaler
func (j *JSONValue) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.Data)
}
