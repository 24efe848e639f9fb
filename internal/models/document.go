package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONDocument is a raw JSONB column value.
type JSONDocument []byte

// Value implements driver.Valuer. JSONB parameters must be sent as text.
func (d JSONDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "{}", nil
	}
	return string(d), nil
}

// Scan implements sql.Scanner.
func (d *JSONDocument) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append((*d)[0:0], v...)
	case string:
		*d = JSONDocument(v)
	default:
		return fmt.Errorf("scan json document: unsupported type %T", src)
	}
	return nil
}

// MarshalJSON emits the raw document.
func (d JSONDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func scanJSON(src interface{}, dest interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan json: unsupported type %T", src)
	}
	return json.Unmarshal(raw, dest)
}

func valueJSON(v interface{}) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
