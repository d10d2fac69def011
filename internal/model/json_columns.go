package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// scanJSON handles the driver value shapes gorm hands back for jsonb
// columns (postgres returns []byte, sqlite in tests returns string).
func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

// StringList is a jsonb-backed list of strings (supporting document refs).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// CommentList is the jsonb-backed embedded comment log on an application.
type CommentList []CommentEntry

func (l CommentList) Value() (driver.Value, error) {
	if l == nil {
		l = CommentList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *CommentList) Scan(value interface{}) error {
	return scanJSON(value, l)
}
