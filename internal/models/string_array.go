package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// StringArray maps a Go string slice onto a PostgreSQL text[] column.
// Encoding and decoding delegate to pq.Array so elements containing
// commas, quotes or backslashes survive the round trip intact.
type StringArray []string

// Scan implements sql.Scanner for reading text[] values.
func (a *StringArray) Scan(value interface{}) error {
	return (*pq.StringArray)(a).Scan(value)
}

// Value implements driver.Valuer for writing text[] values.
func (a StringArray) Value() (driver.Value, error) {
	return pq.StringArray(a).Value()
}
