package repository

import (
	"fmt"
	"time"
)

// dateString scans a calendar day from a TEXT column (SQLite) or a DATE
// column (PostgreSQL, MySQL) into YYYY-MM-DD.
type dateString string

func (d *dateString) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = dateString(v.UTC().Format("2006-01-02"))
	case string:
		*d = dateString(trimDate(v))
	case []byte:
		*d = dateString(trimDate(string(v)))
	default:
		return fmt.Errorf("cannot scan %T into date", src)
	}
	return nil
}

func trimDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
