package service

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

func utcNow() time.Time {
	return time.Now().UTC()
}

// dayOf returns the UTC calendar day of t as YYYY-MM-DD
func dayOf(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// optional maps blank to nil
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
