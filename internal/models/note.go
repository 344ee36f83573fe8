package models

import "time"

// NoteRecord is the value stored per calendar day in the local store.
// Text may be empty and Mood may be absent; such a record is still a
// real entry until it is explicitly deleted.
type NoteRecord struct {
	Text string `json:"text"`
	Mood Mood   `json:"mood,omitempty"`
}

// DateKeyLayout is the calendar-day key format for note records.
const DateKeyLayout = "2006-01-02"

// ValidDateKey reports whether s is a well-formed YYYY-MM-DD key.
func ValidDateKey(s string) bool {
	if len(s) != len(DateKeyLayout) {
		return false
	}
	_, err := time.Parse(DateKeyLayout, s)
	return err == nil
}
