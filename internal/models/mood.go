package models

import "time"

// Mood is one of the fixed tags a diary entry can carry.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
	MoodAnxious Mood = "anxious"
	MoodCalm    Mood = "calm"
	MoodExcited Mood = "excited"
)

var knownMoods = map[Mood]struct{}{
	MoodHappy:   {},
	MoodSad:     {},
	MoodAngry:   {},
	MoodAnxious: {},
	MoodCalm:    {},
	MoodExcited: {},
}

// Valid reports whether m is one of the known mood tags.
func (m Mood) Valid() bool {
	_, ok := knownMoods[m]
	return ok
}

// MoodEntry is one append-only record in the per-user mood log.
// ID, Timestamp, CreatedAt and UserID are assigned by the service at
// creation and never accepted from the caller.
type MoodEntry struct {
	ID        string    `json:"id"        bson:"_id,omitempty"`
	Mood      Mood      `json:"mood"      bson:"mood"`
	Note      string    `json:"note"      bson:"note"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	CreatedAt time.Time `json:"created"   bson:"createdAt"`
	UserID    string    `json:"user_id"   bson:"userId"`
}
