package mood

import (
	"time"

	"github.com/moodnotes/core/internal/models"
)

type CreateEntryDTO struct {
	Mood string `json:"mood" binding:"required"`
	Note string `json:"note"`
}

type entryResponse struct {
	ID        string      `json:"id"`
	Mood      models.Mood `json:"mood"`
	Note      string      `json:"note"`
	Timestamp time.Time   `json:"timestamp"`
	Created   time.Time   `json:"created"`
}

func toResponse(e models.MoodEntry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		Mood:      e.Mood,
		Note:      e.Note,
		Timestamp: e.Timestamp,
		Created:   e.CreatedAt,
	}
}
