package mood

import (
	"context"
	"time"

	"github.com/moodnotes/core/internal/models"
)

// Repository is the persistence contract for the append-only mood log.
// Implementations return entries strictly ordered by timestamp
// descending; range bounds are inclusive on both ends.
type Repository interface {
	Insert(ctx context.Context, entry models.MoodEntry) (string, error)
	List(ctx context.Context, userID string) ([]models.MoodEntry, error)
	ListRange(ctx context.Context, userID string, start, end time.Time) ([]models.MoodEntry, error)
}
