package notes

import (
	"math"
	"strings"
	"time"

	"github.com/moodnotes/core/internal/models"
)

// MonthKeyLayout is the calendar-month selector format for stats.
const MonthKeyLayout = "2006-01"

// ValidMonthKey reports whether s is a well-formed YYYY-MM selector.
func ValidMonthKey(s string) bool {
	if len(s) != len(MonthKeyLayout) {
		return false
	}
	_, err := time.Parse(MonthKeyLayout, s)
	return err == nil
}

// MoodBreakdown is one mood's share of a month.
type MoodBreakdown struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// MonthlyStats aggregates one calendar month of the note store.
// Percentages are taken over the mood-tagged records only; records
// without a mood count toward Total but not the breakdown.
type MonthlyStats struct {
	Month    string                        `json:"month"`
	Total    int                           `json:"total"`
	WithMood int                           `json:"with_mood"`
	Moods    map[models.Mood]MoodBreakdown `json:"moods"`
}

// monthlyStats computes the per-mood counts and percentages for the
// records whose date key falls in month (YYYY-MM).
func monthlyStats(snapshot map[string]models.NoteRecord, month string) MonthlyStats {
	stats := MonthlyStats{
		Month: month,
		Moods: map[models.Mood]MoodBreakdown{},
	}

	counts := map[models.Mood]int{}
	for date, rec := range snapshot {
		if !strings.HasPrefix(date, month+"-") {
			continue
		}
		stats.Total++
		if rec.Mood == "" {
			continue
		}
		stats.WithMood++
		counts[rec.Mood]++
	}

	for mood, count := range counts {
		stats.Moods[mood] = MoodBreakdown{
			Count:   count,
			Percent: percentOf(count, stats.WithMood),
		}
	}
	return stats
}

// percentOf returns count/total as a percentage with one decimal.
func percentOf(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
