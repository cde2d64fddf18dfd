package training

import (
	"math"
	"time"

	"github.com/cognisphere-server/internal/domain"
)

// TrendWindow is the number of prior sessions a new score is compared with.
const TrendWindow = 3

const (
	trendThreshold = 0.10
	tiredEnergy    = 2
)

// Trend compares score with the mean of the most recent prior scores, given
// newest first. Only the first three are considered.
func Trend(prior []int, score int) domain.PerformanceTrend {
	if len(prior) == 0 {
		return domain.TrendStable
	}
	if len(prior) > TrendWindow {
		prior = prior[:TrendWindow]
	}
	var sum int
	for _, s := range prior {
		sum += s
	}
	mean := float64(sum) / float64(len(prior))

	switch {
	case float64(score) > mean*(1+trendThreshold):
		return domain.TrendImproving
	case float64(score) < mean*(1-trendThreshold):
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

// Stats aggregates sessions in any order. now anchors the streak.
func Stats(sessions []*domain.GameSession, now time.Time) domain.GameStats {
	var stats domain.GameStats
	if len(sessions) == 0 {
		return stats
	}

	var sum int
	days := make(map[time.Time]struct{}, len(sessions))
	var latest time.Time
	for i, s := range sessions {
		sum += s.Score
		if i == 0 || s.Score > stats.HighestScore {
			stats.HighestScore = s.Score
		}
		d := utcDay(s.SessionDate)
		days[d] = struct{}{}
		if d.After(latest) {
			latest = d
		}
	}
	stats.TotalSessions = len(sessions)
	stats.AverageScore = int(math.Round(float64(sum) / float64(len(sessions))))
	stats.Streak = streak(days, latest, utcDay(now))
	return stats
}

func streak(days map[time.Time]struct{}, latest, today time.Time) int {
	if latest.Before(today.AddDate(0, 0, -1)) {
		return 0
	}
	n := 0
	for d := latest; ; d = d.AddDate(0, 0, -1) {
		if _, ok := days[d]; !ok {
			return n
		}
		n++
	}
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ApplyFatigueRule marks the patient as tired whenever reported energy is low.
func ApplyFatigueRule(c *domain.WellnessCheckin) {
	if c.EnergyLevel <= tiredEnergy {
		c.FeelingTired = true
	}
}
