package training

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognisphere-server/internal/domain"
)

func TestGames(t *testing.T) {
	all := Games()
	require.Len(t, all, 4)
	assert.Equal(t, domain.GameMemoryMatch, all[0].ID)

	g, ok := Game(domain.GameSequenceRecall)
	require.True(t, ok)
	assert.Equal(t, "Executive Function", g.CognitiveDomain)

	_, ok = Game("chess")
	assert.False(t, ok)

	all[0].SupportedDiseases[0] = domain.ClinicalParkinsons
	again, _ := Game(domain.GameMemoryMatch)
	assert.Equal(t, domain.ClinicalAlzheimers, again.SupportedDiseases[0])
}

func TestGamesFor(t *testing.T) {
	ids := func(gs []domain.GameConfig) []domain.GameType {
		var out []domain.GameType
		for _, g := range gs {
			out = append(out, g.ID)
		}
		return out
	}

	assert.Equal(t, []domain.GameType{domain.GameMemoryMatch, domain.GameWordAssociation}, ids(GamesFor(domain.ClinicalAlzheimers)))
	assert.Equal(t, []domain.GameType{domain.GameMemoryMatch}, ids(GamesFor(domain.ClinicalEpilepsy)))
	assert.Len(t, GamesFor(domain.ClinicalBrainInjury), 3)
	assert.Empty(t, GamesFor("Migraine"))
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name  string
		prior []int
		score int
		want  domain.PerformanceTrend
	}{
		{"no history", nil, 50, domain.TrendStable},
		{"well above", []int{100, 100, 100}, 120, domain.TrendImproving},
		{"well below", []int{100, 100, 100}, 80, domain.TrendDeclining},
		{"within band", []int{100, 100, 100}, 105, domain.TrendStable},
		{"only three newest count", []int{50, 50, 50, 1000}, 60, domain.TrendImproving},
		{"short history", []int{200}, 150, domain.TrendDeclining},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trend(tt.prior, tt.score))
		})
	}
}

func TestStats(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	at := func(daysAgo int, score int) *domain.GameSession {
		return &domain.GameSession{Score: score, SessionDate: now.AddDate(0, 0, -daysAgo)}
	}

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, domain.GameStats{}, Stats(nil, now))
	})

	t.Run("streak ending today", func(t *testing.T) {
		stats := Stats([]*domain.GameSession{at(0, 10), at(0, 30), at(1, 21), at(2, 5), at(4, 60)}, now)
		assert.Equal(t, 5, stats.TotalSessions)
		assert.Equal(t, 25, stats.AverageScore)
		assert.Equal(t, 60, stats.HighestScore)
		assert.Equal(t, 3, stats.Streak)
	})

	t.Run("streak ending yesterday still counts", func(t *testing.T) {
		stats := Stats([]*domain.GameSession{at(1, 1), at(2, 2)}, now)
		assert.Equal(t, 2, stats.Streak)
		assert.Equal(t, 2, stats.AverageScore)
	})

	t.Run("stale history breaks streak", func(t *testing.T) {
		stats := Stats([]*domain.GameSession{at(2, 1), at(3, 1)}, now)
		assert.Equal(t, 0, stats.Streak)
	})

	t.Run("days are calendar days in UTC", func(t *testing.T) {
		zone := time.FixedZone("east", 10*3600)
		late := time.Date(2026, 3, 10, 8, 0, 0, 0, zone) // 2026-03-09 22:00 UTC
		stats := Stats([]*domain.GameSession{{Score: 4, SessionDate: late}, at(0, 4)}, now)
		assert.Equal(t, 2, stats.Streak)
	})
}

func TestApplyFatigueRule(t *testing.T) {
	low := &domain.WellnessCheckin{EnergyLevel: 2}
	ApplyFatigueRule(low)
	assert.True(t, low.FeelingTired)

	ok := &domain.WellnessCheckin{EnergyLevel: 3}
	ApplyFatigueRule(ok)
	assert.False(t, ok.FeelingTired)

	reported := &domain.WellnessCheckin{EnergyLevel: 5, FeelingTired: true}
	ApplyFatigueRule(reported)
	assert.True(t, reported.FeelingTired)
}
