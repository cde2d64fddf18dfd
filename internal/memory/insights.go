package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/cognisphere-server/internal/domain"
)

// MaxTopTags bounds the tag list in Insights.
const MaxTopTags = 10

// Insights summarises entries by category, month and tag. Entries with an
// unparseable date are left out of the monthly counts only.
func Insights(entries []*domain.MemoryEntry) domain.MemoryInsights {
	out := domain.MemoryInsights{
		Total:      len(entries),
		Categories: map[domain.MemoryCategory]int{},
		Monthly:    []domain.MonthlyCount{},
		TopTags:    []domain.TagCount{},
	}

	months := map[string]int{}
	tags := map[string]int{}
	for _, e := range entries {
		out.Categories[e.Category]++
		if d, err := time.Parse(domain.MemoryDateLayout, e.Date); err == nil {
			months[d.Format("2006-01")]++
		}
		for _, t := range e.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags[t]++
			}
		}
	}

	for m, n := range months {
		out.Monthly = append(out.Monthly, domain.MonthlyCount{Month: m, Count: n})
	}
	sort.Slice(out.Monthly, func(i, j int) bool {
		return out.Monthly[i].Month < out.Monthly[j].Month
	})

	for t, n := range tags {
		out.TopTags = append(out.TopTags, domain.TagCount{Tag: t, Count: n})
	}
	sort.Slice(out.TopTags, func(i, j int) bool {
		if out.TopTags[i].Count != out.TopTags[j].Count {
			return out.TopTags[i].Count > out.TopTags[j].Count
		}
		return out.TopTags[i].Tag < out.TopTags[j].Tag
	})
	if len(out.TopTags) > MaxTopTags {
		out.TopTags = out.TopTags[:MaxTopTags]
	}
	return out
}
