package memory

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognisphere-server/internal/domain"
)

func TestInsights_Empty(t *testing.T) {
	got := Insights(nil)
	assert.Equal(t, 0, got.Total)
	assert.Empty(t, got.Categories)
	assert.NotNil(t, got.Monthly)
	assert.NotNil(t, got.TopTags)
}

func TestInsights(t *testing.T) {
	entries := []*domain.MemoryEntry{
		sampleEntry("a", "2021-03-05", domain.MemoryTravel, "beach", " sun "),
		sampleEntry("b", "2021-03-20", domain.MemoryTravel, "beach"),
		sampleEntry("c", "2020-11-01", domain.MemoryFamilyEvent, "family", "", "sun"),
		sampleEntry("d", "not a date", domain.MemoryOther, "family"),
	}

	got := Insights(entries)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, map[domain.MemoryCategory]int{
		domain.MemoryTravel:      2,
		domain.MemoryFamilyEvent: 1,
		domain.MemoryOther:       1,
	}, got.Categories)
	assert.Equal(t, []domain.MonthlyCount{
		{Month: "2020-11", Count: 1},
		{Month: "2021-03", Count: 2},
	}, got.Monthly)
	assert.Equal(t, []domain.TagCount{
		{Tag: "beach", Count: 2},
		{Tag: "family", Count: 2},
		{Tag: "sun", Count: 2},
	}, got.TopTags)
}

func TestInsights_TopTagsCapped(t *testing.T) {
	var entries []*domain.MemoryEntry
	for i := 0; i < 15; i++ {
		tags := []string{fmt.Sprintf("tag-%02d", i)}
		if i < 3 {
			tags = append(tags, "common")
		}
		entries = append(entries, sampleEntry("x", "2020-01-01", domain.MemoryOther, tags...))
	}

	got := Insights(entries)
	require.Len(t, got.TopTags, MaxTopTags)
	assert.Equal(t, domain.TagCount{Tag: "common", Count: 3}, got.TopTags[0])
	assert.Equal(t, "tag-00", got.TopTags[1].Tag)
	assert.Equal(t, "tag-08", got.TopTags[9].Tag)
}

func TestVaultContext(t *testing.T) {
	entries := []*domain.MemoryEntry{
		{Title: "Wedding", Date: "1975-06-14", Category: domain.MemoryFamilyEvent, Notes: "Sunny day", Tags: []string{"family", "love"}},
		{Title: "Award", Date: "1990-01-01", Category: domain.MemoryAchievement, Tags: []string{}},
	}
	want := "- [1975-06-14] Wedding (Family Event): Sunny day (Tags: family, love)\n" +
		"- [1990-01-01] Award (Achievement):  (Tags: )"
	assert.Equal(t, want, VaultContext(entries))
	assert.Equal(t, "", VaultContext(nil))
}

func TestAssistantPrompt(t *testing.T) {
	entries := []*domain.MemoryEntry{
		{Title: "Wedding", Date: "1975-06-14", Category: domain.MemoryFamilyEvent, Notes: "Sunny day", Tags: []string{"family"}},
	}
	prompt := AssistantPrompt("When did I get married?", entries)

	assert.True(t, strings.HasPrefix(prompt, "You are a warm, nostalgic, and helpful Memory Assistant for the Cognisphere app."))
	assert.Contains(t, prompt, `USER QUERY: "When did I get married?"`)
	assert.Contains(t, prompt, "- [1975-06-14] Wedding (Family Event): Sunny day (Tags: family)")
	assert.Contains(t, prompt, `"`+NotFoundReply+`"`)
	assert.Contains(t, prompt, "under 100 words")
}
