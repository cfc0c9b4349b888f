package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{ID: 1, Key: "the weeknd blinding lights", Label: "The Weeknd - Blinding Lights", Notes: "2019"},
		{ID: 2, Key: "the weeknd save your tears", Label: "The Weeknd - Save Your Tears"},
		{ID: 3, Key: "dua lipa levitating", Label: "Dua Lipa - Levitating"},
	}
}

func TestMatcher_Top(t *testing.T) {
	m := NewMatcher(NewTokenScorer(), 5)

	got := m.Top("blinding lights the weeknd", testEntries())
	require.NotEmpty(t, got)

	assert.Equal(t, int64(1), got[0].VideoID)
	assert.Equal(t, "The Weeknd - Blinding Lights", got[0].Label)
	assert.Equal(t, "2019", got[0].Notes)
	assert.GreaterOrEqual(t, got[0].Confidence, 0.9)

	// Descending confidence order.
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i].Confidence, got[i-1].Confidence)
	}
}

func TestMatcher_Top_EmptyKey(t *testing.T) {
	m := NewMatcher(NewTokenScorer(), 5)
	assert.Nil(t, m.Top("", testEntries()))
}

func TestMatcher_Top_Limit(t *testing.T) {
	entries := []Entry{
		{ID: 1, Key: "track one"},
		{ID: 2, Key: "track two"},
		{ID: 3, Key: "track three"},
	}
	m := NewMatcher(NewTokenScorer(), 2)

	got := m.Top("track", entries)
	assert.LessOrEqual(t, len(got), 2)
}

func TestMatcher_Top_ConfidenceRounding(t *testing.T) {
	m := NewMatcher(NewTokenScorer(), 5)
	for _, c := range m.Top("blinding lights", testEntries()) {
		assert.Equal(t, roundConfidence(c.Confidence), c.Confidence)
		assert.GreaterOrEqual(t, c.Confidence, 0.0)
		assert.LessOrEqual(t, c.Confidence, 1.0)
	}
}
