package coping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryMoodHasThreeTips(t *testing.T) {
	require.Len(t, AllMoods(), 7)
	for _, m := range AllMoods() {
		assert.Len(t, Suggestions(m), 3, m)
		assert.NotEqual(t, string(m), m.DisplayName())
	}
}

func TestSuggestionsReturnsCopy(t *testing.T) {
	tips := Suggestions(Anxious)
	tips[0] = "mutated"
	assert.Equal(t, "5-4-3-2-1 grounding", Suggestions(Anxious)[0])
	assert.Nil(t, Suggestions("bored"))
}

func TestParseMood(t *testing.T) {
	tests := []struct {
		in   string
		want Mood
	}{
		{"anxious", Anxious},
		{"Anxious", Anxious},
		{"  SAD ", Sad},
		{"Can't Sleep", CantSleep},
		{"cant-sleep", CantSleep},
		{"cant_sleep", CantSleep},
		{"can’t sleep", CantSleep},
	}
	for _, tt := range tests {
		got, err := ParseMood(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMood("bored")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	assert.Equal(t, AllMoods(), Filter(""))
	assert.Equal(t, []Mood{Stressed}, Filter("str"))
	assert.Equal(t, []Mood{Anxious, Angry, CantSleep}, Filter("an"))
	assert.Empty(t, Filter("zzz"))
}
