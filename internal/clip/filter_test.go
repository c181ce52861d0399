package clip

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilter_TrimsAndDeduplicatesNames(t *testing.T) {
	f, err := NewFilter(24*time.Hour, []string{" Just Chatting ", "just chatting", "", "Minecraft"}, []string{"shroud", "Shroud"}, nil, 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"Just Chatting", "Minecraft"}, f.Categories)
	assert.Equal(t, []string{"shroud"}, f.Channels)
	assert.Empty(t, f.Languages)
	assert.Equal(t, 10, f.MaxResults)
}

func TestNewFilter_CanonicalisesLanguages(t *testing.T) {
	f, err := NewFilter(time.Hour, nil, nil, []string{"EN", "en", "zh_HK", "other"}, 5)

	require.NoError(t, err)
	assert.Equal(t, []string{"en", "zh-hk", "other"}, f.Languages)
}

func TestNewFilter_RejectsInvalidCriteria(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		max    int
	}{
		{"zero window", 0, 10},
		{"negative window", -time.Hour, 10},
		{"negative max", time.Hour, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFilter(tt.window, nil, nil, nil, tt.max)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFilter))
		})
	}
}

func TestNewFilter_AllowsZeroMaxResults(t *testing.T) {
	f, err := NewFilter(time.Hour, nil, nil, nil, 0)

	require.NoError(t, err)
	assert.Zero(t, f.MaxResults)
}

func TestMatchesLanguage(t *testing.T) {
	assert.True(t, MatchesLanguage(nil, "de"), "empty language set allows everything")
	assert.True(t, MatchesLanguage([]string{"en", "de"}, "de"))
	assert.False(t, MatchesLanguage([]string{"en"}, "de"))
	assert.False(t, MatchesLanguage([]string{"en"}, ""))
}

func TestQuery_StringNamesTargets(t *testing.T) {
	q := Query{CategoryID: "509658", ChannelID: "42"}

	assert.Equal(t, "clips category=509658 channel=42", q.String())
	assert.Equal(t, [2]string{"509658", "42"}, q.Target())
}
