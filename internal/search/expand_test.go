package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dagingo/clip-finder/internal/clip"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestAC300_Expand_NoNamesUsesTopCategories(t *testing.T) {
	platform := &fakePlatform{top: []string{"g1", "g2", "g1", "g3"}}
	filter := clip.Filter{TimeWindow: 7 * 24 * time.Hour, MaxResults: 10}

	plan := Expand(context.Background(), filter, platform, fixedNow, quietLogger())

	assert.Equal(t, [][2]string{{"g1", ""}, {"g2", ""}, {"g3", ""}}, targets(plan.Queries))
	for _, q := range plan.Queries {
		assert.Equal(t, fixedNow.Add(-7*24*time.Hour), q.Start)
		assert.Equal(t, fixedNow, q.End)
		assert.Equal(t, clip.MaxPageSize, q.PageSize)
	}
}

func TestAC301_Expand_TopCategoriesFailureYieldsEmptyPlan(t *testing.T) {
	platform := &fakePlatform{topErr: errBackend}

	plan := Expand(context.Background(), clip.Filter{TimeWindow: time.Hour}, platform, fixedNow, quietLogger())

	require.NotNil(t, plan.Queries)
	assert.Empty(t, plan.Queries)
}

func TestAC302_Expand_UnknownCategoryYieldsNothing(t *testing.T) {
	platform := &fakePlatform{categories: map[string]string{}}
	filter := clip.Filter{TimeWindow: time.Hour, Categories: []string{"NoSuchGame"}}

	plan := Expand(context.Background(), filter, platform, fixedNow, quietLogger())

	assert.Empty(t, plan.Queries)
	assert.Equal(t, []string{"NoSuchGame"}, plan.Unresolved)
}

func TestAC303_Expand_CategoriesAndChannelsFormEveryPair(t *testing.T) {
	platform := &fakePlatform{
		categories: map[string]string{"Chess": "c1", "Art": "c2"},
		channels:   map[string]string{"alice": "u1"},
	}
	filter := clip.Filter{
		TimeWindow: time.Hour,
		Categories: []string{"Chess", "Art"},
		Channels:   []string{"alice"},
	}

	plan := Expand(context.Background(), filter, platform, fixedNow, quietLogger())

	assert.Equal(t, [][2]string{
		{"c1", "u1"},
		{"c1", ""},
		{"c2", "u1"},
		{"c2", ""},
		{"", "u1"},
	}, targets(plan.Queries))
	assert.Empty(t, plan.Unresolved)
}

func TestAC304_Expand_SkipsPairsWithUnresolvedNames(t *testing.T) {
	platform := &fakePlatform{
		categories: map[string]string{"Chess": "c1"},
		channels:   map[string]string{"alice": "u1"},
		lookupErr:  map[string]error{"bob": errBackend},
	}
	filter := clip.Filter{
		TimeWindow: time.Hour,
		Categories: []string{"Chess", "Missing"},
		Channels:   []string{"alice", "bob"},
	}

	plan := Expand(context.Background(), filter, platform, fixedNow, quietLogger())

	assert.Equal(t, [][2]string{{"c1", "u1"}, {"c1", ""}, {"", "u1"}}, targets(plan.Queries))
	assert.ElementsMatch(t, []string{"Missing", "bob"}, plan.Unresolved)
}

func TestAC305_Expand_NamesResolvingToSameIDAreQueriedOnce(t *testing.T) {
	platform := &fakePlatform{
		channels: map[string]string{"alice": "u1", "alice_alt": "u1"},
	}
	filter := clip.Filter{TimeWindow: time.Hour, Channels: []string{"alice", "alice_alt"}}

	plan := Expand(context.Background(), filter, platform, fixedNow, quietLogger())

	assert.Equal(t, [][2]string{{"", "u1"}}, targets(plan.Queries))
}

func TestAC306_Expand_OnlyChannelsTargetsEachChannel(t *testing.T) {
	platform := &fakePlatform{channels: map[string]string{"alice": "u1", "bob": "u2"}}
	filter := clip.Filter{TimeWindow: time.Hour, Channels: []string{"alice", "bob"}}

	plan := Expand(context.Background(), filter, platform, fixedNow, quietLogger())

	assert.Equal(t, [][2]string{{"", "u1"}, {"", "u2"}}, targets(plan.Queries))
}
