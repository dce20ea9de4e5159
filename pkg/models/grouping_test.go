package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrouping() *GroupingResult {
	return &GroupingResult{
		SurveyID: "survey-1",
		Groups: []AnswerGroup{
			{CanonicalName: "Pizza", Count: 2, RawAnswers: []string{"Pizza", "pizza!"}},
			{CanonicalName: "Burgers", Count: 2, RawAnswers: []string{"Burgers", "burger"}},
		},
		GeneratedAt: "2026-08-30T12:00:00Z",
		Version:     1,
	}
}

func TestRename_GroupNotFound(t *testing.T) {
	g := testGrouping()
	changed, err := g.Rename("Tacos", "Pizza")
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.False(t, changed)
}

func TestRename_InvalidName(t *testing.T) {
	g := testGrouping()
	changed, err := g.Rename("Pizza", "   ")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.False(t, changed)
	// The grouping is untouched on error.
	assert.Equal(t, testGrouping(), g)
}

func TestRename_SelfIsNoOp(t *testing.T) {
	g := testGrouping()
	changed, err := g.Rename("Pizza", "  Pizza  ")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, testGrouping(), g)
}

func TestRename_InPlace(t *testing.T) {
	g := testGrouping()
	changed, err := g.Rename("Pizza", "Italian Food")
	require.NoError(t, err)
	assert.True(t, changed)

	require.Equal(t, 2, len(g.Groups))
	assert.Equal(t, "Italian Food", g.Groups[0].CanonicalName)
	assert.Equal(t, []string{"Pizza", "pizza!"}, g.Groups[0].RawAnswers)
	assert.Equal(t, 2, g.Groups[0].Count)
}

func TestRename_MergeOnCollision(t *testing.T) {
	g := testGrouping()
	changed, err := g.Rename("Burgers", "Pizza")
	require.NoError(t, err)
	assert.True(t, changed)

	require.Len(t, g.Groups, 1)
	merged := g.Groups[0]
	assert.Equal(t, "Pizza", merged.CanonicalName)
	assert.Equal(t, 4, merged.Count)
	// Target members first, then source members in original relative order.
	assert.Equal(t, []string{"Pizza", "pizza!", "Burgers", "burger"}, merged.RawAnswers)
}

func TestRename_MergePreservesPartition(t *testing.T) {
	g := testGrouping()
	before := g.TotalAnswers()
	_, err := g.Rename("Burgers", "Pizza")
	require.NoError(t, err)
	assert.Equal(t, before, g.TotalAnswers())
}

func TestRename_NewNameTrimmed(t *testing.T) {
	g := testGrouping()
	changed, err := g.Rename("Burgers", "  Fast Food  ")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Fast Food", g.Groups[1].CanonicalName)
}

func TestGroupIndex(t *testing.T) {
	g := testGrouping()
	assert.Equal(t, 0, g.GroupIndex("Pizza"))
	assert.Equal(t, 1, g.GroupIndex("Burgers"))
	assert.Equal(t, -1, g.GroupIndex("Tacos"))
}

// TestAnswerGroupJSON pins the persisted shape external consumers parse.
func TestAnswerGroupJSON(t *testing.T) {
	group := AnswerGroup{
		CanonicalName: "Pizza",
		Count:         2,
		RawAnswers:    []string{"Pizza", "pizza!"},
	}
	data, err := json.Marshal(group)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"canonical_name":"Pizza","count":2,"raw_answers":["Pizza","pizza!"]}`,
		string(data))
}

func TestJSONAnswerGroups_RoundTrip(t *testing.T) {
	groups := JSONAnswerGroups(testGrouping().Groups)

	value, err := groups.Value()
	require.NoError(t, err)

	var restored JSONAnswerGroups
	require.NoError(t, restored.Scan(value))
	assert.Equal(t, groups, restored)
}
