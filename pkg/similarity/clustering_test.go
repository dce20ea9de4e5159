package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/surveyor/pkg/models"
	"github.com/thebtf/surveyor/pkg/normalize"
)

func testAnswers(texts ...string) []models.RawAnswer {
	answers := make([]models.RawAnswer, 0, len(texts))
	for i, text := range texts {
		answers = append(answers, models.RawAnswer{
			ID:               int64(i + 1),
			SurveyID:         "survey-1",
			Text:             text,
			SubmittedAtEpoch: int64(1000 + i),
		})
	}
	return answers
}

func newTestClusterer() *Clusterer {
	return NewClusterer(normalize.New(false), DefaultThreshold)
}

func TestCluster_Empty(t *testing.T) {
	result := newTestClusterer().Cluster("survey-1", nil)
	require.NotNil(t, result)
	assert.Equal(t, "survey-1", result.SurveyID)
	assert.Empty(t, result.Groups)
}

func TestCluster_BlankAnswersSkipped(t *testing.T) {
	result := newTestClusterer().Cluster("survey-1", testAnswers("  ", "!!!", "pizza"))
	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"pizza"}, result.Groups[0].RawAnswers)
}

func TestCluster_PartitionInvariant(t *testing.T) {
	input := []string{"Pizza", "pizza!", "piza", "I like pizza", "Burgers", "burger", "sushi", "Sushi!!"}
	result := newTestClusterer().Cluster("survey-1", testAnswers(input...))

	// Every input answer appears in exactly one group; the union of member
	// lists equals the input as a multiset.
	var all []string
	for _, g := range result.Groups {
		assert.Equal(t, len(g.RawAnswers), g.Count)
		assert.NotEmpty(t, g.RawAnswers)
		assert.NotEmpty(t, g.CanonicalName)
		all = append(all, g.RawAnswers...)
	}
	assert.ElementsMatch(t, input, all)
}

func TestCluster_Deterministic(t *testing.T) {
	answers := testAnswers("Pizza", "pizza!", "piza", "Burgers", "burger", "tacos", "TACOS")

	c := newTestClusterer()
	first := c.Cluster("survey-1", answers)
	second := c.Cluster("survey-1", answers)

	require.Equal(t, len(first.Groups), len(second.Groups))
	for i := range first.Groups {
		assert.Equal(t, first.Groups[i].CanonicalName, second.Groups[i].CanonicalName)
		assert.Equal(t, first.Groups[i].RawAnswers, second.Groups[i].RawAnswers)
	}
}

func TestCluster_ExactNormalizedMatch(t *testing.T) {
	// Answers identical after normalization share a group regardless of the
	// threshold, via the exact-match short-circuit.
	c := NewClusterer(normalize.New(false), 0.99)
	result := c.Cluster("survey-1", testAnswers("Pizza", "PIZZA!!", "  pizza  "))

	require.Len(t, result.Groups, 1)
	assert.Equal(t, 3, result.Groups[0].Count)
}

func TestCluster_ThresholdBoundary(t *testing.T) {
	// "pizzaa" scores above 0.80 against "pizza" and groups with it;
	// "burger" scores near zero and opens a new group.
	result := newTestClusterer().Cluster("survey-1", testAnswers("pizza", "pizzaa", "burger"))

	require.Len(t, result.Groups, 2)
	assert.ElementsMatch(t, []string{"pizza", "pizzaa"}, result.Groups[0].RawAnswers)
	assert.Equal(t, []string{"burger"}, result.Groups[1].RawAnswers)
}

func TestCluster_InclusiveThreshold(t *testing.T) {
	// Similarity exactly at the threshold groups together: one edit out of
	// five runes is 0.80 with tau = 0.80.
	c := NewClusterer(normalize.New(false), 0.80)
	result := c.Cluster("survey-1", testAnswers("abcde", "abcdx"))
	require.Len(t, result.Groups, 1)
}

func TestCluster_EarliestGroupWinsTies(t *testing.T) {
	// "xbcde" scores 0.8 against both "abcde" and "xbcdz" (which differ
	// from each other by two edits and stay separate); the earliest-created
	// group wins the tie.
	c := NewClusterer(normalize.New(false), 0.80)
	result := c.Cluster("survey-1", testAnswers("abcde", "xbcdz", "xbcde"))

	require.Len(t, result.Groups, 2)
	assert.Equal(t, []string{"abcde", "xbcde"}, result.Groups[0].RawAnswers)
	assert.Equal(t, []string{"xbcdz"}, result.Groups[1].RawAnswers)
}

func TestCluster_EndToEnd(t *testing.T) {
	result := newTestClusterer().Cluster("survey-1",
		testAnswers("Pizza", "pizza!", "I love Pizza", "Burgers", "burger"))

	// Two groups plus the standalone statement: "I love Pizza" normalizes
	// to a different string and scores below the threshold against "pizza".
	require.Len(t, result.Groups, 3)

	assert.ElementsMatch(t, []string{"Pizza", "pizza!"}, result.Groups[0].RawAnswers)
	assert.Equal(t, []string{"I love Pizza"}, result.Groups[1].RawAnswers)
	assert.ElementsMatch(t, []string{"Burgers", "burger"}, result.Groups[2].RawAnswers)

	// No majority in either pair, so the longest original text wins.
	assert.Equal(t, "pizza!", result.Groups[0].CanonicalName)
	assert.Equal(t, "Burgers", result.Groups[2].CanonicalName)
}

func TestCanonicalName_Majority(t *testing.T) {
	result := newTestClusterer().Cluster("survey-1",
		testAnswers("pizza", "pizza", "Pizzaa"))

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "pizza", result.Groups[0].CanonicalName)
}

func TestCanonicalName_LongestOnNoMajority(t *testing.T) {
	result := newTestClusterer().Cluster("survey-1",
		testAnswers("pizza", "pizzaa"))

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "pizzaa", result.Groups[0].CanonicalName)
}

func TestCanonicalName_EarliestOnLengthTie(t *testing.T) {
	result := newTestClusterer().Cluster("survey-1",
		testAnswers("abcde", "abcdx"))

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "abcde", result.Groups[0].CanonicalName)
}

func TestCluster_StemmedNormalizer(t *testing.T) {
	// With stemming on, plural and singular forms normalize identically and
	// hit the exact-match short-circuit.
	c := NewClusterer(normalize.New(true), DefaultThreshold)
	result := c.Cluster("survey-1", testAnswers("dogs", "dog", "Dog!"))

	require.Len(t, result.Groups, 1)
	assert.Equal(t, 3, result.Groups[0].Count)
}
