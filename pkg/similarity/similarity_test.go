package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio_Identity(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("pizza", "pizza"))
	assert.Equal(t, 1.0, Ratio("", ""))
}

func TestRatio_Symmetry(t *testing.T) {
	pairs := [][2]string{
		{"pizza", "pizzaa"},
		{"pizza lover", "lover of pizza"},
		{"burger", "burgers"},
		{"cat", "dog"},
	}
	for _, p := range pairs {
		assert.Equal(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), "Ratio(%q,%q) not symmetric", p[0], p[1])
	}
}

func TestRatio_Range(t *testing.T) {
	pairs := [][2]string{
		{"pizza", "burger"},
		{"a", "completely different answer"},
		{"", "nonempty"},
		{"same", "same"},
	}
	for _, p := range pairs {
		r := Ratio(p[0], p[1])
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

func TestRatio_EmptyString(t *testing.T) {
	assert.Equal(t, 0.0, Ratio("", "pizza"))
	assert.Equal(t, 0.0, Ratio("pizza", ""))
}

func TestRatio_Typo(t *testing.T) {
	// One inserted character out of six stays above the default threshold.
	assert.GreaterOrEqual(t, Ratio("pizza", "pizzaa"), DefaultThreshold)
}

func TestRatio_DistinctAnswers(t *testing.T) {
	assert.Less(t, Ratio("pizza", "burger"), DefaultThreshold)
	assert.Less(t, Ratio("dog", "skyscraper"), DefaultThreshold)
}

func TestRatio_WordOrder(t *testing.T) {
	// Token-sort scores reordered answers much higher than straight edit
	// distance does.
	straight := editRatio("pizza lover", "lover of pizza")
	combined := Ratio("pizza lover", "lover of pizza")
	assert.Greater(t, combined, straight)
	assert.Greater(t, combined, 0.7)
}

func TestRatio_Subphrase(t *testing.T) {
	// A longer statement containing an answer is still a different answer.
	assert.Less(t, Ratio("i love pizza", "pizza"), DefaultThreshold)
}

func TestEditRatio_Unicode(t *testing.T) {
	// Rune-based length: one rune substitution in a four-rune word.
	assert.InDelta(t, 0.75, editRatio("café", "cafe"), 0.001)
}
