package similarity

import (
	"time"

	"github.com/thebtf/surveyor/pkg/models"
	"github.com/thebtf/surveyor/pkg/normalize"
)

// Clusterer partitions a survey's raw answers into groups of similar
// answers using greedy single-linkage in submission order, which keeps the
// result deterministic for a fixed normalizer and threshold.
type Clusterer struct {
	normalizer *normalize.Normalizer
	threshold  float64
}

// NewClusterer creates a Clusterer. A threshold outside (0, 1] falls back to
// DefaultThreshold.
func NewClusterer(n *normalize.Normalizer, threshold float64) *Clusterer {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	if n == nil {
		n = normalize.New(false)
	}
	return &Clusterer{normalizer: n, threshold: threshold}
}

// openGroup accumulates members for one cluster while answers are processed.
// The representative is the normalized text of the first answer assigned.
type openGroup struct {
	representative string
	rawTexts       []string
}

// Cluster partitions answers into an ordered set of named groups.
//
// Each answer is normalized first; answers whose normalized form is empty
// contribute to no group. An answer joins the first group whose
// representative matches its normalized text exactly, otherwise the
// best-scoring group at or above the threshold (earliest group wins ties),
// otherwise it opens a new group. Every remaining answer lands in exactly
// one group, so the output is a total partition of the non-empty input.
//
// An empty answer set yields an empty, valid result.
func (c *Clusterer) Cluster(surveyID string, answers []models.RawAnswer) *models.GroupingResult {
	var groups []*openGroup

	for _, answer := range answers {
		normText := c.normalizer.Normalize(answer.Text)
		if normText == "" {
			continue
		}

		idx := c.assign(groups, normText)
		if idx < 0 {
			groups = append(groups, &openGroup{
				representative: normText,
				rawTexts:       []string{answer.Text},
			})
			continue
		}
		groups[idx].rawTexts = append(groups[idx].rawTexts, answer.Text)
	}

	now := time.Now()
	result := &models.GroupingResult{
		SurveyID:         surveyID,
		Groups:           make([]models.AnswerGroup, 0, len(groups)),
		GeneratedAt:      now.Format(time.RFC3339),
		GeneratedAtEpoch: now.UnixMilli(),
	}
	for _, g := range groups {
		result.Groups = append(result.Groups, models.AnswerGroup{
			CanonicalName: canonicalName(g.rawTexts),
			Count:         len(g.rawTexts),
			RawAnswers:    g.rawTexts,
		})
	}
	return result
}

// assign returns the index of the group normText belongs to, or -1 if none
// qualifies. Exact representative matches short-circuit the similarity scan
// so answers differing only by normalization always land together.
func (c *Clusterer) assign(groups []*openGroup, normText string) int {
	for i, g := range groups {
		if g.representative == normText {
			return i
		}
	}

	best := -1
	bestScore := 0.0
	for i, g := range groups {
		score := Ratio(normText, g.representative)
		if score >= c.threshold && score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// canonicalName picks the display label for a finished group: the original
// text with a strict majority among members, otherwise the longest original
// text, with ties going to the earliest submission.
func canonicalName(rawTexts []string) string {
	if len(rawTexts) == 0 {
		return ""
	}

	counts := make(map[string]int, len(rawTexts))
	for _, t := range rawTexts {
		counts[t]++
	}
	for _, t := range rawTexts {
		if counts[t]*2 > len(rawTexts) {
			return t
		}
	}

	best := rawTexts[0]
	for _, t := range rawTexts[1:] {
		if len(t) > len(best) {
			best = t
		}
	}
	return best
}
