package models

import "strings"

// AnswerGroup is one cluster of similar raw answers with its display label.
// Count always equals len(RawAnswers).
type AnswerGroup struct {
	CanonicalName string   `json:"canonical_name"`
	Count         int      `json:"count"`
	RawAnswers    []string `json:"raw_answers"`
}

// GroupingResult is the complete partition of a survey's raw answers into
// named groups. It is created wholesale by a processing run and replaced in
// full by the next run; between runs it is mutated only through Rename.
type GroupingResult struct {
	SurveyID         string        `json:"survey_id"`
	Groups           []AnswerGroup `json:"groups"`
	GeneratedAt      string        `json:"generated_at"`
	GeneratedAtEpoch int64         `json:"generated_at_epoch"`
	Version          int64         `json:"version"`
}

// GroupIndex returns the index of the group with the given canonical name,
// or -1 if no such group exists.
func (g *GroupingResult) GroupIndex(canonicalName string) int {
	for i := range g.Groups {
		if g.Groups[i].CanonicalName == canonicalName {
			return i
		}
	}
	return -1
}

// TotalAnswers returns the number of raw answers across all groups.
func (g *GroupingResult) TotalAnswers() int {
	total := 0
	for i := range g.Groups {
		total += len(g.Groups[i].RawAnswers)
	}
	return total
}

// Rename relabels the group currently named currentName to newName, in place.
//
// If newName (trimmed) equals another group's canonical name the two groups
// are merged: the target keeps its position and its members come first,
// followed by the source group's members in their original relative order.
// Renaming a group to its own name is a no-op.
//
// The caller persists the mutated result; Rename itself never touches
// storage, so the partition invariant is preserved or the receiver is left
// unchanged on error. The returned bool reports whether anything changed:
// renaming a group to its own name is a no-op and must not be persisted.
func (g *GroupingResult) Rename(currentName, newName string) (bool, error) {
	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return false, ErrInvalidName
	}

	src := g.GroupIndex(currentName)
	if src < 0 {
		return false, ErrGroupNotFound
	}

	if trimmed == currentName {
		return false, nil
	}

	dst := g.GroupIndex(trimmed)
	if dst >= 0 && dst != src {
		// Merge: target absorbs the source group's members and count.
		target := &g.Groups[dst]
		target.RawAnswers = append(target.RawAnswers, g.Groups[src].RawAnswers...)
		target.Count = len(target.RawAnswers)
		g.Groups = append(g.Groups[:src], g.Groups[src+1:]...)
		return true, nil
	}

	g.Groups[src].CanonicalName = trimmed
	return true, nil
}
