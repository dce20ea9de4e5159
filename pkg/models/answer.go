package models

// RawAnswer represents a single participant's answer as submitted.
// Raw answers are immutable; the clustering engine only reads them.
type RawAnswer struct {
	ID               int64  `db:"id" json:"id"`
	SurveyID         string `db:"survey_id" json:"survey_id"`
	Text             string `db:"answer_text" json:"answer_text"`
	SubmittedAt      string `db:"submitted_at" json:"submitted_at"`
	SubmittedAtEpoch int64  `db:"submitted_at_epoch" json:"submitted_at_epoch"`
}
