// Package models contains domain models for surveyor.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Survey represents a single-question survey collecting free-text answers.
type Survey struct {
	ID               string          `db:"id" json:"id"`
	QuestionText     string          `db:"question_text" json:"question_text"`
	IsActive         bool            `db:"is_active" json:"is_active"`
	ParticipantLimit int             `db:"participant_limit" json:"participant_limit"`
	Tags             JSONStringArray `db:"tags" json:"tags,omitempty"`
	CreatedAt        string          `db:"created_at" json:"created_at"`
	UpdatedAt        string          `db:"updated_at" json:"updated_at"`
}

// DefaultParticipantLimit caps responses per survey unless overridden.
const DefaultParticipantLimit = 500

// NewSurvey creates a survey with a generated ID and timestamps set.
func NewSurvey(questionText string, isActive bool, participantLimit int, tags []string) *Survey {
	now := time.Now().Format(time.RFC3339)
	if participantLimit <= 0 {
		participantLimit = DefaultParticipantLimit
	}
	return &Survey{
		ID:               uuid.NewString(),
		QuestionText:     questionText,
		IsActive:         isActive,
		ParticipantLimit: participantLimit,
		Tags:             JSONStringArray(tags),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
