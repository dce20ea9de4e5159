package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/thebtf/surveyor/pkg/models"
)

// GORM Models

// Survey represents a single-question survey.
type Survey struct {
	ID               string                 `gorm:"primaryKey;type:text"`
	QuestionText     string                 `gorm:"type:text;not null"`
	IsActive         bool                   `gorm:"default:false;index"`
	ParticipantLimit int                    `gorm:"default:500"`
	Tags             models.JSONStringArray `gorm:"type:text"` // JSON array
	CreatedAt        string                 `gorm:"not null"`
	UpdatedAt        string                 `gorm:"not null"`
}

func (Survey) TableName() string { return "surveys" }

// BeforeCreate hook to ensure timestamps are set.
func (s *Survey) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().Format(time.RFC3339)
	if s.CreatedAt == "" {
		s.CreatedAt = now
	}
	if s.UpdatedAt == "" {
		s.UpdatedAt = now
	}
	if s.ParticipantLimit <= 0 {
		s.ParticipantLimit = models.DefaultParticipantLimit
	}
	return nil
}

// Response represents one raw answer submitted to a survey. Responses are
// immutable once created; the clustering engine only reads them.
type Response struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	SurveyID         string `gorm:"index;not null"`
	AnswerText       string `gorm:"type:text;not null"`
	SubmittedAt      string `gorm:"not null"`
	SubmittedAtEpoch int64  `gorm:"index:idx_responses_submitted;not null"`
}

func (Response) TableName() string { return "responses" }

// BeforeCreate hook to ensure timestamps are set.
func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.SubmittedAtEpoch == 0 {
		r.SubmittedAtEpoch = time.Now().UnixMilli()
	}
	if r.SubmittedAt == "" {
		r.SubmittedAt = time.Now().Format(time.RFC3339)
	}
	return nil
}

// Grouping stores one GroupingResult document per survey. The groups column
// holds the JSON array of {canonical_name, count, raw_answers} that external
// consumers parse. Version supports the optimistic-concurrency check on
// rename.
type Grouping struct {
	ID               int64                   `gorm:"primaryKey;autoIncrement"`
	SurveyID         string                  `gorm:"uniqueIndex;not null"`
	Groups           models.JSONAnswerGroups `gorm:"type:text;not null"`
	GeneratedAt      string                  `gorm:"not null"`
	GeneratedAtEpoch int64                   `gorm:"not null"`
	Version          int64                   `gorm:"default:1;not null"`
}

func (Grouping) TableName() string { return "groupings" }

// Job tracks one asynchronous clustering run.
type Job struct {
	ID             string           `gorm:"primaryKey;type:text"`
	SurveyID       string           `gorm:"index;not null"`
	Status         models.JobStatus `gorm:"type:text;check:status IN ('queued', 'running', 'completed', 'failed');default:'queued';index"`
	Error          string           `gorm:"type:text"`
	CreatedAt      string           `gorm:"not null"`
	CreatedAtEpoch int64            `gorm:"index:idx_jobs_created,sort:desc;not null"`
	CompletedAt    string
}

func (Job) TableName() string { return "jobs" }

// BeforeCreate hook to ensure timestamps are set.
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.CreatedAtEpoch == 0 {
		j.CreatedAtEpoch = time.Now().UnixMilli()
	}
	if j.CreatedAt == "" {
		j.CreatedAt = time.Now().Format(time.RFC3339)
	}
	if j.Status == "" {
		j.Status = models.JobQueued
	}
	return nil
}
