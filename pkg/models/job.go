package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a processing job.
type JobStatus string

// Job statuses.
const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job tracks one asynchronous clustering run for a survey. The trigger
// request returns the job ID immediately; callers poll the job (or the
// grouping itself) for completion.
type Job struct {
	ID             string    `db:"id" json:"id"`
	SurveyID       string    `db:"survey_id" json:"survey_id"`
	Status         JobStatus `db:"status" json:"status"`
	Error          string    `db:"error" json:"error,omitempty"`
	CreatedAt      string    `db:"created_at" json:"created_at"`
	CreatedAtEpoch int64     `db:"created_at_epoch" json:"created_at_epoch"`
	CompletedAt    string    `db:"completed_at" json:"completed_at,omitempty"`
}

// NewJob creates a queued job for the given survey.
func NewJob(surveyID string) *Job {
	now := time.Now()
	return &Job{
		ID:             uuid.NewString(),
		SurveyID:       surveyID,
		Status:         JobQueued,
		CreatedAt:      now.Format(time.RFC3339),
		CreatedAtEpoch: now.UnixMilli(),
	}
}
