package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/thebtf/surveyor/pkg/models"
)

// JobStore tracks processing jobs using GORM.
type JobStore struct {
	db *gorm.DB
}

// NewJobStore creates a new job store.
func NewJobStore(store *Store) *JobStore {
	return &JobStore{db: store.DB}
}

// Create persists a new job.
func (s *JobStore) Create(ctx context.Context, job *models.Job) error {
	row := &Job{
		ID:             job.ID,
		SurveyID:       job.SurveyID,
		Status:         job.Status,
		CreatedAt:      job.CreatedAt,
		CreatedAtEpoch: job.CreatedAtEpoch,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// Get retrieves a job by ID. Returns models.ErrJobNotFound if missing.
func (s *JobStore) Get(ctx context.Context, jobID string) (*models.Job, error) {
	var row Job
	err := s.db.WithContext(ctx).First(&row, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return toModelJob(&row), nil
}

// MarkRunning transitions a job to running.
func (s *JobStore) MarkRunning(ctx context.Context, jobID string) error {
	return s.setStatus(ctx, jobID, models.JobRunning, "")
}

// MarkCompleted transitions a job to completed.
func (s *JobStore) MarkCompleted(ctx context.Context, jobID string) error {
	return s.setStatus(ctx, jobID, models.JobCompleted, "")
}

// MarkFailed transitions a job to failed with the given error message.
func (s *JobStore) MarkFailed(ctx context.Context, jobID string, jobErr error) error {
	msg := ""
	if jobErr != nil {
		msg = jobErr.Error()
	}
	return s.setStatus(ctx, jobID, models.JobFailed, msg)
}

func (s *JobStore) setStatus(ctx context.Context, jobID string, status models.JobStatus, errMsg string) error {
	fields := map[string]interface{}{
		"status": status,
		"error":  errMsg,
	}
	if status == models.JobCompleted || status == models.JobFailed {
		fields["completed_at"] = time.Now().Format(time.RFC3339)
	}

	res := s.db.WithContext(ctx).
		Model(&Job{}).
		Where("id = ?", jobID).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrJobNotFound
	}
	return nil
}

func toModelJob(row *Job) *models.Job {
	return &models.Job{
		ID:             row.ID,
		SurveyID:       row.SurveyID,
		Status:         row.Status,
		Error:          row.Error,
		CreatedAt:      row.CreatedAt,
		CreatedAtEpoch: row.CreatedAtEpoch,
		CompletedAt:    row.CompletedAt,
	}
}
