package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/thebtf/surveyor/pkg/models"
)

// ResponseStore provides raw-answer database operations using GORM.
type ResponseStore struct {
	db *gorm.DB
}

// NewResponseStore creates a new response store.
func NewResponseStore(store *Store) *ResponseStore {
	return &ResponseStore{db: store.DB}
}

// Create stores a submitted answer and returns it with ID and timestamps
// filled in.
func (s *ResponseStore) Create(ctx context.Context, surveyID, answerText string) (*models.RawAnswer, error) {
	row := &Response{
		SurveyID:   surveyID,
		AnswerText: answerText,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("create response: %w", err)
	}
	return toModelAnswer(row), nil
}

// CountBySurvey counts responses submitted for a survey.
func (s *ResponseStore) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Response{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return count, nil
}

// ListBySurvey retrieves all raw answers for a survey in submission order.
// Submission order is what makes clustering runs reproducible.
func (s *ResponseStore) ListBySurvey(ctx context.Context, surveyID string) ([]models.RawAnswer, error) {
	var rows []Response
	err := s.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("submitted_at_epoch ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	answers := make([]models.RawAnswer, 0, len(rows))
	for i := range rows {
		answers = append(answers, *toModelAnswer(&rows[i]))
	}
	return answers, nil
}

func toModelAnswer(row *Response) *models.RawAnswer {
	return &models.RawAnswer{
		ID:               row.ID,
		SurveyID:         row.SurveyID,
		Text:             row.AnswerText,
		SubmittedAt:      row.SubmittedAt,
		SubmittedAtEpoch: row.SubmittedAtEpoch,
	}
}
