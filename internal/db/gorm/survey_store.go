package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/thebtf/surveyor/pkg/models"
)

// SurveyStore provides survey CRUD operations using GORM.
type SurveyStore struct {
	db *gorm.DB
}

// NewSurveyStore creates a new survey store.
func NewSurveyStore(store *Store) *SurveyStore {
	return &SurveyStore{db: store.DB}
}

// Create persists a new survey.
func (s *SurveyStore) Create(ctx context.Context, survey *models.Survey) error {
	row := &Survey{
		ID:               survey.ID,
		QuestionText:     survey.QuestionText,
		IsActive:         survey.IsActive,
		ParticipantLimit: survey.ParticipantLimit,
		Tags:             survey.Tags,
		CreatedAt:        survey.CreatedAt,
		UpdatedAt:        survey.UpdatedAt,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create survey: %w", err)
	}
	return nil
}

// Get retrieves a survey by ID. Returns models.ErrSurveyNotFound if the ID
// does not exist.
func (s *SurveyStore) Get(ctx context.Context, surveyID string) (*models.Survey, error) {
	var row Survey
	err := s.db.WithContext(ctx).First(&row, "id = ?", surveyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrSurveyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get survey: %w", err)
	}
	return toModelSurvey(&row), nil
}

// List retrieves surveys ordered by creation time, with pagination.
func (s *SurveyStore) List(ctx context.Context, skip, limit int) ([]*models.Survey, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []Survey
	err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}

	surveys := make([]*models.Survey, 0, len(rows))
	for i := range rows {
		surveys = append(surveys, toModelSurvey(&rows[i]))
	}
	return surveys, nil
}

// SurveyUpdate carries the optional fields of a survey update. Nil fields
// are left unchanged.
type SurveyUpdate struct {
	QuestionText     *string
	IsActive         *bool
	ParticipantLimit *int
	Tags             []string
}

// Update applies a partial update to a survey and returns the new state.
func (s *SurveyStore) Update(ctx context.Context, surveyID string, upd SurveyUpdate) (*models.Survey, error) {
	fields := map[string]interface{}{
		"updated_at": time.Now().Format(time.RFC3339),
	}
	if upd.QuestionText != nil {
		fields["question_text"] = *upd.QuestionText
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}
	if upd.ParticipantLimit != nil {
		fields["participant_limit"] = *upd.ParticipantLimit
	}
	if upd.Tags != nil {
		fields["tags"] = models.JSONStringArray(upd.Tags)
	}

	res := s.db.WithContext(ctx).
		Model(&Survey{}).
		Where("id = ?", surveyID).
		Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update survey: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrSurveyNotFound
	}
	return s.Get(ctx, surveyID)
}

// Delete removes a survey along with its responses, grouping, and jobs.
func (s *SurveyStore) Delete(ctx context.Context, surveyID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Survey{}, "id = ?", surveyID)
		if res.Error != nil {
			return fmt.Errorf("delete survey: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrSurveyNotFound
		}
		if err := tx.Delete(&Response{}, "survey_id = ?", surveyID).Error; err != nil {
			return fmt.Errorf("delete responses: %w", err)
		}
		if err := tx.Delete(&Grouping{}, "survey_id = ?", surveyID).Error; err != nil {
			return fmt.Errorf("delete grouping: %w", err)
		}
		if err := tx.Delete(&Job{}, "survey_id = ?", surveyID).Error; err != nil {
			return fmt.Errorf("delete jobs: %w", err)
		}
		return nil
	})
}

func toModelSurvey(row *Survey) *models.Survey {
	return &models.Survey{
		ID:               row.ID,
		QuestionText:     row.QuestionText,
		IsActive:         row.IsActive,
		ParticipantLimit: row.ParticipantLimit,
		Tags:             row.Tags,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
