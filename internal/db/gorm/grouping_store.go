package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/thebtf/surveyor/pkg/models"
)

// GroupingStore persists one GroupingResult document per survey.
//
// Save replaces the stored result in full inside a transaction, so readers
// never observe a partially-written grouping. Updates from rename operations
// go through SaveVersioned, which performs a compare-and-swap on the version
// column so two concurrent corrections cannot silently clobber each other.
type GroupingStore struct {
	db *gorm.DB
}

// NewGroupingStore creates a new grouping store.
func NewGroupingStore(store *Store) *GroupingStore {
	return &GroupingStore{db: store.DB}
}

// Save replaces any stored grouping for result.SurveyID with result.
// The stored version is bumped past whatever was there before; the new
// version is written back into result.
func (s *GroupingStore) Save(ctx context.Context, result *models.GroupingResult) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Grouping
		err := tx.Where("survey_id = ?", result.SurveyID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load existing grouping: %w", err)
		}

		version := int64(1)
		if err == nil {
			version = existing.Version + 1
			if delErr := tx.Delete(&Grouping{}, "survey_id = ?", result.SurveyID).Error; delErr != nil {
				return fmt.Errorf("replace grouping: %w", delErr)
			}
		}

		row := &Grouping{
			SurveyID:         result.SurveyID,
			Groups:           models.JSONAnswerGroups(result.Groups),
			GeneratedAt:      result.GeneratedAt,
			GeneratedAtEpoch: result.GeneratedAtEpoch,
			Version:          version,
		}
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("save grouping: %w", err)
		}
		result.Version = version
		return nil
	})
}

// Load retrieves the stored grouping for a survey. Returns
// models.ErrGroupingNotFound when the survey has not been processed yet;
// any other error is a storage failure.
func (s *GroupingStore) Load(ctx context.Context, surveyID string) (*models.GroupingResult, error) {
	var row Grouping
	err := s.db.WithContext(ctx).Where("survey_id = ?", surveyID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrGroupingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load grouping: %w", err)
	}
	return toModelGrouping(&row), nil
}

// SaveVersioned writes an updated grouping only if the stored version still
// equals expectedVersion. Returns models.ErrConcurrentModification when the
// grouping changed underneath the caller, and models.ErrGroupingNotFound
// when no grouping exists for the survey.
func (s *GroupingStore) SaveVersioned(ctx context.Context, result *models.GroupingResult, expectedVersion int64) error {
	res := s.db.WithContext(ctx).
		Model(&Grouping{}).
		Where("survey_id = ? AND version = ?", result.SurveyID, expectedVersion).
		Updates(map[string]interface{}{
			"groups":  models.JSONAnswerGroups(result.Groups),
			"version": expectedVersion + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("update grouping: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).
			Model(&Grouping{}).
			Where("survey_id = ?", result.SurveyID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check grouping: %w", err)
		}
		if count == 0 {
			return models.ErrGroupingNotFound
		}
		return models.ErrConcurrentModification
	}
	result.Version = expectedVersion + 1
	return nil
}

func toModelGrouping(row *Grouping) *models.GroupingResult {
	return &models.GroupingResult{
		SurveyID:         row.SurveyID,
		Groups:           []models.AnswerGroup(row.Groups),
		GeneratedAt:      row.GeneratedAt,
		GeneratedAtEpoch: row.GeneratedAtEpoch,
		Version:          row.Version,
	}
}
