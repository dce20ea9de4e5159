package worker

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	dbgorm "github.com/thebtf/surveyor/internal/db/gorm"
	"github.com/thebtf/surveyor/pkg/models"
)

// Request body limits, matching what the submission form enforces.
const (
	minQuestionLength = 5
	maxQuestionLength = 500
	maxAnswerLength   = 500
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps domain sentinel errors to HTTP statuses. Anything
// unrecognized is a transient storage failure and reported as 500 so the
// caller knows the operation is retryable.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrSurveyNotFound),
		errors.Is(err, models.ErrGroupingNotFound),
		errors.Is(err, models.ErrGroupNotFound),
		errors.Is(err, models.ErrJobNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidName),
		errors.Is(err, models.ErrSurveyInactive),
		errors.Is(err, models.ErrParticipantLimit):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrConcurrentModification):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("Storage error")
		writeError(w, http.StatusInternalServerError, "storage error")
	}
}

// handleHealth reports service liveness.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"ready":   s.ready.Load(),
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
	})
}

type createSurveyRequest struct {
	QuestionText     string   `json:"question_text"`
	IsActive         bool     `json:"is_active"`
	ParticipantLimit int      `json:"participant_limit"`
	Tags             []string `json:"tags"`
}

func (s *Service) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req createSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question := strings.TrimSpace(req.QuestionText)
	if len(question) < minQuestionLength || len(question) > maxQuestionLength {
		writeError(w, http.StatusBadRequest, "question_text must be 5-500 characters")
		return
	}

	survey := models.NewSurvey(question, req.IsActive, req.ParticipantLimit, req.Tags)
	if err := s.surveyStore.Create(r.Context(), survey); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, survey)
}

func (s *Service) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	skip := parseIntParam(r, "skip", 0)
	limit := parseIntParam(r, "limit", s.config.ListLimit)

	surveys, err := s.surveyStore.List(r.Context(), skip, limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, surveys)
}

func (s *Service) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := s.surveyStore.Get(r.Context(), chi.URLParam(r, "surveyID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

type updateSurveyRequest struct {
	QuestionText     *string  `json:"question_text"`
	IsActive         *bool    `json:"is_active"`
	ParticipantLimit *int     `json:"participant_limit"`
	Tags             []string `json:"tags"`
}

func (s *Service) handleUpdateSurvey(w http.ResponseWriter, r *http.Request) {
	var req updateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.QuestionText != nil {
		trimmed := strings.TrimSpace(*req.QuestionText)
		if len(trimmed) < minQuestionLength || len(trimmed) > maxQuestionLength {
			writeError(w, http.StatusBadRequest, "question_text must be 5-500 characters")
			return
		}
		req.QuestionText = &trimmed
	}
	if req.ParticipantLimit != nil && *req.ParticipantLimit <= 0 {
		writeError(w, http.StatusBadRequest, "participant_limit must be positive")
		return
	}

	upd := dbgorm.SurveyUpdate{
		QuestionText:     req.QuestionText,
		IsActive:         req.IsActive,
		ParticipantLimit: req.ParticipantLimit,
		Tags:             req.Tags,
	}
	survey, err := s.surveyStore.Update(r.Context(), chi.URLParam(r, "surveyID"), upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

func (s *Service) handleDeleteSurvey(w http.ResponseWriter, r *http.Request) {
	if err := s.surveyStore.Delete(r.Context(), chi.URLParam(r, "surveyID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type submitResponseRequest struct {
	AnswerText string `json:"answer_text"`
}

// handleSubmitResponse validates the survey (exists, active, under its
// participant limit) before storing the answer.
func (s *Service) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	surveyID := chi.URLParam(r, "surveyID")

	var req submitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.AnswerText) == "" || len(req.AnswerText) > maxAnswerLength {
		writeError(w, http.StatusBadRequest, "answer_text must be 1-500 characters")
		return
	}

	survey, err := s.surveyStore.Get(r.Context(), surveyID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !survey.IsActive {
		writeStoreError(w, models.ErrSurveyInactive)
		return
	}

	count, err := s.responseStore.CountBySurvey(r.Context(), surveyID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if count >= int64(survey.ParticipantLimit) {
		writeStoreError(w, models.ErrParticipantLimit)
		return
	}

	answer, err := s.responseStore.Create(r.Context(), surveyID, req.AnswerText)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, answer)
}

func (s *Service) handleListResponses(w http.ResponseWriter, r *http.Request) {
	surveyID := chi.URLParam(r, "surveyID")

	if _, err := s.surveyStore.Get(r.Context(), surveyID); err != nil {
		writeStoreError(w, err)
		return
	}

	answers, err := s.responseStore.ListBySurvey(r.Context(), surveyID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answers)
}

// handleProcessSurvey enqueues a clustering run and returns the job handle
// immediately.
func (s *Service) handleProcessSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID := chi.URLParam(r, "surveyID")

	if _, err := s.surveyStore.Get(r.Context(), surveyID); err != nil {
		writeStoreError(w, err)
		return
	}

	job, err := s.processor.Enqueue(r.Context(), surveyID)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Service) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobStore.Get(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleGetGrouping returns the persisted grouping for a survey. A 404 with
// "grouping not found" means the survey has not been processed yet, which
// callers must treat as benign rather than as a failed run.
func (s *Service) handleGetGrouping(w http.ResponseWriter, r *http.Request) {
	result, err := s.groupingStore.Load(r.Context(), chi.URLParam(r, "surveyID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type renameGroupRequest struct {
	CurrentName string `json:"current_name"`
	NewName     string `json:"new_name"`
}

// handleRenameGroup applies an admin correction to a stored grouping:
// rename in place, or merge when the new name collides with another group.
// The save is guarded by a version check; on conflict the caller gets 409
// and should re-read and resubmit.
func (s *Service) handleRenameGroup(w http.ResponseWriter, r *http.Request) {
	surveyID := chi.URLParam(r, "surveyID")

	var req renameGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.groupingStore.Load(r.Context(), surveyID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	changed, err := result.Rename(req.CurrentName, req.NewName)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if changed {
		if err := s.groupingStore.SaveVersioned(r.Context(), result, result.Version); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// parseIntParam parses a non-negative integer query parameter with a
// default.
func parseIntParam(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return def
}
