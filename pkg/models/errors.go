package models

import "errors"

// Sentinel errors shared between stores, the worker service, and handlers.
// Not-found conditions are normal states and must stay distinguishable from
// transient storage failures, which are returned wrapped instead.
var (
	// ErrSurveyNotFound is returned when a survey ID does not exist.
	ErrSurveyNotFound = errors.New("survey not found")

	// ErrSurveyInactive is returned when submitting to a survey that is not
	// accepting responses.
	ErrSurveyInactive = errors.New("survey is not active")

	// ErrParticipantLimit is returned when a survey has reached its
	// participant limit.
	ErrParticipantLimit = errors.New("participant limit reached")

	// ErrGroupingNotFound is returned when a survey has not been processed
	// yet. This is a benign state, not a failure.
	ErrGroupingNotFound = errors.New("grouping not found")

	// ErrGroupNotFound is returned by rename when the current canonical name
	// does not exist in the stored grouping.
	ErrGroupNotFound = errors.New("group not found")

	// ErrInvalidName is returned by rename when the new canonical name is
	// empty after trimming.
	ErrInvalidName = errors.New("invalid canonical name")

	// ErrConcurrentModification is returned when an optimistic-lock check
	// fails during a grouping update. Callers should re-read and resubmit.
	ErrConcurrentModification = errors.New("grouping modified concurrently")

	// ErrJobNotFound is returned when a processing job ID does not exist.
	ErrJobNotFound = errors.New("job not found")
)
