package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/surveyor/pkg/models"
)

func TestProcessorEnqueue(t *testing.T) {
	svc, cleanup := testService(t)
	defer cleanup()

	survey := createTestSurvey(t, svc, "Favorite food question?", true)

	job, err := svc.processor.Enqueue(context.Background(), survey.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobQueued, job.Status)

	stored, err := svc.jobStore.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobQueued, stored.Status)
}

func TestProcessorEnqueue_QueueFull(t *testing.T) {
	svc, cleanup := testService(t)
	defer cleanup()

	survey := createTestSurvey(t, svc, "Favorite food question?", true)

	// Fill the queue without any workers draining it
	for i := 0; i < queueSize; i++ {
		_, err := svc.processor.Enqueue(context.Background(), survey.ID)
		require.NoError(t, err)
	}

	job, err := svc.processor.Enqueue(context.Background(), survey.ID)
	assert.Error(t, err)
	assert.Nil(t, job)
}

func TestProcessorRun_CompletesJob(t *testing.T) {
	svc, cleanup := testService(t)
	defer cleanup()

	survey := createTestSurvey(t, svc, "Favorite food question?", true)
	submitAnswer(t, svc, survey.ID, "pizza")
	submitAnswer(t, svc, survey.ID, "Pizza!")

	job, err := svc.processor.Enqueue(context.Background(), survey.ID)
	require.NoError(t, err)
	drainOneJob(t, svc)

	stored, err := svc.jobStore.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, stored.Status)
	assert.NotEmpty(t, stored.CompletedAt)

	result, err := svc.groupingStore.Load(context.Background(), survey.ID)
	require.NoError(t, err)
	assert.Len(t, result.Groups, 1)
	assert.Equal(t, 2, result.Groups[0].Count)
}

func TestProcessorStart_RunsQueuedJobs(t *testing.T) {
	svc, cleanup := testService(t)
	defer cleanup()

	survey := createTestSurvey(t, svc, "Favorite food question?", true)
	submitAnswer(t, svc, survey.ID, "pizza")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.processor.Start(ctx)
	}()

	job, err := svc.processor.Enqueue(context.Background(), survey.ID)
	require.NoError(t, err)

	// Poll for completion
	deadline := time.Now().Add(5 * time.Second)
	for {
		stored, err := svc.jobStore.Get(context.Background(), job.ID)
		require.NoError(t, err)
		if stored.Status == models.JobCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete, status %s", stored.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	err = <-done
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSurveyLocks_SerializeSameSurvey(t *testing.T) {
	locks := surveyLocks{locks: make(map[string]*sync.Mutex)}

	unlock := locks.acquire("survey-1")

	acquired := make(chan struct{})
	go func() {
		u := locks.acquire("survey-1")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should block while lock is held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire should proceed after unlock")
	}
}

func TestSurveyLocks_IndependentSurveys(t *testing.T) {
	locks := surveyLocks{locks: make(map[string]*sync.Mutex)}

	unlock1 := locks.acquire("survey-1")
	defer unlock1()

	acquired := make(chan struct{})
	go func() {
		u := locks.acquire("survey-2")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("different surveys must not block each other")
	}
}
