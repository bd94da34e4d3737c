package ftk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ftk "github.com/AccessDataOps/FTK-API-SDK"
)

func TestJobState(t *testing.T) {
	t.Run("terminal classification", func(t *testing.T) {
		assert.False(t, ftk.JobSubmitted.Terminal())
		assert.False(t, ftk.JobInProgress.Terminal())
		assert.True(t, ftk.JobCancelled.Terminal())
		assert.True(t, ftk.JobFailed.Terminal())
		assert.True(t, ftk.JobCompleted.Terminal())
		assert.True(t, ftk.JobCompletedWithErrors.Terminal())
	})

	t.Run("finished aliases completed", func(t *testing.T) {
		assert.Equal(t, ftk.JobCompleted, ftk.JobFinished)
	})

	t.Run("string names", func(t *testing.T) {
		assert.Equal(t, "Submitted", ftk.JobSubmitted.String())
		assert.Equal(t, "CompletedWithErrors", ftk.JobCompletedWithErrors.String())
		assert.Equal(t, "Unknown", ftk.JobState(99).String())
	})
}

func TestJobService_Get(t *testing.T) {
	t.Run("refreshes on creation", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v2/enterpriseapi/core/5/getjobstatus/12", r.URL.Path)
			writeJSON(t, w, `{"state": "InProgress", "progress": 40}`)
		})

		job, err := client.Jobs.Get(context.Background(), 5, 12)
		require.NoError(t, err)

		assert.Equal(t, int64(5), job.CaseID)
		assert.Equal(t, int64(12), job.ID)
		assert.Equal(t, ftk.JobInProgress, job.State)
		assert.Equal(t, float64(40), job.Raw["progress"])
	})

	t.Run("state name variants", func(t *testing.T) {
		for name, want := range map[string]ftk.JobState{
			"Submitted":           ftk.JobSubmitted,
			"InProgress":          ftk.JobInProgress,
			"Cancelled":           ftk.JobCancelled,
			"Failed":              ftk.JobFailed,
			"Completed":           ftk.JobCompleted,
			"Finished":            ftk.JobCompleted,
			"CompletedWithErrors": ftk.JobCompletedWithErrors,
		} {
			client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				assert.NoError(t, json.NewEncoder(w).Encode(map[string]any{"state": name}))
			})

			job, err := client.Jobs.Get(context.Background(), 1, 1)
			require.NoError(t, err, name)
			assert.Equal(t, want, job.State, name)
		}
	})

	t.Run("unknown state name is an error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, `{"state": "Paused"}`)
		})

		_, err := client.Jobs.Get(context.Background(), 1, 1)
		require.Error(t, err)
		assert.ErrorContains(t, err, "Paused")
	})
}

func TestJobService_Refresh(t *testing.T) {
	t.Run("decodes string-encoded result data", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, `{"state": "Completed", "resultData": "{\"searchCount\": 5}"}`)
		})

		job, err := client.Jobs.Get(context.Background(), 1, 1)
		require.NoError(t, err)

		result, ok := job.ResultData.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(5), result["searchCount"])
	})

	t.Run("malformed result data is an error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, `{"state": "Completed", "resultData": "{not json"}`)
		})

		_, err := client.Jobs.Get(context.Background(), 1, 1)
		require.Error(t, err)
		assert.ErrorContains(t, err, "result data")
	})

	t.Run("overwrites previous state", func(t *testing.T) {
		calls := 0
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			state := "Submitted"
			if calls > 1 {
				state = "Completed"
			}
			writeJSON(t, w, `{"state": "`+state+`"}`)
		})

		ctx := context.Background()
		job, err := client.Jobs.Get(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, ftk.JobSubmitted, job.State)

		require.NoError(t, client.Jobs.Refresh(ctx, job))
		assert.Equal(t, ftk.JobCompleted, job.State)
	})
}

func TestJobService_Await(t *testing.T) {
	t.Run("polls until terminal", func(t *testing.T) {
		states := []string{"Submitted", "InProgress", "InProgress", "Completed"}
		calls := 0
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			state := states[min(calls, len(states)-1)]
			calls++
			writeJSON(t, w, `{"state": "`+state+`"}`)
		})

		ctx := context.Background()
		job, err := client.Jobs.Get(ctx, 1, 1)
		require.NoError(t, err)

		err = client.Jobs.Await(ctx, job, &ftk.AwaitOptions{Interval: time.Millisecond})
		require.NoError(t, err)
		assert.Equal(t, ftk.JobCompleted, job.State)
		assert.Equal(t, 4, calls)
	})

	t.Run("already terminal returns without polling", func(t *testing.T) {
		calls := 0
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			writeJSON(t, w, `{"state": "Failed"}`)
		})

		ctx := context.Background()
		job, err := client.Jobs.Get(ctx, 1, 1)
		require.NoError(t, err)
		require.NoError(t, client.Jobs.Await(ctx, job, nil))
		assert.Equal(t, 1, calls)
	})

	t.Run("max polls exhausted", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, `{"state": "InProgress"}`)
		})

		ctx := context.Background()
		job, err := client.Jobs.Get(ctx, 1, 1)
		require.NoError(t, err)

		err = client.Jobs.Await(ctx, job, &ftk.AwaitOptions{
			Interval: time.Millisecond,
			MaxPolls: 3,
		})
		require.Error(t, err)
		assert.Equal(t, ftk.JobInProgress, job.State)
	})

	t.Run("refresh failure aborts the wait", func(t *testing.T) {
		calls := 0
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls > 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"message": "boom"}`))
				return
			}
			writeJSON(t, w, `{"state": "Submitted"}`)
		})

		ctx := context.Background()
		job, err := client.Jobs.Get(ctx, 1, 1)
		require.NoError(t, err)

		err = client.Jobs.Await(ctx, job, &ftk.AwaitOptions{Interval: time.Millisecond})
		require.Error(t, err)

		var serverErr *ftk.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, 2, calls)
	})

	t.Run("context cancellation stops polling", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, `{"state": "InProgress"}`)
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		job, err := client.Jobs.Get(ctx, 1, 1)
		require.NoError(t, err)

		err = client.Jobs.Await(ctx, job, &ftk.AwaitOptions{Interval: 5 * time.Millisecond})
		require.Error(t, err)
	})
}
