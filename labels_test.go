package ftk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ftk "github.com/AccessDataOps/FTK-API-SDK"
)

func TestLabelService_List(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v2/enterpriseapi/core/7/getlabellist", r.URL.Path)
		writeJSON(t, w, `[
			{"id": 1, "name": "Reviewed"},
			{"id": 2, "name": "Privileged", "description": "attorney-client"}
		]`)
	})

	labels, err := client.Labels.List(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, labels, 2)
	assert.Equal(t, int64(1), labels[0].ID)
	assert.Equal(t, "Privileged", labels[1].Name)
	assert.Equal(t, "attorney-client", labels[1].Description)
}

func TestLabelService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v2/enterpriseapi/core/7/createlabel", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Hot Documents", body["name"])

			writeJSON(t, w, `{"id": 15, "name": "Hot Documents"}`)
		})

		label, err := client.Labels.Create(context.Background(), 7, &ftk.Label{Name: "Hot Documents"})
		require.NoError(t, err)
		assert.Equal(t, int64(15), label.ID)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})

		_, err := client.Labels.Create(context.Background(), 7, &ftk.Label{})
		require.Error(t, err)

		var validationErr *ftk.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestLabelService_Apply(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v2/enterpriseapi/jobs/7/labelobjects":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			opts, ok := body["folderAssignmentOptions"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, []any{float64(15)}, opts["folderIDsForAssign"])

			filter, ok := body["filter"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "FileName", filter["staticAttributeName"])

			_, _ = w.Write([]byte("88"))
		case "/api/v2/enterpriseapi/core/7/getjobstatus/88":
			_, _ = w.Write([]byte(`{"state": "Submitted"}`))
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	})

	filter := ftk.NewStringFilter("FileName", ftk.StringContains, "draft")
	job, err := client.Labels.Apply(context.Background(), 7, 15, filter)
	require.NoError(t, err)

	assert.Equal(t, int64(88), job.ID)
	assert.Equal(t, ftk.JobSubmitted, job.State)
}

func TestLabelService_ObjectIDs(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/enterpriseapi/core/cases/7/label/15/evidenceobjects", r.URL.Path)
		writeJSON(t, w, `[101, 102, 103]`)
	})

	ids, err := client.Labels.ObjectIDs(context.Background(), 7, 15)
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 102, 103}, ids)
}
