//go:build e2e

package test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotesCRUDE2E(t *testing.T) {
	env := SetupTestEnvironment(t)
	token := loginFor(t, env.Client, env.BaseURL, "Ann Writer", "ann@example.com")

	var noteID string
	t.Run("create", func(t *testing.T) {
		resp := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:   "create note",
			Method: "POST",
			URL:    notesEndpoint,
			Body: map[string]any{
				"title":   "Meeting notes",
				"content": "Quarterly targets",
				"tags":    []string{"work", "planning"},
			},
			Headers:        bearer(token),
			ExpectedStatus: http.StatusCreated,
		}, env.BaseURL)

		note, ok := resp["note"].(map[string]any)
		require.True(t, ok, "note should be present")
		noteID = note["id"].(string)
		require.NotEmpty(t, noteID)
		assert.Equal(t, "Meeting notes", note["title"])
	})

	t.Run("markup is stripped on write", func(t *testing.T) {
		resp := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:   "create note with markup",
			Method: "POST",
			URL:    notesEndpoint,
			Body: map[string]any{
				"title":   "<script>alert(1)</script>Safe title",
				"content": "plain",
			},
			Headers:        bearer(token),
			ExpectedStatus: http.StatusCreated,
		}, env.BaseURL)

		note := resp["note"].(map[string]any)
		assert.Equal(t, "Safe title", note["title"])
	})

	t.Run("list with tag filter and pagination", func(t *testing.T) {
		resp := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "list work notes",
			Method:         "GET",
			URL:            notesEndpoint + "?tag=work&page=1&limit=5",
			Headers:        bearer(token),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)

		notes, ok := resp["notes"].([]any)
		require.True(t, ok)
		require.Len(t, notes, 1)

		pg := resp["pagination"].(map[string]any)
		assert.Equal(t, float64(1), pg["page"])
		assert.Equal(t, float64(5), pg["limit"])
		assert.Equal(t, float64(1), pg["total"])
		assert.Equal(t, float64(1), pg["pages"])
	})

	t.Run("update", func(t *testing.T) {
		resp := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "rename note",
			Method:         "PUT",
			URL:            notesEndpoint + "/" + noteID,
			Body:           map[string]any{"title": "Renamed"},
			Headers:        bearer(token),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)

		note := resp["note"].(map[string]any)
		assert.Equal(t, "Renamed", note["title"])
		assert.Equal(t, "Quarterly targets", note["content"], "content should be untouched")
	})

	t.Run("owner isolation", func(t *testing.T) {
		otherToken := loginFor(t, env.Client, env.BaseURL, "Eve Other", "eve@example.com")

		ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "foreign note reads as 404",
			Method:         "GET",
			URL:            notesEndpoint + "/" + noteID,
			Headers:        bearer(otherToken),
			ExpectedStatus: http.StatusNotFound,
		}, env.BaseURL)

		ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "foreign delete reads as 404",
			Method:         "DELETE",
			URL:            notesEndpoint + "/" + noteID,
			Headers:        bearer(otherToken),
			ExpectedStatus: http.StatusNotFound,
		}, env.BaseURL)
	})

	t.Run("delete", func(t *testing.T) {
		resp, err := httpJSON("DELETE", env.BaseURL+notesEndpoint+"/"+noteID, nil, bearer(token))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "deleted note is gone",
			Method:         "GET",
			URL:            notesEndpoint + "/" + noteID,
			Headers:        bearer(token),
			ExpectedStatus: http.StatusNotFound,
		}, env.BaseURL)
	})
}

func TestNotesPaginationE2E(t *testing.T) {
	env := SetupTestEnvironment(t)
	token := loginFor(t, env.Client, env.BaseURL, "Paging Pat", "pat@example.com")

	const total = 12
	for i := 0; i < total; i++ {
		ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           fmt.Sprintf("seed note %d", i),
			Method:         "POST",
			URL:            notesEndpoint,
			Body:           map[string]any{"title": fmt.Sprintf("Note %d", i), "content": "body"},
			Headers:        bearer(token),
			ExpectedStatus: http.StatusCreated,
		}, env.BaseURL)
	}

	t.Run("default page size", func(t *testing.T) {
		resp := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "first page",
			Method:         "GET",
			URL:            notesEndpoint,
			Headers:        bearer(token),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)

		notes := resp["notes"].([]any)
		assert.Len(t, notes, 10)

		pg := resp["pagination"].(map[string]any)
		assert.Equal(t, float64(total), pg["total"])
		assert.Equal(t, float64(2), pg["pages"])
	})

	t.Run("last page holds the remainder", func(t *testing.T) {
		resp := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "second page",
			Method:         "GET",
			URL:            notesEndpoint + "?page=2",
			Headers:        bearer(token),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)

		notes := resp["notes"].([]any)
		assert.Len(t, notes, 2)
	})

	t.Run("out of range page is empty with intact metadata", func(t *testing.T) {
		resp := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "page far past the end",
			Method:         "GET",
			URL:            notesEndpoint + "?page=50",
			Headers:        bearer(token),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)

		notes := resp["notes"].([]any)
		assert.Empty(t, notes)

		pg := resp["pagination"].(map[string]any)
		assert.Equal(t, float64(total), pg["total"])
		assert.Equal(t, float64(2), pg["pages"])
	})
}

func TestTasksFlowE2E(t *testing.T) {
	env := SetupTestEnvironment(t)
	ownerToken := loginFor(t, env.Client, env.BaseURL, "Olive Owner", "olive@example.com")

	var taskID string
	t.Run("create and complete", func(t *testing.T) {
		resp := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:   "create task",
			Method: "POST",
			URL:    tasksEndpoint,
			Body: map[string]any{
				"title":    "Ship the report",
				"due_date": "2026-12-01T12:00:00Z",
			},
			Headers:        bearer(ownerToken),
			ExpectedStatus: http.StatusCreated,
		}, env.BaseURL)

		task := resp["task"].(map[string]any)
		taskID = task["id"].(string)
		require.NotEmpty(t, taskID)
		assert.Equal(t, false, task["completed"])

		done := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "complete task",
			Method:         "PATCH",
			URL:            tasksEndpoint + "/" + taskID + "/complete",
			Headers:        bearer(ownerToken),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)

		assert.Equal(t, true, done["task"].(map[string]any)["completed"])

		// completing twice is idempotent
		ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "complete again",
			Method:         "PATCH",
			URL:            tasksEndpoint + "/" + taskID + "/complete",
			Headers:        bearer(ownerToken),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)
	})

	t.Run("completed filter", func(t *testing.T) {
		resp := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "list open tasks",
			Method:         "GET",
			URL:            tasksEndpoint + "?completed=false",
			Headers:        bearer(ownerToken),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)

		assert.Empty(t, resp["tasks"].([]any))
	})

	t.Run("unknown assignee is rejected", func(t *testing.T) {
		ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:   "assign to a ghost",
			Method: "POST",
			URL:    tasksEndpoint,
			Body: map[string]any{
				"title":       "Orphan work",
				"assignee_id": "683cdb8aa96ad71e8e075bd2",
			},
			Headers:        bearer(ownerToken),
			ExpectedStatus: http.StatusNotFound,
		}, env.BaseURL)
	})

	t.Run("clearing the due date with explicit null", func(t *testing.T) {
		resp := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "null out due date",
			Method:         "PUT",
			URL:            tasksEndpoint + "/" + taskID,
			Body:           map[string]any{"due_date": nil},
			Headers:        bearer(ownerToken),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)

		task := resp["task"].(map[string]any)
		_, hasDueDate := task["due_date"]
		assert.False(t, hasDueDate, "due date should be cleared")
	})

	t.Run("assignee visibility", func(t *testing.T) {
		assigneeToken := loginFor(t, env.Client, env.BaseURL, "Andy Assignee", "andy@example.com")

		// Look up the assignee id via a task the assignee owns
		probe := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "probe assignee id",
			Method:         "POST",
			URL:            tasksEndpoint,
			Body:           map[string]any{"title": "probe"},
			Headers:        bearer(assigneeToken),
			ExpectedStatus: http.StatusCreated,
		}, env.BaseURL)
		assigneeID := probe["task"].(map[string]any)["owner_id"].(string)

		created := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:   "assign task",
			Method: "POST",
			URL:    tasksEndpoint,
			Body: map[string]any{
				"title":       "Shared work",
				"assignee_id": assigneeID,
			},
			Headers:        bearer(ownerToken),
			ExpectedStatus: http.StatusCreated,
		}, env.BaseURL)
		sharedID := created["task"].(map[string]any)["id"].(string)

		// assignee can read and complete, but not delete
		ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "assignee reads task",
			Method:         "GET",
			URL:            tasksEndpoint + "/" + sharedID,
			Headers:        bearer(assigneeToken),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)

		ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "assignee completes task",
			Method:         "PATCH",
			URL:            tasksEndpoint + "/" + sharedID + "/complete",
			Headers:        bearer(assigneeToken),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)

		ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "assignee cannot delete",
			Method:         "DELETE",
			URL:            tasksEndpoint + "/" + sharedID,
			Headers:        bearer(assigneeToken),
			ExpectedStatus: http.StatusNotFound,
		}, env.BaseURL)
	})
}
