package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchTodoLists(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "alice@example.com", "alice")

	status, body := ts.request(t, http.MethodPost, "/api/v1/todos-batch", token, envelope{
		"todo_lists": []envelope{
			{"title": "groceries"},
			{"title": "errands", "description": "around town"},
			{"title": "chores"},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var msg struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, "Successfully created 3 todo lists", msg.Message)

	status, body = ts.request(t, http.MethodGet, "/api/v1/todos", token, nil)
	require.Equal(t, http.StatusOK, status)
	var page pageResponse[listResponse]
	require.NoError(t, json.Unmarshal(body, &page))
	require.Equal(t, 3, page.Size)

	ids := []string{page.Data[0].ID.String(), page.Data[1].ID.String()}
	status, body = ts.request(t, http.MethodPut, "/api/v1/todos-batch", token, envelope{
		"todo_lists": []envelope{
			{"id": ids[0], "title": "groceries (updated)"},
			{"id": ids[1], "description": "postponed"},
		},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = ts.request(t, http.MethodGet, "/api/v1/todos/"+ids[0], token, nil)
	require.Equal(t, http.StatusOK, status)
	var updated listResponse
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "groceries (updated)", updated.Title)

	status, body = ts.request(t, http.MethodDelete, "/api/v1/todos-batch", token, envelope{
		"todo_ids": ids,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, "Successfully deleted 2 todo lists", msg.Message)

	status, body = ts.request(t, http.MethodGet, "/api/v1/todos", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 1, page.Size)
	assert.Equal(t, "chores", page.Data[0].Title)
}

func TestBatchTodoListsValidation(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "alice@example.com", "alice")

	status, _ := ts.request(t, http.MethodPost, "/api/v1/todos-batch", token, envelope{
		"todo_lists": []envelope{},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ts.request(t, http.MethodPost, "/api/v1/todos-batch", token, envelope{
		"todo_lists": []envelope{{"title": "ok"}, {"description": "untitled"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ts.request(t, http.MethodDelete, "/api/v1/todos-batch", token, envelope{
		"todo_ids": []string{uuid.NewString()},
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBatchTodoItems(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "alice@example.com", "alice")

	status, body := ts.request(t, http.MethodPost, "/api/v1/todos", token, envelope{"title": "groceries"})
	require.Equal(t, http.StatusCreated, status)
	var list listResponse
	require.NoError(t, json.Unmarshal(body, &list))
	base := "/api/v1/todos-batch/" + list.ID.String() + "/items"

	status, body = ts.request(t, http.MethodPost, base, token, envelope{
		"items": []envelope{{"title": "milk"}, {"title": "eggs"}, {"title": "bread"}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var msg struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, "Successfully added 3 todo items", msg.Message)

	status, body = ts.request(t, http.MethodGet, "/api/v1/todos/"+list.ID.String()+"/items", token, nil)
	require.Equal(t, http.StatusOK, status)
	var page pageResponse[itemResponse]
	require.NoError(t, json.Unmarshal(body, &page))
	require.Equal(t, 3, page.Size)

	status, body = ts.request(t, http.MethodPut, base, token, envelope{
		"items": []envelope{
			{"id": page.Data[0].ID.String(), "completed": true},
			{"id": page.Data[1].ID.String(), "completed": true},
		},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = ts.request(t, http.MethodDelete, base, token, envelope{
		"item_ids": []string{page.Data[2].ID.String()},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = ts.request(t, http.MethodGet, "/api/v1/todos/"+list.ID.String()+"/items", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &page))
	require.Equal(t, 2, page.Size)
	assert.True(t, page.Data[0].Completed)
	assert.True(t, page.Data[1].Completed)

	// creating items under an unknown list fails atomically at validation of ownership
	status, _ = ts.request(t, http.MethodPost, "/api/v1/todos-batch/"+uuid.NewString()+"/items", token, envelope{
		"items": []envelope{{"title": "milk"}},
	})
	assert.Equal(t, http.StatusNotFound, status)
}
