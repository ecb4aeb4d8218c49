package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Batch endpoints mutate each entity with its own statement; a failure midway
// leaves earlier mutations in place, so callers should treat a non-2xx
// response as partial.

type todoListInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type todoListUpdateInput struct {
	ID          uuid.UUID `json:"id"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
}

func (app *application) createTodoListsBatchHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	var input struct {
		TodoLists []todoListInput `json:"todo_lists"`
	}
	if err := app.readJSON(r, &input); err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkCond(len(input.TodoLists) > 0, "todo_lists", "must be provided")
	for _, list := range input.TodoLists {
		v.checkTitle(list.Title)
	}
	if v.hasErrors() {
		app.writeFailedValidation(w, v)
		return
	}
	for _, list := range input.TodoLists {
		_, err := app.storage.insertTodoList(r.Context(), u.ID, list.Title, list.Description)
		if err != nil {
			app.writeServerError(w, err)
			return
		}
	}
	app.writeJSON(w, http.StatusCreated, envelope{
		"message": fmt.Sprintf("Successfully created %d todo lists", len(input.TodoLists)),
	})
}

func (app *application) updateTodoListsBatchHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	var input struct {
		TodoLists []todoListUpdateInput `json:"todo_lists"`
	}
	if err := app.readJSON(r, &input); err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkCond(len(input.TodoLists) > 0, "todo_lists", "must be provided")
	if v.hasErrors() {
		app.writeFailedValidation(w, v)
		return
	}
	for _, update := range input.TodoLists {
		list, err := app.storage.getTodoListByID(r.Context(), update.ID, u.ID)
		if err != nil {
			if errors.Is(err, errNotFound) {
				app.writeError(w, fmt.Errorf("todo list %s not found", update.ID), http.StatusNotFound)
				return
			}
			app.writeServerError(w, err)
			return
		}
		if update.Title != nil {
			list.Title = *update.Title
		}
		if update.Description != nil {
			list.Description = update.Description
		}
		if err := app.storage.updateTodoList(r.Context(), list); err != nil {
			if errors.Is(err, errNotFound) {
				app.writeError(w, fmt.Errorf("todo list %s not found", update.ID), http.StatusNotFound)
				return
			}
			app.writeServerError(w, err)
			return
		}
	}
	app.writeJSON(w, http.StatusOK, envelope{
		"message": fmt.Sprintf("Successfully updated %d todo lists", len(input.TodoLists)),
	})
}

func (app *application) deleteTodoListsBatchHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	var input struct {
		TodoIDs []uuid.UUID `json:"todo_ids"`
	}
	if err := app.readJSON(r, &input); err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkCond(len(input.TodoIDs) > 0, "todo_ids", "must be provided")
	if v.hasErrors() {
		app.writeFailedValidation(w, v)
		return
	}
	for _, id := range input.TodoIDs {
		err := app.storage.deleteTodoList(r.Context(), id, u.ID)
		if err != nil {
			if errors.Is(err, errNotFound) {
				app.writeError(w, fmt.Errorf("todo list %s not found", id), http.StatusNotFound)
				return
			}
			app.writeServerError(w, err)
			return
		}
	}
	app.writeJSON(w, http.StatusOK, envelope{
		"message": fmt.Sprintf("Successfully deleted %d todo lists", len(input.TodoIDs)),
	})
}

func (app *application) createTodoItemsBatchHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	listID, err := readIDParam(r, "id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	var input struct {
		Items []todoListInput `json:"items"`
	}
	if err := app.readJSON(r, &input); err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkCond(len(input.Items) > 0, "items", "must be provided")
	for _, item := range input.Items {
		v.checkTitle(item.Title)
	}
	if v.hasErrors() {
		app.writeFailedValidation(w, v)
		return
	}
	for _, item := range input.Items {
		_, err := app.storage.insertTodoItem(r.Context(), listID, u.ID, item.Title, item.Description)
		if err != nil {
			if errors.Is(err, errNotFound) {
				app.writeError(w, errors.New("Todo not found"), http.StatusNotFound)
				return
			}
			app.writeServerError(w, err)
			return
		}
	}
	app.writeJSON(w, http.StatusCreated, envelope{
		"message": fmt.Sprintf("Successfully added %d todo items", len(input.Items)),
	})
}

func (app *application) updateTodoItemsBatchHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	listID, err := readIDParam(r, "id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	var input struct {
		Items []struct {
			ID          uuid.UUID `json:"id"`
			Title       *string   `json:"title"`
			Description *string   `json:"description"`
			Completed   *bool     `json:"completed"`
		} `json:"items"`
	}
	if err := app.readJSON(r, &input); err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkCond(len(input.Items) > 0, "items", "must be provided")
	if v.hasErrors() {
		app.writeFailedValidation(w, v)
		return
	}
	for _, update := range input.Items {
		item, err := app.storage.getTodoItemByID(r.Context(), listID, update.ID, u.ID)
		if err != nil {
			if errors.Is(err, errNotFound) {
				app.writeError(w, fmt.Errorf("todo item %s not found", update.ID), http.StatusNotFound)
				return
			}
			app.writeServerError(w, err)
			return
		}
		if update.Title != nil {
			item.Title = *update.Title
		}
		if update.Description != nil {
			item.Description = update.Description
		}
		if update.Completed != nil {
			item.Completed = *update.Completed
		}
		if err := app.storage.updateTodoItem(r.Context(), u.ID, item); err != nil {
			if errors.Is(err, errNotFound) {
				app.writeError(w, fmt.Errorf("todo item %s not found", update.ID), http.StatusNotFound)
				return
			}
			app.writeServerError(w, err)
			return
		}
	}
	app.writeJSON(w, http.StatusOK, envelope{
		"message": fmt.Sprintf("Successfully updated %d todo items", len(input.Items)),
	})
}

func (app *application) deleteTodoItemsBatchHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	listID, err := readIDParam(r, "id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	var input struct {
		ItemIDs []uuid.UUID `json:"item_ids"`
	}
	if err := app.readJSON(r, &input); err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkCond(len(input.ItemIDs) > 0, "item_ids", "must be provided")
	if v.hasErrors() {
		app.writeFailedValidation(w, v)
		return
	}
	for _, itemID := range input.ItemIDs {
		err := app.storage.deleteTodoItem(r.Context(), listID, itemID, u.ID)
		if err != nil {
			if errors.Is(err, errNotFound) {
				app.writeError(w, fmt.Errorf("todo item %s not found", itemID), http.StatusNotFound)
				return
			}
			app.writeServerError(w, err)
			return
		}
	}
	app.writeJSON(w, http.StatusOK, envelope{
		"message": fmt.Sprintf("Successfully deleted %d todo items", len(input.ItemIDs)),
	})
}
