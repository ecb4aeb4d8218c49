package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const (
	defaultPage = 1
	defaultSize = 20
	maxPageSize = 100
)

type paginated[T any] struct {
	Data        []T `json:"data"`
	Size        int `json:"size"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

func paginate[T any](data []T, page, size, total int) paginated[T] {
	totalPages := 1
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	if totalPages < 1 {
		totalPages = 1
	}
	return paginated[T]{
		Data:        data,
		Size:        len(data),
		CurrentPage: page,
		TotalPages:  totalPages,
	}
}

// readPage returns page and size query parameters, clamped to sane bounds.
func readPage(r *http.Request) (page, size int) {
	qs := r.URL.Query()
	page = readQueryInt(qs, "page", defaultPage)
	size = readQueryInt(qs, "size", defaultSize)
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func readIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s parameter", name)
	}
	return id, nil
}

func (app *application) createTodoListHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	var input struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if err := app.readJSON(r, &input); err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkTitle(input.Title)
	if v.hasErrors() {
		app.writeFailedValidation(w, v)
		return
	}
	list, err := app.storage.insertTodoList(r.Context(), u.ID, input.Title, input.Description)
	if err != nil {
		app.writeServerError(w, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, list)
}

func (app *application) getTodoListsHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	page, size := readPage(r)

	lists, err := app.storage.getTodoLists(r.Context(), u.ID, (page-1)*size, size)
	if err != nil {
		app.writeServerError(w, err)
		return
	}
	total, err := app.storage.countTodoLists(r.Context(), u.ID)
	if err != nil {
		app.writeServerError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, paginate(lists, page, size, total))
}

func (app *application) getTodoListHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	id, err := readIDParam(r, "id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	list, err := app.storage.getTodoListByID(r.Context(), id, u.ID)
	if err != nil {
		if errors.Is(err, errNotFound) {
			app.writeError(w, errors.New("Todo not found"), http.StatusNotFound)
			return
		}
		app.writeServerError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, list)
}

func (app *application) updateTodoListHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	id, err := readIDParam(r, "id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := app.readJSON(r, &input); err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}

	list, err := app.storage.getTodoListByID(r.Context(), id, u.ID)
	if err != nil {
		if errors.Is(err, errNotFound) {
			app.writeError(w, errors.New("Todo not found"), http.StatusNotFound)
			return
		}
		app.writeServerError(w, err)
		return
	}

	if input.Title != nil {
		list.Title = *input.Title
	}
	if input.Description != nil {
		list.Description = input.Description
	}
	v := newValidator()
	v.checkTitle(list.Title)
	if v.hasErrors() {
		app.writeFailedValidation(w, v)
		return
	}

	err = app.storage.updateTodoList(r.Context(), list)
	if err != nil {
		if errors.Is(err, errNotFound) {
			app.writeError(w, errors.New("Todo not found"), http.StatusNotFound)
			return
		}
		app.writeServerError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, list)
}

func (app *application) deleteTodoListHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	id, err := readIDParam(r, "id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	err = app.storage.deleteTodoList(r.Context(), id, u.ID)
	if err != nil {
		if errors.Is(err, errNotFound) {
			app.writeError(w, errors.New("Todo not found"), http.StatusNotFound)
			return
		}
		app.writeServerError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": "Todo deleted successfully"})
}
