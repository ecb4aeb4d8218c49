package main

import (
	"errors"
	"net/http"
)

func (app *application) getTodoItemsHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	listID, err := readIDParam(r, "id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	page, size := readPage(r)

	total, err := app.storage.countTodoItems(r.Context(), listID, u.ID)
	if err != nil {
		if errors.Is(err, errNotFound) {
			app.writeError(w, errors.New("Todo not found"), http.StatusNotFound)
			return
		}
		app.writeServerError(w, err)
		return
	}
	items, err := app.storage.getTodoItems(r.Context(), listID, u.ID, (page-1)*size, size)
	if err != nil {
		app.writeServerError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, paginate(items, page, size, total))
}

func (app *application) createTodoItemHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	listID, err := readIDParam(r, "id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
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
	item, err := app.storage.insertTodoItem(r.Context(), listID, u.ID, input.Title, input.Description)
	if err != nil {
		if errors.Is(err, errNotFound) {
			app.writeError(w, errors.New("Todo not found"), http.StatusNotFound)
			return
		}
		app.writeServerError(w, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, item)
}

func (app *application) updateTodoItemHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	listID, err := readIDParam(r, "id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	itemID, err := readIDParam(r, "item_id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}
	if err := app.readJSON(r, &input); err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}

	item, err := app.storage.getTodoItemByID(r.Context(), listID, itemID, u.ID)
	if err != nil {
		if errors.Is(err, errNotFound) {
			app.writeError(w, errors.New("Todo or item not found"), http.StatusNotFound)
			return
		}
		app.writeServerError(w, err)
		return
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Completed != nil {
		item.Completed = *input.Completed
	}
	v := newValidator()
	v.checkTitle(item.Title)
	if v.hasErrors() {
		app.writeFailedValidation(w, v)
		return
	}

	err = app.storage.updateTodoItem(r.Context(), u.ID, item)
	if err != nil {
		if errors.Is(err, errNotFound) {
			app.writeError(w, errors.New("Todo or item not found"), http.StatusNotFound)
			return
		}
		app.writeServerError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, item)
}

func (app *application) deleteTodoItemHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	listID, err := readIDParam(r, "id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	itemID, err := readIDParam(r, "item_id")
	if err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	err = app.storage.deleteTodoItem(r.Context(), listID, itemID, u.ID)
	if err != nil {
		if errors.Is(err, errNotFound) {
			app.writeError(w, errors.New("Todo or item not found"), http.StatusNotFound)
			return
		}
		app.writeServerError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": "Todo item deleted successfully"})
}
