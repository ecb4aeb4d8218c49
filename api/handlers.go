package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

type envelope map[string]any

func (app *application) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		app.logger.WithError(err).Error("encoding response")
		app.writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

func (app *application) writeError(w http.ResponseWriter, err error, statusCode int) {
	body, marshalErr := json.Marshal(envelope{"error": err.Error()})
	if marshalErr != nil {
		app.logger.WithError(marshalErr).Error("encoding error response")
		body = []byte(`{"error":"internal server error"}`)
	}
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "application/json")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	w.Write(body)
}

func (app *application) writeFailedValidation(w http.ResponseWriter, v *validator) {
	app.writeJSON(w, http.StatusBadRequest, envelope{"error": v.errors})
}

func (app *application) writeServerError(w http.ResponseWriter, err error) {
	app.logger.WithError(err).Error("unexpected error")
	app.writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
}

func (app *application) readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// readQueryInt returns the named query parameter, or def when it is missing
// or not a positive integer.
func readQueryInt(qs url.Values, key string, def int) int {
	s := qs.Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, envelope{
		"status":      "ok",
		"environment": app.config.env,
		"version":     version,
	})
}
