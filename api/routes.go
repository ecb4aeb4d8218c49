package main

import (
	"net/http"
)

func composeRoutes(app *application) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", app.healthCheckHandler)

	mux.HandleFunc("POST /api/v1/user/register", app.registerUserHandler)
	mux.HandleFunc("POST /api/v1/user/login", app.loginUserHandler)
	mux.HandleFunc("GET /api/v1/user/profile", app.requireAuth(app.getUserProfileHandler))

	mux.HandleFunc("POST /api/v1/todos", app.requireAuth(app.createTodoListHandler))
	mux.HandleFunc("GET /api/v1/todos", app.requireAuth(app.getTodoListsHandler))
	mux.HandleFunc("GET /api/v1/todos/{id}", app.requireAuth(app.getTodoListHandler))
	mux.HandleFunc("PUT /api/v1/todos/{id}", app.requireAuth(app.updateTodoListHandler))
	mux.HandleFunc("DELETE /api/v1/todos/{id}", app.requireAuth(app.deleteTodoListHandler))

	mux.HandleFunc("GET /api/v1/todos/{id}/items", app.requireAuth(app.getTodoItemsHandler))
	mux.HandleFunc("POST /api/v1/todos/{id}/items", app.requireAuth(app.createTodoItemHandler))
	mux.HandleFunc("PUT /api/v1/todos/{id}/items/{item_id}", app.requireAuth(app.updateTodoItemHandler))
	mux.HandleFunc("DELETE /api/v1/todos/{id}/items/{item_id}", app.requireAuth(app.deleteTodoItemHandler))

	mux.HandleFunc("POST /api/v1/todos-batch", app.requireAuth(app.createTodoListsBatchHandler))
	mux.HandleFunc("PUT /api/v1/todos-batch", app.requireAuth(app.updateTodoListsBatchHandler))
	mux.HandleFunc("DELETE /api/v1/todos-batch", app.requireAuth(app.deleteTodoListsBatchHandler))
	mux.HandleFunc("POST /api/v1/todos-batch/{id}/items", app.requireAuth(app.createTodoItemsBatchHandler))
	mux.HandleFunc("PUT /api/v1/todos-batch/{id}/items", app.requireAuth(app.updateTodoItemsBatchHandler))
	mux.HandleFunc("DELETE /api/v1/todos-batch/{id}/items", app.requireAuth(app.deleteTodoItemsBatchHandler))

	var handler http.Handler = mux
	if len(app.config.cors.trustedOrigins) > 0 {
		handler = app.enableCORS(handler)
	}
	if app.config.limiter.enabled {
		handler = app.rateLimit(handler)
	}
	return app.logRequests(handler)
}
