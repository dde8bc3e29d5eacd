package handler

import (
	"net/http"

	"github.com/msomdec/todo-api/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. metrics may be
// nil, in which case /metrics is not served and auth events are not counted.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, todos *service.TodoService, metrics *Metrics, info AppInfo) {
	authH := NewAuthHandler(auth, metrics)
	todoH := NewTodoHandler(todos)

	mux.HandleFunc("GET /{$}", HandleRoot(info))
	mux.HandleFunc("GET /health", HandleHealth)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	mux.HandleFunc("POST /auth/register", authH.HandleRegister)
	mux.HandleFunc("POST /auth/login", authH.HandleLogin)
	mux.HandleFunc("POST /auth/refresh", authH.HandleRefresh)
	mux.HandleFunc("POST /auth/logout", authH.HandleLogout)
	mux.Handle("GET /auth/me", RequireAuth(auth, http.HandlerFunc(authH.HandleMe)))

	mux.Handle("GET /todos", RequireAuth(auth, http.HandlerFunc(todoH.HandleList)))
	mux.Handle("POST /todos", RequireAuth(auth, http.HandlerFunc(todoH.HandleCreate)))
	mux.Handle("PUT /todos/{id}", RequireAuth(auth, http.HandlerFunc(todoH.HandleUpdate)))
	mux.Handle("DELETE /todos/{id}", RequireAuth(auth, http.HandlerFunc(todoH.HandleDelete)))
}

// Wrap applies the global middleware chain around the routed mux.
func Wrap(mux http.Handler, allowedOrigins []string, metrics *Metrics) http.Handler {
	h := mux
	if metrics != nil {
		h = metrics.Instrument(h)
	}
	return SecurityHeaders(CORS(allowedOrigins, h))
}
