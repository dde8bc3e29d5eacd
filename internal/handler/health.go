package handler

import (
	"net/http"
)

// HandleHealth responds with a 200 OK and a JSON body indicating the server is healthy.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// AppInfo identifies the running service on the root route.
type AppInfo struct {
	Name    string
	Version string
}

// HandleRoot returns the service name and version.
func HandleRoot(info AppInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": info.Name,
			"version": info.Version,
		})
	}
}
