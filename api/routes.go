package api

import (
	"encoding/json"
	"net/http"

	"cinesage/handlers"

	"github.com/gorilla/mux"
)

// Register mounts API endpoints onto the provided router.
func Register(r *mux.Router, suggestHandler *handlers.SuggestHandler) {
	apiRouter := r.PathPrefix("/api").Subrouter()

	apiRouter.HandleFunc("/suggest", suggestHandler.Suggest).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/suggest/stream", suggestHandler.SuggestStream).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/", rootInfo).Methods(http.MethodGet)
}

func rootInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Welcome to cinesage",
		"status":  "active",
		"endpoints": map[string]string{
			"health":         "/health",
			"suggest":        "/api/suggest",
			"suggest_stream": "/api/suggest/stream",
		},
	})
}
