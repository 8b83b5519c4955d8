package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/handoff/store"
)

// GetAllSites lists site records, optionally scoped to one handoff via the
// handoffId query parameter.
func GetAllSites(w http.ResponseWriter, r *http.Request) {
	sites, err := Records.ListSites(r.Context(), r.URL.Query().Get("handoffId"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sites)
}

func GetSite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	site, err := Records.GetSite(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "site not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(site)
}
