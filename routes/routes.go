package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/handoff/handlers"
	"p9e.in/handoff/middleware"
)

// RegisterRoutes builds the full router: public auth and template routes,
// then the JWT-protected intake API.
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Public routes (no authentication required)
	r.HandleFunc("/api/v1/register", handlers.Register).Methods("POST")
	r.HandleFunc("/api/v1/login", handlers.Login).Methods("POST")
	r.HandleFunc("/api/v1/handoffs/template", handlers.SitesTemplate).Methods("GET")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// Protected API routes (require authentication)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", handlers.Profile).Methods("GET")

	// Intake form operations
	api.HandleFunc("/handoffs/import-sites", handlers.ImportSites).Methods("POST")
	api.HandleFunc("/handoffs/validate", handlers.ValidateDraft).Methods("POST")
	api.HandleFunc("/handoffs", handlers.SubmitHandoff).Methods("POST")

	// Handoff listing and detail
	api.HandleFunc("/handoffs", handlers.GetAllHandoffs).Methods("GET")
	api.HandleFunc("/handoffs/{id}", handlers.GetHandoff).Methods("GET")
	api.HandleFunc("/handoffs/{id}", handlers.UpdateHandoff).Methods("PATCH")
	api.HandleFunc("/handoffs/{id}", handlers.DeleteHandoff).Methods("DELETE")

	// Sites and clients created by submissions
	api.HandleFunc("/sites", handlers.GetAllSites).Methods("GET")
	api.HandleFunc("/sites/{id}", handlers.GetSite).Methods("GET")
	api.HandleFunc("/clients", handlers.GetAllClients).Methods("GET")
	api.HandleFunc("/clients/{id}", handlers.GetClient).Methods("GET")

	return r
}
