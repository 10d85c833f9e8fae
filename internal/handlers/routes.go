package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(r *chi.Mux, runners *RunnerHandler, bibs *BibHandler, races *RaceHandler, registrations *RegistrationHandler) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Chrono API", "1.0.0")
	api := humachi.New(r, config)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Runners
	huma.Get(api, "/api/coureurs", runners.HandleList)
	huma.Post(api, "/api/coureurs", runners.HandleCreate)
	huma.Put(api, "/api/coureurs/{id}", runners.HandleUpdate)
	huma.Get(api, "/api/coureurs/{id}/courses", runners.HandleRaces)

	// Bibs
	huma.Get(api, "/api/dossards", bibs.HandleList)
	huma.Post(api, "/api/dossards", bibs.HandleCreate)
	huma.Get(api, "/api/dossards/disponibles", bibs.HandleListAvailable)
	huma.Get(api, "/api/dossards/premier-disponible", bibs.HandleFirstAvailable)
	huma.Post(api, "/api/dossards/attribuer", bibs.HandleAssign)
	huma.Post(api, "/api/dossards/attribuer-auto", bibs.HandleAutoAssign)
	huma.Post(api, "/api/dossards/liberer/{id}", bibs.HandleRelease)
	huma.Get(api, "/api/dossards/par-uid/{uid}", bibs.HandleGetByUID)
	huma.Post(api, "/api/dossards/disponibilite/{id}", bibs.HandleSetAvailability)
	huma.Get(api, "/api/dossards/disponibilite/{id}", bibs.HandleGetAvailability)
	huma.Get(api, "/api/dossards/{id}", bibs.HandleGet)
	huma.Put(api, "/api/dossards/{id}", bibs.HandleUpdate)
	huma.Post(api, "/api/assign-dossard", bibs.HandleAssignToRunner)

	// Races
	huma.Get(api, "/api/courses", races.HandleList)
	huma.Post(api, "/api/courses", races.HandleCreate)
	huma.Get(api, "/api/courses/{id}/participants", races.HandleParticipants)
	huma.Get(api, "/api/courses/{id}/stats", races.HandleStats)

	// Registrations
	huma.Post(api, "/api/inscriptions", registrations.HandleRegister)
	huma.Put(api, "/api/inscriptions/{id}", registrations.HandleUpdateStatus)
	huma.Delete(api, "/api/inscriptions/{idcoureur}/{idcourse}", registrations.HandleUnregister)
}

// MountStatic serves the front-end: index at "/" and every other file under
// dir as a fallback for paths no API route matched.
func MountStatic(r chi.Router, dir, index string) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(dir, index))
	})
	r.Handle("/*", http.FileServer(http.Dir(dir)))
}
