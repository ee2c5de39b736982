package handlers

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// Mount registers the /api routes on r. Zero fields of limits take the
// package defaults.
func Mount(r chi.Router, limits Limits, logger *slog.Logger) {
	limits = limits.withDefaults()
	r.Route("/api", func(r chi.Router) {
		r.Use(withLimits(limits))

		// Sequence endpoints
		r.Route("/sequence", func(r chi.Router) {
			r.Post("/info", SequenceInfoHandler)
			r.Post("/validate", ValidateHandler)
			r.Post("/translate", TranslateHandler)
		})

		// Alignment endpoints
		r.Route("/alignment", func(r chi.Router) {
			r.Post("/global", GlobalAlignHandler)
			r.Post("/score", AlignmentScoreHandler)
			r.Post("/clusters", ClustersHandler)
			r.Post("/format", FormatHandler)
		})

		// Simulation endpoints
		r.Route("/simulation", func(r chi.Router) {
			r.Post("/run", NewSimulationHandler(limits, logger))
		})
	})
}
