package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/studioaurea/atelier-backend/models"
)

// setupRoutes sets up public and authenticated routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, startupTime time.Time) {
	responder := NewResponder(log.Logger)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			responder.WriteJSON(w, map[string]any{
				"status": "ok",
				"uptime": time.Since(startupTime).String(),
			})
		})

		r.Post("/auth/login", handlers.authHandler.login())

		// Twilio posts inbound WhatsApp messages here
		r.Post("/webhooks/whatsapp", handlers.webhookHandler.incomingWhatsApp())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/auth/me", handlers.authHandler.me())

		// Project Handler endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		// Embedded collection endpoints
		r.Post("/project/{projectID}/rooms", handlers.projectHandler.addRoom())
		r.Put("/project/{projectID}/room/{roomID}", handlers.projectHandler.updateRoom())
		r.Delete("/project/{projectID}/room/{roomID}", handlers.projectHandler.deleteRoom())
		r.Post("/project/{projectID}/tasks", handlers.projectHandler.addTask())
		r.Put("/project/{projectID}/task/{taskID}", handlers.projectHandler.updateTask())
		r.Delete("/project/{projectID}/task/{taskID}", handlers.projectHandler.deleteTask())
		r.Post("/project/{projectID}/logs", handlers.projectHandler.addLog())
		r.Put("/project/{projectID}/report-settings", handlers.projectHandler.updateReportSettings())

		// Client Handler endpoints
		r.Get("/clients", handlers.clientHandler.getAllClients())
		r.Get("/client/{clientID}", handlers.clientHandler.getClient())
		r.Post("/client", handlers.clientHandler.createClient())
		r.Put("/client/{clientID}", handlers.clientHandler.updateClient())
		r.Delete("/client/{clientID}", handlers.clientHandler.deleteClient())

		// Lead Handler endpoints
		r.Get("/leads", handlers.leadHandler.getAllLeads())
		r.Get("/lead/{leadID}", handlers.leadHandler.getLead())
		r.Post("/lead", handlers.leadHandler.createLead())
		r.Put("/lead/{leadID}", handlers.leadHandler.updateLead())
		r.Delete("/lead/{leadID}", handlers.leadHandler.deleteLead())

		// Proposal Handler endpoints
		r.Get("/proposals", handlers.proposalHandler.getAllProposals())
		r.Get("/proposal/{proposalID}", handlers.proposalHandler.getProposal())
		r.Post("/proposal", handlers.proposalHandler.createProposal())
		r.Put("/proposal/{proposalID}", handlers.proposalHandler.updateProposal())
		r.Delete("/proposal/{proposalID}", handlers.proposalHandler.deleteProposal())

		// Moodboard Handler endpoints
		r.Get("/moodboards", handlers.moodboardHandler.getAllMoodboards())
		r.Get("/moodboard/{moodboardID}", handlers.moodboardHandler.getMoodboard())
		r.Post("/moodboard", handlers.moodboardHandler.createMoodboard())
		r.Put("/moodboard/{moodboardID}", handlers.moodboardHandler.updateMoodboard())
		r.Delete("/moodboard/{moodboardID}", handlers.moodboardHandler.deleteMoodboard())

		// Estimate Handler endpoints
		r.Get("/estimates", handlers.estimateHandler.getAllEstimates())
		r.Get("/estimate/{estimateID}", handlers.estimateHandler.getEstimate())
		r.Post("/estimates/draft", handlers.estimateHandler.draftEstimate())
		r.Post("/estimates/similar", handlers.estimateHandler.findSimilarEstimates())
		r.Delete("/estimate/{estimateID}", handlers.estimateHandler.deleteEstimate())

		// Photo uploads
		r.Post("/uploads/photo", handlers.photoHandler.uploadPhoto())

		// User management is admin-only
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireRole(models.RoleAdmin))

			r.Get("/users", handlers.userHandler.getAllUsers())
			r.Get("/user/{userID}", handlers.userHandler.getUser())
			r.Post("/user", handlers.userHandler.createUser())
			r.Put("/user/{userID}", handlers.userHandler.updateUser())
			r.Delete("/user/{userID}", handlers.userHandler.deleteUser())
		})
	})
}
