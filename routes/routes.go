package routes

import (
	"github.com/Mayonesio/disckatus-tournaments-sub000/handlers"
	"github.com/Mayonesio/disckatus-tournaments-sub000/middleware"
	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.AuthMiddleware,
	allowedOrigins []string,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	registrationHandler *handlers.RegistrationHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/auth/signup", authHandler.Signup)
	router.Post("/auth/signin", authHandler.Signin)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireRole(models.RoleAdmin))

			r.Post("/", tournamentHandler.Create)
			r.Put("/{tournamentID}", tournamentHandler.Update)
			r.Delete("/{tournamentID}", tournamentHandler.Delete)
			r.Patch("/{tournamentID}/registrations", registrationHandler.UpdateStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/{tournamentID}/register", registrationHandler.Register)
			r.Delete("/{tournamentID}/register", registrationHandler.Cancel)
			r.Get("/{tournamentID}/register", registrationHandler.Status)
			r.Get("/{tournamentID}/registrations", registrationHandler.List)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.List)
		r.Get("/{playerRef}", playerHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/", playerHandler.Create)
			r.Put("/{playerRef}", playerHandler.Update)
			r.Delete("/{playerRef}", playerHandler.Delete)
			r.Put("/{playerRef}/photo", playerHandler.UploadPhoto)
			r.Put("/{playerRef}/skills", playerHandler.ReplaceSkills)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.RequireRole(models.RoleAdmin))

		r.Get("/dashboard/stats", dashboardHandler.Stats)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
