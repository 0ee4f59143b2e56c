package routes

import (
	"github.com/ddfilmmaker/AppSchedina-sub000/handlers"
	"github.com/ddfilmmaker/AppSchedina-sub000/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes mounts every endpoint on the given router. Everything except
// registration, login and the password reset flow requires a valid token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	leagueHandler *handlers.LeagueHandler,
	matchdayHandler *handlers.MatchdayHandler,
	matchHandler *handlers.MatchHandler,
	contestHandler *handlers.ContestHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)
	router.Post("/auth/forgot-password", authHandler.ForgotPassword)
	router.Post("/auth/reset-password", authHandler.ResetPassword)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate([]byte(jwtSecret)))

		r.Get("/me", userHandler.Me)
		r.Put("/me/avatar", userHandler.UploadAvatar)

		r.Route("/leagues", func(r chi.Router) {
			r.Post("/", leagueHandler.Create)
			r.Post("/join", leagueHandler.Join)
			r.Get("/", leagueHandler.ListMine)

			r.Route("/{leagueID}", func(r chi.Router) {
				r.Get("/", leagueHandler.Get)
				r.Put("/crest", leagueHandler.UploadCrest)
				r.Get("/leaderboard", leagueHandler.Leaderboard)
				r.Put("/manual-points", leagueHandler.SetManualPoints)
				r.Post("/winner", leagueHandler.DeclareWinner)
				r.Get("/winner", leagueHandler.GetWinner)

				r.Get("/matchdays", matchdayHandler.ListByLeague)
				r.Get("/picks", matchHandler.ListMyLeaguePicks)

				r.Route("/contests/{contestType}", func(r chi.Router) {
					r.Post("/", contestHandler.Create)
					r.Get("/", contestHandler.Get)
					r.Put("/bet", contestHandler.SubmitBet)
					r.Put("/lock-time", contestHandler.UpdateLockTime)
					r.Post("/lock", contestHandler.ForceLock)
					r.Post("/confirm", contestHandler.ConfirmResults)
				})
			})
		})

		r.Route("/matchdays", func(r chi.Router) {
			r.Post("/", matchdayHandler.Create)
			r.Route("/{matchdayID}", func(r chi.Router) {
				r.Get("/", matchdayHandler.Get)
				r.Put("/completed", matchdayHandler.SetCompleted)
				r.Delete("/", matchdayHandler.Delete)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", matchdayHandler.CreateMatch)
			r.Route("/{matchID}", func(r chi.Router) {
				r.Get("/", matchHandler.Get)
				r.Put("/result", matchHandler.SetResult)
				r.Delete("/", matchHandler.Delete)
				r.Put("/pick", matchHandler.SubmitPick)
				r.Get("/picks", matchHandler.ListPicks)
			})
		})
	})
}
