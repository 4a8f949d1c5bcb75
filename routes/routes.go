package routes

import (
	"net/http"

	"github.com/Dosada05/esports-tracker/handlers"
	"github.com/Dosada05/esports-tracker/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Tournaments *handlers.TournamentHandler
	Series      *handlers.SeriesHandler
	Stats       *handlers.StatsHandler
	Memberships *handlers.MembershipHandler
	Teams       *handlers.TeamHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
}

// SetupRoutes mounts the API. Reads are public. Tournament setup and
// contracts need ADMIN; match data needs ADMIN or MODERATOR.
func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	authenticate := middleware.Authenticate(opts.JWTSecret)
	adminOnly := middleware.Authorize(middleware.RoleAdmin)
	matchEditors := middleware.Authorize(middleware.RoleAdmin, middleware.RoleModerator)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/{tournamentID}", h.Tournaments.GetByIDHandler)
		r.Get("/{tournamentID}/structure", h.Tournaments.StructureHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", h.Tournaments.CreateHandler)
			r.Put("/{tournamentID}", h.Tournaments.UpdateHandler)
			r.Put("/{tournamentID}/logo", h.Tournaments.UploadLogoHandler)
			r.Post("/{tournamentID}/teams", h.Tournaments.RegisterTeamHandler)
			r.Post("/{tournamentID}/stages", h.Tournaments.CreateStageHandler)
		})
	})

	router.Route("/stages", func(r chi.Router) {
		r.Get("/{stageID}/schedule", h.Tournaments.StageScheduleHandler)

		r.With(authenticate, adminOnly).Put("/{stageID}", h.Tournaments.UpdateStageHandler)
	})

	router.Route("/series", func(r chi.Router) {
		r.Get("/upcoming", h.Series.ListUpcoming)
		r.Get("/{seriesID}", h.Series.GetSeries)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, matchEditors)
			r.Post("/", h.Series.CreateSeries)
			r.Post("/{seriesID}/games", h.Series.CreateGame)
			r.Post("/{seriesID}/recompute", h.Series.RecomputeSeries)
		})
	})

	router.Route("/games", func(r chi.Router) {
		r.Use(authenticate, matchEditors)
		r.Put("/{gameID}", h.Series.RecordGameResult)
		r.Delete("/{gameID}", h.Series.DeleteGame)
		r.Put("/{gameID}/team-stats", h.Stats.UpsertTeamStat)
		r.Put("/{gameID}/player-stats", h.Stats.UpsertPlayerStat)
		r.Put("/{gameID}/draft", h.Stats.UpsertDraftAction)
	})

	router.With(authenticate, matchEditors).Delete("/team-stats/{statID}", h.Stats.DeleteTeamStat)

	router.Route("/memberships/{kind}", func(r chi.Router) {
		r.Use(authenticate, adminOnly)
		r.Post("/", h.Memberships.Create)
		r.Put("/{membershipID}", h.Memberships.Update)
		r.Post("/{membershipID}/end", h.Memberships.End)
	})

	router.Get("/teams/{teamID}/series", h.Teams.RecentSeries)
	router.Get("/teams/{teamID}/members/{kind}", h.Memberships.TeamMembers)
	router.Get("/people/{kind}/{personID}/memberships", h.Memberships.PersonHistory)

	router.With(authenticate, adminOnly).Post("/admin/status-refresh", h.Tournaments.RefreshStatusesHandler)
}
