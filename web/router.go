package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mww/survivor_manager/controller"
	"github.com/unrolled/render"
)

func getRouter(ctrl controller.C, render *render.Render, adminPass string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/", rootHandler(ctrl, render))

	r.Route("/leagues", func(r chi.Router) {
		r.Get("/", discoverLeaguesHandler(ctrl, render))

		r.Route("/{platform}/{leagueID}", func(r chi.Router) {
			r.Get("/matchups", listMatchupsHandler(ctrl, render))
			r.Get("/matchups/{matchupID:\\d+}", getMatchupHandler(ctrl, render))
			r.Get("/survival", survivalRankingsHandler(ctrl, render))
			r.Get("/eliminations", eliminationHistoryHandler(ctrl, render))
		})
	})

	r.Route("/odds", func(r chi.Router) {
		r.Get("/games/{gameID}", gameOddsHandler(ctrl, render))
		r.Get("/players/{playerID}", playerOddsHandler(ctrl, render))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.BasicAuth("sm", map[string]string{"admin": adminPass}))
		r.Use(middleware.Timeout(60 * time.Second)) // Set a longer timeout for /admin actions

		r.Post("/players", forceUpdatePlayers(ctrl, render))
		r.Post("/odds/refresh", refreshOddsHandler(ctrl, render))
		r.Post("/odds/interval", oddsIntervalHandler(ctrl, render))
		r.Post("/odds/clear", clearOddsHandler(ctrl, render))
	})

	return r
}
