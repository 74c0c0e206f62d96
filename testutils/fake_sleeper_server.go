package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
)

//go:embed sleeperdata
var sleeperdata embed.FS

// Test IDs shared by the sleeper fixture data.
const (
	SleeperUsername = "sleeperuser"
	SleeperUserID   = "12345678"
	SleeperLeagueID = "924039165950484480"
	SleeperSeason   = "2024"

	// A league that exists but has no matchups and no filled rosters.
	SleeperEmptyLeagueID = "835098123497312256"
)

type FakeSleeperServer struct {
	s *httptest.Server
}

func NewFakeSleeperServer() *FakeSleeperServer {
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Get("/players/nfl", nflPlayersHandler)
		r.Get("/stats/nfl/{season}/{week}", weekStatsHandler)
		r.Get("/projections/nfl/{season}/{week}", weekProjectionsHandler)

		r.Route("/user", func(r chi.Router) {
			r.Get("/{userID}/leagues/nfl/{year}", userLeaguesHandler)
			r.Get("/{username}", sleeperUserHandler)
		})

		r.Route("/league/{leagueID}", func(r chi.Router) {
			r.Get("/", leagueHandler)
			r.Get("/rosters", rostersHandler)
			r.Get("/users", leagueUsersHandler)
			r.Get("/matchups/{week}", matchupsHandler)
		})
	})

	return &FakeSleeperServer{
		s: httptest.NewServer(r),
	}
}

func (f *FakeSleeperServer) Close() {
	f.s.Close()
}

func (f *FakeSleeperServer) URL() string {
	return f.s.URL
}

func nflPlayersHandler(w http.ResponseWriter, r *http.Request) {
	serveSleeperFile(w, "players.json")
}

func weekStatsHandler(w http.ResponseWriter, r *http.Request) {
	season := chi.URLParam(r, "season")
	week := chi.URLParam(r, "week")

	if season == SleeperSeason && week == "1" {
		serveSleeperFile(w, "stats_week1.json")
	} else {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}
}

func weekProjectionsHandler(w http.ResponseWriter, r *http.Request) {
	season := chi.URLParam(r, "season")
	week := chi.URLParam(r, "week")

	if season == SleeperSeason && week == "2" {
		serveSleeperFile(w, "projections_week2.json")
	} else {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}
}

func userLeaguesHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	year := chi.URLParam(r, "year")

	if userID == SleeperUserID && year == SleeperSeason {
		serveSleeperFile(w, "user_leagues.json")
	} else {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	}
}

func sleeperUserHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == SleeperUsername {
		serveSleeperFile(w, "sleeperuser.json")
	} else {
		// requesting a user that doesn't exist seems to return a 200 with "null" as the response body as of 2024-08-12
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("null"))
	}
}

func leagueHandler(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "leagueID") == SleeperLeagueID {
		serveSleeperFile(w, "league.json")
	} else {
		w.WriteHeader(http.StatusNotFound)
	}
}

func rostersHandler(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "leagueID") {
	case SleeperLeagueID:
		serveSleeperFile(w, "rosters.json")
	case SleeperEmptyLeagueID:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func leagueUsersHandler(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "leagueID") == SleeperLeagueID {
		serveSleeperFile(w, "users.json")
	} else {
		w.WriteHeader(http.StatusNotFound)
	}
}

func matchupsHandler(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	if leagueID == SleeperEmptyLeagueID {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
		return
	}
	if leagueID != SleeperLeagueID {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	// The fixture league is survivor format: week 1 played without any
	// head-to-head matchups, week 2 has a commissioner-created bracket.
	if chi.URLParam(r, "week") == "2" {
		serveSleeperFile(w, "matchups_week2.json")
	} else {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	}
}

func serveSleeperFile(w http.ResponseWriter, name string) {
	b, err := sleeperdata.ReadFile(fmt.Sprintf("sleeperdata/%s", name))
	if err != nil {
		log.Printf("error reading sleeperdata/%s: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
