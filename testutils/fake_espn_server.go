package testutils

import (
	"embed"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
)

//go:embed espndata
var espndata embed.FS

// Test IDs shared by the ESPN fixture data.
const (
	ESPNLeagueID = "111222"
	ESPNSeason   = "2024"
)

type FakeESPNServer struct {
	s *httptest.Server
}

func NewFakeESPNServer() *FakeESPNServer {
	r := chi.NewRouter()
	r.Get("/apis/v3/games/ffl/seasons/{season}/segments/0/leagues/{leagueID}", espnLeagueHandler)

	return &FakeESPNServer{
		s: httptest.NewServer(r),
	}
}

func (f *FakeESPNServer) Close() {
	f.s.Close()
}

func (f *FakeESPNServer) URL() string {
	return f.s.URL
}

func espnLeagueHandler(w http.ResponseWriter, r *http.Request) {
	season := chi.URLParam(r, "season")
	leagueID := chi.URLParam(r, "leagueID")

	if season != ESPNSeason || leagueID != ESPNLeagueID {
		// ESPN returns an HTML error page for unknown leagues; an empty
		// object exercises the same decode-guard path.
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
		return
	}

	b, err := espndata.ReadFile("espndata/league.json")
	if err != nil {
		log.Printf("error reading espndata/league.json: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
