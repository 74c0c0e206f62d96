package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

//go:embed oddsdata
var oddsdata embed.FS

// Test IDs shared by the odds fixture data.
const (
	OddsGameID    = "phi-dal-w1"
	OddsPlayerID  = "4866"
	OddsMissingID = "no-such-player"
)

type FakeOddsServer struct {
	s *httptest.Server

	mu       sync.Mutex
	requests int
}

func NewFakeOddsServer() *FakeOddsServer {
	f := &FakeOddsServer{}

	r := chi.NewRouter()
	r.Route("/v4/sports/americanfootball_nfl", func(r chi.Router) {
		r.Get("/odds", f.weekOddsHandler)
		r.Get("/events/{gameID}/odds", f.gameOddsHandler)
		r.Get("/players/{playerID}/props", f.playerPropsHandler)
	})

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeOddsServer) Close() {
	f.s.Close()
}

func (f *FakeOddsServer) URL() string {
	return f.s.URL
}

// Requests reports how many odds lookups the server has seen, so tests can
// prove a response was cached rather than refetched. Handlers run on the
// server's goroutines, so the count is mutex-guarded.
func (f *FakeOddsServer) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *FakeOddsServer) countRequest() {
	f.mu.Lock()
	f.requests++
	f.mu.Unlock()
}

func (f *FakeOddsServer) weekOddsHandler(w http.ResponseWriter, r *http.Request) {
	f.countRequest()
	serveOddsFile(w, "events.json")
}

func (f *FakeOddsServer) gameOddsHandler(w http.ResponseWriter, r *http.Request) {
	f.countRequest()
	if chi.URLParam(r, "gameID") == OddsGameID {
		serveOddsFile(w, "event.json")
	} else {
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *FakeOddsServer) playerPropsHandler(w http.ResponseWriter, r *http.Request) {
	f.countRequest()
	if chi.URLParam(r, "playerID") == OddsPlayerID {
		serveOddsFile(w, "player_props.json")
	} else {
		w.WriteHeader(http.StatusNotFound)
	}
}

func serveOddsFile(w http.ResponseWriter, name string) {
	b, err := oddsdata.ReadFile(fmt.Sprintf("oddsdata/%s", name))
	if err != nil {
		log.Printf("error reading oddsdata/%s: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
