package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mww/survivor_manager/controller"
	"github.com/mww/survivor_manager/model"
	"github.com/unrolled/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

func jsonErr(render *render.Render, w http.ResponseWriter, status int, err error) {
	render.JSON(w, status, errorResponse{Error: err.Error()})
}

func rootHandler(_ controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Text(w, http.StatusOK, "survivor manager")
	}
}

type discoveredLeague struct {
	League model.LeagueDescriptor `json:"league"`
	Mode   model.LeagueMode       `json:"mode"`
}

func discoverLeaguesHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("sleeper_username")
		season := r.URL.Query().Get("season")
		week, err := weekParam(r, 1)
		if err != nil {
			jsonErr(render, w, http.StatusBadRequest, err)
			return
		}

		var espnIDs []string
		if raw := r.URL.Query().Get("espn_league_ids"); raw != "" {
			espnIDs = strings.Split(raw, ",")
		}
		if username == "" && len(espnIDs) == 0 {
			jsonErr(render, w, http.StatusBadRequest, errors.New("sleeper_username or espn_league_ids is required"))
			return
		}

		leagues, err := ctrl.Discover(r.Context(), username, espnIDs, season)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, controller.ErrNoLeaguesFound) {
				status = http.StatusNotFound
			}
			jsonErr(render, w, status, err)
			return
		}
		ctrl.WarmLeagues(leagues, week)

		results := make([]discoveredLeague, 0, len(leagues))
		for _, l := range leagues {
			mode, err := ctrl.ClassifyLeague(r.Context(), l, week)
			if err != nil {
				// An unclassifiable league is still a discovered league.
				mode = model.ModeUnknown
			}
			results = append(results, discoveredLeague{League: l, Mode: mode})
		}

		render.JSON(w, http.StatusOK, results)
	}
}

func listMatchupsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, leagueID, err := leagueParams(r)
		if err != nil {
			jsonErr(render, w, http.StatusBadRequest, err)
			return
		}
		week, err := weekParam(r, 0)
		if err != nil || week < 1 {
			jsonErr(render, w, http.StatusBadRequest, errors.New("week is required"))
			return
		}

		matchups, err := ctrl.ListMatchups(r.Context(), platform, leagueID, week)
		if err != nil {
			jsonErr(render, w, http.StatusInternalServerError, err)
			return
		}
		render.JSON(w, http.StatusOK, matchups)
	}
}

func getMatchupHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, leagueID, err := leagueParams(r)
		if err != nil {
			jsonErr(render, w, http.StatusBadRequest, err)
			return
		}
		matchupID, err := strconv.Atoi(chi.URLParam(r, "matchupID"))
		if err != nil {
			jsonErr(render, w, http.StatusBadRequest, fmt.Errorf("error parsing matchup id: %w", err))
			return
		}
		week, err := weekParam(r, 0)
		if err != nil || week < 1 {
			jsonErr(render, w, http.StatusBadRequest, errors.New("week is required"))
			return
		}

		snapshot, err := ctrl.GetMatchup(r.Context(), model.MatchupSnapshotID{
			LeagueID:  leagueID,
			MatchupID: matchupID,
			Platform:  platform,
			Week:      week,
		})
		if err != nil {
			jsonErr(render, w, http.StatusNotFound, err)
			return
		}
		render.JSON(w, http.StatusOK, snapshot)
	}
}

func survivalRankingsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, leagueID, err := leagueParams(r)
		if err != nil {
			jsonErr(render, w, http.StatusBadRequest, err)
			return
		}
		week, err := weekParam(r, 0)
		if err != nil || week < 1 {
			jsonErr(render, w, http.StatusBadRequest, errors.New("week is required"))
			return
		}

		rankings, err := ctrl.GetSurvivalRankings(r.Context(), platform, leagueID, week)
		if err != nil {
			jsonErr(render, w, http.StatusInternalServerError, err)
			return
		}
		render.JSON(w, http.StatusOK, rankings)
	}
}

func eliminationHistoryHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, leagueID, err := leagueParams(r)
		if err != nil {
			jsonErr(render, w, http.StatusBadRequest, err)
			return
		}
		week, err := weekParam(r, 0)
		if err != nil || week < 1 {
			jsonErr(render, w, http.StatusBadRequest, errors.New("week is required"))
			return
		}

		events, err := ctrl.GetEliminationHistory(r.Context(), platform, leagueID, week)
		if err != nil {
			jsonErr(render, w, http.StatusInternalServerError, err)
			return
		}
		render.JSON(w, http.StatusOK, events)
	}
}

func gameOddsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		odds, err := ctrl.GetGameOdds(r.Context(), gameID)
		if err != nil {
			jsonErr(render, w, http.StatusInternalServerError, err)
			return
		}
		render.JSON(w, http.StatusOK, odds)
	}
}

func playerOddsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "playerID")
		odds, err := ctrl.GetPlayerOdds(r.Context(), playerID)
		if err != nil {
			jsonErr(render, w, http.StatusInternalServerError, err)
			return
		}
		if !odds.Found {
			jsonErr(render, w, http.StatusNotFound, fmt.Errorf("no prop odds found for player %s", playerID))
			return
		}
		render.JSON(w, http.StatusOK, odds)
	}
}

func forceUpdatePlayers(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.UpdatePlayers(r.Context()); err != nil {
			render.Text(w, http.StatusInternalServerError, fmt.Sprintf("error updating players: %v", err))
			return
		}

		render.Text(w, http.StatusOK, "update players completed successfully")
	}
}

func refreshOddsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, err := weekParam(r, 0)
		if err != nil || week < 1 {
			jsonErr(render, w, http.StatusBadRequest, errors.New("week is required"))
			return
		}

		if err := ctrl.RefreshWeekOdds(r.Context(), week); err != nil {
			jsonErr(render, w, http.StatusInternalServerError, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("odds refreshed for week %d", week))
	}
}

func oddsIntervalHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			jsonErr(render, w, http.StatusBadRequest, err)
			return
		}

		minutes, err := strconv.ParseFloat(r.PostForm.Get("minutes"), 64)
		if err != nil {
			jsonErr(render, w, http.StatusBadRequest, fmt.Errorf("error parsing minutes: %w", err))
			return
		}

		if err := ctrl.SetOddsRefreshInterval(r.Context(), minutes); err != nil {
			jsonErr(render, w, http.StatusBadRequest, err)
			return
		}
		render.Text(w, http.StatusOK, fmt.Sprintf("odds refresh interval set to %.1f minutes", minutes))
	}
}

func clearOddsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.ClearGameOddsCache(r.Context()); err != nil {
			jsonErr(render, w, http.StatusInternalServerError, err)
			return
		}
		render.Text(w, http.StatusOK, "odds cache cleared")
	}
}

func leagueParams(r *http.Request) (model.Platform, string, error) {
	platform := chi.URLParam(r, "platform")
	if !model.IsPlatformSupported(platform) {
		return "", "", fmt.Errorf("%s is not a supported platform", platform)
	}
	return model.Platform(platform), chi.URLParam(r, "leagueID"), nil
}

func weekParam(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("week")
	if raw == "" {
		return def, nil
	}
	week, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("error parsing week: %w", err)
	}
	return week, nil
}
