package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/mww/survivor_manager/model"
	"github.com/mww/survivor_manager/testutils"
)

func TestDiscover(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	ctx := context.Background()

	tests := map[string]struct {
		username  string
		espnIDs   []string
		exErr     error
		exLeagues int
	}{
		"sleeper only": {username: testutils.SleeperUsername, exLeagues: 1},
		"espn only":    {espnIDs: []string{testutils.ESPNLeagueID}, exLeagues: 1},
		"both":         {username: testutils.SleeperUsername, espnIDs: []string{testutils.ESPNLeagueID}, exLeagues: 2},
		"bad espn league still returns sleeper": {
			username: testutils.SleeperUsername, espnIDs: []string{"000000"}, exLeagues: 1},
		"unknown user": {username: "nobody", exErr: ErrNoLeaguesFound},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			leagues, err := ctrl.Discover(ctx, tc.username, tc.espnIDs, "2024")
			if tc.exErr != nil {
				if err == nil {
					t.Fatalf("expected an error, got %d leagues", len(leagues))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(leagues) != tc.exLeagues {
				t.Errorf("expected %d leagues, got %d: %v", tc.exLeagues, len(leagues), leagues)
			}
		})
	}
}

func TestDiscoverDescriptor(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	leagues, err := ctrl.Discover(context.Background(), testutils.SleeperUsername, nil, "2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leagues) != 1 {
		t.Fatalf("expected 1 league, got %d", len(leagues))
	}

	l := leagues[0]
	if l.ID != testutils.SleeperLeagueID {
		t.Errorf("wrong league id: %s", l.ID)
	}
	if l.Name != "The Chopping Block" {
		t.Errorf("wrong league name: %s", l.Name)
	}
	if l.Platform != model.PlatformSleeper {
		t.Errorf("wrong platform: %s", l.Platform)
	}
	if l.Season != "2024" {
		t.Errorf("wrong season: %s", l.Season)
	}
}

func TestDiscoverDeDupes(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	leagues, err := ctrl.Discover(context.Background(), "",
		[]string{testutils.ESPNLeagueID, testutils.ESPNLeagueID}, "2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leagues) != 1 {
		t.Errorf("expected duplicate league to be dropped, got %d leagues", len(leagues))
	}
}

func TestClassifyLeague(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	ctx := context.Background()
	sleeperLeague := model.LeagueDescriptor{
		ID:       testutils.SleeperLeagueID,
		Platform: model.PlatformSleeper,
		Season:   "2024",
	}
	espnLeague := model.LeagueDescriptor{
		ID:       testutils.ESPNLeagueID,
		Platform: model.PlatformESPN,
		Season:   "2024",
	}
	ctrl.WarmLeagues([]model.LeagueDescriptor{sleeperLeague, espnLeague}, 1)

	tests := map[string]struct {
		league model.LeagueDescriptor
		week   int
		exMode model.LeagueMode
	}{
		// Week 1 has no matchups but fully populated rosters, which is the
		// survivor signature.
		"sleeper survivor week": {league: sleeperLeague, week: 1, exMode: model.ModeEliminationSurvivor},
		"sleeper bracket week":  {league: sleeperLeague, week: 2, exMode: model.ModeHeadToHead},
		"espn head to head":     {league: espnLeague, week: 1, exMode: model.ModeHeadToHead},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			mode, err := ctrl.ClassifyLeague(ctx, tc.league, tc.week)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != tc.exMode {
				t.Errorf("expected mode %s, got %s", tc.exMode, mode)
			}
		})
	}
}

func TestClassifyLeagueUnpopulated(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	// An unknown league returns errors from the platform, which must never
	// be read as a survivor signal.
	unknown := model.LeagueDescriptor{
		ID:       "555555",
		Platform: model.PlatformSleeper,
		Season:   "2024",
	}
	mode, err := ctrl.ClassifyLeague(context.Background(), unknown, 1)
	if err == nil {
		t.Fatal("expected an error for an unknown league")
	}
	if mode != model.ModeUnknown {
		t.Errorf("expected mode to stay unknown, got %s", mode)
	}
}

func TestClassifyLeagueEmptyRosters(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	// A league that exists but has no matchups and no filled rosters
	// cannot be classified. The error names the week that was checked.
	empty := model.LeagueDescriptor{
		ID:       testutils.SleeperEmptyLeagueID,
		Platform: model.PlatformSleeper,
		Season:   "2024",
	}
	mode, err := ctrl.ClassifyLeague(context.Background(), empty, 3)
	if mode != model.ModeUnknown {
		t.Errorf("expected mode to stay unknown, got %s", mode)
	}

	var ce *ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a ClassificationError, got %v", err)
	}
	if ce.Reason != "no matchups or active rosters found for week 3" {
		t.Errorf("unexpected reason: %s", ce.Reason)
	}
}

func TestClassificationError(t *testing.T) {
	err := &ClassificationError{LeagueID: "abc", Reason: "no matchups or active rosters found for week 1"}

	var ce *ClassificationError
	if !errors.As(error(err), &ce) {
		t.Error("expected errors.As to match ClassificationError")
	}
	if err.Error() != "unable to classify league abc: no matchups or active rosters found for week 1" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
