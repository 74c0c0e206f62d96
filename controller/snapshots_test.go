package controller

import (
	"context"
	"testing"
	"time"

	"github.com/mww/survivor_manager/model"
	"github.com/mww/survivor_manager/testutils"
)

func TestGetMatchup(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	ctx := context.Background()

	// Discover first so the snapshot is oriented around the sleeper user.
	leagues, err := ctrl.Discover(ctx, testutils.SleeperUsername, nil, "2024")
	if err != nil {
		t.Fatalf("unexpected discovery error: %v", err)
	}
	ctrl.WarmLeagues(leagues, 2)

	id := model.MatchupSnapshotID{
		LeagueID:  testutils.SleeperLeagueID,
		MatchupID: 1,
		Platform:  model.PlatformSleeper,
		Week:      2,
	}
	s, err := ctrl.GetMatchup(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.ID != id {
		t.Errorf("wrong snapshot id: %v", s.ID)
	}
	if s.MyTeam.Info.OwnerName != "SleeperUser" {
		t.Errorf("expected my team to be the sleeper user's, got %q", s.MyTeam.Info.OwnerName)
	}
	if s.MyTeam.Score.Actual != 112.42 {
		t.Errorf("expected my score 112.42, got %f", s.MyTeam.Score.Actual)
	}
	if s.OpponentTeam.Score.Actual != 98.66 {
		t.Errorf("expected opponent score 98.66, got %f", s.OpponentTeam.Score.Actual)
	}
	if s.Status != model.MatchupInProgress {
		t.Errorf("expected in-progress status, got %s", s.Status)
	}
	if s.MyTeam.Info.Record != "1-0" {
		t.Errorf("expected record 1-0, got %s", s.MyTeam.Info.Record)
	}

	// Week 2 of the 2024 season opened on Thursday September 12.
	kickoff := time.Date(2024, time.September, 12, 0, 0, 0, 0, time.UTC)
	if !s.StartTime.Equal(kickoff) {
		t.Errorf("expected start time %v, got %v", kickoff, s.StartTime)
	}

	// Win probability favors the leader and the two sides sum to 1.
	if s.MyTeam.Score.WinProbability <= 0.5 {
		t.Errorf("expected the leader to be favored, got %f", s.MyTeam.Score.WinProbability)
	}
	sum := s.MyTeam.Score.WinProbability + s.OpponentTeam.Score.WinProbability
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("win probabilities should sum to 1, got %f", sum)
	}
}

func TestGetMatchupRoster(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	league := model.LeagueDescriptor{
		ID:       testutils.SleeperLeagueID,
		Platform: model.PlatformSleeper,
		Season:   "2024",
	}
	ctrl.WarmLeagues([]model.LeagueDescriptor{league}, 2)

	id := model.MatchupSnapshotID{
		LeagueID:  testutils.SleeperLeagueID,
		MatchupID: 1,
		Platform:  model.PlatformSleeper,
		Week:      2,
	}
	s, err := ctrl.GetMatchup(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(s.MyTeam.Roster) != 2 {
		t.Fatalf("expected 2 roster spots, got %d", len(s.MyTeam.Roster))
	}

	var hurts *model.PlayerSnapshot
	for i := range s.MyTeam.Roster {
		if s.MyTeam.Roster[i].ID == "6904" {
			hurts = &s.MyTeam.Roster[i]
		}
	}
	if hurts == nil {
		t.Fatal("expected Jalen Hurts on the roster")
	}

	// The canonical identity table fills in the cross-platform half.
	if hurts.FullName() != "Jalen Hurts" {
		t.Errorf("expected name from the identity table, got %q", hurts.FullName())
	}
	if hurts.Identity.ESPNID != "4040715" {
		t.Errorf("expected espn id resolved, got %q", hurts.Identity.ESPNID)
	}
	if hurts.Context.Position != model.POS_QB {
		t.Errorf("expected QB, got %s", hurts.Context.Position)
	}
	if !hurts.Context.IsStarter {
		t.Error("expected Hurts to be a starter")
	}
	if hurts.Metrics.CurrentScore != 27.18 {
		t.Errorf("expected 27.18 points, got %f", hurts.Metrics.CurrentScore)
	}
	if hurts.Metrics.ProjectedScore != 24.6 {
		t.Errorf("expected 24.6 projected, got %f", hurts.Metrics.ProjectedScore)
	}
	if hurts.Metrics.GameStatus != string(model.MatchupInProgress) {
		t.Errorf("expected an in-progress game, got %q", hurts.Metrics.GameStatus)
	}
}

func TestGetMatchupESPN(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	league := model.LeagueDescriptor{
		ID:       testutils.ESPNLeagueID,
		Platform: model.PlatformESPN,
		Season:   "2024",
	}
	ctrl.WarmLeagues([]model.LeagueDescriptor{league}, 1)

	id := model.MatchupSnapshotID{
		LeagueID:  testutils.ESPNLeagueID,
		MatchupID: 2,
		Platform:  model.PlatformESPN,
		Week:      1,
	}
	s, err := ctrl.GetMatchup(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.MyTeam.Score.Actual != 38.34 {
		t.Errorf("expected 38.34 points, got %f", s.MyTeam.Score.Actual)
	}
	if s.OpponentTeam.Info.TeamID != "4" {
		t.Errorf("expected team 4 as the opponent, got %s", s.OpponentTeam.Info.TeamID)
	}

	// Puka is benched in the fixture and must not be marked a starter.
	for _, p := range s.OpponentTeam.Roster {
		if p.ID == "4426515" && p.Context.IsStarter {
			t.Error("expected Nacua on the bench")
		}
	}

	// The 2024 opener was Thursday September 5.
	kickoff := time.Date(2024, time.September, 5, 0, 0, 0, 0, time.UTC)
	if !s.StartTime.Equal(kickoff) {
		t.Errorf("expected start time %v, got %v", kickoff, s.StartTime)
	}

	var allen *model.PlayerSnapshot
	for i := range s.MyTeam.Roster {
		if s.MyTeam.Roster[i].ID == "3918298" {
			allen = &s.MyTeam.Roster[i]
		}
	}
	if allen == nil {
		t.Fatal("expected Josh Allen on the roster")
	}
	if allen.Metrics.ProjectedScore != 23.9 {
		t.Errorf("expected 23.9 projected, got %f", allen.Metrics.ProjectedScore)
	}
	if allen.Metrics.GameStatus != string(model.MatchupInProgress) {
		t.Errorf("expected an in-progress game, got %q", allen.Metrics.GameStatus)
	}
}

func TestListMatchups(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	matchups, err := ctrl.ListMatchups(context.Background(), model.PlatformSleeper, testutils.SleeperLeagueID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matchups) != 2 {
		t.Fatalf("expected 2 matchups, got %d", len(matchups))
	}
	if matchups[0].ID.MatchupID != 1 || matchups[1].ID.MatchupID != 2 {
		t.Errorf("expected matchups in id order, got %v and %v", matchups[0].ID, matchups[1].ID)
	}
}

func TestListMatchupsEmptyWeek(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	// A survivor week has no matchups at all; that is an empty list, not
	// an error.
	matchups, err := ctrl.ListMatchups(context.Background(), model.PlatformSleeper, testutils.SleeperLeagueID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matchups) != 0 {
		t.Errorf("expected no matchups, got %d", len(matchups))
	}
}

func TestGetMatchupUnsupportedPlatform(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	id := model.MatchupSnapshotID{
		LeagueID:  "1",
		MatchupID: 1,
		Platform:  model.Platform("yahoo"),
		Week:      1,
	}
	if _, err := ctrl.GetMatchup(context.Background(), id); err == nil {
		t.Error("expected an error for an unsupported platform")
	}
}
