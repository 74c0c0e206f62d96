package controller

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/mww/survivor_manager/model"
	"github.com/mww/survivor_manager/testutils"
)

func totalsForTest(scores ...float64) []teamTotal {
	totals := make([]teamTotal, 0, len(scores))
	for i, s := range scores {
		totals = append(totals, teamTotal{
			Info:   model.TeamInfo{TeamID: string(rune('a' + i))},
			Actual: s,
		})
	}
	return totals
}

func TestCalculateRankingsOrder(t *testing.T) {
	totals := totalsForTest(88.2, 112.4, 95.0, 101.1)

	rankings := calculateRankings(totals, nil, nil, 5, 14)
	if len(rankings) != 4 {
		t.Fatalf("expected 4 rankings, got %d", len(rankings))
	}

	exOrder := []string{"b", "d", "c", "a"}
	for i, r := range rankings {
		if r.Team.Info.TeamID != exOrder[i] {
			t.Errorf("rank %d: expected team %s, got %s", i+1, exOrder[i], r.Team.Info.TeamID)
		}
		if r.Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, r.Rank)
		}
	}

	// Probabilities must decrease with rank and stay in [0, 1].
	for i := 1; i < len(rankings); i++ {
		if rankings[i].SurvivalProbability > rankings[i-1].SurvivalProbability {
			t.Errorf("probability increased from rank %d to %d", i, i+1)
		}
	}
	for _, r := range rankings {
		if r.SurvivalProbability < 0 || r.SurvivalProbability > 1 {
			t.Errorf("probability %f for team %s is out of range", r.SurvivalProbability, r.Team.Info.TeamID)
		}
	}
}

func TestCalculateRankingsTieBreak(t *testing.T) {
	// Teams c and d are tied; c comes first in the input and must keep the
	// better rank.
	totals := totalsForTest(90.0, 100.0, 85.5, 85.5)

	rankings := calculateRankings(totals, nil, nil, 3, 14)
	if rankings[2].Team.Info.TeamID != "c" {
		t.Errorf("expected team c at rank 3, got %s", rankings[2].Team.Info.TeamID)
	}
	if rankings[3].Team.Info.TeamID != "d" {
		t.Errorf("expected team d at rank 4, got %s", rankings[3].Team.Info.TeamID)
	}
	if rankings[2].Rank == rankings[3].Rank {
		t.Error("tied teams must still get distinct ranks")
	}
}

func TestCalculateRankingsScheduledWeek(t *testing.T) {
	// Nothing has kicked off: every alive team is safe with probability 1.
	totals := totalsForTest(0, 0, 0, 0)

	rankings := calculateRankings(totals, nil, nil, 3, 14)
	for _, r := range rankings {
		if r.EliminationStatus != model.StatusSafe {
			t.Errorf("team %s: expected safe, got %s", r.Team.Info.TeamID, r.EliminationStatus)
		}
		if r.SurvivalProbability != 1.0 {
			t.Errorf("team %s: expected probability 1.0, got %f", r.Team.Info.TeamID, r.SurvivalProbability)
		}
	}
}

func TestCalculateRankingsEliminated(t *testing.T) {
	totals := totalsForTest(88.2, 112.4, 0, 101.1)
	eliminatedAt := map[string]int{"c": 2}

	rankings := calculateRankings(totals, eliminatedAt, nil, 4, 14)
	if len(rankings) != 4 {
		t.Fatalf("expected 4 rankings, got %d", len(rankings))
	}

	last := rankings[3]
	if last.Team.Info.TeamID != "c" {
		t.Fatalf("expected eliminated team last, got %s", last.Team.Info.TeamID)
	}
	if last.EliminationStatus != model.StatusEliminated {
		t.Errorf("expected eliminated status, got %s", last.EliminationStatus)
	}
	if last.SurvivalProbability != 0 {
		t.Errorf("expected probability 0, got %f", last.SurvivalProbability)
	}
	if last.WeeksAlive != 2 {
		t.Errorf("expected weeks alive 2, got %d", last.WeeksAlive)
	}
}

func TestCalculateRankingsPointsFromSafety(t *testing.T) {
	totals := totalsForTest(80.0, 100.0, 90.0)

	rankings := calculateRankings(totals, nil, nil, 3, 14)
	// Second lowest is 90: the lowest team is 10 behind, the top 10 ahead.
	for _, r := range rankings {
		var ex float64
		switch r.Team.Info.TeamID {
		case "a":
			ex = -10.0
		case "b":
			ex = 10.0
		case "c":
			ex = 0.0
		}
		if math.Abs(r.PointsFromSafety-ex) > 1e-9 {
			t.Errorf("team %s: expected points from safety %f, got %f", r.Team.Info.TeamID, ex, r.PointsFromSafety)
		}
	}
}

func TestCalculateSafetyPercentageBounds(t *testing.T) {
	tests := map[string]struct {
		points         float64
		rank           int
		totalTeams     int
		mean           float64
		stddev         float64
		hist           float64
		weeksRemaining int
	}{
		"top team final week":  {points: 150, rank: 1, totalTeams: 10, mean: 100, stddev: 12, hist: 120, weeksRemaining: 0},
		"bottom team":          {points: 55, rank: 10, totalTeams: 10, mean: 100, stddev: 12, hist: 70, weeksRemaining: 3},
		"zero variance":        {points: 100, rank: 5, totalTeams: 10, mean: 100, stddev: 0, hist: 0, weeksRemaining: 8},
		"single opponent":      {points: 80, rank: 2, totalTeams: 2, mean: 90, stddev: 10, hist: 85, weeksRemaining: 1},
		"early season blowout": {points: 200, rank: 1, totalTeams: 4, mean: 110, stddev: 40, hist: 0, weeksRemaining: 13},
		"no history":           {points: 90, rank: 3, totalTeams: 6, mean: 95, stddev: 8, hist: 0, weeksRemaining: 5},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			p := calculateSafetyPercentage(tc.points, tc.rank, tc.totalTeams, tc.mean, tc.stddev, tc.hist, tc.weeksRemaining)
			if p < 0 || p > 1 {
				t.Errorf("probability %f out of [0, 1]", p)
			}
		})
	}
}

func TestCalculateSafetyPercentageOrdering(t *testing.T) {
	top := calculateSafetyPercentage(140, 1, 10, 100, 15, 110, 5)
	bottom := calculateSafetyPercentage(60, 10, 10, 100, 15, 80, 5)
	if top <= bottom {
		t.Errorf("expected the top scorer to be safer: top=%f bottom=%f", top, bottom)
	}

	// More weeks remaining pulls the estimate toward the middle.
	early := calculateSafetyPercentage(140, 1, 10, 100, 15, 110, 13)
	late := calculateSafetyPercentage(140, 1, 10, 100, 15, 110, 1)
	if early >= late {
		t.Errorf("expected less certainty early in the season: early=%f late=%f", early, late)
	}
}

func TestDetermineEliminationStatus(t *testing.T) {
	tests := map[string]struct {
		probability float64
		rank        int
		scheduled   bool
		week        int
		totalWeeks  int
		aliveTeams  int
		ex          model.EliminationStatus
	}{
		"scheduled week":    {probability: 0.1, scheduled: true, rank: 8, week: 3, totalWeeks: 14, aliveTeams: 8, ex: model.StatusSafe},
		"safe":              {probability: 0.8, rank: 2, week: 3, totalWeeks: 14, aliveTeams: 8, ex: model.StatusSafe},
		"warning":           {probability: 0.6, rank: 4, week: 3, totalWeeks: 14, aliveTeams: 8, ex: model.StatusWarning},
		"danger":            {probability: 0.4, rank: 6, week: 3, totalWeeks: 14, aliveTeams: 8, ex: model.StatusDanger},
		"critical":          {probability: 0.2, rank: 8, week: 3, totalWeeks: 14, aliveTeams: 8, ex: model.StatusCritical},
		"champion":          {probability: 0.9, rank: 1, week: 14, totalWeeks: 14, aliveTeams: 2, ex: model.StatusChampion},
		"final week rank 2": {probability: 0.4, rank: 2, week: 14, totalWeeks: 14, aliveTeams: 2, ex: model.StatusDanger},
		"top mid season":    {probability: 0.9, rank: 1, week: 5, totalWeeks: 14, aliveTeams: 8, ex: model.StatusSafe},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := determineEliminationStatus(tc.probability, tc.rank, tc.scheduled, tc.week, tc.totalWeeks, tc.aliveTeams)
			if s != tc.ex {
				t.Errorf("expected %s, got %s", tc.ex, s)
			}
		})
	}
}

func TestDeriveEliminationEvent(t *testing.T) {
	now := time.Date(2024, time.September, 10, 12, 0, 0, 0, time.UTC)

	t.Run("clear loser", func(t *testing.T) {
		alive := totalsForTest(90.0, 75.5, 102.2)
		ev := deriveEliminationEvent(alive, 3, now)

		if ev.EliminatedTeamID != "b" {
			t.Errorf("expected team b eliminated, got %s", ev.EliminatedTeamID)
		}
		if ev.Week != 3 {
			t.Errorf("expected week 3, got %d", ev.Week)
		}
		if math.Abs(ev.Margin-14.5) > 1e-9 {
			t.Errorf("expected margin 14.5, got %f", ev.Margin)
		}
		if ev.EliminationScore != 75.5 {
			t.Errorf("expected elimination score 75.5, got %f", ev.EliminationScore)
		}
	})

	t.Run("tie goes to first in input order", func(t *testing.T) {
		alive := totalsForTest(80.0, 66.6, 66.6)
		ev := deriveEliminationEvent(alive, 1, now)

		if ev.EliminatedTeamID != "b" {
			t.Errorf("expected the first tied team eliminated, got %s", ev.EliminatedTeamID)
		}
		if ev.Margin != 0 {
			t.Errorf("expected margin 0 for a tie, got %f", ev.Margin)
		}
	})

	t.Run("full field", func(t *testing.T) {
		alive := totalsForTest(98.3, 104.1, 87.9, 121.6, 93.2, 88.02, 110.4, 99.9, 105.5, 91.7)
		ev := deriveEliminationEvent(alive, 6, now)

		// Team c has the lowest score; team f is next at 0.12 above it.
		if ev.EliminatedTeamID != "c" {
			t.Errorf("expected team c eliminated, got %s", ev.EliminatedTeamID)
		}
		if math.Abs(ev.Margin-0.12) > 1e-9 {
			t.Errorf("expected margin 0.12, got %f", ev.Margin)
		}
		if ev.DramaMeter < 9.8 {
			t.Errorf("expected a near-max drama meter, got %f", ev.DramaMeter)
		}
	})
}

func TestDramaMeter(t *testing.T) {
	tests := map[string]struct {
		margin float64
		tied   int
		ex     float64
	}{
		"photo finish":  {margin: 0, tied: 1, ex: 10},
		"comfortable":   {margin: 10, tied: 1, ex: 0},
		"blowout":       {margin: 45, tied: 1, ex: 0},
		"middling":      {margin: 5, tied: 1, ex: 5},
		"two way tie":   {margin: 0, tied: 2, ex: 10},
		"tie with room": {margin: 8, tied: 3, ex: 8},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d := dramaMeter(tc.margin, tc.tied)
			if math.Abs(d-tc.ex) > 1e-9 {
				t.Errorf("expected drama %f, got %f", tc.ex, d)
			}
			if d < 0 || d > 10 {
				t.Errorf("drama %f out of [0, 10]", d)
			}
		})
	}
}

func TestGetSurvivalRankings(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	league := model.LeagueDescriptor{
		ID:       testutils.SleeperLeagueID,
		Platform: model.PlatformSleeper,
		Season:   "2024",
	}
	ctrl.WarmLeagues([]model.LeagueDescriptor{league}, 2)

	rankings, err := ctrl.GetSurvivalRankings(context.Background(), model.PlatformSleeper, testutils.SleeperLeagueID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rankings) != 4 {
		t.Fatalf("expected 4 rankings, got %d", len(rankings))
	}

	// Week 1 is complete, so roster 2 (the week 1 low scorer) is out and
	// the week 2 scores rank the survivors.
	exOrder := []string{"1", "3", "4", "2"}
	for i, r := range rankings {
		if r.Team.Info.TeamID != exOrder[i] {
			t.Errorf("rank %d: expected team %s, got %s", i+1, exOrder[i], r.Team.Info.TeamID)
		}
	}

	if rankings[3].EliminationStatus != model.StatusEliminated {
		t.Errorf("expected roster 2 eliminated, got %s", rankings[3].EliminationStatus)
	}
	if rankings[3].WeeksAlive != 1 {
		t.Errorf("expected roster 2 alive for 1 week, got %d", rankings[3].WeeksAlive)
	}
	if rankings[0].WeeklyPoints != 112.42 {
		t.Errorf("expected top score 112.42, got %f", rankings[0].WeeklyPoints)
	}
	if rankings[0].Team.Info.OwnerName != "SleeperUser" {
		t.Errorf("expected owner name resolved, got %q", rankings[0].Team.Info.OwnerName)
	}
}

func TestGetEliminationHistory(t *testing.T) {
	tc := testutils.NewTestController()
	defer tc.Close()
	ctrl := newTestController(t, tc)

	league := model.LeagueDescriptor{
		ID:       testutils.SleeperLeagueID,
		Platform: model.PlatformSleeper,
		Season:   "2024",
	}
	ctrl.WarmLeagues([]model.LeagueDescriptor{league}, 2)

	events, err := ctrl.GetEliminationHistory(context.Background(), model.PlatformSleeper, testutils.SleeperLeagueID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 elimination event, got %d", len(events))
	}

	ev := events[0]
	if ev.Week != 1 {
		t.Errorf("expected week 1, got %d", ev.Week)
	}
	// Roster 2 started Lamb (18.7) and Hockenson (9.2) for 27.9, a tenth of
	// a point behind roster 4.
	if ev.EliminatedTeamID != "2" {
		t.Errorf("expected roster 2 eliminated, got %s", ev.EliminatedTeamID)
	}
	if math.Abs(ev.EliminationScore-27.9) > 1e-6 {
		t.Errorf("expected elimination score 27.9, got %f", ev.EliminationScore)
	}
	if math.Abs(ev.Margin-0.1) > 1e-6 {
		t.Errorf("expected margin 0.1, got %f", ev.Margin)
	}
	if ev.DramaMeter < 9.5 {
		t.Errorf("expected a dramatic finish, got %f", ev.DramaMeter)
	}

	// History is immutable: asking again returns the same stored event.
	again, err := ctrl.GetEliminationHistory(context.Background(), model.PlatformSleeper, testutils.SleeperLeagueID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again) != 1 || again[0].EliminatedTeamID != ev.EliminatedTeamID {
		t.Errorf("expected the same event on a second read, got %v", again)
	}
}
