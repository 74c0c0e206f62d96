package controller

import (
	"context"
	"fmt"

	"github.com/mww/survivor_manager/model"
	"github.com/mww/survivor_manager/platforms/espn"
)

// espnAdapter maps the platform-neutral adapter operations onto the ESPN
// client. ESPN serves the whole league in one response, so each operation is
// a projection of the same GetLeague call.
type espnAdapter struct {
	c *controller
}

func (a *espnAdapter) league(ctx context.Context, leagueID string, week int) (*espn.League, error) {
	season := a.c.seasonFor(model.PlatformESPN, leagueID)
	if week < 1 {
		week = 1
	}
	return a.c.espn.GetLeague(ctx, leagueID, season, week)
}

func (a *espnAdapter) getRosters(ctx context.Context, leagueID string) ([]model.RosterRecord, error) {
	l, err := a.league(ctx, leagueID, 1)
	if err != nil {
		return nil, err
	}
	return l.Rosters, nil
}

func (a *espnAdapter) getUsers(ctx context.Context, leagueID string) ([]model.UserRecord, error) {
	l, err := a.league(ctx, leagueID, 1)
	if err != nil {
		return nil, err
	}
	return l.Users, nil
}

func (a *espnAdapter) getMatchups(ctx context.Context, leagueID string, week int) ([]model.RawMatchup, error) {
	l, err := a.league(ctx, leagueID, week)
	if err != nil {
		return nil, err
	}
	return l.Matchups, nil
}

func (a *espnAdapter) getScoringRules(ctx context.Context, leagueID, season string) (*model.ScoringRules, error) {
	l, err := a.c.espn.GetLeague(ctx, leagueID, season, 1)
	if err != nil {
		return nil, err
	}
	rules := l.Rules
	return &rules, nil
}

func (a *espnAdapter) getWeeklyTotals(ctx context.Context, leagueID, season string, week int) ([]teamTotal, error) {
	l, err := a.c.espn.GetLeague(ctx, leagueID, season, week)
	if err != nil {
		return nil, err
	}

	usersByID := userMap(l.Users)
	rostersByTeam := rosterMap(l.Rosters)

	if len(l.Matchups) > 0 {
		totals := make([]teamTotal, 0, len(l.Matchups))
		for _, m := range l.Matchups {
			totals = append(totals, teamTotal{
				Info:      teamInfo(m.TeamID, rostersByTeam[m.TeamID], usersByID),
				Actual:    m.Points,
				Projected: m.ProjectedPoints,
			})
		}
		return totals, nil
	}

	// Survivor leagues carry no schedule. The per-player applied totals
	// still come back on the roster view, so sum the starters.
	totals := make([]teamTotal, 0, len(l.Rosters))
	for i := range l.Rosters {
		r := &l.Rosters[i]
		var sum float64
		for _, pid := range r.Starters {
			sum += l.PlayerPoints[pid]
		}
		totals = append(totals, teamTotal{
			Info:   teamInfo(r.TeamID, r, usersByID),
			Actual: sum,
		})
	}
	return totals, nil
}

func (a *espnAdapter) fetchMatchup(ctx context.Context, id model.MatchupSnapshotID) (*model.MatchupSnapshot, error) {
	l, err := a.league(ctx, id.LeagueID, id.Week)
	if err != nil {
		return nil, err
	}

	var mine, theirs *model.RawMatchup
	for i := range l.Matchups {
		if l.Matchups[i].MatchupID != id.MatchupID {
			continue
		}
		if mine == nil {
			mine = &l.Matchups[i]
		} else {
			theirs = &l.Matchups[i]
		}
	}
	if mine == nil {
		return nil, fmt.Errorf("matchup %d not found in league %s week %d", id.MatchupID, id.LeagueID, id.Week)
	}

	rostersByTeam := rosterMap(l.Rosters)
	usersByID := userMap(l.Users)
	playersByID := make(map[string]*model.CanonicalPlayer, len(l.Players))
	for i := range l.Players {
		playersByID[l.Players[i].ESPNID] = &l.Players[i]
	}

	snapshot := &model.MatchupSnapshot{
		ID:          id,
		MyTeam:      a.teamSnapshot(ctx, mine, id.Week, l, rostersByTeam, usersByID, playersByID),
		Status:      statusFromPoints(mine, theirs),
		LastUpdated: a.c.clock.Now(),
	}
	if theirs != nil {
		snapshot.OpponentTeam = a.teamSnapshot(ctx, theirs, id.Week, l, rostersByTeam, usersByID, playersByID)
	}
	snapshot.MyTeam.Score.WinProbability = winProbability(&snapshot.MyTeam.Score, &snapshot.OpponentTeam.Score, snapshot.Status)
	snapshot.OpponentTeam.Score.WinProbability = 1 - snapshot.MyTeam.Score.WinProbability

	return snapshot, nil
}

func (a *espnAdapter) teamSnapshot(ctx context.Context, m *model.RawMatchup, week int, l *espn.League, rosters map[string]*model.RosterRecord, users map[string]*model.UserRecord, players map[string]*model.CanonicalPlayer) model.TeamSnapshot {
	r := rosters[m.TeamID]
	ts := model.TeamSnapshot{
		Info: teamInfo(m.TeamID, r, users),
		Score: model.TeamScore{
			Actual:    m.Points,
			Projected: m.ProjectedPoints,
		},
	}
	if r == nil {
		return ts
	}

	// Outside a live game ESPN reports no team projection; rebuild it from
	// the starters' individual projections.
	if ts.Score.Projected == 0 {
		for _, pid := range r.Starters {
			ts.Score.Projected += l.PlayerProjections[pid]
		}
	}

	starters := make(map[string]bool, len(r.Starters))
	for _, pid := range r.Starters {
		starters[pid] = true
	}

	for _, pid := range r.PlayerIDs {
		ps := model.PlayerSnapshot{
			ID:       pid,
			Identity: a.c.canonical.Resolve(ctx, model.PlayerIdentity{ESPNID: pid}, nil),
			Context: model.PlayerContext{
				IsStarter:    starters[pid],
				LineupSlot:   model.SlotBench,
				InjuryStatus: l.InjuryStatus[pid],
			},
			Metrics: model.PlayerMetrics{
				CurrentScore:   l.PlayerPoints[pid],
				ProjectedScore: l.PlayerProjections[pid],
			},
		}
		if p, ok := players[pid]; ok {
			if ps.Identity.FirstName == "" {
				ps.Identity.FirstName = p.FirstName
				ps.Identity.LastName = p.LastName
			}
			ps.Context.Position = p.Position
			ps.Context.Team = p.Team
		}
		if ps.Context.IsStarter {
			ps.Context.LineupSlot = string(ps.Context.Position)
		}
		ps.Metrics.GameStatus = playerGameStatus(ps.Context.Team, week, ps.Metrics.CurrentScore)
		ts.Roster = append(ts.Roster, ps)
	}
	return ts
}
