package controller

import (
	"context"
	"fmt"
	"log"

	"github.com/mww/survivor_manager/model"
)

// sleeperAdapter maps the platform-neutral adapter operations onto the
// sleeper client.
type sleeperAdapter struct {
	c *controller
}

func (a *sleeperAdapter) getRosters(ctx context.Context, leagueID string) ([]model.RosterRecord, error) {
	return a.c.sleeper.GetRosters(ctx, leagueID)
}

func (a *sleeperAdapter) getUsers(ctx context.Context, leagueID string) ([]model.UserRecord, error) {
	return a.c.sleeper.GetUsers(ctx, leagueID)
}

func (a *sleeperAdapter) getMatchups(ctx context.Context, leagueID string, week int) ([]model.RawMatchup, error) {
	return a.c.sleeper.GetMatchups(ctx, leagueID, week)
}

func (a *sleeperAdapter) getScoringRules(ctx context.Context, leagueID, season string) (*model.ScoringRules, error) {
	return a.c.sleeper.GetLeague(ctx, leagueID)
}

// getWeeklyTotals computes every team's score for one week. Head-to-head
// leagues report it directly on the matchup; survivor leagues have no
// matchups at all, so the total is rebuilt from starters and the league-wide
// stats feed.
func (a *sleeperAdapter) getWeeklyTotals(ctx context.Context, leagueID, season string, week int) ([]teamTotal, error) {
	rosters, err := a.c.sleeper.GetRosters(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	users, err := a.c.sleeper.GetUsers(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	matchups, err := a.c.sleeper.GetMatchups(ctx, leagueID, week)
	if err != nil {
		return nil, err
	}

	usersByID := userMap(users)

	if len(matchups) > 0 {
		totals := make([]teamTotal, 0, len(matchups))
		rostersByTeam := rosterMap(rosters)
		for _, m := range matchups {
			r := rostersByTeam[m.TeamID]
			totals = append(totals, teamTotal{
				Info:      teamInfo(m.TeamID, r, usersByID),
				Actual:    m.Points,
				Projected: m.ProjectedPoints,
			})
		}
		return totals, nil
	}

	stats, err := a.c.sleeper.GetWeekStats(ctx, season, week)
	if err != nil {
		return nil, err
	}

	totals := make([]teamTotal, 0, len(rosters))
	for i := range rosters {
		r := &rosters[i]
		var sum float64
		for _, pid := range r.Starters {
			sum += stats[pid]
		}
		totals = append(totals, teamTotal{
			Info:   teamInfo(r.TeamID, r, usersByID),
			Actual: sum,
		})
	}
	return totals, nil
}

func (a *sleeperAdapter) fetchMatchup(ctx context.Context, id model.MatchupSnapshotID) (*model.MatchupSnapshot, error) {
	matchups, err := a.c.sleeper.GetMatchups(ctx, id.LeagueID, id.Week)
	if err != nil {
		return nil, err
	}

	var mine, theirs *model.RawMatchup
	for i := range matchups {
		if matchups[i].MatchupID != id.MatchupID {
			continue
		}
		if mine == nil {
			mine = &matchups[i]
		} else {
			theirs = &matchups[i]
		}
	}
	if mine == nil {
		return nil, fmt.Errorf("matchup %d not found in league %s week %d", id.MatchupID, id.LeagueID, id.Week)
	}

	rosters, err := a.c.sleeper.GetRosters(ctx, id.LeagueID)
	if err != nil {
		return nil, err
	}
	users, err := a.c.sleeper.GetUsers(ctx, id.LeagueID)
	if err != nil {
		return nil, err
	}

	rostersByTeam := rosterMap(rosters)
	usersByID := userMap(users)

	// Projections decorate the snapshot; a miss must not fail the fetch.
	season := a.c.seasonFor(model.PlatformSleeper, id.LeagueID)
	projections, err := a.c.sleeper.GetWeekProjections(ctx, season, id.Week)
	if err != nil {
		log.Printf("week %d projections unavailable: %v", id.Week, err)
		projections = nil
	}

	// Orient the snapshot so the requesting user's team is always MyTeam.
	if theirs != nil && a.c.getSleeperUserID() != "" {
		if r, ok := rostersByTeam[theirs.TeamID]; ok && r.OwnerID == a.c.getSleeperUserID() {
			mine, theirs = theirs, mine
		}
	}

	snapshot := &model.MatchupSnapshot{
		ID:          id,
		MyTeam:      a.teamSnapshot(ctx, mine, id.Week, rostersByTeam, usersByID, projections),
		Status:      statusFromPoints(mine, theirs),
		LastUpdated: a.c.clock.Now(),
	}
	if theirs != nil {
		snapshot.OpponentTeam = a.teamSnapshot(ctx, theirs, id.Week, rostersByTeam, usersByID, projections)
	}
	snapshot.MyTeam.Score.WinProbability = winProbability(&snapshot.MyTeam.Score, &snapshot.OpponentTeam.Score, snapshot.Status)
	snapshot.OpponentTeam.Score.WinProbability = 1 - snapshot.MyTeam.Score.WinProbability

	return snapshot, nil
}

func (a *sleeperAdapter) teamSnapshot(ctx context.Context, m *model.RawMatchup, week int, rosters map[string]*model.RosterRecord, users map[string]*model.UserRecord, projections map[string]float64) model.TeamSnapshot {
	r := rosters[m.TeamID]
	ts := model.TeamSnapshot{
		Info: teamInfo(m.TeamID, r, users),
		Score: model.TeamScore{
			Actual:    m.Points,
			Projected: m.ProjectedPoints,
		},
	}
	// Sleeper matchups carry no team projection; rebuild it from the
	// starters' individual projections.
	if ts.Score.Projected == 0 {
		for _, pid := range m.Starters {
			ts.Score.Projected += projections[pid]
		}
	}
	if r == nil {
		return ts
	}

	starters := make(map[string]bool, len(m.Starters))
	for _, pid := range m.Starters {
		starters[pid] = true
	}

	for _, pid := range r.PlayerIDs {
		ps := model.PlayerSnapshot{
			ID:       pid,
			Identity: model.PlayerIdentity{SleeperID: pid},
			Context: model.PlayerContext{
				IsStarter:  starters[pid],
				LineupSlot: model.SlotBench,
			},
			Metrics: model.PlayerMetrics{
				CurrentScore:   m.PlayerPoints[pid],
				ProjectedScore: projections[pid],
			},
		}
		if p, err := a.c.canonical.BySleeperID(ctx, pid); err == nil {
			ps.Identity.ESPNID = p.ESPNID
			ps.Identity.FirstName = p.FirstName
			ps.Identity.LastName = p.LastName
			ps.Context.Position = p.Position
			ps.Context.Team = p.Team
			ps.Context.JerseyNumber = p.Jersey
		}
		if ps.Context.IsStarter {
			ps.Context.LineupSlot = string(ps.Context.Position)
		}
		ps.Metrics.GameStatus = playerGameStatus(ps.Context.Team, week, ps.Metrics.CurrentScore)
		ts.Roster = append(ts.Roster, ps)
	}
	return ts
}
