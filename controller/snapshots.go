package controller

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/mww/survivor_manager/model"
)

// teamTotal is one team's score line for a single week, with enough info
// attached to render it.
type teamTotal struct {
	Info      model.TeamInfo
	Actual    float64
	Projected float64
}

func (c *controller) WarmLeagues(descriptors []model.LeagueDescriptor, week int) {
	c.snapshots.Warm(descriptors, week)
}

func (c *controller) GetMatchup(ctx context.Context, id model.MatchupSnapshotID) (*model.MatchupSnapshot, error) {
	return c.snapshots.Hydrate(ctx, id)
}

func (c *controller) ListMatchups(ctx context.Context, platform model.Platform, leagueID string, week int) ([]model.MatchupSnapshot, error) {
	adapter := getPlatformAdapter(platform, c)

	raw, err := adapter.getMatchups(ctx, leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("listing matchups for %s league %s: %w", platform, leagueID, err)
	}

	matchupIDs := make([]int, 0, len(raw))
	seen := make(map[int]bool)
	for _, m := range raw {
		if !seen[m.MatchupID] {
			seen[m.MatchupID] = true
			matchupIDs = append(matchupIDs, m.MatchupID)
		}
	}
	sort.Ints(matchupIDs)

	var results []model.MatchupSnapshot
	for _, mid := range matchupIDs {
		id := model.MatchupSnapshotID{
			LeagueID:  leagueID,
			MatchupID: mid,
			Platform:  platform,
			Week:      week,
		}
		s, err := c.snapshots.Hydrate(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("skipping matchup %s: %v", id, err)
			continue
		}
		results = append(results, *s)
	}
	return results, nil
}

// FetchMatchup makes the controller the snapshot store's fetcher. It is the
// only path snapshots enter the cache through.
func (c *controller) FetchMatchup(ctx context.Context, id model.MatchupSnapshotID) (*model.MatchupSnapshot, error) {
	s, err := getPlatformAdapter(id.Platform, c).fetchMatchup(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.StartTime.IsZero() {
		s.StartTime = weekKickoff(c.seasonFor(id.Platform, id.LeagueID), id.Week)
	}
	return s, nil
}

// weekKickoff returns the Thursday that opens an NFL week. Neither platform
// reports per-game times on these payloads, so the week's opening night
// stands in as the matchup start.
func weekKickoff(season string, week int) time.Time {
	year, err := strconv.Atoi(season)
	if err != nil || week < 1 {
		return time.Time{}
	}
	d := time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Thursday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 7*(week-1))
}

// seasonFor resolves the season a league was warmed with, falling back to
// the current calendar year. NFL seasons are named for the year they start
// in, so January games still belong to the prior season.
func (c *controller) seasonFor(platform model.Platform, leagueID string) string {
	if d, ok := c.snapshots.Descriptor(platform, leagueID); ok && d.Season != "" {
		return d.Season
	}
	now := c.clock.Now()
	year := now.Year()
	if now.Month() < time.March {
		year--
	}
	return fmt.Sprintf("%d", year)
}

func rosterMap(rosters []model.RosterRecord) map[string]*model.RosterRecord {
	m := make(map[string]*model.RosterRecord, len(rosters))
	for i := range rosters {
		m[rosters[i].TeamID] = &rosters[i]
	}
	return m
}

func userMap(users []model.UserRecord) map[string]*model.UserRecord {
	m := make(map[string]*model.UserRecord, len(users))
	for i := range users {
		m[users[i].ID] = &users[i]
	}
	return m
}

func teamInfo(teamID string, r *model.RosterRecord, users map[string]*model.UserRecord) model.TeamInfo {
	info := model.TeamInfo{TeamID: teamID}
	if r != nil {
		info.Record = r.Record()
		if u, ok := users[r.OwnerID]; ok {
			info.OwnerName = u.DisplayName
			info.AvatarURL = u.AvatarURL
		}
	}
	// ESPN keys users by team id rather than owner id.
	if info.OwnerName == "" {
		if u, ok := users[teamID]; ok {
			info.OwnerName = u.DisplayName
			info.AvatarURL = u.AvatarURL
		}
	}
	return info
}

// playerGameStatus infers the state of a player's NFL game. A bye week is
// knowable from the schedule, and scoring activity marks a game underway.
func playerGameStatus(team *model.NFLTeam, week int, score float64) string {
	if team != nil && team.OnBye(week) {
		return "bye"
	}
	if score > 0 {
		return string(model.MatchupInProgress)
	}
	return string(model.MatchupScheduled)
}

// statusFromPoints infers matchup state from scoring activity. Platforms do
// not report a status directly on these payloads.
func statusFromPoints(matchups ...*model.RawMatchup) model.MatchupStatus {
	for _, m := range matchups {
		if m != nil && m.Points > 0 {
			return model.MatchupInProgress
		}
	}
	return model.MatchupScheduled
}

// winProbability splits probability by projected score, or by actual score
// once play has started and projections may be exhausted.
func winProbability(mine, opp *model.TeamScore, status model.MatchupStatus) float64 {
	a, b := mine.Projected, opp.Projected
	if status != model.MatchupScheduled && mine.Actual+opp.Actual > a+b {
		a, b = mine.Actual, opp.Actual
	}
	if a+b <= 0 {
		return 0.5
	}
	return a / (a + b)
}
