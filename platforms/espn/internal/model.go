package internal

import (
	"fmt"

	"github.com/mww/survivor_manager/model"
)

type LeagueResponse struct {
	ID              int            `json:"id"`
	ScoringPeriodID int            `json:"scoringPeriodId"`
	SeasonID        int            `json:"seasonId"`
	Status          Status         `json:"status"`
	Settings        Settings       `json:"settings"`
	Teams           []Team         `json:"teams"`
	Schedule        []MatchupScore `json:"schedule"`
}

type Settings struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type Status struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	FirstScoringPeriod   int  `json:"firstScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbrev"`
	Name         string `json:"name"`
	Roster       Roster `json:"roster"`
	Record       Record `json:"record"`
}

type Roster struct {
	Entries []RosterEntry `json:"entries"`
}

type Record struct {
	Overall RecordDetails `json:"overall"`
}

type RecordDetails struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

type MatchupScore struct {
	ID              int       `json:"id"`
	MatchupPeriodID int       `json:"matchupPeriodId"`
	Away            TeamScore `json:"away"`
	Home            TeamScore `json:"home"`
	Winner          string    `json:"winner"`
}

type TeamScore struct {
	TeamID                   int     `json:"teamId"`
	TotalPoints              float64 `json:"totalPoints"`
	TotalPointsLive          float64 `json:"totalPointsLive"`
	TotalProjectedPointsLive float64 `json:"totalProjectedPointsLive"`
}

type RosterEntry struct {
	PlayerPoolEntry PlayerPoolEntry `json:"playerPoolEntry"`
	LineupSlotID    int             `json:"lineupSlotId"`
}

type PlayerPoolEntry struct {
	ID               int     `json:"id"`
	AppliedStatTotal float64 `json:"appliedStatTotal"`
	Player           Player  `json:"player"`
}

type Player struct {
	ID                int          `json:"id"`
	FirstName         string       `json:"firstName"`
	LastName          string       `json:"lastName"`
	DefaultPositionID int          `json:"defaultPositionId"`
	ProTeamID         int          `json:"proTeamId"`
	InjuryStatus      string       `json:"injuryStatus"`
	Stats             []PlayerStat `json:"stats"`
}

// PlayerStat is one entry in a player's stat splits. statSourceId 0 carries
// actuals and 1 carries projections.
type PlayerStat struct {
	ScoringPeriodID int     `json:"scoringPeriodId"`
	StatSourceID    int     `json:"statSourceId"`
	AppliedTotal    float64 `json:"appliedTotal"`
}

const statSourceProjected = 1

// defaultPositions maps ESPN's defaultPositionId to position names. ESPN
// never sends jersey numbers or bye weeks in these payloads.
var defaultPositions = map[int]string{
	1:  "QB",
	2:  "RB",
	3:  "WR",
	4:  "TE",
	5:  "K",
	16: "DST",
}

func PositionFor(defaultPositionID int) model.Position {
	return model.ParsePosition(defaultPositions[defaultPositionID])
}

func ToUserRecord(t *Team) model.UserRecord {
	return model.UserRecord{
		ID:          fmt.Sprintf("%d", t.ID),
		DisplayName: t.Abbreviation,
		TeamName:    t.Name,
	}
}

func ToRosterRecord(t *Team) model.RosterRecord {
	r := model.RosterRecord{
		TeamID: fmt.Sprintf("%d", t.ID),
		Wins:   t.Record.Overall.Wins,
		Losses: t.Record.Overall.Losses,
		Ties:   t.Record.Overall.Ties,
	}
	for _, e := range t.Roster.Entries {
		id := fmt.Sprintf("%d", e.PlayerPoolEntry.Player.ID)
		r.PlayerIDs = append(r.PlayerIDs, id)
		if model.IsStartingSlot(model.LineupSlotForESPN(e.LineupSlotID)) {
			r.Starters = append(r.Starters, id)
		}
	}
	return r
}

// InjuryStatusFor collects injury designations keyed by ESPN player id.
func InjuryStatusFor(t *Team) map[string]string {
	statuses := make(map[string]string, len(t.Roster.Entries))
	for _, e := range t.Roster.Entries {
		if s := e.PlayerPoolEntry.Player.InjuryStatus; s != "" && s != "ACTIVE" {
			statuses[fmt.Sprintf("%d", e.PlayerPoolEntry.Player.ID)] = s
		}
	}
	return statuses
}

// ProjectedPointsFor collects the week's projected totals for every player
// on a team's roster, keyed by ESPN player id. Players without a projection
// split for the week are left out.
func ProjectedPointsFor(t *Team, week int) map[string]float64 {
	points := make(map[string]float64, len(t.Roster.Entries))
	for _, e := range t.Roster.Entries {
		for _, s := range e.PlayerPoolEntry.Player.Stats {
			if s.StatSourceID == statSourceProjected && s.ScoringPeriodID == week {
				points[fmt.Sprintf("%d", e.PlayerPoolEntry.Player.ID)] = s.AppliedTotal
			}
		}
	}
	return points
}

// PlayerPointsFor collects the week's applied totals for every player on a
// team's roster, keyed by ESPN player id.
func PlayerPointsFor(t *Team) map[string]float64 {
	points := make(map[string]float64, len(t.Roster.Entries))
	for _, e := range t.Roster.Entries {
		points[fmt.Sprintf("%d", e.PlayerPoolEntry.Player.ID)] = e.PlayerPoolEntry.AppliedStatTotal
	}
	return points
}

func ToCanonicalPlayers(t *Team) []model.CanonicalPlayer {
	players := make([]model.CanonicalPlayer, 0, len(t.Roster.Entries))
	for _, e := range t.Roster.Entries {
		p := e.PlayerPoolEntry.Player
		players = append(players, model.CanonicalPlayer{
			ID:        fmt.Sprintf("espn-%d", p.ID),
			ESPNID:    fmt.Sprintf("%d", p.ID),
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Position:  PositionFor(p.DefaultPositionID),
			Team:      model.TeamForESPNID(p.ProTeamID),
		})
	}
	return players
}

// ToRawMatchups splits one schedule entry into the two per-team shapes the
// unifier works with. Live totals supersede the settled ones while a game
// is being played.
func ToRawMatchups(m *MatchupScore) []model.RawMatchup {
	return []model.RawMatchup{
		toRawMatchup(m.ID, &m.Home),
		toRawMatchup(m.ID, &m.Away),
	}
}

func toRawMatchup(matchupID int, ts *TeamScore) model.RawMatchup {
	points := ts.TotalPoints
	if ts.TotalPointsLive > 0 {
		points = ts.TotalPointsLive
	}
	return model.RawMatchup{
		MatchupID:       matchupID,
		TeamID:          fmt.Sprintf("%d", ts.TeamID),
		Points:          points,
		ProjectedPoints: ts.TotalProjectedPointsLive,
	}
}
