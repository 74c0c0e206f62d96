package sleeper

import (
	"fmt"

	"github.com/mww/survivor_manager/model"
)

const avatarURLFormat = "https://sleepercdn.com/avatars/thumbs/%s"

type sleeperUser struct {
	ID          string        `json:"user_id"`
	Username    string        `json:"username"`
	DisplayName string        `json:"display_name"`
	Avatar      string        `json:"avatar"`
	Metadata    *userMetadata `json:"metadata"`
}

type userMetadata struct {
	TeamName string `json:"team_name"`
}

func (u *sleeperUser) toUserRecord() model.UserRecord {
	r := model.UserRecord{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AvatarURL:   avatarURL(u.Avatar),
	}
	if u.Metadata != nil {
		r.TeamName = u.Metadata.TeamName
	}
	return r
}

type sleeperLeague struct {
	ID              string             `json:"league_id"`
	Name            string             `json:"name"`
	Season          string             `json:"season"`
	Avatar          string             `json:"avatar"`
	TotalRosters    int                `json:"total_rosters"`
	Settings        *leagueSettings    `json:"settings"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
}

type leagueSettings struct {
	PlayoffWeekStart int `json:"playoff_week_start"`
	Leg              int `json:"leg"`
}

func (l *sleeperLeague) toDescriptor() model.LeagueDescriptor {
	return model.LeagueDescriptor{
		ID:        l.ID,
		Name:      l.Name,
		Platform:  model.PlatformSleeper,
		AvatarURL: avatarURL(l.Avatar),
		Season:    l.Season,
	}
}

func (l *sleeperLeague) toScoringRules() *model.ScoringRules {
	rules := &model.ScoringRules{
		TotalTeams: l.TotalRosters,
		TotalWeeks: 17,
	}
	if l.ScoringSettings != nil {
		rules.PointsPerReception = l.ScoringSettings["rec"]
	}
	if l.Settings != nil {
		rules.PlayoffWeekStart = l.Settings.PlayoffWeekStart
		if l.Settings.PlayoffWeekStart > 1 {
			rules.TotalWeeks = l.Settings.PlayoffWeekStart - 1
		}
	}
	return rules
}

type sleeperRoster struct {
	RosterID int             `json:"roster_id"`
	OwnerID  string          `json:"owner_id"`
	Players  []string        `json:"players"`
	Starters []string        `json:"starters"`
	Settings *rosterSettings `json:"settings"`
}

type rosterSettings struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

func (r *sleeperRoster) toRosterRecord() model.RosterRecord {
	rec := model.RosterRecord{
		TeamID:    fmt.Sprintf("%d", r.RosterID),
		OwnerID:   r.OwnerID,
		PlayerIDs: r.Players,
		Starters:  r.Starters,
	}
	if r.Settings != nil {
		rec.Wins = r.Settings.Wins
		rec.Losses = r.Settings.Losses
		rec.Ties = r.Settings.Ties
	}
	return rec
}

type sleeperMatchup struct {
	MatchupID    int                `json:"matchup_id"`
	RosterID     int                `json:"roster_id"`
	Points       float64            `json:"points"`
	CustomPoints *float64           `json:"custom_points"`
	Starters     []string           `json:"starters"`
	PlayerPoints map[string]float64 `json:"players_points"`
}

func (m *sleeperMatchup) toRawMatchup() model.RawMatchup {
	points := m.Points
	if m.CustomPoints != nil {
		// A commissioner override replaces the computed score.
		points = *m.CustomPoints
	}
	return model.RawMatchup{
		MatchupID:    m.MatchupID,
		TeamID:       fmt.Sprintf("%d", m.RosterID),
		Points:       points,
		Starters:     m.Starters,
		PlayerPoints: m.PlayerPoints,
	}
}

type sleeperPlayerStats struct {
	PointsPPR float64 `json:"pts_ppr"`
}

func avatarURL(avatar string) string {
	if avatar == "" {
		return ""
	}
	return fmt.Sprintf(avatarURLFormat, avatar)
}
