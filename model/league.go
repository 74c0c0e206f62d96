package model

import "fmt"

type Platform string

const (
	PlatformSleeper Platform = "sleeper"
	PlatformESPN    Platform = "espn"
)

func IsPlatformSupported(p string) bool {
	return p == string(PlatformSleeper) || p == string(PlatformESPN)
}

// LeagueMode describes how a league decides winners and losers. Sleeper
// reports an empty matchup list for survivor-style leagues, which is the
// same thing it reports for a league that failed to load, so the mode is
// only trusted after a roster validation pass.
type LeagueMode string

const (
	ModeUnknown             LeagueMode = "unknown"
	ModeHeadToHead          LeagueMode = "headToHead"
	ModeEliminationSurvivor LeagueMode = "eliminationSurvivor"
)

// LeagueDescriptor identifies a league independent of any week. Descriptors
// are created during discovery and never mutated.
type LeagueDescriptor struct {
	ID        string
	Name      string
	Platform  Platform
	AvatarURL string
	Season    string
}

// ScoringRules is the subset of league settings the aggregation layer needs.
type ScoringRules struct {
	PointsPerReception float64
	TotalTeams         int
	TotalWeeks         int
	PlayoffWeekStart   int
}

// RosterRecord is the shared intermediate shape both platform clients
// produce for a single team's roster.
type RosterRecord struct {
	TeamID    string
	OwnerID   string
	PlayerIDs []string
	Starters  []string
	Wins      int
	Losses    int
	Ties      int
}

func (r *RosterRecord) Record() string {
	if r.Ties > 0 {
		return fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.Ties)
	}
	return fmt.Sprintf("%d-%d", r.Wins, r.Losses)
}

// UserRecord is the shared intermediate shape for a league member.
type UserRecord struct {
	ID          string
	DisplayName string
	TeamName    string
	AvatarURL   string
}

// RawMatchup is one team's side of a matchup as reported by a platform.
// Two RawMatchups with the same MatchupID are opponents.
type RawMatchup struct {
	MatchupID       int
	TeamID          string
	Points          float64
	ProjectedPoints float64
	Starters        []string
	PlayerPoints    map[string]float64
}
