package model

import (
	"fmt"
	"time"
)

// MatchupSnapshotID is the composite cache key for one league-matchup-week.
// It is value-equal: two snapshots with the same ID are the same cached
// entity.
type MatchupSnapshotID struct {
	LeagueID  string
	MatchupID int
	Platform  Platform
	Week      int
}

// String returns the stable cache-key form of the ID.
func (id MatchupSnapshotID) String() string {
	return fmt.Sprintf("%s:%s:%d:%d", id.Platform, id.LeagueID, id.MatchupID, id.Week)
}

type MatchupStatus string

const (
	MatchupScheduled  MatchupStatus = "scheduled"
	MatchupInProgress MatchupStatus = "inProgress"
	MatchupFinal      MatchupStatus = "final"
)

// MatchupSnapshot is an immutable capture of one matchup's state. A newer
// hydration supersedes it; it is never mutated in place.
type MatchupSnapshot struct {
	ID           MatchupSnapshotID
	MyTeam       TeamSnapshot
	OpponentTeam TeamSnapshot
	Status       MatchupStatus
	StartTime    time.Time
	LastUpdated  time.Time
}

type TeamSnapshot struct {
	Info   TeamInfo
	Score  TeamScore
	Roster []PlayerSnapshot
}

type TeamInfo struct {
	TeamID    string
	OwnerName string
	AvatarURL string
	Record    string
}

type TeamScore struct {
	Actual         float64
	Projected      float64
	WinProbability float64
}

// PlayerIdentity carries both platform ID schemes. A player may only be
// known under one of them; the canonicalizer resolves the rest.
type PlayerIdentity struct {
	SleeperID string
	ESPNID    string
	FirstName string
	LastName  string
}

type PlayerContext struct {
	Position     Position
	Team         *NFLTeam
	JerseyNumber int
	IsStarter    bool
	LineupSlot   string
	InjuryStatus string
}

type PlayerMetrics struct {
	CurrentScore   float64
	ProjectedScore float64
	GameStatus     string
}

type PlayerSnapshot struct {
	ID       string
	Identity PlayerIdentity
	Context  PlayerContext
	Metrics  PlayerMetrics
}

func (p *PlayerSnapshot) FullName() string {
	return fmt.Sprintf("%s %s", p.Identity.FirstName, p.Identity.LastName)
}
