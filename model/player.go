package model

import "time"

// CanonicalPlayer is the cross-platform identity record for one player.
// Sleeper and ESPN each use their own ID scheme; this row joins them so a
// player seen under either scheme resolves to one canonical ID.
type CanonicalPlayer struct {
	ID        string
	SleeperID string
	ESPNID    string
	FirstName string
	LastName  string
	Position  Position
	Team      *NFLTeam
	Jersey    int
	Updated   time.Time
}

func (p *CanonicalPlayer) FormattedUpdatedTime() string {
	if p.Updated.IsZero() {
		return "unknown"
	}
	return p.Updated.Format(time.DateTime)
}
