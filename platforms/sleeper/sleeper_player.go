package sleeper

import (
	"fmt"

	"github.com/mww/survivor_manager/model"
)

// sleeperPlayer is the raw shape from /v1/players/nfl. Sleeper carries the
// ESPN id for most players, which is what makes it the seed source for the
// canonical identity table.
type sleeperPlayer struct {
	ID           string `json:"player_id"`
	ESPNID       int    `json:"espn_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	Team         string `json:"team"`
	JerseyNumber int    `json:"number"`
	InjuryStatus string `json:"injury_status"`
	Active       bool   `json:"active"`
}

func (p *sleeperPlayer) toCanonicalPlayer() *model.CanonicalPlayer {
	return &model.CanonicalPlayer{
		ID:        p.ID,
		SleeperID: p.ID,
		ESPNID:    formatESPNID(p.ESPNID),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Position:  model.ParsePosition(p.Position),
		Team:      model.ParseTeam(p.Team),
		Jersey:    p.JerseyNumber,
	}
}

func formatESPNID(id int) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprintf("%d", id)
}
