package controller

import (
	"context"
	"errors"

	"github.com/mww/survivor_manager/db"
	"github.com/mww/survivor_manager/model"
)

// IdentityCanonicalizer maps platform-specific player IDs onto the canonical
// identity table. Sleeper IDs are the canonical scheme because sleeper's
// player feed carries ESPN IDs for most players, so the table is seeded from
// there by UpdatePlayers.
type IdentityCanonicalizer interface {
	BySleeperID(ctx context.Context, sleeperID string) (*model.CanonicalPlayer, error)
	ByESPNID(ctx context.Context, espnID string) (*model.CanonicalPlayer, error)
	// Resolve fills in whatever half of the identity is missing. It never
	// fails: an identity that cannot be matched comes back unchanged.
	Resolve(ctx context.Context, identity model.PlayerIdentity, team *model.NFLTeam) model.PlayerIdentity
}

type dbCanonicalizer struct {
	db db.DB
}

func newDBCanonicalizer(database db.DB) IdentityCanonicalizer {
	return &dbCanonicalizer{db: database}
}

func (dc *dbCanonicalizer) BySleeperID(ctx context.Context, sleeperID string) (*model.CanonicalPlayer, error) {
	return dc.db.GetPlayerBySleeperID(ctx, sleeperID)
}

func (dc *dbCanonicalizer) ByESPNID(ctx context.Context, espnID string) (*model.CanonicalPlayer, error) {
	return dc.db.GetPlayerByESPNID(ctx, espnID)
}

func (dc *dbCanonicalizer) Resolve(ctx context.Context, identity model.PlayerIdentity, team *model.NFLTeam) model.PlayerIdentity {
	var p *model.CanonicalPlayer
	var err error

	switch {
	case identity.SleeperID != "":
		p, err = dc.db.GetPlayerBySleeperID(ctx, identity.SleeperID)
	case identity.ESPNID != "":
		p, err = dc.db.GetPlayerByESPNID(ctx, identity.ESPNID)
	default:
		err = db.ErrPlayerNotFound
	}

	// Fall back to a name match. Ambiguous names miss rather than guess.
	if errors.Is(err, db.ErrPlayerNotFound) && identity.FirstName != "" {
		p, err = dc.db.GetPlayerByName(ctx, identity.FirstName, identity.LastName, team)
	}
	if err != nil || p == nil {
		return identity
	}

	resolved := identity
	if resolved.SleeperID == "" {
		resolved.SleeperID = p.SleeperID
	}
	if resolved.ESPNID == "" {
		resolved.ESPNID = p.ESPNID
	}
	if resolved.FirstName == "" {
		resolved.FirstName = p.FirstName
		resolved.LastName = p.LastName
	}
	return resolved
}
