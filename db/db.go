package db

import (
	"context"
	"time"

	"github.com/mww/survivor_manager/model"
)

type DB interface {
	// Raw key-value settings.
	GetSetting(ctx context.Context, key string) (string, error)
	SaveSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error

	// Typed settings shared with the odds cache. The last-fetch timestamp
	// is process-wide, independent of any individual cache key.
	LastOddsFetch(ctx context.Context) (time.Time, error)
	SetLastOddsFetch(ctx context.Context, t time.Time) error
	ClearLastOddsFetch(ctx context.Context) error
	OddsRefreshInterval(ctx context.Context) (time.Duration, error)
	SetOddsRefreshInterval(ctx context.Context, d time.Duration) error

	// Canonical player identity mappings.
	SavePlayerMapping(ctx context.Context, p *model.CanonicalPlayer) error
	GetPlayerBySleeperID(ctx context.Context, sleeperID string) (*model.CanonicalPlayer, error)
	GetPlayerByESPNID(ctx context.Context, espnID string) (*model.CanonicalPlayer, error)
	GetPlayerByName(ctx context.Context, firstName, lastName string, team *model.NFLTeam) (*model.CanonicalPlayer, error)

	// Elimination history. Events are immutable: saving an event for a
	// league-week that already has one is a no-op.
	SaveEliminationEvent(ctx context.Context, platform model.Platform, leagueID string, ev *model.EliminationEvent) error
	GetEliminationEvents(ctx context.Context, platform model.Platform, leagueID string) ([]model.EliminationEvent, error)
}
