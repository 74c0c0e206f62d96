package controller

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mww/survivor_manager/cache"
	"github.com/mww/survivor_manager/db"
	"github.com/mww/survivor_manager/model"
	"github.com/mww/survivor_manager/platforms/espn"
	"github.com/mww/survivor_manager/platforms/oddsapi"
	"github.com/mww/survivor_manager/platforms/sleeper"
	"golang.org/x/sync/singleflight"
)

// C encapsulates business logic without worrying about any web layers
type C interface {
	// Discover merges leagues from both platforms into one list. A single
	// failing platform yields partial results; it only fails when both do.
	Discover(ctx context.Context, sleeperUsername string, espnLeagueIDs []string, season string) ([]model.LeagueDescriptor, error)
	// ClassifyLeague resolves the league's scoring mode. An empty matchup
	// list is only a survivor signal once rosters confirm the league is
	// actually populated.
	ClassifyLeague(ctx context.Context, d model.LeagueDescriptor, week int) (model.LeagueMode, error)

	WarmLeagues(descriptors []model.LeagueDescriptor, week int)
	GetMatchup(ctx context.Context, id model.MatchupSnapshotID) (*model.MatchupSnapshot, error)
	// ListMatchups hydrates every matchup of a league-week. One failing
	// matchup is skipped, not fatal.
	ListMatchups(ctx context.Context, platform model.Platform, leagueID string, week int) ([]model.MatchupSnapshot, error)

	GetSurvivalRankings(ctx context.Context, platform model.Platform, leagueID string, week int) ([]model.FantasyTeamRanking, error)
	GetEliminationHistory(ctx context.Context, platform model.Platform, leagueID string, throughWeek int) ([]model.EliminationEvent, error)

	GetGameOdds(ctx context.Context, gameID string) (*model.GameOdds, error)
	GetPlayerOdds(ctx context.Context, playerID string) (*model.PlayerOdds, error)
	RefreshWeekOdds(ctx context.Context, week int) error
	SetOddsRefreshInterval(ctx context.Context, minutes float64) error
	ClearGameOddsCache(ctx context.Context) error
	RunPeriodicOddsUpdates(frequency time.Duration, week func() int, shutdown chan bool, wg *sync.WaitGroup)

	// UpdatePlayers refreshes the canonical player-identity table from
	// sleeper, which carries ESPN ids for most players.
	UpdatePlayers(ctx context.Context) error
	RunPeriodicPlayerUpdates(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup)
}

type controller struct {
	clock      clock.Clock
	db         db.DB
	sleeper    sleeper.Client
	espn       *espn.Client
	odds       oddsapi.Client
	snapshots  *cache.SnapshotStore
	gameOdds   *cache.GameOddsCache
	playerOdds *cache.PlayerOddsCache
	canonical  IdentityCanonicalizer

	oddsGroup singleflight.Group

	mu            sync.Mutex
	sleeperUserID string
}

func New(clock clock.Clock, db db.DB, sleeperClient sleeper.Client, espnClient *espn.Client, oddsClient oddsapi.Client, oddsDataDir string) (C, error) {
	c := &controller{
		clock:      clock,
		db:         db,
		sleeper:    sleeperClient,
		espn:       espnClient,
		odds:       oddsClient,
		gameOdds:   cache.NewGameOddsCache(clock, db, oddsDataDir),
		playerOdds: cache.NewPlayerOddsCache(clock),
		canonical:  newDBCanonicalizer(db),
	}
	// The controller is the store's fetcher, so the store is built last.
	c.snapshots = cache.NewSnapshotStore(clock, c, cache.MatchupTTL)
	return c, nil
}

// When we need to make calls that are specific to a platform, grab a
// platform adapter and it will do it. This is internal to the controller
// package.
type platformAdapter interface {
	getRosters(ctx context.Context, leagueID string) ([]model.RosterRecord, error)
	getUsers(ctx context.Context, leagueID string) ([]model.UserRecord, error)
	getMatchups(ctx context.Context, leagueID string, week int) ([]model.RawMatchup, error)
	getScoringRules(ctx context.Context, leagueID, season string) (*model.ScoringRules, error)
	getWeeklyTotals(ctx context.Context, leagueID, season string, week int) ([]teamTotal, error)
	fetchMatchup(ctx context.Context, id model.MatchupSnapshotID) (*model.MatchupSnapshot, error)
}

func getPlatformAdapter(platform model.Platform, c *controller) platformAdapter {
	switch platform {
	case model.PlatformSleeper:
		return &sleeperAdapter{c}
	case model.PlatformESPN:
		return &espnAdapter{c}
	default:
		return &nilPlatformAdapter{err: fmt.Errorf("%s is not a supported platform", platform)}
	}
}

// nilPlatformAdapter exists so that we can always return an adapter and
// simplify the usage. It eliminates the need for an extra error check.
type nilPlatformAdapter struct {
	err error
}

func (a *nilPlatformAdapter) getRosters(ctx context.Context, leagueID string) ([]model.RosterRecord, error) {
	return nil, a.err
}

func (a *nilPlatformAdapter) getUsers(ctx context.Context, leagueID string) ([]model.UserRecord, error) {
	return nil, a.err
}

func (a *nilPlatformAdapter) getMatchups(ctx context.Context, leagueID string, week int) ([]model.RawMatchup, error) {
	return nil, a.err
}

func (a *nilPlatformAdapter) getScoringRules(ctx context.Context, leagueID, season string) (*model.ScoringRules, error) {
	return nil, a.err
}

func (a *nilPlatformAdapter) getWeeklyTotals(ctx context.Context, leagueID, season string, week int) ([]teamTotal, error) {
	return nil, a.err
}

func (a *nilPlatformAdapter) fetchMatchup(ctx context.Context, id model.MatchupSnapshotID) (*model.MatchupSnapshot, error) {
	return nil, a.err
}

func (c *controller) UpdatePlayers(ctx context.Context) error {
	start := c.clock.Now()
	players, err := c.sleeper.LoadPlayers(ctx)
	if err != nil {
		return fmt.Errorf("error loading players from sleeper: %w", err)
	}

	for _, p := range players {
		if err := c.db.SavePlayerMapping(ctx, &p); err != nil {
			return fmt.Errorf("error saving player mapping (%s %s): %w", p.FirstName, p.LastName, err)
		}
	}

	log.Printf("player identity update finished, took %v", time.Since(start))
	return nil
}

func (c *controller) RunPeriodicPlayerUpdates(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	ticker := time.NewTicker(frequency)
	defer wg.Done()

	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)

			if err := c.UpdatePlayers(ctx); err != nil {
				log.Printf("%v", err)
			}
			cancel()
		}
	}
}

func (c *controller) setSleeperUserID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeperUserID = id
}

func (c *controller) getSleeperUserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeperUserID
}
