package mockcontroller

import (
	"context"
	"sync"
	"time"

	"github.com/mww/survivor_manager/model"
	"github.com/stretchr/testify/mock"
)

type C struct {
	mock.Mock
}

func (c *C) Discover(ctx context.Context, sleeperUsername string, espnLeagueIDs []string, season string) ([]model.LeagueDescriptor, error) {
	args := c.Called(ctx, sleeperUsername, espnLeagueIDs, season)

	var res []model.LeagueDescriptor
	if args.Get(0) != nil {
		res = args.Get(0).([]model.LeagueDescriptor)
	}

	return res, args.Error(1)
}

func (c *C) ClassifyLeague(ctx context.Context, d model.LeagueDescriptor, week int) (model.LeagueMode, error) {
	args := c.Called(ctx, d, week)
	return args.Get(0).(model.LeagueMode), args.Error(1)
}

func (c *C) WarmLeagues(descriptors []model.LeagueDescriptor, week int) {
	c.Called(descriptors, week)
}

func (c *C) GetMatchup(ctx context.Context, id model.MatchupSnapshotID) (*model.MatchupSnapshot, error) {
	args := c.Called(ctx, id)

	var s *model.MatchupSnapshot
	if args.Get(0) != nil {
		s = args.Get(0).(*model.MatchupSnapshot)
	}

	return s, args.Error(1)
}

func (c *C) ListMatchups(ctx context.Context, platform model.Platform, leagueID string, week int) ([]model.MatchupSnapshot, error) {
	args := c.Called(ctx, platform, leagueID, week)

	var res []model.MatchupSnapshot
	if args.Get(0) != nil {
		res = args.Get(0).([]model.MatchupSnapshot)
	}

	return res, args.Error(1)
}

func (c *C) GetSurvivalRankings(ctx context.Context, platform model.Platform, leagueID string, week int) ([]model.FantasyTeamRanking, error) {
	args := c.Called(ctx, platform, leagueID, week)

	var res []model.FantasyTeamRanking
	if args.Get(0) != nil {
		res = args.Get(0).([]model.FantasyTeamRanking)
	}

	return res, args.Error(1)
}

func (c *C) GetEliminationHistory(ctx context.Context, platform model.Platform, leagueID string, throughWeek int) ([]model.EliminationEvent, error) {
	args := c.Called(ctx, platform, leagueID, throughWeek)

	var res []model.EliminationEvent
	if args.Get(0) != nil {
		res = args.Get(0).([]model.EliminationEvent)
	}

	return res, args.Error(1)
}

func (c *C) GetGameOdds(ctx context.Context, gameID string) (*model.GameOdds, error) {
	args := c.Called(ctx, gameID)

	var o *model.GameOdds
	if args.Get(0) != nil {
		o = args.Get(0).(*model.GameOdds)
	}

	return o, args.Error(1)
}

func (c *C) GetPlayerOdds(ctx context.Context, playerID string) (*model.PlayerOdds, error) {
	args := c.Called(ctx, playerID)

	var o *model.PlayerOdds
	if args.Get(0) != nil {
		o = args.Get(0).(*model.PlayerOdds)
	}

	return o, args.Error(1)
}

func (c *C) RefreshWeekOdds(ctx context.Context, week int) error {
	args := c.Called(ctx, week)
	return args.Error(0)
}

func (c *C) SetOddsRefreshInterval(ctx context.Context, minutes float64) error {
	args := c.Called(ctx, minutes)
	return args.Error(0)
}

func (c *C) ClearGameOddsCache(ctx context.Context) error {
	args := c.Called(ctx)
	return args.Error(0)
}

func (c *C) RunPeriodicOddsUpdates(frequency time.Duration, week func() int, shutdown chan bool, wg *sync.WaitGroup) {
	c.Called(frequency, week, shutdown, wg)
}

func (c *C) UpdatePlayers(ctx context.Context) error {
	args := c.Called(ctx)
	return args.Error(0)
}

func (c *C) RunPeriodicPlayerUpdates(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	c.Called(frequency, shutdown, wg)
}
