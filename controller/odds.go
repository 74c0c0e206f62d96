package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mww/survivor_manager/cache"
	"github.com/mww/survivor_manager/model"
)

// GetGameOdds serves odds for one game from the dual-tier cache, fetching
// from the odds API only on a miss. Concurrent misses for the same game
// share one fetch, and a fetch that raced a cache clear is re-fetched under
// the new generation rather than written back stale.
func (c *controller) GetGameOdds(ctx context.Context, gameID string) (*model.GameOdds, error) {
	odds, err := c.gameOdds.Load(ctx, gameID)
	if err == nil {
		return &odds, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}

	v, err, _ := c.oddsGroup.Do(fmt.Sprintf("game:%s", gameID), func() (any, error) {
		generation := c.gameOdds.Generation()

		fresh, err := c.odds.GetGameOdds(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("fetching odds for game %s: %w", gameID, err)
		}

		c.gameOdds.Persist(ctx, *fresh, gameID, generation)
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.GameOdds), nil
}

func (c *controller) GetPlayerOdds(ctx context.Context, playerID string) (*model.PlayerOdds, error) {
	if odds, ok := c.playerOdds.Get(playerID); ok {
		return &odds, nil
	}

	v, err, _ := c.oddsGroup.Do(fmt.Sprintf("player:%s", playerID), func() (any, error) {
		fresh, err := c.odds.GetPlayerOdds(ctx, playerID)
		if err != nil {
			return nil, fmt.Errorf("fetching prop odds for player %s: %w", playerID, err)
		}

		c.playerOdds.Put(*fresh)
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.PlayerOdds), nil
}

// RefreshWeekOdds fetches the full week's games in one call and persists
// each of them, so individual GetGameOdds calls afterwards are cache hits.
func (c *controller) RefreshWeekOdds(ctx context.Context, week int) error {
	generation := c.gameOdds.Generation()

	games, err := c.odds.GetWeekOdds(ctx, week)
	if err != nil {
		return fmt.Errorf("refreshing odds for week %d: %w", week, err)
	}

	for _, g := range games {
		c.gameOdds.Persist(ctx, g, g.GameID, generation)
	}
	log.Printf("refreshed odds for %d games in week %d", len(games), week)
	return nil
}

func (c *controller) SetOddsRefreshInterval(ctx context.Context, minutes float64) error {
	d := time.Duration(minutes * float64(time.Minute))
	if d < cache.MinOddsRefreshInterval {
		return fmt.Errorf("refresh interval %.1f minutes is below the %v minimum", minutes, cache.MinOddsRefreshInterval)
	}
	return c.db.SetOddsRefreshInterval(ctx, d)
}

func (c *controller) ClearGameOddsCache(ctx context.Context) error {
	c.playerOdds.Clear()
	return c.gameOdds.Clear(ctx)
}

// RunPeriodicOddsUpdates refreshes the current week's odds on a fixed
// cadence. The week func is consulted every tick since the week rolls over
// while the process is running.
func (c *controller) RunPeriodicOddsUpdates(frequency time.Duration, week func() int, shutdown chan bool, wg *sync.WaitGroup) {
	ticker := time.NewTicker(frequency)
	defer wg.Done()

	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

			if err := c.RefreshWeekOdds(ctx, week()); err != nil {
				log.Printf("%v", err)
			}
			cancel()
		}
	}
}
