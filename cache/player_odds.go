package cache

import (
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mww/survivor_manager/model"
)

// PlayerOddsTTL is deliberately long: player prop lines move slowly
// compared to live scores.
const PlayerOddsTTL = 1 * time.Hour

// PlayerOddsCache holds per-player prop lines. "No odds found" results go
// through the same write path as hits but are stored already expired, so a
// transient miss is retried on the very next request instead of being
// suppressed for a full hour.
type PlayerOddsCache struct {
	clock clock.Clock
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]Entry[model.PlayerOdds]
}

func NewPlayerOddsCache(clock clock.Clock) *PlayerOddsCache {
	return &PlayerOddsCache{
		clock:   clock,
		ttl:     PlayerOddsTTL,
		entries: make(map[string]Entry[model.PlayerOdds]),
	}
}

// Get returns the cached line for a player. ok is false when the entry is
// missing or expired, including every not-found entry.
func (c *PlayerOddsCache) Get(playerID string) (model.PlayerOdds, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[playerID]
	if !ok || !e.Valid(c.clock.Now(), c.ttl) {
		return model.PlayerOdds{}, false
	}
	return e.Value, true
}

// Put stores a lookup result. Not-found results are backdated past the TTL.
func (c *PlayerOddsCache) Put(odds model.PlayerOdds) {
	ts := c.clock.Now()
	if !odds.Found {
		ts = ts.Add(-c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[odds.PlayerID] = Entry[model.PlayerOdds]{Value: odds, Timestamp: ts}
}

// Len reports how many entries are held, expired ones included.
func (c *PlayerOddsCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *PlayerOddsCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry[model.PlayerOdds])
}
