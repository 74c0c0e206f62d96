package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mww/survivor_manager/model"
)

const (
	// DefaultOddsRefreshInterval is used when the user has never
	// configured one.
	DefaultOddsRefreshInterval = 15 * time.Minute
	// MinOddsRefreshInterval is the floor for user-configured intervals.
	MinOddsRefreshInterval = 1 * time.Minute
)

// ErrCacheMiss signals that the caller must fetch fresh data and persist
// it. It is control flow, not a failure.
var ErrCacheMiss = errors.New("cache miss")

// Settings is the durable key-value tier the odds cache shares state
// through: one process-wide last-fetch timestamp, independent of any
// individual key, and the user's refresh interval.
type Settings interface {
	LastOddsFetch(ctx context.Context) (time.Time, error)
	SetLastOddsFetch(ctx context.Context, t time.Time) error
	ClearLastOddsFetch(ctx context.Context) error
	OddsRefreshInterval(ctx context.Context) (time.Duration, error)
	SetOddsRefreshInterval(ctx context.Context, d time.Duration) error
}

// GameOddsCache is a dual-tier cache for betting odds: an in-memory map
// consulted first, and one JSON file per key on disk guarded by the shared
// last-fetch timestamp. Odds are a soft dependency, so the write path
// never fails the caller.
type GameOddsCache struct {
	clock    clock.Clock
	settings Settings
	dataDir  string

	mu         sync.Mutex
	mem        map[string]Entry[model.GameOdds]
	generation uint64
}

func NewGameOddsCache(clock clock.Clock, settings Settings, dataDir string) *GameOddsCache {
	return &GameOddsCache{
		clock:    clock,
		settings: settings,
		dataDir:  dataDir,
		mem:      make(map[string]Entry[model.GameOdds]),
	}
}

// Generation returns the token a fetch must carry into Persist. A clear
// issued after the fetch started invalidates the token, so the fetch's
// write-back cannot resurrect cleared data.
func (c *GameOddsCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Load returns the cached odds for key, or ErrCacheMiss when both tiers
// are cold or stale.
func (c *GameOddsCache) Load(ctx context.Context, key string) (model.GameOdds, error) {
	ttl := c.ttl(ctx)
	now := c.clock.Now()

	c.mu.Lock()
	if e, ok := c.mem[key]; ok && e.Valid(now, ttl) {
		c.mu.Unlock()
		return e.Value, nil
	}
	c.mu.Unlock()

	// The disk tier is guarded by the single shared timestamp, not a
	// per-file one.
	last, err := c.settings.LastOddsFetch(ctx)
	if err != nil {
		log.Printf("error reading last odds fetch time: %v", err)
		return model.GameOdds{}, ErrCacheMiss
	}
	if last.IsZero() || now.Sub(last) >= ttl {
		return model.GameOdds{}, ErrCacheMiss
	}

	odds, err := c.readFile(key)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("error reading odds file for %s: %v", key, err)
		}
		return model.GameOdds{}, ErrCacheMiss
	}

	c.mu.Lock()
	c.mem[key] = Entry[model.GameOdds]{Value: odds, Timestamp: last}
	c.mu.Unlock()

	return odds, nil
}

// Persist writes odds to both tiers and updates the shared timestamp. It
// never fails the caller; write errors are logged and swallowed. A persist
// carrying a generation older than the current one is discarded: a clear
// happened while the fetch was in flight.
func (c *GameOddsCache) Persist(ctx context.Context, odds model.GameOdds, key string, generation uint64) {
	now := c.clock.Now()

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		log.Printf("discarding stale odds write for %s: cache was cleared mid-fetch", key)
		return
	}
	c.mem[key] = Entry[model.GameOdds]{Value: odds, Timestamp: now}
	c.mu.Unlock()

	if err := c.writeFile(key, odds); err != nil {
		log.Printf("error writing odds file for %s: %v", key, err)
	}

	if err := c.settings.SetLastOddsFetch(ctx, now); err != nil {
		log.Printf("error saving last odds fetch time: %v", err)
	}
}

// Clear atomically drops the memory tier, deletes the odds files, and
// removes the shared timestamp. Safe to call while a fetch is in flight;
// the generation bump makes that fetch's Persist a no-op.
func (c *GameOddsCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.mem = make(map[string]Entry[model.GameOdds])
	c.generation++
	c.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(c.dataDir, "odds_*.json"))
	if err != nil {
		return fmt.Errorf("error listing odds files: %w", err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			log.Printf("error removing odds file %s: %v", m, err)
		}
	}

	if err := c.settings.ClearLastOddsFetch(ctx); err != nil {
		return fmt.Errorf("error clearing last odds fetch time: %w", err)
	}
	return nil
}

func (c *GameOddsCache) ttl(ctx context.Context) time.Duration {
	d, err := c.settings.OddsRefreshInterval(ctx)
	if err != nil {
		log.Printf("error reading odds refresh interval, using default: %v", err)
		return DefaultOddsRefreshInterval
	}
	if d < MinOddsRefreshInterval {
		return MinOddsRefreshInterval
	}
	return d
}

func (c *GameOddsCache) fileName(key string) string {
	// Keys can contain characters that are not filename-safe.
	r := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "_")
	return filepath.Join(c.dataDir, fmt.Sprintf("odds_%s.json", r.Replace(key)))
}

func (c *GameOddsCache) readFile(key string) (model.GameOdds, error) {
	var odds model.GameOdds

	b, err := os.ReadFile(c.fileName(key))
	if err != nil {
		return odds, err
	}

	if err := json.Unmarshal(b, &odds); err != nil {
		return odds, fmt.Errorf("error parsing odds file: %w", err)
	}
	return odds, nil
}

func (c *GameOddsCache) writeFile(key string, odds model.GameOdds) error {
	b, err := json.Marshal(odds)
	if err != nil {
		return fmt.Errorf("error encoding odds: %w", err)
	}
	return os.WriteFile(c.fileName(key), b, 0o644)
}
