package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mww/survivor_manager/model"
)

// memSettings is an in-memory Settings for tests that do not need a
// database behind the cache.
type memSettings struct {
	lastFetch time.Time
	interval  time.Duration
}

func (s *memSettings) LastOddsFetch(ctx context.Context) (time.Time, error) {
	return s.lastFetch, nil
}

func (s *memSettings) SetLastOddsFetch(ctx context.Context, t time.Time) error {
	s.lastFetch = t
	return nil
}

func (s *memSettings) ClearLastOddsFetch(ctx context.Context) error {
	s.lastFetch = time.Time{}
	return nil
}

func (s *memSettings) OddsRefreshInterval(ctx context.Context) (time.Duration, error) {
	return s.interval, nil
}

func (s *memSettings) SetOddsRefreshInterval(ctx context.Context, d time.Duration) error {
	s.interval = d
	return nil
}

func testOdds(gameID string) model.GameOdds {
	return model.GameOdds{
		GameID:        gameID,
		HomeTeam:      model.TEAM_PHI,
		AwayTeam:      model.TEAM_DAL,
		Spread:        -3.5,
		OverUnder:     47.5,
		HomeMoneyline: -175,
		AwayMoneyline: 150,
		Bookmaker:     "draftkings",
	}
}

func TestGameOddsCacheRoundTrip(t *testing.T) {
	c := clock.NewMock()
	settings := &memSettings{interval: DefaultOddsRefreshInterval}
	cache := NewGameOddsCache(c, settings, t.TempDir())

	ctx := context.Background()

	if _, err := cache.Load(ctx, "phi-dal-w1"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss on a cold cache, got %v", err)
	}

	cache.Persist(ctx, testOdds("phi-dal-w1"), "phi-dal-w1", cache.Generation())

	got, err := cache.Load(ctx, "phi-dal-w1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.HomeTeam != model.TEAM_PHI || got.Spread != -3.5 {
		t.Errorf("wrong odds: %+v", got)
	}
}

func TestGameOddsCacheDiskTier(t *testing.T) {
	c := clock.NewMock()
	settings := &memSettings{interval: DefaultOddsRefreshInterval}
	dir := t.TempDir()

	ctx := context.Background()

	first := NewGameOddsCache(c, settings, dir)
	first.Persist(ctx, testOdds("phi-dal-w1"), "phi-dal-w1", first.Generation())

	// A new instance has a cold memory tier but shares the data dir and
	// the last-fetch timestamp, mirroring a process restart.
	second := NewGameOddsCache(c, settings, dir)
	got, err := second.Load(ctx, "phi-dal-w1")
	if err != nil {
		t.Fatalf("expected the disk tier to answer, got %v", err)
	}
	if got.GameID != "phi-dal-w1" || got.OverUnder != 47.5 {
		t.Errorf("wrong odds from disk: %+v", got)
	}
}

func TestGameOddsCacheExpiry(t *testing.T) {
	c := clock.NewMock()
	settings := &memSettings{interval: DefaultOddsRefreshInterval}
	cache := NewGameOddsCache(c, settings, t.TempDir())

	ctx := context.Background()
	cache.Persist(ctx, testOdds("phi-dal-w1"), "phi-dal-w1", cache.Generation())

	c.Add(DefaultOddsRefreshInterval)
	if _, err := cache.Load(ctx, "phi-dal-w1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss past the refresh interval, got %v", err)
	}
}

func TestGameOddsCacheIntervalFloor(t *testing.T) {
	c := clock.NewMock()
	settings := &memSettings{interval: time.Second}
	cache := NewGameOddsCache(c, settings, t.TempDir())

	ctx := context.Background()
	cache.Persist(ctx, testOdds("phi-dal-w1"), "phi-dal-w1", cache.Generation())

	// A sub-minimum configured interval is clamped up, not honored.
	c.Add(30 * time.Second)
	if _, err := cache.Load(ctx, "phi-dal-w1"); err != nil {
		t.Errorf("expected the floor to keep the entry valid, got %v", err)
	}
	c.Add(31 * time.Second)
	if _, err := cache.Load(ctx, "phi-dal-w1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss past the floor, got %v", err)
	}
}

func TestGameOddsCacheClear(t *testing.T) {
	c := clock.NewMock()
	settings := &memSettings{interval: DefaultOddsRefreshInterval}
	dir := t.TempDir()
	cache := NewGameOddsCache(c, settings, dir)

	ctx := context.Background()
	cache.Persist(ctx, testOdds("phi-dal-w1"), "phi-dal-w1", cache.Generation())

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := cache.Load(ctx, "phi-dal-w1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after clear, got %v", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "odds_*.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected odds files to be removed, found %v", files)
	}
	if !settings.lastFetch.IsZero() {
		t.Error("expected the shared timestamp to be cleared")
	}
}

func TestGameOddsCacheStaleGeneration(t *testing.T) {
	c := clock.NewMock()
	settings := &memSettings{interval: DefaultOddsRefreshInterval}
	cache := NewGameOddsCache(c, settings, t.TempDir())

	ctx := context.Background()

	// A fetch that started before a clear must not write its result back.
	generation := cache.Generation()
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cache.Persist(ctx, testOdds("phi-dal-w1"), "phi-dal-w1", generation)

	if _, err := cache.Load(ctx, "phi-dal-w1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected the stale write to be discarded, got %v", err)
	}
}

func TestGameOddsFileNames(t *testing.T) {
	c := clock.NewMock()
	settings := &memSettings{interval: DefaultOddsRefreshInterval}
	dir := t.TempDir()
	cache := NewGameOddsCache(c, settings, dir)

	ctx := context.Background()
	cache.Persist(ctx, testOdds("week 1/phi:dal"), "week 1/phi:dal", cache.Generation())

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 odds file, found %d", len(entries))
	}
	if name := entries[0].Name(); name != "odds_week_1-phi-dal.json" {
		t.Errorf("unexpected file name %q", name)
	}
}
