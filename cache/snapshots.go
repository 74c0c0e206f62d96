package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mww/survivor_manager/model"
	"golang.org/x/sync/singleflight"
)

// MatchupTTL is how long a hydrated snapshot is served without going back
// to the platform. It is tuned to live-game refresh cadence and is
// intentionally much shorter than the odds TTL because scores change
// during play.
const MatchupTTL = 30 * time.Second

// HydrationError wraps a platform failure for one specific snapshot id so
// the caller can skip that league and keep loading the others.
type HydrationError struct {
	ID  model.MatchupSnapshotID
	Err error
}

func (e *HydrationError) Error() string {
	return fmt.Sprintf("failed to fetch matchups for %s: %v", e.ID, e.Err)
}

func (e *HydrationError) Unwrap() error {
	return e.Err
}

// Fetcher produces a fresh snapshot for an id by calling the appropriate
// platform. The controller implements this; the store never talks to a
// platform directly.
type Fetcher interface {
	FetchMatchup(ctx context.Context, id model.MatchupSnapshotID) (*model.MatchupSnapshot, error)
}

type leagueKey struct {
	platform model.Platform
	leagueID string
}

// SnapshotStore owns the matchup snapshot cache. All map access is
// serialized through its mutex; fetches happen outside the lock and are
// coalesced per key, so a cache hit never waits on another key's fetch.
type SnapshotStore struct {
	clock   clock.Clock
	fetcher Fetcher
	ttl     time.Duration

	mu      sync.Mutex
	entries map[model.MatchupSnapshotID]Entry[*model.MatchupSnapshot]
	leagues map[leagueKey]warmedLeague

	group singleflight.Group
}

type warmedLeague struct {
	descriptor model.LeagueDescriptor
	week       int
}

func NewSnapshotStore(clock clock.Clock, fetcher Fetcher, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		clock:   clock,
		fetcher: fetcher,
		ttl:     ttl,
		entries: make(map[model.MatchupSnapshotID]Entry[*model.MatchupSnapshot]),
		leagues: make(map[leagueKey]warmedLeague),
	}
}

// Warm registers descriptors for subsequent hydration. It is pure
// bookkeeping, performs no I/O, and is idempotent: re-warming the same
// descriptor set and week leaves exactly one entry per league.
func (s *SnapshotStore) Warm(descriptors []model.LeagueDescriptor, week int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range descriptors {
		s.leagues[leagueKey{platform: d.Platform, leagueID: d.ID}] = warmedLeague{
			descriptor: d,
			week:       week,
		}
	}
}

// Descriptor returns the warmed descriptor for a league, if any.
func (s *SnapshotStore) Descriptor(platform model.Platform, leagueID string) (model.LeagueDescriptor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.leagues[leagueKey{platform: platform, leagueID: leagueID}]
	return w.descriptor, ok
}

// WarmedCount reports how many leagues are registered for hydration.
func (s *SnapshotStore) WarmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leagues)
}

// Hydrate returns the cached snapshot for id while it is within TTL,
// otherwise fetches a fresh one, stores it, and returns it. Concurrent
// hydrations of the same id share a single fetch. A snapshot is stored
// whole or not at all; callers never observe a partial one.
func (s *SnapshotStore) Hydrate(ctx context.Context, id model.MatchupSnapshotID) (*model.MatchupSnapshot, error) {
	s.mu.Lock()
	if e, ok := s.entries[id]; ok && e.Valid(s.clock.Now(), s.ttl) {
		s.mu.Unlock()
		return e.Value, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do(id.String(), func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snapshot, err := s.fetcher.FetchMatchup(ctx, id)
		if err != nil {
			return nil, &HydrationError{ID: id, Err: err}
		}

		s.mu.Lock()
		s.entries[id] = Entry[*model.MatchupSnapshot]{Value: snapshot, Timestamp: s.clock.Now()}
		s.mu.Unlock()

		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}

	// A stale fetch must not be handed to a caller whose week has already
	// moved on.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return v.(*model.MatchupSnapshot), nil
}

// Clear drops every snapshot and warmed league.
func (s *SnapshotStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[model.MatchupSnapshotID]Entry[*model.MatchupSnapshot])
	s.leagues = make(map[leagueKey]warmedLeague)
}
