package controller

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mww/survivor_manager/model"
	"github.com/mww/survivor_manager/platforms/sleeper"
)

var ErrNoLeaguesFound = errors.New("no leagues found")

// ClassificationError reports that a league's mode could not be determined
// because the signals disagreed. The league keeps its previous mode.
type ClassificationError struct {
	LeagueID string
	Reason   string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("unable to classify league %s: %s", e.LeagueID, e.Reason)
}

func (c *controller) Discover(ctx context.Context, sleeperUsername string, espnLeagueIDs []string, season string) ([]model.LeagueDescriptor, error) {
	var results []model.LeagueDescriptor
	seen := make(map[string]bool)
	var sleeperErr, espnErr error

	if sleeperUsername != "" {
		descriptors, err := c.discoverSleeper(ctx, sleeperUsername, season)
		if err != nil {
			sleeperErr = err
			log.Printf("sleeper discovery for %q failed: %v", sleeperUsername, err)
		}
		for _, d := range descriptors {
			key := fmt.Sprintf("%s:%s", d.Platform, d.ID)
			if !seen[key] {
				seen[key] = true
				results = append(results, d)
			}
		}
	}

	for _, leagueID := range espnLeagueIDs {
		d, err := c.discoverESPN(ctx, leagueID, season)
		if err != nil {
			espnErr = err
			log.Printf("espn discovery for league %s failed: %v", leagueID, err)
			continue
		}
		key := fmt.Sprintf("%s:%s", d.Platform, d.ID)
		if !seen[key] {
			seen[key] = true
			results = append(results, *d)
		}
	}

	if len(results) == 0 {
		if sleeperErr != nil || espnErr != nil {
			return nil, fmt.Errorf("league discovery failed: %w", errors.Join(sleeperErr, espnErr))
		}
		return nil, ErrNoLeaguesFound
	}
	return results, nil
}

func (c *controller) discoverSleeper(ctx context.Context, username, season string) ([]model.LeagueDescriptor, error) {
	userID, err := c.sleeper.GetUserID(ctx, username)
	if err != nil {
		if errors.Is(err, sleeper.ErrUserNotFound) {
			return nil, fmt.Errorf("sleeper user %q: %w", username, err)
		}
		return nil, err
	}
	c.setSleeperUserID(userID)

	return c.sleeper.GetLeaguesForUser(ctx, userID, season)
}

func (c *controller) discoverESPN(ctx context.Context, leagueID, season string) (*model.LeagueDescriptor, error) {
	// Week 1 is always a valid scoring period for a settings read.
	league, err := c.espn.GetLeague(ctx, leagueID, season, 1)
	if err != nil {
		return nil, err
	}
	return &league.Descriptor, nil
}

func (c *controller) ClassifyLeague(ctx context.Context, d model.LeagueDescriptor, week int) (model.LeagueMode, error) {
	adapter := getPlatformAdapter(d.Platform, c)

	matchups, err := adapter.getMatchups(ctx, d.ID, week)
	if err != nil {
		return model.ModeUnknown, fmt.Errorf("classifying league %s: %w", d.ID, err)
	}
	if len(matchups) > 0 {
		return model.ModeHeadToHead, nil
	}

	// No matchups can mean a survivor league, or it can mean a league that
	// simply has no teams yet. Only a populated roster list confirms the
	// former; otherwise we refuse to reclassify.
	rosters, err := adapter.getRosters(ctx, d.ID)
	if err != nil {
		return model.ModeUnknown, &ClassificationError{LeagueID: d.ID, Reason: err.Error()}
	}
	populated := 0
	for _, r := range rosters {
		if len(r.PlayerIDs) > 0 {
			populated++
		}
	}
	if populated < 2 {
		return model.ModeUnknown, &ClassificationError{
			LeagueID: d.ID,
			Reason:   fmt.Sprintf("no matchups or active rosters found for week %d", week),
		}
	}
	return model.ModeEliminationSurvivor, nil
}
