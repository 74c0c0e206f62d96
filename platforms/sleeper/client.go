package sleeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mww/survivor_manager/model"
	"github.com/mww/survivor_manager/platforms/apierr"
)

const SleeperURL = "https://api.sleeper.app"

var ErrUserNotFound = errors.New("sleeper user not found")

type Client interface {
	GetUserID(ctx context.Context, username string) (string, error)
	GetLeaguesForUser(ctx context.Context, userID, season string) ([]model.LeagueDescriptor, error)
	GetLeague(ctx context.Context, leagueID string) (*model.ScoringRules, error)
	GetRosters(ctx context.Context, leagueID string) ([]model.RosterRecord, error)
	GetUsers(ctx context.Context, leagueID string) ([]model.UserRecord, error)
	// GetMatchups returns an empty slice for a week where the league has
	// no head-to-head matchups. For survivor-format leagues that is a
	// normal, meaningful response, not an error.
	GetMatchups(ctx context.Context, leagueID string, week int) ([]model.RawMatchup, error)
	GetWeekStats(ctx context.Context, season string, week int) (map[string]float64, error)
	GetWeekProjections(ctx context.Context, season string, week int) (map[string]float64, error)
	LoadPlayers(ctx context.Context) ([]model.CanonicalPlayer, error)
}

type client struct {
	url        string
	httpClient *http.Client
}

func New() (Client, error) {
	c := &client{
		url: SleeperURL,
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
	}
	return c, nil
}

func NewForTest(url string) Client {
	return &client{
		url:        url,
		httpClient: http.DefaultClient,
	}
}

func (c *client) GetUserID(ctx context.Context, username string) (string, error) {
	var user sleeperUser
	if err := c.sleeperRequest(ctx, &user, "/v1/user/%s", username); err != nil {
		return "", err
	}

	// Sleeper returns a 200 with "null" for a user that doesn't exist.
	if user.ID == "" {
		return "", ErrUserNotFound
	}
	return user.ID, nil
}

func (c *client) GetLeaguesForUser(ctx context.Context, userID, season string) ([]model.LeagueDescriptor, error) {
	var leagues []sleeperLeague
	if err := c.sleeperRequest(ctx, &leagues, "/v1/user/%s/leagues/nfl/%s", userID, season); err != nil {
		return nil, err
	}

	result := make([]model.LeagueDescriptor, 0, len(leagues))
	for _, l := range leagues {
		result = append(result, l.toDescriptor())
	}
	return result, nil
}

func (c *client) GetLeague(ctx context.Context, leagueID string) (*model.ScoringRules, error) {
	var league sleeperLeague
	if err := c.sleeperRequest(ctx, &league, "/v1/league/%s", leagueID); err != nil {
		return nil, err
	}
	if league.ID == "" {
		return nil, &apierr.DecodeError{Platform: "sleeper", Err: fmt.Errorf("league %s has no id", leagueID)}
	}
	return league.toScoringRules(), nil
}

func (c *client) GetRosters(ctx context.Context, leagueID string) ([]model.RosterRecord, error) {
	var rosters []sleeperRoster
	if err := c.sleeperRequest(ctx, &rosters, "/v1/league/%s/rosters", leagueID); err != nil {
		return nil, err
	}

	result := make([]model.RosterRecord, 0, len(rosters))
	for _, r := range rosters {
		result = append(result, r.toRosterRecord())
	}
	return result, nil
}

func (c *client) GetUsers(ctx context.Context, leagueID string) ([]model.UserRecord, error) {
	var users []sleeperUser
	if err := c.sleeperRequest(ctx, &users, "/v1/league/%s/users", leagueID); err != nil {
		return nil, err
	}

	result := make([]model.UserRecord, 0, len(users))
	for _, u := range users {
		result = append(result, u.toUserRecord())
	}
	return result, nil
}

func (c *client) GetMatchups(ctx context.Context, leagueID string, week int) ([]model.RawMatchup, error) {
	var matchups []sleeperMatchup
	if err := c.sleeperRequest(ctx, &matchups, "/v1/league/%s/matchups/%d", leagueID, week); err != nil {
		return nil, err
	}

	result := make([]model.RawMatchup, 0, len(matchups))
	for _, m := range matchups {
		result = append(result, m.toRawMatchup())
	}
	return result, nil
}

func (c *client) GetWeekStats(ctx context.Context, season string, week int) (map[string]float64, error) {
	var stats map[string]sleeperPlayerStats
	if err := c.sleeperRequest(ctx, &stats, "/v1/stats/nfl/%s/%d", season, week); err != nil {
		return nil, err
	}

	result := make(map[string]float64, len(stats))
	for id, s := range stats {
		result[id] = s.PointsPPR
	}
	return result, nil
}

// GetWeekProjections returns the projected ppr totals for a week, keyed by
// sleeper player id. The feed has the same shape as the stats feed.
func (c *client) GetWeekProjections(ctx context.Context, season string, week int) (map[string]float64, error) {
	var projections map[string]sleeperPlayerStats
	if err := c.sleeperRequest(ctx, &projections, "/v1/projections/nfl/%s/%d", season, week); err != nil {
		return nil, err
	}

	result := make(map[string]float64, len(projections))
	for id, p := range projections {
		result[id] = p.PointsPPR
	}
	return result, nil
}

func (c *client) LoadPlayers(ctx context.Context) ([]model.CanonicalPlayer, error) {
	var parsed map[string]sleeperPlayer
	if err := c.sleeperRequest(ctx, &parsed, "/v1/players/nfl"); err != nil {
		return nil, err
	}

	result := make([]model.CanonicalPlayer, 0, len(parsed))
	for _, p := range parsed {
		pos := model.ParsePosition(p.Position)
		if pos == model.POS_UNKNOWN || (p.FirstName == "Player" && p.LastName == "Invalid") {
			continue
		}
		result = append(result, *p.toCanonicalPlayer())
	}

	return result, nil
}

func (c *client) sleeperRequest(ctx context.Context, res any, path string, args ...any) error {
	p := fmt.Sprintf(path, args...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s", c.url, p), nil)
	if err != nil {
		return fmt.Errorf("error creating sleeper http request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apierr.NetworkError{Platform: "sleeper", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &apierr.NetworkError{Platform: "sleeper", Status: resp.StatusCode, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return &apierr.DecodeError{Platform: "sleeper", Err: err}
	}
	return nil
}
