package espn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mww/survivor_manager/model"
	"github.com/mww/survivor_manager/platforms/apierr"
	"github.com/mww/survivor_manager/platforms/espn/internal"
)

const ESPNURL = "https://lm-api-reads.fantasy.espn.com"

// Client reads one league's full state from ESPN's fantasy v3 API. The
// whole week - teams, schedule, live scores, rosters - comes back from a
// single multi-view request.
type Client struct {
	url        string
	espnS2     string
	swid       string
	httpClient *http.Client
}

// New creates a client. espnS2 and swid may be empty for public leagues;
// private leagues reject uncookied requests with a 401.
func New(espnS2, swid string) (*Client, error) {
	return &Client{
		url:    ESPNURL,
		espnS2: espnS2,
		swid:   swid,
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
	}, nil
}

func NewForTest(url string) *Client {
	return &Client{url: url, httpClient: http.DefaultClient}
}

// League is everything the aggregation layer needs from one ESPN league
// for one week.
type League struct {
	Descriptor   model.LeagueDescriptor
	Rules        model.ScoringRules
	Users        []model.UserRecord
	Rosters      []model.RosterRecord
	Matchups     []model.RawMatchup
	Players      []model.CanonicalPlayer
	PlayerPoints map[string]float64
	// PlayerProjections holds the requested week's projected totals. A
	// player with no projection split has no entry.
	PlayerProjections map[string]float64
	InjuryStatus      map[string]string
}

func (c *Client) GetLeague(ctx context.Context, leagueID string, season string, week int) (*League, error) {
	var resp internal.LeagueResponse
	err := c.espnRequest(ctx, &resp,
		"/apis/v3/games/ffl/seasons/%s/segments/0/leagues/%s?view=mMatchupScore&view=mLiveScoring&view=mRoster&view=mTeam&view=mSettings&scoringPeriodId=%d",
		season, leagueID, week)
	if err != nil {
		return nil, err
	}

	if resp.ID == 0 {
		return nil, &apierr.DecodeError{Platform: "espn", Err: errors.New("league response has no id")}
	}

	l := &League{
		Descriptor: model.LeagueDescriptor{
			ID:       leagueID,
			Name:     resp.Settings.Name,
			Platform: model.PlatformESPN,
			Season:   season,
		},
		Rules: model.ScoringRules{
			TotalTeams: resp.Settings.Size,
			TotalWeeks: totalWeeks(resp.Status),
		},
	}

	l.PlayerPoints = make(map[string]float64)
	l.PlayerProjections = make(map[string]float64)
	l.InjuryStatus = make(map[string]string)
	for _, t := range resp.Teams {
		l.Users = append(l.Users, internal.ToUserRecord(&t))
		l.Rosters = append(l.Rosters, internal.ToRosterRecord(&t))
		l.Players = append(l.Players, internal.ToCanonicalPlayers(&t)...)
		for id, pts := range internal.PlayerPointsFor(&t) {
			l.PlayerPoints[id] = pts
		}
		for id, pts := range internal.ProjectedPointsFor(&t, week) {
			l.PlayerProjections[id] = pts
		}
		for id, s := range internal.InjuryStatusFor(&t) {
			l.InjuryStatus[id] = s
		}
	}

	for _, m := range resp.Schedule {
		// The schedule covers the whole season; only the requested
		// scoring period belongs in this snapshot.
		if m.MatchupPeriodID != week {
			continue
		}
		l.Matchups = append(l.Matchups, internal.ToRawMatchups(&m)...)
	}

	return l, nil
}

func totalWeeks(s internal.Status) int {
	if s.FinalScoringPeriod > 0 {
		return s.FinalScoringPeriod
	}
	return 17
}

func (c *Client) espnRequest(ctx context.Context, res any, path string, args ...any) error {
	p := fmt.Sprintf(path, args...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s", c.url, p), nil)
	if err != nil {
		return fmt.Errorf("error creating espn http request: %w", err)
	}

	if c.espnS2 != "" && c.swid != "" {
		req.AddCookie(&http.Cookie{Name: "espn_s2", Value: c.espnS2})
		req.AddCookie(&http.Cookie{Name: "SWID", Value: c.swid})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apierr.NetworkError{Platform: "espn", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &apierr.NetworkError{Platform: "espn", Status: resp.StatusCode, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return &apierr.DecodeError{Platform: "espn", Err: err}
	}
	return nil
}
