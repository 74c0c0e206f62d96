package oddsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mww/survivor_manager/model"
	"github.com/mww/survivor_manager/platforms/apierr"
	"github.com/mww/survivor_manager/platforms/oddsapi/internal"
)

const (
	oddsURL = "https://api.the-odds-api.com"

	headerAPIKey = "x-api-key"
)

type Client interface {
	// GetWeekOdds returns the markets for every NFL game in a week.
	GetWeekOdds(ctx context.Context, week int) ([]model.GameOdds, error)
	GetGameOdds(ctx context.Context, gameID string) (*model.GameOdds, error)
	// GetPlayerOdds returns Found=false, not an error, when the book has
	// no line for the player.
	GetPlayerOdds(ctx context.Context, playerID string) (*model.PlayerOdds, error)
}

type client struct {
	url        string
	key        string
	httpClient *http.Client
}

func New(key string) (Client, error) {
	c := &client{
		url: oddsURL,
		key: key,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	return c, nil
}

func NewForTest(url string) Client {
	return &client{
		url:        url,
		key:        "not-important",
		httpClient: http.DefaultClient,
	}
}

func (c *client) GetWeekOdds(ctx context.Context, week int) ([]model.GameOdds, error) {
	var resp internal.EventsResponse
	if err := c.oddsRequest(ctx, &resp, "/v4/sports/americanfootball_nfl/odds?week=%d", week); err != nil {
		return nil, err
	}

	result := make([]model.GameOdds, 0, len(resp.Events))
	for _, e := range resp.Events {
		result = append(result, *e.ToGameOdds())
	}
	return result, nil
}

func (c *client) GetGameOdds(ctx context.Context, gameID string) (*model.GameOdds, error) {
	var resp internal.Event
	if err := c.oddsRequest(ctx, &resp, "/v4/sports/americanfootball_nfl/events/%s/odds", gameID); err != nil {
		return nil, err
	}
	return resp.ToGameOdds(), nil
}

func (c *client) GetPlayerOdds(ctx context.Context, playerID string) (*model.PlayerOdds, error) {
	var resp internal.PlayerPropsResponse
	err := c.oddsRequest(ctx, &resp, "/v4/sports/americanfootball_nfl/players/%s/props", playerID)
	if err != nil {
		// A 404 here means no line, which is an answer, not a failure.
		var ne *apierr.NetworkError
		if errors.As(err, &ne) && ne.Status == http.StatusNotFound {
			return &model.PlayerOdds{PlayerID: playerID, Found: false}, nil
		}
		return nil, err
	}

	return &model.PlayerOdds{
		PlayerID:       playerID,
		AnytimeTDPrice: resp.AnytimeTDPrice,
		Found:          resp.AnytimeTDPrice != 0,
	}, nil
}

func (c *client) oddsRequest(ctx context.Context, res any, path string, args ...any) error {
	p := fmt.Sprintf(path, args...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s", c.url, p), nil)
	if err != nil {
		return fmt.Errorf("error creating odds http request: %w", err)
	}
	req.Header.Add(headerAPIKey, c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apierr.NetworkError{Platform: "odds", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &apierr.NetworkError{Platform: "odds", Status: resp.StatusCode, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return &apierr.DecodeError{Platform: "odds", Err: err}
	}
	return nil
}
