package internal

import (
	"time"

	"github.com/mww/survivor_manager/model"
)

type EventsResponse struct {
	Events []Event `json:"events"`
}

type Event struct {
	ID           string      `json:"id"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	CommenceTime time.Time   `json:"commence_time"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

type Bookmaker struct {
	Key        string    `json:"key"`
	LastUpdate time.Time `json:"last_update"`
	Markets    []Market  `json:"markets"`
}

type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

type Outcome struct {
	Name  string  `json:"name"`
	Price int     `json:"price"`
	Point float64 `json:"point"`
}

type PlayerPropsResponse struct {
	PlayerID       string `json:"player_id"`
	AnytimeTDPrice int    `json:"anytime_td_price"`
}

// ToGameOdds flattens the first bookmaker's spread/total/h2h markets into
// the domain shape. One book is enough for display purposes.
func (e *Event) ToGameOdds() *model.GameOdds {
	odds := &model.GameOdds{
		GameID:    e.ID,
		HomeTeam:  model.ParseTeam(e.HomeTeam),
		AwayTeam:  model.ParseTeam(e.AwayTeam),
		StartTime: e.CommenceTime,
	}

	if len(e.Bookmakers) == 0 {
		return odds
	}

	b := e.Bookmakers[0]
	odds.Bookmaker = b.Key
	odds.LastUpdate = b.LastUpdate

	for _, m := range b.Markets {
		switch m.Key {
		case "spreads":
			for _, o := range m.Outcomes {
				if model.ParseTeam(o.Name) == odds.HomeTeam {
					odds.Spread = o.Point
				}
			}
		case "totals":
			if len(m.Outcomes) > 0 {
				odds.OverUnder = m.Outcomes[0].Point
			}
		case "h2h":
			for _, o := range m.Outcomes {
				if model.ParseTeam(o.Name) == odds.HomeTeam {
					odds.HomeMoneyline = o.Price
				} else if model.ParseTeam(o.Name) == odds.AwayTeam {
					odds.AwayMoneyline = o.Price
				}
			}
		}
	}

	return odds
}
