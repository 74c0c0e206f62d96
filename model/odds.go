package model

import "time"

// GameOdds is the betting market for one NFL game. Odds are a soft
// dependency: anything consuming them must tolerate their absence.
type GameOdds struct {
	GameID        string
	HomeTeam      *NFLTeam
	AwayTeam      *NFLTeam
	Spread        float64 // relative to the home team, negative = favored
	OverUnder     float64
	HomeMoneyline int
	AwayMoneyline int
	Bookmaker     string
	StartTime     time.Time
	LastUpdate    time.Time
}

// PlayerOdds is a single player prop line. Found is false when the
// upstream book has no line for the player; that result is cached too,
// but with an already-expired timestamp so the next request retries.
type PlayerOdds struct {
	PlayerID       string
	AnytimeTDPrice int
	Found          bool
}
