package model

import "time"

// EliminationStatus buckets a team's survival outlook for a week.
type EliminationStatus string

const (
	StatusChampion   EliminationStatus = "champion"
	StatusSafe       EliminationStatus = "safe"
	StatusWarning    EliminationStatus = "warning"
	StatusDanger     EliminationStatus = "danger"
	StatusCritical   EliminationStatus = "critical"
	StatusEliminated EliminationStatus = "eliminated"
)

// FantasyTeamRanking is the elimination engine's per-team output for one
// week. Rank is 1-based with 1 the highest scorer; ranks strictly increase
// as points decrease, ties broken by stable input order.
type FantasyTeamRanking struct {
	Team                TeamSnapshot
	WeeklyPoints        float64
	Rank                int
	EliminationStatus   EliminationStatus
	SurvivalProbability float64
	PointsFromSafety    float64
	WeeksAlive          int
}

// EliminationEvent records who was chopped in a completed week. Events are
// immutable history: once every score for a week is final the event is
// written once and never recomputed.
type EliminationEvent struct {
	Week             int
	EliminatedTeamID string
	EliminatedTeam   FantasyTeamRanking
	EliminationScore float64
	Margin           float64
	DramaMeter       float64
	Timestamp        time.Time
}
