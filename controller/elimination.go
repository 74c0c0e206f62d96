package controller

import (
	"context"
	"fmt"
	"log"
	"math"
	"slices"
	"time"

	"github.com/mww/survivor_manager/model"
)

// safety thresholds for bucketing a team's survival probability.
const (
	safeThreshold     = 0.75
	warningThreshold  = 0.55
	dangerThreshold   = 0.35
	maxDramaMeter     = 10.0
	dramaMarginWindow = 10.0
)

func (c *controller) GetSurvivalRankings(ctx context.Context, platform model.Platform, leagueID string, week int) ([]model.FantasyTeamRanking, error) {
	if week < 1 {
		return nil, fmt.Errorf("week %d is not a valid week", week)
	}
	adapter := getPlatformAdapter(platform, c)
	season := c.seasonFor(platform, leagueID)

	rules, err := adapter.getScoringRules(ctx, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("loading scoring rules for %s league %s: %w", platform, leagueID, err)
	}

	events, history, err := c.eliminationHistory(ctx, adapter, platform, leagueID, season, week)
	if err != nil {
		return nil, err
	}
	eliminatedAt := make(map[string]int, len(events))
	for _, ev := range events {
		eliminatedAt[ev.EliminatedTeamID] = ev.Week
	}

	totals, err := adapter.getWeeklyTotals(ctx, leagueID, season, week)
	if err != nil {
		return nil, fmt.Errorf("loading week %d totals for %s league %s: %w", week, platform, leagueID, err)
	}

	return calculateRankings(totals, eliminatedAt, history, week, rules.TotalWeeks), nil
}

func (c *controller) GetEliminationHistory(ctx context.Context, platform model.Platform, leagueID string, throughWeek int) ([]model.EliminationEvent, error) {
	adapter := getPlatformAdapter(platform, c)
	season := c.seasonFor(platform, leagueID)

	events, _, err := c.eliminationHistory(ctx, adapter, platform, leagueID, season, throughWeek)
	return events, err
}

// eliminationHistory returns the confirmed elimination events for every week
// strictly before currentWeek, deriving and persisting any that are not yet
// recorded. Events are written once and treated as immutable afterwards,
// so a later stat correction never retroactively un-eliminates a team. The
// per-week score history is returned as a side product for the safety model.
func (c *controller) eliminationHistory(ctx context.Context, adapter platformAdapter, platform model.Platform, leagueID, season string, currentWeek int) ([]model.EliminationEvent, []map[string]float64, error) {
	stored, err := c.db.GetEliminationEvents(ctx, platform, leagueID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading elimination history for %s league %s: %w", platform, leagueID, err)
	}
	byWeek := make(map[int]model.EliminationEvent, len(stored))
	for _, ev := range stored {
		byWeek[ev.Week] = ev
	}

	var events []model.EliminationEvent
	var history []map[string]float64
	eliminated := make(map[string]bool)

	for w := 1; w < currentWeek; w++ {
		if ev, ok := byWeek[w]; ok {
			events = append(events, ev)
			eliminated[ev.EliminatedTeamID] = true
			history = append(history, nil)
			continue
		}

		totals, err := adapter.getWeeklyTotals(ctx, leagueID, season, w)
		if err != nil {
			return nil, nil, fmt.Errorf("loading week %d totals for %s league %s: %w", w, platform, leagueID, err)
		}
		alive := aliveTotals(totals, eliminated)

		scores := make(map[string]float64, len(alive))
		for _, t := range alive {
			scores[t.Info.TeamID] = t.Actual
		}
		history = append(history, scores)

		// A week with no scoring at all was never played. There is nothing
		// to confirm, and nothing after it either.
		if !anyScoring(alive) {
			break
		}
		if len(alive) < 2 {
			break
		}

		ev := deriveEliminationEvent(alive, w, c.clock.Now())
		if err := c.db.SaveEliminationEvent(ctx, platform, leagueID, &ev); err != nil {
			// Persistence is best effort; the derived event is still valid
			// for this response.
			log.Printf("saving elimination event for week %d: %v", w, err)
		}
		events = append(events, ev)
		eliminated[ev.EliminatedTeamID] = true
	}

	return events, history, nil
}

// deriveEliminationEvent picks the week's loser from the alive teams. Ties
// at the bottom go to the team listed first, matching the platform's own
// ordering, so the result is deterministic.
func deriveEliminationEvent(alive []teamTotal, week int, now time.Time) model.EliminationEvent {
	loser := 0
	for i := 1; i < len(alive); i++ {
		if alive[i].Actual < alive[loser].Actual {
			loser = i
		}
	}

	secondLowest := math.Inf(1)
	tied := 0
	for i, t := range alive {
		if t.Actual == alive[loser].Actual {
			tied++
		}
		if i != loser && t.Actual < secondLowest {
			secondLowest = t.Actual
		}
	}
	margin := secondLowest - alive[loser].Actual
	if math.IsInf(margin, 1) {
		margin = 0
	}

	return model.EliminationEvent{
		Week:             week,
		EliminatedTeamID: alive[loser].Info.TeamID,
		EliminatedTeam: model.FantasyTeamRanking{
			Team:              model.TeamSnapshot{Info: alive[loser].Info, Score: model.TeamScore{Actual: alive[loser].Actual}},
			WeeklyPoints:      alive[loser].Actual,
			Rank:              len(alive),
			EliminationStatus: model.StatusEliminated,
			WeeksAlive:        week,
		},
		EliminationScore: alive[loser].Actual,
		Margin:           margin,
		DramaMeter:       dramaMeter(margin, tied),
		Timestamp:        now,
	}
}

// dramaMeter scores how close a week's chop was on a 0-10 scale. Narrow
// margins and multi-team ties at the bottom both push it up.
func dramaMeter(margin float64, tiedAtBottom int) float64 {
	m := math.Min(margin, dramaMarginWindow)
	drama := maxDramaMeter * (1 - m/dramaMarginWindow)
	if tiedAtBottom > 1 {
		drama += 3 * float64(tiedAtBottom-1)
	}
	return math.Min(drama, maxDramaMeter)
}

// calculateRankings produces the full standings for one week: alive teams
// ranked by effective points, eliminated teams appended after them in
// elimination order. When no game has started yet every alive team is safe.
func calculateRankings(totals []teamTotal, eliminatedAt map[string]int, history []map[string]float64, week, totalWeeks int) []model.FantasyTeamRanking {
	eliminated := make(map[string]bool, len(eliminatedAt))
	for id := range eliminatedAt {
		eliminated[id] = true
	}
	alive := aliveTotals(totals, eliminated)
	scheduled := !anyScoring(alive)

	// Projected points stand in for teams whose games have not kicked off,
	// so an early loser is not ranked below a team that has not played.
	effective := func(t *teamTotal) float64 {
		if t.Actual == 0 && t.Projected > 0 {
			return t.Projected
		}
		return t.Actual
	}

	ordered := make([]teamTotal, len(alive))
	copy(ordered, alive)
	slices.SortStableFunc(ordered, func(a, b teamTotal) int {
		switch {
		case effective(&a) > effective(&b):
			return -1
		case effective(&a) < effective(&b):
			return 1
		default:
			return 0
		}
	})

	mean, stddev := scoreSpread(ordered, effective)
	secondLowest := math.Inf(1)
	if len(ordered) >= 2 {
		secondLowest = effective(&ordered[len(ordered)-2])
	}

	rankings := make([]model.FantasyTeamRanking, 0, len(totals))
	for i := range ordered {
		t := &ordered[i]
		rank := i + 1
		points := effective(t)

		var probability float64
		if scheduled {
			probability = 1.0
		} else {
			probability = calculateSafetyPercentage(points, rank, len(ordered), mean, stddev, historicalAverage(history, t.Info.TeamID), totalWeeks-week)
		}

		r := model.FantasyTeamRanking{
			Team: model.TeamSnapshot{
				Info:  t.Info,
				Score: model.TeamScore{Actual: t.Actual, Projected: t.Projected},
			},
			WeeklyPoints:        points,
			Rank:                rank,
			EliminationStatus:   determineEliminationStatus(probability, rank, scheduled, week, totalWeeks, len(ordered)),
			SurvivalProbability: probability,
			PointsFromSafety:    pointsFromSafety(points, secondLowest),
			WeeksAlive:          week,
		}
		rankings = append(rankings, r)
	}

	// Eliminated teams trail the standings in the order they were cut.
	out := make([]teamTotal, 0, len(totals)-len(alive))
	for _, t := range totals {
		if eliminated[t.Info.TeamID] {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b teamTotal) int {
		return eliminatedAt[a.Info.TeamID] - eliminatedAt[b.Info.TeamID]
	})
	for i := range out {
		t := &out[i]
		rankings = append(rankings, model.FantasyTeamRanking{
			Team: model.TeamSnapshot{
				Info:  t.Info,
				Score: model.TeamScore{Actual: t.Actual, Projected: t.Projected},
			},
			WeeklyPoints:      effective(t),
			Rank:              len(ordered) + i + 1,
			EliminationStatus: model.StatusEliminated,
			WeeksAlive:        eliminatedAt[t.Info.TeamID],
		})
	}

	return rankings
}

// calculateSafetyPercentage estimates how likely a team is to survive the
// week, on [0, 1]. It blends current standing, scoring margin against the
// field, and the team's historical average, then pulls the estimate toward
// 0.5 when many weeks remain, since early-season signal is weak.
func calculateSafetyPercentage(points float64, rank, totalTeams int, mean, stddev, historicalAvg float64, weeksRemaining int) float64 {
	if totalTeams <= 1 {
		return 1.0
	}

	standing := float64(totalTeams-rank) / float64(totalTeams-1)

	spread := math.Max(stddev, 1)
	margin := clamp(0.5+(points-mean)/(4*spread), 0, 1)

	hist := 0.5
	if historicalAvg > 0 {
		hist = clamp(0.5+(historicalAvg-mean)/(4*spread), 0, 1)
	}

	raw := 0.45*standing + 0.35*margin + 0.20*hist

	confidence := 1.0
	if weeksRemaining > 0 {
		confidence = 0.6 + 0.4/(1+float64(weeksRemaining)/4)
	}
	return clamp(0.5+(raw-0.5)*confidence, 0, 1)
}

// determineEliminationStatus buckets a probability. Champion is reserved for
// the top seed once the season's final week has scoring underway with two or
// fewer teams left.
func determineEliminationStatus(probability float64, rank int, scheduled bool, week, totalWeeks, aliveTeams int) model.EliminationStatus {
	if scheduled {
		return model.StatusSafe
	}
	if rank == 1 && week >= totalWeeks && aliveTeams <= 2 {
		return model.StatusChampion
	}
	switch {
	case probability >= safeThreshold:
		return model.StatusSafe
	case probability >= warningThreshold:
		return model.StatusWarning
	case probability >= dangerThreshold:
		return model.StatusDanger
	default:
		return model.StatusCritical
	}
}

// pointsFromSafety is the gap to the second-lowest score: positive means
// that many points of cushion, negative means the team is currently the one
// going home.
func pointsFromSafety(points, secondLowest float64) float64 {
	if math.IsInf(secondLowest, 1) {
		return 0
	}
	return points - secondLowest
}

func aliveTotals(totals []teamTotal, eliminated map[string]bool) []teamTotal {
	alive := make([]teamTotal, 0, len(totals))
	for _, t := range totals {
		if !eliminated[t.Info.TeamID] {
			alive = append(alive, t)
		}
	}
	return alive
}

func anyScoring(totals []teamTotal) bool {
	for _, t := range totals {
		if t.Actual > 0 {
			return true
		}
	}
	return false
}

func historicalAverage(history []map[string]float64, teamID string) float64 {
	var sum float64
	var n int
	for _, week := range history {
		if s, ok := week[teamID]; ok && s > 0 {
			sum += s
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func scoreSpread(totals []teamTotal, effective func(*teamTotal) float64) (mean, stddev float64) {
	if len(totals) == 0 {
		return 0, 0
	}
	for i := range totals {
		mean += effective(&totals[i])
	}
	mean /= float64(len(totals))

	var variance float64
	for i := range totals {
		d := effective(&totals[i]) - mean
		variance += d * d
	}
	variance /= float64(len(totals))
	return mean, math.Sqrt(variance)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
