package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mww/survivor_manager/model"
)

var (
	ErrSettingNotFound error = errors.New("setting not found")
	ErrPlayerNotFound  error = errors.New("player not found")
)

const (
	settingLastOddsFetch       = "odds_last_fetch"
	settingOddsRefreshInterval = "odds_refresh_interval_minutes"
)

func New(ctx context.Context, connString string, clock clock.Clock) (DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &postgresDB{pool: pool, clock: clock}, nil
}

type postgresDB struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func (db *postgresDB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.pool.QueryRow(ctx, "SELECT value FROM settings WHERE key=$1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("error reading setting %s: %w", key, err)
	}
	return value, nil
}

func (db *postgresDB) SaveSetting(ctx context.Context, key, value string) error {
	_, err := db.pool.Exec(ctx,
		"INSERT INTO settings(key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value=$2",
		key, value)
	if err != nil {
		return fmt.Errorf("error saving setting %s: %w", key, err)
	}
	return nil
}

func (db *postgresDB) DeleteSetting(ctx context.Context, key string) error {
	_, err := db.pool.Exec(ctx, "DELETE FROM settings WHERE key=$1", key)
	if err != nil {
		return fmt.Errorf("error deleting setting %s: %w", key, err)
	}
	return nil
}

func (db *postgresDB) LastOddsFetch(ctx context.Context) (time.Time, error) {
	v, err := db.GetSetting(ctx, settingLastOddsFetch)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}

	unix, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing last odds fetch time: %w", err)
	}
	return time.Unix(unix, 0).UTC(), nil
}

func (db *postgresDB) SetLastOddsFetch(ctx context.Context, t time.Time) error {
	return db.SaveSetting(ctx, settingLastOddsFetch, strconv.FormatInt(t.Unix(), 10))
}

func (db *postgresDB) ClearLastOddsFetch(ctx context.Context) error {
	return db.DeleteSetting(ctx, settingLastOddsFetch)
}

func (db *postgresDB) OddsRefreshInterval(ctx context.Context) (time.Duration, error) {
	v, err := db.GetSetting(ctx, settingOddsRefreshInterval)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return 15 * time.Minute, nil
		}
		return 0, err
	}

	minutes, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing odds refresh interval: %w", err)
	}
	return time.Duration(minutes * float64(time.Minute)), nil
}

func (db *postgresDB) SetOddsRefreshInterval(ctx context.Context, d time.Duration) error {
	if d < time.Minute {
		d = time.Minute
	}
	return db.SaveSetting(ctx, settingOddsRefreshInterval, strconv.FormatFloat(d.Minutes(), 'f', -1, 64))
}

func (db *postgresDB) SavePlayerMapping(ctx context.Context, p *model.CanonicalPlayer) error {
	_, err := db.getPlayer(ctx, "id", p.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.insertPlayer(ctx, p)
		}
		return fmt.Errorf("error reading player at start of SavePlayerMapping(): %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE players SET sleeper_id=$1, espn_id=$2, first_name=$3, last_name=$4, position=$5, team=$6, jersey=$7, updated=$8 WHERE id=$9`,
		nullable(p.SleeperID), nullable(p.ESPNID), p.FirstName, p.LastName, string(p.Position), teamName(p.Team), p.Jersey, db.clock.Now().UTC(), p.ID)
	if err != nil {
		return fmt.Errorf("error updating player mapping: %w", err)
	}
	return nil
}

func (db *postgresDB) GetPlayerBySleeperID(ctx context.Context, sleeperID string) (*model.CanonicalPlayer, error) {
	p, err := db.getPlayer(ctx, "sleeper_id", sleeperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (db *postgresDB) GetPlayerByESPNID(ctx context.Context, espnID string) (*model.CanonicalPlayer, error) {
	p, err := db.getPlayer(ctx, "espn_id", espnID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (db *postgresDB) GetPlayerByName(ctx context.Context, firstName, lastName string, team *model.NFLTeam) (*model.CanonicalPlayer, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, sleeper_id, espn_id, first_name, last_name, position, team, jersey, updated
		   FROM players WHERE lower(first_name)=lower($1) AND lower(last_name)=lower($2) AND team=$3`,
		firstName, lastName, teamName(team))
	if err != nil {
		return nil, fmt.Errorf("error querying player by name: %w", err)
	}
	defer rows.Close()

	var found *model.CanonicalPlayer
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		if found != nil {
			// Name+team matching is a fallback; an ambiguous result is
			// worse than none.
			return nil, ErrPlayerNotFound
		}
		found = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrPlayerNotFound
	}
	return found, nil
}

func (db *postgresDB) SaveEliminationEvent(ctx context.Context, platform model.Platform, leagueID string, ev *model.EliminationEvent) error {
	// ON CONFLICT DO NOTHING keeps past weeks immutable.
	_, err := db.pool.Exec(ctx,
		`INSERT INTO elimination_events(platform, league_id, week, eliminated_team_id, elimination_score, margin, drama_meter, created)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (platform, league_id, week) DO NOTHING`,
		string(platform), leagueID, ev.Week, ev.EliminatedTeamID, ev.EliminationScore, ev.Margin, ev.DramaMeter, db.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("error saving elimination event: %w", err)
	}
	return nil
}

func (db *postgresDB) GetEliminationEvents(ctx context.Context, platform model.Platform, leagueID string) ([]model.EliminationEvent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT week, eliminated_team_id, elimination_score, margin, drama_meter, created
		   FROM elimination_events WHERE platform=$1 AND league_id=$2 ORDER BY week`,
		string(platform), leagueID)
	if err != nil {
		return nil, fmt.Errorf("error querying elimination events: %w", err)
	}
	defer rows.Close()

	results := make([]model.EliminationEvent, 0, 16)
	for rows.Next() {
		var ev model.EliminationEvent
		if err := rows.Scan(&ev.Week, &ev.EliminatedTeamID, &ev.EliminationScore, &ev.Margin, &ev.DramaMeter, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("error scanning elimination event: %w", err)
		}
		results = append(results, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (db *postgresDB) insertPlayer(ctx context.Context, p *model.CanonicalPlayer) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO players(id, sleeper_id, espn_id, first_name, last_name, position, team, jersey, updated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, nullable(p.SleeperID), nullable(p.ESPNID), p.FirstName, p.LastName, string(p.Position), teamName(p.Team), p.Jersey, db.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("error inserting player mapping: %w", err)
	}
	return nil
}

func (db *postgresDB) getPlayer(ctx context.Context, column, value string) (*model.CanonicalPlayer, error) {
	row := db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT id, sleeper_id, espn_id, first_name, last_name, position, team, jersey, updated
		   FROM players WHERE %s=$1`, column), value)
	return scanPlayer(row)
}

func scanPlayer(row pgx.Row) (*model.CanonicalPlayer, error) {
	var p model.CanonicalPlayer
	var sleeperID, espnID *string
	var position, team string

	if err := row.Scan(&p.ID, &sleeperID, &espnID, &p.FirstName, &p.LastName, &position, &team, &p.Jersey, &p.Updated); err != nil {
		return nil, err
	}

	if sleeperID != nil {
		p.SleeperID = *sleeperID
	}
	if espnID != nil {
		p.ESPNID = *espnID
	}
	p.Position = model.ParsePosition(position)
	p.Team = model.ParseTeam(team)

	return &p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func teamName(t *model.NFLTeam) string {
	if t == nil {
		return model.TEAM_FA.String()
	}
	return t.String()
}
