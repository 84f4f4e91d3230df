package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tapgame/backend/internal/models"
	"github.com/tapgame/backend/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const playerColumns = "id, tg_id, username, rank, level, gold, token, energy, last_seen, created_at"

const withdrawalColumns = "id, player_id, tokens, status, admin_note, created_at, updated_at"

// Store provides Postgres-backed persistence for players and withdrawals.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database and creates the schema if absent.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id BIGSERIAL PRIMARY KEY,
			tg_id TEXT UNIQUE NOT NULL,
			username TEXT,
			rank BIGINT NOT NULL DEFAULT 0,
			level BIGINT NOT NULL DEFAULT 1,
			gold BIGINT NOT NULL DEFAULT 0,
			token BIGINT NOT NULL DEFAULT 0,
			energy BIGINT NOT NULL DEFAULT 0,
			last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS withdrawals (
			id BIGSERIAL PRIMARY KEY,
			player_id BIGINT NOT NULL REFERENCES players(id),
			tokens BIGINT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			admin_note TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS players_last_seen_idx ON players (last_seen DESC);`,
		`CREATE INDEX IF NOT EXISTS withdrawals_player_idx ON withdrawals (player_id);`,
		`CREATE INDEX IF NOT EXISTS withdrawals_status_created_idx ON withdrawals (status, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// FindPlayerByTgID fetches a player by external identifier.
func (s *Store) FindPlayerByTgID(ctx context.Context, tgID string) (models.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE tg_id = $1;`, playerColumns)
	return scanPlayer(s.pool.QueryRow(ctx, query, tgID))
}

// InsertPlayer creates a new player row with the supplied starting state.
func (s *Store) InsertPlayer(ctx context.Context, p storage.NewPlayer) (models.Player, error) {
	query := fmt.Sprintf(`
		INSERT INTO players (tg_id, username, rank, level, gold, token, energy)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s;`, playerColumns)
	row := s.pool.QueryRow(ctx, query,
		p.TgID, p.Username, p.State.Rank, p.State.Level, p.State.Gold, p.State.Token, p.State.Energy)
	created, err := scanPlayer(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Player{}, storage.ErrConflict
		}
		return models.Player{}, err
	}
	return created, nil
}

// UpdatePlayerState overwrites all progress fields and refreshes last_seen.
// The username only changes when a non-nil value is supplied.
func (s *Store) UpdatePlayerState(ctx context.Context, tgID string, state models.PlayerState, username *string) (models.Player, error) {
	query := fmt.Sprintf(`
		UPDATE players
		SET username = COALESCE($2, username),
			rank = $3,
			level = $4,
			gold = $5,
			token = $6,
			energy = $7,
			last_seen = NOW()
		WHERE tg_id = $1
		RETURNING %s;`, playerColumns)
	row := s.pool.QueryRow(ctx, query, tgID, username, state.Rank, state.Level, state.Gold, state.Token, state.Energy)
	return scanPlayer(row)
}

// AdjustPlayerBalance applies both deltas server-side so concurrent
// adjustments compose instead of losing updates, clamping at zero.
func (s *Store) AdjustPlayerBalance(ctx context.Context, tgID string, addGold, addToken int64) (models.Player, error) {
	query := fmt.Sprintf(`
		UPDATE players
		SET gold = GREATEST(0, gold + $2),
			token = GREATEST(0, token + $3),
			last_seen = NOW()
		WHERE tg_id = $1
		RETURNING %s;`, playerColumns)
	return scanPlayer(s.pool.QueryRow(ctx, query, tgID, addGold, addToken))
}

// ListPlayers returns the most recently seen players, optionally filtered by
// a substring of tg_id or username.
func (s *Store) ListPlayers(ctx context.Context, search string, limit int) ([]models.Player, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if search == "" {
		query := fmt.Sprintf(`SELECT %s FROM players ORDER BY last_seen DESC LIMIT $1;`, playerColumns)
		rows, err = s.pool.Query(ctx, query, limit)
	} else {
		query := fmt.Sprintf(`
			SELECT %s FROM players
			WHERE tg_id LIKE $1 OR username LIKE $1
			ORDER BY last_seen DESC
			LIMIT $2;`, playerColumns)
		rows, err = s.pool.Query(ctx, query, "%"+search+"%", limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// InsertWithdrawal creates a pending withdrawal owned by the given player.
func (s *Store) InsertWithdrawal(ctx context.Context, playerID, tokens int64) (models.Withdrawal, error) {
	query := fmt.Sprintf(`
		INSERT INTO withdrawals (player_id, tokens, status)
		VALUES ($1, $2, 'pending')
		RETURNING %s;`, withdrawalColumns)
	return scanWithdrawal(s.pool.QueryRow(ctx, query, playerID, tokens))
}

// FindWithdrawal fetches a withdrawal by id.
func (s *Store) FindWithdrawal(ctx context.Context, id int64) (models.Withdrawal, error) {
	query := fmt.Sprintf(`SELECT %s FROM withdrawals WHERE id = $1;`, withdrawalColumns)
	return scanWithdrawal(s.pool.QueryRow(ctx, query, id))
}

// UpdateWithdrawalStatus overwrites status and admin note, refreshing updated_at.
func (s *Store) UpdateWithdrawalStatus(ctx context.Context, id int64, status models.WithdrawalStatus, note *string) (models.Withdrawal, error) {
	query := fmt.Sprintf(`
		UPDATE withdrawals
		SET status = $2, admin_note = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING %s;`, withdrawalColumns)
	return scanWithdrawal(s.pool.QueryRow(ctx, query, id, status, note))
}

// ListWithdrawals returns withdrawals joined with their owner's identity,
// newest first, optionally filtered by status.
func (s *Store) ListWithdrawals(ctx context.Context, status models.WithdrawalStatus, limit int) ([]models.WithdrawalWithPlayer, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == "" {
		rows, err = s.pool.Query(ctx, `
			SELECT w.id, w.player_id, w.tokens, w.status, w.admin_note, w.created_at, w.updated_at,
				p.tg_id, p.username
			FROM withdrawals w
			JOIN players p ON w.player_id = p.id
			ORDER BY w.created_at DESC
			LIMIT $1;`, limit)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT w.id, w.player_id, w.tokens, w.status, w.admin_note, w.created_at, w.updated_at,
				p.tg_id, p.username
			FROM withdrawals w
			JOIN players p ON w.player_id = p.id
			WHERE w.status = $1
			ORDER BY w.created_at DESC
			LIMIT $2;`, status, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	withdrawals := []models.WithdrawalWithPlayer{}
	for rows.Next() {
		var w models.WithdrawalWithPlayer
		if err := rows.Scan(&w.ID, &w.PlayerID, &w.Tokens, &w.Status, &w.AdminNote,
			&w.CreatedAt, &w.UpdatedAt, &w.TgID, &w.Username); err != nil {
			return nil, fmt.Errorf("scan withdrawal row: %w", err)
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

// ListPlayerWithdrawals returns one player's withdrawals, newest first.
func (s *Store) ListPlayerWithdrawals(ctx context.Context, playerID int64) ([]models.Withdrawal, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM withdrawals
		WHERE player_id = $1
		ORDER BY created_at DESC;`, withdrawalColumns)
	rows, err := s.pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("list player withdrawals: %w", err)
	}
	defer rows.Close()

	withdrawals := []models.Withdrawal{}
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

func scanPlayer(row pgx.Row) (models.Player, error) {
	var p models.Player
	if err := row.Scan(&p.ID, &p.TgID, &p.Username, &p.Rank, &p.Level, &p.Gold, &p.Token,
		&p.Energy, &p.LastSeen, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Player{}, storage.ErrNotFound
		}
		return models.Player{}, fmt.Errorf("scan player: %w", err)
	}
	return p, nil
}

func scanWithdrawal(row pgx.Row) (models.Withdrawal, error) {
	var w models.Withdrawal
	if err := row.Scan(&w.ID, &w.PlayerID, &w.Tokens, &w.Status, &w.AdminNote,
		&w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Withdrawal{}, storage.ErrNotFound
		}
		return models.Withdrawal{}, fmt.Errorf("scan withdrawal: %w", err)
	}
	return w, nil
}
