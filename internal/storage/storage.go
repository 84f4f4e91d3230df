package storage

import (
	"context"
	"errors"

	"github.com/tapgame/backend/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict indicates a uniqueness violation.
var ErrConflict = errors.New("record already exists")

// NewPlayer carries the fields for inserting a player row. The store assigns
// the surrogate id and both timestamps.
type NewPlayer struct {
	TgID     string
	Username *string
	State    models.PlayerState
}

// PlayerStore captures player persistence operations needed by the core flows.
type PlayerStore interface {
	FindPlayerByTgID(ctx context.Context, tgID string) (models.Player, error)
	InsertPlayer(ctx context.Context, p NewPlayer) (models.Player, error)
	// UpdatePlayerState overwrites all progress fields, replaces the username
	// when non-nil, and refreshes last_seen.
	UpdatePlayerState(ctx context.Context, tgID string, state models.PlayerState, username *string) (models.Player, error)
	// AdjustPlayerBalance applies both deltas and clamps gold and token at
	// zero in a single atomic statement.
	AdjustPlayerBalance(ctx context.Context, tgID string, addGold, addToken int64) (models.Player, error)
	// ListPlayers returns players ordered by last_seen descending. A non-empty
	// search term matches as a substring of tg_id or username.
	ListPlayers(ctx context.Context, search string, limit int) ([]models.Player, error)
}

// WithdrawalStore captures withdrawal persistence operations.
type WithdrawalStore interface {
	// InsertWithdrawal creates a withdrawal in the pending status.
	InsertWithdrawal(ctx context.Context, playerID, tokens int64) (models.Withdrawal, error)
	FindWithdrawal(ctx context.Context, id int64) (models.Withdrawal, error)
	// UpdateWithdrawalStatus overwrites status and admin note (nil clears it)
	// and refreshes updated_at.
	UpdateWithdrawalStatus(ctx context.Context, id int64, status models.WithdrawalStatus, note *string) (models.Withdrawal, error)
	// ListWithdrawals returns withdrawals joined with the owning player's
	// identity, newest first, optionally filtered by status.
	ListWithdrawals(ctx context.Context, status models.WithdrawalStatus, limit int) ([]models.WithdrawalWithPlayer, error)
	// ListPlayerWithdrawals returns one player's withdrawals, newest first.
	ListPlayerWithdrawals(ctx context.Context, playerID int64) ([]models.Withdrawal, error)
}

// Store is the full persistence surface the API needs.
type Store interface {
	PlayerStore
	WithdrawalStore
}
