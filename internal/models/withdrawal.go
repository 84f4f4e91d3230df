package models

import "time"

// WithdrawalStatus enumerates the review states of a withdrawal request.
type WithdrawalStatus string

const (
	StatusPending  WithdrawalStatus = "pending"
	StatusApproved WithdrawalStatus = "approved"
	StatusRejected WithdrawalStatus = "rejected"
	StatusDone     WithdrawalStatus = "done"
)

// Valid reports whether s is one of the four known statuses. Transitions
// between any pair of valid statuses are allowed, including self-loops.
func (s WithdrawalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusDone:
		return true
	}
	return false
}

// Withdrawal records a player's request to cash out in-game tokens. The
// backend only tracks the request through review; payout happens elsewhere.
type Withdrawal struct {
	ID        int64            `json:"id"`
	PlayerID  int64            `json:"player_id"`
	Tokens    int64            `json:"tokens"`
	Status    WithdrawalStatus `json:"status"`
	AdminNote *string          `json:"admin_note"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// WithdrawalWithPlayer is a withdrawal joined with its owner's identity,
// as returned by the admin listing.
type WithdrawalWithPlayer struct {
	Withdrawal
	TgID     string  `json:"tg_id"`
	Username *string `json:"username"`
}
