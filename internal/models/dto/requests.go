package dto

import (
	"encoding/json"

	"github.com/tapgame/backend/internal/models"
)

// SyncRequest is the body of POST /api/player/sync. State stays a pointer so
// a missing "state" key can be told apart from an empty object.
type SyncRequest struct {
	TgID     string              `json:"tg_id"`
	Username string              `json:"username"`
	State    *models.PlayerState `json:"state"`
}

// CreateWithdrawRequest is the body of POST /api/withdraw/create. Tokens is a
// json.Number so clients may send either 10 or "10".
type CreateWithdrawRequest struct {
	TgID   string      `json:"tg_id"`
	Tokens json.Number `json:"tokens"`
}

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// UpdateBalanceRequest is the body of POST /api/admin/player/update-balance.
// Deltas may be negative; anything unparseable counts as zero.
type UpdateBalanceRequest struct {
	TgID     string      `json:"tg_id"`
	AddGold  json.Number `json:"addGold"`
	AddToken json.Number `json:"addToken"`
}

// SetStatusRequest is the body of POST /api/admin/withdraws/{id}/status.
// A nil note clears any previous admin note.
type SetStatusRequest struct {
	Status string  `json:"status"`
	Note   *string `json:"note"`
}
