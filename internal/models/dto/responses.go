package dto

import "github.com/tapgame/backend/internal/models"

type LoginResponse struct {
	Token string `json:"token"`
}

type PlayerResponse struct {
	OK     bool          `json:"ok"`
	Player models.Player `json:"player"`
}

type WithdrawResponse struct {
	OK       bool              `json:"ok"`
	Withdraw models.Withdrawal `json:"withdraw"`
}

// PlayerDetailResponse is the admin view of one player plus their
// withdrawal history, newest first.
type PlayerDetailResponse struct {
	Player    models.Player       `json:"player"`
	Withdraws []models.Withdrawal `json:"withdraws"`
}
