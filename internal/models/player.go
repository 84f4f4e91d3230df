package models

import "time"

// Player is the persisted progress record for one external player identity.
type Player struct {
	ID        int64     `json:"id"`
	TgID      string    `json:"tg_id"`
	Username  *string   `json:"username"`
	Rank      int64     `json:"rank"`
	Level     int64     `json:"level"`
	Gold      int64     `json:"gold"`
	Token     int64     `json:"token"`
	Energy    int64     `json:"energy"`
	LastSeen  time.Time `json:"last_seen"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerState carries the progress fields a client reports on sync.
// A zero value means "not reported": the reconciler keeps the stored
// value for any zero field.
type PlayerState struct {
	Rank   int64 `json:"rank"`
	Level  int64 `json:"level"`
	Gold   int64 `json:"gold"`
	Token  int64 `json:"token"`
	Energy int64 `json:"energy"`
}

// DefaultState returns the progress assigned to a brand-new player.
func DefaultState() PlayerState {
	return PlayerState{Rank: 0, Level: 1, Gold: 0, Token: 0, Energy: 0}
}
