package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tapgame/backend/internal/models"
	"github.com/tapgame/backend/internal/storage"
)

const (
	playerListLimit   = 50
	withdrawListLimit = 100
)

// ValidationError reports malformed or missing caller input. Handlers map
// it to a 400 response with the message as-is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Service implements the game's core flows over a storage backend.
type Service struct {
	store storage.Store
}

// New builds a Service on the given store.
func New(store storage.Store) *Service {
	return &Service{store: store}
}

// Sync applies a client-reported state onto the stored player record,
// creating the record on first contact and always refreshing last_seen.
//
// Progress fields follow the original client protocol: a zero value means
// "not reported", so a stored value is only replaced by a non-zero incoming
// value. A player whose gold legitimately reaches zero cannot sync that
// fact; clients work around it by never reporting bare zeros.
func (s *Service) Sync(ctx context.Context, tgID, username string, state *models.PlayerState) (models.Player, error) {
	tgID = strings.TrimSpace(tgID)
	if tgID == "" || state == nil {
		return models.Player{}, &ValidationError{Msg: "tg_id & state required"}
	}

	current, err := s.store.FindPlayerByTgID(ctx, tgID)
	if errors.Is(err, storage.ErrNotFound) {
		return s.createPlayer(ctx, tgID, username, *state)
	}
	if err != nil {
		return models.Player{}, fmt.Errorf("find player: %w", err)
	}

	merged := mergeState(stateOf(current), *state)
	player, err := s.store.UpdatePlayerState(ctx, tgID, merged, optional(username))
	if err != nil {
		return models.Player{}, fmt.Errorf("update player: %w", err)
	}
	return player, nil
}

// CreateWithdrawal records a pending cash-out request. The amount must parse
// as a finite number greater than zero; fractions truncate. An unseen tg_id
// implicitly creates a player with all-default state first, so the two
// inserts are not atomic.
func (s *Service) CreateWithdrawal(ctx context.Context, tgID string, tokens json.Number) (models.Withdrawal, error) {
	tgID = strings.TrimSpace(tgID)
	if tgID == "" || tokens == "" {
		return models.Withdrawal{}, &ValidationError{Msg: "tg_id & tokens required"}
	}
	amount, ok := parseTokens(tokens)
	if !ok {
		return models.Withdrawal{}, &ValidationError{Msg: "invalid tokens"}
	}

	player, err := s.store.FindPlayerByTgID(ctx, tgID)
	if errors.Is(err, storage.ErrNotFound) {
		player, err = s.createPlayer(ctx, tgID, "", models.DefaultState())
	}
	if err != nil {
		return models.Withdrawal{}, fmt.Errorf("resolve player: %w", err)
	}

	withdrawal, err := s.store.InsertWithdrawal(ctx, player.ID, amount)
	if err != nil {
		return models.Withdrawal{}, fmt.Errorf("insert withdrawal: %w", err)
	}
	return withdrawal, nil
}

// SetWithdrawalStatus moves a withdrawal to the given status and overwrites
// its admin note (nil clears it). Every status may transition to every
// other, including itself.
func (s *Service) SetWithdrawalStatus(ctx context.Context, id int64, status models.WithdrawalStatus, note *string) (models.Withdrawal, error) {
	if !status.Valid() {
		return models.Withdrawal{}, &ValidationError{Msg: "invalid status"}
	}
	withdrawal, err := s.store.UpdateWithdrawalStatus(ctx, id, status, note)
	if err != nil {
		return models.Withdrawal{}, fmt.Errorf("update withdrawal: %w", err)
	}
	return withdrawal, nil
}

// AdjustBalance applies signed gold/token deltas to an existing player.
// Balances are clamped at zero by the store in a single statement, so no
// input magnitude can drive them negative. Unparseable deltas count as zero.
func (s *Service) AdjustBalance(ctx context.Context, tgID string, addGold, addToken json.Number) (models.Player, error) {
	tgID = strings.TrimSpace(tgID)
	if tgID == "" {
		return models.Player{}, &ValidationError{Msg: "tg_id required"}
	}
	player, err := s.store.AdjustPlayerBalance(ctx, tgID, numberDelta(addGold), numberDelta(addToken))
	if err != nil {
		return models.Player{}, fmt.Errorf("adjust balance: %w", err)
	}
	return player, nil
}

// PlayerDetail returns one player and their withdrawal history, newest first.
func (s *Service) PlayerDetail(ctx context.Context, tgID string) (models.Player, []models.Withdrawal, error) {
	player, err := s.store.FindPlayerByTgID(ctx, tgID)
	if err != nil {
		return models.Player{}, nil, fmt.Errorf("find player: %w", err)
	}
	withdrawals, err := s.store.ListPlayerWithdrawals(ctx, player.ID)
	if err != nil {
		return models.Player{}, nil, fmt.Errorf("list player withdrawals: %w", err)
	}
	return player, withdrawals, nil
}

// ListPlayers returns up to 50 players, most recently seen first, optionally
// filtered by a substring of tg_id or username.
func (s *Service) ListPlayers(ctx context.Context, search string) ([]models.Player, error) {
	players, err := s.store.ListPlayers(ctx, strings.TrimSpace(search), playerListLimit)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

// ListWithdrawals returns up to 100 withdrawals with owner identity, newest
// first. An unknown status filter simply matches nothing.
func (s *Service) ListWithdrawals(ctx context.Context, status models.WithdrawalStatus) ([]models.WithdrawalWithPlayer, error) {
	withdrawals, err := s.store.ListWithdrawals(ctx, status, withdrawListLimit)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return withdrawals, nil
}

func (s *Service) createPlayer(ctx context.Context, tgID, username string, incoming models.PlayerState) (models.Player, error) {
	player, err := s.store.InsertPlayer(ctx, storage.NewPlayer{
		TgID:     tgID,
		Username: optional(username),
		State:    mergeState(models.DefaultState(), incoming),
	})
	if err != nil {
		return models.Player{}, fmt.Errorf("insert player: %w", err)
	}
	return player, nil
}

// mergeState overwrites base fields with non-zero incoming values.
func mergeState(base, in models.PlayerState) models.PlayerState {
	if in.Rank != 0 {
		base.Rank = in.Rank
	}
	if in.Level != 0 {
		base.Level = in.Level
	}
	if in.Gold != 0 {
		base.Gold = in.Gold
	}
	if in.Token != 0 {
		base.Token = in.Token
	}
	if in.Energy != 0 {
		base.Energy = in.Energy
	}
	return base
}

func stateOf(p models.Player) models.PlayerState {
	return models.PlayerState{Rank: p.Rank, Level: p.Level, Gold: p.Gold, Token: p.Token, Energy: p.Energy}
}

// parseTokens accepts a JSON number or numeric string and returns a whole
// token amount, rejecting anything that does not land strictly above zero.
func parseTokens(n json.Number) (int64, bool) {
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	amount := int64(f)
	if amount <= 0 {
		return 0, false
	}
	return amount, true
}

// numberDelta coerces an optional JSON number to an integer delta.
// Unparseable input counts as zero; fractions truncate toward zero.
func numberDelta(n json.Number) int64 {
	if n == "" {
		return 0
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
