package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tapgame/backend/internal/models"
	"github.com/tapgame/backend/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store is an in-memory storage.Store with the same semantics as the
// Postgres implementation. It backs the unit tests for the core flows
// and the HTTP handlers.
type Store struct {
	mu           sync.Mutex
	players      map[int64]models.Player
	tgIndex      map[string]int64
	withdrawals  map[int64]models.Withdrawal
	nextPlayerID int64
	nextWdID     int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		players:     make(map[int64]models.Player),
		tgIndex:     make(map[string]int64),
		withdrawals: make(map[int64]models.Withdrawal),
	}
}

// FindPlayerByTgID fetches a player by external identifier.
func (s *Store) FindPlayerByTgID(_ context.Context, tgID string) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tgIndex[tgID]
	if !ok {
		return models.Player{}, storage.ErrNotFound
	}
	return s.players[id], nil
}

// InsertPlayer creates a new player row with the supplied starting state.
func (s *Store) InsertPlayer(_ context.Context, p storage.NewPlayer) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tgIndex[p.TgID]; exists {
		return models.Player{}, storage.ErrConflict
	}
	s.nextPlayerID++
	now := time.Now()
	player := models.Player{
		ID:        s.nextPlayerID,
		TgID:      p.TgID,
		Username:  copyString(p.Username),
		Rank:      p.State.Rank,
		Level:     p.State.Level,
		Gold:      p.State.Gold,
		Token:     p.State.Token,
		Energy:    p.State.Energy,
		LastSeen:  now,
		CreatedAt: now,
	}
	s.players[player.ID] = player
	s.tgIndex[player.TgID] = player.ID
	return player, nil
}

// UpdatePlayerState overwrites all progress fields and refreshes last_seen.
func (s *Store) UpdatePlayerState(_ context.Context, tgID string, state models.PlayerState, username *string) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tgIndex[tgID]
	if !ok {
		return models.Player{}, storage.ErrNotFound
	}
	player := s.players[id]
	if username != nil {
		player.Username = copyString(username)
	}
	player.Rank = state.Rank
	player.Level = state.Level
	player.Gold = state.Gold
	player.Token = state.Token
	player.Energy = state.Energy
	player.LastSeen = time.Now()
	s.players[id] = player
	return player, nil
}

// AdjustPlayerBalance applies both deltas, clamping gold and token at zero.
func (s *Store) AdjustPlayerBalance(_ context.Context, tgID string, addGold, addToken int64) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tgIndex[tgID]
	if !ok {
		return models.Player{}, storage.ErrNotFound
	}
	player := s.players[id]
	player.Gold = max(0, player.Gold+addGold)
	player.Token = max(0, player.Token+addToken)
	player.LastSeen = time.Now()
	s.players[id] = player
	return player, nil
}

// ListPlayers returns the most recently seen players, optionally filtered by
// a substring of tg_id or username.
func (s *Store) ListPlayers(_ context.Context, search string, limit int) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	players := []models.Player{}
	for _, p := range s.players {
		if search != "" && !matchesPlayer(p, search) {
			continue
		}
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if !players[i].LastSeen.Equal(players[j].LastSeen) {
			return players[i].LastSeen.After(players[j].LastSeen)
		}
		return players[i].ID > players[j].ID
	})
	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// InsertWithdrawal creates a pending withdrawal owned by the given player.
func (s *Store) InsertWithdrawal(_ context.Context, playerID, tokens int64) (models.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[playerID]; !ok {
		return models.Withdrawal{}, storage.ErrNotFound
	}
	s.nextWdID++
	now := time.Now()
	w := models.Withdrawal{
		ID:        s.nextWdID,
		PlayerID:  playerID,
		Tokens:    tokens,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.withdrawals[w.ID] = w
	return w, nil
}

// FindWithdrawal fetches a withdrawal by id.
func (s *Store) FindWithdrawal(_ context.Context, id int64) (models.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[id]
	if !ok {
		return models.Withdrawal{}, storage.ErrNotFound
	}
	return w, nil
}

// UpdateWithdrawalStatus overwrites status and admin note, refreshing updated_at.
func (s *Store) UpdateWithdrawalStatus(_ context.Context, id int64, status models.WithdrawalStatus, note *string) (models.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[id]
	if !ok {
		return models.Withdrawal{}, storage.ErrNotFound
	}
	w.Status = status
	w.AdminNote = copyString(note)
	w.UpdatedAt = time.Now()
	s.withdrawals[id] = w
	return w, nil
}

// ListWithdrawals returns withdrawals joined with their owner's identity,
// newest first, optionally filtered by status.
func (s *Store) ListWithdrawals(_ context.Context, status models.WithdrawalStatus, limit int) ([]models.WithdrawalWithPlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	withdrawals := []models.WithdrawalWithPlayer{}
	for _, w := range s.withdrawals {
		if status != "" && w.Status != status {
			continue
		}
		owner := s.players[w.PlayerID]
		withdrawals = append(withdrawals, models.WithdrawalWithPlayer{
			Withdrawal: w,
			TgID:       owner.TgID,
			Username:   owner.Username,
		})
	}
	sortWithdrawalsWithPlayer(withdrawals)
	if len(withdrawals) > limit {
		withdrawals = withdrawals[:limit]
	}
	return withdrawals, nil
}

// ListPlayerWithdrawals returns one player's withdrawals, newest first.
func (s *Store) ListPlayerWithdrawals(_ context.Context, playerID int64) ([]models.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	withdrawals := []models.Withdrawal{}
	for _, w := range s.withdrawals {
		if w.PlayerID == playerID {
			withdrawals = append(withdrawals, w)
		}
	}
	sort.Slice(withdrawals, func(i, j int) bool {
		if !withdrawals[i].CreatedAt.Equal(withdrawals[j].CreatedAt) {
			return withdrawals[i].CreatedAt.After(withdrawals[j].CreatedAt)
		}
		return withdrawals[i].ID > withdrawals[j].ID
	})
	return withdrawals, nil
}

func matchesPlayer(p models.Player, search string) bool {
	if strings.Contains(p.TgID, search) {
		return true
	}
	return p.Username != nil && strings.Contains(*p.Username, search)
}

func sortWithdrawalsWithPlayer(ws []models.WithdrawalWithPlayer) {
	sort.Slice(ws, func(i, j int) bool {
		if !ws[i].CreatedAt.Equal(ws[j].CreatedAt) {
			return ws[i].CreatedAt.After(ws[j].CreatedAt)
		}
		return ws[i].ID > ws[j].ID
	})
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
