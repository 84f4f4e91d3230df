package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapgame/backend/internal/models"
	"github.com/tapgame/backend/internal/storage"
)

func TestDuplicateTgIDConflicts(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.InsertPlayer(ctx, storage.NewPlayer{TgID: "42", State: models.DefaultState()})
	require.NoError(t, err)

	_, err = s.InsertPlayer(ctx, storage.NewPlayer{TgID: "42", State: models.DefaultState()})
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestListPlayersOrderAndLimit(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, tg := range []string{"a", "b", "c"} {
		_, err := s.InsertPlayer(ctx, storage.NewPlayer{TgID: tg, State: models.DefaultState()})
		require.NoError(t, err)
	}
	// Touching "a" makes it the most recently seen.
	_, err := s.AdjustPlayerBalance(ctx, "a", 1, 0)
	require.NoError(t, err)

	players, err := s.ListPlayers(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "a", players[0].TgID)
}

func TestListWithdrawalsJoinsOwner(t *testing.T) {
	s := New()
	ctx := context.Background()

	name := "neo"
	p, err := s.InsertPlayer(ctx, storage.NewPlayer{TgID: "42", Username: &name, State: models.DefaultState()})
	require.NoError(t, err)
	_, err = s.InsertWithdrawal(ctx, p.ID, 10)
	require.NoError(t, err)

	withdrawals, err := s.ListWithdrawals(ctx, "", 100)
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, "42", withdrawals[0].TgID)
	require.NotNil(t, withdrawals[0].Username)
	assert.Equal(t, "neo", *withdrawals[0].Username)
}

func TestInsertWithdrawalRequiresPlayer(t *testing.T) {
	s := New()

	_, err := s.InsertWithdrawal(context.Background(), 999, 10)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateWithdrawalStatusUnknownID(t *testing.T) {
	s := New()

	_, err := s.UpdateWithdrawalStatus(context.Background(), 999, models.StatusDone, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
