package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sandoog/internal/models"
	"sandoog/internal/storage"
	"sandoog/internal/storage/storagetest"
)

func newUser(t *testing.T, gw *storage.Gateway, username string, guest bool) models.User {
	t.Helper()
	u := models.User{Username: username, Password: "hash", Role: models.RoleUser, IsGuest: guest}
	require.NoError(t, storage.For[models.User](gw).Create(context.Background(), &u))
	require.NotEmpty(t, u.ID)
	return u
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	gw := storagetest.Open(t)
	owner := newUser(t, gw, "alice", false)
	budgets := storage.For[models.Budget](gw)

	b := models.Budget{Name: "Food", Amount: 300, UserID: owner.ID}
	require.NoError(t, budgets.Create(ctx, &b))

	t.Run("get by id", func(t *testing.T) {
		got, err := budgets.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Food", got.Name)
		assert.Equal(t, 300.0, got.Amount)
		assert.Equal(t, 0.0, got.Spent)
	})

	t.Run("get by fields", func(t *testing.T) {
		got, err := budgets.GetBy(ctx, map[string]any{"user_id": owner.ID, "name": "Food"})
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)

		_, err = budgets.GetBy(ctx, map[string]any{"name": "Nope"})
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update keeps json sub-records", func(t *testing.T) {
		b.Spent = 42
		b.Expenses = []json.RawMessage{json.RawMessage(`{"item":"bread","cost":2}`)}
		require.NoError(t, budgets.Update(ctx, &b))

		got, err := budgets.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 42.0, got.Spent)
		require.Len(t, got.Expenses, 1)
		assert.JSONEq(t, `{"item":"bread","cost":2}`, string(got.Expenses[0]))
	})

	t.Run("list all and find by", func(t *testing.T) {
		other := newUser(t, gw, "bob", false)
		require.NoError(t, budgets.Create(ctx, &models.Budget{Name: "Fun", Amount: 10, UserID: other.ID}))

		all, err := budgets.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		mine, err := budgets.FindBy(ctx, map[string]any{"user_id": owner.ID})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, b.ID, mine[0].ID)
	})

	t.Run("delete by id", func(t *testing.T) {
		require.NoError(t, budgets.DeleteByID(ctx, b.ID))
		_, err := budgets.GetByID(ctx, b.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)

		require.ErrorIs(t, budgets.DeleteByID(ctx, b.ID), storage.ErrNotFound)
	})

	t.Run("update of a deleted row does not resurrect it", func(t *testing.T) {
		require.ErrorIs(t, budgets.Update(ctx, &b), storage.ErrNotFound)
		_, err := budgets.GetByID(ctx, b.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCreateDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	gw := storagetest.Open(t)
	newUser(t, gw, "alice", false)

	err := storage.For[models.User](gw).Create(ctx, &models.User{Username: "alice", Password: "x"})
	require.Error(t, err)
	require.True(t, storage.IsDuplicate(err))
	require.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	gw := storagetest.Open(t)
	boom := errors.New("boom")

	err := gw.WithTx(ctx, func(tx *storage.Gateway) error {
		u := models.User{Username: "temp", Password: "x"}
		if err := storage.For[models.User](tx).Create(ctx, &u); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	exists, err := storage.For[models.User](gw).Exists(ctx, map[string]any{"username": "temp"})
	require.NoError(t, err)
	require.False(t, exists)
}

func TestDeleteUserCascade(t *testing.T) {
	ctx := context.Background()
	gw := storagetest.Open(t)
	victim := newUser(t, gw, "victim", false)
	bystander := newUser(t, gw, "bystander", false)

	for _, u := range []models.User{victim, bystander} {
		require.NoError(t, storage.For[models.Budget](gw).Create(ctx, &models.Budget{Name: "B", Amount: 1, UserID: u.ID}))
		require.NoError(t, storage.For[models.Savings](gw).Create(ctx, &models.Savings{Name: "S", Goal: 1, UserID: u.ID}))
		require.NoError(t, storage.For[models.Transaction](gw).Create(ctx, &models.Transaction{
			Amount: 1, Description: "T", Type: models.TransactionIncome, Date: time.Now(), UserID: u.ID,
		}))
	}

	require.NoError(t, storage.DeleteUserCascade(ctx, gw, victim.ID))

	owner := map[string]any{"user_id": victim.ID}
	budgets, _ := storage.For[models.Budget](gw).FindBy(ctx, owner)
	savings, _ := storage.For[models.Savings](gw).FindBy(ctx, owner)
	txs, _ := storage.For[models.Transaction](gw).FindBy(ctx, owner)
	assert.Empty(t, budgets)
	assert.Empty(t, savings)
	assert.Empty(t, txs)

	_, err := storage.For[models.User](gw).GetByID(ctx, victim.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	others, _ := storage.For[models.Budget](gw).FindBy(ctx, map[string]any{"user_id": bystander.ID})
	assert.Len(t, others, 1)

	t.Run("second delete is not found", func(t *testing.T) {
		require.ErrorIs(t, storage.DeleteUserCascade(ctx, gw, victim.ID), storage.ErrNotFound)
	})
}

func TestTouchGuest(t *testing.T) {
	ctx := context.Background()
	gw := storagetest.Open(t)
	guest := newUser(t, gw, "guest_1", true)
	member := newUser(t, gw, "member", false)

	later := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, storage.TouchGuest(ctx, gw, guest.ID, later))
	require.NoError(t, storage.TouchGuest(ctx, gw, member.ID, later))
	require.NoError(t, storage.TouchGuest(ctx, gw, "missing", later))

	got, err := storage.For[models.User](gw).GetByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.True(t, later.Equal(got.LastActivity))
	assert.Equal(t, time.UTC, got.LastActivity.Location())

	untouched, err := storage.For[models.User](gw).GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.False(t, later.Equal(untouched.LastActivity))

	guests, err := storage.ListGuests(ctx, gw)
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, guest.ID, guests[0].ID)
}

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"wrapped sentinel", fmt.Errorf("create: %w", storage.ErrDuplicate), true},
		{"lib/pq unique violation", &pq.Error{Code: "23505"}, true},
		{"lib/pq other violation", &pq.Error{Code: "23503"}, false},
		{"untranslated driver text", errors.New("UNIQUE constraint failed: users.username"), false},
		{"not found", storage.ErrNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.IsDuplicate(tt.err))
		})
	}
}

func TestEvictIdleGuest(t *testing.T) {
	ctx := context.Background()
	gw := storagetest.Open(t)
	seen := time.Date(2026, 5, 1, 11, 40, 0, 0, time.UTC)

	guest := newUser(t, gw, "guest_1", true)
	require.NoError(t, storage.TouchGuest(ctx, gw, guest.ID, seen))
	require.NoError(t, storage.For[models.Budget](gw).Create(ctx, &models.Budget{Name: "B", Amount: 1, UserID: guest.ID}))
	require.NoError(t, storage.For[models.Transaction](gw).Create(ctx, &models.Transaction{
		Amount: 1, Description: "T", Type: models.TransactionExpense, Date: seen, UserID: guest.ID,
	}))

	member := models.User{Username: "member", Password: "hash", LastActivity: seen.Add(-time.Hour)}
	require.NoError(t, storage.For[models.User](gw).Create(ctx, &member))

	owned := func(userID string) (int, int) {
		t.Helper()
		owner := map[string]any{"user_id": userID}
		b, err := storage.For[models.Budget](gw).FindBy(ctx, owner)
		require.NoError(t, err)
		tx, err := storage.For[models.Transaction](gw).FindBy(ctx, owner)
		require.NoError(t, err)
		return len(b), len(tx)
	}

	t.Run("active at the cutoff is kept", func(t *testing.T) {
		require.ErrorIs(t, storage.EvictIdleGuest(ctx, gw, guest.ID, seen), storage.ErrNotFound)
		b, tx := owned(guest.ID)
		assert.Equal(t, 1, b, "children restored by rollback")
		assert.Equal(t, 1, tx)
	})

	t.Run("registered users are never evicted", func(t *testing.T) {
		require.ErrorIs(t, storage.EvictIdleGuest(ctx, gw, member.ID, seen), storage.ErrNotFound)
		_, err := storage.For[models.User](gw).GetByID(ctx, member.ID)
		require.NoError(t, err)
	})

	t.Run("idle guest goes with everything it owns", func(t *testing.T) {
		require.NoError(t, storage.EvictIdleGuest(ctx, gw, guest.ID, seen.Add(time.Second)))
		_, err := storage.For[models.User](gw).GetByID(ctx, guest.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)
		b, tx := owned(guest.ID)
		assert.Zero(t, b+tx)
	})
}
