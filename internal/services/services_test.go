package services

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sandoog/internal/middleware"
	"sandoog/internal/models"
	"sandoog/internal/storage"
	"sandoog/internal/storage/storagetest"
)

var _ TokenIssuer = (*middleware.TokenManager)(nil)

type fixture struct {
	store    *storage.Gateway
	tokens   *middleware.TokenManager
	identity *IdentityService
	ledgers  *Ledgers
	log      *logrus.Logger
	logs     *logtest.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	store := storagetest.Open(t)
	tokens := middleware.NewTokenManager("test-secret", 0, 0)
	identity := NewIdentityService(store, tokens, log)
	identity.HashCost = bcrypt.MinCost

	return &fixture{
		store:    store,
		tokens:   tokens,
		identity: identity,
		ledgers:  NewLedgers(store),
		log:      log,
		logs:     hook,
	}
}

func (f *fixture) register(t *testing.T, username string) *models.User {
	t.Helper()
	u, _, err := f.identity.Register(context.Background(), username, "pw123")
	require.NoError(t, err)
	return u
}

func (f *fixture) guestAt(t *testing.T, at time.Time) *models.User {
	t.Helper()
	prev := f.identity.Now
	f.identity.Now = func() time.Time { return at }
	defer func() { f.identity.Now = prev }()

	u, _, err := f.identity.CreateGuestSession(context.Background())
	require.NoError(t, err)
	return u
}

// ownedCounts returns how many budgets, savings and transactions reference userID.
func (f *fixture) ownedCounts(t *testing.T, userID string) (int, int, int) {
	t.Helper()
	ctx := context.Background()
	owner := map[string]any{"user_id": userID}

	b, err := storage.For[models.Budget](f.store).FindBy(ctx, owner)
	require.NoError(t, err)
	s, err := storage.For[models.Savings](f.store).FindBy(ctx, owner)
	require.NoError(t, err)
	tx, err := storage.For[models.Transaction](f.store).FindBy(ctx, owner)
	require.NoError(t, err)
	return len(b), len(s), len(tx)
}

func (f *fixture) userExists(t *testing.T, id string) bool {
	t.Helper()
	ok, err := storage.For[models.User](f.store).Exists(context.Background(), map[string]any{"id": id})
	require.NoError(t, err)
	return ok
}
