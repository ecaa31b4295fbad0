package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"sandoog/internal/apperr"
	"sandoog/internal/models"
	"sandoog/internal/storage"
)

// TokenIssuer mints bearer credentials for an identity. Expiry and
// verification belong to the implementation.
type TokenIssuer interface {
	IssueAccess(id models.Identity) (string, error)
	IssueRefresh(id models.Identity) (string, error)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// IdentityService creates users and guest sessions and decides which
// credentials they get.
type IdentityService struct {
	Store    *storage.Gateway
	Tokens   TokenIssuer
	Logger   logrus.FieldLogger
	Now      func() time.Time
	HashCost int
}

func NewIdentityService(store *storage.Gateway, tokens TokenIssuer, logger logrus.FieldLogger) *IdentityService {
	return &IdentityService{
		Store:    store,
		Tokens:   tokens,
		Logger:   logger,
		Now:      time.Now,
		HashCost: bcrypt.DefaultCost,
	}
}

// Register creates a user with the starter budgets and savings and issues
// an access and a refresh token.
func (s *IdentityService) Register(ctx context.Context, username, password string) (*models.User, TokenPair, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, TokenPair{}, apperr.InvalidInput("Missing username or password")
	}
	if strings.HasPrefix(username, models.GuestUsernamePrefix) {
		return nil, TokenPair{}, apperr.InvalidInput("Usernames starting with " + models.GuestUsernamePrefix + " are reserved")
	}

	exists, err := s.CheckUsernameExists(ctx, username)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if exists {
		return nil, TokenPair{}, apperr.Conflict("User already exists")
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, TokenPair{}, err
	}

	user := &models.User{
		Username:     username,
		Password:     hash,
		Role:         models.RoleUser,
		LastActivity: s.Now().UTC(),
	}
	if err := s.createWithDefaults(ctx, user); err != nil {
		if storage.IsDuplicate(err) {
			return nil, TokenPair{}, apperr.Conflict("User already exists")
		}
		return nil, TokenPair{}, fmt.Errorf("register %q: %w", username, err)
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	s.Logger.WithField("user_id", user.ID).Info("user registered")
	return user, pair, nil
}

// Login checks the credentials and issues a fresh token pair.
func (s *IdentityService) Login(ctx context.Context, username, password string) (*models.User, TokenPair, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, TokenPair{}, apperr.InvalidInput("Missing username or password")
	}

	user, err := storage.For[models.User](s.Store).GetBy(ctx, map[string]any{"username": username})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, TokenPair{}, apperr.Unauthorized("Invalid username or password")
		}
		return nil, TokenPair{}, fmt.Errorf("login %q: %w", username, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.Logger.WithField("user_id", user.ID).Warn("login with wrong password")
		return nil, TokenPair{}, apperr.Unauthorized("Invalid username or password")
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// CreateGuestSession creates a disposable account and returns it with an
// access token only. Its password is random and never leaves this function.
func (s *IdentityService) CreateGuestSession(ctx context.Context) (*models.User, string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, "", fmt.Errorf("guest password: %w", err)
	}
	hash, err := s.hashPassword(hex.EncodeToString(secret))
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username:     models.GuestUsernamePrefix + uuid.NewString(),
		Password:     hash,
		Role:         models.RoleUser,
		IsGuest:      true,
		LastActivity: s.Now().UTC(),
	}
	if err := s.createWithDefaults(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create guest: %w", err)
	}

	access, err := s.Tokens.IssueAccess(identityOf(user))
	if err != nil {
		return nil, "", fmt.Errorf("issue guest token: %w", err)
	}

	s.Logger.WithField("user_id", user.ID).Info("guest session created")
	return user, access, nil
}

// Refresh mints a new access token for the identity carried by a refresh
// token, and reports whether it belongs to a guest.
func (s *IdentityService) Refresh(id models.Identity) (string, bool, error) {
	access, err := s.Tokens.IssueAccess(id)
	if err != nil {
		return "", false, fmt.Errorf("issue access token: %w", err)
	}
	return access, id.IsGuest, nil
}

// DeleteUser lets a user delete their own account and everything it owns.
func (s *IdentityService) DeleteUser(ctx context.Context, requesterID, targetID string) error {
	if requesterID != targetID {
		return apperr.Forbidden("Unauthorized action")
	}
	if err := storage.DeleteUserCascade(ctx, s.Store, targetID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return fmt.Errorf("delete user %s: %w", targetID, err)
	}
	s.Logger.WithField("user_id", targetID).Info("user deleted")
	return nil
}

func (s *IdentityService) CheckUsernameExists(ctx context.Context, username string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		return false, apperr.InvalidInput("Missing username")
	}
	exists, err := storage.For[models.User](s.Store).Exists(ctx, map[string]any{"username": username})
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// TouchGuest records activity for a guest so the reaper leaves it alone.
func (s *IdentityService) TouchGuest(ctx context.Context, userID string) error {
	return storage.TouchGuest(ctx, s.Store, userID, s.Now())
}

// createWithDefaults inserts the user and then its starter records in one
// transaction, so the rows referencing user.ID never exist without it.
func (s *IdentityService) createWithDefaults(ctx context.Context, user *models.User) error {
	return s.Store.WithTx(ctx, func(tx *storage.Gateway) error {
		if err := storage.For[models.User](tx).Create(ctx, user); err != nil {
			return err
		}
		for _, b := range DefaultBudgets(user.ID) {
			if err := storage.For[models.Budget](tx).Create(ctx, &b); err != nil {
				return fmt.Errorf("seed budget %q: %w", b.Name, err)
			}
		}
		for _, sv := range DefaultSavings(user.ID) {
			if err := storage.For[models.Savings](tx).Create(ctx, &sv); err != nil {
				return fmt.Errorf("seed savings %q: %w", sv.Name, err)
			}
		}
		return nil
	})
}

func (s *IdentityService) issuePair(user *models.User) (TokenPair, error) {
	id := identityOf(user)
	access, err := s.Tokens.IssueAccess(id)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.Tokens.IssueRefresh(id)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *IdentityService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func identityOf(u *models.User) models.Identity {
	return models.Identity{UserID: u.ID, Username: u.Username, IsGuest: u.IsGuest}
}
