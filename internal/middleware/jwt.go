package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"sandoog/internal/models"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour

	identityKey = "identity"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type claims struct {
	models.Identity
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenManager mints and verifies HS256 tokens.
type TokenManager struct {
	secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenManager{
		secret:     []byte(secret),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		Now:        time.Now,
	}
}

func (m *TokenManager) IssueAccess(id models.Identity) (string, error) {
	return m.sign(id, TokenAccess, m.AccessTTL)
}

func (m *TokenManager) IssueRefresh(id models.Identity) (string, error) {
	return m.sign(id, TokenRefresh, m.RefreshTTL)
}

func (m *TokenManager) sign(id models.Identity, typ string, ttl time.Duration) (string, error) {
	now := m.Now()
	c := claims{
		Identity: id,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(m.secret)
}

// Validate parses tokenStr, checks signature, expiry and type, and returns
// the embedded identity.
func (m *TokenManager) Validate(tokenStr, wantType string) (models.Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.Now),
	)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Type != wantType {
		return models.Identity{}, ErrWrongTokenType
	}
	if c.UserID == "" {
		return models.Identity{}, ErrInvalidToken
	}
	return c.Identity, nil
}

// ActivityFunc is told about every authenticated guest request.
type ActivityFunc func(c *gin.Context, id models.Identity)

// RequireAuth ensures a valid access token is present and stores its
// identity in the context. Guest requests are reported to onGuest.
func RequireAuth(m *TokenManager, onGuest ActivityFunc) gin.HandlerFunc {
	return requireToken(m, TokenAccess, onGuest)
}

// RequireRefresh ensures a valid refresh token is present.
func RequireRefresh(m *TokenManager) gin.HandlerFunc {
	return requireToken(m, TokenRefresh, nil)
}

func requireToken(m *TokenManager, typ string, onGuest ActivityFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		id, err := m.Validate(tokenString, typ)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, id)
		if id.IsGuest && onGuest != nil {
			onGuest(c, id)
		}

		c.Next()
	}
}

// CurrentIdentity returns the identity stored by RequireAuth or RequireRefresh.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}
