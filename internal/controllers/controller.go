package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sandoog/internal/apperr"
	"sandoog/internal/middleware"
	"sandoog/internal/models"
	"sandoog/internal/services"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller holds the services every handler works with.
type Controller struct {
	Identity *services.IdentityService
	Ledgers  *services.Ledgers
	DB       Pinger
	Logger   logrus.FieldLogger
}

func New(identity *services.IdentityService, ledgers *services.Ledgers, db Pinger, logger logrus.FieldLogger) *Controller {
	return &Controller{Identity: identity, Ledgers: ledgers, DB: db, Logger: logger}
}

// Healthz answers 200 while the database answers pings.
func (h *Controller) Healthz(c *gin.Context) {
	if err := h.DB.Ping(c.Request.Context()); err != nil {
		h.Logger.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// TouchGuest is the activity hook for RequireAuth. A failed heartbeat is
// logged and the request goes on.
func (h *Controller) TouchGuest(c *gin.Context, id models.Identity) {
	if err := h.Identity.TouchGuest(c.Request.Context(), id.UserID); err != nil {
		h.Logger.WithError(err).WithField("user_id", id.UserID).Warn("guest heartbeat failed")
	}
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput, apperr.KindUnauthorized, apperr.KindConflict, apperr.KindValidationFailed:
		return http.StatusBadRequest
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": msg}. Business errors carry their
// own message; anything else is logged and hidden behind a 500.
func (h *Controller) respondError(c *gin.Context, err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		c.JSON(statusFor(e.Kind), gin.H{"error": e.Message})
		return
	}
	h.Logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// bindBody decodes the JSON body into dst and answers 400 when it cannot.
func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		msg := "Invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "Missing data"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return false
	}
	return true
}

// currentUserID returns the user id of the authenticated caller.
func currentUserID(c *gin.Context) string {
	id, _ := middleware.CurrentIdentity(c)
	return id.UserID
}
