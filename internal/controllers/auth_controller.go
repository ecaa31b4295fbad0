package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sandoog/internal/middleware"
)

type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Controller) Register(c *gin.Context) {
	var input credentialsInput
	if !bindBody(c, &input) {
		return
	}

	user, pair, err := h.Identity.Register(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (h *Controller) Login(c *gin.Context) {
	var input credentialsInput
	if !bindBody(c, &input) {
		return
	}

	user, pair, err := h.Identity.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// GuestSession creates a throwaway account. Guests get no refresh token.
func (h *Controller) GuestSession(c *gin.Context) {
	user, access, err := h.Identity.CreateGuestSession(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":         user,
		"access_token": access,
	})
}

// Refresh runs behind RequireRefresh, which has already verified the token.
func (h *Controller) Refresh(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	access, isGuest, err := h.Identity.Refresh(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": access,
		"is_guest":     isGuest,
	})
}

func (h *Controller) DeleteUser(c *gin.Context) {
	if err := h.Identity.DeleteUser(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Controller) CheckUser(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
	}
	if !bindBody(c, &input) {
		return
	}

	exists, err := h.Identity.CheckUsernameExists(c.Request.Context(), input.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
