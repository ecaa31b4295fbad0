package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sandoog/internal/models"
)

type savingsInput struct {
	Name          *string            `json:"name"`
	Goal          *float64           `json:"goal"`
	Saved         *float64           `json:"saved"`
	Contributions *[]json.RawMessage `json:"contributions"`
}

func (h *Controller) CreateSavings(c *gin.Context) {
	var input savingsInput
	if !bindBody(c, &input) {
		return
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" || input.Goal == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name or goal"})
		return
	}

	savings := models.Savings{
		Name:          *input.Name,
		Goal:          *input.Goal,
		Contributions: []json.RawMessage{},
		UserID:        currentUserID(c),
	}
	if input.Saved != nil {
		savings.Saved = *input.Saved
	}

	if err := h.Ledgers.Savings.Create(c.Request.Context(), &savings); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, savings)
}

func (h *Controller) ListSavings(c *gin.Context) {
	savings, err := h.Ledgers.Savings.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, savings)
}

func (h *Controller) GetSavings(c *gin.Context) {
	savings, err := h.Ledgers.Savings.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, savings)
}

func (h *Controller) UpdateSavings(c *gin.Context) {
	var input savingsInput
	if !bindBody(c, &input) {
		return
	}

	savings, err := h.Ledgers.Savings.Update(c.Request.Context(), currentUserID(c), c.Param("id"), func(s *models.Savings) {
		if input.Name != nil && *input.Name != "" {
			s.Name = *input.Name
		}
		if input.Goal != nil {
			s.Goal = *input.Goal
		}
		if input.Saved != nil {
			s.Saved = *input.Saved
		}
		if input.Contributions != nil {
			s.Contributions = *input.Contributions
		}
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, savings)
}

func (h *Controller) DeleteSavings(c *gin.Context) {
	if err := h.Ledgers.Savings.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Savings deleted successfully"})
}
