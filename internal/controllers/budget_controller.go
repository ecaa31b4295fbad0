package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sandoog/internal/models"
)

type budgetInput struct {
	Name     *string            `json:"name"`
	Amount   *float64           `json:"amount"`
	Spent    *float64           `json:"spent"`
	Expenses *[]json.RawMessage `json:"expenses"`
}

func (h *Controller) CreateBudget(c *gin.Context) {
	var input budgetInput
	if !bindBody(c, &input) {
		return
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" || input.Amount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name or amount"})
		return
	}

	budget := models.Budget{
		Name:     *input.Name,
		Amount:   *input.Amount,
		Expenses: []json.RawMessage{},
		UserID:   currentUserID(c),
	}
	if input.Spent != nil {
		budget.Spent = *input.Spent
	}

	if err := h.Ledgers.Budgets.Create(c.Request.Context(), &budget); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, budget)
}

func (h *Controller) ListBudgets(c *gin.Context) {
	budgets, err := h.Ledgers.Budgets.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *Controller) GetBudget(c *gin.Context) {
	budget, err := h.Ledgers.Budgets.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, budget)
}

// UpdateBudget applies only the fields present in the body.
func (h *Controller) UpdateBudget(c *gin.Context) {
	var input budgetInput
	if !bindBody(c, &input) {
		return
	}

	budget, err := h.Ledgers.Budgets.Update(c.Request.Context(), currentUserID(c), c.Param("id"), func(b *models.Budget) {
		if input.Name != nil && *input.Name != "" {
			b.Name = *input.Name
		}
		if input.Amount != nil {
			b.Amount = *input.Amount
		}
		if input.Spent != nil {
			b.Spent = *input.Spent
		}
		if input.Expenses != nil {
			b.Expenses = *input.Expenses
		}
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *Controller) DeleteBudget(c *gin.Context) {
	if err := h.Ledgers.Budgets.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}
