package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"sandoog/internal/apperr"
	"sandoog/internal/models"
)

const dateOnly = "2006-01-02"

type transactionInput struct {
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
}

// parseDate accepts RFC 3339 timestamps and plain dates and returns UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperr.InvalidInput("Invalid date format")
}

func (h *Controller) CreateTransaction(c *gin.Context) {
	var input transactionInput
	if !bindBody(c, &input) {
		return
	}
	if input.Amount == nil || input.Description == "" || input.Type == "" || input.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	date, err := parseDate(input.Date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	tx := models.Transaction{
		Amount:      *input.Amount,
		Description: input.Description,
		Type:        input.Type,
		Date:        date,
		UserID:      currentUserID(c),
	}
	if err := h.Ledgers.Transactions.Create(c.Request.Context(), &tx); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *Controller) ListTransactions(c *gin.Context) {
	txs, err := h.Ledgers.Transactions.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *Controller) DeleteTransaction(c *gin.Context) {
	if err := h.Ledgers.Transactions.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
