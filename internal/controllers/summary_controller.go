package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Controller) Summary(c *gin.Context) {
	summary, err := h.Ledgers.Summary(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
