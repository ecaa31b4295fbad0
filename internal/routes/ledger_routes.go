package routes

import (
	"github.com/gin-gonic/gin"

	"sandoog/internal/controllers"
)

func BudgetRoutes(rg *gin.RouterGroup, h *controllers.Controller) {
	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.CreateBudget)
		budgets.GET("", h.ListBudgets)
		budgets.GET("/:id", h.GetBudget)
		budgets.PUT("/:id", h.UpdateBudget)
		budgets.DELETE("/:id", h.DeleteBudget)
	}
}

func SavingsRoutes(rg *gin.RouterGroup, h *controllers.Controller) {
	savings := rg.Group("/savings")
	{
		savings.POST("", h.CreateSavings)
		savings.GET("", h.ListSavings)
		savings.GET("/:id", h.GetSavings)
		savings.PUT("/:id", h.UpdateSavings)
		savings.DELETE("/:id", h.DeleteSavings)
	}
}

func TransactionRoutes(rg *gin.RouterGroup, h *controllers.Controller) {
	txs := rg.Group("/transactions")
	{
		txs.POST("", h.CreateTransaction)
		txs.GET("", h.ListTransactions)
		txs.DELETE("/:id", h.DeleteTransaction)
	}
}

func SummaryRoutes(rg *gin.RouterGroup, h *controllers.Controller) {
	rg.GET("/summary", h.Summary)
}
