package routes

import (
	"github.com/gin-gonic/gin"

	"sandoog/internal/controllers"
	"sandoog/internal/middleware"
)

func AuthRoutes(api *gin.RouterGroup, d Deps) {
	h := d.Controller
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/check_user", h.CheckUser)
	api.POST("/guest_session", middleware.RateLimitByIP(d.GuestLimit), h.GuestSession)
	api.POST("/refresh", middleware.RequireRefresh(d.Tokens), h.Refresh)
}

func UserRoutes(rg *gin.RouterGroup, h *controllers.Controller) {
	rg.DELETE("/users/:id", h.DeleteUser)
}
