package routes

import (
	"io"

	"github.com/gin-gonic/gin"

	"sandoog/internal/controllers"
	"sandoog/internal/logger"
	"sandoog/internal/middleware"
)

// Deps is everything the router needs from main.
type Deps struct {
	Controller  *controllers.Controller
	Tokens      *middleware.TokenManager
	AccessLog   io.Writer
	CORSOrigins []string
	GuestLimit  middleware.RateLimitConfig
}

// SetupRouter mounts every endpoint under /api.
func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if d.AccessLog != nil {
		r.Use(logger.RequestLogger(d.AccessLog))
	}
	r.Use(middleware.CORS(d.CORSOrigins))

	api := r.Group("/api")
	api.GET("/healthz", d.Controller.Healthz)

	AuthRoutes(api, d)

	// Everything below needs an access token. Guest requests keep the
	// guest alive.
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(d.Tokens, d.Controller.TouchGuest))
	UserRoutes(protected, d.Controller)
	BudgetRoutes(protected, d.Controller)
	SavingsRoutes(protected, d.Controller)
	TransactionRoutes(protected, d.Controller)
	SummaryRoutes(protected, d.Controller)

	return r
}
