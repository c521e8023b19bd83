package user

import (
	"github.com/gin-gonic/gin"
)

// RouteConfig carries the middleware the account routes are mounted with.
type RouteConfig struct {
	// Authenticate guards the account read and update routes.
	Authenticate gin.HandlerFunc
	// Limit throttles the unauthenticated register and login routes.
	// Nil disables throttling.
	Limit gin.HandlerFunc
}

// RegisterRoutes mounts the account API on api.
func RegisterRoutes(api *gin.RouterGroup, h *Handler, cfg RouteConfig) {
	public := api.Group("")
	if cfg.Limit != nil {
		public.Use(cfg.Limit)
	}
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)

	protected := api.Group("", cfg.Authenticate)
	protected.GET("/user/:id", h.Get)
	protected.GET("/users", h.List)
	protected.GET("/users/:page", h.List)
	protected.PUT("/update-user/:id", h.Update)
}
