// shelton-springs/internal/routes/auth_routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/handlers"
)

// RegisterAuthRoutes registers the routes that work without a token.
func RegisterAuthRoutes(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
	r.POST("/login", handlers.LoginHandler)
	r.GET("/logout", handlers.LogoutHandler)
}
