// shelton-springs/internal/routes/router.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/middleware"
)

// SetupRoutes wires every route of the application onto the engine.
func SetupRoutes(r *gin.Engine) {
	// Public routes first: login and the liveness probe need no token.
	RegisterAuthRoutes(r)

	// Everything else sits behind the JWT middleware.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
