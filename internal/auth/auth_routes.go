package auth

import (
	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/user"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", middleware.RateLimitByIP(0.5, 5), handler.Login)
		authGroup.POST("/refresh", handler.RefreshToken)
		authGroup.POST("/logout", handler.Logout)

		authGroup.POST("/register",
			middleware.AuthMiddleware(jwtSecret),
			middleware.RoleMiddleware(user.RoleAdmin),
			handler.Register,
		)
		authGroup.PUT("/change-password",
			middleware.AuthMiddleware(jwtSecret),
			middleware.RateLimitByUser(2, 5),
			handler.ChangePassword,
		)
		authGroup.GET("/me",
			middleware.AuthMiddleware(jwtSecret),
			middleware.RateLimitByUser(2, 5),
			handler.Me,
		)
	}
}
