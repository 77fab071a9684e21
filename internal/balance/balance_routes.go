package balance

import (
	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/user"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware(jwtSecret))
	{
		balances.GET("/user/:userId", handler.GetAllForUser)
		balances.GET("/user/:userId/current", handler.GetCurrentYear)
		balances.GET("/user/:userId/year/:year", handler.GetByUserAndYear)

		balances.GET("/year/:year", middleware.RoleMiddleware(user.RoleAdmin), handler.GetAllForYear)
		balances.POST("", middleware.RoleMiddleware(user.RoleAdmin), handler.Create)
		balances.PUT("/:id", middleware.RoleMiddleware(user.RoleAdmin), handler.Update)
	}
}
