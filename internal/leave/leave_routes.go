package leave

import (
	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client, jwtSecret string) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware(jwtSecret))
	{
		requests.POST("", middleware.Idempotency(rdb), handler.Create)

		requests.GET("/mine", handler.GetMine)
		requests.GET("/user/:userId", handler.GetByUser)
		requests.GET("/:id", handler.GetByID)

		requests.GET("", middleware.RoleMiddleware(user.RoleAdmin), handler.GetAll)
		requests.GET("/pending", middleware.RoleMiddleware(user.RoleAdmin), handler.GetPending)
		requests.GET("/active", middleware.RoleMiddleware(user.RoleAdmin), handler.GetActive)
		requests.GET("/upcoming", middleware.RoleMiddleware(user.RoleAdmin), handler.GetUpcoming)

		requests.PUT("/:id/approve", middleware.RoleMiddleware(user.RoleAdmin), handler.Approve)
		requests.PUT("/:id/reject", middleware.RoleMiddleware(user.RoleAdmin), handler.Reject)
		requests.PUT("/:id/cancel", handler.Cancel)
	}
}
