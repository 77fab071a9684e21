package dashboard

import (
	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/user"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	dash := r.Group("/dashboard")
	dash.Use(middleware.AuthMiddleware(jwtSecret), middleware.RoleMiddleware(user.RoleAdmin))
	{
		dash.GET("/stats", handler.GetStats)
		dash.GET("/stats/:year", handler.GetYearlyStats)
		dash.GET("/calendar/:year/:month", handler.GetCalendar)
		dash.GET("/team", handler.GetTeamSummary)
	}
}
