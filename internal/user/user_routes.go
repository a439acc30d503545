package user

import (
	"github.com/ankitsharma97/leaveManagement/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", handler.GetAll)
		users.GET("/:id", handler.GetById)
		users.PUT("/:id", middleware.RoleMiddleware(string(RoleHR)), handler.UpdateAssignment)
	}
}
