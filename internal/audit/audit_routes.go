package audit

import (
	"github.com/ankitsharma97/leaveManagement/internal/middleware"
	"github.com/ankitsharma97/leaveManagement/internal/user"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	log := r.Group("/audit-log")
	log.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(string(user.RoleHR)))
	{
		log.GET("", handler.GetAll)
		log.GET("/:id", handler.GetById)
	}
}
