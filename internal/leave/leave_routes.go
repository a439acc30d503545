package leave

import (
	"github.com/ankitsharma97/leaveManagement/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", handler.GetAll)
		leaves.POST("", handler.Create)
		leaves.GET("/:id", handler.GetById)
		leaves.PUT("/:id", handler.Update)
		leaves.DELETE("/:id", handler.Delete)

		// Transitions are idempotent under a client-supplied key; a retry
		// replays the cached response instead of re-running the machine.
		transitions := leaves.Group("")
		transitions.Use(middleware.Idempotency(rdb))
		{
			transitions.POST("/:id/submit", handler.Submit)
			transitions.POST("/:id/approve", handler.Approve)
			transitions.POST("/:id/reject", handler.Reject)
			transitions.POST("/:id/cancel", handler.Cancel)
		}
	}
}
