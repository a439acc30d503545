package app

import (
	"database/sql"

	"github.com/ankitsharma97/leaveManagement/internal/audit"
	"github.com/ankitsharma97/leaveManagement/internal/auth"
	"github.com/ankitsharma97/leaveManagement/internal/leave"
	"github.com/ankitsharma97/leaveManagement/internal/messaging/kafka"
	"github.com/ankitsharma97/leaveManagement/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB, db)
	auditRepo := audit.NewRepository(gormDB, db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	leaveService := leave.NewService(db, leaveRepo, auditRepo, outboxRepo)
	auditService := audit.NewService(auditRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	auditHandler := audit.NewHandler(auditService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler)
		leave.RegisterRoutes(api, leaveHandler, rdb)
		audit.RegisterRoutes(api, auditHandler)
	}

	return nil
}
