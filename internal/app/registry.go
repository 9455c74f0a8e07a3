package app

import (
	"database/sql"
	"path/filepath"

	"go-slms/internal/auth"
	"go-slms/internal/balance"
	"go-slms/internal/calendarevent"
	"go-slms/internal/department"
	"go-slms/internal/employee"
	"go-slms/internal/holiday"
	"go-slms/internal/leave"
	"go-slms/internal/leavetype"
	"go-slms/internal/messaging/kafka"
	"go-slms/internal/middleware"
	"go-slms/internal/notification"
	"go-slms/internal/rbac"
	"go-slms/internal/rbac/infra"
	"go-slms/internal/settings"
	"go-slms/internal/shared/counter"
	"go-slms/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	calendarEventRepo := calendarevent.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	settingsRepo := settings.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(
		filepath.Join("internal", "rbac", "infra", "model.conf"),
		filepath.Join("internal", "rbac", "infra", "policy.csv"),
	)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo)
	balanceService := balance.NewService(balanceRepo, holidayRepo)
	calendarEventService := calendarevent.NewService(calendarEventRepo)
	departmentService := department.NewService(db, departmentRepo)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, rdb)
	holidayService := holiday.NewService(holidayRepo)
	leaveService := leave.NewService(gormDB, leaveRepo, balanceService, outboxRepo)
	leaveTypeService := leavetype.NewService(leaveTypeRepo)
	notificationService := notification.NewService(notificationRepo)
	settingsService := settings.NewService(settingsRepo)
	userService := user.NewService(db, userRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	balanceHandler := balance.NewHandler(balanceService)
	calendarEventHandler := calendarevent.NewHandler(calendarEventService)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService)
	holidayHandler := holiday.NewHandler(holidayService)
	leaveHandler := leave.NewHandler(leaveService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	notificationHandler := notification.NewHandler(notificationService)
	settingsHandler := settings.NewHandler(settingsService)
	userHandler := user.NewHandler(userService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		calendarevent.RegisterRoutes(api, calendarEventHandler, rbacService)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		settings.RegisterRoutes(api, settingsHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService)
	}

	return nil
}
