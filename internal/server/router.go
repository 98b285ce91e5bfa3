package server

import (
	"net/http"

	"loanflow/internal/config"
	"loanflow/internal/handlers"
	"loanflow/internal/middleware"
	"loanflow/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("loanflow_session", store))

	r.Use(middleware.InjectUser())

	// AUTH
	r.POST("/auth/register", handlers.Register)
	r.POST("/auth/login", handlers.Login)
	r.POST("/auth/logout", handlers.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	// CASES
	auth.GET("/cases", handlers.ListCases)
	auth.GET("/cases/list", handlers.ListCases)
	auth.GET("/cases/counts", handlers.CaseCounts)

	auth.GET("/cases/dashboard-stats",
		middleware.RequireRole(models.RoleAdmin, models.RoleOperations,
			models.RoleKAM, models.RoleTelecaller, models.RoleUW),
		handlers.DashboardStats,
	)
	auth.GET("/cases/user-dashboard-stats",
		middleware.RequireRole(models.RoleAdmin, models.RoleOperations,
			models.RoleKAM, models.RoleTelecaller, models.RoleUW),
		handlers.UserDashboardStats,
	)

	auth.POST("/cases",
		middleware.RequireRole(models.RoleAdmin, models.RoleTelecaller,
			models.RoleKAM, models.RoleIndividual),
		handlers.CreateCase,
	)
	auth.GET("/cases/:id", handlers.GetCase)
	auth.PUT("/cases/:id", handlers.UpdateCase)

	// the transition engine does its own role/status validation
	auth.PATCH("/cases/:id/status", handlers.ChangeCaseStatus)

	auth.GET("/cases/:id/history", handlers.CaseHistory)
	auth.POST("/cases/:id/comments", handlers.AddComment)
	auth.POST("/cases/:id/documents",
		middleware.RequireRole(models.RoleAdmin, models.RoleOperations,
			models.RoleKAM, models.RoleUW),
		handlers.AddDocument,
	)
	auth.PUT("/cases/:id/assignments",
		middleware.RequireRole(models.RoleAdmin, models.RoleOperations),
		handlers.SetAssignment,
	)

	// BANKS
	auth.POST("/banks/:caseId",
		middleware.RequireRole(models.RoleAdmin, models.RoleOperations, models.RoleUW),
		handlers.AddBank,
	)
	auth.PATCH("/banks/:caseId/:bankId",
		middleware.RequireRole(models.RoleAdmin, models.RoleOperations, models.RoleBanker),
		handlers.UpdateBankStatus,
	)

	// SETTINGS
	auth.GET("/settings", handlers.GetSettings)
	auth.POST("/settings",
		middleware.RequireRole(models.RoleAdmin),
		handlers.UpdateSettings,
	)

	// AUDIT
	auth.GET("/audit",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ListAuditLogs,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
