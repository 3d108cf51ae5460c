package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-management-api/internal/auth"
	"github.com/yukikurage/team-management-api/internal/config"
	"github.com/yukikurage/team-management-api/internal/handlers"
	"github.com/yukikurage/team-management-api/internal/middleware"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/repository"
	"github.com/yukikurage/team-management-api/internal/services"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	defaultRole, err := models.ParseRole(cfg.DefaultRole)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)

	userRepo := repository.NewUserRepository(db)
	pendingRepo := repository.NewPendingRegistrationRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(userRepo, pendingRepo, tokens), cfg.IsProduction())
	registrationHandler := handlers.NewRegistrationHandler(services.NewRegistrationService(pendingRepo, defaultRole))
	userHandler := handlers.NewUserHandler(services.NewUserService(userRepo, teamRepo))
	teamHandler := handlers.NewTeamHandler(services.NewTeamService(teamRepo, userRepo))
	taskHandler := handlers.NewTaskHandler(services.NewTaskService(taskRepo, teamRepo, userRepo))

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Team Management API is running",
		})
	})

	requireAuth := middleware.RequireAuth(tokens)
	adminOnly := middleware.RequireAdmin()
	privileged := middleware.RequireManagerOrAdmin()

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		registrations := api.Group("/registrations", requireAuth, adminOnly)
		{
			registrations.GET("", registrationHandler.ListPending)
			registrations.POST("/:id/approve", registrationHandler.Approve)
			registrations.POST("/:id/reject", registrationHandler.Reject)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("", privileged, userHandler.ListUsers)
			users.POST("", adminOnly, userHandler.CreateUser)
			users.GET("/:id", middleware.RequireSelfOrPrivileged("id"), userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", adminOnly, userHandler.DeleteUser)
		}

		teams := api.Group("/teams", requireAuth)
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", privileged, teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PATCH("/:id", privileged, teamHandler.UpdateTeam)
			teams.DELETE("/:id", privileged, teamHandler.DeleteTeam)
			teams.POST("/:id/members", privileged, teamHandler.AddMembers)
			teams.DELETE("/:id/members", privileged, teamHandler.RemoveMembers)
		}

		tasks := api.Group("/tasks", requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", privileged, taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", privileged, taskHandler.DeleteTask)
		}
	}

	return r, nil
}
