package bootstrap

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/openfolio/portfolio-backend/config"
	"github.com/openfolio/portfolio-backend/internal/auth"
	"github.com/openfolio/portfolio-backend/internal/experience"
	"github.com/openfolio/portfolio-backend/internal/messages"
	"github.com/openfolio/portfolio-backend/internal/projects"
	"github.com/openfolio/portfolio-backend/internal/ratelimit"
	"github.com/openfolio/portfolio-backend/internal/skills"
	"github.com/openfolio/portfolio-backend/internal/uploads"
)

type RouterDeps struct {
	Cfg     *config.Config
	DB      *sql.DB
	Limiter ratelimit.Store
	Mailer  messages.Notifier
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.Cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static(dep.Cfg.Uploads.PublicPath, dep.Cfg.Uploads.Dir)

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := dep.DB.PingContext(c.Request.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":      status,
			"version":     dep.Cfg.App.Version,
			"environment": dep.Cfg.App.Environment,
		})
	})

	api := r.Group("/api/v1")
	api.Use(ratelimit.Middleware(dep.Limiter, "api", 100, time.Minute))

	userRepo := auth.NewRepo(dep.DB)
	authHandler := auth.NewHandler(userRepo, dep.Cfg.JWT.Secret, dep.Cfg.JWT.Expire)
	authHandler.Register(api.Group("/auth"))

	requireAdmin := []gin.HandlerFunc{
		auth.Require(dep.Cfg.JWT.Secret, userRepo),
		auth.Authorize(auth.RoleAdmin),
	}

	projectHandler := projects.NewHandler(projects.NewRepo(dep.DB))
	projectHandler.Register(
		api.Group("/projects"),
		api.Group("/projects", requireAdmin...),
	)

	skillHandler := skills.NewHandler(skills.NewRepo(dep.DB))
	skillHandler.Register(
		api.Group("/skills"),
		api.Group("/skills", requireAdmin...),
	)

	experienceHandler := experience.NewHandler(experience.NewRepo(dep.DB))
	experienceHandler.Register(
		api.Group("/experience"),
		api.Group("/experience", requireAdmin...),
	)

	// The public contact form gets its own tight bucket on top of the
	// API-wide one.
	messagePub := api.Group("/messages")
	messagePub.Use(ratelimit.Middleware(dep.Limiter, "contact", 5, 10*time.Minute))
	messageHandler := messages.NewHandler(messages.NewRepo(dep.DB), dep.Mailer)
	messageHandler.Register(messagePub, api.Group("/messages", requireAdmin...))

	uploadHandler := uploads.NewHandler(dep.Cfg.Uploads)
	uploadHandler.Register(api.Group("/upload", requireAdmin...))

	return r
}
