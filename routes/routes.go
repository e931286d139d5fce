// Package routes wires the admin HTTP surface: Gin router, CORS, rate
// limiting, and optional bearer-token auth on mutating routes.
package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aimosphere-network/airo-wingman/handlers"
	"github.com/aimosphere-network/airo-wingman/middleware"
	"github.com/aimosphere-network/airo-wingman/services"
	"github.com/aimosphere-network/airo-wingman/stats"
)

// SetupRouter configures the admin API router over repo, applying
// adminToken as the bearer-token guard on mutating routes (a no-op when
// empty).
func SetupRouter(repo services.ModelRepository, metrics *stats.Stats, adminToken string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RateLimitMiddleware())

	r.GET("/check/health", handlers.Health)

	modelsHandler := handlers.NewModelsHandler(repo)
	statusHandler := handlers.NewStatusHandler(repo, metrics)

	v1 := r.Group("/v1")
	{
		v1.GET("/models", modelsHandler.List)
		v1.GET("/status", statusHandler.Status)

		admin := v1.Group("/models")
		admin.Use(middleware.AdminAuthMiddleware(adminToken))
		{
			admin.PUT("/:id", modelsHandler.Upsert)
			admin.DELETE("/:id", modelsHandler.Remove)
		}
	}

	return r
}
