package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"food-app-backend/internal/shared/middleware"
	"food-app-backend/internal/shared/response"
	"food-app-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		c.RecipeHandler.RegisterRoutes(v1)
	}

	return router
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		services, err := appCtx.Health(ctx)
		if err != nil {
			response.ServiceUnavailable(c, "database unavailable")
			return
		}

		response.Success(c, http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
