package handlers

import (
	"net/http"

	"golang-cart-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	ServiceName string
	Store       string
	CORSOrigins []string
}

// NewRouter builds the gin engine with the global middleware, the health
// check and the versioned API.
func NewRouter(opts RouterOptions, cartHandler *CartHandler, authMiddleware *middleware.AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware(opts.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "healthy",
			Service: opts.ServiceName,
			Store:   opts.Store,
		})
	})

	api := router.Group("/api/v1")
	cartHandler.RegisterRoutes(api, authMiddleware)

	return router
}
