package http

import (
	"net/http"
	"strings"

	"github.com/cgdmohamed/drznmobile-sub001/internal/config"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	config *config.HTTP,
	tokenService ports.TokenService,
	imageHandler *ImageHandler,
	gatherer prometheus.Gatherer,
) (*Router, error) {
	if config.Env == "prod" || config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// CORS
	ginConfig := cors.DefaultConfig()
	if config.AllowedOrigins == "" || config.AllowedOrigins == "*" {
		ginConfig.AllowAllOrigins = true
	} else {
		ginConfig.AllowOrigins = strings.Split(config.AllowedOrigins, ",")
	}
	ginConfig.AddAllowHeaders("Authorization", requestIDHeader)
	ginConfig.AddExposeHeaders(requestIDHeader)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), cors.New(ginConfig), RequestIDMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	images := router.Group("/images")
	{
		images.GET("", imageHandler.Resolve)
		images.GET("/raw", imageHandler.Raw)
		images.GET("/stats", imageHandler.Stats)
		images.DELETE("", AuthMiddleware(tokenService), AdminMiddleware(), imageHandler.Clear)
	}

	return &Router{
		Engine: router,
	}, nil
}

// Server returns an http.Server for listenAddr so callers can shut it down.
func (r *Router) Server(listenAddr string) *http.Server {
	return &http.Server{
		Addr:    listenAddr,
		Handler: r.Engine,
	}
}
