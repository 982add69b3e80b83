package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio/pkg/auth"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type RouterDeps struct {
	AuthHandler    *AuthHandler
	ContentHandler *ContentHandler
	SeedHandler    *SeedHandler
	JWTService     *auth.JWTService
	Logger         logger.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), ErrorMiddleware(d.Logger))

	authMiddleware := AuthMiddleware(d.JWTService, d.Logger)

	api := router.Group("/api")
	{
		admin := api.Group("/admin")
		{
			adminAuth := admin.Group("/auth")
			adminAuth.POST("/login", d.AuthHandler.Login)

			adminPrivate := admin.Group("/")
			adminPrivate.Use(authMiddleware)
			{
				adminPrivate.GET("/health-auth", func(c *gin.Context) {
					ownerID, _ := GetOwnerIDFromGinContext(c)
					c.JSON(http.StatusOK, gin.H{"status": "OK", "owner_id": ownerID})
				})

				contents := adminPrivate.Group("/content/:collection")
				{
					contents.GET("", d.ContentHandler.List)
					contents.POST("", d.ContentHandler.Create)
					contents.GET("/:id", d.ContentHandler.Get)
					contents.PUT("/:id", d.ContentHandler.Update)
					contents.DELETE("/:id", d.ContentHandler.Delete)
				}
				adminPrivate.PUT("/settings/personal-info", d.ContentHandler.UpdatePersonalInfo)

				adminPrivate.POST("/seed", d.SeedHandler.RequestSeed)
				adminPrivate.GET("/seed/:id", d.SeedHandler.GetSeedJob)
				adminPrivate.POST("/backup", d.SeedHandler.Backup)
			}
		}

		public := api.Group("/")
		{
			public.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
			public.GET("/content/:collection", d.ContentHandler.List)
			public.GET("/content/:collection/:id", d.ContentHandler.Get)
			public.GET("/settings/personal-info", d.ContentHandler.GetPersonalInfo)
		}
	}

	return router
}
