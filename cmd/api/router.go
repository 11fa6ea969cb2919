package api

import (
	"net/http"

	authDelivery "finwell-backend/internal/auth/delivery"
	gmailDelivery "finwell-backend/internal/gmail/delivery"
	gmailUsecase "finwell-backend/internal/gmail/usecase"
	"finwell-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc gmailUsecase.AuthUsecase, importUc gmailUsecase.ImportUsecase, cfg *config.Config) {
	authHandler := gmailDelivery.NewAuthHandler(authUc, cfg)
	importHandler := gmailDelivery.NewImportHandler(importUc)
	protect := authDelivery.AuthMiddleware(cfg.JWTSecret)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		gmailGroup := api.Group("/gmail")
		{
			auth := gmailGroup.Group("/auth")
			{
				auth.GET("/url", protect, authHandler.GetAuthURL)
				// Google redirects here; identity is carried by the state token
				auth.GET("/callback", authHandler.Callback)
				auth.GET("/status", protect, authHandler.Status)
				auth.GET("/test", protect, authHandler.Test)
				auth.DELETE("/disconnect", protect, authHandler.Disconnect)
			}

			gmailGroup.GET("/fetch-expenses", protect, importHandler.FetchExpenses)
			gmailGroup.GET("/import-status", protect, importHandler.ImportStatus)
			gmailGroup.GET("/processed-emails", protect, importHandler.ProcessedEmails)
			gmailGroup.DELETE("/clear-processed-emails", protect, importHandler.ClearProcessedEmails)
		}
	}
}
