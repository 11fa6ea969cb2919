package main

import (
	"log"

	api "finwell-backend/cmd/api"
	expensedomain "finwell-backend/internal/expense/domain"
	expenseRepo "finwell-backend/internal/expense/repository"
	gmaildomain "finwell-backend/internal/gmail/domain"
	gmailRepo "finwell-backend/internal/gmail/repository"
	gmailUsecase "finwell-backend/internal/gmail/usecase"
	"finwell-backend/pkg/config"
	"finwell-backend/pkg/cooldown"
	"finwell-backend/pkg/database"
	"finwell-backend/pkg/gmail"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&gmaildomain.GmailCredential{}, &gmaildomain.ProcessedEmail{}, &expensedomain.Expense{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	credRepo := gmailRepo.NewCredentialRepository(db)
	processedRepo := gmailRepo.NewProcessedEmailRepository(db)
	expenseRepository := expenseRepo.NewExpenseRepository(db)

	// Initialize Gmail service
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GmailRedirectURI)

	// Cooldown gate: a throttle against rapid UI-triggered re-imports, not a
	// correctness mechanism. The processed-email unique constraint is.
	gate := cooldown.New(cfg.ImportCooldown)

	// Initialize use cases
	authUc := gmailUsecase.NewAuthUsecase(credRepo, gmailService, cfg)
	importUc := gmailUsecase.NewImportUsecase(credRepo, processedRepo, expenseRepository, gmailService, gate, cfg)

	// Start server
	r := gin.Default()
	api.SetupRoutes(r, authUc, importUc, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
