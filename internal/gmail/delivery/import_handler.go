package delivery

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	gmaildomain "finwell-backend/internal/gmail/domain"
	gmaildto "finwell-backend/internal/gmail/dto"
	"finwell-backend/internal/gmail/usecase"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	importUsecase usecase.ImportUsecase
}

func NewImportHandler(importUsecase usecase.ImportUsecase) *ImportHandler {
	return &ImportHandler{
		importUsecase: importUsecase,
	}
}

func (h *ImportHandler) FetchExpenses(c *gin.Context) {
	userID := c.GetString("userID")

	summary, err := h.importUsecase.FetchExpenses(c.Request.Context(), userID)
	if err != nil {
		var cooldownErr *gmaildomain.CooldownError
		switch {
		case errors.As(err, &cooldownErr):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":           fmt.Sprintf("Please wait %d seconds before importing again. Import already in progress.", cooldownErr.RemainingSeconds),
				"cooldownRemaining": cooldownErr.RemainingSeconds,
			})
		case errors.Is(err, gmaildomain.ErrNotConnected):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Gmail account not connected. Please connect your Gmail account first.",
				"error":   "GMAIL_NOT_CONNECTED",
			})
		case errors.Is(err, gmaildomain.ErrReauthRequired):
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Gmail token has expired. Please re-authenticate with Gmail.",
				"error":   "GMAIL_REAUTH_REQUIRED",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Failed to fetch expenses from Gmail",
				"error":   err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ImportHandler) ImportStatus(c *gin.Context) {
	userID := c.GetString("userID")

	isImporting, remaining := h.importUsecase.ImportStatus(userID)
	resp := gmaildto.ImportStatusResponse{
		IsImporting:       isImporting,
		CooldownRemaining: remaining,
		Message:           "Ready to import",
	}
	if isImporting {
		resp.Message = fmt.Sprintf("Import in progress. Please wait %d seconds.", remaining)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ImportHandler) ProcessedEmails(c *gin.Context) {
	userID := c.GetString("userID")

	page := 1
	limit := 20
	if pageStr := c.Query("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, total, err := h.importUsecase.ListProcessedEmails(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to fetch processed emails history",
			"error":   err.Error(),
		})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, gmaildto.ProcessedEmailsResponse{
		ProcessedEmails: records,
		Pagination: gmaildto.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalCount:  total,
			HasNext:     int64(page*limit) < total,
			HasPrev:     page > 1,
		},
	})
}

func (h *ImportHandler) ClearProcessedEmails(c *gin.Context) {
	userID := c.GetString("userID")

	deleted, err := h.importUsecase.ClearProcessedEmails(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to clear processed emails history",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Cleared %d processed email records", deleted),
		"deletedCount": deleted,
	})
}
