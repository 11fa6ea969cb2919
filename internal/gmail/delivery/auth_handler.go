package delivery

import (
	"net/http"
	"net/url"

	gmaildto "finwell-backend/internal/gmail/dto"
	"finwell-backend/internal/gmail/usecase"
	"finwell-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	config      *config.Config
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		config:      cfg,
	}
}

func (h *AuthHandler) GetAuthURL(c *gin.Context) {
	userID := c.GetString("userID")

	authURL, err := h.authUsecase.GetAuthURL(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to generate Gmail authentication URL",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gmaildto.AuthURLResponse{Success: true, AuthURL: authURL})
}

// Callback is reached by Google's redirect, not by the frontend, so identity
// comes from the signed state token instead of a bearer header. Both outcomes
// redirect back to the UI with query parameters.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" {
		h.redirectWithError(c, "authorization code is required")
		return
	}

	gmailEmail, err := h.authUsecase.HandleCallback(c.Request.Context(), code, state)
	if err != nil {
		h.redirectWithError(c, err.Error())
		return
	}

	c.Redirect(http.StatusFound,
		h.config.FrontendURL+"/dashboard?gmail_connected=true&email="+url.QueryEscape(gmailEmail))
}

func (h *AuthHandler) redirectWithError(c *gin.Context, message string) {
	c.Redirect(http.StatusFound,
		h.config.FrontendURL+"/dashboard?gmail_error=true&message="+url.QueryEscape(message))
}

func (h *AuthHandler) Status(c *gin.Context) {
	userID := c.GetString("userID")

	connected, gmailEmail, err := h.authUsecase.Status(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to check Gmail connection status",
			"error":   err.Error(),
		})
		return
	}

	resp := gmaildto.StatusResponse{Success: true, Connected: connected}
	if connected {
		resp.GmailEmail = &gmailEmail
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Disconnect(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.authUsecase.Disconnect(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to disconnect Gmail account",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gmail account disconnected successfully",
	})
}

func (h *AuthHandler) Test(c *gin.Context) {
	userID := c.GetString("userID")

	gmailEmail, err := h.authUsecase.TestConnection(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Gmail connection test failed",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Gmail connection is working",
		"gmailEmail": gmailEmail,
	})
}
