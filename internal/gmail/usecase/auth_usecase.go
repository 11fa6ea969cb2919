package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	gmaildomain "finwell-backend/internal/gmail/domain"
	"finwell-backend/internal/gmail/repository"
	"finwell-backend/pkg/config"
	"finwell-backend/pkg/gmail"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	credRepo repository.CredentialRepository
	mail     MailClient
	config   *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(credRepo repository.CredentialRepository, mail MailClient, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		credRepo: credRepo,
		mail:     mail,
		config:   cfg,
	}
}

func (u *authUsecase) GetAuthURL(userID string) (string, error) {
	state, err := u.generateStateToken(userID)
	if err != nil {
		return "", err
	}
	return u.mail.AuthCodeURL(state), nil
}

func (u *authUsecase) HandleCallback(ctx context.Context, code, state string) (string, error) {
	userID, err := u.parseStateToken(state)
	if err != nil {
		return "", err
	}

	token, err := u.mail.ExchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	gmailEmail, err := u.mail.GetProfileWithToken(ctx, token)
	if err != nil {
		return "", err
	}

	scope, _ := token.Extra("scope").(string)
	cred := &gmaildomain.GmailCredential{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scope:        scope,
		TokenType:    token.TokenType,
		ExpiryDate:   token.Expiry.UnixMilli(),
		GmailEmail:   gmailEmail,
	}
	if err := u.credRepo.Store(cred); err != nil {
		return "", err
	}

	log.Printf("Gmail credential stored for user %s (%s)", userID, gmailEmail)
	return gmailEmail, nil
}

func (u *authUsecase) Status(userID string) (bool, string, error) {
	cred, err := u.credRepo.FindActiveByUser(userID)
	if err != nil {
		return false, "", err
	}
	if cred == nil {
		return false, "", nil
	}
	return true, cred.GmailEmail, nil
}

func (u *authUsecase) Disconnect(userID string) error {
	return u.credRepo.Deactivate(userID)
}

func (u *authUsecase) TestConnection(ctx context.Context, userID string) (string, error) {
	cred, err := u.credRepo.FindActiveByUser(userID)
	if err != nil {
		return "", err
	}
	if cred == nil {
		return "", gmaildomain.ErrNotConnected
	}

	email, err := u.mail.GetProfile(ctx, cred, tokenRefreshCallback(u.credRepo, cred))
	if err != nil {
		if gmail.IsAuthError(err) {
			return "", gmaildomain.ErrReauthRequired
		}
		return "", err
	}

	if err := u.credRepo.TouchLastUsed(cred.ID); err != nil {
		log.Printf("Failed to update credential last-used timestamp: %v", err)
	}
	return email, nil
}

// tokenRefreshCallback persists the refreshed access token for a credential.
// Concurrent refreshes race benignly: last writer wins and the token is
// re-fetched lazily on next use.
func tokenRefreshCallback(credRepo repository.CredentialRepository, cred *gmaildomain.GmailCredential) gmaildomain.TokenUpdateFunc {
	return func(t *oauth2.Token) error {
		cred.AccessToken = t.AccessToken
		cred.ExpiryDate = t.Expiry.UnixMilli()
		return credRepo.UpdateToken(cred.ID, t.AccessToken, t.Expiry.UnixMilli())
	}
}

func (u *authUsecase) generateStateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(u.config.StateTokenExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) parseStateToken(state string) (string, error) {
	token, err := jwt.Parse(state, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired state token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid state token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", errors.New("invalid state token claims")
	}

	return userID, nil
}
