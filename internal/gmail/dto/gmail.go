package dto

import gmaildomain "finwell-backend/internal/gmail/domain"

type AuthURLResponse struct {
	Success bool   `json:"success"`
	AuthURL string `json:"authUrl"`
}

type StatusResponse struct {
	Success    bool    `json:"success"`
	Connected  bool    `json:"connected"`
	GmailEmail *string `json:"gmailEmail"`
}

type ImportStatusResponse struct {
	IsImporting       bool   `json:"isImporting"`
	CooldownRemaining int    `json:"cooldownRemaining"`
	Message           string `json:"message"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type ProcessedEmailsResponse struct {
	ProcessedEmails []*gmaildomain.ProcessedEmail `json:"processedEmails"`
	Pagination      Pagination                    `json:"pagination"`
}
