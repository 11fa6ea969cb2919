package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	expensedomain "finwell-backend/internal/expense/domain"
	expenserepo "finwell-backend/internal/expense/repository"
	gmaildomain "finwell-backend/internal/gmail/domain"
	"finwell-backend/internal/gmail/repository"
	"finwell-backend/pkg/config"
	"finwell-backend/pkg/cooldown"
	"finwell-backend/pkg/gmail"
	"finwell-backend/pkg/parser"
)

// importUsecase implements ImportUsecase. It drives the per-user ingestion
// pipeline: cooldown gating, candidate listing, per-message fetch/extract/
// parse, duplicate suppression and permanent processed-email bookkeeping.
type importUsecase struct {
	credRepo      repository.CredentialRepository
	processedRepo repository.ProcessedEmailRepository
	expenseRepo   expenserepo.ExpenseRepository
	mail          MailClient
	gate          *cooldown.Gate
	fetchTimeout  time.Duration
}

// NewImportUsecase creates a new instance of importUsecase
func NewImportUsecase(
	credRepo repository.CredentialRepository,
	processedRepo repository.ProcessedEmailRepository,
	expenseRepo expenserepo.ExpenseRepository,
	mail MailClient,
	gate *cooldown.Gate,
	cfg *config.Config,
) ImportUsecase {
	return &importUsecase{
		credRepo:      credRepo,
		processedRepo: processedRepo,
		expenseRepo:   expenseRepo,
		mail:          mail,
		gate:          gate,
		fetchTimeout:  cfg.FetchTimeout,
	}
}

func (u *importUsecase) FetchExpenses(ctx context.Context, userID string) (*gmaildomain.ImportSummary, error) {
	if remaining, ok := u.gate.TryAcquire(userID); !ok {
		return nil, &gmaildomain.CooldownError{
			RemainingSeconds: int(math.Ceil(remaining.Seconds())),
		}
	}
	// Released on every exit path so a failure never wedges the user.
	defer u.gate.Release(userID)

	cred, err := u.credRepo.FindActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, gmaildomain.ErrNotConnected
	}
	onRefresh := tokenRefreshCallback(u.credRepo, cred)

	log.Printf("Starting Gmail expense fetch for user: %s", userID)

	messageIDs, err := u.mail.SearchCandidateMessages(ctx, cred, nil, onRefresh)
	if err != nil {
		// A failure during listing aborts the whole import.
		if gmail.IsAuthError(err) {
			return nil, gmaildomain.ErrReauthRequired
		}
		return nil, err
	}

	if err := u.credRepo.TouchLastUsed(cred.ID); err != nil {
		log.Printf("Failed to update credential last-used timestamp: %v", err)
	}

	summary := &gmaildomain.ImportSummary{
		Expenses:           []*expensedomain.Expense{},
		TotalMessagesFound: len(messageIDs),
	}

	if len(messageIDs) == 0 {
		summary.Message = "No expense emails found"
		return summary, nil
	}

	for i, messageID := range messageIDs {
		log.Printf("Processing message %d/%d: %s", i+1, len(messageIDs), messageID)
		u.processMessage(ctx, userID, cred, messageID, onRefresh, summary)
	}

	summary.Message = fmt.Sprintf("Processed %d emails, imported %d expenses, skipped %d duplicates",
		summary.TotalMessagesFound, summary.TotalExpensesImported, summary.DuplicatesSkipped)
	return summary, nil
}

// processMessage runs the pipeline for one message. Any failure is recorded
// in the summary and, where possible, in a best-effort error marker; one bad
// message never aborts the batch.
func (u *importUsecase) processMessage(ctx context.Context, userID string, cred *gmaildomain.GmailCredential, messageID string, onRefresh gmaildomain.TokenUpdateFunc, summary *gmaildomain.ImportSummary) {
	fetchCtx, cancel := context.WithTimeout(ctx, u.fetchTimeout)
	content, err := u.mail.FetchMessage(fetchCtx, cred, messageID, onRefresh)
	cancel()
	if err != nil {
		log.Printf("Error fetching message %s: %v", messageID, err)
		summary.Errors = append(summary.Errors, fmt.Sprintf("Error processing message %s: %v", messageID, err))
		u.markProcessed(userID, &gmaildomain.EmailContent{MessageID: messageID}, nil, gmaildomain.StatusError)
		return
	}

	if content.Body == "" {
		log.Printf("No body found for message %s", messageID)
		summary.Errors = append(summary.Errors, fmt.Sprintf("No body found for message %s", messageID))
		u.markProcessed(userID, content, nil, gmaildomain.StatusError)
		return
	}

	// Primary dedup: the permanent marker is the idempotence backstop.
	alreadyProcessed, err := u.processedRepo.IsProcessed(userID, messageID)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("Error processing message %s: %v", messageID, err))
		return
	}
	if alreadyProcessed {
		log.Printf("Email already processed permanently: %s", messageID)
		summary.DuplicatesSkipped++
		return
	}

	parsed := parser.Extract(content.Body, content.Headers)

	if parsed.Amount <= 0 {
		log.Printf("Invalid or zero amount for message %s", messageID)
		summary.Errors = append(summary.Errors, fmt.Sprintf("Invalid or zero amount for message %s", messageID))
		u.markProcessed(userID, content, nil, gmaildomain.StatusSkipped)
		return
	}

	// Secondary dedup: defense in depth for legacy data
	isDuplicate, err := u.isDuplicateExpense(userID, content, parsed)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("Error processing message %s: %v", messageID, err))
		u.markProcessed(userID, content, nil, gmaildomain.StatusError)
		return
	}
	if isDuplicate {
		log.Printf("Duplicate expense skipped: %s - %.2f", parsed.Title, parsed.Amount)
		summary.DuplicatesSkipped++
		u.markProcessed(userID, content, nil, gmaildomain.StatusSkipped)
		return
	}

	description := fmt.Sprintf("Imported from Gmail | Message ID: %s", messageID)
	if parsed.Vendor != "" {
		description += " | Vendor: " + parsed.Vendor
	}
	expense := &expensedomain.Expense{
		UserID:      userID,
		Title:       parsed.Title,
		Amount:      parsed.Amount,
		Date:        parsed.Date,
		Category:    expensedomain.CategoryGmailImport,
		Description: description,
	}
	if err := u.expenseRepo.Create(expense); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("Error processing message %s: %v", messageID, err))
		u.markProcessed(userID, content, nil, gmaildomain.StatusError)
		return
	}

	u.markProcessed(userID, content, &expense.ID, gmaildomain.StatusProcessed)
	summary.Expenses = append(summary.Expenses, expense)
	summary.TotalExpensesImported++
	log.Printf("Saved expense: %s - %.2f", parsed.Title, parsed.Amount)
}

// isDuplicateExpense applies the secondary checks: an identical expense on
// the same calendar day, or the message ID embedded in an existing
// description.
func (u *importUsecase) isDuplicateExpense(userID string, content *gmaildomain.EmailContent, parsed parser.ParsedExpense) (bool, error) {
	exact, err := u.expenseRepo.FindExactMatch(userID, parsed.Title, parsed.Amount, parsed.Date)
	if err != nil {
		return false, err
	}
	if exact != nil {
		return true, nil
	}

	return u.expenseRepo.DescriptionContains(userID, content.MessageID)
}

// markProcessed writes a permanent marker. Best effort: a failure is logged
// but never propagated, and duplicate-key violations are absorbed by the
// repository.
func (u *importUsecase) markProcessed(userID string, content *gmaildomain.EmailContent, expenseID *string, status string) {
	record := &gmaildomain.ProcessedEmail{
		UserID:         userID,
		GmailMessageID: content.MessageID,
		EmailSubject:   content.Header("subject"),
		SenderEmail:    content.Header("from"),
		ExpenseID:      expenseID,
		Status:         status,
	}
	if err := u.processedRepo.Mark(record); err != nil {
		log.Printf("Error marking email as processed: %v", err)
	}
}

func (u *importUsecase) ImportStatus(userID string) (bool, int) {
	active, remaining := u.gate.Status(userID)
	seconds := int(math.Ceil(remaining.Seconds()))
	return active || seconds > 0, seconds
}

func (u *importUsecase) ListProcessedEmails(userID string, page, limit int) ([]*gmaildomain.ProcessedEmail, int64, error) {
	return u.processedRepo.ListByUser(userID, page, limit)
}

func (u *importUsecase) ClearProcessedEmails(userID string) (int64, error) {
	return u.processedRepo.DeleteByUser(userID)
}
