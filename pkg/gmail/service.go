package gmail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	gmaildomain "finwell-backend/internal/gmail/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Results per search query are capped to bound provider cost.
const maxResultsPerQuery = 20

// Scopes required by the ingestion pipeline: read-only mail plus the profile
// email used to display connection identity.
var scopes = []string{
	gmail.GmailReadonlyScope,
	"https://www.googleapis.com/auth/userinfo.email",
}

// Service wraps all network calls to the Gmail API behind a credential-scoped
// client factory.
type Service struct {
	clientID     string
	clientSecret string
	redirectURI  string
	endpoint     string // overridden in tests
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback gmaildomain.TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("Failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret, redirectURI string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
	}
}

func (s *Service) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		RedirectURL:  s.redirectURI,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}
}

// AuthCodeURL builds the OAuth consent URL. Offline access and a forced
// consent prompt ensure Google issues a refresh token.
func (s *Service) AuthCodeURL(state string) string {
	return s.oauthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode exchanges the authorization code for tokens.
func (s *Service) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange authorization code: %w", err)
	}
	return token, nil
}

// gmailService creates a Gmail API client for the stored credential. The
// oauth2 token source refreshes the access token lazily when it has expired;
// onTokenRefresh persists the refreshed token.
func (s *Service) gmailService(ctx context.Context, cred *gmaildomain.GmailCredential, onTokenRefresh gmaildomain.TokenUpdateFunc) (*gmail.Service, error) {
	tokenSource := s.oauthConfig().TokenSource(ctx, cred.Token())

	// Wrap token source to detect refreshes
	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  cred.Token(),
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)
	return s.newAPIService(ctx, client)
}

func (s *Service) newAPIService(ctx context.Context, client *http.Client) (*gmail.Service, error) {
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return srv, nil
}

// GetProfile returns the mailbox email address for the credential. It doubles
// as a connection probe: a failure means the credential is no longer valid.
func (s *Service) GetProfile(ctx context.Context, cred *gmaildomain.GmailCredential, onTokenRefresh gmaildomain.TokenUpdateFunc) (string, error) {
	srv, err := s.gmailService(ctx, cred, onTokenRefresh)
	if err != nil {
		return "", err
	}

	profile, err := srv.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve gmail profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// GetProfileWithToken is used during the OAuth callback, before a credential
// record exists.
func (s *Service) GetProfileWithToken(ctx context.Context, token *oauth2.Token) (string, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	srv, err := s.newAPIService(ctx, client)
	if err != nil {
		return "", err
	}

	profile, err := srv.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve gmail profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// DefaultQueries is the search ladder for candidate expense emails, most to
// least specific. The last query bounds recency to the past 30 days.
func DefaultQueries(now time.Time) []string {
	return []string{
		"subject:expense OR subject:receipt",
		"expense OR receipt OR payment",
		"transaction OR bill OR invoice",
		fmt.Sprintf("after:%d (expense OR receipt OR payment)", now.Add(-30*24*time.Hour).Unix()),
	}
}

// SearchCandidateMessages tries each query in order and returns the message
// IDs of the first query that yields any results. Broader queries are
// fallbacks only, never additive. IDs are deduplicated; an empty queries
// slice uses DefaultQueries.
func (s *Service) SearchCandidateMessages(ctx context.Context, cred *gmaildomain.GmailCredential, queries []string, onTokenRefresh gmaildomain.TokenUpdateFunc) ([]string, error) {
	srv, err := s.gmailService(ctx, cred, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	if len(queries) == 0 {
		queries = DefaultQueries(time.Now())
	}

	var messageIDs []string
	seen := make(map[string]struct{})

	for _, query := range queries {
		resp, err := srv.Users.Messages.List("me").Q(query).MaxResults(maxResultsPerQuery).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to search messages: %w", err)
		}

		if len(resp.Messages) == 0 {
			continue
		}

		log.Printf("Found %d messages with query: %q", len(resp.Messages), query)
		for _, msg := range resp.Messages {
			if _, ok := seen[msg.Id]; ok {
				continue
			}
			seen[msg.Id] = struct{}{}
			messageIDs = append(messageIDs, msg.Id)
		}
		// Use the first successful query
		break
	}

	return messageIDs, nil
}

// FetchMessage retrieves a message in full format and normalizes it into
// headers plus a plain-text body.
func (s *Service) FetchMessage(ctx context.Context, cred *gmaildomain.GmailCredential, messageID string, onTokenRefresh gmaildomain.TokenUpdateFunc) (*gmaildomain.EmailContent, error) {
	srv, err := s.gmailService(ctx, cred, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message %s: %w", messageID, err)
	}

	return ExtractContent(msg), nil
}

// IsAuthError reports whether err means the credential itself was rejected
// (failed refresh or an unauthorized API call), as opposed to a transient
// provider failure. Callers surface these as re-authentication required.
func IsAuthError(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return true
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden
	}
	return false
}
