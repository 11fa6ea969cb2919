package domain

import "strings"

// EmailContent is the normalized form of a fetched Gmail message: a
// case-insensitive header map and a plain-text body. An empty body means the
// message had no decodable text content; that is not an error.
type EmailContent struct {
	MessageID string            `json:"message_id"`
	Headers   map[string]string `json:"headers"`
	Body      string            `json:"body"`
}

// Header returns a header value by name, ignoring case.
func (c *EmailContent) Header(name string) string {
	if c.Headers == nil {
		return ""
	}
	return c.Headers[strings.ToLower(name)]
}
