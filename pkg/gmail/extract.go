package gmail

import (
	"encoding/base64"
	"regexp"
	"strings"

	gmaildomain "finwell-backend/internal/gmail/domain"

	"google.golang.org/api/gmail/v1"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// ExtractContent normalizes a full-format Gmail message into a lowercased
// header map and a plain-text body. A message with no decodable body yields
// an empty body, not an error.
func ExtractContent(msg *gmail.Message) *gmaildomain.EmailContent {
	content := &gmaildomain.EmailContent{
		MessageID: msg.Id,
		Headers:   make(map[string]string),
	}

	payload := msg.Payload
	if payload == nil {
		return content
	}

	for _, header := range payload.Headers {
		content.Headers[strings.ToLower(header.Name)] = header.Value
	}

	if len(payload.Parts) > 0 {
		content.Body = extractTextFromParts(payload.Parts)
	} else if payload.Body != nil && payload.Body.Data != "" {
		raw, err := decodeBody(payload.Body.Data)
		if err == nil {
			if payload.MimeType == "text/html" {
				content.Body = stripHTML(raw)
			} else {
				content.Body = raw
			}
		}
	}

	return content
}

// extractTextFromParts walks the MIME part tree depth-first in pre-order,
// concatenating decoded text/plain leaves. A text/html leaf is used (stripped
// of tags) only while no plain text has been accumulated yet.
func extractTextFromParts(parts []*gmail.MessagePart) string {
	var b strings.Builder

	var walk func(parts []*gmail.MessagePart)
	walk = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				if text, err := decodeBody(part.Body.Data); err == nil {
					b.WriteString(text)
				}
			} else if part.MimeType == "text/html" && part.Body != nil && part.Body.Data != "" && b.Len() == 0 {
				if html, err := decodeBody(part.Body.Data); err == nil {
					b.WriteString(stripHTML(html))
				}
			} else if len(part.Parts) > 0 {
				walk(part.Parts)
			}
		}
	}
	walk(parts)

	return b.String()
}

// decodeBody decodes Gmail's URL-safe base64 body data, tolerating both
// padded and unpadded forms.
func decodeBody(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return "", err
		}
	}
	return string(decoded), nil
}

// stripHTML converts HTML to rough plain text: tags become spaces, common
// entities are unescaped and whitespace is collapsed.
func stripHTML(html string) string {
	text := tagPattern.ReplaceAllString(html, " ")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	return strings.Join(strings.Fields(text), " ")
}
