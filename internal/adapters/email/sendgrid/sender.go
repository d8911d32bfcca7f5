// Package sendgrid sends email through the SendGrid v3 API.
package sendgrid

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
)

const (
	maxAttachmentBytes = 20 << 20
	attachmentTimeout  = 30 * time.Second
)

type Sender struct {
	apiKey        string
	host          string
	http          *http.Client
	maxAttachment int64
}

// NewSender builds a sender for host; an empty host means the public API.
// A nil httpClient gets a client with a 30s timeout.
func NewSender(apiKey, host string, httpClient *http.Client) *Sender {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: attachmentTimeout}
	}
	return &Sender{apiKey: apiKey, host: host, http: httpClient, maxAttachment: maxAttachmentBytes}
}

func (s *Sender) Send(ctx context.Context, email domain.Email) error {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail("Teknikoz University", email.From))
	m.Subject = email.Subject

	p := mail.NewPersonalization()
	for _, to := range email.To {
		p.AddTos(mail.NewEmail("", to))
	}
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/html", email.HTML))

	for _, a := range email.Attachments {
		att, err := s.fetchAttachment(ctx, a)
		if err != nil {
			return err
		}
		m.AddAttachment(att)
	}

	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(m)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// fetchAttachment downloads the file; SendGrid only accepts inline content.
func (s *Sender) fetchAttachment(ctx context.Context, a domain.EmailAttachment) (*mail.Attachment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build attachment request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attachment %s: %w", a.Filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch attachment %s: status %d", a.Filename, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxAttachment+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment %s: %w", a.Filename, err)
	}
	if int64(len(body)) > s.maxAttachment {
		return nil, fmt.Errorf("attachment %s exceeds %d bytes", a.Filename, s.maxAttachment)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	att := mail.NewAttachment()
	att.SetContent(base64.StdEncoding.EncodeToString(body))
	att.SetType(contentType)
	att.SetFilename(a.Filename)
	att.SetDisposition("attachment")
	return att, nil
}
