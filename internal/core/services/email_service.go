package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

type EmailConfig struct {
	From  string
	Admin string
}

// EmailService renders the site emails and hands them to a transport.
type EmailService struct {
	sender    ports.EmailSender
	locator   ports.BrochureLocator
	cfg       EmailConfig
	templates map[domain.TemplateKind]*template.Template
	now       func() time.Time
}

func NewEmailService(sender ports.EmailSender, locator ports.BrochureLocator, cfg EmailConfig) (*EmailService, error) {
	templates := make(map[domain.TemplateKind]*template.Template)
	for kind, file := range map[domain.TemplateKind]string{
		domain.TemplateContactConfirmation: "templates/contact_confirmation.html",
		domain.TemplateBrochure:            "templates/brochure.html",
		domain.TemplateAdminNotification:   "templates/admin_notification.html",
	} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		templates[kind] = t
	}

	return &EmailService{
		sender:    sender,
		locator:   locator,
		cfg:       cfg,
		templates: templates,
		now:       time.Now,
	}, nil
}

type emailData struct {
	Title       string
	HeaderColor string
	Year        int
	Contact     *domain.Contact
	Brochure    *domain.BrochureRequest
	BrochureURL string
}

func (s *EmailService) Send(ctx context.Context, contact *domain.Contact, kind domain.TemplateKind, brochure *domain.BrochureRequest) error {
	data := emailData{
		HeaderColor: "#2563eb",
		Year:        s.now().Year(),
		Contact:     contact,
		Brochure:    brochure,
	}
	email := domain.Email{From: s.cfg.From, To: []string{contact.Email}}

	switch kind {
	case domain.TemplateContactConfirmation:
		data.Title = "Thank You for Contacting Us!"
		email.Subject = "Thank you for contacting Teknikoz University"

	case domain.TemplateBrochure:
		if brochure == nil {
			return fmt.Errorf("brochure email for contact %s: missing brochure request", contact.ID)
		}
		url, err := s.locator.URL(ctx, brochure.BrochureName)
		if err != nil {
			return fmt.Errorf("failed to resolve brochure %s: %w", brochure.BrochureName, err)
		}
		data.Title = "Your Course Brochure is Ready!"
		data.BrochureURL = url
		email.Subject = fmt.Sprintf("Your %s Course Brochure - Teknikoz University", brochure.CourseType)
		email.Attachments = []domain.EmailAttachment{{Filename: brochure.BrochureName, URL: url}}

	case domain.TemplateAdminNotification:
		data.HeaderColor = "#dc2626"
		email.To = []string{s.cfg.Admin}
		if contact.FormType == domain.FormTypeBrochure {
			data.Title = "New Brochure Submission"
			email.Subject = "New Brochure Request - Teknikoz University"
		} else {
			data.Title = "New Contact Submission"
			email.Subject = "New Contact Form Submission - Teknikoz University"
		}

	default:
		return fmt.Errorf("unknown email template %q", kind)
	}

	var buf bytes.Buffer
	if err := s.templates[kind].ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s email: %w", kind, err)
	}
	email.HTML = buf.String()

	if err := s.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}
	return nil
}
