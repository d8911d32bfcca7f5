package domain

type TemplateKind string

const (
	TemplateContactConfirmation TemplateKind = "contact_confirmation"
	TemplateBrochure            TemplateKind = "brochure"
	TemplateAdminNotification   TemplateKind = "admin_notification"
)

type EmailAttachment struct {
	Filename string
	// URL is fetched by the transport.
	URL string
}

type Email struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Attachments []EmailAttachment
}
