package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/validation"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ContactService struct {
	repo     ports.ContactRepository
	notifier ports.Notifier
	logger   logging.Logger
}

func NewContactService(repo ports.ContactRepository, notifier ports.Notifier, logger logging.Logger) *ContactService {
	return &ContactService{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With("component", "contacts"),
	}
}

// Create stores the submission, then emails the visitor and the admin.
// Email failures are logged; the stored contact stays.
func (s *ContactService) Create(ctx context.Context, input ports.CreateContactInput) (*domain.Contact, error) {
	sub := normalizeSubmission(input.Name, input.Email, input.Phone, input.CourseInterest, input.Message)

	v := validation.New()
	sub.validate(v)
	v.Check(input.FormType.Valid(), "form_type", "Invalid form type")
	if err := v.Err(); err != nil {
		return nil, err
	}

	contact := sub.contact(input.FormType)
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	notify(ctx, s.logger, s.notifier, contact, domain.TemplateContactConfirmation, nil)
	notify(ctx, s.logger, s.notifier, contact, domain.TemplateAdminNotification, nil)

	s.logger.Info(ctx, "contact form submitted", "contact_id", contact.ID, "course_interest", contact.CourseInterest)
	return contact, nil
}

func (s *ContactService) List(ctx context.Context, input ports.ListInput) ([]*domain.Contact, error) {
	limit, offset, err := pageBounds(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	var contacts []*domain.Contact
	if input.FormType != "" {
		if !input.FormType.Valid() {
			return nil, domain.NewValidationError("form_type", "Invalid form type")
		}
		contacts, err = s.repo.ListByFormType(ctx, input.FormType, limit, offset)
	} else {
		contacts, err = s.repo.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (s *ContactService) ListByEmail(ctx context.Context, email string) ([]*domain.Contact, error) {
	contacts, err := s.repo.ListByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts by email: %w", err)
	}
	return contacts, nil
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContactService) UpdateMessage(ctx context.Context, id uuid.UUID, message string, actor *domain.Principal) (*domain.Contact, error) {
	message = strings.TrimSpace(message)

	v := validation.New()
	v.MaxLen("message", message, 1000, "Message must be less than 1000 characters")
	if err := v.Err(); err != nil {
		return nil, err
	}

	var updatedBy *uuid.UUID
	if actor != nil {
		updatedBy = &actor.UserID
	}

	contact, err := s.repo.UpdateMessage(ctx, id, message, updatedBy)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "contact updated", "contact_id", id)
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "contact deleted", "contact_id", id)
	return nil
}

// submission is the part shared by contact forms and brochure requests.
type submission struct {
	name, email, phone, course, message string
}

func normalizeSubmission(name, email, phone, course, message string) submission {
	return submission{
		name:    strings.TrimSpace(name),
		email:   validation.NormalizeEmail(email),
		phone:   strings.TrimSpace(phone),
		course:  course,
		message: strings.TrimSpace(message),
	}
}

func (sub submission) validate(v *validation.Validator) {
	v.MinLen("name", sub.name, 2, "Name must be at least 2 characters")
	v.MaxLen("name", sub.name, 100, "Name must be less than 100 characters")
	v.Email("email", sub.email, "Please enter a valid email address")
	v.MaxLen("email", sub.email, 255, "Email must be less than 255 characters")
	v.MinLen("phone", sub.phone, 10, "Phone number must be at least 10 digits")
	v.MaxLen("phone", sub.phone, 20, "Phone number must be less than 20 characters")
	v.Phone("phone", sub.phone, "Please enter a valid phone number")
	v.OneOf("course_interest", sub.course, domain.Courses, "Please select a valid course")
	v.MaxLen("message", sub.message, 1000, "Message must be less than 1000 characters")
}

func (sub submission) contact(formType domain.FormType) *domain.Contact {
	c := &domain.Contact{
		ID:             uuid.New(),
		Name:           sub.name,
		Email:          sub.email,
		Phone:          sub.phone,
		CourseInterest: sub.course,
		FormType:       formType,
	}
	if sub.message != "" {
		msg := sub.message
		c.Message = &msg
	}
	return c
}

func pageBounds(limit, offset int) (int, int, error) {
	if limit == 0 {
		limit = DefaultPageSize
	}
	v := validation.New()
	v.Check(limit >= 1 && limit <= MaxPageSize, "limit", fmt.Sprintf("Limit must be between 1 and %d", MaxPageSize))
	v.Check(offset >= 0, "offset", "Offset must not be negative")
	if err := v.Err(); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func notify(ctx context.Context, logger logging.Logger, n ports.Notifier, contact *domain.Contact, kind domain.TemplateKind, brochure *domain.BrochureRequest) {
	if err := n.Send(ctx, contact, kind, brochure); err != nil {
		logger.Error(ctx, "failed to send email", "template", kind, "contact_id", contact.ID, "error", err)
	}
}
