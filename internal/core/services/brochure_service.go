package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/validation"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

type BrochureService struct {
	repo     ports.BrochureRepository
	contacts ports.ContactRepository
	notifier ports.Notifier
	logger   logging.Logger
}

func NewBrochureService(repo ports.BrochureRepository, contacts ports.ContactRepository, notifier ports.Notifier, logger logging.Logger) *BrochureService {
	return &BrochureService{
		repo:     repo,
		contacts: contacts,
		notifier: notifier,
		logger:   logger.With("component", "brochures"),
	}
}

// Request records a brochure request and emails the brochure. A failed
// delivery leaves email_sent false for DeliverPending to retry.
func (s *BrochureService) Request(ctx context.Context, input ports.BrochureRequestInput) (*domain.BrochureRequest, error) {
	sub := normalizeSubmission(input.Name, input.Email, input.Phone, input.CourseInterest, input.Message)

	v := validation.New()
	sub.validate(v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	contact := sub.contact(domain.FormTypeBrochure)
	req := &domain.BrochureRequest{
		ID:           uuid.New(),
		ContactID:    contact.ID,
		CourseType:   sub.course,
		BrochureName: domain.BrochureFile(sub.course),
	}
	if err := s.repo.CreateWithContact(ctx, contact, req); err != nil {
		return nil, fmt.Errorf("failed to create brochure request: %w", err)
	}

	if err := s.deliver(ctx, contact, req); err != nil {
		s.logger.Error(ctx, "failed to deliver brochure", "brochure_request_id", req.ID, "error", err)
	}
	notify(ctx, s.logger, s.notifier, contact, domain.TemplateAdminNotification, nil)

	s.logger.Info(ctx, "brochure request processed",
		"brochure_request_id", req.ID, "contact_id", contact.ID, "course_type", req.CourseType, "email_sent", req.EmailSent)
	return req, nil
}

func (s *BrochureService) deliver(ctx context.Context, contact *domain.Contact, req *domain.BrochureRequest) error {
	if err := s.notifier.Send(ctx, contact, domain.TemplateBrochure, req); err != nil {
		return err
	}
	updated, err := s.repo.MarkEmailSent(ctx, req.ID)
	if err != nil {
		return fmt.Errorf("failed to mark email as sent: %w", err)
	}
	*req = *updated
	return nil
}

func (s *BrochureService) List(ctx context.Context, input ports.ListInput) ([]*domain.BrochureRequest, error) {
	limit, offset, err := pageBounds(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	var requests []*domain.BrochureRequest
	if input.Course != "" {
		if !domain.IsCourse(input.Course) {
			return nil, domain.NewValidationError("course_type", "Please select a valid course")
		}
		requests, err = s.repo.ListByCourse(ctx, input.Course, limit, offset)
	} else {
		requests, err = s.repo.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list brochure requests: %w", err)
	}
	return requests, nil
}

func (s *BrochureService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BrochureService) ListByContact(ctx context.Context, contactID uuid.UUID) ([]*domain.BrochureRequest, error) {
	requests, err := s.repo.ListByContact(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list brochure requests by contact: %w", err)
	}
	return requests, nil
}

func (s *BrochureService) PendingDeliveries(ctx context.Context, limit int) ([]*domain.BrochureRequest, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = 50
	}
	requests, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending deliveries: %w", err)
	}
	return requests, nil
}

func (s *BrochureService) DeliveryStats(ctx context.Context) (*domain.EmailDeliveryStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery stats: %w", err)
	}
	return stats, nil
}

// Resend emails the brochure again and marks the request as sent.
func (s *BrochureService) Resend(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	contact, err := s.contacts.GetByID(ctx, req.ContactID)
	if err != nil {
		return nil, err
	}
	if err := s.deliver(ctx, contact, req); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "brochure resent", "brochure_request_id", id)
	return req, nil
}

func (s *BrochureService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "brochure request deleted", "brochure_request_id", id)
	return nil
}

// DeliverPending retries up to limit unsent brochures using at most workers
// concurrent deliveries. It returns how many were delivered.
func (s *BrochureService) DeliverPending(ctx context.Context, limit, workers int) (int, error) {
	pending, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pending deliveries: %w", err)
	}
	if workers <= 0 {
		workers = 1
	}

	var (
		wg        sync.WaitGroup
		delivered atomic.Int64
		sem       = make(chan struct{}, workers)
		errChan   = make(chan error, len(pending))
	)

	for _, req := range pending {
		wg.Add(1)
		sem <- struct{}{}
		go func(req *domain.BrochureRequest) {
			defer wg.Done()
			defer func() { <-sem }()

			contact, err := s.contacts.GetByID(ctx, req.ContactID)
			if err != nil {
				errChan <- fmt.Errorf("brochure request %s: %w", req.ID, err)
				return
			}
			if err := s.deliver(ctx, contact, req); err != nil {
				errChan <- fmt.Errorf("brochure request %s: %w", req.ID, err)
				return
			}
			delivered.Add(1)
		}(req)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	return int(delivered.Load()), errors.Join(errs...)
}
