package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
)

type BrochureRepository interface {
	// CreateWithContact inserts the contact and its brochure request atomically.
	CreateWithContact(ctx context.Context, contact *domain.Contact, request *domain.BrochureRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error)
	ListByContact(ctx context.Context, contactID uuid.UUID) ([]*domain.BrochureRequest, error)
	List(ctx context.Context, limit, offset int) ([]*domain.BrochureRequest, error)
	ListByCourse(ctx context.Context, course string, limit, offset int) ([]*domain.BrochureRequest, error)
	ListPending(ctx context.Context, limit int) ([]*domain.BrochureRequest, error)
	MarkEmailSent(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*domain.EmailDeliveryStats, error)
}

// BrochureLocator resolves a brochure file name to a downloadable URL.
type BrochureLocator interface {
	URL(ctx context.Context, fileName string) (string, error)
}

type BrochureRequestInput struct {
	Name           string
	Email          string
	Phone          string
	CourseInterest string
	Message        string
}

type BrochureService interface {
	Request(ctx context.Context, input BrochureRequestInput) (*domain.BrochureRequest, error)
	List(ctx context.Context, input ListInput) ([]*domain.BrochureRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error)
	ListByContact(ctx context.Context, contactID uuid.UUID) ([]*domain.BrochureRequest, error)
	PendingDeliveries(ctx context.Context, limit int) ([]*domain.BrochureRequest, error)
	DeliveryStats(ctx context.Context) (*domain.EmailDeliveryStats, error)
	Resend(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BrochureDelivery is the batch side of BrochureService.
type BrochureDelivery interface {
	DeliverPending(ctx context.Context, limit, workers int) (int, error)
}
