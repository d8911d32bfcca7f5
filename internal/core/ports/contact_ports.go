package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Contact, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Contact, error)
	ListByFormType(ctx context.Context, formType domain.FormType, limit, offset int) ([]*domain.Contact, error)
	UpdateMessage(ctx context.Context, id uuid.UUID, message string, updatedBy *uuid.UUID) (*domain.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateContactInput struct {
	Name           string
	Email          string
	Phone          string
	CourseInterest string
	Message        string
	FormType       domain.FormType
}

type ListInput struct {
	Limit    int
	Offset   int
	FormType domain.FormType
	Course   string
}

type ContactService interface {
	Create(ctx context.Context, input CreateContactInput) (*domain.Contact, error)
	List(ctx context.Context, input ListInput) ([]*domain.Contact, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	UpdateMessage(ctx context.Context, id uuid.UUID, message string, actor *domain.Principal) (*domain.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
