package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
)

const brochureColumns = `id, contact_id, course_type, brochure_name, email_sent, email_sent_at,
	created_at, updated_at, created_by, updated_by`

const insertBrochureRequest = `
	INSERT INTO brochure_requests (id, contact_id, course_type, brochure_name, created_by)
	VALUES (:id, :contact_id, :course_type, :brochure_name, :created_by)
	RETURNING created_at, updated_at
`

type brochureRepository struct {
	db *sqlx.DB
}

func NewBrochureRepository(db *sqlx.DB) ports.BrochureRepository {
	return &brochureRepository{db: db}
}

func (r *brochureRepository) CreateWithContact(ctx context.Context, contact *domain.Contact, request *domain.BrochureRequest) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertNamed(ctx, tx, insertContact, contact, &contact.CreatedAt, &contact.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}

	request.ContactID = contact.ID
	if err := insertNamed(ctx, tx, insertBrochureRequest, request, &request.CreatedAt, &request.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert brochure request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *brochureRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error) {
	var req domain.BrochureRequest
	err := r.db.GetContext(ctx, &req, `SELECT `+brochureColumns+` FROM brochure_requests WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBrochureRequestNotFound
		}
		return nil, fmt.Errorf("failed to get brochure request: %w", err)
	}
	return &req, nil
}

func (r *brochureRepository) ListByContact(ctx context.Context, contactID uuid.UUID) ([]*domain.BrochureRequest, error) {
	query := `SELECT ` + brochureColumns + ` FROM brochure_requests WHERE contact_id = $1 ORDER BY created_at DESC`
	return r.selectRequests(ctx, query, contactID)
}

func (r *brochureRepository) List(ctx context.Context, limit, offset int) ([]*domain.BrochureRequest, error) {
	query := `SELECT ` + brochureColumns + ` FROM brochure_requests ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.selectRequests(ctx, query, limit, offset)
}

func (r *brochureRepository) ListByCourse(ctx context.Context, course string, limit, offset int) ([]*domain.BrochureRequest, error) {
	query := `SELECT ` + brochureColumns + ` FROM brochure_requests WHERE course_type = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.selectRequests(ctx, query, course, limit, offset)
}

// ListPending returns unsent requests, oldest first.
func (r *brochureRepository) ListPending(ctx context.Context, limit int) ([]*domain.BrochureRequest, error) {
	query := `SELECT ` + brochureColumns + ` FROM brochure_requests WHERE email_sent = FALSE ORDER BY created_at ASC LIMIT $1`
	return r.selectRequests(ctx, query, limit)
}

func (r *brochureRepository) selectRequests(ctx context.Context, query string, args ...any) ([]*domain.BrochureRequest, error) {
	requests := []*domain.BrochureRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list brochure requests: %w", err)
	}
	return requests, nil
}

func (r *brochureRepository) MarkEmailSent(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error) {
	query := `
		UPDATE brochure_requests
		SET email_sent = TRUE, email_sent_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + brochureColumns

	var req domain.BrochureRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBrochureRequestNotFound
		}
		return nil, fmt.Errorf("failed to mark brochure email sent: %w", err)
	}
	return &req, nil
}

func (r *brochureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, `DELETE FROM brochure_requests WHERE id = $1`, id, domain.ErrBrochureRequestNotFound)
}

func (r *brochureRepository) Stats(ctx context.Context) (*domain.EmailDeliveryStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE email_sent) AS sent,
			COUNT(*) FILTER (WHERE NOT email_sent) AS pending
		FROM brochure_requests
	`
	var stats domain.EmailDeliveryStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get delivery stats: %w", err)
	}
	return &stats, nil
}
