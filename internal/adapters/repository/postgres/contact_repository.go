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

const contactColumns = `id, name, email, phone, course_interest, message, form_type,
	created_at, updated_at, created_by, updated_by`

const insertContact = `
	INSERT INTO contacts (id, name, email, phone, course_interest, message, form_type, created_by)
	VALUES (:id, :name, :email, :phone, :course_interest, :message, :form_type, :created_by)
	RETURNING created_at, updated_at
`

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ports.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	if err := insertNamed(ctx, r.db, insertContact, contact, &contact.CreatedAt, &contact.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// insertNamed binds arg to a named query and scans its RETURNING columns.
func insertNamed(ctx context.Context, q sqlx.QueryerContext, query string, arg any, dest ...any) error {
	bound, args, err := sqlx.Named(query, arg)
	if err != nil {
		return err
	}
	return q.QueryRowxContext(ctx, sqlx.Rebind(sqlx.DOLLAR, bound), args...).Scan(dest...)
}

func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.GetContext(ctx, &contact, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &contact, nil
}

func (r *contactRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE email = $1 ORDER BY created_at DESC`
	return r.selectContacts(ctx, query, email)
}

func (r *contactRepository) List(ctx context.Context, limit, offset int) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.selectContacts(ctx, query, limit, offset)
}

func (r *contactRepository) ListByFormType(ctx context.Context, formType domain.FormType, limit, offset int) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE form_type = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.selectContacts(ctx, query, formType, limit, offset)
}

func (r *contactRepository) selectContacts(ctx context.Context, query string, args ...any) ([]*domain.Contact, error) {
	contacts := []*domain.Contact{}
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (r *contactRepository) UpdateMessage(ctx context.Context, id uuid.UUID, message string, updatedBy *uuid.UUID) (*domain.Contact, error) {
	query := `
		UPDATE contacts
		SET message = $2, updated_by = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + contactColumns

	var contact domain.Contact
	if err := r.db.GetContext(ctx, &contact, query, id, message, updatedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return &contact, nil
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, `DELETE FROM contacts WHERE id = $1`, id, domain.ErrContactNotFound)
}

func deleteByID(ctx context.Context, db sqlx.ExecerContext, query string, id uuid.UUID, notFound error) error {
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
