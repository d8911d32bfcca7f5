package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/dbx"
)

const uniqueViolation = "23505"

const selectUserWithRoles = `
	SELECT
		u.id, u.email, u.username, u.password_hash, u.is_active, u.is_email_verified,
		u.created_at, u.updated_at,
		COALESCE(ARRAY_AGG(r.role_name ORDER BY r.role_name) FILTER (WHERE r.role_name IS NOT NULL), '{}') AS roles
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.id = ur.role_id
`

type userRepository struct {
	q dbx.DBTX
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &userRepository{q: db}
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *userRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var exists bool
	if err := r.q.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// Create inserts the user and links its role in one transaction, joining the
// caller's transaction when there is one.
func (r *userRepository) Create(ctx context.Context, nu domain.NewUser) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbx.InTx(ctx, r.q, func(ctx context.Context, tx dbx.DBTX) error {
		var roleID int
		err := tx.QueryRowContext(ctx, `SELECT id FROM roles WHERE role_name = $1`, nu.Role).Scan(&roleID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %q", domain.ErrRoleNotFound, nu.Role)
			}
			return fmt.Errorf("failed to get role: %w", err)
		}

		insertUser := `
			INSERT INTO users (email, username, password_hash, is_active, is_email_verified)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		err = tx.QueryRowContext(ctx, insertUser,
			nu.Email, nu.Username, nu.PasswordHash, nu.IsActive, nu.IsEmailVerified,
		).Scan(&id)
		if err != nil {
			return mapUniqueViolation(err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, id, roleID); err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case "users_email_key":
			return domain.ErrEmailTaken
		case "users_username_key":
			return domain.ErrUsernameTaken
		default:
			return domain.ErrDuplicateUser
		}
	}
	return fmt.Errorf("failed to insert user: %w", err)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, selectUserWithRoles+`WHERE u.email = $1 AND u.is_active = TRUE GROUP BY u.id`, email, false)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, selectUserWithRoles+`WHERE u.id = $1 AND u.is_active = TRUE GROUP BY u.id`, id, false)
}

func (r *userRepository) FindCredentialsByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, selectUserWithRoles+`WHERE u.email = $1 GROUP BY u.id`, email, true)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any, withHash bool) (*domain.User, error) {
	user := &domain.User{}
	var roles pq.StringArray
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsEmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
		&roles,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Roles = []string(roles)
	if !withHash {
		user.PasswordHash = ""
	}
	return user, nil
}
