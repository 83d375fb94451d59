package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/dbx"
)

// Repository handles account data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new account repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithProfile inserts the account and its default profile in one transaction
func (r *Repository) CreateWithProfile(ctx context.Context, a *Account, firstName, lastName string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO accounts (id, email, password_hash, role)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`, a.ID, a.Email, a.PasswordHash, a.Role).Scan(&a.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		v := access.DefaultFieldSettings()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_profiles (id, first_name, last_name, email, role,
				profile_visibility, phone_visibility, email_visibility)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, a.ID, firstName, lastName, a.Email, a.Role, v.Profile, v.Phone, v.Email)
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
}

// GetByID retrieves an account by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	query := `
		SELECT id, email, password_hash, role, created_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "failed to get account")
}

// GetByEmail retrieves an account by its email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query := `
		SELECT id, email, password_hash, role, created_at
		FROM accounts
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email), "failed to get account by email")
}

// UpdateRole sets the role on the account and its profile copy
func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role access.Role) (*Account, error) {
	var a *Account
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		row := tx.QueryRowContext(ctx, `
			UPDATE accounts
			SET role = $2
			WHERE id = $1
			RETURNING id, email, password_hash, role, created_at
		`, id, role)

		var err error
		a, err = r.scanOne(row, "failed to update account role")
		if err != nil || a == nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE user_profiles
			SET role = $2, updated_at = NOW()
			WHERE id = $1
		`, id, role)
		if err != nil {
			return fmt.Errorf("failed to update profile role: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) scanOne(row *sql.Row, failure string) (*Account, error) {
	a := &Account{}
	var role string
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", failure, err)
	}

	if a.Role, err = access.ParseRole(role); err != nil {
		return nil, fmt.Errorf("%s: %w", failure, err)
	}
	return a, nil
}
