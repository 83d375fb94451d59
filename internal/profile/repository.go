package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

const profileColumns = `id, first_name, last_name, email, phone, bio, role,
		profile_visibility, phone_visibility, email_visibility, created_at, updated_at`

// Repository handles profile data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new profile repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a profile by account ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// ListExcept returns every profile but the given one, ordered by name
func (r *Repository) ListExcept(ctx context.Context, exclude uuid.UUID) ([]*Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM user_profiles
		WHERE id <> $1
		ORDER BY first_name, last_name, id`

	rows, err := r.db.QueryContext(ctx, query, exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, nil
}

// Update modifies the owner-editable fields of a profile
func (r *Repository) Update(ctx context.Context, id uuid.UUID, u *Update) (*Profile, error) {
	query := `
		UPDATE user_profiles
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    phone = CASE WHEN $4::text IS NULL THEN phone ELSE NULLIF($4, '') END,
		    bio = CASE WHEN $5::text IS NULL THEN bio ELSE NULLIF($5, '') END,
		    profile_visibility = COALESCE($6, profile_visibility),
		    phone_visibility = COALESCE($7, phone_visibility),
		    email_visibility = COALESCE($8, email_visibility),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id,
		u.FirstName, u.LastName, u.Phone, u.Bio,
		nullableVisibility(u.ProfileVisibility),
		nullableVisibility(u.PhoneVisibility),
		nullableVisibility(u.EmailVisibility),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*Profile, error) {
	p := &Profile{}
	var phone, bio sql.NullString
	var role, profileVis, phoneVis, emailVis string

	if err := s.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&phone,
		&bio,
		&role,
		&profileVis,
		&phoneVis,
		&emailVis,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if phone.Valid {
		p.Phone = &phone.String
	}
	if bio.Valid {
		p.Bio = &bio.String
	}

	var err error
	if p.Role, err = access.ParseRole(role); err != nil {
		return nil, err
	}
	p.Visibility = access.FieldSettings{
		Profile: access.FieldVisibility(profileVis),
		Phone:   access.FieldVisibility(phoneVis),
		Email:   access.FieldVisibility(emailVis),
	}
	return p, nil
}

func nullableVisibility(v *access.FieldVisibility) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
