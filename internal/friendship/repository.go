package friendship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

const friendshipColumns = `id, requester_id, addressee_id, status, created_at, updated_at`

// Repository handles friendship data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new friendship repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new friendship and assigns its ID. A second record for the
// same pair fails on the friendships_pair_key unique index.
func (r *Repository) Create(ctx context.Context, f *access.Friendship) error {
	query := `
		INSERT INTO friendships (id, requester_id, addressee_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	id := uuid.New()
	if _, err := r.db.ExecContext(ctx, query, id, f.RequesterID, f.AddresseeID, f.Status, f.CreatedAt, f.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	f.ID = id
	return nil
}

// GetByID retrieves a friendship by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*access.Friendship, error) {
	query := `SELECT ` + friendshipColumns + ` FROM friendships WHERE id = $1`

	f, err := scanFriendship(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return f, nil
}

// FindBetween returns the record linking a and b in either direction
func (r *Repository) FindBetween(ctx context.Context, a, b uuid.UUID) (*access.Friendship, error) {
	query := `SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE (requester_id = $1 AND addressee_id = $2)
		   OR (requester_id = $2 AND addressee_id = $1)`

	f, err := scanFriendship(r.db.QueryRowContext(ctx, query, a, b))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find friendship: %w", err)
	}
	return f, nil
}

// ListForUser returns every record userID is a party to, in any status
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*access.Friendship, error) {
	query := `SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE requester_id = $1 OR addressee_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}
	defer rows.Close()

	var friendships []*access.Friendship
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		friendships = append(friendships, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friendships: %w", err)
	}

	return friendships, nil
}

// ListConnections returns the pending and accepted records of userID joined
// with the other party's profile, most recently changed first
func (r *Repository) ListConnections(ctx context.Context, userID uuid.UUID) ([]*Connection, error) {
	query := `
		SELECT f.id, f.requester_id, f.addressee_id, f.status, f.created_at, f.updated_at,
		       p.id, p.first_name, p.last_name, p.email, p.bio, p.role, p.profile_visibility, p.email_visibility
		FROM friendships f
		JOIN user_profiles p
		  ON p.id = CASE WHEN f.requester_id = $1 THEN f.addressee_id ELSE f.requester_id END
		WHERE (f.requester_id = $1 OR f.addressee_id = $1)
		  AND f.status IN ('pending', 'accepted')
		ORDER BY f.updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var connections []*Connection
	for rows.Next() {
		c := &Connection{Friendship: &access.Friendship{}}
		var status, role, profileVis, emailVis string
		var bio sql.NullString

		if err := rows.Scan(
			&c.Friendship.ID,
			&c.Friendship.RequesterID,
			&c.Friendship.AddresseeID,
			&status,
			&c.Friendship.CreatedAt,
			&c.Friendship.UpdatedAt,
			&c.Other.ID,
			&c.Other.FirstName,
			&c.Other.LastName,
			&c.Other.Email,
			&bio,
			&role,
			&profileVis,
			&emailVis,
		); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}

		if c.Friendship.Status, err = access.ParseFriendshipStatus(status); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		if bio.Valid {
			c.Other.Bio = &bio.String
		}
		// unknown values are kept as-is; the field checks reject them
		c.Other.Role = access.Role(role)
		c.Other.ProfileVisibility = access.FieldVisibility(profileVis)
		c.Other.EmailVisibility = access.FieldVisibility(emailVis)

		connections = append(connections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate connections: %w", err)
	}

	return connections, nil
}

// UpdateStatus persists a transition out of pending. It reports false when the
// record was no longer pending, so a concurrent response cannot be overwritten.
func (r *Repository) UpdateStatus(ctx context.Context, f *access.Friendship) (bool, error) {
	query := `
		UPDATE friendships
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.ExecContext(ctx, query, f.ID, f.Status, f.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to update friendship: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// Delete removes a friendship. It reports whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete friendship: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteDeclinedBefore purges declined records last changed before cutoff
func (r *Repository) DeleteDeclinedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM friendships WHERE status = 'declined' AND updated_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge declined friendships: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFriendship(s scanner) (*access.Friendship, error) {
	f := &access.Friendship{}
	var status string

	if err := s.Scan(
		&f.ID,
		&f.RequesterID,
		&f.AddresseeID,
		&status,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if f.Status, err = access.ParseFriendshipStatus(status); err != nil {
		return nil, err
	}
	return f, nil
}
