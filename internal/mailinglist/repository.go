package mailinglist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// $1 is always the viewer, for is_member
const selectLists = `
	SELECT l.id, l.name, l.description, l.privacy_level, l.created_by, l.created_at,
	       COALESCE(p.first_name || ' ' || p.last_name, ''),
	       (SELECT COUNT(*) FROM mailing_list_members m WHERE m.list_id = l.id),
	       EXISTS (SELECT 1 FROM mailing_list_members m WHERE m.list_id = l.id AND m.user_id = $1)
	FROM mailing_lists l
	LEFT JOIN user_profiles p ON p.id = l.created_by`

// Repository handles mailing list data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new mailing list repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a list and assigns its ID and creation time
func (r *Repository) Create(ctx context.Context, l *MailingList) error {
	query := `
		INSERT INTO mailing_lists (id, name, description, privacy_level, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	id := uuid.New()
	err := r.db.QueryRowContext(ctx, query, id, l.Name, l.Description, l.PrivacyLevel, l.CreatedBy).Scan(&l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create mailing list: %w", err)
	}
	l.ID = id
	return nil
}

// GetByID retrieves a list with its member count and the viewer's membership
func (r *Repository) GetByID(ctx context.Context, id, viewer uuid.UUID) (*MailingList, error) {
	l, err := scanList(r.db.QueryRowContext(ctx, selectLists+` WHERE l.id = $2`, viewer, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mailing list: %w", err)
	}
	return l, nil
}

// List returns every list newest first. Visibility is decided by the caller.
func (r *Repository) List(ctx context.Context, viewer uuid.UUID) ([]*MailingList, error) {
	rows, err := r.db.QueryContext(ctx, selectLists+` ORDER BY l.created_at DESC, l.id`, viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to list mailing lists: %w", err)
	}
	defer rows.Close()

	var lists []*MailingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mailing list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mailing lists: %w", err)
	}

	return lists, nil
}

// AddMember adds userID to a list. Joining twice fails with a unique violation.
func (r *Repository) AddMember(ctx context.Context, listID, userID uuid.UUID) error {
	query := `INSERT INTO mailing_list_members (list_id, user_id) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, listID, userID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember removes userID from a list, reporting whether it was a member
func (r *Repository) RemoveMember(ctx context.Context, listID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM mailing_list_members WHERE list_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, listID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// GetMembers retrieves all members of a list in join order
func (r *Repository) GetMembers(ctx context.Context, listID uuid.UUID) ([]*Member, error) {
	query := `
		SELECT m.list_id, m.user_id, m.joined_at, p.first_name, p.last_name, p.email, p.email_visibility, p.role
		FROM mailing_list_members m
		JOIN user_profiles p ON p.id = m.user_id
		WHERE m.list_id = $1
		ORDER BY m.joined_at, m.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		var emailVisibility, role string
		if err := rows.Scan(
			&m.ListID,
			&m.UserID,
			&m.JoinedAt,
			&m.FirstName,
			&m.LastName,
			&m.Email,
			&emailVisibility,
			&role,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.EmailVisibility = access.FieldVisibility(emailVisibility)
		m.Role = access.Role(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanList(s scanner) (*MailingList, error) {
	l := &MailingList{}
	var privacy string

	if err := s.Scan(
		&l.ID,
		&l.Name,
		&l.Description,
		&privacy,
		&l.CreatedBy,
		&l.CreatedAt,
		&l.CreatorName,
		&l.MemberCount,
		&l.IsMember,
	); err != nil {
		return nil, err
	}

	l.PrivacyLevel = access.ContentVisibility(privacy)
	return l, nil
}
