package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// Repository handles calendar event persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new calendar repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an event and assigns its ID and creation time
func (r *Repository) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO calendar_events (id, title, description, start_date, end_date, location, visibility, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	id := uuid.New()
	err := r.db.QueryRowContext(ctx, query,
		id, e.Title, e.Description, e.StartDate, e.EndDate, e.Location, e.Visibility, e.CreatedBy,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	e.ID = id
	return nil
}

// ListStartingBetween returns events starting in [from, to), earliest first
func (r *Repository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*Event, error) {
	query := `
		SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.location,
		       e.visibility, e.created_by, e.created_at,
		       COALESCE(p.first_name || ' ' || p.last_name, '')
		FROM calendar_events e
		LEFT JOIN user_profiles p ON p.id = e.created_by
		WHERE e.start_date >= $1 AND e.start_date < $2
		ORDER BY e.start_date, e.id
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var visibility string
		if err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Description,
			&e.StartDate,
			&e.EndDate,
			&e.Location,
			&visibility,
			&e.CreatedBy,
			&e.CreatedAt,
			&e.CreatorName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Visibility = access.ContentVisibility(visibility)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}
