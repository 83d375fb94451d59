package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/logging"
)

// Store is the persistence the service depends on
type Store interface {
	Create(ctx context.Context, e *Event) error
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*Event, error)
}

// Relationships returns every friendship record an account is part of
type Relationships interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*access.Friendship, error)
}

// Service handles calendar business logic
type Service struct {
	repo    Store
	friends Relationships
	log     logging.Logger
	now     func() time.Time
}

// NewService creates a new calendar service
func NewService(repo Store, friends Relationships, log logging.Logger) *Service {
	return &Service{repo: repo, friends: friends, log: log, now: time.Now}
}

// Month returns the events viewer may see that start in the given month.
// A zero year or month falls back to the current one.
func (s *Service) Month(ctx context.Context, viewer access.Viewer, year, month int) (int, int, []*Event, error) {
	now := s.now().UTC()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return 0, 0, nil, fmt.Errorf("month %d: %w", month, access.ErrInvalidValue)
	}
	if year < 1 || year > 9999 {
		return 0, 0, nil, fmt.Errorf("year %d: %w", year, access.ErrInvalidValue)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	events, err := s.repo.ListStartingBetween(ctx, from, to)
	if err != nil {
		return 0, 0, nil, err
	}
	friendships, err := s.friends.ListForUser(ctx, viewer.ID)
	if err != nil {
		return 0, 0, nil, err
	}

	visible := access.ContentFilter(viewer, friendships)
	out := make([]*Event, 0, len(events))
	for _, e := range events {
		if visible(e.accessContent()) {
			out = append(out, e)
		}
	}
	return year, month, out, nil
}

// Create adds an event. The viewer's role must allow the requested visibility.
func (s *Service) Create(ctx context.Context, viewer access.Viewer, req *CreateEventRequest) (*Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", access.ErrInvalidValue)
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end := start
	if strings.TrimSpace(req.EndDate) != "" {
		if end, err = parseDate("end_date", req.EndDate); err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end_date before start_date: %w", access.ErrInvalidValue)
	}

	visibility, err := access.ParseContentVisibility(req.Visibility)
	if err != nil {
		return nil, err
	}
	if err := access.CheckAssign(viewer.Role, visibility); err != nil {
		return nil, err
	}

	e := &Event{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		StartDate:   start,
		EndDate:     end,
		Location:    strings.TrimSpace(req.Location),
		Visibility:  visibility,
		CreatedBy:   viewer.ID,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "event created", "event_id", e.ID, "start", e.StartDate, "visibility", e.Visibility)
	return e, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %q: %w", field, value, access.ErrInvalidValue)
	}
	return t.UTC(), nil
}
