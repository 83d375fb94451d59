package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/logging"
	"github.com/fkhayef/fellowship/pkg/response"
)

// ErrProfileNotFound is returned for missing profiles and for profiles the
// viewer may not see, so hidden members are indistinguishable from absent ones.
var ErrProfileNotFound = fmt.Errorf("profile %w", access.ErrNotFound)

// Store is the persistence the service depends on
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	ListExcept(ctx context.Context, exclude uuid.UUID) ([]*Profile, error)
	Update(ctx context.Context, id uuid.UUID, u *Update) (*Profile, error)
}

// Relationships returns every friendship record an account is part of
type Relationships interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*access.Friendship, error)
}

// Update is a validated UpdateProfileRequest
type Update struct {
	FirstName         *string
	LastName          *string
	Phone             *string
	Bio               *string
	ProfileVisibility *access.FieldVisibility
	PhoneVisibility   *access.FieldVisibility
	EmailVisibility   *access.FieldVisibility
}

// Service handles directory and profile logic
type Service struct {
	repo    Store
	friends Relationships
	log     logging.Logger
}

// NewService creates a new profile service
func NewService(repo Store, friends Relationships, log logging.Logger) *Service {
	return &Service{repo: repo, friends: friends, log: log}
}

// Directory lists the profiles viewer may see, redacted field by field.
// query matches names and visible email addresses.
func (s *Service) Directory(ctx context.Context, viewer uuid.UUID, query string, page, perPage int) ([]*ProfileResponse, int, error) {
	profiles, err := s.repo.ListExcept(ctx, viewer)
	if err != nil {
		return nil, 0, err
	}
	friendships, err := s.friends.ListForUser(ctx, viewer)
	if err != nil {
		return nil, 0, err
	}

	// The whole directory is loaded and redacted per viewer before paging,
	// since the search may only match fields the viewer can see.
	query = strings.ToLower(strings.TrimSpace(query))

	var visible []*ProfileResponse
	for _, p := range profiles {
		f := access.Find(friendships, viewer, p.ID)
		if !access.CanViewField(viewer, p.ID, p.Visibility.Profile, access.StatusOf(f)) {
			continue
		}

		view := p.ViewAs(viewer, f)
		if query != "" && !matches(view, query) {
			continue
		}
		visible = append(visible, view)
	}

	return response.Paginate(visible, page, perPage), len(visible), nil
}

// Get returns one profile as viewer may see it
func (s *Service) Get(ctx context.Context, viewer, id uuid.UUID) (*ProfileResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}

	var f *access.Friendship
	if viewer != id {
		friendships, err := s.friends.ListForUser(ctx, viewer)
		if err != nil {
			return nil, err
		}
		f = access.Find(friendships, viewer, id)
	}

	if !access.CanViewField(viewer, id, p.Visibility.Profile, access.StatusOf(f)) {
		return nil, ErrProfileNotFound
	}
	return p.ViewAs(viewer, f), nil
}

// Me returns the viewer's own profile, unredacted
func (s *Service) Me(ctx context.Context, viewer uuid.UUID) (*ProfileResponse, error) {
	return s.Get(ctx, viewer, viewer)
}

// Update edits the viewer's own profile
func (s *Service) Update(ctx context.Context, viewer uuid.UUID, req *UpdateProfileRequest) (*ProfileResponse, error) {
	u, err := validate(req)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, viewer, u)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}

	s.log.Debug(ctx, "profile updated", "profile_id", viewer)
	return p.ViewAs(viewer, nil), nil
}

func validate(req *UpdateProfileRequest) (*Update, error) {
	u := &Update{Phone: trimmed(req.Phone), Bio: trimmed(req.Bio)}

	if req.FirstName != nil {
		if u.FirstName = trimmed(req.FirstName); *u.FirstName == "" {
			return nil, fmt.Errorf("first name cannot be empty: %w", access.ErrInvalidValue)
		}
	}
	if req.LastName != nil {
		if u.LastName = trimmed(req.LastName); *u.LastName == "" {
			return nil, fmt.Errorf("last name cannot be empty: %w", access.ErrInvalidValue)
		}
	}

	var err error
	if u.ProfileVisibility, err = parseVisibility(req.ProfileVisibility); err != nil {
		return nil, err
	}
	if u.PhoneVisibility, err = parseVisibility(req.PhoneVisibility); err != nil {
		return nil, err
	}
	if u.EmailVisibility, err = parseVisibility(req.EmailVisibility); err != nil {
		return nil, err
	}
	return u, nil
}

func parseVisibility(s *string) (*access.FieldVisibility, error) {
	if s == nil {
		return nil, nil
	}
	v, err := access.ParseFieldVisibility(*s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func matches(p *ProfileResponse, query string) bool {
	if strings.Contains(strings.ToLower(p.FirstName+" "+p.LastName), query) {
		return true
	}
	return p.Email != nil && strings.Contains(strings.ToLower(*p.Email), query)
}
