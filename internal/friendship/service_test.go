package friendship

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/logging"
	"github.com/fkhayef/fellowship/internal/profile"
)

type fakeStore struct {
	records   map[uuid.UUID]*access.Friendship
	profiles  *fakeProfiles
	createErr error
	stale     bool
}

func (f *fakeStore) Create(_ context.Context, fr *access.Friendship) error {
	if f.createErr != nil {
		return f.createErr
	}
	fr.ID = uuid.New()
	cp := *fr
	f.records[fr.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*access.Friendship, error) {
	if fr, ok := f.records[id]; ok {
		cp := *fr
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) FindBetween(_ context.Context, a, b uuid.UUID) (*access.Friendship, error) {
	for _, fr := range f.records {
		if fr.Involves(a) && fr.Involves(b) {
			cp := *fr
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListConnections(_ context.Context, userID uuid.UUID) ([]*Connection, error) {
	var out []*Connection
	for _, fr := range f.records {
		if !fr.Involves(userID) || fr.Status == access.FriendshipDeclined {
			continue
		}
		other := f.profiles.byID[fr.Other(userID)]
		cp := *fr
		out = append(out, &Connection{
			Friendship: &cp,
			Other: Party{
				ID:                other.ID,
				FirstName:         other.FirstName,
				LastName:          other.LastName,
				Email:             other.Email,
				Bio:               other.Bio,
				Role:              other.Role,
				ProfileVisibility: other.Visibility.Profile,
				EmailVisibility:   other.Visibility.Email,
			},
		})
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, fr *access.Friendship) (bool, error) {
	if f.stale {
		return false, nil
	}
	cp := *fr
	f.records[fr.ID] = &cp
	return true, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.records[id]; !ok {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func (f *fakeStore) DeleteDeclinedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, fr := range f.records {
		if fr.Status == access.FriendshipDeclined && fr.UpdatedAt.Before(cutoff) {
			delete(f.records, id)
			n++
		}
	}
	return n, nil
}

type fakeProfiles struct {
	byID map[uuid.UUID]*profile.Profile
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*profile.Profile, error) {
	return f.byID[id], nil
}

type sentNotification struct {
	kind      string
	recipient uuid.UUID
	name      string
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) NotifyFriendRequest(_ context.Context, recipient uuid.UUID, name string, _ uuid.UUID) error {
	f.sent = append(f.sent, sentNotification{"request", recipient, name})
	return f.err
}

func (f *fakeNotifier) NotifyFriendAccepted(_ context.Context, recipient uuid.UUID, name string, _ uuid.UUID) error {
	f.sent = append(f.sent, sentNotification{"accepted", recipient, name})
	return f.err
}

type fixture struct {
	svc      *Service
	store    *fakeStore
	notifier *fakeNotifier
	a, b, c  uuid.UUID
	clock    time.Time
}

func newFixture() *fixture {
	profiles := &fakeProfiles{byID: map[uuid.UUID]*profile.Profile{}}
	ids := make([]uuid.UUID, 3)
	for i, name := range []string{"Andrew", "Bartholomew", "Cornelius"} {
		id := uuid.New()
		bio := name + " serves on the welcome team"
		ids[i] = id
		profiles.byID[id] = &profile.Profile{
			ID:         id,
			FirstName:  name,
			LastName:   "Test",
			Email:      name + "@example.com",
			Bio:        &bio,
			Role:       access.RoleMember,
			Visibility: access.DefaultFieldSettings(),
		}
	}

	store := &fakeStore{records: map[uuid.UUID]*access.Friendship{}, profiles: profiles}
	notifier := &fakeNotifier{}
	fx := &fixture{
		store:    store,
		notifier: notifier,
		a:        ids[0],
		b:        ids[1],
		c:        ids[2],
		clock:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	fx.svc = NewService(store, profiles, notifier, logging.Nop())
	fx.svc.now = func() time.Time { return fx.clock }
	return fx
}

func TestSendRequest(t *testing.T) {
	fx := newFixture()

	f, err := fx.svc.SendRequest(context.Background(), fx.a, fx.b)
	require.NoError(t, err)
	assert.Equal(t, access.FriendshipPending, f.Status)
	assert.NotEqual(t, uuid.Nil, f.ID)

	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, sentNotification{"request", fx.b, "Andrew Test"}, fx.notifier.sent[0])
}

func TestSendRequest_Errors(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.SendRequest(context.Background(), fx.a, uuid.New())
	assert.ErrorIs(t, err, access.ErrNotFound)

	_, err = fx.svc.SendRequest(context.Background(), fx.a, fx.a)
	assert.ErrorIs(t, err, access.ErrInvalidState)

	_, err = fx.svc.SendRequest(context.Background(), fx.a, fx.b)
	require.NoError(t, err)

	_, err = fx.svc.SendRequest(context.Background(), fx.b, fx.a)
	assert.ErrorIs(t, err, access.ErrDuplicateRelationship)
}

func TestSendRequest_UniqueViolationIsDuplicate(t *testing.T) {
	fx := newFixture()
	fx.store.createErr = fmt.Errorf("failed to create friendship: %w", &pq.Error{Code: "23505"})

	_, err := fx.svc.SendRequest(context.Background(), fx.a, fx.b)
	assert.ErrorIs(t, err, access.ErrDuplicateRelationship)
	assert.Empty(t, fx.notifier.sent)
}

func TestSendRequest_NotificationFailureIsNotFatal(t *testing.T) {
	fx := newFixture()
	fx.notifier.err = errors.New("db hiccup")

	_, err := fx.svc.SendRequest(context.Background(), fx.a, fx.b)
	assert.NoError(t, err)
}

func TestAcceptDeclineLifecycle(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	f, err := fx.svc.SendRequest(ctx, fx.a, fx.b)
	require.NoError(t, err)

	_, err = fx.svc.Accept(ctx, fx.a, f.ID)
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	_, err = fx.svc.Accept(ctx, fx.c, f.ID)
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	fx.clock = fx.clock.Add(time.Hour)
	accepted, err := fx.svc.Accept(ctx, fx.b, f.ID)
	require.NoError(t, err)
	assert.Equal(t, access.FriendshipAccepted, accepted.Status)
	assert.Equal(t, fx.clock, accepted.UpdatedAt)

	require.Len(t, fx.notifier.sent, 2)
	assert.Equal(t, sentNotification{"accepted", fx.a, "Bartholomew Test"}, fx.notifier.sent[1])

	_, err = fx.svc.Decline(ctx, fx.b, f.ID)
	assert.ErrorIs(t, err, access.ErrInvalidState)
}

func TestDecline_ThenRequesterAcceptIsInvalidState(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	f, err := fx.svc.SendRequest(ctx, fx.a, fx.b)
	require.NoError(t, err)

	declined, err := fx.svc.Decline(ctx, fx.b, f.ID)
	require.NoError(t, err)
	assert.Equal(t, access.FriendshipDeclined, declined.Status)

	_, err = fx.svc.Accept(ctx, fx.a, f.ID)
	assert.ErrorIs(t, err, access.ErrInvalidState)

	_, err = fx.svc.SendRequest(ctx, fx.a, fx.b)
	assert.ErrorIs(t, err, access.ErrDuplicateRelationship)
}

func TestRespond_ConcurrentChangeIsInvalidState(t *testing.T) {
	fx := newFixture()
	f, err := fx.svc.SendRequest(context.Background(), fx.a, fx.b)
	require.NoError(t, err)
	fx.store.stale = true

	_, err = fx.svc.Accept(context.Background(), fx.b, f.ID)
	assert.ErrorIs(t, err, access.ErrInvalidState)
}

func TestRespond_Missing(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Accept(context.Background(), fx.b, uuid.New())
	assert.ErrorIs(t, err, ErrFriendshipNotFound)
}

func TestRemove(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	f, err := fx.svc.SendRequest(ctx, fx.a, fx.b)
	require.NoError(t, err)
	_, err = fx.svc.Accept(ctx, fx.b, f.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, fx.svc.Remove(ctx, fx.c, f.ID), access.ErrUnauthorized)
	require.NoError(t, fx.svc.Remove(ctx, fx.a, f.ID))
	assert.ErrorIs(t, fx.svc.Remove(ctx, fx.a, f.ID), access.ErrNotFound)

	// after removal the pair may connect again
	_, err = fx.svc.SendRequest(ctx, fx.b, fx.a)
	assert.NoError(t, err)
}

func TestRemove_DeclinedIsInvalidState(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	f, err := fx.svc.SendRequest(ctx, fx.a, fx.b)
	require.NoError(t, err)
	_, err = fx.svc.Decline(ctx, fx.b, f.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, fx.svc.Remove(ctx, fx.a, f.ID), access.ErrInvalidState)
}

func TestPurgeDeclined(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	f, err := fx.svc.SendRequest(ctx, fx.a, fx.b)
	require.NoError(t, err)
	_, err = fx.svc.Decline(ctx, fx.b, f.ID)
	require.NoError(t, err)

	n, err := fx.svc.PurgeDeclined(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	fx.clock = fx.clock.Add(2 * time.Hour)
	n, err = fx.svc.PurgeDeclined(ctx, time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = fx.svc.SendRequest(ctx, fx.a, fx.b)
	assert.NoError(t, err)
}

func TestList(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	toB, err := fx.svc.SendRequest(ctx, fx.a, fx.b)
	require.NoError(t, err)
	_, err = fx.svc.Accept(ctx, fx.b, toB.ID)
	require.NoError(t, err)
	fromC, err := fx.svc.SendRequest(ctx, fx.c, fx.a)
	require.NoError(t, err)

	resp, err := fx.svc.List(ctx, fx.a, "")
	require.NoError(t, err)
	require.Len(t, resp.Friends, 1)
	require.Len(t, resp.Incoming, 1)
	assert.Empty(t, resp.Sent)

	assert.Equal(t, fx.b, resp.Friends[0].Friend.ID)
	require.NotNil(t, resp.Friends[0].Friend.Email, "friends-only email is visible to an accepted friend")
	assert.Equal(t, fromC.ID, resp.Incoming[0].ID)
	assert.Nil(t, resp.Incoming[0].Friend.Email, "friends-only email stays hidden while pending")

	resp, err = fx.svc.List(ctx, fx.c, "")
	require.NoError(t, err)
	assert.Len(t, resp.Sent, 1)

	resp, err = fx.svc.List(ctx, fx.a, "barth")
	require.NoError(t, err)
	assert.Len(t, resp.Friends, 1)
	assert.Empty(t, resp.Incoming)
}

func TestList_BioFollowsProfileSetting(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	fx.store.profiles.byID[fx.c].Visibility.Profile = access.FieldPrivate

	toB, err := fx.svc.SendRequest(ctx, fx.a, fx.b)
	require.NoError(t, err)
	_, err = fx.svc.Accept(ctx, fx.b, toB.ID)
	require.NoError(t, err)
	_, err = fx.svc.SendRequest(ctx, fx.a, fx.c)
	require.NoError(t, err)

	resp, err := fx.svc.List(ctx, fx.a, "")
	require.NoError(t, err)
	require.Len(t, resp.Friends, 1)
	require.Len(t, resp.Sent, 1)

	require.NotNil(t, resp.Friends[0].Friend.Bio, "friends-level profile is visible to an accepted friend")
	assert.Nil(t, resp.Sent[0].Friend.Bio, "private profile stays hidden")
	assert.Nil(t, resp.Sent[0].Friend.Email, "friends-only email stays hidden while pending")
}
