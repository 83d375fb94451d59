package message

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/logging"
)

type fakeStore struct {
	messages []*Message
}

func (f *fakeStore) Create(_ context.Context, m *Message) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	cp := *m
	f.messages = append([]*Message{&cp}, f.messages...)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*Message, error) {
	for _, m := range f.messages {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) List(_ context.Context, msgType *access.MessageType) ([]*Message, error) {
	var out []*Message
	for _, m := range f.messages {
		if msgType == nil || m.Type == *msgType {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeRelationships struct {
	records []*access.Friendship
}

func (f *fakeRelationships) ListForUser(_ context.Context, userID uuid.UUID) ([]*access.Friendship, error) {
	var out []*access.Friendship
	for _, fr := range f.records {
		if fr.Involves(userID) {
			out = append(out, fr)
		}
	}
	return out, nil
}

type fixture struct {
	svc   *Service
	store *fakeStore

	author, friend, stranger access.Viewer
	leader, admin            access.Viewer
}

func newFixture() *fixture {
	fx := &fixture{
		store:    &fakeStore{},
		author:   access.Viewer{ID: uuid.New(), Role: access.RoleMember},
		friend:   access.Viewer{ID: uuid.New(), Role: access.RoleMember},
		stranger: access.Viewer{ID: uuid.New(), Role: access.RoleMember},
		leader:   access.Viewer{ID: uuid.New(), Role: access.RoleLeader},
		admin:    access.Viewer{ID: uuid.New(), Role: access.RoleAdmin},
	}
	rel := &fakeRelationships{records: []*access.Friendship{{
		ID:          uuid.New(),
		RequesterID: fx.author.ID,
		AddresseeID: fx.friend.ID,
		Status:      access.FriendshipAccepted,
	}}}
	fx.svc = NewService(fx.store, rel, logging.Nop())
	return fx
}

func (fx *fixture) post(t *testing.T, by access.Viewer, msgType string, visibility string) *Message {
	t.Helper()
	m, err := fx.svc.Create(context.Background(), by, &CreateMessageRequest{
		Title:       "Sunday service",
		Content:     "Starts at ten",
		MessageType: msgType,
		Visibility:  visibility,
	})
	require.NoError(t, err)
	return m
}

func TestService_Create_RoleGate(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	req := &CreateMessageRequest{Title: "t", Content: "c", MessageType: "general", Visibility: "leaders"}
	_, err := fx.svc.Create(ctx, fx.author, req)
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	m, err := fx.svc.Create(ctx, fx.leader, req)
	require.NoError(t, err)
	assert.Equal(t, access.ContentLeaders, m.Visibility)
	assert.Equal(t, fx.leader.ID, m.CreatedBy)

	req.Visibility = "admin"
	_, err = fx.svc.Create(ctx, fx.leader, req)
	assert.ErrorIs(t, err, access.ErrUnauthorized)
	_, err = fx.svc.Create(ctx, fx.admin, req)
	assert.NoError(t, err)
}

func TestService_Create_Validation(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, fx.admin, &CreateMessageRequest{Title: "  ", Content: "c", MessageType: "general", Visibility: "public"})
	assert.ErrorIs(t, err, access.ErrInvalidValue)

	_, err = fx.svc.Create(ctx, fx.admin, &CreateMessageRequest{Title: "t", Content: "c", MessageType: "memo", Visibility: "public"})
	assert.ErrorIs(t, err, access.ErrInvalidValue)

	_, err = fx.svc.Create(ctx, fx.admin, &CreateMessageRequest{Title: "t", Content: "c", MessageType: "general", Visibility: "private"})
	assert.ErrorIs(t, err, access.ErrInvalidValue)

	assert.Empty(t, fx.store.messages)
}

func TestService_List_FiltersByVisibility(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	fx.post(t, fx.author, "general", "public")
	fx.post(t, fx.author, "prayer_request", "friends")
	fx.post(t, fx.leader, "announcement", "leaders")
	fx.post(t, fx.admin, "announcement", "admin")

	count := func(v access.Viewer) int {
		_, total, err := fx.svc.List(ctx, v, "", 1, 20)
		require.NoError(t, err)
		return total
	}

	assert.Equal(t, 2, count(fx.author))
	assert.Equal(t, 2, count(fx.friend))
	assert.Equal(t, 1, count(fx.stranger))
	assert.Equal(t, 2, count(fx.leader))
	assert.Equal(t, 3, count(fx.admin))
}

func TestService_List_TypeAndPaging(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		fx.post(t, fx.author, "general", "public")
	}
	fx.post(t, fx.author, "announcement", "public")

	messages, total, err := fx.svc.List(ctx, fx.stranger, "general", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, messages, 1)

	_, _, err = fx.svc.List(ctx, fx.stranger, "memo", 1, 20)
	assert.ErrorIs(t, err, access.ErrInvalidValue)
}

func TestService_List_PagesAfterFiltering(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	fx.post(t, fx.author, "general", "friends")
	fx.post(t, fx.author, "general", "friends")
	fx.post(t, fx.author, "general", "public")
	fx.post(t, fx.admin, "general", "admin")

	messages, total, err := fx.svc.List(ctx, fx.stranger, "", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, messages, 1)
	assert.Equal(t, access.ContentPublic, messages[0].Visibility)

	messages, total, err = fx.svc.List(ctx, fx.stranger, "", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, messages)
}

func TestService_Get_HiddenIsNotFound(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	m := fx.post(t, fx.author, "prayer_request", "friends")

	got, err := fx.svc.Get(ctx, fx.friend, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = fx.svc.Get(ctx, fx.stranger, m.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.ErrorIs(t, err, access.ErrNotFound)

	_, err = fx.svc.Get(ctx, fx.admin, uuid.New())
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestService_VisibilityOptions(t *testing.T) {
	fx := newFixture()

	opts := fx.svc.VisibilityOptions(fx.leader)
	assert.Equal(t, access.RoleLeader, opts.Role)
	assert.Equal(t, []access.ContentVisibility{access.ContentPublic, access.ContentFriends, access.ContentLeaders}, opts.Options)
}
