package mailinglist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/logging"
	"github.com/fkhayef/fellowship/internal/message"
)

type fakeStore struct {
	lists   map[uuid.UUID]*MailingList
	members map[uuid.UUID][]*Member
	people  map[uuid.UUID]*Member
	order   []uuid.UUID
	addErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lists:   map[uuid.UUID]*MailingList{},
		members: map[uuid.UUID][]*Member{},
		people:  map[uuid.UUID]*Member{},
	}
}

func (f *fakeStore) Create(_ context.Context, l *MailingList) error {
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	cp := *l
	f.lists[l.ID] = &cp
	f.order = append([]uuid.UUID{l.ID}, f.order...)
	return nil
}

func (f *fakeStore) withMembership(l *MailingList, viewer uuid.UUID) *MailingList {
	cp := *l
	cp.MemberCount = len(f.members[l.ID])
	cp.IsMember = false
	for _, m := range f.members[l.ID] {
		if m.UserID == viewer {
			cp.IsMember = true
		}
	}
	return &cp
}

func (f *fakeStore) GetByID(_ context.Context, id, viewer uuid.UUID) (*MailingList, error) {
	l, ok := f.lists[id]
	if !ok {
		return nil, nil
	}
	return f.withMembership(l, viewer), nil
}

func (f *fakeStore) List(_ context.Context, viewer uuid.UUID) ([]*MailingList, error) {
	var out []*MailingList
	for _, id := range f.order {
		out = append(out, f.withMembership(f.lists[id], viewer))
	}
	return out, nil
}

func (f *fakeStore) AddMember(_ context.Context, listID, userID uuid.UUID) error {
	if f.addErr != nil {
		return f.addErr
	}
	m := *f.people[userID]
	m.ListID = listID
	m.JoinedAt = time.Now()
	f.members[listID] = append(f.members[listID], &m)
	return nil
}

func (f *fakeStore) RemoveMember(_ context.Context, listID, userID uuid.UUID) (bool, error) {
	for i, m := range f.members[listID] {
		if m.UserID == userID {
			f.members[listID] = append(f.members[listID][:i], f.members[listID][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetMembers(_ context.Context, listID uuid.UUID) ([]*Member, error) {
	return f.members[listID], nil
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

type fakePublisher struct {
	published []*message.Message
}

func (f *fakePublisher) Publish(_ context.Context, m *message.Message) error {
	m.ID = uuid.New()
	f.published = append(f.published, m)
	return nil
}

type broadcast struct {
	recipients []uuid.UUID
	listName   string
	subject    string
	messageID  uuid.UUID
}

type fakeNotifier struct {
	sent []broadcast
	err  error
}

func (f *fakeNotifier) NotifyMailingListMessage(_ context.Context, recipientIDs []uuid.UUID, listName, subject string, messageID uuid.UUID) error {
	f.sent = append(f.sent, broadcast{recipientIDs, listName, subject, messageID})
	return f.err
}

type fixture struct {
	svc       *Service
	store     *fakeStore
	rel       *fakeRelationships
	publisher *fakePublisher
	notifier  *fakeNotifier

	owner, friend, stranger, leader access.Viewer
}

func newFixture() *fixture {
	fx := &fixture{
		store:     newFakeStore(),
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{},
		owner:     access.Viewer{ID: uuid.New(), Role: access.RoleMember},
		friend:    access.Viewer{ID: uuid.New(), Role: access.RoleMember},
		stranger:  access.Viewer{ID: uuid.New(), Role: access.RoleMember},
		leader:    access.Viewer{ID: uuid.New(), Role: access.RoleLeader},
	}
	for i, v := range []access.Viewer{fx.owner, fx.friend, fx.stranger, fx.leader} {
		fx.store.people[v.ID] = &Member{
			UserID:          v.ID,
			FirstName:       []string{"Olive", "Frank", "Sam", "Lena"}[i],
			LastName:        "Doe",
			Email:           "x@example.com",
			EmailVisibility: access.FieldFriends,
			Role:            v.Role,
		}
	}
	fx.rel = &fakeRelationships{records: []*access.Friendship{{
		ID:          uuid.New(),
		RequesterID: fx.owner.ID,
		AddresseeID: fx.friend.ID,
		Status:      access.FriendshipAccepted,
	}}}
	fx.svc = NewService(fx.store, fx.rel, fx.publisher, fx.notifier, logging.Nop())
	return fx
}

func (fx *fixture) create(t *testing.T, by access.Viewer, name, privacy string) *MailingList {
	t.Helper()
	l, err := fx.svc.Create(context.Background(), by, &CreateMailingListRequest{Name: name, PrivacyLevel: privacy})
	require.NoError(t, err)
	return l
}

func TestService_Create_RoleGate(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, fx.owner, &CreateMailingListRequest{Name: "Elders", PrivacyLevel: "leaders"})
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	_, err = fx.svc.Create(ctx, fx.owner, &CreateMailingListRequest{Name: " ", PrivacyLevel: "public"})
	assert.ErrorIs(t, err, access.ErrInvalidValue)

	l := fx.create(t, fx.leader, "Elders", "leaders")
	assert.Equal(t, access.ContentLeaders, l.PrivacyLevel)
}

func TestService_List_VisibleOnly(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	fx.create(t, fx.owner, "Choir", "public")
	fx.create(t, fx.owner, "Small group", "friends")
	fx.create(t, fx.leader, "Elders", "leaders")

	lists, err := fx.svc.List(ctx, fx.friend)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Small group", lists[0].Name)

	lists, err = fx.svc.List(ctx, fx.stranger)
	require.NoError(t, err)
	assert.Len(t, lists, 1)

	lists, err = fx.svc.List(ctx, fx.leader)
	require.NoError(t, err)
	assert.Len(t, lists, 2)
}

func TestService_JoinLeave(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	l := fx.create(t, fx.owner, "Small group", "friends")

	assert.ErrorIs(t, fx.svc.Join(ctx, fx.stranger, l.ID), ErrMailingListNotFound)

	require.NoError(t, fx.svc.Join(ctx, fx.friend, l.ID))
	assert.ErrorIs(t, fx.svc.Join(ctx, fx.friend, l.ID), ErrAlreadyMember)

	got, _, err := fx.svc.Get(ctx, fx.friend, l.ID)
	require.NoError(t, err)
	assert.True(t, got.IsMember)
	assert.Equal(t, 1, got.MemberCount)

	require.NoError(t, fx.svc.Leave(ctx, fx.friend, l.ID))
	err = fx.svc.Leave(ctx, fx.friend, l.ID)
	assert.ErrorIs(t, err, ErrNotMember)
	assert.ErrorIs(t, err, access.ErrNotFound)
}

func TestService_Join_RaceMapsUniqueViolation(t *testing.T) {
	fx := newFixture()
	l := fx.create(t, fx.owner, "Choir", "public")
	fx.store.addErr = &pq.Error{Code: "23505"}

	assert.ErrorIs(t, fx.svc.Join(context.Background(), fx.stranger, l.ID), ErrAlreadyMember)
}

func TestService_Get_RedactsEmails(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	l := fx.create(t, fx.owner, "Choir", "public")
	require.NoError(t, fx.svc.Join(ctx, fx.owner, l.ID))

	_, members, err := fx.svc.Get(ctx, fx.friend, l.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.NotNil(t, members[0].Email)

	_, members, err = fx.svc.Get(ctx, fx.stranger, l.ID)
	require.NoError(t, err)
	assert.Nil(t, members[0].Email)

	_, _, err = fx.svc.Get(ctx, fx.stranger, uuid.New())
	assert.ErrorIs(t, err, ErrMailingListNotFound)
}

func TestService_Send(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	l := fx.create(t, fx.owner, "Choir", "public")
	for _, v := range []access.Viewer{fx.owner, fx.friend, fx.stranger} {
		require.NoError(t, fx.svc.Join(ctx, v, l.ID))
	}

	_, _, err := fx.svc.Send(ctx, fx.friend, l.ID, &SendRequest{Subject: "Hi", Content: "Hello"})
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	msg, recipients, err := fx.svc.Send(ctx, fx.owner, l.ID, &SendRequest{Subject: "Rehearsal", Content: "Thursday 7pm"})
	require.NoError(t, err)
	assert.Equal(t, 2, recipients)
	assert.Equal(t, "[Choir] Rehearsal", msg.Title)
	assert.Equal(t, access.MessageAnnouncement, msg.Type)
	assert.Equal(t, access.ContentPublic, msg.Visibility)

	require.Len(t, fx.notifier.sent, 1)
	sent := fx.notifier.sent[0]
	assert.ElementsMatch(t, []uuid.UUID{fx.friend.ID, fx.stranger.ID}, sent.recipients)
	assert.Equal(t, "Choir", sent.listName)
	assert.Equal(t, msg.ID, sent.messageID)

	_, recipients, err = fx.svc.Send(ctx, fx.leader, l.ID, &SendRequest{Subject: "Note", Content: "From the leaders"})
	require.NoError(t, err)
	assert.Equal(t, 3, recipients)
}

func TestService_Send_FriendsListOnlyByOwner(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	fx.rel.records = append(fx.rel.records, &access.Friendship{
		ID:          uuid.New(),
		RequesterID: fx.leader.ID,
		AddresseeID: fx.owner.ID,
		Status:      access.FriendshipAccepted,
	})
	l := fx.create(t, fx.owner, "Small group", "friends")
	require.NoError(t, fx.svc.Join(ctx, fx.friend, l.ID))

	_, _, err := fx.svc.Send(ctx, fx.leader, l.ID, &SendRequest{Subject: "Hi", Content: "From a leader"})
	assert.ErrorIs(t, err, access.ErrUnauthorized)
	assert.Empty(t, fx.publisher.published)
	assert.Empty(t, fx.notifier.sent)

	msg, recipients, err := fx.svc.Send(ctx, fx.owner, l.ID, &SendRequest{Subject: "Potluck", Content: "Bring a dish"})
	require.NoError(t, err)
	assert.Equal(t, 1, recipients)

	friendships, err := fx.rel.ListForUser(ctx, fx.friend.ID)
	require.NoError(t, err)
	assert.True(t, access.ContentFilter(fx.friend, friendships)(msg.AccessContent()))
}

func TestService_Send_SkipsMembersWhoCannotRead(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	l := fx.create(t, fx.owner, "Small group", "friends")
	require.NoError(t, fx.svc.Join(ctx, fx.friend, l.ID))

	// unfriended after joining
	fx.rel.records = nil

	_, recipients, err := fx.svc.Send(ctx, fx.owner, l.ID, &SendRequest{Subject: "s", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, 0, recipients)
	assert.Empty(t, fx.notifier.sent)
	assert.Len(t, fx.publisher.published, 1)
}

func TestService_Send_NotificationFailureIsNotFatal(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	l := fx.create(t, fx.owner, "Choir", "public")
	require.NoError(t, fx.svc.Join(ctx, fx.friend, l.ID))
	fx.notifier.err = errors.New("db down")

	_, recipients, err := fx.svc.Send(ctx, fx.owner, l.ID, &SendRequest{Subject: "s", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, recipients)
	assert.Len(t, fx.publisher.published, 1)
}

func TestService_Send_Validation(t *testing.T) {
	fx := newFixture()
	l := fx.create(t, fx.owner, "Choir", "public")

	_, _, err := fx.svc.Send(context.Background(), fx.owner, l.ID, &SendRequest{Subject: "", Content: "c"})
	assert.ErrorIs(t, err, access.ErrInvalidValue)
	assert.Empty(t, fx.publisher.published)
}
