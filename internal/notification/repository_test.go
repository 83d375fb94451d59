package notification

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "recipient_id", "message", "is_read", "related_entity_type", "related_entity_id", "created_at"}

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	recipient, entityID := uuid.New(), uuid.New()
	entityType := EntityFriendship

	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs(sqlmock.AnyArg(), recipient, "hello", "FRIENDSHIP", entityID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.NewString(), recipient.String(), "hello", false, "FRIENDSHIP", entityID.String(), time.Now()))

	n, err := repo.Create(context.Background(), recipient, "hello", &entityType, &entityID)
	require.NoError(t, err)
	assert.Equal(t, recipient, n.RecipientID)
	assert.Equal(t, EntityFriendship, *n.RelatedEntityType)
	assert.Equal(t, entityID, *n.RelatedEntityID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateMany(t *testing.T) {
	repo, mock := newMockRepo(t)
	messageID := uuid.New()
	entityType := EntityMessage

	mock.ExpectExec("INSERT INTO notifications (.+) FROM unnest").
		WithArgs(sqlmock.AnyArg(), "msg", "MESSAGE", messageID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.CreateMany(context.Background(), []uuid.UUID{uuid.New(), uuid.New()}, "msg", &entityType, &messageID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateMany_NoRecipients(t *testing.T) {
	repo, mock := newMockRepo(t)

	n, err := repo.CreateMany(context.Background(), nil, "msg", nil, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM notifications WHERE id = \\$1").WillReturnError(sql.ErrNoRows)

	n, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestRepository_ListByRecipientID_UnreadOnly(t *testing.T) {
	repo, mock := newMockRepo(t)
	recipient := uuid.New()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notifications WHERE recipient_id = \\$1 AND is_read = false").
		WithArgs(recipient).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM notifications WHERE recipient_id = \\$1 AND is_read = false ORDER BY created_at DESC LIMIT \\$2 OFFSET \\$3").
		WithArgs(recipient, 20, 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.NewString(), recipient.String(), "hi", false, nil, nil, time.Now()))

	list, total, err := repo.ListByRecipientID(context.Background(), recipient, 20, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].RelatedEntityType)
	assert.Nil(t, list[0].RelatedEntityID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkAllAsRead(t *testing.T) {
	repo, mock := newMockRepo(t)
	recipient := uuid.New()

	mock.ExpectExec("UPDATE notifications SET is_read = true WHERE recipient_id = \\$1").
		WithArgs(recipient).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.MarkAllAsRead(context.Background(), recipient))
	assert.NoError(t, mock.ExpectationsWereMet())
}
