package outbox

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/draft/events"
	"github.com/mcdev12/warroom/go/internal/draft/outbox/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var outboxColumns = []string{"id", "draft_id", "event_type", "payload", "created_at", "sent_at", "attempts", "last_error"}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewRepository(db.New(mockDB)), mock
}

func TestRepository_FetchUnsent(t *testing.T) {
	repo, mock := newMockRepository(t)
	id, draftID := uuid.New(), uuid.New()
	created := time.Date(2026, 4, 23, 20, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE sent_at IS NULL\nORDER BY created_at")).
		WithArgs(int32(50)).
		WillReturnRows(sqlmock.NewRows(outboxColumns).
			AddRow(id.String(), draftID.String(), "PickMade", `{"overall_pick":3}`, created, nil, 2, "timeout"))

	got, err := repo.FetchUnsent(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, events.PickMade, got[0].EventType)
	assert.JSONEq(t, `{"overall_pick":3}`, string(got[0].Payload))
	assert.Equal(t, 2, got[0].Attempts)
	assert.Equal(t, "timeout", got[0].LastError)
	assert.Nil(t, got[0].SentAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FetchByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM draft_outbox")).WillReturnError(sql.ErrNoRows)

	_, err := repo.FetchByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkSent(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()
	at := time.Date(2026, 4, 23, 20, 0, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE draft_outbox\nSET sent_at = $2")).
		WithArgs(id.String(), at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE draft_outbox\nSET sent_at = $2")).
		WithArgs(id.String(), at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	marked, err := repo.MarkSent(context.Background(), id, at)
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = repo.MarkSent(context.Background(), id, at)
	require.NoError(t, err)
	assert.False(t, marked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertAndRecordFailure(t *testing.T) {
	repo, mock := newMockRepository(t)
	e := Event{ID: uuid.New(), DraftID: uuid.New(), EventType: events.DraftStarted, Payload: []byte(`{}`), CreatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO draft_outbox")).
		WithArgs(e.ID.String(), e.DraftID.String(), "DraftStarted", []byte(`{}`), e.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET attempts = attempts + 1")).
		WithArgs(e.ID.String(), "broker down").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.InsertEvent(context.Background(), e))
	require.NoError(t, repo.RecordFailure(context.Background(), e.ID, errors.New("broker down")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
