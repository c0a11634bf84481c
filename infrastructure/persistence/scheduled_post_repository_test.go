package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"social-publisher/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postRowColumns = []string{"id", "user_id", "title", "description", "video_url", "scheduled_at", "status", "youtube_video_id", "post_error",
	"target_instagram", "target_facebook", "target_youtube", "target_tiktok", "target_kwai",
	"claim_token", "claimed_at", "created_at", "updated_at"}

func TestScheduledPostRepository_ClaimDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewScheduledPostRepository(db)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	scheduled := now.Add(-time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE videos SET status = 'processando', claim_token = $1`)).
		WithArgs("tok-1", now).
		WillReturnRows(sqlmock.NewRows(postRowColumns).AddRow(
			int64(7), "u1", "Launch", nil, "https://cdn/v.mp4", scheduled, "processando", nil, nil,
			false, false, true, false, false,
			"tok-1", now, scheduled, now))

	post, err := repo.ClaimDue(context.Background(), now, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), post.ID)
	assert.Equal(t, model.StatusProcessing, post.Status)
	assert.Equal(t, "", post.Description)
	assert.Nil(t, post.YouTubeVideoID)
	require.NotNil(t, post.ClaimToken)
	assert.Equal(t, "tok-1", *post.ClaimToken)
	assert.True(t, post.Targets.YouTube)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepository_ClaimDue_NothingDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE SKIP LOCKED`)).
		WillReturnRows(sqlmock.NewRows(postRowColumns))

	_, err = NewScheduledPostRepository(db).ClaimDue(context.Background(), time.Now(), "tok")
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepository_MarkPosted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE videos SET status = 'postado', youtube_video_id = $1, post_error = NULL`)).
		WithArgs("yt123", sqlmock.AnyArg(), int64(7), "tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewScheduledPostRepository(db).MarkPosted(context.Background(), 7, "tok-1", "yt123")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepository_MarkFailed_LostClaim(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE videos SET status = 'falhou', post_error = $1, youtube_video_id = NULL`)).
		WithArgs("boom", sqlmock.AnyArg(), int64(7), "stale").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewScheduledPostRepository(db).MarkFailed(context.Background(), 7, "stale", "boom")
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "inserted"},
		{name: "duplicate schedule", dbErr: &pq.Error{Code: "23505"}, wantErr: model.ErrDuplicateSchedule},
		{name: "driver failure", dbErr: errors.New("connection reset"), wantErr: model.ErrPersistenceFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
			exp := mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO videos`)).
				WithArgs("u1", "Title", "desc", "https://cdn/v.mp4", at, "agendado",
					false, false, true, false, false, sqlmock.AnyArg())
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), at, at))
			}

			post := &model.ScheduledPost{UserID: "u1", Title: "Title", Description: "desc", VideoURL: "https://cdn/v.mp4",
				ScheduledAt: at, Targets: model.PlatformTargets{YouTube: true}}
			err = NewScheduledPostRepository(db).Create(context.Background(), post)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(11), post.ID)
				assert.Equal(t, model.StatusScheduled, post.Status)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestScheduledPostRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM videos WHERE user_id = $1 ORDER BY scheduled_at ASC`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(postRowColumns).
			AddRow(int64(1), "u1", "A", "d", "https://a", at, "postado", "yt1", nil, false, false, true, false, false, "t", at, at, at).
			AddRow(int64(2), "u1", "B", nil, "https://b", at.Add(time.Hour), nil, nil, nil, false, false, true, false, false, nil, nil, at, at))

	list, err := NewScheduledPostRepository(db).ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, model.StatusPosted, list[0].Status)
	assert.Equal(t, "yt1", *list[0].YouTubeVideoID)
	assert.Equal(t, model.StatusScheduled, list[1].Status)
	assert.Nil(t, list[1].ClaimedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepository_ListHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	midnight := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM videos WHERE user_id = $1 AND scheduled_at < $2 ORDER BY scheduled_at DESC, id DESC`)).
		WithArgs("u1", midnight).
		WillReturnRows(sqlmock.NewRows(postRowColumns).
			AddRow(int64(4), "u1", "late", nil, "https://a", midnight.Add(-time.Hour), "falhou", nil, "upload failed: 403", false, false, true, false, false, nil, nil, midnight, midnight).
			AddRow(int64(3), "u1", "early", nil, "https://b", midnight.Add(-30*time.Hour), "postado", "yt3", nil, false, false, true, false, false, nil, nil, midnight, midnight))

	list, err := NewScheduledPostRepository(db).ListHistory(context.Background(), "u1", midnight)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(4), list[0].ID)
	assert.Equal(t, model.StatusFailed, list[0].Status)
	assert.Equal(t, "upload failed: 403", *list[0].PostError)
	assert.Equal(t, int64(3), list[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepository_ListHistory_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`scheduled_at < $2`)).WillReturnError(errors.New("conn reset"))

	_, err = NewScheduledPostRepository(db).ListHistory(context.Background(), "u1", time.Now())
	assert.ErrorIs(t, err, model.ErrPersistenceFailed)
	assert.Contains(t, err.Error(), "list post history")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepositoryMSSQL_ListHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	midnight := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM dbo.[videos] WHERE user_id = @p1 AND scheduled_at < @p2 ORDER BY scheduled_at DESC`)).
		WithArgs("u1", midnight).
		WillReturnRows(sqlmock.NewRows(postRowColumns))

	list, err := NewScheduledPostRepositoryMSSQL(db).ListHistory(context.Background(), "u1", midnight)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM videos WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(3), "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewScheduledPostRepository(db).Delete(context.Background(), "u1", 3)
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepositoryMSSQL_ClaimDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`WITH (UPDLOCK, READPAST, ROWLOCK)`)).
		WithArgs("tok-9", now).
		WillReturnRows(sqlmock.NewRows(postRowColumns).AddRow(
			int64(9), "u2", "T", "d", "https://v", now, "processando", nil, nil,
			false, false, true, false, false, "tok-9", now, now, now))

	post, err := NewScheduledPostRepositoryMSSQL(db).ClaimDue(context.Background(), now, "tok-9")
	require.NoError(t, err)
	assert.Equal(t, int64(9), post.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertedColumns(t *testing.T) {
	cols := insertedColumns()
	assert.Contains(t, cols, "inserted.id, inserted.user_id")
	assert.Contains(t, cols, "inserted.updated_at")
	assert.NotContains(t, cols, "\n")
}

func TestScheduledPostRepository_CountStaleClaims(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM videos WHERE status = 'processando'`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	n, err := NewScheduledPostRepository(db).CountStaleClaims(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
