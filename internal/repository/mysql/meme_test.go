package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/narongrit/meme-hub/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gdb, mock
}

func memeRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "title", "description", "category", "image", "likes", "created_by", "created_at"}).
		AddRow(9, "newest", "", "Funny", "a.png", 3, 1, now).
		AddRow(7, "older", "", "Funny", "b.png", 1, 2, now.Add(-time.Minute))
}

func TestFindMemesUnfiltered(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectQuery("SELECT (.+) FROM `memes` ORDER BY created_at DESC, id DESC LIMIT (.+)").
		WillReturnRows(memeRows())

	q := domain.NormalizeFeedQuery(2, 20, "", "All")
	res, err := repo.FindMemes(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, int64(9), res[0].ID)
	assert.Equal(t, int64(7), res[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindMemesSearchAndCategory(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectQuery("SELECT (.+) FROM `memes` WHERE \\(title LIKE (.+) OR category LIKE (.+)\\) AND category = (.+) ORDER BY created_at DESC, id DESC LIMIT (.+)").
		WithArgs("%doge%", "%doge%", "Funny").
		WillReturnRows(memeRows())

	q := domain.NormalizeFeedQuery(1, 20, "doge", "Funny")
	res, err := repo.FindMemes(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLikeStatus(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectQuery("SELECT `meme_id` FROM `meme_likes` WHERE user_id = (.+) AND meme_id IN (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"meme_id"}).AddRow(9))

	status, err := repo.FindLikeStatus(context.Background(), []int64{9, 7}, 5)
	require.NoError(t, err)
	assert.True(t, status[9])
	assert.False(t, status[7])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLikeStatusAnonymous(t *testing.T) {
	gdb, _ := newMockDB(t)
	repo := NewMemeRepository(gdb)

	status, err := repo.FindLikeStatus(context.Background(), []int64{9, 7}, 0)
	require.NoError(t, err)
	assert.Empty(t, status)
}

func TestInsertLikeTranslatesDuplicate(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `meme_likes`").
		WillReturnError(&driver.MySQLError{Number: mysqlErrDuplicateEntry, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err := repo.Transact(context.Background(), func(tx domain.LikeStore) error {
		return tx.InsertLike(context.Background(), 9, 5)
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementLikeCountClamps(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `memes` SET `likes`=GREATEST\\(likes \\+ (.+), 0\\) WHERE id = (.+)").
		WithArgs(int64(-1), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Transact(context.Background(), func(tx domain.LikeStore) error {
		return tx.IncrementLikeCount(context.Background(), 9, -1)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Decrementing a counter already at zero changes no row. The clamp is a
// successful no-op, not a missing meme, and the unlike must still commit.
func TestUnlikeAtZeroCounterCommits(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `meme_likes` WHERE meme_id = (.+) AND user_id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `memes` SET `likes`=GREATEST\\(likes \\+ (.+), 0\\) WHERE id = (.+)").
		WithArgs(int64(-1), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Transact(context.Background(), func(tx domain.LikeStore) error {
		rows, err := tx.DeleteLike(context.Background(), 9, 5)
		if err != nil {
			return err
		}
		require.EqualValues(t, 1, rows)
		return tx.IncrementLikeCount(context.Background(), 9, -1)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectQuery("SELECT (.+) FROM `memes` WHERE id = (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "category", "image", "likes", "created_by", "created_at"}))

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDPropagatesStoreErrors(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectQuery("SELECT (.+) FROM `memes` WHERE id = (.+)").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.GetByID(context.Background(), 9)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailPropagatesStoreErrors(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb)

	mock.ExpectQuery("SELECT (.+) FROM `members` WHERE email = (.+)").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.GetByEmail(context.Background(), "somchai@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	mock.ExpectQuery("SELECT (.+) FROM `members` WHERE email = (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "role", "banned", "created_at"}))

	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleTransactionCommit(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `memes` WHERE id = (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `meme_likes`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `memes` SET `likes`=GREATEST\\(likes \\+ (.+), 0\\)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Transact(context.Background(), func(tx domain.LikeStore) error {
		exists, err := tx.MemeExists(context.Background(), 9)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		if err := tx.InsertLike(context.Background(), 9, 5); err != nil {
			return err
		}
		return tx.IncrementLikeCount(context.Background(), 9, 1)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactMapsDeadlockToConflict(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `meme_likes`").
		WillReturnError(&driver.MySQLError{Number: mysqlErrDeadlock, Message: "Deadlock found"})
	mock.ExpectRollback()

	err := repo.Transact(context.Background(), func(tx domain.LikeStore) error {
		return tx.InsertLike(context.Background(), 9, 5)
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCascadesLikes(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `meme_likes` WHERE meme_id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM `memes` WHERE `memes`.`id` = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `meme_likes` WHERE meme_id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `memes` WHERE `memes`.`id` = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecountLikes(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewMemeRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `meme_likes` WHERE meme_id = (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectExec("UPDATE `memes` SET `likes`=(.+) WHERE id = (.+)").
		WithArgs(int64(7), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.RecountLikes(context.Background(), []int64{9}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
