package sessionstore

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/session"
)

func sampleRecord(now time.Time) session.Record {
	return session.Record{
		ID:          "0b6c3a52-6f0e-4d2b-9d55-2b8f1c1f2a10",
		User:        booking.User{ID: 3, Username: "ana", Email: "ana@shop.co"},
		SealedToken: "sealed",
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	}
}

// storeContract runs the behaviour every store shares.
func storeContract(t *testing.T, store session.Store, now time.Time) {
	t.Helper()
	ctx := context.Background()
	rec := sampleRecord(now)

	_, err := store.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.User, got.User)
	assert.Equal(t, "sealed", got.SealedToken)
	assert.True(t, rec.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, store.Delete(ctx, rec.ID))
	_, err = store.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	now := time.Now()
	m := NewMemory()
	storeContract(t, m, now)

	rec := sampleRecord(now)
	require.NoError(t, m.Save(context.Background(), rec))

	m.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err := m.Get(context.Background(), rec.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	n, err := m.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedis(client)
	storeContract(t, store, time.Now())

	rec := sampleRecord(time.Now())
	require.NoError(t, store.Save(context.Background(), rec))
	assert.True(t, mr.Exists(redisKeyPrefix+rec.ID))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL(redisKeyPrefix+rec.ID).Seconds(), 5)

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(context.Background(), rec.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRedisStoreSkipsExpired(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rec := sampleRecord(time.Now().Add(-2 * time.Hour))
	require.NoError(t, NewRedis(client).Save(context.Background(), rec))
	assert.False(t, mr.Exists(redisKeyPrefix+rec.ID))
}

func TestNewRedisClient(t *testing.T) {
	c, err := NewRedisClient("redis://:secret@localhost:6380/2", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", c.Options().Addr)
	assert.Equal(t, 2, c.Options().DB)

	c, err = NewRedisClient("localhost:6379", "pw", 1)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", c.Options().Addr)

	_, err = NewRedisClient("", "", 0)
	assert.Error(t, err)
}

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestGormStore(t *testing.T) {
	db, mock := newMockGorm(t)
	store := NewGorm(db)
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	rec := sampleRecord(now)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "session_tokens"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, store.Save(context.Background(), rec))

	rows := sqlmock.NewRows([]string{"id", "user_id", "user_json", "sealed_token", "created_at", "expires_at"}).
		AddRow(rec.ID, 3, `{"id":3,"username":"ana","email":"ana@shop.co","is_barber":false}`, "sealed", now, now.Add(time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "session_tokens"`)).WillReturnRows(rows)

	got, err := store.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", got.User.Username)
	assert.Equal(t, "sealed", got.SealedToken)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "session_tokens"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrNotFound)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "session_tokens"`)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()
	n, err := store.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
