package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techlog_backend/internal/feature/auth/domain/entity"
	"techlog_backend/internal/feature/auth/usecase"
)

// setupTestRedis spins up an in-memory Redis server for testing.
func setupTestRedis(t *testing.T) *SessionRedis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSessionRedis(client, "session")
}

func newTestSession(id string, userID uint) *entity.Session {
	now := time.Now()
	return &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestSessionRedis_CreateAndFind(t *testing.T) {
	t.Run("create and find session", func(t *testing.T) {
		repo := setupTestRedis(t)

		sess := newTestSession("session-abc", 1)
		err := repo.Create(context.Background(), sess)
		require.NoError(t, err, "failed to create session")

		found, err := repo.FindByID(context.Background(), "session-abc")

		assert.NoError(t, err, "failed to find session")
		require.NotNil(t, found, "session is nil")
		assert.Equal(t, sess.ID, found.ID, "ID does not match")
		assert.Equal(t, sess.UserID, found.UserID, "UserID does not match")
		assert.True(t, found.IsValid(), "session should be valid")
	})

	t.Run("session not found error", func(t *testing.T) {
		repo := setupTestRedis(t)

		found, err := repo.FindByID(context.Background(), "missing")

		assert.Nil(t, found, "session should be nil")
		assert.ErrorIs(t, err, usecase.ErrSessionNotFound, "should return ErrSessionNotFound")
	})

	t.Run("already expired session is refused", func(t *testing.T) {
		repo := setupTestRedis(t)

		sess := newTestSession("session-dead", 1)
		sess.ExpiresAt = time.Now().Add(-time.Minute)

		err := repo.Create(context.Background(), sess)

		assert.Error(t, err, "creating an expired session should fail")
	})
}

func TestSessionRedis_Revoke(t *testing.T) {
	t.Run("revoked session is no longer valid", func(t *testing.T) {
		repo := setupTestRedis(t)

		require.NoError(t, repo.Create(context.Background(), newTestSession("session-revoke", 1)))

		err := repo.Revoke(context.Background(), "session-revoke")
		assert.NoError(t, err, "failed to revoke session")

		found, err := repo.FindByID(context.Background(), "session-revoke")
		require.NoError(t, err, "failed to find session")
		assert.True(t, found.IsRevoked(), "session should be revoked")
		assert.False(t, found.IsValid(), "revoked session should not be valid")
	})

	t.Run("revoking unknown session returns ErrSessionNotFound", func(t *testing.T) {
		repo := setupTestRedis(t)

		err := repo.Revoke(context.Background(), "missing")

		assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	})
}

func TestSessionRedis_CountByUserID(t *testing.T) {
	t.Run("counts only active sessions of the user", func(t *testing.T) {
		repo := setupTestRedis(t)

		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Create(context.Background(), newTestSession(fmt.Sprintf("user1-%d", i), 1)))
		}
		require.NoError(t, repo.Create(context.Background(), newTestSession("user2-0", 2)))
		require.NoError(t, repo.Revoke(context.Background(), "user1-0"))

		count, err := repo.CountByUserID(context.Background(), 1)

		assert.NoError(t, err, "failed to count sessions")
		assert.EqualValues(t, 2, count, "count does not match")
	})

	t.Run("user without sessions counts zero", func(t *testing.T) {
		repo := setupTestRedis(t)

		count, err := repo.CountByUserID(context.Background(), 42)

		assert.NoError(t, err, "failed to count sessions")
		assert.Zero(t, count, "count should be zero")
	})
}

func TestSessionRedis_DeleteOldestByUserID(t *testing.T) {
	t.Run("deletes the oldest active session", func(t *testing.T) {
		repo := setupTestRedis(t)

		oldest := newTestSession("session-old", 1)
		oldest.CreatedAt = time.Now().Add(-2 * time.Hour)
		require.NoError(t, repo.Create(context.Background(), oldest))
		require.NoError(t, repo.Create(context.Background(), newTestSession("session-new", 1)))

		err := repo.DeleteOldestByUserID(context.Background(), 1)
		assert.NoError(t, err, "failed to delete oldest session")

		_, err = repo.FindByID(context.Background(), "session-old")
		assert.ErrorIs(t, err, usecase.ErrSessionNotFound, "oldest session should be gone")

		_, err = repo.FindByID(context.Background(), "session-new")
		assert.NoError(t, err, "newer session should remain")
	})

	t.Run("no-op when user has no sessions", func(t *testing.T) {
		repo := setupTestRedis(t)

		err := repo.DeleteOldestByUserID(context.Background(), 42)

		assert.NoError(t, err, "should not fail when nothing to delete")
	})
}
