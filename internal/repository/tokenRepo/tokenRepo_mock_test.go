package tokenRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"
)

func TestSaveRefreshToken_RedisError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := New(client)

	mock.ExpectSet("refresh:1", "tok", time.Hour).SetErr(errors.New("connection refused"))

	err := repo.SaveRefreshToken(context.Background(), 1, "tok", time.Hour)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAccessTokenBlacklisted_RedisError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := New(client)

	mock.ExpectGet("blacklist:jwt").SetErr(errors.New("connection refused"))

	_, err := repo.IsAccessTokenBlacklisted(context.Background(), "jwt")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeResetToken_UsesGetDel(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := New(client)

	mock.ExpectGetDel("reset:tok").SetVal("42")

	userID, ok, err := repo.ConsumeResetToken(context.Background(), "tok")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(42), userID)
	require.NoError(t, mock.ExpectationsWereMet())
}
