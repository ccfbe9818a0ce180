package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"filesharing-service/internal/errs"
	"filesharing-service/internal/repository/tokenRepo"
	"filesharing-service/internal/repository/userRepo"
)

type noopNotifier struct {
	resetTokens []string
}

func (n *noopNotifier) NotifyShared(_, _, _ string) {}
func (n *noopNotifier) NotifyWelcome(_, _ string)   {}
func (n *noopNotifier) NotifyPasswordReset(_, token string) {
	n.resetTokens = append(n.resetTokens, token)
}

type authFixture struct {
	mock     pgxmock.PgxPoolIface
	redis    *miniredis.Miniredis
	notifier *noopNotifier
	svc      *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	n := &noopNotifier{}
	svc := NewAuthService(userRepo.New(mock), tokenRepo.New(client), n, "test-secret")
	return &authFixture{mock: mock, redis: mr, notifier: n, svc: svc}
}

var userCols = []string{"id", "username", "email", "password_hash", "full_name", "avatar_url", "created_at"}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func (f *authFixture) expectUserByEmail(email, passwordHash string) {
	f.mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs(email).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(uint32(5), "alice", email, passwordHash, "Alice A", "", time.Now()))
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.ErrorIs(t, f.svc.Register(ctx, "", "a@x.com", "pw", ""), errs.ErrInvalidInput)
	require.ErrorIs(t, f.svc.Register(ctx, "alice", "not-an-email", "pw", ""), errs.ErrInvalidInput)
}

func TestRegister_OK(t *testing.T) {
	f := newAuthFixture(t)

	f.mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@x.com", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uint32(5)))
	f.mock.ExpectExec(`UPDATE users SET full_name = \$1, avatar_url = \$2 WHERE id = \$3`).
		WithArgs("Alice A", "", uint32(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, f.svc.Register(context.Background(), "alice", "alice@x.com", "pw", "Alice A"))
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoginAndTokenRoundtrip(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.expectUserByEmail("alice@x.com", hashOf(t, "secret"))

	access, refresh, err := f.svc.Login(ctx, "alice@x.com", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	uid, ok := f.svc.GetUIDByToken(ctx, access)
	require.True(t, ok)
	require.Equal(t, uint32(5), uid)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	f.expectUserByEmail("alice@x.com", hashOf(t, "secret"))

	_, _, err := f.svc.Login(context.Background(), "alice@x.com", "wrong")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	f.mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("ghost@x.com").
		WillReturnRows(pgxmock.NewRows(userCols))

	_, _, err := f.svc.Login(context.Background(), "ghost@x.com", "pw")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestGetUIDByToken_RejectsForgedToken(t *testing.T) {
	f := newAuthFixture(t)

	other := NewAuthService(nil, f.svc.tokenRepo, &noopNotifier{}, "other-secret")
	forged, err := other.generateJWT(5)
	require.NoError(t, err)

	_, ok := f.svc.GetUIDByToken(context.Background(), forged)
	require.False(t, ok)
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.expectUserByEmail("alice@x.com", hashOf(t, "secret"))
	access, _, err := f.svc.Login(ctx, "alice@x.com", "secret")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, 5, access))

	_, ok := f.svc.GetUIDByToken(ctx, access)
	require.False(t, ok)
}

func TestRefreshToken_RotatesAndInvalidatesOld(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.expectUserByEmail("alice@x.com", hashOf(t, "secret"))
	_, refresh, err := f.svc.Login(ctx, "alice@x.com", "secret")
	require.NoError(t, err)

	access2, refresh2, err := f.svc.RefreshToken(ctx, 5, refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access2)
	require.NotEqual(t, refresh, refresh2)

	_, _, err = f.svc.RefreshToken(ctx, 5, refresh)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.expectUserByEmail("alice@x.com", hashOf(t, "old"))
	require.NoError(t, f.svc.RequestPasswordReset(ctx, "alice@x.com"))
	require.Len(t, f.notifier.resetTokens, 1)
	token := f.notifier.resetTokens[0]

	f.mock.ExpectExec(`UPDATE users SET password_hash = \$1 WHERE id = \$2`).
		WithArgs(pgxmock.AnyArg(), uint32(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, f.svc.ResetPassword(ctx, token, "new-password"))

	// token is one-shot
	err := f.svc.ResetPassword(ctx, token, "another")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture(t)

	f.mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("ghost@x.com").
		WillReturnRows(pgxmock.NewRows(userCols))

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "ghost@x.com"))
	require.Empty(t, f.notifier.resetTokens)
}

func TestUpdatePassword_ChecksCurrent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(uint32(5)).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(uint32(5), "alice", "alice@x.com", hashOf(t, "current"), "Alice A", "", time.Now()))

	err := f.svc.UpdatePassword(ctx, 5, "wrong", "next")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.NoError(t, f.mock.ExpectationsWereMet())
}
