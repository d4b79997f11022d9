package application

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/campus-events/pkg/helpers"
	mailtpl "github.com/oksasatya/campus-events/pkg/mailer/templates"
)

func init() {
	helpers.PasswordCost = bcrypt.MinCost
}

type userFixture struct {
	mr       *miniredis.Miniredis
	rdb      *redis.Client
	users    *memUsers
	notifier *fakeNotifier
	svc      *UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	cfg.SessionTTL = time.Hour
	users := newMemUsers()
	n := &fakeNotifier{}
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	svc := NewUserService(users, jwt, rdb, n, cfg, helpers.NewDiscardLogger())
	return &userFixture{mr: mr, rdb: rdb, users: users, notifier: n, svc: svc}
}

func TestSignupAndLogin(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, pair, err := f.svc.Signup(ctx, SignupInput{Username: " asha ", Email: "Asha@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "asha", u.Username)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.NotEqual(t, "secret123", u.Password)
	assert.NotEmpty(t, pair.AccessToken)

	sess, ok, err := helpers.LoadSession(ctx, f.rdb, u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "asha", sess.Username)
	assert.False(t, sess.IsStaff)
	assert.Equal(t, time.Hour, f.mr.TTL(helpers.SessionKey(u.ID)))

	jobs := f.notifier.sent()
	require.Len(t, jobs, 1)
	assert.Equal(t, mailtpl.Welcome, jobs[0].Template)

	_, _, err = f.svc.Signup(ctx, SignupInput{Username: "asha", Email: "x@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, _, err = f.svc.Login(ctx, "asha", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, pair2, err := f.svc.Login(ctx, "asha", "secret123")
	require.NoError(t, err)

	claims, err := f.svc.JWT.ParseAccessToken(pair2.AccessToken)
	require.NoError(t, err)
	sess, _, _ = helpers.LoadSession(ctx, f.rdb, u.ID)
	assert.Equal(t, claims.SessionID, sess.SessionID)
}

func TestRefreshRotatesSession(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, pair, err := f.svc.Signup(ctx, SignupInput{Username: "ravi", Email: "ravi@example.com", Password: "secret123"})
	require.NoError(t, err)

	next, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	// the old refresh token belongs to a replaced session
	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.svc.Logout(ctx, u.ID))
	_, err = f.svc.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSetStaffDropsSession(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, _, err := f.svc.Signup(ctx, SignupInput{Username: "warden", Email: "warden@example.com", Password: "secret123"})
	require.NoError(t, err)

	got, err := f.svc.SetStaff(ctx, "warden", true)
	require.NoError(t, err)
	assert.True(t, got.IsStaff)
	assert.False(t, f.mr.Exists(helpers.SessionKey(u.ID)))

	_, pair, err := f.svc.Login(ctx, "warden", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)
	sess, ok, err := helpers.LoadSession(ctx, f.rdb, u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, sess.IsStaff)

	_, err = f.svc.SetStaff(ctx, "ghost", true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
