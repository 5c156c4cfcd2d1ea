package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/memory"
	"github.com/oksasatya/go-blog-publisher/pkg/helpers"
)

type userRecorder struct{ users []*entity.User }

func (r *userRecorder) UserRegistered(_ context.Context, u *entity.User) {
	r.users = append(r.users, u)
}

// failingUsers makes every lookup fail like an unreachable database.
type failingUsers struct{ *memory.UserRepository }

func (failingUsers) GetByID(context.Context, string) (*entity.User, error) {
	return nil, errors.New("connection refused")
}

func newTestAuthService(t *testing.T) (*AuthService, *memory.UserRepository, *userRecorder) {
	t.Helper()
	users := memory.NewUserRepository()
	rec := &userRecorder{}
	svc := NewAuthService(users, helpers.NewJWTManager("test-secret", time.Hour), nil, rec)
	return svc, users, rec
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, rec := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, " Ada ", " Ada@Example.com ", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Ada", res.User.Name)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)
	require.Len(t, rec.users, 1)
	assert.NotEqual(t, "correct horse", rec.users[0].Password)

	login, err := svc.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, rec := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@example.com", "password1")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "B", "A@example.com", "password2")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, rec.users, 1)
}

func TestAuthenticate(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Ada", "ada@example.com", "password1")
	require.NoError(t, err)

	id, err := svc.Authenticate(ctx, "Bearer "+res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User, id)

	id, err = svc.Authenticate(ctx, "bearer "+res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.ID)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc", res.Token} {
		_, err = svc.Authenticate(ctx, header)
		assert.ErrorIs(t, err, ErrUnauthenticated, "header %q", header)
	}

	_, err = svc.Authenticate(ctx, "Bearer not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := helpers.NewJWTManager("other-secret", time.Hour)
	forged, _, err := other.GenerateToken(res.User.ID)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "Bearer "+forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := helpers.NewJWTManager("test-secret", -time.Minute)
	old, _, err := expired.GenerateToken(res.User.ID)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "Bearer "+old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	users.Delete(res.User.ID)
	_, err = svc.Authenticate(ctx, "Bearer "+res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Ada", "ada@example.com", "password1")
	require.NoError(t, err)

	svc.Repo = failingUsers{users}
	_, err = svc.Authenticate(ctx, "Bearer "+res.Token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestMe(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Ada", "ada@example.com", "password1")
	require.NoError(t, err)

	me, err := svc.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.Name)

	_, err = svc.Me(ctx, "missing")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	_, ok = BearerToken("Token abc")
	assert.False(t, ok)
}
