package service

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetreg/internal/db/repository"
	"meetreg/internal/domain"
)

func (e *testEnv) authService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(repository.NewTeamRepo(e.writeDB),
		[]byte("test-secret"), time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.authService(t)

	require.NoError(t, svc.SetPassword(ctx, env.team.ID, "s3cret-pass"))

	token, team, err := svc.Login(ctx, "ORG1", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, env.team.ID, team.ID)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, strconv.FormatInt(env.team.ID, 10), claims["sub"])
	assert.Equal(t, domain.RoleTeam, claims["role"])
}

func TestLoginRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.authService(t)

	require.NoError(t, svc.SetPassword(ctx, env.team.ID, "s3cret-pass"))

	var aerr *domain.AuthorizationError

	_, _, err := svc.Login(ctx, "ORG1", "wrong-pass")
	require.ErrorAs(t, err, &aerr)
	wrongPass := aerr.Error()

	_, _, err = svc.Login(ctx, "NOSUCH", "s3cret-pass")
	require.ErrorAs(t, err, &aerr)

	// Unknown code and wrong password are indistinguishable.
	assert.Equal(t, wrongPass, aerr.Error())
}

func TestSetPasswordTooShort(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService(t)

	err := svc.SetPassword(context.Background(), env.team.ID, "short")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.authService(t)

	token, err := svc.Refresh(ctx, domain.Principal{TeamID: env.team.ID, Role: domain.RoleTeam})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Refresh(ctx, domain.Principal{TeamID: 9999, Role: domain.RoleTeam})
	var nerr *domain.NotFoundError
	assert.ErrorAs(t, err, &nerr)
}
