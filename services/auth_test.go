package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutusiji/lantu-next/errs"
	"github.com/tutusiji/lantu-next/models"
	"github.com/tutusiji/lantu-next/services"
	"github.com/tutusiji/lantu-next/testutil"
)

func newAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	require.NoError(t, db.UserRepo().Add(context.Background(), &models.User{Username: "admin", Password: "admin@999"}))
	return services.NewAuthService(db, services.NewTokenIssuer("test-secret", time.Hour), time.Second)
}

func TestAuthenticate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	ok, err := svc.Authenticate(ctx, "admin", "admin@999")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Authenticate(ctx, "admin", "admin@998")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Authenticate(ctx, "root", "admin@999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, wrongPassword := svc.Login(ctx, "admin", "nope")
	_, unknownUser := svc.Login(ctx, "ghost", "admin@999")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.True(t, errs.IsAuthError(wrongPassword))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Equal(t, http.StatusUnauthorized, errs.StatusCode(unknownUser))
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Login(context.Background(), "admin", "admin@999")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "admin", result.Username)
	require.NotEmpty(t, result.Token)

	claims, err := svc.Verify(result.Token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
	assert.Equal(t, "admin", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_Verify(t *testing.T) {
	issuer := services.NewTokenIssuer("secret-a", time.Minute)
	token, _, err := issuer.Issue("admin")
	require.NoError(t, err)

	_, err = issuer.Verify("")
	assert.ErrorIs(t, err, errs.ErrMissingToken)

	_, err = services.NewTokenIssuer("secret-b", time.Minute).Verify(token)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)

	_, err = issuer.Verify(token + "x")
	assert.ErrorIs(t, err, errs.ErrInvalidToken)

	expired := services.NewTokenIssuer("secret-a", time.Nanosecond)
	old, _, err := expired.Issue("admin")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	_, err = expired.Verify(old)
	assert.ErrorIs(t, err, errs.ErrExpiredToken)
}

func TestTokenIssuer_RejectsNonAdminClaims(t *testing.T) {
	claims := services.AdminClaims{
		Admin: false,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = services.NewTokenIssuer("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}
