package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravkatara53/Topic-Backend/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewMemoryUserService(nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.RegisterRequest{
		Email:    "student@campus.edu",
		Password: "secret1",
		Name:     "Student",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	loggedIn, err := svc.Login(ctx, &models.LoginRequest{
		Email:    "student@campus.edu",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewMemoryUserService(nil)
	ctx := context.Background()

	req := &models.RegisterRequest{Email: "student@campus.edu", Password: "secret1", Name: "Student"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewMemoryUserService(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{Email: "student@campus.edu", Password: "secret1", Name: "Student"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "student@campus.edu", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@campus.edu", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFindOrCreateGoogleUser(t *testing.T) {
	svc := NewMemoryUserService(nil)
	ctx := context.Background()

	created, err := svc.FindOrCreateGoogleUser(ctx, "student@campus.edu", "Student", "google-sub-1")
	require.NoError(t, err)
	assert.Equal(t, "google-sub-1", created.GoogleID)

	// Second sign-in resolves to the same account.
	again, err := svc.FindOrCreateGoogleUser(ctx, "student@campus.edu", "Student", "google-sub-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestGoogleSignInLinksExistingAccount(t *testing.T) {
	svc := NewMemoryUserService(nil)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &models.RegisterRequest{
		Email:    "student@campus.edu",
		Password: "secret1",
		Name:     "Student",
	})
	require.NoError(t, err)

	linked, err := svc.FindOrCreateGoogleUser(ctx, "student@campus.edu", "Student", "google-sub-1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, linked.ID)
	assert.Equal(t, "google-sub-1", linked.GoogleID)
}
