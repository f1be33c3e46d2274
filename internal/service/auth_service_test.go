package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/internal/dto"
	"github.com/ashestree87/socialize/internal/repository"
)

func newAuthFixture(t *testing.T) (AuthService, *repository.MemoryRoleRepository) {
	t.Helper()

	roleRepo := repository.NewMemoryRoleRepository()
	userRepo := repository.NewMemoryUserRepository(roleRepo)

	// Seed the baseline role new accounts receive
	require.NoError(t, roleRepo.Create(context.Background(), &domain.Role{
		ID:          uuid.New().String(),
		Name:        "User",
		Slug:        domain.RoleSlugUser,
		Permissions: domain.PermissionSet{domain.CapManageContent: true},
	}))

	svc := NewAuthService(userRepo, roleRepo, AuthConfig{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		Issuer:         "socialize-test",
	})
	return svc, roleRepo
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, []string{domain.RoleSlugUser}, resp.User.Roles)

	// Token carries identity and roles
	token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID, claims["user_id"])
	assert.Equal(t, "jordan@example.com", claims["email"])
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	req := &dto.RegisterRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "jordan@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "jordan@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_GetProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	registered, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Jordan", Email: "jordan@example.com", Password: "password123"})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jordan", profile.Name)
	assert.Equal(t, "jordan@example.com", profile.Email)
	assert.Contains(t, profile.Roles, domain.RoleSlugUser)

	_, err = svc.GetProfile(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
