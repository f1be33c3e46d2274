package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/internal/dto"
	"github.com/ashestree87/socialize/internal/repository"
)

var (
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthConfig holds token issuing settings
type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	Issuer         string
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register creates a new user with the default role
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login authenticates a user and issues an access token
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// GetProfile retrieves the authenticated user's profile
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
}

// authService implements AuthService
type authService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	config   AuthConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, config AuthConfig) AuthService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = 24 * time.Hour
	}
	return &authService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		config:   config,
	}
}

// Register creates a new user with the default role
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		TenantID:     req.TenantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// New accounts get the baseline role when it exists
	defaultRole, err := s.roleRepo.GetBySlug(ctx, domain.RoleSlugUser)
	if err != nil {
		return nil, err
	}
	if defaultRole != nil {
		if err := s.roleRepo.Assign(ctx, defaultRole.ID, user.ID); err != nil {
			return nil, err
		}
		user.Roles = []domain.Role{*defaultRole}
	}

	return s.issueToken(user)
}

// Login authenticates a user and issues an access token
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// GetProfile retrieves the authenticated user's profile
func (s *authService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// issueToken signs an access token carrying the user's identity and roles
func (s *authService) issueToken(user *domain.User) (*dto.AuthResponse, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"roles":   user.RoleSlugs(),
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}
	if s.config.Issuer != "" {
		claims["iss"] = s.config.Issuer
	}
	if user.TenantID != "" {
		claims["tenant_id"] = user.TenantID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.AccessTokenTTL.Seconds()),
		User:        toUserResponse(user),
	}, nil
}

// toUserResponse converts domain.User to dto.UserResponse
func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		TenantID:  user.TenantID,
		Roles:     user.RoleSlugs(),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}
