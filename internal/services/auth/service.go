package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"teamdesk/internal/config"
	"teamdesk/internal/utils/crypto"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service handles authentication business logic.
type Service struct {
	users    UsersRepo
	sessions RefreshTokensRepo
	config   config.Config
	log      *slog.Logger
}

// NewService creates a new auth service.
func NewService(users UsersRepo, sessions RefreshTokensRepo, cfg config.Config, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		config:   cfg,
		log:      log,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=1,max=120" example:"Ann Example"`
	Email    string `json:"email" validate:"required,email" example:"ann@example.com"`
	Password string `json:"password" validate:"required,password" example:"Password123"`
	Role     string `json:"role" validate:"omitempty,oneof=standard admin" example:"standard"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"ann@example.com"`
	Password string `json:"password" validate:"required" example:"Password123"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token        string `json:"token"`
	Role         string `json:"role" example:"standard"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates a new account. The plaintext password never touches
// the store; only its bcrypt hash does.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := normalizeEmail(req.Email)

	role := req.Role
	if role != RoleAdmin {
		role = RoleStandard
	}

	hashed, err := crypto.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		s.log.Error("failed to hash password", "error", err)
		return nil, errors.New("failed to process password")
	}

	now := time.Now().UTC()
	user := &User{
		ID:           bson.NewObjectID(),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, ErrDuplicate
		}
		s.log.Error("failed to create user", "error", err)
		return nil, errors.New("failed to create user")
	}

	return user, nil
}

// Login authenticates a user and issues an access/refresh token pair.
// Unknown email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.log.Info("login failed", "email", email)
		return nil, ErrInvalidCredentials
	}

	if err := crypto.CheckPassword(req.Password, user.PasswordHash); err != nil {
		s.log.Info("login failed", "email", email)
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token and issues a fresh pair.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*LoginResponse, error) {
	stored, err := s.sessions.FindByHash(ctx, hashToken(rawToken))
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if time.Now().UTC().After(stored.ExpiresAt) {
		_ = s.sessions.Delete(ctx, stored.ID)
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// Rotation: the presented token is consumed before a new one is minted.
	if err := s.sessions.Delete(ctx, stored.ID); err != nil {
		s.log.Error("failed to revoke refresh token", "error", err, "user_id", user.ID.Hex())
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes every session of the user.
func (s *Service) Logout(ctx context.Context, userID bson.ObjectID) error {
	return s.sessions.DeleteAllForUser(ctx, userID)
}

func (s *Service) issueTokens(ctx context.Context, user *User) (*LoginResponse, error) {
	access, err := s.generateJWT(user)
	if err != nil {
		s.log.Error(ErrGenAccessToken.Error(), "error", err, "user_id", user.ID.Hex())
		return nil, ErrGenAccessToken
	}

	raw, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.sessions.Create(ctx, &RefreshToken{
		ID:        bson.NewObjectID(),
		UserID:    user.ID,
		TokenHash: hashToken(raw),
		ExpiresAt: now.Add(time.Duration(s.config.RefreshTokenDays) * 24 * time.Hour),
		CreatedAt: now,
	}); err != nil {
		s.log.Error("failed to persist refresh token", "error", err, "user_id", user.ID.Hex())
		return nil, errors.New("failed to create session")
	}

	return &LoginResponse{
		Token:        access,
		Role:         user.Role,
		RefreshToken: raw,
	}, nil
}

func (s *Service) generateJWT(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Duration(s.config.AccessTokenMinutes) * time.Minute).Unix(),
		"iat":     time.Now().Unix(),
	}

	switch strings.ToUpper(s.config.JWTAlgorithm) {
	case "HS256":
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		return token.SignedString([]byte(s.config.JWTSecret))
	default:
		return "", ErrUnsupportedJWTAlg
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
