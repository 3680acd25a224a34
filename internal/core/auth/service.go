package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MSamoilovic/FormForge-API/config"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email/username or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already taken")
	ErrUserDeactivated    = errors.New("user account is deactivated")
	ErrInvalidPassword    = errors.New("password must contain at least one uppercase letter, one lowercase letter and one digit")
	ErrInvalidUsername    = errors.New("username can only contain letters, numbers, and underscores")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type Service struct {
	repo   *Repository
	config *config.JWTConfig
}

func NewService(repo *Repository, cfg *config.JWTConfig) *Service {
	return &Service{repo: repo, config: cfg}
}

type JWTClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// User registration & login

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	username := strings.ToLower(req.Username)
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if err := checkPasswordPolicy(req.Password); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetUserByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailExists
	}
	if existing, err := s.repo.GetUserByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         RoleFormCreator,
		IsActive:     true,
		IsVerified:   false,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{TokenPair: *pair, User: user}, nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.repo.GetUserByUsername(ctx, strings.ToLower(req.Login))
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserDeactivated
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{TokenPair: *pair, User: user}, nil
}

// Refresh exchanges a valid refresh token for a fresh access/refresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthorized
	}

	return s.generateTokenPair(user)
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// Profile management

func (s *Service) ChangePassword(ctx context.Context, user *User, req *ChangePasswordRequest) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := checkPasswordPolicy(req.NewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	return s.repo.UpdatePassword(ctx, user.ID, user.PasswordHash)
}

func (s *Service) UpdateProfile(ctx context.Context, user *User, req *UpdateProfileRequest) (*User, error) {
	if req.FullName != nil {
		user.FullName = *req.FullName
	}

	if req.Username != nil {
		username := strings.ToLower(*req.Username)
		if !usernamePattern.MatchString(username) {
			return nil, ErrInvalidUsername
		}
		existing, err := s.repo.GetUserByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, ErrUsernameExists
		}
		user.Username = username
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Tokens

func (s *Service) generateTokenPair(user *User) (*TokenPair, error) {
	access, err := s.signToken(user.ID, TokenTypeAccess, s.config.AccessExpiration())
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user.ID, TokenTypeRefresh, s.config.RefreshExpiration())
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *Service) signToken(userID uuid.UUID, tokenType string, expiry time.Duration) (string, error) {
	claims := JWTClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *Service) parseToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrUnauthorized
}

// ValidateAccessToken accepts only tokens whose embedded type is "access".
func (s *Service) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// API Key management

func (s *Service) CreateAPIKey(ctx context.Context, userID uuid.UUID, req *CreateAPIKeyRequest) (*CreateAPIKeyResponse, error) {
	rawKey := make([]byte, 32)
	if _, err := rand.Read(rawKey); err != nil {
		return nil, err
	}
	keyString := "ff_" + hex.EncodeToString(rawKey)

	hash := sha256.Sum256([]byte(keyString))
	keyHash := hex.EncodeToString(hash[:])

	scopes := req.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	var expiresAt *time.Time
	if req.ExpiresInDays != nil {
		t := time.Now().AddDate(0, 0, *req.ExpiresInDays)
		expiresAt = &t
	}

	apiKey := &APIKey{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      req.Name,
		KeyHash:   keyHash,
		Scopes:    scopes,
		IsActive:  true,
		ExpiresAt: expiresAt,
	}

	if err := s.repo.CreateAPIKey(ctx, apiKey); err != nil {
		return nil, err
	}

	return &CreateAPIKeyResponse{APIKey: apiKey, Key: keyString}, nil
}

func (s *Service) ValidateAPIKey(ctx context.Context, keyString string) (*APIKey, error) {
	hash := sha256.Sum256([]byte(keyString))
	keyHash := hex.EncodeToString(hash[:])

	apiKey, err := s.repo.GetAPIKeyByHash(ctx, keyHash)
	if err != nil {
		return nil, err
	}
	if apiKey == nil || !apiKey.IsActive || apiKey.Expired() {
		return nil, ErrUnauthorized
	}

	// Update last used
	go s.repo.TouchAPIKey(context.Background(), apiKey.ID)

	return apiKey, nil
}

func (s *Service) ListAPIKeys(ctx context.Context, userID uuid.UUID) ([]*APIKey, error) {
	return s.repo.GetAPIKeysByUserID(ctx, userID)
}

// RevokeAPIKey deactivates a key. The not-found check runs before the
// ownership check so a missing key is 404, not 403.
func (s *Service) RevokeAPIKey(ctx context.Context, userID, keyID uuid.UUID) error {
	apiKey, err := s.repo.GetAPIKeyByID(ctx, keyID)
	if err != nil {
		return err
	}
	if apiKey == nil {
		return ErrNotFound
	}
	if apiKey.UserID != userID {
		return ErrForbidden
	}

	return s.repo.DeactivateAPIKey(ctx, keyID)
}

func checkPasswordPolicy(password string) error {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if len(password) < 8 || !upper || !lower || !digit {
		return ErrInvalidPassword
	}
	return nil
}
