package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/teamdash/break-service/internal/models"
	"github.com/teamdash/break-service/internal/roster"
)

// JWTConfig holds configuration for JWT token generation
type JWTConfig struct {
	Secret    string
	ExpiresIn int // hours
}

// AuthService handles login, logout and session token validation. Passwords
// are compared in plaintext: the seed roster carries human-readable
// passwords that admins hand out to staff, and hardening is explicitly not
// this product's concern.
type AuthService struct {
	roster    *roster.Store
	authority *Authority
	jwtConfig JWTConfig
}

// NewAuthService creates a new authentication service
func NewAuthService(store *roster.Store, authority *Authority, jwtConfig JWTConfig) *AuthService {
	return &AuthService{
		roster:    store,
		authority: authority,
		jwtConfig: jwtConfig,
	}
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Login authenticates a user and returns a JWT token. A successful login is
// an authority-observed transition: the user is forced Available regardless
// of whatever state an earlier session left behind.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, ok := s.roster.GetByUsername(username)
	if !ok {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	if user.Password != password {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	token, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.authority.MarkAvailable(user.ID)

	user, _ = s.roster.Get(user.ID)
	return token, &user, nil
}

// Logout forces the user Offline.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	s.authority.MarkOffline(userID)
}

// generateToken generates a JWT token for a user
func (s *AuthService) generateToken(userID string, role models.UserRole) (string, error) {
	expirationTime := time.Now().Add(time.Duration(s.jwtConfig.ExpiresIn) * time.Hour)

	claims := &Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// GetUserFromToken gets the user associated with a token
func (s *AuthService) GetUserFromToken(tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, ok := s.roster.Get(claims.UserID)
	if !ok {
		return nil, fmt.Errorf("user not found: %s", claims.UserID)
	}

	return &user, nil
}
