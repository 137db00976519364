package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/richschool/compound-school/internal/core/domain"
)

// AuthService issues session-scoped player tokens and classroom teacher
// tokens.
type AuthService struct {
	jwtSecret   string
	teacherHash string
	tokenTTL    time.Duration
}

// NewAuthService returns an AuthService. An empty teacherPasswordHash
// disables teacher login.
func NewAuthService(jwtSecret, teacherPasswordHash string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{jwtSecret: jwtSecret, teacherHash: teacherPasswordHash, tokenTTL: tokenTTL}
}

func (s *AuthService) IssuePlayerToken(sessionID string) (string, error) {
	if sessionID == "" {
		return "", domain.ErrInvalidCredentials
	}
	return s.generateToken(domain.Claims{Role: domain.RolePlayer, SessionID: sessionID})
}

func (s *AuthService) TeacherLogin(_ context.Context, password string) (string, error) {
	if s.teacherHash == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.teacherHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.generateToken(domain.Claims{Role: domain.RoleTeacher})
}

func (s *AuthService) generateToken(c domain.Claims) (string, error) {
	claims := jwt.MapClaims{
		"role": c.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	if c.SessionID != "" {
		claims["session_id"] = c.SessionID
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
