package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"appstore/internal/models"
	"appstore/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is bcrypt's input limit. Passwords are truncated to it
// identically on the hash and verify paths.
const maxPasswordBytes = 72

// AuthService handles registration, login and bearer-token verification.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 60 * time.Minute,
	}
}

// normalizePassword caps the password at maxPasswordBytes, dropping a
// trailing partial rune left by the cut.
func normalizePassword(password string) []byte {
	b := []byte(password)
	if len(b) <= maxPasswordBytes {
		return b
	}
	b = b[:maxPasswordBytes]
	for len(b) > 0 && !utf8.Valid(b) {
		b = b[:len(b)-1]
	}
	return b
}

// HashPassword returns the bcrypt hash of a plaintext password.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(normalizePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext password matches the stored hash.
func (s *AuthService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), normalizePassword(password)) == nil
}

// RegisterUser registers a new user. The Password field carries the plaintext
// on the way in and the bcrypt hash on the way out.
func (s *AuthService) RegisterUser(user *models.User) error {
	if existing, err := s.userRepo.GetByLogin(user.Login); err == nil && existing != nil {
		return fmt.Errorf("%w: login %q already taken", repositories.ErrConflict, user.Login)
	}
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("%w: email %q already registered", repositories.ErrConflict, user.Email)
	}

	hashed, err := s.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user by login and password and returns a signed
// JWT on success.
func (s *AuthService) LoginUser(login, password string) (string, error) {
	user, err := s.userRepo.GetByLogin(login)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !s.VerifyPassword(password, user.Password) {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken(user)
}

// IssueToken signs a token carrying the user's id, valid for tokenDuration.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"login":   user.Login,
		"exp":     time.Now().Add(s.tokenDuration).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning the subject user id.
func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("invalid token: missing user_id claim")
	}
	return uint(userID), nil
}
