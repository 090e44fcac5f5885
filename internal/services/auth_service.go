package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"conduit/internal/models"
	"conduit/internal/repositories"
	"conduit/pkg/rabbitmq"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and identity.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	mqClient   *rabbitmq.Client
}

// NewAuthService creates a new AuthService. mqClient may be nil, in
// which case event publication is skipped.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, mqClient *rabbitmq.Client) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
		mqClient:   mqClient,
	}
}

// Register creates a user with a hashed password and returns it
// together with a signed identity token. A taken username or email
// fails with ErrConflict.
func (s *AuthService) Register(username, email, password string) (*models.User, string, error) {
	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, "", fmt.Errorf("username '%s' already taken: %w", username, ErrConflict)
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, "", fmt.Errorf("email '%s' already registered: %w", email, ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		// The precheck races with concurrent registrations; the unique
		// index is what actually decides.
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", fmt.Errorf("username or email already taken: %w", ErrConflict)
		}
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.publishRegistered(user)

	return user, token, nil
}

// publishRegistered sends a user.registered event. Failures are logged
// and never fail the registration.
func (s *AuthService) publishRegistered(user *models.User) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"userId":   user.ID,
		"username": user.Username,
	})
	if err != nil {
		log.Printf("Failed to marshal user.registered event: %v", err)
		return
	}
	if err := s.mqClient.Publish("user.registered", body); err != nil {
		log.Printf("Warning: failed to publish user.registered event: %v", err)
	}
}

// Login authenticates a user by email and password and returns the
// user with a signed identity token. Unknown emails and wrong
// passwords both fail with the same generic ErrUnauthorized.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken signs a fresh identity token for the user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":      time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
}

// UserFromToken validates a token and resolves its subject to a live
// user record. A valid token whose user no longer exists fails with
// ErrUnauthorized.
func (s *AuthService) UserFromToken(tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("token missing subject: %w", ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(sub)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("token subject no longer exists: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}
	return user, nil
}
