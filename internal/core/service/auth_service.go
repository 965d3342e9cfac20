package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/task-api/internal/api/metrics"
	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

// SigninThrottle abstracts the failed-attempt counter (Redis).
type SigninThrottle interface {
	TooManyFailures(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuthService implements signup and signin.
type AuthService struct {
	repo      ports.UserRepository
	throttle  SigninThrottle
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, throttle SigninThrottle, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{repo: repo, throttle: throttle, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// SignUp hashes the password and persists a new user. A username collision
// surfaces as domain.ErrUserExists via the store's unique constraint; there
// is no application-level lock, only the store can guarantee uniqueness
// under concurrent signups.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(signupResult(err)).Inc()
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("username", username).Msg("user registered")
	return created, nil
}

// SignIn verifies credentials and returns a signed token. An unknown
// username and a wrong password both return domain.ErrInvalidCredentials so
// that responses never reveal which usernames exist.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	if blocked, err := s.throttle.TooManyFailures(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("throttle check failed, allowing attempt")
	} else if blocked {
		metrics.SigninsTotal.WithLabelValues("throttled").Inc()
		return "", domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, username)
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	// A malformed stored hash also fails the comparison, never panics.
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return "", domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to reset throttle counter")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", err
	}

	metrics.SigninsTotal.WithLabelValues("success").Inc()
	return token, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	metrics.SigninsTotal.WithLabelValues("invalid_credentials").Inc()
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to record signin failure")
	}
}

// generateToken signs an HS256 token carrying the username and an expiry.
func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func signupResult(err error) string {
	if errors.Is(err, domain.ErrUserExists) {
		return "username_taken"
	}
	return "error"
}
