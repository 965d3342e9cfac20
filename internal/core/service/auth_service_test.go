package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/task-api/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

type stubThrottle struct {
	blocked  bool
	failures []string
	resets   []string
}

func (t *stubThrottle) TooManyFailures(_ context.Context, _ string) (bool, error) {
	return t.blocked, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, username string) error {
	t.failures = append(t.failures, username)
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, username string) error {
	t.resets = append(t.resets, username)
	return nil
}

func newAuthService(repo *stubUserRepo, throttle *stubThrottle) *AuthService {
	return NewAuthService(repo, throttle, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_SignUp_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubThrottle{})

	user, err := svc.SignUp(context.Background(), "alice", "Passw0rd!")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.PasswordHash == "Passw0rd!" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Passw0rd!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_SignUp_UniqueHashes(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubThrottle{})

	u1, err := svc.SignUp(context.Background(), "alice", "samepassword")
	if err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	u2, err := svc.SignUp(context.Background(), "bob", "samepassword")
	if err != nil {
		t.Fatalf("second signup failed: %v", err)
	}
	// bcrypt salts per call: identical passwords must not share a digest.
	if u1.PasswordHash == u2.PasswordHash {
		t.Fatalf("expected distinct hashes for identical passwords")
	}
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubThrottle{})

	if _, err := svc.SignUp(context.Background(), "bob", "password1"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := svc.SignUp(context.Background(), "bob", "different2"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	repo := newStubUserRepo()
	throttle := &stubThrottle{}
	svc := newAuthService(repo, throttle)

	if _, err := svc.SignUp(context.Background(), "carol", "s3cretpass"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	token, err := svc.SignIn(context.Background(), "carol", "s3cretpass")
	if err != nil {
		t.Fatalf("signin failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["username"] != "carol" {
		t.Fatalf("expected username claim carol, got %v", claims["username"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatalf("expected exp claim")
	}

	if len(throttle.resets) != 1 || throttle.resets[0] != "carol" {
		t.Fatalf("expected throttle reset for carol, got %v", throttle.resets)
	}
}

func TestAuthService_SignIn_WrongPasswordAndUnknownUserIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	throttle := &stubThrottle{}
	svc := newAuthService(repo, throttle)

	if _, err := svc.SignUp(context.Background(), "dave", "goodpass1"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, errWrongPass := svc.SignIn(context.Background(), "dave", "badpass")
	_, errNoUser := svc.SignIn(context.Background(), "ghost", "whatever")

	if errWrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", errWrongPass)
	}
	if errNoUser != errWrongPass {
		t.Fatalf("unknown user and wrong password must return the same error, got %v vs %v", errNoUser, errWrongPass)
	}
	if len(throttle.failures) != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", len(throttle.failures))
	}
}

func TestAuthService_SignIn_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubThrottle{blocked: true})

	if _, err := svc.SignIn(context.Background(), "eve", "password"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_SignIn_MalformedStoredHash(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["frank"] = &domain.User{ID: "id-frank", Username: "frank", PasswordHash: "not-a-bcrypt-hash"}
	svc := newAuthService(repo, &stubThrottle{})

	// A corrupted hash is a verification failure, not a crash.
	if _, err := svc.SignIn(context.Background(), "frank", "password"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignUpThenSignIn_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubThrottle{})

	if _, err := svc.SignUp(context.Background(), "grace", "Passw0rd!"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := svc.SignIn(context.Background(), "grace", "Passw0rd!"); err != nil {
		t.Fatalf("signin with signup credentials failed: %v", err)
	}
}
