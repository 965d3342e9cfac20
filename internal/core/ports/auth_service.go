package ports

import (
	"context"

	"github.com/taskforge/task-api/internal/core/domain"
)

// AuthService implements the two halves of the authentication boundary.
// SignUp never returns a token; callers sign in separately.
type AuthService interface {
	SignUp(ctx context.Context, username, password string) (*domain.User, error)
	SignIn(ctx context.Context, username, password string) (string, error)
}
