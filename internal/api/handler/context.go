package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-api/internal/api/middleware"
	"github.com/taskforge/task-api/internal/core/domain"
)

// currentUser extracts the user resolved by the Auth middleware and performs
// a fast-fail check before any service call: a missing or empty-id user means
// the guard did not run (or resolved garbage), so the request is rejected
// rather than handed to a service with no owner scope.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil || user.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
