package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"bookworm/internal/auth"
	"bookworm/internal/model"
	"bookworm/internal/repository"
)

// currentUserKey is the echo context key the resolved user is stored under.
const currentUserKey = "currentUser"

// CurrentUser resolves the authenticated user behind the verified token and
// attaches it to the request context. It runs after the JWT middleware, which
// has already checked signature and expiry; any failure here short-circuits
// the request with a 401.
func CurrentUser(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, no token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token failed")
			}
			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token failed")
			}
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
			}
			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the user attached by CurrentUser.
func UserFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(currentUserKey).(*model.User)
	return user, ok
}
