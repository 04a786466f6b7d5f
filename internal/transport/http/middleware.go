package http

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"studyhub/internal/app"
	"studyhub/internal/domain"
)

const (
	principalKey = "principal"
	profileKey   = "profile"
)

// authenticate verifies the bearer token. Browsers cannot set headers on a
// WebSocket handshake, so a "token" query parameter is accepted as well.
func authenticate(accounts *app.Accounts) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			principal, err := accounts.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}
			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// requireRole loads the caller's profile and admits only the given roles.
// With no roles any completed profile passes.
func requireRole(accounts *app.Accounts, roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profile, err := accounts.Profile(c.Request().Context(), principalOf(c).UserID)
			if errors.Is(err, domain.ErrProfileNotFound) {
				return domain.ErrForbidden
			}
			if err != nil {
				return err
			}
			if len(roles) > 0 && !hasRole(profile.Role, roles) {
				return domain.ErrForbidden
			}
			c.Set(profileKey, profile)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.QueryParam("token")
}

func principalOf(c echo.Context) domain.Principal {
	principal, _ := c.Get(principalKey).(domain.Principal)
	return principal
}

func profileOf(c echo.Context) domain.Profile {
	profile, _ := c.Get(profileKey).(domain.Profile)
	return profile
}

func hasRole(role domain.Role, roles []domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
