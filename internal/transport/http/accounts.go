package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"studyhub/internal/app"
	"studyhub/internal/domain"
)

type accountAPI struct {
	accounts *app.Accounts
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (api accountAPI) register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	userID, err := api.accounts.Register(c.Request().Context(), domain.Registration{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"userId": userID})
}

func (api accountAPI) login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	token, err := api.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

func (api accountAPI) logout(c echo.Context) error {
	if err := api.accounts.Logout(c.Request().Context(), bearerToken(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (api accountAPI) profile(c echo.Context) error {
	profile, err := api.accounts.Profile(c.Request().Context(), principalOf(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (api accountAPI) completeProfile(c echo.Context) error {
	var in domain.ProfileInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	profile, err := api.accounts.CompleteProfile(c.Request().Context(), principalOf(c).UserID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// navigation falls back to the anonymous menu until the profile is completed.
func (api accountAPI) navigation(c echo.Context) error {
	var role domain.Role
	profile, err := api.accounts.Profile(c.Request().Context(), principalOf(c).UserID)
	switch {
	case err == nil:
		role = profile.Role
	case !errors.Is(err, domain.ErrProfileNotFound):
		return err
	}
	return c.JSON(http.StatusOK, app.Navigation(role))
}
