package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studyhub/internal/app"
	"studyhub/internal/domain"
)

type materialAPI struct {
	materials *app.Materials
}

func (api materialAPI) browse(c echo.Context) error {
	materials, err := api.materials.Browse(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, materials)
}

func (api materialAPI) listOwn(c echo.Context) error {
	materials, err := api.materials.ListOwn(c.Request().Context(), principalOf(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, materials)
}

func (api materialAPI) publish(c echo.Context) error {
	var in domain.MaterialInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	material, err := api.materials.Publish(c.Request().Context(), principalOf(c).UserID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, material)
}

func (api materialAPI) update(c echo.Context) error {
	var in domain.MaterialInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	material, err := api.materials.Update(c.Request().Context(), principalOf(c).UserID, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, material)
}

func (api materialAPI) delete(c echo.Context) error {
	if err := api.materials.Delete(c.Request().Context(), principalOf(c).UserID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (api materialAPI) save(c echo.Context) error {
	saved, err := api.materials.Save(c.Request().Context(), principalOf(c).UserID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, saved)
}

func (api materialAPI) listSaved(c echo.Context) error {
	saved, err := api.materials.ListSaved(c.Request().Context(), principalOf(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}

func (api materialAPI) deleteSaved(c echo.Context) error {
	if err := api.materials.DeleteSaved(c.Request().Context(), principalOf(c).UserID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
