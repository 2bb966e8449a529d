package handlers

import (
	"errors"
	"net/http"

	"site_tools_go/db"
	"site_tools_go/middleware"
	"site_tools_go/services"

	"github.com/labstack/echo/v4"
)

// RenderDBTemplateHandler renders a database template by slug. The template
// sees the resolved site and the request path as context.
func RenderDBTemplateHandler(c echo.Context) error {
	context := map[string]interface{}{
		"Path": c.Request().URL.Path,
	}
	if site := middleware.GetCurrentSite(c); site != nil {
		context["Site"] = site
	}

	rendered, err := services.RenderDBTemplate(db.DB, c.Param("slug"), context)
	if err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Template not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render template")
	}
	return c.HTML(http.StatusOK, rendered)
}
