package handlers

import (
	"net/http"
	"os"

	"site_tools_go/middleware"

	"github.com/labstack/echo/v4"
)

// RobotsHandler serves robots.txt: the global file (if present) followed by
// the resolved site's per-site suffix
func RobotsHandler(c echo.Context) error {
	var body string
	if data, err := os.ReadFile("static/robots.txt"); err == nil {
		body = string(data)
	}
	if site := middleware.GetCurrentSite(c); site != nil && site.Robots != "" {
		body += site.Robots
	}
	return c.String(http.StatusOK, body)
}

// HealthHandler is a liveness probe, exempt from the maintenance and legal
// gates through the configured whitelists
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
