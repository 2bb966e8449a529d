package middleware

import (
	"net/http"
	"slices"

	"site_tools_go/config"

	"github.com/labstack/echo/v4"
)

// Maintenance returns Service Unavailable while the site is under maintenance.
// Maintenance applies when the global flag is set or the resolved site is
// flagged. Whitelisted paths, internal client IPs and staff users pass through.
func Maintenance(cfg *config.Config) echo.MiddlewareFunc {
	whitelist := CompilePatterns(cfg.MaintenanceWhitelist)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !maintenanceActive(c, cfg) {
				return next(c)
			}

			if slices.Contains(cfg.InternalIPs, c.RealIP()) {
				return next(c)
			}
			if user := GetCurrentUser(c); user != nil && user.IsStaff {
				return next(c)
			}
			if MatchAny(c.Request().URL.Path, whitelist) {
				return next(c)
			}

			return serviceUnavailable(c)
		}
	}
}

// maintenanceActive reports whether maintenance applies to this request
func maintenanceActive(c echo.Context, cfg *config.Config) bool {
	if cfg.UnderMaintenance {
		return true
	}
	site := GetCurrentSite(c)
	return site != nil && site.Maintenance
}

// serviceUnavailable renders the 503 response
func serviceUnavailable(c echo.Context) error {
	c.Response().Header().Set("Retry-After", "3600")
	return c.JSON(http.StatusServiceUnavailable, map[string]string{
		"error": "Service temporarily unavailable for maintenance",
	})
}
