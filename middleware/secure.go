package middleware

import (
	"net/http"
	"strings"

	"site_tools_go/config"

	"github.com/labstack/echo/v4"
)

// SecureURL enforces the HTTPS policy for request paths. Paths matching a
// forced-secure pattern are redirected to HTTPS; HTTPS requests for paths not
// in the allowed-secure list are redirected back to HTTP.
func SecureURL(cfg *config.Config) echo.MiddlewareFunc {
	forced := CompilePatterns(cfg.ForcedSecureURLs)
	// Forced patterns are implicitly allowed
	allowed := append(CompilePatterns(cfg.ForcedSecureURLs), CompilePatterns(cfg.AllowedSecureURLs)...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if !isSecure(c) {
				if MatchAny(path, forced) {
					return c.Redirect(http.StatusMovedPermanently, buildSiteURL(c, true))
				}
			} else {
				if !MatchAny(path, allowed) {
					return c.Redirect(http.StatusMovedPermanently, buildSiteURL(c, false))
				}
			}
			return next(c)
		}
	}
}

// isSecure reports whether the request arrived over HTTPS, honoring the
// X-Forwarded-Proto header set by a terminating proxy
func isSecure(c echo.Context) bool {
	if c.Request().TLS != nil {
		return true
	}
	return strings.EqualFold(c.Request().Header.Get("X-Forwarded-Proto"), "https")
}

// buildSiteURL builds an absolute URL for the current request on the resolved
// site's domain (falling back to the request host) with the given scheme
func buildSiteURL(c echo.Context, secure bool) string {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	host := c.Request().Host
	if site := GetCurrentSite(c); site != nil {
		host = site.Domain
	}
	return scheme + "://" + host + c.Request().RequestURI
}
