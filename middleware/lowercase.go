package middleware

import (
	"net/http"
	"strings"

	"site_tools_go/config"

	"github.com/labstack/echo/v4"
)

// CaseInsensitiveURL redirects mixed-case request paths to their lowercase
// form, except for paths matching a case-sensitive pattern. The redirect is
// temporary so clients keep their original bookmarks.
func CaseInsensitiveURL(cfg *config.Config) echo.MiddlewareFunc {
	caseSensitive := CompilePatterns(cfg.CaseSensitiveURLs)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			lower := strings.ToLower(path)
			if path != lower && !MatchAny(path, caseSensitive) {
				target := lower
				if query := c.Request().URL.RawQuery; query != "" {
					target += "?" + query
				}
				return c.Redirect(http.StatusFound, target)
			}
			return next(c)
		}
	}
}
