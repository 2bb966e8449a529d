package middleware

import (
	"site_tools_go/db"
	"site_tools_go/models"
	"site_tools_go/services"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeySite is the context key for the resolved site
	ContextKeySite = "site"
)

// CurrentSite resolves the site serving the request's Host header and stores
// it in the request context. Requests for unknown domains proceed without a
// site; downstream middleware treats a missing site as "no per-site config".
func CurrentSite() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			site, err := services.GetSiteByDomain(db.DB, c.Request().Host)
			if err == nil {
				c.Set(ContextKeySite, site)
			}
			return next(c)
		}
	}
}

// GetCurrentSite retrieves the resolved site from context, or nil
func GetCurrentSite(c echo.Context) *models.SiteInfo {
	site, ok := c.Get(ContextKeySite).(*models.SiteInfo)
	if !ok {
		return nil
	}
	return site
}

// CurrentSiteID returns the resolved site's ID as a nullable reference for
// log and acceptance records
func CurrentSiteID(c echo.Context) *string {
	site := GetCurrentSite(c)
	if site == nil {
		return nil
	}
	return &site.ID
}
