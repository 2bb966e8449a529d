package middleware

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"site_tools_go/config"
	"site_tools_go/models"
	"site_tools_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GateDecision is the outcome of the legal acceptance check. When Redirect is
// true the caller must send the user to Location before serving the request.
type GateDecision struct {
	Redirect bool
	Location string
}

var gatePass = GateDecision{}

// CheckLegalAcceptance decides whether a user must be redirected to accept the
// forced legal document before the given path may be served.
//
// Anonymous users, whitelisted paths, static/media paths and the acceptance
// flow itself always pass. When the forced document cannot be resolved the
// gate fails open: a misconfigured document must not lock out the whole site.
func CheckLegalAcceptance(db *gorm.DB, cfg *config.Config, user *models.User, path string) GateDecision {
	if !cfg.ForceLegalAcceptance || cfg.ForcedLegalDocument == "" {
		return gatePass
	}
	if user == nil {
		return gatePass
	}
	if strings.HasPrefix(path, cfg.StaticURL) || strings.HasPrefix(path, cfg.MediaURL) {
		return gatePass
	}
	if strings.HasPrefix(path, cfg.LegalAcceptanceURL) {
		return gatePass
	}
	for _, prefix := range cfg.LegalWhitelistURLs {
		if strings.HasPrefix(path, prefix) {
			return gatePass
		}
	}

	version, err := services.ResolveDocumentVersion(db, cfg.ForcedLegalDocument, cfg.ForcedLegalDocumentVersion, nil)
	if err != nil {
		// Fail open: misconfiguration or a store error must not block users
		log.Printf("[WARNING] Legal gate could not resolve forced document %q: %v", cfg.ForcedLegalDocument, err)
		return gatePass
	}

	acceptance, err := services.AcceptedBy(db, version.ID, user.ID)
	if err != nil {
		log.Printf("[WARNING] Legal gate could not check acceptance for user %s: %v", user.ID, err)
		return gatePass
	}
	if acceptance != nil {
		return gatePass
	}

	return GateDecision{Redirect: true, Location: acceptanceLocation(cfg, path)}
}

// acceptanceLocation builds the acceptance flow URL for the forced document,
// carrying the fixed version when configured and the originally requested path
func acceptanceLocation(cfg *config.Config, next string) string {
	location := cfg.LegalAcceptanceURL + cfg.ForcedLegalDocument + "/"
	if cfg.ForcedLegalDocumentVersion != "" {
		location += cfg.ForcedLegalDocumentVersion + "/"
	}
	return location + "?next=" + url.QueryEscape(next)
}

// LegalAcceptance redirects authenticated users who have not accepted the
// forced legal document to the acceptance flow
func LegalAcceptance(gormDB *gorm.DB, cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := CheckLegalAcceptance(gormDB, cfg, GetCurrentUser(c), c.Request().URL.Path)
			if decision.Redirect {
				return c.Redirect(http.StatusSeeOther, decision.Location)
			}
			return next(c)
		}
	}
}
