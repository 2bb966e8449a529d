package handlers

import (
	"errors"
	"net/http"

	"site_tools_go/config"
	"site_tools_go/db"
	"site_tools_go/middleware"
	"site_tools_go/models"
	"site_tools_go/services"

	"github.com/labstack/echo/v4"
)

// legalDocumentResponse is the JSON shape of a resolved document version
type legalDocumentResponse struct {
	Document   string  `json:"document"`
	Name       string  `json:"name"`
	Country    *string `json:"country,omitempty"`
	Version    string  `json:"version"`
	Language   string  `json:"language"`
	Date       string  `json:"date"`
	Content    string  `json:"content"`
	AcceptedAt *string `json:"accepted_at,omitempty"`
}

// resolveFromRequest resolves the document version addressed by the request
// path (identifier and optional version label, both may be empty). A country
// query parameter narrows resolution to that country's scope.
func resolveFromRequest(c echo.Context) (*models.LegalDocumentVersion, error) {
	var country *string
	if code := c.QueryParam("country"); code != "" && models.IsValidCountryCode(code) {
		country = &code
	}
	return services.ResolveDocumentVersion(db.DB, c.Param("docid"), c.Param("version"), country)
}

// GetLegalDocumentHandler returns a legal document version: the addressed one,
// or the latest when no version label is in the path
func GetLegalDocumentHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	version, err := resolveFromRequest(c)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) || errors.Is(err, services.ErrVersionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No legal document matching given parameters")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve legal document")
	}

	// Optionally hide superseded versions
	if !cfg.ShowPreviousLegalVersions && c.Param("version") != "" {
		latest, err := services.GetLatestVersion(db.DB, version.DocumentID)
		if err == nil && latest.ID != version.ID {
			return c.Redirect(http.StatusSeeOther, "/legal/"+c.Param("docid")+"/")
		}
	}

	return c.JSON(http.StatusOK, buildLegalResponse(c, version))
}

// AcceptLegalDocumentHandler records the authenticated user's acceptance of
// the addressed document version. Repeated acceptances create repeated
// records; the redirect target comes from the "next" parameter.
func AcceptLegalDocumentHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	version, err := resolveFromRequest(c)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) || errors.Is(err, services.ErrVersionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No legal document matching given parameters")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve legal document")
	}

	_, err = services.RecordAcceptance(db.DB, version.ID, &user.ID, c.RealIP(), c.FormValue("description"), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record acceptance")
	}

	if next := c.QueryParam("next"); next != "" && next[0] == '/' {
		return c.Redirect(http.StatusSeeOther, next)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "accepted"})
}

// GetAcceptanceStatusHandler reports whether the authenticated user already
// accepted the addressed document version
func GetAcceptanceStatusHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	version, err := resolveFromRequest(c)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) || errors.Is(err, services.ErrVersionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No legal document matching given parameters")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve legal document")
	}

	acceptance, err := services.AcceptedBy(db.DB, version.ID, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check acceptance")
	}

	response := buildLegalResponse(c, version)
	response.Content = "" // Status checks do not need the full text
	if acceptance != nil {
		formatted := acceptance.Timestamp.Format("2006-01-02 15:04:05")
		response.AcceptedAt = &formatted
	}
	return c.JSON(http.StatusOK, response)
}

// buildLegalResponse assembles the response payload, sanitizing the document
// content before it leaves the server
func buildLegalResponse(c echo.Context, version *models.LegalDocumentVersion) legalDocumentResponse {
	response := legalDocumentResponse{
		Version:  version.Version,
		Language: version.Language,
		Date:     version.Date.Format("2006-01-02"),
		Content:  services.SanitizeContent(version.Content),
	}

	var document models.LegalDocument
	if err := db.DB.First(&document, "id = ?", version.DocumentID).Error; err == nil {
		response.Document = document.Identifier
		response.Name = document.Name
		response.Country = document.Country
	}
	return response
}
