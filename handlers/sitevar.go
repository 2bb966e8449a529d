package handlers

import (
	"errors"
	"net/http"

	"site_tools_go/db"
	"site_tools_go/models"
	"site_tools_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type siteInfoRequest struct {
	Domain      string `json:"domain"`
	Name        string `json:"name"`
	Maintenance bool   `json:"maintenance"`
	Active      bool   `json:"active"`
	Robots      string `json:"robots"`
}

type siteVarRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ListSitesHandler returns all configured sites
func ListSitesHandler(c echo.Context) error {
	var sites []models.SiteInfo
	if err := db.DB.Order("domain ASC").Find(&sites).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list sites")
	}
	return c.JSON(http.StatusOK, sites)
}

// CreateSiteHandler registers a site
func CreateSiteHandler(c echo.Context) error {
	var req siteInfoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Domain == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Domain is required")
	}

	site := models.SiteInfo{
		Domain:      req.Domain,
		Name:        req.Name,
		Maintenance: req.Maintenance,
		Active:      req.Active,
		Robots:      req.Robots,
	}
	if err := db.DB.Create(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "A site with this domain already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create site")
	}
	return c.JSON(http.StatusCreated, site)
}

// UpdateSiteHandler updates a site's configuration
func UpdateSiteHandler(c echo.Context) error {
	var site models.SiteInfo
	if err := db.DB.First(&site, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Site not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load site")
	}

	var req siteInfoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	site.Domain = req.Domain
	site.Name = req.Name
	site.Maintenance = req.Maintenance
	site.Active = req.Active
	site.Robots = req.Robots
	if err := db.DB.Save(&site).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update site")
	}
	return c.JSON(http.StatusOK, site)
}

// GetSiteVarsHandler returns the coerced variable values for a site
func GetSiteVarsHandler(c echo.Context) error {
	values, err := services.GetSiteVars(db.DB, c.Param("id"), nil)
	if err != nil {
		if errors.Is(err, models.ErrInvalidVarType) {
			return echo.NewHTTPError(http.StatusInternalServerError, "A site variable has an invalid type")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load site variables")
	}
	return c.JSON(http.StatusOK, values)
}

// SetSiteVarHandler creates or replaces a typed site variable. The value is
// validated against the declared type before it is stored.
func SetSiteVarHandler(c echo.Context) error {
	var req siteVarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	v, err := services.SetSiteVar(db.DB, c.Param("id"), req.Name, models.SiteVarType(req.Type), req.Value)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}
