package handlers

import (
	"net/http"
	"strconv"
	"time"

	"site_tools_go/db"
	"site_tools_go/models"
	"site_tools_go/services"

	"github.com/labstack/echo/v4"
)

// Site log browsing is read-only: entries are append-only and no
// administrative route creates or modifies them.

// parseSiteLogFilter builds a listing filter from query parameters
func parseSiteLogFilter(c echo.Context) services.SiteLogFilter {
	filter := services.SiteLogFilter{
		Tag:    c.QueryParam("tag"),
		SiteID: c.QueryParam("site_id"),
		Limit:  100,
	}
	if level, err := strconv.Atoi(c.QueryParam("level")); err == nil {
		if l := models.LogLevel(level); l.IsValid() {
			filter.Level = l
		}
	}
	if from := c.QueryParam("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.Since = &t
		}
	}
	if to := c.QueryParam("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24 * time.Hour)
			filter.Until = &end
		}
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 1 {
		filter.Offset = (page - 1) * filter.Limit
	}
	return filter
}

// ListSiteLogsHandler returns filtered log entries, newest first
func ListSiteLogsHandler(c echo.Context) error {
	entries, err := services.ListSiteLogs(db.DB, parseSiteLogFilter(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch site logs")
	}
	return c.JSON(http.StatusOK, entries)
}

// ExportSiteLogsHandler streams filtered log entries as an XLSX workbook
func ExportSiteLogsHandler(c echo.Context) error {
	filter := parseSiteLogFilter(c)
	filter.Limit = 0 // Export everything matching the filter

	buf, err := services.ExportSiteLogsExcel(db.DB, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export site logs")
	}

	filename := "site-logs-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
