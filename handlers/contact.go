package handlers

import (
	"net/http"
	"strings"

	"site_tools_go/config"
	"site_tools_go/db"
	"site_tools_go/middleware"
	"site_tools_go/services"

	"github.com/labstack/echo/v4"
)

type contactRequest struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
	Text  string `json:"text" form:"text"`
}

// ContactPostHandler stores a contact form submission and notifies admins
func ContactPostHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Text = strings.TrimSpace(req.Text)
	if req.Name == "" || req.Email == "" || req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name, email and text are required")
	}
	if !strings.Contains(req.Email, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email address")
	}

	message, err := services.SaveContactMessage(db.DB, cfg, req.Name, req.Email, req.Text, c.RealIP(), middleware.CurrentSiteID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save message")
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": message.ID, "status": "received"})
}
