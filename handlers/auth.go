package handlers

import (
	"net/http"
	"strings"
	"time"

	"site_tools_go/config"
	"site_tools_go/db"
	"site_tools_go/middleware"
	"site_tools_go/models"
	"site_tools_go/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginPostHandler authenticates a user and opens a session. The site log
// records both failed and successful attempts.
func LoginPostHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	var user models.User
	err := db.DB.Where("email = ?", req.Email).First(&user).Error
	if err != nil || !user.IsActive || !services.CheckPassword(req.Password, user.Password) {
		services.Log(db.DB, cfg, "auth", "Login failed for "+req.Email, services.LogOptions{
			Level:  models.LogLevelWarning,
			IP:     c.RealIP(),
			SiteID: middleware.CurrentSiteID(c),
		})
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	now := time.Now()
	db.DB.Model(&user).Update("last_login_at", &now)

	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Environment == "production",
	}
	c.SetCookie(cookie)

	services.Log(db.DB, cfg, "auth", "User logged in", services.LogOptions{
		IP:     c.RealIP(),
		UserID: &user.ID,
		SiteID: middleware.CurrentSiteID(c),
	})

	return c.JSON(http.StatusOK, user)
}

// LogoutHandler closes the current session
func LogoutHandler(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err == nil {
		services.DeleteSession(db.DB, cookie.Value)
	}

	expired := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}
	c.SetCookie(expired)

	return c.JSON(http.StatusOK, map[string]string{"status": "logged_out"})
}
