package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"site_tools_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetCurrentUser(t *testing.T) {
	e := echo.New()

	t.Run("UserExists", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		expected := &models.User{ID: "user-123", Name: "Test User"}
		c.Set(ContextKeyUser, expected)

		user := GetCurrentUser(c)
		assert.Equal(t, expected, user)
	})

	t.Run("UserMissing", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		assert.Nil(t, GetCurrentUser(c))
	})

	t.Run("UserInvalidType", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		c.Set(ContextKeyUser, "not a user")
		assert.Nil(t, GetCurrentUser(c))
	})
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	handler := RequireAuth()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("Authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeyUser, &models.User{ID: "user-123"})

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

func TestRequireStaff(t *testing.T) {
	e := echo.New()
	handler := RequireStaff()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("Staff", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeyUser, &models.User{ID: "user-123", IsStaff: true})

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("RegularUser", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeyUser, &models.User{ID: "user-123"})

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})

	t.Run("Anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
