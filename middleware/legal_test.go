package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"site_tools_go/config"
	"site_tools_go/models"
	"site_tools_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLegalGateTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.LegalDocument{},
		&models.LegalDocumentVersion{},
		&models.LegalDocumentAcceptance{},
	))
	return db
}

func legalGateConfig() *config.Config {
	return &config.Config{
		ForceLegalAcceptance: true,
		ForcedLegalDocument:  "tos",
		LegalAcceptanceURL:   "/legal/accept/",
		StaticURL:            "/static/",
		MediaURL:             "/media/",
	}
}

func createForcedDocument(t *testing.T, db *gorm.DB) *models.LegalDocumentVersion {
	doc := models.LegalDocument{Identifier: "tos", Name: "Terms of Service"}
	require.NoError(t, db.Create(&doc).Error)
	version := models.LegalDocumentVersion{
		DocumentID: doc.ID,
		Version:    "1.0",
		Date:       time.Now().Add(-24 * time.Hour),
		Content:    "terms text",
	}
	require.NoError(t, db.Create(&version).Error)
	return &version
}

func TestCheckLegalAcceptance(t *testing.T) {
	db := setupLegalGateTestDB(t)
	cfg := legalGateConfig()
	version := createForcedDocument(t, db)

	user := models.User{Email: "user@example.com", Name: "Test User"}
	require.NoError(t, db.Create(&user).Error)

	t.Run("AnonymousAlwaysPasses", func(t *testing.T) {
		decision := CheckLegalAcceptance(db, cfg, nil, "/dashboard")
		assert.False(t, decision.Redirect)
	})

	t.Run("UnacceptedUserRedirected", func(t *testing.T) {
		decision := CheckLegalAcceptance(db, cfg, &user, "/dashboard")
		assert.True(t, decision.Redirect)
		assert.Equal(t, "/legal/accept/tos/?next=%2Fdashboard", decision.Location)
	})

	t.Run("FixedVersionInLocation", func(t *testing.T) {
		pinned := legalGateConfig()
		pinned.ForcedLegalDocumentVersion = "1.0"
		decision := CheckLegalAcceptance(db, pinned, &user, "/dashboard")
		assert.True(t, decision.Redirect)
		assert.Equal(t, "/legal/accept/tos/1.0/?next=%2Fdashboard", decision.Location)
	})

	t.Run("WhitelistedPathPasses", func(t *testing.T) {
		open := legalGateConfig()
		open.LegalWhitelistURLs = []string{"/about"}
		decision := CheckLegalAcceptance(db, open, &user, "/about/contact")
		assert.False(t, decision.Redirect)
	})

	t.Run("StaticAndMediaPass", func(t *testing.T) {
		assert.False(t, CheckLegalAcceptance(db, cfg, &user, "/static/app.css").Redirect)
		assert.False(t, CheckLegalAcceptance(db, cfg, &user, "/media/logo.png").Redirect)
	})

	t.Run("AcceptanceFlowPasses", func(t *testing.T) {
		decision := CheckLegalAcceptance(db, cfg, &user, "/legal/accept/tos/")
		assert.False(t, decision.Redirect)
	})

	t.Run("GateDisabledPasses", func(t *testing.T) {
		off := legalGateConfig()
		off.ForceLegalAcceptance = false
		assert.False(t, CheckLegalAcceptance(db, off, &user, "/dashboard").Redirect)

		blank := legalGateConfig()
		blank.ForcedLegalDocument = ""
		assert.False(t, CheckLegalAcceptance(db, blank, &user, "/dashboard").Redirect)
	})

	t.Run("AcceptedUserPasses", func(t *testing.T) {
		_, err := services.RecordAcceptance(db, version.ID, &user.ID, "127.0.0.1", "", nil)
		require.NoError(t, err)

		decision := CheckLegalAcceptance(db, cfg, &user, "/dashboard")
		assert.False(t, decision.Redirect)
	})

	t.Run("MissingDocumentFailsOpen", func(t *testing.T) {
		broken := legalGateConfig()
		broken.ForcedLegalDocument = "privacy"
		decision := CheckLegalAcceptance(db, broken, &user, "/dashboard")
		assert.False(t, decision.Redirect)
	})
}

func TestLegalAcceptanceMiddleware(t *testing.T) {
	db := setupLegalGateTestDB(t)
	cfg := legalGateConfig()
	createForcedDocument(t, db)

	user := models.User{Email: "user@example.com", Name: "Test User"}
	require.NoError(t, db.Create(&user).Error)

	e := echo.New()
	handler := LegalAcceptance(db, cfg)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("RedirectsUnacceptedUser", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeyUser, &user)

		err := handler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/legal/accept/tos/?next=%2Fdashboard", rec.Header().Get("Location"))
	})

	t.Run("AnonymousServed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
