package services

import (
	"testing"
	"time"

	"site_tools_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupExportTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.SiteLog{})
	return db
}

func seedLogEntries(t *testing.T, db *gorm.DB) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []models.SiteLog{
		{Level: models.LogLevelInfo, Tag: "auth", Message: "login ok", Timestamp: base},
		{Level: models.LogLevelWarning, Tag: "auth", Message: "login failed", Timestamp: base.Add(time.Hour)},
		{Level: models.LogLevelError, Tag: "billing", Message: "charge failed", Timestamp: base.Add(2 * time.Hour)},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}
}

func TestListSiteLogs(t *testing.T) {
	db := setupExportTestDB()
	seedLogEntries(t, db)

	t.Run("NewestFirst", func(t *testing.T) {
		entries, err := ListSiteLogs(db, SiteLogFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "charge failed", entries[0].Message)
		assert.Equal(t, "login ok", entries[2].Message)
	})

	t.Run("FilterByLevel", func(t *testing.T) {
		entries, err := ListSiteLogs(db, SiteLogFilter{Level: models.LogLevelWarning})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "login failed", entries[0].Message)
	})

	t.Run("FilterByTag", func(t *testing.T) {
		entries, err := ListSiteLogs(db, SiteLogFilter{Tag: "auth"})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("TimeWindow", func(t *testing.T) {
		since := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
		until := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
		entries, err := ListSiteLogs(db, SiteLogFilter{Since: &since, Until: &until})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "login failed", entries[0].Message)
	})

	t.Run("LimitAndOffset", func(t *testing.T) {
		entries, err := ListSiteLogs(db, SiteLogFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "login failed", entries[0].Message)
	})
}

func TestExportSiteLogsExcel(t *testing.T) {
	db := setupExportTestDB()
	seedLogEntries(t, db)

	buf, err := ExportSiteLogsExcel(db, SiteLogFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Site Log")
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 3 entries

	assert.Equal(t, "Timestamp", rows[0][0])
	assert.Equal(t, "Level", rows[0][1])

	// Newest entry right under the header
	assert.Equal(t, "ERROR", rows[1][1])
	assert.Equal(t, "charge failed", rows[1][3])
}
