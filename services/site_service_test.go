package services

import (
	"testing"

	"site_tools_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSiteTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.SiteInfo{}, &models.SiteVar{})
	return db
}

func TestGetSiteByDomain(t *testing.T) {
	db := setupSiteTestDB()
	site := models.SiteInfo{Domain: "example.com", Name: "Example", Active: true}
	require.NoError(t, db.Create(&site).Error)

	t.Run("Found", func(t *testing.T) {
		found, err := GetSiteByDomain(db, "example.com")
		assert.NoError(t, err)
		assert.Equal(t, site.ID, found.ID)
	})

	t.Run("IgnoresPort", func(t *testing.T) {
		found, err := GetSiteByDomain(db, "example.com:8080")
		assert.NoError(t, err)
		assert.Equal(t, site.ID, found.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := GetSiteByDomain(db, "other.com")
		assert.ErrorIs(t, err, ErrSiteNotFound)
	})
}

func TestSiteVars(t *testing.T) {
	db := setupSiteTestDB()
	site := models.SiteInfo{Domain: "example.com", Name: "Example"}
	require.NoError(t, db.Create(&site).Error)

	_, err := SetSiteVar(db, site.ID, "max_items", models.SiteVarInt, "42")
	require.NoError(t, err)
	_, err = SetSiteVar(db, site.ID, "welcome", models.SiteVarString, "hello")
	require.NoError(t, err)
	_, err = SetSiteVar(db, site.ID, "features", models.SiteVarList, "a, b, c")
	require.NoError(t, err)

	t.Run("AllVars", func(t *testing.T) {
		values, err := GetSiteVars(db, site.ID, nil)
		assert.NoError(t, err)
		assert.Equal(t, 42, values["max_items"])
		assert.Equal(t, "hello", values["welcome"])
		assert.Equal(t, []string{"a", "b", "c"}, values["features"])
	})

	t.Run("NamedSubset", func(t *testing.T) {
		values, err := GetSiteVars(db, site.ID, []string{"max_items"})
		assert.NoError(t, err)
		assert.Len(t, values, 1)
		assert.Equal(t, 42, values["max_items"])
	})

	t.Run("SingleVarWithDefault", func(t *testing.T) {
		value, err := GetSiteVar(db, site.ID, "missing", "fallback")
		assert.NoError(t, err)
		assert.Equal(t, "fallback", value)
	})

	t.Run("UpdateExisting", func(t *testing.T) {
		_, err := SetSiteVar(db, site.ID, "max_items", models.SiteVarInt, "7")
		assert.NoError(t, err)

		value, err := GetSiteVar(db, site.ID, "max_items", nil)
		assert.NoError(t, err)
		assert.Equal(t, 7, value)

		// Updates replace, they do not accumulate rows
		var count int64
		db.Model(&models.SiteVar{}).Where("site_id = ? AND name = ?", site.ID, "max_items").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("RejectsBadValue", func(t *testing.T) {
		_, err := SetSiteVar(db, site.ID, "broken", models.SiteVarInt, "not a number")
		assert.Error(t, err)
	})

	t.Run("RejectsUnknownType", func(t *testing.T) {
		_, err := SetSiteVar(db, site.ID, "odd", "binary", "0101")
		assert.ErrorIs(t, err, models.ErrInvalidVarType)
	})
}
