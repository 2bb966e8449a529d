package services

import (
	"testing"

	"site_tools_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTemplateTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.DBTemplate{})
	return db
}

func TestGetDBTemplate(t *testing.T) {
	db := setupTemplateTestDB()
	tmpl := models.DBTemplate{Slug: "welcome", Content: "Hello {{.Name}}"}
	require.NoError(t, db.Create(&tmpl).Error)

	t.Run("Found", func(t *testing.T) {
		found, err := GetDBTemplate(db, "welcome")
		assert.NoError(t, err)
		assert.Equal(t, tmpl.ID, found.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := GetDBTemplate(db, "missing")
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}

func TestRenderDBTemplate(t *testing.T) {
	db := setupTemplateTestDB()
	require.NoError(t, db.Create(&models.DBTemplate{
		Slug:    "greeting",
		Content: "<p>Hello {{.Name}}</p>",
	}).Error)
	require.NoError(t, db.Create(&models.DBTemplate{
		Slug:    "unsafe",
		Content: `<script>alert(1)</script><b>{{.Name}}</b>`,
	}).Error)
	require.NoError(t, db.Create(&models.DBTemplate{
		Slug:    "broken",
		Content: "{{.Name",
	}).Error)

	t.Run("RendersContext", func(t *testing.T) {
		out, err := RenderDBTemplate(db, "greeting", map[string]string{"Name": "Ana"})
		assert.NoError(t, err)
		assert.Equal(t, "<p>Hello Ana</p>", out)
	})

	t.Run("StripsUnsafeMarkup", func(t *testing.T) {
		out, err := RenderDBTemplate(db, "unsafe", map[string]string{"Name": "Ana"})
		assert.NoError(t, err)
		assert.NotContains(t, out, "<script>")
		assert.Contains(t, out, "<b>Ana</b>")
	})

	t.Run("ParseErrorReported", func(t *testing.T) {
		_, err := RenderDBTemplate(db, "broken", nil)
		assert.Error(t, err)
	})

	t.Run("MissingTemplate", func(t *testing.T) {
		_, err := RenderDBTemplate(db, "missing", nil)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}

func TestSanitizeContent(t *testing.T) {
	out := SanitizeContent(`<a href="javascript:alert(1)">link</a><em>ok</em>`)
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "<em>ok</em>")
}
