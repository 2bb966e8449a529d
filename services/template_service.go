package services

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"site_tools_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// ErrTemplateNotFound is returned when no database template matches a slug
var ErrTemplateNotFound = errors.New("no matching template")

var templateSanitizer = bluemonday.UGCPolicy()

// GetDBTemplate loads a database template by slug
func GetDBTemplate(db *gorm.DB, slug string) (*models.DBTemplate, error) {
	var tmpl models.DBTemplate
	err := db.Where("slug = ?", slug).First(&tmpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &tmpl, nil
}

// RenderDBTemplate loads a database template by slug and renders it with the
// given context. The rendered output is sanitized before being returned.
func RenderDBTemplate(db *gorm.DB, slug string, context interface{}) (string, error) {
	tmpl, err := GetDBTemplate(db, slug)
	if err != nil {
		return "", err
	}

	parsed, err := template.New(tmpl.Slug).Parse(tmpl.Content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %q: %w", slug, err)
	}

	var buf bytes.Buffer
	if err := parsed.Execute(&buf, context); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", slug, err)
	}

	return templateSanitizer.Sanitize(buf.String()), nil
}

// SanitizeContent sanitizes user-supplied rich text for safe display. Used for
// legal document content, which administrators author as HTML.
func SanitizeContent(content string) string {
	return templateSanitizer.Sanitize(content)
}
