package services

import (
	"errors"
	"fmt"
	"strings"

	"site_tools_go/models"

	"gorm.io/gorm"
)

// ErrSiteNotFound is returned when no site matches a domain lookup
var ErrSiteNotFound = errors.New("no matching site")

// GetSiteByDomain resolves the site serving a domain. The port part of a
// Host header value is ignored.
func GetSiteByDomain(db *gorm.DB, domain string) (*models.SiteInfo, error) {
	if host, _, found := strings.Cut(domain, ":"); found {
		domain = host
	}
	var site models.SiteInfo
	err := db.Where("domain = ?", domain).First(&site).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to look up site: %w", err)
	}
	return &site, nil
}

// GetSiteVars returns the coerced values of a site's variables. When names is
// non-nil, only those variables are returned. A variable whose stored value
// does not coerce to its declared type fails the whole call.
func GetSiteVars(db *gorm.DB, siteID string, names []string) (map[string]interface{}, error) {
	query := db.Where("site_id = ?", siteID)
	if names != nil {
		query = query.Where("name IN ?", names)
	}

	var vars []models.SiteVar
	if err := query.Find(&vars).Error; err != nil {
		return nil, fmt.Errorf("failed to load site variables: %w", err)
	}

	values := make(map[string]interface{}, len(vars))
	for i := range vars {
		value, err := vars[i].Value()
		if err != nil {
			return nil, err
		}
		values[vars[i].Name] = value
	}
	return values, nil
}

// GetSiteVar returns one coerced site variable value, or the given default if
// the variable does not exist
func GetSiteVar(db *gorm.DB, siteID, name string, defaultValue interface{}) (interface{}, error) {
	values, err := GetSiteVars(db, siteID, []string{name})
	if err != nil {
		return nil, err
	}
	if value, ok := values[name]; ok {
		return value, nil
	}
	return defaultValue, nil
}

// SetSiteVar creates or updates a typed site variable, validating the value
// against the declared type first
func SetSiteVar(db *gorm.DB, siteID, name string, varType models.SiteVarType, rawValue string) (*models.SiteVar, error) {
	v := models.SiteVar{
		SiteID:   siteID,
		Name:     name,
		Type:     varType,
		RawValue: rawValue,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}

	var existing models.SiteVar
	err := db.Where("site_id = ? AND name = ?", siteID, name).First(&existing).Error
	if err == nil {
		existing.Type = varType
		existing.RawValue = rawValue
		if err := db.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update site variable: %w", err)
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up site variable: %w", err)
	}

	if err := db.Create(&v).Error; err != nil {
		return nil, fmt.Errorf("failed to create site variable: %w", err)
	}
	return &v, nil
}
