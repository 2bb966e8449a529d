package services

import (
	"errors"
	"fmt"

	"site_tools_go/models"

	"gorm.io/gorm"
)

var (
	// ErrDocumentNotFound is returned when no legal document matches the lookup
	ErrDocumentNotFound = errors.New("no matching legal document")
	// ErrVersionNotFound is returned when a document exists but the requested
	// version does not (or the document has no versions at all)
	ErrVersionNotFound = errors.New("no matching legal document version")
)

// ResolveDocumentVersion resolves the applicable legal document version.
//
// If identifier is non-empty, the document with that identifier and the exact
// country scope is used (a nil country matches only unscoped documents, not
// any document). If identifier is empty, the default document for the country
// scope is used; when several documents are incorrectly flagged default for
// the same scope, the one with the lowest identifier wins.
//
// If versionLabel is non-empty, that version of the resolved document is
// returned; otherwise the version with the latest effective date is returned.
func ResolveDocumentVersion(db *gorm.DB, identifier, versionLabel string, country *string) (*models.LegalDocumentVersion, error) {
	var document models.LegalDocument

	query := db.Model(&models.LegalDocument{})
	if country != nil {
		query = query.Where("country = ?", *country)
	} else {
		query = query.Where("country IS NULL")
	}

	if identifier != "" {
		query = query.Where("identifier = ?", identifier)
	} else {
		// Deterministic tie-break when more than one default exists
		query = query.Where("\"default\" = ?", true).Order("identifier ASC")
	}

	if err := query.First(&document).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to look up legal document: %w", err)
	}

	if versionLabel != "" {
		return GetDocumentVersion(db, document.ID, versionLabel)
	}
	return GetLatestVersion(db, document.ID)
}

// GetLatestVersion returns the version of a document with the greatest
// effective date, or ErrVersionNotFound if the document has no versions
func GetLatestVersion(db *gorm.DB, documentID string) (*models.LegalDocumentVersion, error) {
	var version models.LegalDocumentVersion
	err := db.Where("document_id = ?", documentID).
		Order("date DESC").
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to look up latest document version: %w", err)
	}
	return &version, nil
}

// GetDocumentVersion returns the version of a document with the given label,
// or ErrVersionNotFound
func GetDocumentVersion(db *gorm.DB, documentID, versionLabel string) (*models.LegalDocumentVersion, error) {
	var version models.LegalDocumentVersion
	err := db.Where("document_id = ? AND version = ?", documentID, versionLabel).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to look up document version: %w", err)
	}
	return &version, nil
}

// AcceptedBy returns the earliest acceptance of a document version by a user,
// or nil if the user never accepted it. Every call re-queries the store.
func AcceptedBy(db *gorm.DB, versionID, userID string) (*models.LegalDocumentAcceptance, error) {
	var acceptance models.LegalDocumentAcceptance
	err := db.Where("version_id = ? AND user_id = ?", versionID, userID).
		Order("timestamp ASC").
		First(&acceptance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up acceptance: %w", err)
	}
	return &acceptance, nil
}

// RecordAcceptance persists a new acceptance of a document version. It does
// not check for duplicates: calling it twice creates two rows. Callers that
// need idempotence must check AcceptedBy first.
func RecordAcceptance(db *gorm.DB, versionID string, userID *string, ip, description string, data interface{}) (*models.LegalDocumentAcceptance, error) {
	acceptance := models.LegalDocumentAcceptance{
		VersionID:   versionID,
		UserID:      userID,
		IP:          ip,
		Description: description,
		Data:        models.NewJSONValue(data),
	}
	if err := db.Create(&acceptance).Error; err != nil {
		return nil, fmt.Errorf("failed to record acceptance: %w", err)
	}
	return &acceptance, nil
}
