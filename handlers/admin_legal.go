package handlers

import (
	"errors"
	"net/http"
	"time"

	"site_tools_go/db"
	"site_tools_go/models"
	"site_tools_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Administrative CRUD over legal documents, versions and acceptances.
// All routes are mounted behind RequireStaff.

type legalDocumentRequest struct {
	Identifier  string  `json:"identifier"`
	Name        string  `json:"name"`
	Country     *string `json:"country"`
	Default     bool    `json:"default"`
	Description string  `json:"description"`
}

type legalVersionRequest struct {
	Language string `json:"language"`
	Date     string `json:"date"` // Effective date, YYYY-MM-DD
	Version  string `json:"version"`
	Content  string `json:"content"`
}

// ListLegalDocumentsHandler returns all legal documents
func ListLegalDocumentsHandler(c echo.Context) error {
	var documents []models.LegalDocument
	if err := db.DB.Order("identifier ASC").Find(&documents).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list legal documents")
	}
	return c.JSON(http.StatusOK, documents)
}

// CreateLegalDocumentHandler creates a legal document
func CreateLegalDocumentHandler(c echo.Context) error {
	var req legalDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Identifier == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Identifier and name are required")
	}
	if req.Country != nil && !models.IsValidCountryCode(*req.Country) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid country code")
	}

	document := models.LegalDocument{
		Identifier:  req.Identifier,
		Name:        req.Name,
		Country:     req.Country,
		Default:     req.Default,
		Description: req.Description,
	}
	if err := db.DB.Create(&document).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "A document with this identifier already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create legal document")
	}
	return c.JSON(http.StatusCreated, document)
}

// UpdateLegalDocumentHandler updates a legal document's mutable fields
func UpdateLegalDocumentHandler(c echo.Context) error {
	var document models.LegalDocument
	if err := db.DB.First(&document, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Legal document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load legal document")
	}

	var req legalDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Country != nil && !models.IsValidCountryCode(*req.Country) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid country code")
	}

	document.Name = req.Name
	document.Country = req.Country
	document.Default = req.Default
	document.Description = req.Description
	if err := db.DB.Save(&document).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update legal document")
	}
	return c.JSON(http.StatusOK, document)
}

// ListLegalVersionsHandler returns all versions of a document, newest first
func ListLegalVersionsHandler(c echo.Context) error {
	var versions []models.LegalDocumentVersion
	err := db.DB.Where("document_id = ?", c.Param("id")).
		Order("date DESC").
		Find(&versions).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list versions")
	}
	return c.JSON(http.StatusOK, versions)
}

// CreateLegalVersionHandler adds a version to a document. The (document,
// version label) pair is unique; duplicates are rejected by the store.
func CreateLegalVersionHandler(c echo.Context) error {
	var document models.LegalDocument
	if err := db.DB.First(&document, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Legal document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load legal document")
	}

	var req legalVersionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Version == "" || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Version and content are required")
	}
	if req.Language != "" && !models.IsValidLanguageCode(req.Language) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid language code")
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		}
		date = parsed
	}

	version := models.LegalDocumentVersion{
		DocumentID: document.ID,
		Language:   req.Language,
		Date:       date,
		Version:    req.Version,
		Content:    req.Content,
	}
	if err := db.DB.Create(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "This document already has a version with that label")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create version")
	}
	return c.JSON(http.StatusCreated, version)
}

// ListAcceptancesHandler returns acceptances of a document version
func ListAcceptancesHandler(c echo.Context) error {
	var acceptances []models.LegalDocumentAcceptance
	err := db.DB.Where("version_id = ?", c.Param("versionId")).
		Order("timestamp ASC").
		Find(&acceptances).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list acceptances")
	}
	return c.JSON(http.StatusOK, acceptances)
}

type acceptanceRequest struct {
	UserID      *string     `json:"user_id"`
	IP          string      `json:"ip"`
	Description string      `json:"description"`
	Data        interface{} `json:"data"`
}

// CreateAcceptanceHandler records an acceptance on a user's behalf, used for
// acceptances collected outside the normal flow (paper forms, support cases)
func CreateAcceptanceHandler(c echo.Context) error {
	var version models.LegalDocumentVersion
	if err := db.DB.First(&version, "id = ?", c.Param("versionId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Document version not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load document version")
	}

	var req acceptanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	acceptance, err := services.RecordAcceptance(db.DB, version.ID, req.UserID, req.IP, req.Description, req.Data)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record acceptance")
	}
	return c.JSON(http.StatusCreated, acceptance)
}

// DeleteAcceptanceHandler removes an acceptance record
func DeleteAcceptanceHandler(c echo.Context) error {
	result := db.DB.Delete(&models.LegalDocumentAcceptance{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete acceptance")
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Acceptance not found")
	}
	return c.NoContent(http.StatusNoContent)
}
