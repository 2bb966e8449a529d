package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LegalDocument is a versioned legal text (terms of service, privacy policy,
// cookie policy...). A document may be scoped to a country; a null country
// means the document is not restricted to any jurisdiction. At most one
// document per country scope should carry the default flag.
type LegalDocument struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Identifier  string  `gorm:"uniqueIndex;not null;size:20" json:"identifier"`
	Name        string  `gorm:"not null;size:100" json:"name"`
	Country     *string `gorm:"size:2;index" json:"country,omitempty"`
	Default     bool    `gorm:"not null;default:false" json:"default"`
	Description string  `gorm:"type:text" json:"description,omitempty"`

	Versions []LegalDocumentVersion `gorm:"foreignKey:DocumentID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (d *LegalDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// CountryDisplay returns the display name of the document's country scope,
// or an empty string for unscoped documents
func (d *LegalDocument) CountryDisplay() string {
	if d.Country == nil {
		return ""
	}
	return CountryName(*d.Country)
}

// TableName specifies the table name
func (LegalDocument) TableName() string {
	return "legal_documents"
}

// LegalDocumentVersion is one concrete revision of a legal document. The
// version label is unique within its document. The version in force is the one
// with the greatest effective date.
type LegalDocumentVersion struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	DocumentID string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_legal_version_doc_version" json:"document_id"`
	Language   string    `gorm:"not null;size:2" json:"language"`
	Date       time.Time `gorm:"not null;index" json:"date"` // Date this version becomes effective
	Version    string    `gorm:"not null;size:20;uniqueIndex:idx_legal_version_doc_version" json:"version"`
	Content    string    `gorm:"type:text;not null" json:"content"`

	Document *LegalDocument `gorm:"foreignKey:DocumentID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (v *LegalDocumentVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (LegalDocumentVersion) TableName() string {
	return "legal_document_versions"
}

// LegalDocumentAcceptance records that a user accepted a specific document
// version. Acceptance always targets a concrete version, never a bare
// document. No uniqueness is enforced: repeated acceptances create repeated
// rows, and "has accepted" is a query, not a stored flag.
type LegalDocumentAcceptance struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	VersionID   string    `gorm:"type:uuid;not null;index" json:"version_id"`
	UserID      *string   `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Description string    `gorm:"size:50" json:"description,omitempty"`
	IP          string    `gorm:"size:45" json:"ip,omitempty"`
	Data        JSONValue `gorm:"type:text" json:"data,omitempty"`

	Version *LegalDocumentVersion `gorm:"foreignKey:VersionID" json:"-"`
	User    *User                 `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates the UUID and stamps the acceptance time
func (a *LegalDocumentAcceptance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	return nil
}

// TableName specifies the table name
func (LegalDocumentAcceptance) TableName() string {
	return "legal_document_acceptances"
}
