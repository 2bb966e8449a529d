package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DBTemplate is a text/template stored in the database, addressed by slug.
// Rendering happens in the template service so the model stays storage-only.
type DBTemplate struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Slug    string `gorm:"uniqueIndex;not null;size:50" json:"slug"`
	Content string `gorm:"type:text" json:"content"`
}

// BeforeCreate hook to generate UUID
func (t *DBTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (DBTemplate) TableName() string {
	return "db_templates"
}
