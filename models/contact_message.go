package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage stores a message submitted through the public contact form
type ContactMessage struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	Name    string `gorm:"not null;size:150" json:"name"`
	Email   string `gorm:"not null;size:255" json:"email"`
	Text    string `gorm:"type:text;not null" json:"text"`
	IP      string `gorm:"size:45" json:"ip,omitempty"`
	Replied bool   `gorm:"not null;default:false" json:"replied"`
	Notes   string `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate generates the UUID and stamps the creation time
func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return nil
}

// TableName specifies the table name
func (ContactMessage) TableName() string {
	return "contact_messages"
}
