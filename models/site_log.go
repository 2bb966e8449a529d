package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogLevel is the severity of a site log entry. Lower values are more severe
// notifications-wise: Info=1 up to Critical=4, with Debug=5 as an out-of-band
// verbose level.
type LogLevel int

const (
	LogLevelInfo     LogLevel = 1
	LogLevelWarning  LogLevel = 2
	LogLevelError    LogLevel = 3
	LogLevelCritical LogLevel = 4
	LogLevelDebug    LogLevel = 5
)

// MaxLogMessageLength is the maximum length of a site log message. Longer
// messages are truncated and the overflow moved into the entry data.
const MaxLogMessageLength = 200

// String returns the display name of the level
func (l LogLevel) String() string {
	switch l {
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarning:
		return "WARNING"
	case LogLevelError:
		return "ERROR"
	case LogLevelCritical:
		return "CRITICAL"
	case LogLevelDebug:
		return "DEBUG"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// IsValid reports whether the level is one of the defined levels
func (l LogLevel) IsValid() bool {
	return l >= LogLevelInfo && l <= LogLevelDebug
}

// SiteLog is an immutable, append-only activity log entry. An entry may
// optionally reference the acting user, the site it belongs to and an owning
// object identified by a (kind, id) pair.
type SiteLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Timestamp time.Time `gorm:"not null;index:idx_sitelog_timestamp" json:"timestamp"`

	Level LogLevel `gorm:"not null;default:1;index:idx_sitelog_level" json:"level"`
	Tag   string   `gorm:"not null;size:20;default:app;index:idx_sitelog_tag" json:"tag"`

	Message string    `gorm:"not null;size:200" json:"message"`
	Data    JSONValue `gorm:"type:text" json:"data,omitempty"`

	IP     string  `gorm:"size:45;default:0.0.0.0" json:"ip"`
	UserID *string `gorm:"type:uuid;index:idx_sitelog_user" json:"user_id,omitempty"`
	SiteID *string `gorm:"type:uuid;index:idx_sitelog_site" json:"site_id,omitempty"`

	// Polymorphic owner reference: both empty or both set
	ObjectKind string `gorm:"size:50;index:idx_sitelog_object" json:"object_kind,omitempty"`
	ObjectID   string `gorm:"size:64;index:idx_sitelog_object" json:"object_id,omitempty"`

	User *User     `gorm:"foreignKey:UserID" json:"-"`
	Site *SiteInfo `gorm:"foreignKey:SiteID" json:"-"`
}

// BeforeCreate generates the UUID and stamps the creation time
func (l *SiteLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	return nil
}

// BeforeUpdate prevents modification of log entries (immutability)
func (l *SiteLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any updates
}

// BeforeDelete prevents deletion of log entries (immutability)
func (l *SiteLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any deletes
}

// HasOwner reports whether the entry references an owning object
func (l *SiteLog) HasOwner() bool {
	return l.ObjectKind != "" && l.ObjectID != ""
}

// TableName specifies the table name
func (SiteLog) TableName() string {
	return "site_logs"
}
