package services

import (
	"fmt"
	"log"
	"sync"

	"site_tools_go/config"
	"site_tools_go/models"

	"gorm.io/gorm"
)

// ObjectRef identifies the owning object of a log entry as a (kind, id) pair
type ObjectRef struct {
	Kind string
	ID   string
}

// ObjectLoader loads the object behind an ObjectRef
type ObjectLoader func(db *gorm.DB, id string) (interface{}, error)

var (
	objectLoadersMu sync.RWMutex
	objectLoaders   = map[string]ObjectLoader{}
)

// RegisterObjectLoader registers a loader for an owner kind. Registrations
// happen at startup; later registrations for the same kind replace earlier ones.
func RegisterObjectLoader(kind string, loader ObjectLoader) {
	objectLoadersMu.Lock()
	defer objectLoadersMu.Unlock()
	objectLoaders[kind] = loader
}

// LoadObject loads the owning object of a log entry through the registered
// loader for its kind
func LoadObject(db *gorm.DB, entry *models.SiteLog) (interface{}, error) {
	if !entry.HasOwner() {
		return nil, nil
	}
	objectLoadersMu.RLock()
	loader, ok := objectLoaders[entry.ObjectKind]
	objectLoadersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no object loader registered for kind %q", entry.ObjectKind)
	}
	return loader(db, entry.ObjectID)
}

// LogOptions carries the optional parameters of a Log call
type LogOptions struct {
	Data       interface{}            // Extra structured payload stored with the entry
	Level      models.LogLevel        // Defaults to Info
	Owner      *ObjectRef             // Owning object, if any
	IP         string                 // Originating IP, defaults to 0.0.0.0
	UserID     *string                // Acting user, if any
	SiteID     *string                // Site the entry belongs to, if any
	Err        error                  // Error being reported; its text is merged into Data
	MailAdmins bool                   // Force an admin notification regardless of level
	Callback   func(*models.SiteLog)  // Invoked with the persisted entry
	Mailer     Sender                 // Mail transport override, used by tests
}

// Log appends an immutable entry to the site log.
//
// Messages longer than models.MaxLogMessageLength are truncated and the
// overflow is merged into the entry data so nothing is lost. When opts.Err is
// set its formatted text is merged into the data as well. Admin notification
// is attempted when opts.MailAdmins is set or the entry level is at or below
// the configured threshold; notification failures are logged and swallowed,
// they never fail the append.
func Log(db *gorm.DB, cfg *config.Config, tag, message string, opts LogOptions) (*models.SiteLog, error) {
	level := opts.Level
	if level == 0 {
		level = models.LogLevelInfo
	}

	data := opts.Data

	// Merge reported error into data
	if opts.Err != nil {
		data = mergeData(data, "error", fmt.Sprintf("%+v", opts.Err))
	}

	// Truncate overlong messages, keeping the overflow in data
	if len(message) > models.MaxLogMessageLength {
		data = mergeData(data, "message_overflow", message[models.MaxLogMessageLength:])
		message = message[:models.MaxLogMessageLength]
	}

	ip := opts.IP
	if ip == "" {
		ip = "0.0.0.0"
	}

	entry := models.SiteLog{
		Level:   level,
		Tag:     tag,
		Message: message,
		Data:    models.NewJSONValue(data),
		IP:      ip,
		UserID:  opts.UserID,
		SiteID:  opts.SiteID,
	}
	if opts.Owner != nil {
		entry.ObjectKind = opts.Owner.Kind
		entry.ObjectID = opts.Owner.ID
	}

	if err := db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to write site log entry: %w", err)
	}

	// Mail admins if requested or the level is severe enough. Debug (5) sits
	// above Critical (4) numerically, so a threshold never matches it unless
	// explicitly configured that high.
	if opts.MailAdmins || (cfg.LogMailAdminsLevel > 0 && int(level) <= cfg.LogMailAdminsLevel) {
		subject := fmt.Sprintf("[%s] %s: %s", level, tag, message)
		body := renderLogMail(&entry)
		if err := MailAdmins(cfg, opts.Mailer, subject, body); err != nil {
			// Best effort only - a mail failure must never fail the append
			log.Printf("[WARNING] Failed to mail admins for site log entry %s: %v", entry.ID, err)
		}
	}

	if opts.Callback != nil {
		opts.Callback(&entry)
	}

	return &entry, nil
}

// renderLogMail renders a plain-text representation of a log entry for the
// admin notification mail
func renderLogMail(entry *models.SiteLog) string {
	body := fmt.Sprintf("Timestamp: %s\nLevel: %s\nTag: %s\nIP: %s\nMessage: %s\n",
		entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Level, entry.Tag, entry.IP, entry.Message)
	if entry.UserID != nil {
		body += fmt.Sprintf("User: %s\n", *entry.UserID)
	}
	if entry.HasOwner() {
		body += fmt.Sprintf("Object: %s/%s\n", entry.ObjectKind, entry.ObjectID)
	}
	if !entry.Data.IsEmpty() {
		body += fmt.Sprintf("Data: %s\n", entry.Data.String())
	}
	return body
}

// mergeData merges a key/value pair into an arbitrary data payload without
// discarding what the caller supplied. Maps gain a key, slices gain an
// element, anything else is wrapped alongside the new value.
func mergeData(data interface{}, key string, value string) interface{} {
	switch d := data.(type) {
	case nil:
		return map[string]interface{}{key: value}
	case map[string]interface{}:
		d[key] = value
		return d
	case []interface{}:
		return append(d, map[string]interface{}{key: value})
	default:
		return map[string]interface{}{"data": d, key: value}
	}
}
