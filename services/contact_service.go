package services

import (
	"fmt"
	"log"

	"site_tools_go/config"
	"site_tools_go/models"

	"gorm.io/gorm"
)

// SaveContactMessage stores a contact form submission and records it in the
// site log so admins get notified through the usual escalation path.
func SaveContactMessage(db *gorm.DB, cfg *config.Config, name, email, text, ip string, siteID *string) (*models.ContactMessage, error) {
	message := models.ContactMessage{
		Name:  name,
		Email: email,
		Text:  text,
		IP:    ip,
	}
	if err := db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}

	// Best effort: the message is already stored, a log failure is not fatal
	_, err := Log(db, cfg, "contact", fmt.Sprintf("Contact message from %s <%s>", name, email), LogOptions{
		Data:       map[string]interface{}{"text": text},
		IP:         ip,
		SiteID:     siteID,
		Owner:      &ObjectRef{Kind: "contact_message", ID: message.ID},
		MailAdmins: true,
	})
	if err != nil {
		log.Printf("[WARNING] Failed to log contact message %s: %v", message.ID, err)
	}

	return &message, nil
}
