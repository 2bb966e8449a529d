package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SiteVarType identifies the declared type of a site variable value
type SiteVarType string

const (
	SiteVarString SiteVarType = "string"
	SiteVarInt    SiteVarType = "int"
	SiteVarFloat  SiteVarType = "float"
	SiteVarBool   SiteVarType = "bool"
	SiteVarList   SiteVarType = "list"
	SiteVarJSON   SiteVarType = "json"
)

// ErrInvalidVarType is returned when a site variable declares an unknown type
var ErrInvalidVarType = errors.New("invalid site variable type")

// SiteInfo holds per-site configuration: which domain it serves, whether it is
// active and whether it is currently under maintenance.
type SiteInfo struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Domain      string `gorm:"uniqueIndex;not null" json:"domain"`
	Name        string `gorm:"not null" json:"name"`
	Maintenance bool   `gorm:"not null;default:false" json:"maintenance"`
	Active      bool   `gorm:"not null;default:false" json:"active"`
	Robots      string `gorm:"type:text" json:"robots,omitempty"` // Appended to the global robots.txt

	Vars []SiteVar `gorm:"foreignKey:SiteID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (s *SiteInfo) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (SiteInfo) TableName() string {
	return "site_info"
}

// SiteVar is a typed configuration variable bound to a site. The raw value is
// stored as text and coerced to the declared type on access.
type SiteVar struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SiteID   string      `gorm:"type:uuid;not null;index;uniqueIndex:idx_sitevar_site_name" json:"site_id"`
	Name     string      `gorm:"not null;size:50;uniqueIndex:idx_sitevar_site_name" json:"name"`
	Type     SiteVarType `gorm:"not null;size:15;default:string" json:"type"`
	RawValue string      `gorm:"column:value;type:text" json:"value"`

	Site *SiteInfo `gorm:"foreignKey:SiteID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (v *SiteVar) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (SiteVar) TableName() string {
	return "site_vars"
}

// Value coerces the stored text to the variable's declared type.
// Returns an error if the text cannot be coerced or the type is unknown.
func (v *SiteVar) Value() (interface{}, error) {
	switch v.Type {
	case SiteVarString, "":
		return v.RawValue, nil
	case SiteVarInt:
		n, err := strconv.Atoi(strings.TrimSpace(v.RawValue))
		if err != nil {
			return nil, fmt.Errorf("variable %q is not a valid integer: %w", v.Name, err)
		}
		return n, nil
	case SiteVarFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.RawValue), 64)
		if err != nil {
			return nil, fmt.Errorf("variable %q is not a valid float: %w", v.Name, err)
		}
		return f, nil
	case SiteVarBool:
		switch strings.ToLower(strings.TrimSpace(v.RawValue)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("variable %q is not a valid boolean, must be true or false: %s", v.Name, v.RawValue)
	case SiteVarList:
		parts := strings.Split(v.RawValue, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			items = append(items, strings.TrimSpace(p))
		}
		return items, nil
	case SiteVarJSON:
		var decoded interface{}
		if err := json.Unmarshal([]byte(v.RawValue), &decoded); err != nil {
			return nil, fmt.Errorf("variable %q is not valid JSON: %w", v.Name, err)
		}
		return decoded, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidVarType, v.Type)
}

// Validate checks the declared type and that the stored value coerces to it
func (v *SiteVar) Validate() error {
	switch v.Type {
	case SiteVarString, SiteVarInt, SiteVarFloat, SiteVarBool, SiteVarList, SiteVarJSON, "":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidVarType, v.Type)
	}
	_, err := v.Value()
	return err
}
