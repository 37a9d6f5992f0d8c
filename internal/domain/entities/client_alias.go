package entities

import (
	"strings"
	"time"
)

// ClientAlias maps an alternate name to one canonical client. Alias strings
// are stored lowercase.
type ClientAlias struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Alias     string    `gorm:"type:text;not null;uniqueIndex" json:"alias"`
	ClientID  int64     `gorm:"not null;index" json:"client_id"`
	Client    *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for ClientAlias
func (ClientAlias) TableName() string {
	return "client_aliases"
}

// NormalizeAlias returns the stored form of an alias.
func NormalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}
