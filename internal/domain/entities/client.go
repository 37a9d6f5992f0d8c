package entities

import (
	"strings"
	"time"
)

// Client is a business client that owns meetings, context documents and
// integration links.
type Client struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Slug      *string   `gorm:"type:text" json:"slug,omitempty"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// ClientSummary is a Client with its meeting count, used by listings.
type ClientSummary struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	MeetingCount int64      `json:"meeting_count"`
	LastMeeting  *time.Time `json:"last_meeting,omitempty"`
}

// Slugify derives the default slug for a client name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	return strings.ReplaceAll(s, "_", "-")
}
