package entities

import "time"

// MeetingSeries groups recurring meetings.
type MeetingSeries struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string    `gorm:"type:text;not null" json:"name"`
	ClientID          *int64    `gorm:"index" json:"client_id,omitempty"`
	Client            *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL" json:"client,omitempty"`
	MeetingType       *string   `gorm:"type:text" json:"meeting_type,omitempty"`
	RecurrencePattern *string   `gorm:"type:text" json:"recurrence_pattern,omitempty"`
	Notes             *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for MeetingSeries
func (MeetingSeries) TableName() string {
	return "meeting_series"
}
