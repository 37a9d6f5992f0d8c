package entities

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultMeetingType is assigned when nothing classifies the meeting.
const DefaultMeetingType = "general"

// Meeting is one archived transcript. DocumentID is the external source id
// and the idempotency key for archival.
type Meeting struct {
	ID                    int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentID            string         `gorm:"type:text;not null;uniqueIndex" json:"document_id"`
	Title                 string         `gorm:"type:text" json:"title"`
	MeetingDate           *time.Time     `gorm:"index" json:"meeting_date,omitempty"`
	ClientID              *int64         `gorm:"index" json:"client_id,omitempty"`
	Client                *Client        `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL" json:"client,omitempty"`
	MeetingSeriesID       *int64         `json:"meeting_series_id,omitempty"`
	MeetingType           string         `gorm:"type:text;default:'general'" json:"meeting_type"`
	MeetingTypeConfidence *float64       `json:"meeting_type_confidence,omitempty"`
	Transcript            *string        `gorm:"type:text" json:"transcript,omitempty"`
	EnhancedNotes         *string        `gorm:"type:text" json:"enhanced_notes,omitempty"`
	ManualNotes           *string        `gorm:"type:text" json:"manual_notes,omitempty"`
	CombinedMarkdown      *string        `gorm:"type:text" json:"combined_markdown,omitempty"`
	SummaryOverview       *string        `gorm:"type:text" json:"summary_overview,omitempty"`
	SummaryJSON           datatypes.JSON `gorm:"type:jsonb" json:"summary_json,omitempty"`
	ProcessedAt           *time.Time     `json:"processed_at,omitempty"`
	ArchivedAt            time.Time      `gorm:"default:now()" json:"archived_at"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// MeetingRef is the Tier 1 projection of a meeting: scalar fields only.
type MeetingRef struct {
	ID          int64      `json:"id"`
	DocumentID  string     `json:"document_id"`
	Title       string     `json:"title"`
	MeetingDate *time.Time `json:"meeting_date,omitempty"`
	ClientID    *int64     `json:"client_id,omitempty"`
	ClientName  *string    `json:"client_name,omitempty"`
	MeetingType string     `json:"meeting_type"`
}

// MeetingHit is one ranked full-text match.
type MeetingHit struct {
	MeetingRef
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// MeetingStats aggregates the archive for the stats overview.
type MeetingStats struct {
	TotalMeetings  int64           `json:"total_meetings"`
	TotalClients   int64           `json:"total_clients"`
	Untagged       int64           `json:"untagged"`
	LastThirtyDays int64           `json:"last_thirty_days"`
	TopClients     []ClientSummary `json:"top_clients"`
}
