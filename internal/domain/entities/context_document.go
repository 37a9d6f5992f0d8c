package entities

import "time"

// ContextType is the fixed set of context document kinds.
type ContextType string

const (
	ContextTypeNote     ContextType = "note"
	ContextTypePRD      ContextType = "prd"
	ContextTypeEstimate ContextType = "estimate"
	ContextTypeOutcome  ContextType = "outcome"
	ContextTypeContract ContextType = "contract"
)

// Valid reports whether t is one of the known context types.
func (t ContextType) Valid() bool {
	switch t {
	case ContextTypeNote, ContextTypePRD, ContextTypeEstimate, ContextTypeOutcome, ContextTypeContract:
		return true
	}
	return false
}

// ContextDocument is user-managed reference material attached to a client.
type ContextDocument struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID    int64       `gorm:"not null;index" json:"client_id"`
	Client      *Client     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	Title       string      `gorm:"type:text;not null" json:"title"`
	ContextType ContextType `gorm:"type:text;not null;default:'note'" json:"context_type"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	Summary     *string     `gorm:"type:text" json:"summary,omitempty"`
	SourceURL   *string     `gorm:"type:text" json:"source_url,omitempty"`
	CreatedAt   time.Time   `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for ContextDocument
func (ContextDocument) TableName() string {
	return "client_context"
}

// ContextRef is the Tier 1 projection of a context document.
type ContextRef struct {
	ID          int64       `json:"id"`
	ClientID    int64       `json:"client_id"`
	ClientName  string      `json:"client_name"`
	Title       string      `json:"title"`
	ContextType ContextType `json:"context_type"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ContextHit is one ranked full-text match over context documents.
type ContextHit struct {
	ContextRef
	Preview string  `json:"preview"`
	Score   float64 `json:"score"`
}
