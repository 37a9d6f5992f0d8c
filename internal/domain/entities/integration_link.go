package entities

import (
	"time"

	"gorm.io/datatypes"
)

// IntegrationKind names the external system a link points into.
type IntegrationKind string

const (
	IntegrationLinearTeam    IntegrationKind = "linear_team"
	IntegrationSlackInternal IntegrationKind = "slack_internal"
	IntegrationSlackExternal IntegrationKind = "slack_external"
)

// IntegrationKinds lists every kind in display order.
var IntegrationKinds = []IntegrationKind{
	IntegrationLinearTeam,
	IntegrationSlackInternal,
	IntegrationSlackExternal,
}

// Valid reports whether k is a known kind.
func (k IntegrationKind) Valid() bool {
	for _, known := range IntegrationKinds {
		if k == known {
			return true
		}
	}
	return false
}

// IntegrationLink associates a client with an identifier in an external
// collaboration system. One link per (client, kind).
type IntegrationLink struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID     int64             `gorm:"not null;uniqueIndex:idx_client_integration" json:"client_id"`
	Client       *Client           `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	Kind         IntegrationKind   `gorm:"column:integration_type;type:text;not null;uniqueIndex:idx_client_integration" json:"kind"`
	ExternalID   string            `gorm:"type:text;not null" json:"external_id"`
	ExternalName *string           `gorm:"type:text" json:"external_name,omitempty"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for IntegrationLink
func (IntegrationLink) TableName() string {
	return "client_integrations"
}
