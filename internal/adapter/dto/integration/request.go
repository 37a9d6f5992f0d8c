package integration

// LinkLinearTeamRequest is the input of link_client_to_linear_team
type LinkLinearTeamRequest struct {
	ClientName     string `json:"client_name" jsonschema:"Client name; created when no client or alias matches" validate:"required"`
	LinearTeamID   string `json:"linear_team_id" jsonschema:"Linear team ID" validate:"required"`
	LinearTeamName string `json:"linear_team_name,omitempty" jsonschema:"Human-readable team name"`
	LinearTeamKey  string `json:"linear_team_key,omitempty" jsonschema:"Issue key prefix, e.g. ACME for ACME-504"`
}

// LinkSlackRequest is the input of link_client_to_slack
type LinkSlackRequest struct {
	ClientName        string `json:"client_name" jsonschema:"Client name; created when no client or alias matches" validate:"required"`
	InternalChannelID string `json:"internal_channel_id" jsonschema:"Slack channel ID of the internal team channel" validate:"required"`
	ExternalChannelID string `json:"external_channel_id,omitempty" jsonschema:"Slack channel ID of the shared channel with the client"`
}

// UnlinkRequest is the input of unlink_client_integration
type UnlinkRequest struct {
	ClientName      string `json:"client_name" jsonschema:"Client name or alias" validate:"required"`
	IntegrationType string `json:"integration_type,omitempty" jsonschema:"One of linear_team, slack_internal, slack_external (default linear_team)" validate:"omitempty,oneof=linear_team slack_internal slack_external"`
}

// ClientNameRequest identifies the client whose links are read
type ClientNameRequest struct {
	ClientName string `json:"client_name" jsonschema:"Client name or alias" validate:"required"`
}
