package client

// CreateClientRequest is the input of create_client
type CreateClientRequest struct {
	Name  string `json:"name" jsonschema:"Canonical client name" validate:"required,max=255"`
	Slug  string `json:"slug,omitempty" jsonschema:"URL-friendly identifier (derived from the name when omitted)" validate:"omitempty,max=255"`
	Notes string `json:"notes,omitempty" jsonschema:"Free-form notes about the client"`
}

// ClientNameRequest identifies one client by name or alias
type ClientNameRequest struct {
	ClientName string `json:"client_name" jsonschema:"Client name or alias" validate:"required"`
}

// OptionalClientRequest optionally narrows a listing to one client
type OptionalClientRequest struct {
	ClientName string `json:"client_name,omitempty" jsonschema:"Only entries of this client"`
}

// MergeClientsRequest is the input of merge_clients
type MergeClientsRequest struct {
	SourceName string `json:"source_name" jsonschema:"Client to merge from; deleted afterwards" validate:"required"`
	TargetName string `json:"target_name" jsonschema:"Existing client to merge into; kept" validate:"required"`
}

// RenameClientRequest is the input of rename_client
type RenameClientRequest struct {
	OldName string `json:"old_name" jsonschema:"Current client name" validate:"required"`
	NewName string `json:"new_name" jsonschema:"New canonical name; the old name becomes an alias" validate:"required,max=255"`
}

// AddAliasRequest is the input of add_client_alias
type AddAliasRequest struct {
	Alias      string `json:"alias" jsonschema:"Alternate name to recognize in meeting titles" validate:"required,max=255"`
	ClientName string `json:"client_name" jsonschema:"Existing client the alias maps to" validate:"required"`
}

// AliasRequest identifies one alias
type AliasRequest struct {
	Alias string `json:"alias" jsonschema:"Alias to remove" validate:"required"`
}

// AddContextRequest is the input of add_client_context
type AddContextRequest struct {
	ClientName  string `json:"client_name" jsonschema:"Existing client name or alias" validate:"required"`
	Title       string `json:"title" jsonschema:"Document title, e.g. Q1 estimate" validate:"required,max=500"`
	Content     string `json:"content" jsonschema:"Full text of the document" validate:"required"`
	ContextType string `json:"context_type,omitempty" jsonschema:"One of note, prd, estimate, outcome, contract (default note)" validate:"omitempty,oneof=note prd estimate outcome contract"`
	Summary     string `json:"summary,omitempty" jsonschema:"Short summary of the document"`
	SourceURL   string `json:"source_url,omitempty" jsonschema:"Link to the original document" validate:"omitempty,url"`
}

// ContextIDRequest identifies one context document
type ContextIDRequest struct {
	ContextID int64 `json:"context_id" jsonschema:"Context document ID as shown in brackets in listings" validate:"required,min=1"`
}

// SearchContextRequest is the input of search_client_context
type SearchContextRequest struct {
	Query      string `json:"query" jsonschema:"Keywords to find in context documents" validate:"required"`
	ClientName string `json:"client_name,omitempty" jsonschema:"Only documents of this client"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10, max 50)" validate:"omitempty,min=1,max=50"`
}

// UpdateContextRequest is the input of update_client_context. Omitted fields
// are left unchanged.
type UpdateContextRequest struct {
	ContextID   int64   `json:"context_id" jsonschema:"Context document ID" validate:"required,min=1"`
	Title       *string `json:"title,omitempty" jsonschema:"New title" validate:"omitempty,min=1,max=500"`
	Content     *string `json:"content,omitempty" jsonschema:"New content; replaces the existing text" validate:"omitempty,min=1"`
	ContextType *string `json:"context_type,omitempty" jsonschema:"New type: note, prd, estimate, outcome or contract" validate:"omitempty,oneof=note prd estimate outcome contract"`
	Summary     *string `json:"summary,omitempty" jsonschema:"New summary"`
	SourceURL   *string `json:"source_url,omitempty" jsonschema:"New source link" validate:"omitempty,url"`
}

// CreateSeriesRequest is the input of create_meeting_series
type CreateSeriesRequest struct {
	Name              string `json:"name" jsonschema:"Series name, e.g. Weekly sync" validate:"required,max=255"`
	ClientName        string `json:"client_name,omitempty" jsonschema:"Client the series belongs to"`
	MeetingType       string `json:"meeting_type,omitempty" jsonschema:"Meeting type shared by the series"`
	RecurrencePattern string `json:"recurrence_pattern,omitempty" jsonschema:"Recurrence, e.g. weekly"`
	Notes             string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}
