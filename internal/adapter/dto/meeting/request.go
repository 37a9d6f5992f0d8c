package meeting

// ArchiveNewMeetingsRequest is the input of archive_new_meetings
type ArchiveNewMeetingsRequest struct {
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of source documents to check (default 50, max 500)" validate:"omitempty,min=1,max=500"`
	Since string `json:"since,omitempty" jsonschema:"Only check documents created after this date (YYYY-MM-DD or RFC3339)"`
}

// ListRecentMeetingsRequest is the input of list_recent_meetings
type ListRecentMeetingsRequest struct {
	Days       int    `json:"days,omitempty" jsonschema:"Number of days to look back (default 7)" validate:"omitempty,min=1,max=365"`
	ClientName string `json:"client_name,omitempty" jsonschema:"Only meetings of this client"`
}

// ListUntaggedMeetingsRequest is the input of list_untagged_meetings
type ListUntaggedMeetingsRequest struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of meetings (default 20)" validate:"omitempty,min=1,max=200"`
}

// GetClientMeetingsRequest is the input of get_client_meetings
type GetClientMeetingsRequest struct {
	ClientName string `json:"client_name" jsonschema:"Client name or alias" validate:"required"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of meetings (default 20)" validate:"omitempty,min=1,max=200"`
}

// SearchMeetingsRequest is the input of search_meetings
type SearchMeetingsRequest struct {
	Query      string `json:"query" jsonschema:"Keywords to find in transcripts, notes and summaries" validate:"required"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10, max 50)" validate:"omitempty,min=1,max=50"`
	ClientName string `json:"client_name,omitempty" jsonschema:"Only meetings of this client"`
}

// MeetingIDRequest identifies one meeting
type MeetingIDRequest struct {
	MeetingID int64 `json:"meeting_id" jsonschema:"Meeting ID as shown in brackets in listings" validate:"required,min=1"`
}

// FindMeetingByTitleRequest is the input of find_meeting_by_title
type FindMeetingByTitleRequest struct {
	TitleSearch string `json:"title_search" jsonschema:"Part of the meeting title" validate:"required"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum number of meetings (default 10)" validate:"omitempty,min=1,max=200"`
}

// AssignMeetingRequest is the input of assign_meeting_to_client
type AssignMeetingRequest struct {
	MeetingID  int64  `json:"meeting_id" jsonschema:"Meeting ID as shown in brackets in listings" validate:"required,min=1"`
	ClientName string `json:"client_name" jsonschema:"Client to assign; created when no client or alias matches" validate:"required"`
}

// UpdateMeetingNotesRequest is the input of update_meeting_notes
type UpdateMeetingNotesRequest struct {
	MeetingID int64  `json:"meeting_id" jsonschema:"Meeting ID as shown in brackets in listings" validate:"required,min=1"`
	Notes     string `json:"notes" jsonschema:"Manual notes; replaces the existing manual notes"`
}

// EmptyRequest is the input of tools that take no arguments
type EmptyRequest struct{}
