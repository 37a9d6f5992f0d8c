package entities

import (
	"strings"
	"time"
)

// DocumentRef is a listing entry from the transcript source.
type DocumentRef struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Attendee is one participant reported by the transcript source.
type Attendee struct {
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// CanonicalMeeting is a source document normalized for attribution and
// archival.
type CanonicalMeeting struct {
	DocumentID    string     `json:"document_id"`
	Title         string     `json:"title"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	Transcript    string     `json:"transcript"`
	EnhancedNotes string     `json:"enhanced_notes"`
	ManualNotes   string     `json:"manual_notes"`
	Attendees     []Attendee `json:"attendees"`
}

// ToMeeting builds the row persisted for this document. The combined
// rendering is precomputed for downstream summarization.
func (m CanonicalMeeting) ToMeeting() *Meeting {
	meeting := &Meeting{
		DocumentID:  m.DocumentID,
		Title:       m.Title,
		MeetingDate: m.CreatedAt,
		MeetingType: DefaultMeetingType,
	}
	if m.Transcript != "" {
		meeting.Transcript = &m.Transcript
	}
	if m.EnhancedNotes != "" {
		meeting.EnhancedNotes = &m.EnhancedNotes
	}
	if m.ManualNotes != "" {
		meeting.ManualNotes = &m.ManualNotes
	}
	if combined := m.CombinedMarkdown(); combined != "" {
		meeting.CombinedMarkdown = &combined
	}
	return meeting
}

// CombinedMarkdown renders title, notes and transcript as one document.
func (m CanonicalMeeting) CombinedMarkdown() string {
	var parts []string
	if m.Title != "" {
		parts = append(parts, "# "+m.Title)
	}
	if m.EnhancedNotes != "" {
		parts = append(parts, "## Notes\n\n"+m.EnhancedNotes)
	}
	if m.ManualNotes != "" {
		parts = append(parts, "## Manual Notes\n\n"+m.ManualNotes)
	}
	if m.Transcript != "" {
		parts = append(parts, "## Transcript\n\n"+m.Transcript)
	}
	return strings.Join(parts, "\n\n")
}
