package presenter

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/usecase/retrieval"
)

// RecentMeetings renders list_recent_meetings
func RecentMeetings(days int, clientName string, meetings []entities.MeetingRef) string {
	scope := ""
	if clientName != "" {
		scope = " for " + clientName
	}
	if len(meetings) == 0 {
		return fmt.Sprintf("No meetings found%s in the last %d days.", scope, days)
	}

	lines := []string{fmt.Sprintf("# Meetings from last %d days%s\n", days, scope)}
	for _, m := range meetings {
		lines = append(lines, "- "+MeetingLine(m))
	}
	return join(lines)
}

// UntaggedMeetings renders list_untagged_meetings
func UntaggedMeetings(meetings []entities.MeetingRef) string {
	if len(meetings) == 0 {
		return "Every archived meeting is assigned to a client."
	}

	lines := []string{fmt.Sprintf("# Meetings without a client (%d)\n", len(meetings))}
	for _, m := range meetings {
		lines = append(lines, "- "+MeetingLine(m))
	}
	lines = append(lines, "\nUse assign_meeting_to_client(meeting_id, client_name) to tag them.")
	return join(lines)
}

// TitleMatches renders find_meeting_by_title
func TitleMatches(query string, meetings []entities.MeetingRef) string {
	if len(meetings) == 0 {
		return fmt.Sprintf("No meetings found with title containing '%s'.", query)
	}

	lines := []string{fmt.Sprintf("# Meetings matching '%s'\n", query)}
	for _, m := range meetings {
		lines = append(lines, "- "+MeetingLine(m))
	}
	lines = append(lines, "\nUse get_meeting_details(meeting_id) to see full details.")
	return join(lines)
}

// ClientMeetings renders get_client_meetings. Each summary is already
// bounded; a cut one ends with "...".
func ClientMeetings(view *retrieval.ClientMeetings, suggestions []string) string {
	name := view.Client.Name
	if len(view.Meetings) == 0 {
		return NoMeetingsForClient(name, suggestions)
	}

	lines := []string{fmt.Sprintf("# Meetings for %s (%d total)\n", name, len(view.Meetings))}
	for _, m := range view.Meetings {
		lines = append(lines, fmt.Sprintf("## %s - %s", formatDate(m.MeetingDate, dateLayout), m.Title))
		lines = append(lines, fmt.Sprintf("*Meeting ID: %d*\n", m.ID))
		if m.HasSummary {
			lines = append(lines, withEllipsis(m.Summary))
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(join(lines), "\n")
}

// NoMeetingsForClient renders the empty client listing with "did you mean"
// hints.
func NoMeetingsForClient(name string, suggestions []string) string {
	var others []string
	for _, s := range suggestions {
		if !strings.EqualFold(s, name) {
			others = append(others, s)
		}
	}
	if len(others) > 0 {
		return fmt.Sprintf("No meetings found for '%s'. Did you mean: %s?", name, strings.Join(others, ", "))
	}
	return fmt.Sprintf("No meetings found for client '%s'.", name)
}

// SearchResults renders search_meetings and search_client_context
func SearchResults(query string, hits []retrieval.Hit) string {
	if len(hits) == 0 {
		return fmt.Sprintf("No results found matching '%s'.", query)
	}

	lines := []string{fmt.Sprintf("# Search results for '%s' (%s)\n", query, plural(int64(len(hits)), "match", "matches"))}
	for _, h := range hits {
		switch h.Scope {
		case retrieval.ScopeContext:
			lines = append(lines, fmt.Sprintf("## [%d] %s", h.ID, h.Title))
			lines = append(lines, fmt.Sprintf("*Client: %s | Type: %s | Relevance: %.2f*\n", h.ClientName, h.ContextType, h.Score))
		default:
			client := h.ClientName
			if client == "" {
				client = noClient
			}
			lines = append(lines, fmt.Sprintf("## [%d] %s - %s (%s)", h.ID, formatDate(h.Date, dateLayout), h.Title, client))
			lines = append(lines, fmt.Sprintf("*Relevance: %.2f*\n", h.Score))
		}
		if h.Snippet.Text != "" {
			lines = append(lines, withEllipsis(h.Snippet))
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(join(lines), "\n")
}

// MeetingDetails renders get_meeting_details. The transcript is only
// referenced by length.
func MeetingDetails(view *retrieval.DetailsView) string {
	m := view.Meeting
	lines := []string{
		"# " + m.Title,
		"**Date:** " + formatDate(m.MeetingDate, dateTimeLayout),
	}
	if m.ClientName != nil {
		lines = append(lines, "**Client:** "+*m.ClientName)
	}
	if m.MeetingType != "" && m.MeetingType != entities.DefaultMeetingType {
		lines = append(lines, "**Type:** "+m.MeetingType)
	}
	lines = append(lines, fmt.Sprintf("**Meeting ID:** %d", m.ID), "")

	section := func(title string, p retrieval.Projection) {
		if p.Text == "" {
			return
		}
		lines = append(lines, "## "+title, withEllipsis(p), "")
	}
	section("Summary", view.SummaryOverview)
	section("Notes", view.EnhancedNotes)
	section("Manual Notes", view.ManualNotes)

	if view.TranscriptLength > 0 {
		lines = append(lines, fmt.Sprintf("*Transcript available (%d characters). Use get_meeting_transcript(%d) to read it.*", view.TranscriptLength, m.ID))
	} else {
		lines = append(lines, "*No transcript available.*")
	}
	return join(lines)
}

// MeetingNotFound is the empty result of a lookup by meeting id
func MeetingNotFound(id int64) string {
	return fmt.Sprintf("Meeting with ID %d not found.", id)
}

// MeetingTranscript renders get_meeting_transcript
func MeetingTranscript(view *retrieval.TranscriptView) string {
	m := view.Meeting
	if view.Transcript.OriginalLength == 0 {
		return fmt.Sprintf("No transcript available for meeting '%s'.", m.Title)
	}

	lines := []string{
		"# Transcript: " + m.Title,
		"**Date:** " + formatDate(m.MeetingDate, dateLayout),
		"",
		view.Transcript.Text,
	}
	if view.Transcript.Truncated {
		lines = append(lines, "", fmt.Sprintf("%s (showing %d of %d characters)", transcriptMarker, len([]rune(view.Transcript.Text)), view.Transcript.OriginalLength))
	}
	return join(lines)
}

// Stats renders get_meeting_stats
func Stats(stats *entities.MeetingStats) string {
	lines := []string{
		"# Meeting Archive Statistics\n",
		fmt.Sprintf("**Total meetings archived:** %d", stats.TotalMeetings),
		fmt.Sprintf("**Total clients:** %d", stats.TotalClients),
		fmt.Sprintf("**Meetings without a client:** %d", stats.Untagged),
		fmt.Sprintf("**Meetings in last 30 days:** %d", stats.LastThirtyDays),
	}
	if len(stats.TopClients) > 0 {
		lines = append(lines, "", "## Top Clients by Meeting Count")
		for _, c := range stats.TopClients {
			lines = append(lines, fmt.Sprintf("- %s: %s", c.Name, plural(c.MeetingCount, "meeting", "meetings")))
		}
	}
	return join(lines)
}
