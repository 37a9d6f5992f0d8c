package presenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/usecase/retrieval"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"

	ellipsis         = "..."
	transcriptMarker = "[Transcript truncated - use get_meeting_transcript for full text]"
	noClient         = "No client"
)

func formatDate(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return "undated"
	}
	return t.UTC().Format(layout)
}

func clientLabel(name *string) string {
	if name == nil || *name == "" {
		return noClient
	}
	return *name
}

// MeetingLine renders one meeting as "[id] date - title (client)".
func MeetingLine(m entities.MeetingRef) string {
	return fmt.Sprintf("[%d] %s - %s (%s)", m.ID, formatDate(m.MeetingDate, dateLayout), m.Title, clientLabel(m.ClientName))
}

// withEllipsis renders a bounded field, marking a cut with "...".
func withEllipsis(p retrieval.Projection) string {
	if p.Truncated {
		return p.Text + ellipsis
	}
	return p.Text
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func join(lines []string) string {
	return strings.Join(lines, "\n")
}
