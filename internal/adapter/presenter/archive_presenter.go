package presenter

import (
	"fmt"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/usecase/archive"
	"github.com/johnquangdev/meeting-archive/internal/usecase/attribution"
)

const maxListedFailures = 5

// ArchiveReport renders archive_new_meetings. runErr is the error that
// stopped the run, if any.
func ArchiveReport(r *archive.ArchiveReport, runErr error) string {
	if r.Checked > 0 && r.Checked == r.AlreadyArchived && !r.Aborted {
		return fmt.Sprintf("All %d recent meetings are already archived. Nothing new to add.", r.Checked)
	}

	lines := []string{
		"# Archive Results\n",
		fmt.Sprintf("**Checked:** %d meetings", r.Checked),
		fmt.Sprintf("**Already archived:** %d", r.AlreadyArchived),
		fmt.Sprintf("**Newly archived:** %d", len(r.Archived)),
	}

	if len(r.Archived) > 0 {
		lines = append(lines, "\n## Archived Meetings")
		for _, a := range r.Archived {
			line := fmt.Sprintf("- [%d] %s", a.MeetingID, truncateRunes(a.Title, 50))
			if a.Method != attribution.MethodUnassigned && a.ClientName != "" {
				line += fmt.Sprintf(" → %s (%s", a.ClientName, a.Method)
				if a.ClientCreated {
					line += ", new client"
				}
				line += ")"
			}
			lines = append(lines, line)
		}
	}

	if len(r.Failures) > 0 {
		lines = append(lines, fmt.Sprintf("\n**Errors:** %d", len(r.Failures)))
		for i, f := range r.Failures {
			if i == maxListedFailures {
				lines = append(lines, fmt.Sprintf("  - ... and %d more", len(r.Failures)-maxListedFailures))
				break
			}
			lines = append(lines, fmt.Sprintf("  - %s: %s", truncateRunes(f.Title, 30), f.Message))
		}
	}

	if r.Aborted {
		msg := "run stopped early"
		if runErr != nil {
			msg = runErr.Error()
		}
		lines = append(lines, "\n**Aborted:** "+msg, "Meetings listed above were saved; run the tool again to continue.")
	}

	lines = append(lines, fmt.Sprintf("\n*Run ID: %s*", r.RunID))
	return join(lines)
}

// Assigned confirms assign_meeting_to_client
func Assigned(a *archive.Assignment) string {
	note := ""
	if a.ClientCreated {
		note = " (new client)"
	}
	return fmt.Sprintf("Assigned meeting [%d] \"%s\" to %s%s.", a.MeetingID, a.Title, a.Client.Name, note)
}

// NotesUpdated confirms update_meeting_notes
func NotesUpdated(m *entities.MeetingRef) string {
	return fmt.Sprintf("Updated manual notes for meeting [%d] \"%s\".", m.ID, m.Title)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
