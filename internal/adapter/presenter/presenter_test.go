package presenter

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	"github.com/johnquangdev/meeting-archive/internal/usecase/archive"
	"github.com/johnquangdev/meeting-archive/internal/usecase/attribution"
	"github.com/johnquangdev/meeting-archive/internal/usecase/directory"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
	"github.com/johnquangdev/meeting-archive/internal/usecase/retrieval"
)

func strPtr(s string) *string { return &s }

func TestMeetingLine(t *testing.T) {
	date := time.Date(2026, 2, 3, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "[4] 2026-02-03 - Acme weekly (Acme)",
		MeetingLine(entities.MeetingRef{ID: 4, Title: "Acme weekly", MeetingDate: &date, ClientName: strPtr("Acme")}))
	assert.Equal(t, "[5] undated - Standup (No client)",
		MeetingLine(entities.MeetingRef{ID: 5, Title: "Standup"}))
}

func TestNoMeetingsForClient(t *testing.T) {
	assert.Equal(t, "No meetings found for client 'Acme'.", NoMeetingsForClient("Acme", nil))
	assert.Equal(t, "No meetings found for client 'Acme'.", NoMeetingsForClient("Acme", []string{"acme"}))
	assert.Equal(t, "No meetings found for 'Acm'. Did you mean: Acme?", NoMeetingsForClient("Acm", []string{"Acme"}))
}

func TestSearchResults(t *testing.T) {
	assert.Equal(t, "No results found matching 'nothing'.", SearchResults("nothing", nil))

	out := SearchResults("budget", []retrieval.Hit{
		{Scope: retrieval.ScopeMeetings, ID: 1, Title: "Acme weekly", ClientName: "Acme",
			Snippet: retrieval.Projection{Text: "the budget", Truncated: true}, Score: 0.5},
		{Scope: retrieval.ScopeContext, ID: 2, Title: "Q1 estimate", ClientName: "Acme",
			ContextType: entities.ContextTypeEstimate, Snippet: retrieval.Projection{Text: "budget: 40 days"}, Score: 0.25},
	})
	assert.Contains(t, out, "(2 matches)")
	assert.Contains(t, out, "## [1] undated - Acme weekly (Acme)")
	assert.Contains(t, out, "the budget...")
	assert.Contains(t, out, "*Client: Acme | Type: estimate | Relevance: 0.25*")
	assert.NotContains(t, out, "40 days...")
}

func TestMeetingTranscript(t *testing.T) {
	empty := MeetingTranscript(&retrieval.TranscriptView{Meeting: entities.MeetingRef{Title: "Sync"}})
	assert.Equal(t, "No transcript available for meeting 'Sync'.", empty)

	full := MeetingTranscript(&retrieval.TranscriptView{
		Meeting:    entities.MeetingRef{Title: "Sync"},
		Transcript: retrieval.Projection{Text: "héllo", OriginalLength: 5},
	})
	assert.NotContains(t, full, transcriptMarker)

	cut := MeetingTranscript(&retrieval.TranscriptView{
		Meeting:    entities.MeetingRef{Title: "Sync"},
		Transcript: retrieval.Projection{Text: "héllo", Truncated: true, OriginalLength: 9},
	})
	assert.Contains(t, cut, transcriptMarker+" (showing 5 of 9 characters)")
}

func TestMeetingDetails_NeverIncludesTranscript(t *testing.T) {
	out := MeetingDetails(&retrieval.DetailsView{
		Meeting:          entities.MeetingRef{ID: 9, Title: "Sync"},
		SummaryOverview:  retrieval.Projection{Text: "Short summary"},
		EnhancedNotes:    retrieval.Projection{Text: "Long notes", Truncated: true},
		TranscriptLength: 1200,
	})
	assert.Contains(t, out, "## Summary\nShort summary")
	assert.Contains(t, out, "Long notes...")
	assert.NotContains(t, out, "## Manual Notes")
	assert.Contains(t, out, "Transcript available (1200 characters)")
}

func TestArchiveReport(t *testing.T) {
	t.Run("nothing new", func(t *testing.T) {
		out := ArchiveReport(&archive.ArchiveReport{Checked: 4, AlreadyArchived: 4}, nil)
		assert.Equal(t, "All 4 recent meetings are already archived. Nothing new to add.", out)
	})

	t.Run("mixed run", func(t *testing.T) {
		var failures []archive.Failure
		for i := 0; i < 7; i++ {
			failures = append(failures, archive.Failure{DocumentID: fmt.Sprint(i), Title: fmt.Sprintf("Doc %d", i), Message: "gone"})
		}
		out := ArchiveReport(&archive.ArchiveReport{
			RunID:   "run-9",
			Checked: 10,
			Archived: []archive.ArchivedMeeting{
				{MeetingID: 1, Title: "Globex kickoff", ClientName: "Globex", Method: attribution.MethodExternalAttendee},
				{MeetingID: 2, Title: "Lunch", Method: attribution.MethodUnassigned},
			},
			Failures: failures,
		}, nil)

		assert.Contains(t, out, "**Newly archived:** 2")
		assert.Contains(t, out, "- [1] Globex kickoff → Globex (external_attendee)")
		assert.Contains(t, out, "- [2] Lunch\n")
		assert.Contains(t, out, "**Errors:** 7")
		assert.Contains(t, out, "... and 2 more")
		assert.NotContains(t, out, "Doc 6")
		assert.Contains(t, out, "*Run ID: run-9*")
		assert.NotContains(t, out, "Aborted")
	})

	t.Run("aborted", func(t *testing.T) {
		out := ArchiveReport(&archive.ArchiveReport{Checked: 2, Aborted: true},
			fmt.Errorf("%w: down", ucerrors.ErrStorageUnavailable))
		assert.Contains(t, out, "**Aborted:** storage unavailable: down")
	})
}

func TestMerged(t *testing.T) {
	out := Merged(&directory.MergeOutcome{
		Source:      entities.Client{Name: "Acme Inc"},
		Target:      entities.Client{Name: "Acme Corp"},
		MergeResult: repositories.MergeResult{MeetingsMoved: 1, ContextMoved: 2, AliasesMoved: 3},
	})
	assert.True(t, strings.HasPrefix(out, "# Merged \"Acme Inc\" into \"Acme Corp\""))
	assert.Contains(t, out, "Reassigned 1 meeting\n")
	assert.Contains(t, out, "Reassigned 2 context documents")
	assert.Contains(t, out, "Reassigned 3 aliases")
	assert.NotContains(t, out, "Dropped")
}

func TestRenamed(t *testing.T) {
	assert.Equal(t, "Client is already named \"Acme\".", Renamed(&directory.RenameOutcome{OldName: "Acme", NewName: "Acme"}))
	assert.Contains(t, Renamed(&directory.RenameOutcome{OldName: "Acme", NewName: "Acme Corp"}), "Created alias: \"Acme\" → \"Acme Corp\"")
}

func TestClientConfig(t *testing.T) {
	client := &entities.Client{Name: "Acme"}
	assert.Equal(t, "Client 'Acme' has no integrations configured.", ClientConfig(client, nil))

	out := ClientConfig(client, []entities.IntegrationLink{
		{Kind: entities.IntegrationSlackInternal, ExternalID: "C1"},
		{Kind: entities.IntegrationLinearTeam, ExternalID: "team-1", ExternalName: strPtr("Acme Eng"),
			Metadata: map[string]interface{}{"team_key": "ACME", "region": "eu"}},
	})
	linear := strings.Index(out, "## Linear team")
	slack := strings.Index(out, "## Slack internal channel")
	assert.True(t, linear >= 0 && slack > linear)
	assert.Contains(t, out, "**ID:** team-1 (Acme Eng) [key: ACME]")
	assert.Contains(t, out, "**region:** eu")
}

func TestLinearTeamAndSlack(t *testing.T) {
	client := &entities.Client{Name: "Acme"}
	assert.Equal(t, "Client 'Acme' is not linked to a Linear team.", LinearTeam(client, nil))
	assert.Equal(t, "Client 'Acme' is not linked to Slack channels.", Slack(client, nil))

	out := Slack(client, []entities.IntegrationLink{{Kind: entities.IntegrationSlackExternal, ExternalID: "C9"}})
	assert.Contains(t, out, "**External:** C9")
	assert.NotContains(t, out, "Internal")
}

func TestError(t *testing.T) {
	assert.Contains(t, Error(ucerrors.ErrClientNotFound), "Error [NOT_FOUND]")
	assert.Contains(t, Error(errors.New("boom")), "Error [INTERNAL]")
}
