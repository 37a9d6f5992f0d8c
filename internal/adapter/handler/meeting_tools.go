package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-archive/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-archive/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-archive/internal/usecase/archive"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
	"github.com/johnquangdev/meeting-archive/internal/usecase/retrieval"
)

func (s *Server) registerMeetingTools() {
	addTool(s, "archive_new_meetings",
		"Pull new meetings from the transcript source, attribute each to a client and archive them. Already archived meetings are skipped.",
		s.archiveNewMeetings)

	addTool(s, "list_recent_meetings",
		"List meetings from the last N days, optionally for one client.",
		func(ctx context.Context, in meeting.ListRecentMeetingsRequest) (string, error) {
			days := in.Days
			if days <= 0 {
				days = retrieval.DefaultRecentDays
			}
			refs, err := s.retrieval.ListRecentMeetings(ctx, days, in.ClientName)
			if err != nil {
				return "", err
			}
			return presenter.RecentMeetings(days, in.ClientName, refs), nil
		})

	addTool(s, "list_untagged_meetings",
		"List archived meetings that are not assigned to any client.",
		func(ctx context.Context, in meeting.ListUntaggedMeetingsRequest) (string, error) {
			refs, err := s.retrieval.ListUntaggedMeetings(ctx, in.Limit)
			if err != nil {
				return "", err
			}
			return presenter.UntaggedMeetings(refs), nil
		})

	addTool(s, "get_client_meetings",
		"List a client's meetings with a short summary of each. Use get_meeting_details for the full notes.",
		s.getClientMeetings)

	addTool(s, "search_meetings",
		"Keyword search across meeting transcripts, notes and summaries. Returns short snippets ranked by relevance.",
		func(ctx context.Context, in meeting.SearchMeetingsRequest) (string, error) {
			hits, err := s.retrieval.Search(ctx, retrieval.SearchRequest{
				Query:      in.Query,
				Scope:      retrieval.ScopeMeetings,
				Limit:      in.Limit,
				ClientName: in.ClientName,
			})
			if err != nil {
				return "", err
			}
			return presenter.SearchResults(in.Query, hits), nil
		})

	addTool(s, "get_meeting_details",
		"Get the notes of one meeting: summary, enhanced notes and manual notes. Does not include the transcript.",
		func(ctx context.Context, in meeting.MeetingIDRequest) (string, error) {
			view, err := s.retrieval.MeetingDetails(ctx, in.MeetingID)
			if errors.Is(err, ucerrors.ErrNotFound) {
				return presenter.MeetingNotFound(in.MeetingID), nil
			}
			if err != nil {
				return "", err
			}
			return presenter.MeetingDetails(view), nil
		})

	addTool(s, "get_meeting_transcript",
		"Get the transcript of one meeting. Very long transcripts are truncated.",
		func(ctx context.Context, in meeting.MeetingIDRequest) (string, error) {
			view, err := s.retrieval.MeetingTranscript(ctx, in.MeetingID)
			if errors.Is(err, ucerrors.ErrNotFound) {
				return presenter.MeetingNotFound(in.MeetingID), nil
			}
			if err != nil {
				return "", err
			}
			return presenter.MeetingTranscript(view), nil
		})

	addTool(s, "find_meeting_by_title",
		"Find meetings whose title contains the given text.",
		func(ctx context.Context, in meeting.FindMeetingByTitleRequest) (string, error) {
			refs, err := s.retrieval.FindMeetingsByTitle(ctx, in.TitleSearch, in.Limit)
			if err != nil {
				return "", err
			}
			return presenter.TitleMatches(in.TitleSearch, refs), nil
		})

	addTool(s, "get_meeting_stats",
		"Get archive statistics: totals, untagged meetings, recent activity and top clients.",
		func(ctx context.Context, _ meeting.EmptyRequest) (string, error) {
			stats, err := s.retrieval.Stats(ctx)
			if err != nil {
				return "", err
			}
			return presenter.Stats(stats), nil
		})

	addTool(s, "assign_meeting_to_client",
		"Assign a meeting to a client, creating the client when no name or alias matches.",
		func(ctx context.Context, in meeting.AssignMeetingRequest) (string, error) {
			out, err := s.archive.AssignMeeting(ctx, in.MeetingID, in.ClientName)
			if err != nil {
				return "", err
			}
			return presenter.Assigned(out), nil
		})

	addTool(s, "update_meeting_notes",
		"Replace the manual notes of a meeting.",
		func(ctx context.Context, in meeting.UpdateMeetingNotesRequest) (string, error) {
			ref, err := s.archive.UpdateMeetingNotes(ctx, in.MeetingID, in.Notes)
			if err != nil {
				return "", err
			}
			return presenter.NotesUpdated(ref), nil
		})
}

func (s *Server) archiveNewMeetings(ctx context.Context, in meeting.ArchiveNewMeetingsRequest) (string, error) {
	since, err := parseSince(in.Since)
	if err != nil {
		return "", err
	}

	report, err := s.archive.ArchiveNew(ctx, archive.ArchiveRequest{Limit: in.Limit, Since: since})
	if report == nil {
		return "", err
	}
	return presenter.ArchiveReport(report, err), err
}

// getClientMeetings answers an unknown or empty client with similar names
// instead of an error.
func (s *Server) getClientMeetings(ctx context.Context, in meeting.GetClientMeetingsRequest) (string, error) {
	view, err := s.retrieval.ClientMeetingSummaries(ctx, in.ClientName, in.Limit)
	switch {
	case errors.Is(err, ucerrors.ErrClientNotFound):
		return presenter.NoMeetingsForClient(in.ClientName, s.suggest(ctx, in.ClientName)), nil
	case err != nil:
		return "", err
	}

	var suggestions []string
	if len(view.Meetings) == 0 {
		suggestions = s.suggest(ctx, in.ClientName)
	}
	return presenter.ClientMeetings(view, suggestions), nil
}

func (s *Server) suggest(ctx context.Context, name string) []string {
	names, err := s.retrieval.SuggestClients(ctx, name)
	if err != nil {
		s.logger.Debug("client suggestions unavailable", zap.Error(err))
		return nil
	}
	return names
}

var sinceLayouts = []string{"2006-01-02", time.RFC3339}

func parseSince(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range sinceLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: since must be YYYY-MM-DD or RFC3339, got %q", ucerrors.ErrInvalidArgument, raw)
}
