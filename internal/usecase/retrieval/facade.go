package retrieval

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

// Listing and search limits.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
	DefaultClientLimit = 20
	DefaultListLimit   = 10
	MaxListLimit       = 200
	DefaultRecentDays  = 7
	MaxRecentDays      = 365
	StatsWindow        = 30 * 24 * time.Hour
	StatsTopClients    = 5
)

// Scope selects what a search runs over.
type Scope string

const (
	ScopeMeetings Scope = "meetings"
	ScopeContext  Scope = "context"
)

// ClientResolver resolves user-supplied client names.
type ClientResolver interface {
	ResolveClient(ctx context.Context, name string) (*entities.Client, error)
	ListClients(ctx context.Context) ([]entities.ClientSummary, error)
	SuggestClients(ctx context.Context, fragment string) ([]string, error)
}

// Service is the tiered-disclosure read API.
type Service interface {
	// Tier 1
	ListClients(ctx context.Context) ([]entities.ClientSummary, error)
	ListRecentMeetings(ctx context.Context, days int, clientName string) ([]entities.MeetingRef, error)
	FindMeetingsByTitle(ctx context.Context, query string, limit int) ([]entities.MeetingRef, error)
	ListUntaggedMeetings(ctx context.Context, limit int) ([]entities.MeetingRef, error)
	ListContextDocuments(ctx context.Context, clientName string) ([]entities.ContextRef, error)
	Stats(ctx context.Context) (*entities.MeetingStats, error)

	// Tier 2
	ClientMeetingSummaries(ctx context.Context, clientName string, limit int) (*ClientMeetings, error)
	Search(ctx context.Context, req SearchRequest) ([]Hit, error)
	SuggestClients(ctx context.Context, fragment string) ([]string, error)

	// Tier 3
	MeetingTranscript(ctx context.Context, meetingID int64) (*TranscriptView, error)
	MeetingDetails(ctx context.Context, meetingID int64) (*DetailsView, error)
	ContextDocument(ctx context.Context, id int64) (*entities.ContextDocument, error)
}

var _ Service = (*Facade)(nil)

// MeetingSummary is a Tier 2 meeting row.
type MeetingSummary struct {
	entities.MeetingRef
	Summary    Projection
	FromNotes  bool
	HasSummary bool
}

// ClientMeetings is a client's meetings with bounded summaries.
type ClientMeetings struct {
	Client   entities.Client
	Meetings []MeetingSummary
}

// SearchRequest describes a keyword search.
type SearchRequest struct {
	Query      string
	Scope      Scope
	Limit      int
	ClientName string
}

// Hit is one search result: the entity, its bounded snippet and its score.
type Hit struct {
	Scope       Scope
	ID          int64
	Title       string
	ClientName  string
	Date        *time.Time
	ContextType entities.ContextType
	Snippet     Projection
	Score       float64
}

// TranscriptView is the Tier 3 transcript fetch.
type TranscriptView struct {
	Meeting    entities.MeetingRef
	Transcript Projection
}

// DetailsView is the Tier 3 notes fetch. It never carries the transcript.
type DetailsView struct {
	Meeting          entities.MeetingRef
	SummaryOverview  Projection
	EnhancedNotes    Projection
	ManualNotes      Projection
	TranscriptLength int
	ArchivedAt       time.Time
}

// Facade implements Service over the archive repositories.
type Facade struct {
	meetings repositories.MeetingRepository
	contexts repositories.ContextRepository
	clients  ClientResolver
	now      func() time.Time
	logger   *zap.Logger
}

// NewFacade creates the retrieval facade
func NewFacade(
	meetings repositories.MeetingRepository,
	contexts repositories.ContextRepository,
	clients ClientResolver,
	logger *zap.Logger,
) *Facade {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Facade{
		meetings: meetings,
		contexts: contexts,
		clients:  clients,
		now:      time.Now,
		logger:   logger,
	}
}

// ListClients returns every client with its meeting count.
func (f *Facade) ListClients(ctx context.Context) ([]entities.ClientSummary, error) {
	return f.clients.ListClients(ctx)
}

// ListRecentMeetings returns meetings from the last days, optionally for one client.
func (f *Facade) ListRecentMeetings(ctx context.Context, days int, clientName string) ([]entities.MeetingRef, error) {
	if days <= 0 {
		days = DefaultRecentDays
	}
	if days > MaxRecentDays {
		days = MaxRecentDays
	}
	since := f.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	filters := repositories.MeetingFilters{Since: &since, Limit: MaxListLimit}
	if strings.TrimSpace(clientName) != "" {
		client, err := f.clients.ResolveClient(ctx, clientName)
		if err != nil {
			return nil, err
		}
		filters.ClientID = &client.ID
	}
	return f.meetings.List(ctx, filters)
}

// FindMeetingsByTitle matches a title fragment.
func (f *Facade) FindMeetingsByTitle(ctx context.Context, query string, limit int) ([]entities.MeetingRef, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ucerrors.ErrEmptyQuery
	}
	return f.meetings.List(ctx, repositories.MeetingFilters{
		TitleQuery: query,
		Limit:      clampLimit(limit, DefaultListLimit, MaxListLimit),
	})
}

// ListUntaggedMeetings returns meetings no rule could attribute.
func (f *Facade) ListUntaggedMeetings(ctx context.Context, limit int) ([]entities.MeetingRef, error) {
	return f.meetings.List(ctx, repositories.MeetingFilters{
		UntaggedOnly: true,
		Limit:        clampLimit(limit, DefaultClientLimit, MaxListLimit),
	})
}

// ListContextDocuments lists context documents, optionally for one client.
func (f *Facade) ListContextDocuments(ctx context.Context, clientName string) ([]entities.ContextRef, error) {
	var clientID *int64
	if strings.TrimSpace(clientName) != "" {
		client, err := f.clients.ResolveClient(ctx, clientName)
		if err != nil {
			return nil, err
		}
		clientID = &client.ID
	}
	return f.contexts.List(ctx, clientID)
}

// Stats aggregates the archive.
func (f *Facade) Stats(ctx context.Context) (*entities.MeetingStats, error) {
	return f.meetings.Stats(ctx, f.now().UTC().Add(-StatsWindow), StatsTopClients)
}

// ClientMeetingSummaries returns a client's meetings, each with one summary
// field cut to NotesSummaryBudget. The summary overview is preferred; the
// enhanced notes stand in when there is none.
func (f *Facade) ClientMeetingSummaries(ctx context.Context, clientName string, limit int) (*ClientMeetings, error) {
	client, err := f.clients.ResolveClient(ctx, clientName)
	if err != nil {
		return nil, err
	}

	meetings, err := f.meetings.ListWithNotes(ctx, client.ID, clampLimit(limit, DefaultClientLimit, MaxListLimit))
	if err != nil {
		return nil, err
	}

	out := &ClientMeetings{Client: *client, Meetings: make([]MeetingSummary, 0, len(meetings))}
	for _, m := range meetings {
		row := MeetingSummary{MeetingRef: toRef(&m)}
		row.MeetingRef.ClientName = &client.Name
		switch {
		case m.SummaryOverview != nil && strings.TrimSpace(*m.SummaryOverview) != "":
			row.Summary = Bound(*m.SummaryOverview, NotesSummaryBudget)
			row.HasSummary = true
		case m.EnhancedNotes != nil && strings.TrimSpace(*m.EnhancedNotes) != "":
			row.Summary = Bound(*m.EnhancedNotes, NotesSummaryBudget)
			row.HasSummary = true
			row.FromNotes = true
		}
		out.Meetings = append(out.Meetings, row)
	}
	return out, nil
}

// SuggestClients returns client names similar to fragment.
func (f *Facade) SuggestClients(ctx context.Context, fragment string) ([]string, error) {
	return f.clients.SuggestClients(ctx, fragment)
}

// Search runs a ranked keyword search. Ties in score are ordered by recency
// by the store; every snippet is bounded independently.
func (f *Facade) Search(ctx context.Context, req SearchRequest) ([]Hit, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ucerrors.ErrEmptyQuery
	}
	scope := req.Scope
	if scope == "" {
		scope = ScopeMeetings
	}
	limit := clampLimit(req.Limit, DefaultSearchLimit, MaxSearchLimit)

	var clientID *int64
	if strings.TrimSpace(req.ClientName) != "" {
		client, err := f.clients.ResolveClient(ctx, req.ClientName)
		if err != nil {
			return nil, err
		}
		clientID = &client.ID
	}

	switch scope {
	case ScopeMeetings:
		found, err := f.meetings.Search(ctx, query, clientID, limit)
		if err != nil {
			return nil, err
		}
		hits := make([]Hit, 0, len(found))
		for _, h := range found {
			hits = append(hits, Hit{
				Scope:      ScopeMeetings,
				ID:         h.ID,
				Title:      h.Title,
				ClientName: deref(h.ClientName),
				Date:       h.MeetingDate,
				Snippet:    Bound(h.Snippet, SnippetBudget),
				Score:      h.Score,
			})
		}
		return capHits(hits, limit), nil

	case ScopeContext:
		found, err := f.contexts.Search(ctx, query, clientID, limit)
		if err != nil {
			return nil, err
		}
		hits := make([]Hit, 0, len(found))
		for _, h := range found {
			updated := h.UpdatedAt
			hits = append(hits, Hit{
				Scope:       ScopeContext,
				ID:          h.ID,
				Title:       h.Title,
				ClientName:  h.ClientName,
				Date:        &updated,
				ContextType: h.ContextType,
				Snippet:     Bound(h.Preview, ContextPreviewBudget),
				Score:       h.Score,
			})
		}
		return capHits(hits, limit), nil
	}

	return nil, ucerrors.ErrInvalidScope
}

// MeetingTranscript fetches one transcript, cut to TranscriptBudget.
func (f *Facade) MeetingTranscript(ctx context.Context, meetingID int64) (*TranscriptView, error) {
	m, err := f.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	return &TranscriptView{
		Meeting:    toRef(m),
		Transcript: BoundPtr(m.Transcript, TranscriptBudget),
	}, nil
}

// MeetingDetails fetches the notes of one meeting without its transcript.
func (f *Facade) MeetingDetails(ctx context.Context, meetingID int64) (*DetailsView, error) {
	m, err := f.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	view := &DetailsView{
		Meeting:         toRef(m),
		SummaryOverview: BoundPtr(m.SummaryOverview, EnhancedNotesBudget),
		EnhancedNotes:   BoundPtr(m.EnhancedNotes, EnhancedNotesBudget),
		ManualNotes:     BoundPtr(m.ManualNotes, EnhancedNotesBudget),
		ArchivedAt:      m.ArchivedAt,
	}
	if m.Transcript != nil {
		view.TranscriptLength = Bound(*m.Transcript, -1).OriginalLength
	}
	return view, nil
}

// ContextDocument fetches a full context document. Content is not capped.
func (f *Facade) ContextDocument(ctx context.Context, id int64) (*entities.ContextDocument, error) {
	return f.contexts.FindByID(ctx, id)
}

func toRef(m *entities.Meeting) entities.MeetingRef {
	ref := entities.MeetingRef{
		ID:          m.ID,
		DocumentID:  m.DocumentID,
		Title:       m.Title,
		MeetingDate: m.MeetingDate,
		ClientID:    m.ClientID,
		MeetingType: m.MeetingType,
	}
	if m.Client != nil {
		name := m.Client.Name
		ref.ClientName = &name
	}
	return ref
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func capHits(hits []Hit, limit int) []Hit {
	if len(hits) > limit {
		return hits[:limit]
	}
	return hits
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
