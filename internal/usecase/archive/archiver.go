package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	"github.com/johnquangdev/meeting-archive/internal/usecase/attribution"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

const (
	DefaultLimit  = 50
	MaxLimit      = 500
	UntitledTitle = "Untitled"
)

// Source is the upstream transcript source
type Source interface {
	ListDocuments(ctx context.Context, since *time.Time, limit int) ([]entities.DocumentRef, error)
	GetDocument(ctx context.Context, id string) (*entities.CanonicalMeeting, error)
	GetAttendees(ctx context.Context, id string) ([]entities.Attendee, error)
}

// Directory is the part of the client directory archival depends on
type Directory interface {
	Snapshot(ctx context.Context) (attribution.Snapshot, error)
	Invalidate(ctx context.Context)
	GetOrCreateClient(ctx context.Context, name string) (*entities.Client, bool, error)
}

// RawStore keeps a copy of each fetched source document
type RawStore interface {
	PutDocument(ctx context.Context, runID, documentID string, doc any) error
}

// Service is the archival use case
type Service interface {
	ArchiveNew(ctx context.Context, req ArchiveRequest) (*ArchiveReport, error)
	AssignMeeting(ctx context.Context, meetingID int64, clientName string) (*Assignment, error)
	UpdateMeetingNotes(ctx context.Context, meetingID int64, notes string) (*entities.MeetingRef, error)
}

var _ Service = (*Archiver)(nil)

// ArchiveRequest bounds one archival run
type ArchiveRequest struct {
	Limit int
	Since *time.Time
}

// ArchivedMeeting is one meeting written by a run
type ArchivedMeeting struct {
	DocumentID    string
	MeetingID     int64
	Title         string
	ClientName    string
	Method        attribution.Method
	ClientCreated bool
}

// Failure is a document that could not be archived
type Failure struct {
	DocumentID string
	Title      string
	Message    string
}

// ArchiveReport summarizes one run. Meetings listed in Archived are
// committed even when the run aborted.
type ArchiveReport struct {
	RunID           string
	Checked         int
	AlreadyArchived int
	Archived        []ArchivedMeeting
	Failures        []Failure
	Aborted         bool
}

// Assignment is the outcome of a manual client assignment
type Assignment struct {
	MeetingID     int64
	Title         string
	Client        entities.Client
	ClientCreated bool
}

// Archiver pulls new documents from the source, attributes them and
// stores them
type Archiver struct {
	source    Source
	meetings  repositories.MeetingRepository
	directory Directory
	engine    *attribution.Engine
	raw       RawStore
	logger    *zap.Logger
}

// NewArchiver creates an archiver. raw may be nil.
func NewArchiver(
	source Source,
	meetings repositories.MeetingRepository,
	directory Directory,
	engine *attribution.Engine,
	raw RawStore,
	logger *zap.Logger,
) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{
		source:    source,
		meetings:  meetings,
		directory: directory,
		engine:    engine,
		raw:       raw,
		logger:    logger,
	}
}

// ArchiveNew archives every listed document not already in the store.
// Source or storage outages stop the run; the partial report is returned
// with the error.
func (a *Archiver) ArchiveNew(ctx context.Context, req ArchiveRequest) (*ArchiveReport, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	report := &ArchiveReport{RunID: uuid.NewString()}
	log := a.logger.With(zap.String("run_id", report.RunID))

	docs, err := a.source.ListDocuments(ctx, req.Since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list source documents: %w", err)
	}
	report.Checked = len(docs)

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	existing, err := a.meetings.ExistingDocumentIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check archived documents: %w", err)
	}

	snap, err := a.directory.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load client directory: %w", err)
	}
	dir := attribution.NewDirectory(snap)

	createdClients := false
	defer func() {
		if createdClients {
			a.directory.Invalidate(context.WithoutCancel(ctx))
		}
	}()

	for _, ref := range docs {
		if _, ok := existing[ref.ID]; ok {
			report.AlreadyArchived++
			continue
		}
		if err := ctx.Err(); err != nil {
			report.Aborted = true
			return report, err
		}

		entry, err := a.archiveOne(ctx, report.RunID, ref, dir)
		switch {
		case err == nil:
			report.Archived = append(report.Archived, *entry)
			if entry.ClientCreated {
				createdClients = true
			}
			log.Info("meeting archived",
				zap.String("document_id", ref.ID),
				zap.Int64("meeting_id", entry.MeetingID),
				zap.String("client", entry.ClientName),
				zap.String("method", string(entry.Method)),
			)
		case errors.Is(err, ucerrors.ErrDuplicateDocument):
			report.AlreadyArchived++
		case errors.Is(err, ucerrors.ErrSourceUnavailable), errors.Is(err, ucerrors.ErrStorageUnavailable):
			report.Aborted = true
			log.Error("archival run aborted", zap.String("document_id", ref.ID), zap.Error(err))
			return report, err
		default:
			report.Failures = append(report.Failures, Failure{DocumentID: ref.ID, Title: ref.Title, Message: err.Error()})
			log.Warn("failed to archive document", zap.String("document_id", ref.ID), zap.Error(err))
		}
	}

	log.Info("archival run finished",
		zap.Int("checked", report.Checked),
		zap.Int("already_archived", report.AlreadyArchived),
		zap.Int("archived", len(report.Archived)),
		zap.Int("failed", len(report.Failures)),
	)
	return report, nil
}

func (a *Archiver) archiveOne(ctx context.Context, runID string, ref entities.DocumentRef, dir *attribution.Directory) (*ArchivedMeeting, error) {
	doc, err := a.source.GetDocument(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	if doc.CreatedAt == nil {
		doc.CreatedAt = ref.CreatedAt
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSpace(ref.Title)
	}

	attendees, err := a.source.GetAttendees(ctx, ref.ID)
	if err != nil && !errors.Is(err, ucerrors.ErrNotFound) {
		return nil, err
	}
	doc.Attendees = attendees

	result := a.engine.Attribute(*doc, dir)

	meeting := doc.ToMeeting()
	if meeting.Title == "" {
		meeting.Title = UntitledTitle
	}
	var newClient string
	switch {
	case result.IsNew():
		newClient = result.Name
	case result.Assigned():
		meeting.ClientID = &result.ClientID
	}

	client, created, err := a.meetings.Archive(ctx, meeting, newClient)
	if err != nil {
		return nil, err
	}

	entry := &ArchivedMeeting{
		DocumentID: meeting.DocumentID,
		MeetingID:  meeting.ID,
		Title:      meeting.Title,
		ClientName: result.Name,
		Method:     result.Method,
	}
	if client != nil {
		entry.ClientName = client.Name
		entry.ClientCreated = created
		dir.Add(attribution.ClientRef{ID: client.ID, Name: client.Name})
	}

	if a.raw != nil {
		if err := a.raw.PutDocument(ctx, runID, doc.DocumentID, doc); err != nil {
			a.logger.Warn("failed to store raw document", zap.String("document_id", doc.DocumentID), zap.Error(err))
		}
	}
	return entry, nil
}

// AssignMeeting sets a meeting's client, creating the client when no name
// or alias matches
func (a *Archiver) AssignMeeting(ctx context.Context, meetingID int64, clientName string) (*Assignment, error) {
	meeting, err := a.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	client, created, err := a.directory.GetOrCreateClient(ctx, clientName)
	if err != nil {
		return nil, err
	}

	if err := a.meetings.AssignClient(ctx, meetingID, &client.ID); err != nil {
		return nil, err
	}

	a.logger.Info("meeting assigned",
		zap.Int64("meeting_id", meetingID),
		zap.String("client", client.Name),
		zap.Bool("client_created", created),
	)
	return &Assignment{MeetingID: meetingID, Title: meeting.Title, Client: *client, ClientCreated: created}, nil
}

// UpdateMeetingNotes replaces the manual notes of a meeting
func (a *Archiver) UpdateMeetingNotes(ctx context.Context, meetingID int64, notes string) (*entities.MeetingRef, error) {
	meeting, err := a.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := a.meetings.UpdateNotes(ctx, meetingID, notes); err != nil {
		return nil, err
	}
	return &entities.MeetingRef{
		ID:          meeting.ID,
		DocumentID:  meeting.DocumentID,
		Title:       meeting.Title,
		MeetingDate: meeting.MeetingDate,
		ClientID:    meeting.ClientID,
		MeetingType: meeting.MeetingType,
	}, nil
}
