package repositories

import (
	"context"
	"time"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// ExistingDocumentIDs returns the subset of ids that are already archived
	ExistingDocumentIDs(ctx context.Context, ids []string) (map[string]struct{}, error)

	// Archive inserts meeting in one transaction. When newClientName is set
	// the client is fetched or created first and assigned to the meeting;
	// created reports whether this call inserted it. An already-archived
	// document id fails with a Conflict and nothing is written.
	Archive(ctx context.Context, meeting *entities.Meeting, newClientName string) (client *entities.Client, created bool, err error)

	// FindByID retrieves a meeting with every content field
	FindByID(ctx context.Context, id int64) (*entities.Meeting, error)

	// List returns meeting references matching filters, newest first
	List(ctx context.Context, filters MeetingFilters) ([]entities.MeetingRef, error)

	// ListWithNotes returns meetings for a client with summary and notes
	// loaded but no transcript, newest first
	ListWithNotes(ctx context.Context, clientID int64, limit int) ([]entities.Meeting, error)

	// Search ranks meetings against a keyword query
	Search(ctx context.Context, query string, clientID *int64, limit int) ([]entities.MeetingHit, error)

	// AssignClient sets or clears the owning client of a meeting
	AssignClient(ctx context.Context, meetingID int64, clientID *int64) error

	// UpdateNotes replaces the manual notes of a meeting
	UpdateNotes(ctx context.Context, meetingID int64, notes string) error

	// Stats aggregates archive counts; since bounds the recent window
	Stats(ctx context.Context, since time.Time, top int) (*entities.MeetingStats, error)
}

// MeetingFilters represents filter options for listing meetings
type MeetingFilters struct {
	ClientID     *int64
	Since        *time.Time
	TitleQuery   string
	UntaggedOnly bool
	Limit        int
}
