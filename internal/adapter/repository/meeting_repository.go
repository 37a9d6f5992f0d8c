package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

// refColumns are the Tier 1 fields of a meeting joined with its client name
const refColumns = "m.id, m.document_id, m.title, m.meeting_date, m.client_id, c.name AS client_name, m.meeting_type"

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// ExistingDocumentIDs returns which of ids are already archived
func (r *meetingRepository) ExistingDocumentIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	var found []string
	err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("document_id IN ?", ids).
		Pluck("document_id", &found).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrMeetingNotFound)
	}

	for _, id := range found {
		existing[id] = struct{}{}
	}
	return existing, nil
}

// Archive inserts the meeting, creating its client first when asked. The
// whole unit rolls back on any failure, including a duplicate document id,
// so a client is never created for a meeting that was not inserted.
func (r *meetingRepository) Archive(ctx context.Context, meeting *entities.Meeting, newClientName string) (*entities.Client, bool, error) {
	var (
		client  *entities.Client
		created bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if newClientName != "" {
			c, isNew, err := getOrCreateClient(tx, newClientName)
			if err != nil {
				return err
			}
			client, created = c, isNew
			meeting.ClientID = &c.ID
		}

		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "document_id"}},
				DoNothing: true,
			}).
			Create(meeting)
		if res.Error != nil {
			return fmt.Errorf("failed to insert meeting: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ucerrors.ErrDuplicateDocument
		}
		return nil
	})
	if err != nil {
		if newClientName != "" {
			meeting.ClientID = nil
		}
		return nil, false, translateError(err, ucerrors.ErrClientNotFound)
	}
	return client, created, nil
}

// FindByID retrieves a meeting with its client
func (r *meetingRepository) FindByID(ctx context.Context, id int64) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id = ?", id).
		First(&meeting).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrMeetingNotFound)
	}
	return &meeting, nil
}

// List returns meeting references matching filters, newest first
func (r *meetingRepository) List(ctx context.Context, filters repositories.MeetingFilters) ([]entities.MeetingRef, error) {
	var refs []entities.MeetingRef

	query := r.db.WithContext(ctx).
		Table("meetings m").
		Select(refColumns).
		Joins("LEFT JOIN clients c ON c.id = m.client_id")

	// Apply filters
	if filters.ClientID != nil {
		query = query.Where("m.client_id = ?", *filters.ClientID)
	}
	if filters.UntaggedOnly {
		query = query.Where("m.client_id IS NULL")
	}
	if filters.Since != nil {
		query = query.Where("m.meeting_date >= ?", *filters.Since)
	}
	if filters.TitleQuery != "" {
		query = query.Where("m.title ILIKE ?", "%"+escapeLike(filters.TitleQuery)+"%")
	}

	query = query.Order("m.meeting_date DESC NULLS LAST").Order("m.id DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	if err := query.Scan(&refs).Error; err != nil {
		return nil, translateError(err, ucerrors.ErrMeetingNotFound)
	}
	return refs, nil
}

// ListWithNotes returns a client's meetings without transcripts
func (r *meetingRepository) ListWithNotes(ctx context.Context, clientID int64, limit int) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	query := r.db.WithContext(ctx).
		Select("id", "document_id", "title", "meeting_date", "client_id", "meeting_type", "summary_overview", "enhanced_notes").
		Where("client_id = ?", clientID).
		Order("meeting_date DESC NULLS LAST").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&meetings).Error; err != nil {
		return nil, translateError(err, ucerrors.ErrMeetingNotFound)
	}
	return meetings, nil
}

// Search ranks meetings with Postgres full-text search. Ranking and the
// LIMIT run index-side; headlines are generated for the returned rows only.
func (r *meetingRepository) Search(ctx context.Context, query string, clientID *int64, limit int) ([]entities.MeetingHit, error) {
	var filter string
	args := []interface{}{query}
	if clientID != nil {
		filter = "AND m.client_id = ?"
		args = append(args, *clientID)
	}
	args = append(args, limit)

	sql := fmt.Sprintf(`
		WITH q AS (SELECT plainto_tsquery('english', ?) AS query),
		ranked AS (
			SELECT m.id, ts_rank(m.search_vector, q.query) AS score
			FROM meetings m, q
			WHERE m.search_vector @@ q.query %s
			ORDER BY score DESC, m.meeting_date DESC NULLS LAST, m.id DESC
			LIMIT ?
		)
		SELECT %s, r.score,
		       ts_headline('english',
		           concat_ws(' ', m.summary_overview, m.enhanced_notes, m.transcript),
		           q.query,
		           'MaxWords=60, MinWords=20, MaxFragments=2, FragmentDelimiter=" ... "') AS snippet
		FROM ranked r
		JOIN meetings m ON m.id = r.id
		LEFT JOIN clients c ON c.id = m.client_id
		CROSS JOIN q
		ORDER BY r.score DESC, m.meeting_date DESC NULLS LAST, m.id DESC`, filter, refColumns)

	var rows []struct {
		entities.MeetingRef
		Score   float64
		Snippet string
	}
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, translateError(err, ucerrors.ErrMeetingNotFound)
	}

	hits := make([]entities.MeetingHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, entities.MeetingHit{
			MeetingRef: row.MeetingRef,
			Snippet:    row.Snippet,
			Score:      row.Score,
		})
	}
	return hits, nil
}

// AssignClient sets or clears the owning client
func (r *meetingRepository) AssignClient(ctx context.Context, meetingID int64, clientID *int64) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", meetingID).
		Update("client_id", clientID)
	if res.Error != nil {
		return translateError(res.Error, ucerrors.ErrClientNotFound)
	}
	if res.RowsAffected == 0 {
		return ucerrors.ErrMeetingNotFound
	}
	return nil
}

// UpdateNotes replaces the manual notes
func (r *meetingRepository) UpdateNotes(ctx context.Context, meetingID int64, notes string) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", meetingID).
		Update("manual_notes", notes)
	if res.Error != nil {
		return translateError(res.Error, ucerrors.ErrMeetingNotFound)
	}
	if res.RowsAffected == 0 {
		return ucerrors.ErrMeetingNotFound
	}
	return nil
}

// Stats aggregates archive counts
func (r *meetingRepository) Stats(ctx context.Context, since time.Time, top int) (*entities.MeetingStats, error) {
	var counts struct {
		TotalMeetings  int64
		TotalClients   int64
		Untagged       int64
		LastThirtyDays int64
	}
	db := r.db.WithContext(ctx)

	err := db.Raw(`
		SELECT
			(SELECT COUNT(*) FROM meetings) AS total_meetings,
			(SELECT COUNT(*) FROM clients) AS total_clients,
			(SELECT COUNT(*) FROM meetings WHERE client_id IS NULL) AS untagged,
			(SELECT COUNT(*) FROM meetings WHERE meeting_date >= ?) AS last_thirty_days`, since).
		Scan(&counts).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrMeetingNotFound)
	}

	stats := &entities.MeetingStats{
		TotalMeetings:  counts.TotalMeetings,
		TotalClients:   counts.TotalClients,
		Untagged:       counts.Untagged,
		LastThirtyDays: counts.LastThirtyDays,
	}

	err = db.Table("clients c").
		Select("c.id, c.name, COUNT(m.id) AS meeting_count, MAX(m.meeting_date) AS last_meeting").
		Joins("JOIN meetings m ON m.client_id = c.id").
		Group("c.id, c.name").
		Order("meeting_count DESC").
		Order("lower(c.name) ASC").
		Limit(top).
		Scan(&stats.TopClients).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrMeetingNotFound)
	}
	return stats, nil
}
