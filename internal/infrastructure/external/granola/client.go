package granola

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
	"github.com/johnquangdev/meeting-archive/pkg/config"
)

// Client reads documents from the local meeting capture app
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a source client from config
func NewClient(cfg config.SourceConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type documentList struct {
	Documents []documentRef `json:"documents"`
}

type documentRef struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type document struct {
	documentRef
	Transcript    json.RawMessage `json:"transcript"`
	EnhancedNotes string          `json:"enhanced_notes"`
	ManualNotes   string          `json:"manual_notes"`
}

type utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type attendeeList struct {
	Attendees []entities.Attendee `json:"attendees"`
}

// ListDocuments lists documents newest first. since and limit are optional.
func (c *Client) ListDocuments(ctx context.Context, since *time.Time, limit int) ([]entities.DocumentRef, error) {
	query := url.Values{}
	if since != nil {
		query.Set("since", since.UTC().Format(time.RFC3339))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var out documentList
	if err := c.get(ctx, "/v1/documents", query, &out); err != nil {
		return nil, err
	}

	refs := make([]entities.DocumentRef, 0, len(out.Documents))
	for _, d := range out.Documents {
		if d.ID == "" {
			continue
		}
		refs = append(refs, entities.DocumentRef{
			ID:        d.ID,
			Title:     d.Title,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}

	c.logger.Debug("listed source documents", zap.Int("count", len(refs)))
	return refs, nil
}

// GetDocument fetches one document's content. Attendees are fetched
// separately with GetAttendees.
func (c *Client) GetDocument(ctx context.Context, id string) (*entities.CanonicalMeeting, error) {
	var doc document
	if err := c.get(ctx, "/v1/documents/"+url.PathEscape(id), nil, &doc); err != nil {
		return nil, err
	}

	transcript, err := renderTranscript(doc.Transcript)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w: unreadable transcript: %v", id, ucerrors.ErrMalformedDocument, err)
	}

	documentID := doc.ID
	if documentID == "" {
		documentID = id
	}
	return &entities.CanonicalMeeting{
		DocumentID:    documentID,
		Title:         strings.TrimSpace(doc.Title),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		Transcript:    transcript,
		EnhancedNotes: doc.EnhancedNotes,
		ManualNotes:   doc.ManualNotes,
	}, nil
}

// GetAttendees fetches the participants of one document
func (c *Client) GetAttendees(ctx context.Context, id string) ([]entities.Attendee, error) {
	var out attendeeList
	if err := c.get(ctx, "/v1/documents/"+url.PathEscape(id)+"/attendees", nil, &out); err != nil {
		return nil, err
	}
	return out.Attendees, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ucerrors.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ucerrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("source %s: %w", path, ucerrors.ErrNotFound)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned status %d: %s", ucerrors.ErrSourceUnavailable, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return decodeError(path, err)
	}
	return nil
}

// decodeError separates a body the source sent in the wrong shape from a
// connection that broke mid-read.
func decodeError(path string, err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) {
		return fmt.Errorf("source %s: %w: %v", path, ucerrors.ErrMalformedDocument, err)
	}
	return fmt.Errorf("%w: decode %s: %v", ucerrors.ErrSourceUnavailable, path, err)
}

// renderTranscript accepts either a plain string or a list of utterances,
// rendered one "Speaker: text" line each.
func renderTranscript(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", err
		}
		return text, nil
	}

	var parts []utterance
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", err
	}
	lines := make([]string, 0, len(parts))
	for _, u := range parts {
		text := strings.TrimSpace(u.Text)
		if text == "" {
			continue
		}
		if speaker := strings.TrimSpace(u.Speaker); speaker != "" {
			lines = append(lines, speaker+": "+text)
		} else {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
