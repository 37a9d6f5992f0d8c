package directory

import (
	"context"
	"encoding/json"
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
	// The snapshot lives under snapshotKey:<generation>. Invalidate moves
	// the generation on, so a load that raced a mutation is written under
	// a key no reader asks for again.
	snapshotKey     = "directory:snapshot"
	generationKey   = "directory:generation"
	suggestionLimit = 5
)

// Cache is the key-value store the directory snapshot is kept in.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Service owns clients, aliases, integration links, series and context
// documents.
type Service interface {
	CreateClient(ctx context.Context, input CreateClientInput) (*entities.Client, error)
	GetOrCreateClient(ctx context.Context, name string) (*entities.Client, bool, error)
	ResolveClient(ctx context.Context, name string) (*entities.Client, error)
	ListClients(ctx context.Context) ([]entities.ClientSummary, error)
	SuggestClients(ctx context.Context, fragment string) ([]string, error)
	DeleteClient(ctx context.Context, name string) (*entities.Client, error)
	Merge(ctx context.Context, sourceName, targetName string) (*MergeOutcome, error)
	Rename(ctx context.Context, clientID int64, newName string) (*RenameOutcome, error)
	RenameByName(ctx context.Context, oldName, newName string) (*RenameOutcome, error)

	AddAlias(ctx context.Context, alias, clientName string) (*entities.ClientAlias, error)
	ListAliases(ctx context.Context, clientName string) ([]entities.ClientAlias, error)
	DeleteAlias(ctx context.Context, alias string) error

	SetLink(ctx context.Context, input LinkInput) (*entities.IntegrationLink, error)
	GetLinks(ctx context.Context, clientName string) (*entities.Client, []entities.IntegrationLink, error)
	ListLinks(ctx context.Context) ([]entities.IntegrationLink, error)
	DeleteLink(ctx context.Context, clientName string, kind entities.IntegrationKind) error

	CreateSeries(ctx context.Context, input SeriesInput) (*entities.MeetingSeries, error)
	ListSeries(ctx context.Context, clientName string) ([]entities.MeetingSeries, error)

	AddContext(ctx context.Context, input ContextInput) (*entities.ContextDocument, error)
	UpdateContext(ctx context.Context, id int64, changes repositories.ContextChanges) error
	DeleteContext(ctx context.Context, id int64) error

	Snapshot(ctx context.Context) (attribution.Snapshot, error)
	Invalidate(ctx context.Context)
}

var _ Service = (*DirectoryService)(nil)

// CreateClientInput contains the data needed to create a client
type CreateClientInput struct {
	Name  string
	Slug  string
	Notes string
}

// LinkInput links a client to an external identifier. The client is created
// when it does not exist.
type LinkInput struct {
	ClientName   string
	Kind         entities.IntegrationKind
	ExternalID   string
	ExternalName string
	Metadata     map[string]interface{}
}

// SeriesInput contains the data needed to create a meeting series
type SeriesInput struct {
	Name              string
	ClientName        string
	MeetingType       string
	RecurrencePattern string
	Notes             string
}

// ContextInput contains the data needed to add a context document
type ContextInput struct {
	ClientName  string
	Title       string
	Content     string
	ContextType entities.ContextType
	Summary     string
	SourceURL   string
}

// MergeOutcome reports a completed merge.
type MergeOutcome struct {
	Source entities.Client
	Target entities.Client
	repositories.MergeResult
}

// RenameOutcome reports a completed rename.
type RenameOutcome struct {
	ClientID int64
	OldName  string
	NewName  string
}

// DirectoryService implements Service
type DirectoryService struct {
	clients      repositories.ClientRepository
	aliases      repositories.AliasRepository
	integrations repositories.IntegrationRepository
	series       repositories.SeriesRepository
	contexts     repositories.ContextRepository
	cache        Cache
	cacheTTL     time.Duration
	logger       *zap.Logger
}

// Repositories groups the stores the directory writes to.
type Repositories struct {
	Clients      repositories.ClientRepository
	Aliases      repositories.AliasRepository
	Integrations repositories.IntegrationRepository
	Series       repositories.SeriesRepository
	Contexts     repositories.ContextRepository
}

// NewDirectoryService creates a new directory service. cache may be nil, in
// which case every snapshot is read from the store.
func NewDirectoryService(repos Repositories, cache Cache, cacheTTL time.Duration, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{
		clients:      repos.Clients,
		aliases:      repos.Aliases,
		integrations: repos.Integrations,
		series:       repos.Series,
		contexts:     repos.Contexts,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// CreateClient creates a client explicitly
func (s *DirectoryService) CreateClient(ctx context.Context, input CreateClientInput) (*entities.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ucerrors.ErrEmptyName
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = entities.Slugify(name)
	}
	client := &entities.Client{Name: name, Slug: &slug}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		client.Notes = &notes
	}
	if err := s.clients.Create(ctx, client); err != nil {
		if errors.Is(err, ucerrors.ErrConflict) {
			return nil, fmt.Errorf("%w: %q", ucerrors.ErrClientNameTaken, name)
		}
		return nil, err
	}

	s.Invalidate(ctx)
	s.logger.Info("client created", zap.Int64("client_id", client.ID), zap.String("name", name))
	return client, nil
}

// GetOrCreateClient resolves name, creating a client when nothing matches
func (s *DirectoryService) GetOrCreateClient(ctx context.Context, name string) (*entities.Client, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ucerrors.ErrEmptyName
	}

	client, err := s.ResolveClient(ctx, name)
	if err == nil {
		return client, false, nil
	}
	if !errors.Is(err, ucerrors.ErrNotFound) {
		return nil, false, err
	}

	client, created, err := s.clients.GetOrCreate(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.Invalidate(ctx)
		s.logger.Info("client created", zap.Int64("client_id", client.ID), zap.String("name", client.Name))
	}
	return client, created, nil
}

// ResolveClient looks name up as a canonical name, then as an alias
func (s *DirectoryService) ResolveClient(ctx context.Context, name string) (*entities.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ucerrors.ErrEmptyName
	}

	client, err := s.clients.FindByName(ctx, name)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, ucerrors.ErrNotFound) {
		return nil, err
	}

	alias, err := s.aliases.FindByAlias(ctx, name)
	if err != nil {
		if errors.Is(err, ucerrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ucerrors.ErrClientNotFound, name)
		}
		return nil, err
	}
	if alias.Client != nil {
		return alias.Client, nil
	}
	return s.clients.FindByID(ctx, alias.ClientID)
}

// ListClients returns every client with its meeting count
func (s *DirectoryService) ListClients(ctx context.Context) ([]entities.ClientSummary, error) {
	return s.clients.List(ctx)
}

// SuggestClients returns names similar to fragment, for "did you mean" hints
func (s *DirectoryService) SuggestClients(ctx context.Context, fragment string) ([]string, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, nil
	}
	found, err := s.clients.Suggest(ctx, fragment, suggestionLimit)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(found))
	for _, c := range found {
		names = append(names, c.Name)
	}
	return names, nil
}

// DeleteClient removes a client. Meetings survive unassigned.
func (s *DirectoryService) DeleteClient(ctx context.Context, name string) (*entities.Client, error) {
	client, err := s.clients.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.clients.Delete(ctx, client.ID); err != nil {
		return nil, err
	}

	s.Invalidate(ctx)
	s.logger.Info("client deleted", zap.Int64("client_id", client.ID), zap.String("name", client.Name))
	return client, nil
}

// Merge folds source into target. Both must exist; the target is never
// created here.
func (s *DirectoryService) Merge(ctx context.Context, sourceName, targetName string) (*MergeOutcome, error) {
	source, err := s.ResolveClient(ctx, sourceName)
	if err != nil {
		return nil, err
	}
	target, err := s.ResolveClient(ctx, targetName)
	if err != nil {
		return nil, err
	}
	if source.ID == target.ID {
		return nil, fmt.Errorf("%w: %q and %q", ucerrors.ErrSameClient, sourceName, targetName)
	}

	result, err := s.clients.Merge(ctx, source, target)
	if err != nil {
		return nil, err
	}

	s.Invalidate(ctx)
	s.logger.Info("clients merged",
		zap.String("source", source.Name),
		zap.String("target", target.Name),
		zap.Int64("meetings_moved", result.MeetingsMoved),
		zap.Int64("context_moved", result.ContextMoved),
		zap.Int64("links_moved", result.LinksMoved),
	)
	return &MergeOutcome{Source: *source, Target: *target, MergeResult: *result}, nil
}

// Rename changes a client's canonical name and keeps the old one as an alias
func (s *DirectoryService) Rename(ctx context.Context, clientID int64, newName string) (*RenameOutcome, error) {
	client, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return s.rename(ctx, client, newName)
}

// RenameByName renames the client currently called oldName
func (s *DirectoryService) RenameByName(ctx context.Context, oldName, newName string) (*RenameOutcome, error) {
	client, err := s.clients.FindByName(ctx, oldName)
	if err != nil {
		return nil, err
	}
	return s.rename(ctx, client, newName)
}

func (s *DirectoryService) rename(ctx context.Context, client *entities.Client, newName string) (*RenameOutcome, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ucerrors.ErrEmptyName
	}
	if err := s.ensureNameFree(ctx, newName, client.ID); err != nil {
		return nil, err
	}

	oldName := client.Name
	if oldName == newName {
		return &RenameOutcome{ClientID: client.ID, OldName: oldName, NewName: newName}, nil
	}
	if err := s.clients.Rename(ctx, client, newName); err != nil {
		if errors.Is(err, ucerrors.ErrConflict) {
			return nil, fmt.Errorf("%w: %q", ucerrors.ErrClientNameTaken, newName)
		}
		return nil, err
	}

	s.Invalidate(ctx)
	s.logger.Info("client renamed",
		zap.Int64("client_id", client.ID),
		zap.String("old_name", oldName),
		zap.String("new_name", newName),
	)
	return &RenameOutcome{ClientID: client.ID, OldName: oldName, NewName: newName}, nil
}

// ensureNameFree rejects a name already used by another client, as a
// canonical name or as an alias. ownerID is the client allowed to hold it.
func (s *DirectoryService) ensureNameFree(ctx context.Context, name string, ownerID int64) error {
	existing, err := s.clients.FindByName(ctx, name)
	switch {
	case err == nil && existing.ID != ownerID:
		return fmt.Errorf("%w: %q belongs to another client; merge the clients instead", ucerrors.ErrClientNameTaken, existing.Name)
	case err != nil && !errors.Is(err, ucerrors.ErrNotFound):
		return err
	}

	alias, err := s.aliases.FindByAlias(ctx, name)
	switch {
	case err == nil && alias.ClientID != ownerID:
		return fmt.Errorf("%w: %q is an alias of client %d", ucerrors.ErrAliasCollision, alias.Alias, alias.ClientID)
	case err != nil && !errors.Is(err, ucerrors.ErrNotFound):
		return err
	}
	return nil
}

// AddAlias maps alias to an existing client
func (s *DirectoryService) AddAlias(ctx context.Context, alias, clientName string) (*entities.ClientAlias, error) {
	normalized := entities.NormalizeAlias(alias)
	if normalized == "" {
		return nil, ucerrors.ErrEmptyName
	}

	client, err := s.ResolveClient(ctx, clientName)
	if err != nil {
		return nil, err
	}

	if existing, err := s.clients.FindByName(ctx, normalized); err == nil {
		return nil, fmt.Errorf("%w: %q is the canonical name of a client", ucerrors.ErrAliasCollision, existing.Name)
	} else if !errors.Is(err, ucerrors.ErrNotFound) {
		return nil, err
	}

	if err := s.aliases.Upsert(ctx, normalized, client.ID); err != nil {
		return nil, err
	}

	s.Invalidate(ctx)
	s.logger.Info("alias added", zap.String("alias", normalized), zap.String("client", client.Name))
	return &entities.ClientAlias{Alias: normalized, ClientID: client.ID, Client: client}, nil
}

// ListAliases lists aliases, optionally for one client
func (s *DirectoryService) ListAliases(ctx context.Context, clientName string) ([]entities.ClientAlias, error) {
	if strings.TrimSpace(clientName) == "" {
		return s.aliases.List(ctx, nil)
	}
	client, err := s.ResolveClient(ctx, clientName)
	if err != nil {
		return nil, err
	}
	return s.aliases.List(ctx, &client.ID)
}

// DeleteAlias removes an alias
func (s *DirectoryService) DeleteAlias(ctx context.Context, alias string) error {
	if err := s.aliases.Delete(ctx, alias); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

// SetLink links a client to an external identifier, replacing any link of
// the same kind
func (s *DirectoryService) SetLink(ctx context.Context, input LinkInput) (*entities.IntegrationLink, error) {
	if !input.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ucerrors.ErrInvalidKind, input.Kind)
	}
	externalID := strings.TrimSpace(input.ExternalID)
	if externalID == "" {
		return nil, fmt.Errorf("%w: external id is required", ucerrors.ErrInvalidArgument)
	}

	client, _, err := s.GetOrCreateClient(ctx, input.ClientName)
	if err != nil {
		return nil, err
	}

	existing, err := s.integrations.FindByExternalID(ctx, input.Kind, externalID)
	switch {
	case err == nil && existing.ClientID != client.ID:
		owner := fmt.Sprintf("client %d", existing.ClientID)
		if existing.Client != nil {
			owner = existing.Client.Name
		}
		return nil, fmt.Errorf("%w: %s %q is linked to %s", ucerrors.ErrLinkTaken, input.Kind, externalID, owner)
	case err != nil && !errors.Is(err, ucerrors.ErrNotFound):
		return nil, err
	}

	link := &entities.IntegrationLink{
		ClientID:   client.ID,
		Kind:       input.Kind,
		ExternalID: externalID,
		Metadata:   input.Metadata,
	}
	if name := strings.TrimSpace(input.ExternalName); name != "" {
		link.ExternalName = &name
	}
	if err := s.integrations.Upsert(ctx, link); err != nil {
		return nil, err
	}
	link.Client = client

	s.logger.Info("integration linked",
		zap.String("client", client.Name),
		zap.String("kind", string(input.Kind)),
		zap.String("external_id", externalID),
	)
	return link, nil
}

// GetLinks returns every link of one client
func (s *DirectoryService) GetLinks(ctx context.Context, clientName string) (*entities.Client, []entities.IntegrationLink, error) {
	client, err := s.ResolveClient(ctx, clientName)
	if err != nil {
		return nil, nil, err
	}
	links, err := s.integrations.List(ctx, &client.ID)
	if err != nil {
		return nil, nil, err
	}
	return client, links, nil
}

// ListLinks returns every link
func (s *DirectoryService) ListLinks(ctx context.Context) ([]entities.IntegrationLink, error) {
	return s.integrations.List(ctx, nil)
}

// DeleteLink removes one kind of link from a client
func (s *DirectoryService) DeleteLink(ctx context.Context, clientName string, kind entities.IntegrationKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ucerrors.ErrInvalidKind, kind)
	}
	client, err := s.ResolveClient(ctx, clientName)
	if err != nil {
		return err
	}
	return s.integrations.Delete(ctx, client.ID, kind)
}

// CreateSeries creates a meeting series, optionally owned by a client
func (s *DirectoryService) CreateSeries(ctx context.Context, input SeriesInput) (*entities.MeetingSeries, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ucerrors.ErrEmptyName
	}

	series := &entities.MeetingSeries{
		Name:              name,
		MeetingType:       optional(input.MeetingType),
		RecurrencePattern: optional(input.RecurrencePattern),
		Notes:             optional(input.Notes),
	}
	if strings.TrimSpace(input.ClientName) != "" {
		client, err := s.ResolveClient(ctx, input.ClientName)
		if err != nil {
			return nil, err
		}
		series.ClientID = &client.ID
		series.Client = client
	}

	if err := s.series.Create(ctx, series); err != nil {
		return nil, err
	}
	return series, nil
}

// ListSeries lists meeting series, optionally for one client
func (s *DirectoryService) ListSeries(ctx context.Context, clientName string) ([]entities.MeetingSeries, error) {
	if strings.TrimSpace(clientName) == "" {
		return s.series.List(ctx, nil)
	}
	client, err := s.ResolveClient(ctx, clientName)
	if err != nil {
		return nil, err
	}
	return s.series.List(ctx, &client.ID)
}

// AddContext attaches a context document to an existing client
func (s *DirectoryService) AddContext(ctx context.Context, input ContextInput) (*entities.ContextDocument, error) {
	if input.ContextType == "" {
		input.ContextType = entities.ContextTypeNote
	}
	if !input.ContextType.Valid() {
		return nil, fmt.Errorf("%w: %q", ucerrors.ErrInvalidContextTy, input.ContextType)
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ucerrors.ErrInvalidArgument)
	}

	client, err := s.ResolveClient(ctx, input.ClientName)
	if err != nil {
		return nil, err
	}

	doc := &entities.ContextDocument{
		ClientID:    client.ID,
		Title:       strings.TrimSpace(input.Title),
		ContextType: input.ContextType,
		Content:     input.Content,
		Summary:     optional(input.Summary),
		SourceURL:   optional(input.SourceURL),
	}
	if err := s.contexts.Create(ctx, doc); err != nil {
		return nil, err
	}
	doc.Client = client
	return doc, nil
}

// UpdateContext changes selected fields of a context document
func (s *DirectoryService) UpdateContext(ctx context.Context, id int64, changes repositories.ContextChanges) error {
	if changes.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", ucerrors.ErrInvalidArgument)
	}
	if changes.ContextType != nil && !changes.ContextType.Valid() {
		return fmt.Errorf("%w: %q", ucerrors.ErrInvalidContextTy, *changes.ContextType)
	}
	return s.contexts.Update(ctx, id, changes)
}

// DeleteContext removes a context document
func (s *DirectoryService) DeleteContext(ctx context.Context, id int64) error {
	return s.contexts.Delete(ctx, id)
}

// Snapshot returns every client and alias, read through the cache
func (s *DirectoryService) Snapshot(ctx context.Context) (attribution.Snapshot, error) {
	var key string
	if s.cache != nil {
		gen, err := s.generation(ctx)
		if err != nil {
			s.logger.Warn("directory cache read failed", zap.Error(err))
		} else {
			key = snapshotKey + ":" + gen
			if snap, ok := s.cachedSnapshot(ctx, key); ok {
				return snap, nil
			}
		}
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return attribution.Snapshot{}, err
	}

	if key != "" {
		if raw, err := json.Marshal(snap); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
				s.logger.Warn("directory cache write failed", zap.Error(err))
			}
		}
	}
	return snap, nil
}

func (s *DirectoryService) cachedSnapshot(ctx context.Context, key string) (attribution.Snapshot, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("directory cache read failed", zap.Error(err))
		return attribution.Snapshot{}, false
	}
	if !ok {
		return attribution.Snapshot{}, false
	}
	var snap attribution.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.logger.Warn("discarding unreadable directory snapshot")
		return attribution.Snapshot{}, false
	}
	return snap, true
}

// generation returns the current snapshot generation, starting one when
// the cache holds none.
func (s *DirectoryService) generation(ctx context.Context) (string, error) {
	gen, ok, err := s.cache.Get(ctx, generationKey)
	if err != nil {
		return "", err
	}
	if ok && gen != "" {
		return gen, nil
	}
	gen = uuid.NewString()
	if err := s.cache.Set(ctx, generationKey, gen, 0); err != nil {
		return "", err
	}
	return gen, nil
}

func (s *DirectoryService) loadSnapshot(ctx context.Context) (attribution.Snapshot, error) {
	clients, err := s.clients.All(ctx)
	if err != nil {
		return attribution.Snapshot{}, err
	}
	aliases, err := s.aliases.List(ctx, nil)
	if err != nil {
		return attribution.Snapshot{}, err
	}

	snap := attribution.Snapshot{
		Clients: make([]attribution.ClientRef, 0, len(clients)),
		Aliases: make([]attribution.AliasRef, 0, len(aliases)),
	}
	for _, c := range clients {
		snap.Clients = append(snap.Clients, attribution.ClientRef{ID: c.ID, Name: c.Name})
	}
	for _, a := range aliases {
		snap.Aliases = append(snap.Aliases, attribution.AliasRef{Alias: a.Alias, ClientID: a.ClientID})
	}
	return snap, nil
}

// Invalidate starts a new snapshot generation and drops the old snapshot
func (s *DirectoryService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	old, ok, err := s.cache.Get(ctx, generationKey)
	if err != nil {
		s.logger.Warn("directory cache read failed", zap.Error(err))
	}
	if err := s.cache.Set(ctx, generationKey, uuid.NewString(), 0); err != nil {
		s.logger.Warn("directory cache invalidation failed", zap.Error(err))
	}
	if ok && old != "" {
		if err := s.cache.Delete(ctx, snapshotKey+":"+old); err != nil {
			s.logger.Warn("failed to drop stale directory snapshot", zap.Error(err))
		}
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
