package directory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

// store is a tiny in-memory directory shared by the fake repositories.
type store struct {
	afterAll func() // runs once a client listing has been read
	nextID   int64
	clients  map[int64]*entities.Client
	aliases  map[string]int64
	links    map[int64]map[entities.IntegrationKind]*entities.IntegrationLink
	series   []entities.MeetingSeries
	contexts map[int64]*entities.ContextDocument
	meetings map[int64]*int64 // meeting id -> client id
}

func newStore() *store {
	return &store{
		clients:  map[int64]*entities.Client{},
		aliases:  map[string]int64{},
		links:    map[int64]map[entities.IntegrationKind]*entities.IntegrationLink{},
		contexts: map[int64]*entities.ContextDocument{},
		meetings: map[int64]*int64{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) addClient(name string) *entities.Client {
	c := &entities.Client{ID: s.id(), Name: name}
	s.clients[c.ID] = c
	return c
}

func (s *store) byName(name string) *entities.Client {
	for _, c := range s.clients {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c
		}
	}
	return nil
}

type fakeClients struct{ s *store }

func (f fakeClients) Create(_ context.Context, client *entities.Client) error {
	if f.s.byName(client.Name) != nil {
		return ucerrors.ErrConflict
	}
	client.ID = f.s.id()
	f.s.clients[client.ID] = client
	return nil
}

func (f fakeClients) FindByID(_ context.Context, id int64) (*entities.Client, error) {
	if c, ok := f.s.clients[id]; ok {
		return c, nil
	}
	return nil, ucerrors.ErrClientNotFound
}

func (f fakeClients) FindByName(_ context.Context, name string) (*entities.Client, error) {
	if c := f.s.byName(name); c != nil {
		return c, nil
	}
	return nil, ucerrors.ErrClientNotFound
}

func (f fakeClients) GetOrCreate(_ context.Context, name string) (*entities.Client, bool, error) {
	if c := f.s.byName(name); c != nil {
		return c, false, nil
	}
	return f.s.addClient(name), true, nil
}

func (f fakeClients) List(_ context.Context) ([]entities.ClientSummary, error) {
	var out []entities.ClientSummary
	for _, c := range f.s.clients {
		var n int64
		for _, owner := range f.s.meetings {
			if owner != nil && *owner == c.ID {
				n++
			}
		}
		out = append(out, entities.ClientSummary{ID: c.ID, Name: c.Name, MeetingCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeClients) Suggest(_ context.Context, fragment string, limit int) ([]entities.Client, error) {
	var out []entities.Client
	for _, c := range f.s.clients {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(fragment)) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeClients) Delete(_ context.Context, id int64) error {
	if _, ok := f.s.clients[id]; !ok {
		return ucerrors.ErrClientNotFound
	}
	delete(f.s.clients, id)
	for alias, owner := range f.s.aliases {
		if owner == id {
			delete(f.s.aliases, alias)
		}
	}
	delete(f.s.links, id)
	for mid, owner := range f.s.meetings {
		if owner != nil && *owner == id {
			f.s.meetings[mid] = nil
		}
	}
	return nil
}

func (f fakeClients) Merge(_ context.Context, source, target *entities.Client) (*repositories.MergeResult, error) {
	res := &repositories.MergeResult{}
	for mid, owner := range f.s.meetings {
		if owner != nil && *owner == source.ID {
			id := target.ID
			f.s.meetings[mid] = &id
			res.MeetingsMoved++
		}
	}
	for _, doc := range f.s.contexts {
		if doc.ClientID == source.ID {
			doc.ClientID = target.ID
			res.ContextMoved++
		}
	}
	for kind, link := range f.s.links[source.ID] {
		if _, taken := f.s.links[target.ID][kind]; taken {
			res.LinksDropped++
			continue
		}
		if f.s.links[target.ID] == nil {
			f.s.links[target.ID] = map[entities.IntegrationKind]*entities.IntegrationLink{}
		}
		link.ClientID = target.ID
		f.s.links[target.ID][kind] = link
		res.LinksMoved++
	}
	delete(f.s.links, source.ID)
	for alias, owner := range f.s.aliases {
		if owner == source.ID {
			f.s.aliases[alias] = target.ID
			res.AliasesMoved++
		}
	}
	f.s.aliases[entities.NormalizeAlias(source.Name)] = target.ID
	delete(f.s.clients, source.ID)
	return res, nil
}

func (f fakeClients) Rename(_ context.Context, client *entities.Client, newName string) error {
	old := client.Name
	if owner, ok := f.s.aliases[entities.NormalizeAlias(newName)]; ok && owner == client.ID {
		delete(f.s.aliases, entities.NormalizeAlias(newName))
	}
	client.Name = newName
	if !strings.EqualFold(old, newName) {
		f.s.aliases[entities.NormalizeAlias(old)] = client.ID
	}
	return nil
}

func (f fakeClients) All(_ context.Context) ([]entities.Client, error) {
	var out []entities.Client
	for _, c := range f.s.clients {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if hook := f.s.afterAll; hook != nil {
		f.s.afterAll = nil
		hook()
	}
	return out, nil
}

type fakeAliases struct{ s *store }

func (f fakeAliases) Upsert(_ context.Context, alias string, clientID int64) error {
	f.s.aliases[entities.NormalizeAlias(alias)] = clientID
	return nil
}

func (f fakeAliases) FindByAlias(_ context.Context, alias string) (*entities.ClientAlias, error) {
	owner, ok := f.s.aliases[entities.NormalizeAlias(alias)]
	if !ok {
		return nil, ucerrors.ErrAliasNotFound
	}
	return &entities.ClientAlias{Alias: entities.NormalizeAlias(alias), ClientID: owner, Client: f.s.clients[owner]}, nil
}

func (f fakeAliases) List(_ context.Context, clientID *int64) ([]entities.ClientAlias, error) {
	var out []entities.ClientAlias
	for alias, owner := range f.s.aliases {
		if clientID != nil && *clientID != owner {
			continue
		}
		out = append(out, entities.ClientAlias{Alias: alias, ClientID: owner, Client: f.s.clients[owner]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out, nil
}

func (f fakeAliases) Delete(_ context.Context, alias string) error {
	key := entities.NormalizeAlias(alias)
	if _, ok := f.s.aliases[key]; !ok {
		return ucerrors.ErrAliasNotFound
	}
	delete(f.s.aliases, key)
	return nil
}

type fakeIntegrations struct{ s *store }

func (f fakeIntegrations) Upsert(_ context.Context, link *entities.IntegrationLink) error {
	if f.s.links[link.ClientID] == nil {
		f.s.links[link.ClientID] = map[entities.IntegrationKind]*entities.IntegrationLink{}
	}
	if link.ID == 0 {
		link.ID = f.s.id()
	}
	f.s.links[link.ClientID][link.Kind] = link
	return nil
}

func (f fakeIntegrations) Find(_ context.Context, clientID int64, kind entities.IntegrationKind) (*entities.IntegrationLink, error) {
	if link, ok := f.s.links[clientID][kind]; ok {
		return link, nil
	}
	return nil, ucerrors.ErrLinkNotFound
}

func (f fakeIntegrations) FindByExternalID(_ context.Context, kind entities.IntegrationKind, externalID string) (*entities.IntegrationLink, error) {
	for clientID, byKind := range f.s.links {
		if link, ok := byKind[kind]; ok && link.ExternalID == externalID {
			found := *link
			found.Client = f.s.clients[clientID]
			return &found, nil
		}
	}
	return nil, ucerrors.ErrLinkNotFound
}

func (f fakeIntegrations) List(_ context.Context, clientID *int64) ([]entities.IntegrationLink, error) {
	var out []entities.IntegrationLink
	for owner, byKind := range f.s.links {
		if clientID != nil && *clientID != owner {
			continue
		}
		for _, link := range byKind {
			out = append(out, *link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeIntegrations) Delete(_ context.Context, clientID int64, kind entities.IntegrationKind) error {
	if _, ok := f.s.links[clientID][kind]; !ok {
		return ucerrors.ErrLinkNotFound
	}
	delete(f.s.links[clientID], kind)
	return nil
}

type fakeSeries struct{ s *store }

func (f fakeSeries) Create(_ context.Context, series *entities.MeetingSeries) error {
	series.ID = f.s.id()
	f.s.series = append(f.s.series, *series)
	return nil
}

func (f fakeSeries) List(_ context.Context, clientID *int64) ([]entities.MeetingSeries, error) {
	var out []entities.MeetingSeries
	for _, series := range f.s.series {
		if clientID != nil && (series.ClientID == nil || *series.ClientID != *clientID) {
			continue
		}
		out = append(out, series)
	}
	return out, nil
}

type fakeContexts struct{ s *store }

func (f fakeContexts) Create(_ context.Context, doc *entities.ContextDocument) error {
	doc.ID = f.s.id()
	f.s.contexts[doc.ID] = doc
	return nil
}

func (f fakeContexts) FindByID(_ context.Context, id int64) (*entities.ContextDocument, error) {
	if doc, ok := f.s.contexts[id]; ok {
		return doc, nil
	}
	return nil, ucerrors.ErrContextNotFound
}

func (f fakeContexts) List(_ context.Context, clientID *int64) ([]entities.ContextRef, error) {
	return nil, nil
}

func (f fakeContexts) Search(_ context.Context, _ string, _ *int64, _ int) ([]entities.ContextHit, error) {
	return nil, nil
}

func (f fakeContexts) Update(_ context.Context, id int64, changes repositories.ContextChanges) error {
	doc, ok := f.s.contexts[id]
	if !ok {
		return ucerrors.ErrContextNotFound
	}
	if changes.Title != nil {
		doc.Title = *changes.Title
	}
	if changes.Content != nil {
		doc.Content = *changes.Content
	}
	if changes.ContextType != nil {
		doc.ContextType = *changes.ContextType
	}
	return nil
}

func (f fakeContexts) Delete(_ context.Context, id int64) error {
	if _, ok := f.s.contexts[id]; !ok {
		return ucerrors.ErrContextNotFound
	}
	delete(f.s.contexts, id)
	return nil
}

// memCache counts generation writes. Tests that never read a snapshot see
// exactly one per invalidation.
type memCache struct {
	values        map[string]string
	invalidations int
}

func newMemCache() *memCache {
	return &memCache{values: map[string]string{}}
}

func (c *memCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	if key == generationKey {
		c.invalidations++
	}
	c.values[key] = value
	return nil
}

// snapshotKeys lists the snapshot entries currently stored.
func (c *memCache) snapshotKeys() []string {
	var keys []string
	for k := range c.values {
		if strings.HasPrefix(k, snapshotKey+":") {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func newTestService() (*DirectoryService, *store, *memCache) {
	s := newStore()
	cache := newMemCache()
	svc := NewDirectoryService(Repositories{
		Clients:      fakeClients{s},
		Aliases:      fakeAliases{s},
		Integrations: fakeIntegrations{s},
		Series:       fakeSeries{s},
		Contexts:     fakeContexts{s},
	}, cache, time.Minute, nil)
	return svc, s, cache
}
