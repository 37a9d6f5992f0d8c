package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	"github.com/johnquangdev/meeting-archive/internal/usecase/attribution"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

func int64Ptr(v int64) *int64 { return &v }

func TestResolveClient(t *testing.T) {
	svc, s, _ := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")
	s.aliases["acme corp"] = acme.ID

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "canonical", input: "Acme"},
		{name: "case insensitive", input: "  aCmE "},
		{name: "alias", input: "ACME Corp"},
		{name: "unknown", input: "Globex", wantErr: ucerrors.ErrNotFound},
		{name: "blank", input: " ", wantErr: ucerrors.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolveClient(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, acme.ID, got.ID)
		})
	}
}

func TestCreateClient(t *testing.T) {
	svc, s, cache := newTestService()
	ctx := context.Background()
	s.aliases["nb"] = s.addClient("Northbeam").ID

	client, err := svc.CreateClient(ctx, CreateClientInput{Name: " Acme ", Notes: "pilot"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", client.Name)
	require.NotNil(t, client.Notes)
	assert.Equal(t, "pilot", *client.Notes)
	assert.Equal(t, 1, cache.invalidations)

	_, err = svc.CreateClient(ctx, CreateClientInput{Name: "ACME"})
	assert.ErrorIs(t, err, ucerrors.ErrClientNameTaken)

	_, err = svc.CreateClient(ctx, CreateClientInput{Name: "NB"})
	assert.ErrorIs(t, err, ucerrors.ErrAliasCollision)

	_, err = svc.CreateClient(ctx, CreateClientInput{Name: ""})
	assert.ErrorIs(t, err, ucerrors.ErrEmptyName)
}

func TestGetOrCreateClient(t *testing.T) {
	svc, s, cache := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")
	s.aliases["acme corp"] = acme.ID

	got, created, err := svc.GetOrCreateClient(ctx, "acme corp")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, acme.ID, got.ID)
	assert.Zero(t, cache.invalidations)

	got, created, err = svc.GetOrCreateClient(ctx, "Globex")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Globex", got.Name)
	assert.Equal(t, 1, cache.invalidations)
}

func TestSuggestClients(t *testing.T) {
	svc, s, _ := newTestService()
	for _, name := range []string{"Acme", "Acme Labs", "Beta", "Macmillan"} {
		s.addClient(name)
	}

	got, err := svc.SuggestClients(context.Background(), "acm")
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Acme Labs", "Macmillan"}, got, "matches anywhere in the name")

	got, err = svc.SuggestClients(context.Background(), "labs")
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Labs"}, got)

	got, err = svc.SuggestClients(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMerge(t *testing.T) {
	svc, s, cache := newTestService()
	ctx := context.Background()
	old := s.addClient("OldName")
	target := s.addClient("Target")
	s.meetings[100] = int64Ptr(old.ID)
	s.meetings[101] = int64Ptr(old.ID)
	s.meetings[102] = int64Ptr(target.ID)
	s.aliases["old alias"] = old.ID
	s.links[old.ID] = map[entities.IntegrationKind]*entities.IntegrationLink{
		entities.IntegrationLinearTeam:    {ID: 50, ClientID: old.ID, Kind: entities.IntegrationLinearTeam, ExternalID: "T1"},
		entities.IntegrationSlackExternal: {ID: 51, ClientID: old.ID, Kind: entities.IntegrationSlackExternal, ExternalID: "C1"},
	}
	s.links[target.ID] = map[entities.IntegrationKind]*entities.IntegrationLink{
		entities.IntegrationLinearTeam: {ID: 52, ClientID: target.ID, Kind: entities.IntegrationLinearTeam, ExternalID: "T2"},
	}

	out, err := svc.Merge(ctx, "oldname", "Target")
	require.NoError(t, err)

	assert.Equal(t, "OldName", out.Source.Name)
	assert.Equal(t, "Target", out.Target.Name)
	assert.EqualValues(t, 2, out.MeetingsMoved)
	assert.EqualValues(t, 1, out.LinksMoved)
	assert.EqualValues(t, 1, out.LinksDropped)
	assert.Equal(t, 1, cache.invalidations)

	assert.Equal(t, "T2", s.links[target.ID][entities.IntegrationLinearTeam].ExternalID)

	// The old name now resolves to the target.
	resolved, err := svc.ResolveClient(ctx, "OldName")
	require.NoError(t, err)
	assert.Equal(t, target.ID, resolved.ID)

	resolved, err = svc.ResolveClient(ctx, "old alias")
	require.NoError(t, err)
	assert.Equal(t, target.ID, resolved.ID)
}

func TestMerge_Errors(t *testing.T) {
	svc, s, cache := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")
	s.aliases["acme corp"] = acme.ID

	_, err := svc.Merge(ctx, "Acme", "acme corp")
	assert.ErrorIs(t, err, ucerrors.ErrSameClient)
	assert.ErrorIs(t, err, ucerrors.ErrConflict)

	_, err = svc.Merge(ctx, "Acme", "Missing")
	assert.ErrorIs(t, err, ucerrors.ErrNotFound)
	assert.Len(t, s.clients, 1, "target must not be created")

	_, err = svc.Merge(ctx, "Missing", "Acme")
	assert.ErrorIs(t, err, ucerrors.ErrNotFound)
	assert.Zero(t, cache.invalidations)
}

func TestRename(t *testing.T) {
	svc, s, cache := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")

	out, err := svc.RenameByName(ctx, "acme", "Acme Industries")
	require.NoError(t, err)
	assert.Equal(t, "Acme", out.OldName)
	assert.Equal(t, "Acme Industries", out.NewName)
	assert.Equal(t, 1, cache.invalidations)

	resolved, err := svc.ResolveClient(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, resolved.ID)
	assert.Equal(t, "Acme Industries", resolved.Name)
}

func TestRename_Conflicts(t *testing.T) {
	svc, s, _ := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")
	globex := s.addClient("Globex")
	s.aliases["gx"] = globex.ID

	_, err := svc.Rename(ctx, acme.ID, "globex")
	assert.ErrorIs(t, err, ucerrors.ErrClientNameTaken)

	_, err = svc.Rename(ctx, acme.ID, "GX")
	assert.ErrorIs(t, err, ucerrors.ErrAliasCollision)

	_, err = svc.Rename(ctx, acme.ID, " ")
	assert.ErrorIs(t, err, ucerrors.ErrEmptyName)

	_, err = svc.Rename(ctx, 999, "Anything")
	assert.ErrorIs(t, err, ucerrors.ErrNotFound)

	assert.Equal(t, "Acme", s.clients[acme.ID].Name)
}

func TestRename_BackToOwnAlias(t *testing.T) {
	svc, s, _ := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme Industries")
	s.aliases["acme"] = acme.ID

	_, err := svc.Rename(ctx, acme.ID, "Acme")
	require.NoError(t, err)

	assert.Equal(t, "Acme", s.clients[acme.ID].Name)
	assert.NotContains(t, s.aliases, "acme")
	assert.Equal(t, acme.ID, s.aliases["acme industries"])
}

func TestAddAlias(t *testing.T) {
	svc, s, cache := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")
	s.addClient("Globex")

	alias, err := svc.AddAlias(ctx, "  ACME Corp ", "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme corp", alias.Alias)
	assert.Equal(t, acme.ID, s.aliases["acme corp"])
	assert.Equal(t, 1, cache.invalidations)

	_, err = svc.AddAlias(ctx, "globex", "Acme")
	assert.ErrorIs(t, err, ucerrors.ErrAliasCollision)

	_, err = svc.AddAlias(ctx, "x", "Missing")
	assert.ErrorIs(t, err, ucerrors.ErrNotFound)

	_, err = svc.AddAlias(ctx, "  ", "Acme")
	assert.ErrorIs(t, err, ucerrors.ErrEmptyName)
}

func TestListAndDeleteAliases(t *testing.T) {
	svc, s, _ := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")
	globex := s.addClient("Globex")
	s.aliases["ac"] = acme.ID
	s.aliases["gx"] = globex.ID

	all, err := svc.ListAliases(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListAliases(ctx, "Acme")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "ac", mine[0].Alias)

	require.NoError(t, svc.DeleteAlias(ctx, "AC"))
	assert.NotContains(t, s.aliases, "ac")
	assert.ErrorIs(t, svc.DeleteAlias(ctx, "ac"), ucerrors.ErrNotFound)
}

func TestSetLink(t *testing.T) {
	svc, s, _ := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")

	link, err := svc.SetLink(ctx, LinkInput{
		ClientName:   "Acme",
		Kind:         entities.IntegrationLinearTeam,
		ExternalID:   "TEAM-1",
		ExternalName: "Acme Team",
	})
	require.NoError(t, err)
	assert.Equal(t, acme.ID, link.ClientID)
	require.NotNil(t, link.ExternalName)

	// Relinking the same client replaces the previous link of that kind.
	_, err = svc.SetLink(ctx, LinkInput{ClientName: "Acme", Kind: entities.IntegrationLinearTeam, ExternalID: "TEAM-2"})
	require.NoError(t, err)
	assert.Equal(t, "TEAM-2", s.links[acme.ID][entities.IntegrationLinearTeam].ExternalID)

	// Unknown clients are created on link.
	link, err = svc.SetLink(ctx, LinkInput{ClientName: "Globex", Kind: entities.IntegrationSlackExternal, ExternalID: "C9"})
	require.NoError(t, err)
	assert.Equal(t, "Globex", link.Client.Name)

	_, err = svc.SetLink(ctx, LinkInput{ClientName: "Acme", Kind: entities.IntegrationSlackExternal, ExternalID: "C9"})
	assert.ErrorIs(t, err, ucerrors.ErrLinkTaken)

	_, err = svc.SetLink(ctx, LinkInput{ClientName: "Acme", Kind: "jira", ExternalID: "X"})
	assert.ErrorIs(t, err, ucerrors.ErrInvalidKind)

	_, err = svc.SetLink(ctx, LinkInput{ClientName: "Acme", Kind: entities.IntegrationSlackInternal, ExternalID: " "})
	assert.ErrorIs(t, err, ucerrors.ErrInvalidArgument)
}

func TestLinksLifecycle(t *testing.T) {
	svc, s, _ := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")
	_, err := svc.SetLink(ctx, LinkInput{ClientName: "Acme", Kind: entities.IntegrationSlackInternal, ExternalID: "C1"})
	require.NoError(t, err)

	client, links, err := svc.GetLinks(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, client.ID)
	assert.Len(t, links, 1)

	all, err := svc.ListLinks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteLink(ctx, "Acme", entities.IntegrationSlackInternal))
	assert.ErrorIs(t, svc.DeleteLink(ctx, "Acme", entities.IntegrationSlackInternal), ucerrors.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteLink(ctx, "Acme", "email"), ucerrors.ErrInvalidKind)
}

func TestDeleteClient(t *testing.T) {
	svc, s, cache := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")
	s.meetings[1] = int64Ptr(acme.ID)

	deleted, err := svc.DeleteClient(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, deleted.ID)
	assert.Nil(t, s.meetings[1])
	assert.Contains(t, s.meetings, int64(1))
	assert.Equal(t, 1, cache.invalidations)

	_, err = svc.DeleteClient(ctx, "Acme")
	assert.ErrorIs(t, err, ucerrors.ErrNotFound)
}

func TestSeries(t *testing.T) {
	svc, s, _ := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")

	series, err := svc.CreateSeries(ctx, SeriesInput{Name: "Weekly", ClientName: "Acme", RecurrencePattern: "weekly"})
	require.NoError(t, err)
	require.NotNil(t, series.ClientID)
	assert.Equal(t, acme.ID, *series.ClientID)
	assert.Nil(t, series.MeetingType)

	_, err = svc.CreateSeries(ctx, SeriesInput{Name: "Internal standup"})
	require.NoError(t, err)

	all, err := svc.ListSeries(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListSeries(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.CreateSeries(ctx, SeriesInput{Name: "x", ClientName: "Missing"})
	assert.ErrorIs(t, err, ucerrors.ErrNotFound)
}

func TestContextDocuments(t *testing.T) {
	svc, s, _ := newTestService()
	ctx := context.Background()
	s.addClient("Acme")

	doc, err := svc.AddContext(ctx, ContextInput{ClientName: "acme", Title: "Scope", Content: "Phase one"})
	require.NoError(t, err)
	assert.Equal(t, entities.ContextTypeNote, doc.ContextType)

	_, err = svc.AddContext(ctx, ContextInput{ClientName: "Acme", Title: "x", Content: "y", ContextType: "memo"})
	assert.ErrorIs(t, err, ucerrors.ErrInvalidContextTy)

	_, err = svc.AddContext(ctx, ContextInput{ClientName: "Acme", Title: " ", Content: "y"})
	assert.ErrorIs(t, err, ucerrors.ErrInvalidArgument)

	_, err = svc.AddContext(ctx, ContextInput{ClientName: "Missing", Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ucerrors.ErrNotFound)

	title := "Scope v2"
	prd := entities.ContextTypePRD
	require.NoError(t, svc.UpdateContext(ctx, doc.ID, repositories.ContextChanges{Title: &title, ContextType: &prd}))
	assert.Equal(t, "Scope v2", s.contexts[doc.ID].Title)
	assert.Equal(t, entities.ContextTypePRD, s.contexts[doc.ID].ContextType)

	bad := entities.ContextType("memo")
	assert.ErrorIs(t, svc.UpdateContext(ctx, doc.ID, repositories.ContextChanges{ContextType: &bad}), ucerrors.ErrInvalidContextTy)
	assert.ErrorIs(t, svc.UpdateContext(ctx, doc.ID, repositories.ContextChanges{}), ucerrors.ErrInvalidArgument)
	assert.ErrorIs(t, svc.UpdateContext(ctx, 999, repositories.ContextChanges{Title: &title}), ucerrors.ErrNotFound)

	require.NoError(t, svc.DeleteContext(ctx, doc.ID))
	assert.ErrorIs(t, svc.DeleteContext(ctx, doc.ID), ucerrors.ErrNotFound)
}

func TestSnapshot_CachedAndInvalidated(t *testing.T) {
	svc, s, cache := newTestService()
	ctx := context.Background()
	acme := s.addClient("Acme")
	s.aliases["ac"] = acme.ID

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []attribution.ClientRef{{ID: acme.ID, Name: "Acme"}}, snap.Clients)
	assert.Equal(t, []attribution.AliasRef{{Alias: "ac", ClientID: acme.ID}}, snap.Aliases)
	assert.Len(t, cache.snapshotKeys(), 1)

	// Writes behind the service's back are hidden by the cache.
	s.addClient("Hidden")
	snap, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Clients, 1)

	// A mutation through the service drops the cached copy.
	_, err = svc.CreateClient(ctx, CreateClientInput{Name: "Globex"})
	require.NoError(t, err)
	assert.Empty(t, cache.snapshotKeys())
	snap, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Clients, 3)
}

func TestSnapshot_InvalidatedDuringLoad(t *testing.T) {
	svc, s, _ := newTestService()
	ctx := context.Background()
	s.addClient("Acme")

	s.afterAll = func() {
		_, err := svc.CreateClient(ctx, CreateClientInput{Name: "Globex"})
		require.NoError(t, err)
	}

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Clients, 1, "the load in flight predates the new client")

	snap, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Clients, 2, "the stale load must not be served from the cache")
}

func TestSnapshot_WithoutCache(t *testing.T) {
	s := newStore()
	s.addClient("Acme")
	svc := NewDirectoryService(Repositories{
		Clients: fakeClients{s},
		Aliases: fakeAliases{s},
	}, nil, 0, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Clients, 1)
	assert.Empty(t, snap.Aliases)

	svc.Invalidate(context.Background())
}
