package handler

import (
	"context"

	"github.com/johnquangdev/meeting-archive/internal/adapter/dto/client"
	"github.com/johnquangdev/meeting-archive/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-archive/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-archive/internal/usecase/directory"
)

func (s *Server) registerClientTools() {
	addTool(s, "list_clients",
		"List every client with its meeting count. Start here to discover client names.",
		func(ctx context.Context, _ meeting.EmptyRequest) (string, error) {
			clients, err := s.retrieval.ListClients(ctx)
			if err != nil {
				return "", err
			}
			return presenter.Clients(clients), nil
		})

	addTool(s, "create_client",
		"Create a client. Fails when the name is already a client or an alias.",
		func(ctx context.Context, in client.CreateClientRequest) (string, error) {
			c, err := s.directory.CreateClient(ctx, directory.CreateClientInput{
				Name:  in.Name,
				Slug:  in.Slug,
				Notes: in.Notes,
			})
			if err != nil {
				return "", err
			}
			return presenter.ClientCreated(c), nil
		})

	addTool(s, "delete_client",
		"Delete a client. Its meetings are kept without a client; its context documents, aliases and links are removed.",
		func(ctx context.Context, in client.ClientNameRequest) (string, error) {
			c, err := s.directory.DeleteClient(ctx, in.ClientName)
			if err != nil {
				return "", err
			}
			return presenter.ClientDeleted(c), nil
		})

	addTool(s, "merge_clients",
		"Merge one client into another existing client. Everything moves to the target, the source name becomes an alias and the source is deleted.",
		func(ctx context.Context, in client.MergeClientsRequest) (string, error) {
			out, err := s.directory.Merge(ctx, in.SourceName, in.TargetName)
			if err != nil {
				return "", err
			}
			return presenter.Merged(out), nil
		})

	addTool(s, "rename_client",
		"Rename a client. The old name is kept as an alias.",
		func(ctx context.Context, in client.RenameClientRequest) (string, error) {
			out, err := s.directory.RenameByName(ctx, in.OldName, in.NewName)
			if err != nil {
				return "", err
			}
			return presenter.Renamed(out), nil
		})

	addTool(s, "add_client_alias",
		"Add an alternate name that maps to an existing client during attribution and lookups.",
		func(ctx context.Context, in client.AddAliasRequest) (string, error) {
			alias, err := s.directory.AddAlias(ctx, in.Alias, in.ClientName)
			if err != nil {
				return "", err
			}
			return presenter.AliasAdded(alias), nil
		})

	addTool(s, "list_client_aliases",
		"List aliases, optionally for one client.",
		func(ctx context.Context, in client.OptionalClientRequest) (string, error) {
			aliases, err := s.directory.ListAliases(ctx, in.ClientName)
			if err != nil {
				return "", err
			}
			return presenter.Aliases(in.ClientName, aliases), nil
		})

	addTool(s, "delete_client_alias",
		"Remove an alias.",
		func(ctx context.Context, in client.AliasRequest) (string, error) {
			if err := s.directory.DeleteAlias(ctx, in.Alias); err != nil {
				return "", err
			}
			return presenter.AliasDeleted(in.Alias), nil
		})

	addTool(s, "create_meeting_series",
		"Create a named recurring meeting series, optionally owned by a client.",
		func(ctx context.Context, in client.CreateSeriesRequest) (string, error) {
			series, err := s.directory.CreateSeries(ctx, directory.SeriesInput{
				Name:              in.Name,
				ClientName:        in.ClientName,
				MeetingType:       in.MeetingType,
				RecurrencePattern: in.RecurrencePattern,
				Notes:             in.Notes,
			})
			if err != nil {
				return "", err
			}
			return presenter.SeriesCreated(series), nil
		})

	addTool(s, "list_meeting_series",
		"List meeting series, optionally for one client.",
		func(ctx context.Context, in client.OptionalClientRequest) (string, error) {
			series, err := s.directory.ListSeries(ctx, in.ClientName)
			if err != nil {
				return "", err
			}
			return presenter.SeriesList(series), nil
		})
}
