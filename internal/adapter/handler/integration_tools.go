package handler

import (
	"context"

	"github.com/johnquangdev/meeting-archive/internal/adapter/dto/integration"
	"github.com/johnquangdev/meeting-archive/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-archive/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/usecase/directory"
)

func (s *Server) registerIntegrationTools() {
	addTool(s, "link_client_to_linear_team",
		"Link a client to a Linear team. Creates the client when no name or alias matches; replaces an existing Linear link.",
		func(ctx context.Context, in integration.LinkLinearTeamRequest) (string, error) {
			var meta map[string]interface{}
			if in.LinearTeamKey != "" {
				meta = map[string]interface{}{"team_key": in.LinearTeamKey}
			}
			link, err := s.directory.SetLink(ctx, directory.LinkInput{
				ClientName:   in.ClientName,
				Kind:         entities.IntegrationLinearTeam,
				ExternalID:   in.LinearTeamID,
				ExternalName: in.LinearTeamName,
				Metadata:     meta,
			})
			if err != nil {
				return "", err
			}
			return presenter.LinearLinked(linkOwner(link, in.ClientName), link), nil
		})

	// The internal and external channels are written one after the other;
	// a failure on the external one leaves the internal link in place.
	addTool(s, "link_client_to_slack",
		"Link a client to its internal Slack channel and, optionally, the shared external channel.",
		func(ctx context.Context, in integration.LinkSlackRequest) (string, error) {
			internal, err := s.directory.SetLink(ctx, directory.LinkInput{
				ClientName: in.ClientName,
				Kind:       entities.IntegrationSlackInternal,
				ExternalID: in.InternalChannelID,
			})
			if err != nil {
				return "", err
			}

			var external *entities.IntegrationLink
			if in.ExternalChannelID != "" {
				external, err = s.directory.SetLink(ctx, directory.LinkInput{
					ClientName: in.ClientName,
					Kind:       entities.IntegrationSlackExternal,
					ExternalID: in.ExternalChannelID,
				})
				if err != nil {
					return "", err
				}
			}
			return presenter.SlackLinked(linkOwner(internal, in.ClientName), internal, external), nil
		})

	addTool(s, "get_client_linear_team",
		"Get the Linear team linked to a client.",
		func(ctx context.Context, in integration.ClientNameRequest) (string, error) {
			c, links, err := s.directory.GetLinks(ctx, in.ClientName)
			if err != nil {
				return "", err
			}
			return presenter.LinearTeam(c, links), nil
		})

	addTool(s, "get_client_slack",
		"Get the Slack channels linked to a client.",
		func(ctx context.Context, in integration.ClientNameRequest) (string, error) {
			c, links, err := s.directory.GetLinks(ctx, in.ClientName)
			if err != nil {
				return "", err
			}
			return presenter.Slack(c, links), nil
		})

	addTool(s, "get_client_config",
		"Get every integration configured for a client.",
		func(ctx context.Context, in integration.ClientNameRequest) (string, error) {
			c, links, err := s.directory.GetLinks(ctx, in.ClientName)
			if err != nil {
				return "", err
			}
			return presenter.ClientConfig(c, links), nil
		})

	addTool(s, "list_integration_status",
		"Overview of which clients are linked to Linear and Slack.",
		func(ctx context.Context, _ meeting.EmptyRequest) (string, error) {
			clients, err := s.directory.ListClients(ctx)
			if err != nil {
				return "", err
			}
			links, err := s.directory.ListLinks(ctx)
			if err != nil {
				return "", err
			}
			return presenter.IntegrationStatus(clients, links), nil
		})

	addTool(s, "unlink_client_integration",
		"Remove one integration link from a client.",
		func(ctx context.Context, in integration.UnlinkRequest) (string, error) {
			kind := entities.IntegrationLinearTeam
			if in.IntegrationType != "" {
				kind = entities.IntegrationKind(in.IntegrationType)
			}
			if err := s.directory.DeleteLink(ctx, in.ClientName, kind); err != nil {
				return "", err
			}
			return presenter.Unlinked(in.ClientName, kind), nil
		})
}

func linkOwner(link *entities.IntegrationLink, fallback string) string {
	if link != nil && link.Client != nil {
		return link.Client.Name
	}
	return fallback
}
