package handler

import (
	"context"
	"errors"

	"github.com/johnquangdev/meeting-archive/internal/adapter/dto/client"
	"github.com/johnquangdev/meeting-archive/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	"github.com/johnquangdev/meeting-archive/internal/usecase/directory"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
	"github.com/johnquangdev/meeting-archive/internal/usecase/retrieval"
)

func (s *Server) registerContextTools() {
	addTool(s, "add_client_context",
		"Save a document about a client: a note, PRD, estimate, outcome or contract.",
		func(ctx context.Context, in client.AddContextRequest) (string, error) {
			doc, err := s.directory.AddContext(ctx, directory.ContextInput{
				ClientName:  in.ClientName,
				Title:       in.Title,
				Content:     in.Content,
				ContextType: entities.ContextType(in.ContextType),
				Summary:     in.Summary,
				SourceURL:   in.SourceURL,
			})
			if err != nil {
				return "", err
			}
			return presenter.ContextAdded(doc), nil
		})

	addTool(s, "list_client_context",
		"List a client's context documents by title and type. Use get_client_context for the content.",
		func(ctx context.Context, in client.ClientNameRequest) (string, error) {
			docs, err := s.retrieval.ListContextDocuments(ctx, in.ClientName)
			if err != nil {
				return "", err
			}
			return presenter.ContextList(in.ClientName, docs), nil
		})

	addTool(s, "get_client_context",
		"Get the full content of one context document.",
		func(ctx context.Context, in client.ContextIDRequest) (string, error) {
			doc, err := s.retrieval.ContextDocument(ctx, in.ContextID)
			if errors.Is(err, ucerrors.ErrNotFound) {
				return presenter.ContextNotFound(in.ContextID), nil
			}
			if err != nil {
				return "", err
			}
			return presenter.ContextDocument(doc), nil
		})

	addTool(s, "search_client_context",
		"Keyword search across context documents, optionally for one client. Returns short previews.",
		func(ctx context.Context, in client.SearchContextRequest) (string, error) {
			hits, err := s.retrieval.Search(ctx, retrieval.SearchRequest{
				Query:      in.Query,
				Scope:      retrieval.ScopeContext,
				Limit:      in.Limit,
				ClientName: in.ClientName,
			})
			if err != nil {
				return "", err
			}
			return presenter.SearchResults(in.Query, hits), nil
		})

	addTool(s, "update_client_context",
		"Update fields of a context document. Omitted fields are left unchanged.",
		func(ctx context.Context, in client.UpdateContextRequest) (string, error) {
			changes := repositories.ContextChanges{
				Title:     in.Title,
				Content:   in.Content,
				Summary:   in.Summary,
				SourceURL: in.SourceURL,
			}
			if in.ContextType != nil {
				ct := entities.ContextType(*in.ContextType)
				changes.ContextType = &ct
			}
			if err := s.directory.UpdateContext(ctx, in.ContextID, changes); err != nil {
				return "", err
			}
			return presenter.ContextUpdated(in.ContextID), nil
		})

	addTool(s, "delete_client_context",
		"Delete a context document.",
		func(ctx context.Context, in client.ContextIDRequest) (string, error) {
			doc, err := s.retrieval.ContextDocument(ctx, in.ContextID)
			if err != nil {
				return "", err
			}
			if err := s.directory.DeleteContext(ctx, in.ContextID); err != nil {
				return "", err
			}
			return presenter.ContextDeleted(doc), nil
		})
}
