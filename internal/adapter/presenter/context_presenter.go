package presenter

import (
	"fmt"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
)

// ContextList renders list_client_context
func ContextList(clientName string, docs []entities.ContextRef) string {
	if len(docs) == 0 {
		return fmt.Sprintf("No context documents found for %s.", clientName)
	}

	lines := []string{fmt.Sprintf("# Context Documents for %s\n", clientName)}
	for _, d := range docs {
		lines = append(lines, fmt.Sprintf("- **[%d]** %s (%s) - %s", d.ID, d.Title, d.ContextType, d.UpdatedAt.UTC().Format(dateLayout)))
	}
	lines = append(lines, "\nUse `get_client_context(id)` to retrieve full content.")
	return join(lines)
}

// ContextDocument renders get_client_context with the full content
func ContextDocument(doc *entities.ContextDocument) string {
	lines := []string{"# " + doc.Title}
	if doc.Client != nil {
		lines = append(lines, "**Client:** "+doc.Client.Name)
	}
	lines = append(lines,
		"**Type:** "+string(doc.ContextType),
		"**Updated:** "+doc.UpdatedAt.UTC().Format(dateTimeLayout),
	)
	if doc.SourceURL != nil {
		lines = append(lines, "**Source:** "+*doc.SourceURL)
	}
	if doc.Summary != nil {
		lines = append(lines, "**Summary:** "+*doc.Summary)
	}
	lines = append(lines, "", doc.Content)
	return join(lines)
}

// ContextAdded confirms add_client_context
func ContextAdded(doc *entities.ContextDocument) string {
	owner := fmt.Sprintf("client %d", doc.ClientID)
	if doc.Client != nil {
		owner = doc.Client.Name
	}
	return fmt.Sprintf("Saved '%s' (%s) for %s. Context ID: %d", doc.Title, doc.ContextType, owner, doc.ID)
}

// ContextUpdated confirms update_client_context
func ContextUpdated(id int64) string {
	return fmt.Sprintf("Updated context document [%d].", id)
}

// ContextDeleted confirms delete_client_context
func ContextDeleted(doc *entities.ContextDocument) string {
	owner := ""
	if doc.Client != nil {
		owner = " from " + doc.Client.Name
	}
	return fmt.Sprintf("Deleted '%s' (%s)%s.", doc.Title, doc.ContextType, owner)
}

func ContextNotFound(id int64) string {
	return fmt.Sprintf("Context document with ID %d not found.", id)
}
