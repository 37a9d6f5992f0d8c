package presenter

import (
	"fmt"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/usecase/directory"
)

// Clients renders list_clients
func Clients(clients []entities.ClientSummary) string {
	if len(clients) == 0 {
		return "No clients found. Meetings may not be tagged with clients yet."
	}

	lines := []string{"# Clients\n"}
	for _, c := range clients {
		line := fmt.Sprintf("- **%s** [%d]: %s", c.Name, c.ID, plural(c.MeetingCount, "meeting", "meetings"))
		if c.LastMeeting != nil {
			line += ", last " + formatDate(c.LastMeeting, dateLayout)
		}
		lines = append(lines, line)
	}
	return join(lines)
}

// ClientCreated confirms create_client
func ClientCreated(c *entities.Client) string {
	return fmt.Sprintf("Created client \"%s\" [%d].", c.Name, c.ID)
}

// ClientDeleted confirms delete_client
func ClientDeleted(c *entities.Client) string {
	return fmt.Sprintf("Deleted client \"%s\". Its meetings are kept without a client; its context documents, aliases and links were removed.", c.Name)
}

// Merged confirms merge_clients
func Merged(out *directory.MergeOutcome) string {
	src, dst := out.Source.Name, out.Target.Name
	lines := []string{
		fmt.Sprintf("# Merged \"%s\" into \"%s\"\n", src, dst),
		fmt.Sprintf("- Reassigned %s", plural(out.MeetingsMoved, "meeting", "meetings")),
		fmt.Sprintf("- Reassigned %s", plural(out.ContextMoved, "context document", "context documents")),
		fmt.Sprintf("- Reassigned %s", plural(out.SeriesMoved, "meeting series", "meeting series")),
		fmt.Sprintf("- Reassigned %s", plural(out.AliasesMoved, "alias", "aliases")),
		fmt.Sprintf("- Moved %s", plural(out.LinksMoved, "integration link", "integration links")),
	}
	if out.LinksDropped > 0 {
		lines = append(lines, fmt.Sprintf("- Dropped %s already set on \"%s\"", plural(out.LinksDropped, "integration link", "integration links"), dst))
	}
	lines = append(lines,
		fmt.Sprintf("- Created alias: \"%s\" → \"%s\"", src, dst),
		fmt.Sprintf("- Deleted client \"%s\"", src),
		"",
		fmt.Sprintf("Future meetings mentioning \"%s\" will be assigned to \"%s\".", src, dst),
	)
	return join(lines)
}

// Renamed confirms rename_client
func Renamed(out *directory.RenameOutcome) string {
	if out.OldName == out.NewName {
		return fmt.Sprintf("Client is already named \"%s\".", out.NewName)
	}
	return fmt.Sprintf("Renamed \"%s\" to \"%s\".\nCreated alias: \"%s\" → \"%s\"", out.OldName, out.NewName, out.OldName, out.NewName)
}

// AliasAdded confirms add_client_alias
func AliasAdded(a *entities.ClientAlias) string {
	name := fmt.Sprintf("client %d", a.ClientID)
	if a.Client != nil {
		name = a.Client.Name
	}
	return fmt.Sprintf("Created alias: \"%s\" → \"%s\"\nFuture meetings mentioning \"%s\" will be assigned to \"%s\".", a.Alias, name, a.Alias, name)
}

// Aliases renders list_client_aliases
func Aliases(clientName string, aliases []entities.ClientAlias) string {
	if len(aliases) == 0 {
		if clientName != "" {
			return fmt.Sprintf("No aliases configured for '%s'.", clientName)
		}
		return "No aliases configured."
	}

	title := "# All Client Aliases\n"
	if clientName != "" {
		title = fmt.Sprintf("# Aliases for %s\n", clientName)
	}
	lines := []string{title}
	for _, a := range aliases {
		target := fmt.Sprintf("client %d", a.ClientID)
		if a.Client != nil {
			target = a.Client.Name
		}
		lines = append(lines, fmt.Sprintf("- \"%s\" → \"%s\"", a.Alias, target))
	}
	return join(lines)
}

// AliasDeleted confirms delete_client_alias
func AliasDeleted(alias string) string {
	return fmt.Sprintf("Deleted alias \"%s\".", alias)
}

// SeriesCreated confirms create_meeting_series
func SeriesCreated(s *entities.MeetingSeries) string {
	owner := ""
	if s.Client != nil {
		owner = " for " + s.Client.Name
	}
	return fmt.Sprintf("Created meeting series \"%s\" [%d]%s.", s.Name, s.ID, owner)
}

// SeriesList renders list_meeting_series
func SeriesList(series []entities.MeetingSeries) string {
	if len(series) == 0 {
		return "No meeting series found."
	}

	lines := []string{"# Meeting Series\n"}
	for _, s := range series {
		line := fmt.Sprintf("- **[%d] %s**", s.ID, s.Name)
		if s.Client != nil {
			line += " (" + s.Client.Name + ")"
		}
		if s.RecurrencePattern != nil {
			line += " - " + *s.RecurrencePattern
		}
		if s.MeetingType != nil {
			line += " [" + *s.MeetingType + "]"
		}
		lines = append(lines, line)
	}
	return join(lines)
}
