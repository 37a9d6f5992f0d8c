package presenter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
)

const linearTeamKey = "team_key"

func kindLabel(k entities.IntegrationKind) string {
	switch k {
	case entities.IntegrationLinearTeam:
		return "Linear team"
	case entities.IntegrationSlackInternal:
		return "Slack internal channel"
	case entities.IntegrationSlackExternal:
		return "Slack external channel"
	}
	return strings.ReplaceAll(string(k), "_", " ")
}

func linkTarget(l entities.IntegrationLink) string {
	out := l.ExternalID
	if l.ExternalName != nil && *l.ExternalName != "" {
		out += " (" + *l.ExternalName + ")"
	}
	if key, ok := l.Metadata[linearTeamKey].(string); ok && key != "" {
		out += " [key: " + key + "]"
	}
	return out
}

func findLink(links []entities.IntegrationLink, kind entities.IntegrationKind) *entities.IntegrationLink {
	for i := range links {
		if links[i].Kind == kind {
			return &links[i]
		}
	}
	return nil
}

// LinearLinked confirms link_client_to_linear_team
func LinearLinked(clientName string, link *entities.IntegrationLink) string {
	return fmt.Sprintf("Linked client \"%s\" to Linear team %s.", clientName, linkTarget(*link))
}

// SlackLinked confirms link_client_to_slack
func SlackLinked(clientName string, internal, external *entities.IntegrationLink) string {
	lines := []string{fmt.Sprintf("Linked client \"%s\" to Slack:", clientName)}
	lines = append(lines, "  Internal: "+internal.ExternalID)
	if external != nil {
		lines = append(lines, "  External: "+external.ExternalID)
	}
	return join(lines)
}

// LinearTeam renders get_client_linear_team
func LinearTeam(client *entities.Client, links []entities.IntegrationLink) string {
	link := findLink(links, entities.IntegrationLinearTeam)
	if link == nil {
		return fmt.Sprintf("Client '%s' is not linked to a Linear team.", client.Name)
	}

	lines := []string{
		fmt.Sprintf("# Linear Team for %s\n", client.Name),
		"**Team ID:** " + link.ExternalID,
	}
	if link.ExternalName != nil {
		lines = append(lines, "**Team Name:** "+*link.ExternalName)
	}
	if key, ok := link.Metadata[linearTeamKey].(string); ok && key != "" {
		lines = append(lines, "**Team Key:** "+key)
	}
	lines = append(lines, "**Linked:** "+link.CreatedAt.UTC().Format(dateLayout))
	return join(lines)
}

// Slack renders get_client_slack
func Slack(client *entities.Client, links []entities.IntegrationLink) string {
	internal := findLink(links, entities.IntegrationSlackInternal)
	external := findLink(links, entities.IntegrationSlackExternal)
	if internal == nil && external == nil {
		return fmt.Sprintf("Client '%s' is not linked to Slack channels.", client.Name)
	}

	lines := []string{fmt.Sprintf("# Slack Channels for %s\n", client.Name)}
	if internal != nil {
		lines = append(lines, "**Internal:** "+linkTarget(*internal))
	}
	if external != nil {
		lines = append(lines, "**External:** "+linkTarget(*external))
	}
	return join(lines)
}

// ClientConfig renders get_client_config: every link of one client
func ClientConfig(client *entities.Client, links []entities.IntegrationLink) string {
	if len(links) == 0 {
		return fmt.Sprintf("Client '%s' has no integrations configured.", client.Name)
	}

	lines := []string{fmt.Sprintf("# Configuration for %s\n", client.Name)}
	for _, kind := range entities.IntegrationKinds {
		link := findLink(links, kind)
		if link == nil {
			continue
		}
		lines = append(lines, "## "+kindLabel(kind), "**ID:** "+linkTarget(*link))

		keys := make([]string, 0, len(link.Metadata))
		for k := range link.Metadata {
			if k != linearTeamKey {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("**%s:** %v", k, link.Metadata[k]))
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(join(lines), "\n")
}

// IntegrationStatus renders list_integration_status: linked clients with
// their links, then clients without any
func IntegrationStatus(clients []entities.ClientSummary, links []entities.IntegrationLink) string {
	if len(clients) == 0 {
		return "# Client Integration Status\n\nNo clients found."
	}

	byClient := make(map[int64][]entities.IntegrationLink)
	for _, l := range links {
		byClient[l.ClientID] = append(byClient[l.ClientID], l)
	}

	var linked, unlinked []string
	for _, c := range clients {
		header := fmt.Sprintf("- **%s** (%s)", c.Name, plural(c.MeetingCount, "meeting", "meetings"))
		own := byClient[c.ID]
		if len(own) == 0 {
			unlinked = append(unlinked, header)
			continue
		}
		parts := []string{header}
		for _, kind := range entities.IntegrationKinds {
			if l := findLink(own, kind); l != nil {
				parts = append(parts, fmt.Sprintf("  - %s: %s", kindLabel(kind), linkTarget(*l)))
			}
		}
		linked = append(linked, join(parts))
	}

	lines := []string{"# Client Integration Status\n"}
	if len(linked) > 0 {
		lines = append(lines, "## Linked\n")
		lines = append(lines, linked...)
		lines = append(lines, "")
	}
	if len(unlinked) > 0 {
		lines = append(lines, "## Not Linked\n")
		lines = append(lines, unlinked...)
	}
	return strings.TrimRight(join(lines), "\n")
}

// Unlinked confirms unlink_client_integration
func Unlinked(clientName string, kind entities.IntegrationKind) string {
	return fmt.Sprintf("Unlinked '%s' from its %s.", clientName, kindLabel(kind))
}
