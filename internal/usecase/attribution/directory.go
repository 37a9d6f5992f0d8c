package attribution

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// ClientRef is a client as seen by attribution.
type ClientRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AliasRef maps a lowercase alias to a client id.
type AliasRef struct {
	Alias    string `json:"alias"`
	ClientID int64  `json:"client_id"`
}

// Snapshot is a point-in-time copy of the client directory.
type Snapshot struct {
	Clients []ClientRef `json:"clients"`
	Aliases []AliasRef  `json:"aliases"`
}

// Directory indexes a Snapshot for case-insensitive lookups. It is not safe
// for concurrent mutation.
type Directory struct {
	byID    map[int64]ClientRef
	byName  map[string]ClientRef
	byAlias map[string]ClientRef
	names   []string
	aliases []string
}

// NewDirectory builds the lookup indexes. Aliases pointing at a client that
// is not in the snapshot are ignored.
func NewDirectory(snap Snapshot) *Directory {
	d := &Directory{
		byID:    make(map[int64]ClientRef, len(snap.Clients)),
		byName:  make(map[string]ClientRef, len(snap.Clients)),
		byAlias: make(map[string]ClientRef, len(snap.Aliases)),
	}
	for _, c := range snap.Clients {
		d.Add(c)
	}
	for _, a := range snap.Aliases {
		client, ok := d.byID[a.ClientID]
		key := normalize(a.Alias)
		if !ok || key == "" {
			continue
		}
		if _, dup := d.byAlias[key]; !dup {
			d.aliases = append(d.aliases, key)
		}
		d.byAlias[key] = client
	}
	sort.Strings(d.aliases)
	return d
}

// Add registers a client, e.g. one created earlier in the same batch.
func (d *Directory) Add(c ClientRef) {
	key := normalize(c.Name)
	if key == "" {
		return
	}
	d.byID[c.ID] = c
	if _, dup := d.byName[key]; !dup {
		d.names = append(d.names, key)
		sort.Strings(d.names)
	}
	d.byName[key] = c
}

// Len returns the number of known clients.
func (d *Directory) Len() int {
	return len(d.byID)
}

// LookupName resolves an exact canonical name, case-insensitively.
func (d *Directory) LookupName(name string) (ClientRef, bool) {
	c, ok := d.byName[normalize(name)]
	return c, ok
}

// LookupAlias resolves an exact alias, case-insensitively.
func (d *Directory) LookupAlias(alias string) (ClientRef, bool) {
	c, ok := d.byAlias[normalize(alias)]
	return c, ok
}

// Resolve looks a name up as an alias first, then as a canonical name.
func (d *Directory) Resolve(name string) (ClientRef, bool) {
	if c, ok := d.LookupAlias(name); ok {
		return c, true
	}
	return d.LookupName(name)
}

// longestAliasIn returns the client of the longest alias contained in the
// lowercased title.
func (d *Directory) longestAliasIn(lowerTitle string) (ClientRef, bool) {
	key, ok := longestContained(lowerTitle, d.aliases)
	if !ok {
		return ClientRef{}, false
	}
	return d.byAlias[key], true
}

// longestNameIn returns the client whose canonical name is the longest one
// contained in the lowercased title.
func (d *Directory) longestNameIn(lowerTitle string) (ClientRef, bool) {
	key, ok := longestContained(lowerTitle, d.names)
	if !ok {
		return ClientRef{}, false
	}
	return d.byName[key], true
}

// longestContained picks the longest key that is a substring of s. Equal
// lengths resolve to the lexicographically smallest key; keys is sorted so
// the first one seen at a given length wins.
func longestContained(s string, keys []string) (string, bool) {
	best, bestLen := "", 0
	for _, k := range keys {
		if !strings.Contains(s, k) {
			continue
		}
		if n := utf8.RuneCountInString(k); n > bestLen {
			best, bestLen = k, n
		}
	}
	return best, bestLen > 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
