package attribution

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
)

const internalDomain = "goji.example"

func internal(name string) entities.Attendee {
	return entities.Attendee{Email: name + "@goji.example", Name: name, CompanyName: "Goji Labs"}
}

func external(email, company string) entities.Attendee {
	return entities.Attendee{Email: email, CompanyName: company}
}

func TestEngine_Attribute(t *testing.T) {
	engine := NewEngine(Config{InternalDomain: internalDomain})

	tests := []struct {
		name      string
		snapshot  Snapshot
		title     string
		attendees []entities.Attendee
		want      Result
	}{
		{
			name: "alias outranks known name",
			snapshot: Snapshot{
				Clients: []ClientRef{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Widgets Inc"}},
				Aliases: []AliasRef{{Alias: "widgets", ClientID: 2}},
			},
			title: "Acme / Widgets sync",
			want:  Result{ClientID: 2, Name: "Widgets Inc", Method: MethodAlias},
		},
		{
			name: "longest alias wins",
			snapshot: Snapshot{
				Clients: []ClientRef{{ID: 10, Name: "Northbridge"}, {ID: 11, Name: "NB Forty Four"}},
				Aliases: []AliasRef{{Alias: "nb", ClientID: 10}, {Alias: "nb44", ClientID: 11}},
			},
			title: "NB44 Strategy Session",
			want:  Result{ClientID: 11, Name: "NB Forty Four", Method: MethodAlias},
		},
		{
			name: "equal length aliases resolve lexicographically",
			snapshot: Snapshot{
				Clients: []ClientRef{{ID: 1, Name: "Alpha Corp"}, {ID: 2, Name: "Zeta Corp"}},
				Aliases: []AliasRef{{Alias: "xyz", ClientID: 2}, {Alias: "abc", ClientID: 1}},
			},
			title: "xyz and abc roadmap",
			want:  Result{ClientID: 1, Name: "Alpha Corp", Method: MethodAlias},
		},
		{
			name:     "known name substring is case-insensitive",
			snapshot: Snapshot{Clients: []ClientRef{{ID: 3, Name: "Acme"}}},
			title:    "weekly ACME review",
			want:     Result{ClientID: 3, Name: "Acme", Method: MethodKnownName},
		},
		{
			name:     "longest known name wins",
			snapshot: Snapshot{Clients: []ClientRef{{ID: 3, Name: "Acme"}, {ID: 4, Name: "Acme Labs"}}},
			title:    "Acme Labs kickoff",
			want:     Result{ClientID: 4, Name: "Acme Labs", Method: MethodKnownName},
		},
		{
			name:      "x pattern names a new client",
			title:     "Acme x Goji Design Check-in",
			attendees: []entities.Attendee{internal("ana"), internal("ben")},
			want:      Result{Name: "Acme", Method: MethodTitlePattern},
		},
		{
			name:  "colon pattern",
			title: "Foo: sprint planning",
			want:  Result{Name: "Foo", Method: MethodTitlePattern},
		},
		{
			name:  "record pattern",
			title: "record Bar weekly",
			want:  Result{Name: "Bar", Method: MethodTitlePattern},
		},
		{
			name:      "pattern outranks attendees",
			title:     "Acme x Goji",
			attendees: []entities.Attendee{external("jo@other.com", "Other")},
			want:      Result{Name: "Acme", Method: MethodTitlePattern},
		},
		{
			name:      "single external company names a new client",
			title:     "Weekly Sync",
			attendees: []entities.Attendee{internal("ana"), external("external@foo.com", "Foo")},
			want:      Result{Name: "Foo", Method: MethodExternalAttendee},
		},
		{
			name:      "single external company resolves to existing client",
			snapshot:  Snapshot{Clients: []ClientRef{{ID: 7, Name: "Foo"}}},
			title:     "Weekly Sync",
			attendees: []entities.Attendee{internal("ana"), external("external@foo.com", "Foo")},
			want:      Result{ClientID: 7, Name: "Foo", Method: MethodExternalAttendee},
		},
		{
			name:      "external company resolves through an alias",
			snapshot:  Snapshot{Clients: []ClientRef{{ID: 8, Name: "Foo Holdings"}}, Aliases: []AliasRef{{Alias: "foo", ClientID: 8}}},
			title:     "Weekly Sync",
			attendees: []entities.Attendee{external("a@foo.com", "FOO")},
			want:      Result{ClientID: 8, Name: "Foo Holdings", Method: MethodExternalAttendee},
		},
		{
			name:  "two external companies stay unassigned",
			title: "Weekly Sync",
			attendees: []entities.Attendee{
				internal("ana"),
				external("a@foo.com", "Foo"),
				external("b@bar.com", "Bar"),
			},
			want: Unassigned,
		},
		{
			name:      "all internal stays unassigned",
			title:     "Weekly Sync",
			attendees: []entities.Attendee{internal("ana"), internal("ben")},
			want:      Unassigned,
		},
		{
			name:  "company names compare case-insensitively",
			title: "Weekly Sync",
			attendees: []entities.Attendee{
				external("a@foo.com", "Foo"),
				external("b@foo.com", " FOO "),
			},
			want: Result{Name: "Foo", Method: MethodExternalAttendee},
		},
		{
			name:  "placeholder and own company are ignored",
			title: "Weekly Sync",
			attendees: []entities.Attendee{
				internal("ana"),
				external("x@gmail.com", "Unknown"),
				external("y@contractor.com", ""),
				external("z@goji-alumni.com", "Goji Labs"),
				external("a@foo.com", "Foo"),
			},
			want: Result{Name: "Foo", Method: MethodExternalAttendee},
		},
		{
			name:      "subdomain of internal domain is external",
			title:     "Weekly Sync",
			attendees: []entities.Attendee{external("dev@eng.goji.example", "Eng Partners")},
			want:      Result{Name: "Eng Partners", Method: MethodExternalAttendee},
		},
		{
			name:      "blank title skips every rule",
			title:     "   ",
			attendees: []entities.Attendee{external("a@foo.com", "Foo")},
			want:      Unassigned,
		},
		{
			name:  "empty title and no attendees",
			title: "",
			want:  Unassigned,
		},
		{
			name: "alias to a missing client never creates",
			snapshot: Snapshot{
				Aliases: []AliasRef{{Alias: "ghost", ClientID: 99}},
			},
			title: "ghost planning",
			want:  Unassigned,
		},
		{
			name: "merged name attributes to surviving client",
			snapshot: Snapshot{
				Clients: []ClientRef{{ID: 2, Name: "NewName"}},
				Aliases: []AliasRef{{Alias: "oldname", ClientID: 2}},
			},
			title: "OldName sync",
			want:  Result{ClientID: 2, Name: "NewName", Method: MethodAlias},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meeting := entities.CanonicalMeeting{Title: tt.title, Attendees: tt.attendees}
			got := engine.Attribute(meeting, NewDirectory(tt.snapshot))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResult_Flags(t *testing.T) {
	assert.False(t, Unassigned.Assigned())
	assert.False(t, Unassigned.IsNew())

	created := Result{Name: "Acme", Method: MethodTitlePattern}
	assert.True(t, created.Assigned())
	assert.True(t, created.IsNew())

	existing := Result{ClientID: 4, Name: "Acme", Method: MethodKnownName}
	assert.True(t, existing.Assigned())
	assert.False(t, existing.IsNew())
}

func TestTitlePatternRule_ResolvesExistingToken(t *testing.T) {
	dir := NewDirectory(Snapshot{
		Clients: []ClientRef{{ID: 5, Name: "ACME"}},
		Aliases: []AliasRef{{Alias: "zed", ClientID: 5}},
	})
	rule := TitlePatternRule(DefaultTitlePatterns)

	res, ok := rule("acme: retro", nil, dir)
	assert.True(t, ok)
	assert.Equal(t, Result{ClientID: 5, Name: "ACME", Method: MethodTitlePattern}, res)

	res, ok = rule("Zed x Goji", nil, dir)
	assert.True(t, ok)
	assert.Equal(t, int64(5), res.ClientID)

	_, ok = rule("Weekly Sync", nil, dir)
	assert.False(t, ok)
}

func TestDirectory_AddMakesClientMatchable(t *testing.T) {
	engine := NewEngine(Config{InternalDomain: internalDomain})
	dir := NewDirectory(Snapshot{})

	first := engine.Attribute(entities.CanonicalMeeting{Title: "Acme x Goji kickoff"}, dir)
	assert.True(t, first.IsNew())

	dir.Add(ClientRef{ID: 42, Name: first.Name})

	second := engine.Attribute(entities.CanonicalMeeting{Title: "Acme follow-up"}, dir)
	assert.Equal(t, Result{ClientID: 42, Name: "Acme", Method: MethodKnownName}, second)
	assert.Equal(t, 1, dir.Len())
}

func TestNewEngine_CustomPatterns(t *testing.T) {
	engine := NewEngine(Config{
		InternalDomain: internalDomain,
		TitlePatterns:  []*regexp.Regexp{regexp.MustCompile(`^\[([A-Za-z]+)\]`)},
	})

	got := engine.Attribute(entities.CanonicalMeeting{Title: "[Orbit] status"}, NewDirectory(Snapshot{}))
	assert.Equal(t, Result{Name: "Orbit", Method: MethodTitlePattern}, got)

	got = engine.Attribute(entities.CanonicalMeeting{Title: "Orbit: status"}, NewDirectory(Snapshot{}))
	assert.Equal(t, Unassigned, got)
}

func TestNewEngineWithRules_FirstMatchWins(t *testing.T) {
	calls := 0
	never := func(string, []entities.Attendee, *Directory) (Result, bool) {
		calls++
		return Result{}, false
	}
	always := func(string, []entities.Attendee, *Directory) (Result, bool) {
		return Result{ClientID: 1, Name: "First", Method: MethodKnownName}, true
	}
	unreachable := func(string, []entities.Attendee, *Directory) (Result, bool) {
		t.Fatal("rule after a match must not run")
		return Result{}, false
	}

	engine := NewEngineWithRules(never, always, unreachable)
	got := engine.Attribute(entities.CanonicalMeeting{Title: "anything"}, NewDirectory(Snapshot{}))

	assert.Equal(t, "First", got.Name)
	assert.Equal(t, 1, calls)
}
