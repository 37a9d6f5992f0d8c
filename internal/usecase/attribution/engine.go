package attribution

import (
	"regexp"
	"strings"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
)

// Method names the rule that attributed a meeting.
type Method string

const (
	MethodAlias            Method = "alias"
	MethodKnownName        Method = "known_name"
	MethodTitlePattern     Method = "title_pattern"
	MethodExternalAttendee Method = "external_attendee"
	MethodUnassigned       Method = "unassigned"
)

// Result is the outcome of attribution. ClientID is zero when Name is a new
// client that must be created before the meeting references it.
type Result struct {
	ClientID int64
	Name     string
	Method   Method
}

// Assigned reports whether any rule matched.
func (r Result) Assigned() bool {
	return r.Method != "" && r.Method != MethodUnassigned
}

// IsNew reports whether the matched client does not exist yet.
func (r Result) IsNew() bool {
	return r.Assigned() && r.ClientID == 0
}

// Unassigned is the result when no rule matches.
var Unassigned = Result{Method: MethodUnassigned}

// Rule is one attribution predicate. It reports false when it has no
// opinion about the meeting.
type Rule func(title string, attendees []entities.Attendee, dir *Directory) (Result, bool)

// DefaultTitlePatterns extract a client token from the start of a title:
// "<token> x <org> ...", "<token>: ..." and "Record <token> ...".
var DefaultTitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^([A-Za-z0-9]+)\s+x\s+\S+`),
	regexp.MustCompile(`(?i)^([A-Za-z0-9]+):`),
	regexp.MustCompile(`(?i)^Record\s+([A-Za-z0-9]+)`),
}

// Config configures an Engine.
type Config struct {
	// InternalDomain is the email domain of the organization's own staff.
	InternalDomain string

	// TitlePatterns overrides DefaultTitlePatterns. Each pattern's first
	// capture group is the client token.
	TitlePatterns []*regexp.Regexp
}

// Engine decides which client owns a meeting. Rules run in priority order
// and the first match wins.
type Engine struct {
	rules []Rule
}

// NewEngine builds the standard rule chain: alias, known name, title
// pattern, single external company.
func NewEngine(cfg Config) *Engine {
	patterns := cfg.TitlePatterns
	if len(patterns) == 0 {
		patterns = DefaultTitlePatterns
	}
	return NewEngineWithRules(
		AliasRule,
		KnownNameRule,
		TitlePatternRule(patterns),
		ExternalAttendeeRule(cfg.InternalDomain),
	)
}

// NewEngineWithRules builds an engine from an explicit rule chain.
func NewEngineWithRules(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Attribute runs the rule chain over the meeting. A meeting without a title
// is left unassigned. It performs no I/O.
func (e *Engine) Attribute(meeting entities.CanonicalMeeting, dir *Directory) Result {
	title := strings.TrimSpace(meeting.Title)
	if title == "" {
		return Unassigned
	}
	for _, rule := range e.rules {
		if res, ok := rule(title, meeting.Attendees, dir); ok {
			return res
		}
	}
	return Unassigned
}

// AliasRule matches curated aliases anywhere in the title. It only ever
// resolves to existing clients.
func AliasRule(title string, _ []entities.Attendee, dir *Directory) (Result, bool) {
	if title == "" {
		return Result{}, false
	}
	c, ok := dir.longestAliasIn(strings.ToLower(title))
	if !ok {
		return Result{}, false
	}
	return Result{ClientID: c.ID, Name: c.Name, Method: MethodAlias}, true
}

// KnownNameRule matches canonical client names anywhere in the title.
func KnownNameRule(title string, _ []entities.Attendee, dir *Directory) (Result, bool) {
	if title == "" {
		return Result{}, false
	}
	c, ok := dir.longestNameIn(strings.ToLower(title))
	if !ok {
		return Result{}, false
	}
	return Result{ClientID: c.ID, Name: c.Name, Method: MethodKnownName}, true
}

// TitlePatternRule extracts a client token with the first matching pattern.
// A token that resolves to no client names a new one.
func TitlePatternRule(patterns []*regexp.Regexp) Rule {
	return func(title string, _ []entities.Attendee, dir *Directory) (Result, bool) {
		if title == "" {
			return Result{}, false
		}
		for _, p := range patterns {
			m := p.FindStringSubmatch(title)
			if len(m) < 2 || strings.TrimSpace(m[1]) == "" {
				continue
			}
			return resolveCandidate(m[1], MethodTitlePattern, dir), true
		}
		return Result{}, false
	}
}

// excludedCompanies are placeholder affiliations that never name a client.
var excludedCompanies = map[string]struct{}{
	"":        {},
	"unknown": {},
}

// ExternalAttendeeRule attributes a meeting to the external company when
// every external attendee with an affiliation shares the same one. Zero or
// several distinct companies yield no match.
func ExternalAttendeeRule(internalDomain string) Rule {
	domain := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(internalDomain), "@"))

	return func(_ string, attendees []entities.Attendee, dir *Directory) (Result, bool) {
		internalCompanies := make(map[string]struct{})
		var external []entities.Attendee
		for _, a := range attendees {
			if isInternal(a.Email, domain) {
				internalCompanies[normalize(a.CompanyName)] = struct{}{}
				continue
			}
			external = append(external, a)
		}

		var company string
		seen := make(map[string]struct{})
		for _, a := range external {
			key := normalize(a.CompanyName)
			if _, skip := excludedCompanies[key]; skip {
				continue
			}
			if _, own := internalCompanies[key]; own {
				continue
			}
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				company = strings.TrimSpace(a.CompanyName)
			}
		}

		if len(seen) != 1 {
			return Result{}, false
		}
		return resolveCandidate(company, MethodExternalAttendee, dir), true
	}
}

// isInternal compares the email's domain with the internal domain exactly;
// subdomains count as external.
func isInternal(email, domain string) bool {
	if domain == "" {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(email[at+1:]), domain)
}

func resolveCandidate(name string, method Method, dir *Directory) Result {
	name = strings.TrimSpace(name)
	if c, ok := dir.Resolve(name); ok {
		return Result{ClientID: c.ID, Name: c.Name, Method: method}
	}
	return Result{Name: name, Method: method}
}
