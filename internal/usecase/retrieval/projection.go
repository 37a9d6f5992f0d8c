package retrieval

import "unicode/utf8"

// Character budgets per content class.
const (
	NotesSummaryBudget   = 500
	SnippetBudget        = 300
	ContextPreviewBudget = 300
	TranscriptBudget     = 50000
	EnhancedNotesBudget  = 10000
)

// Projection is a field cut to a character budget.
type Projection struct {
	Text           string `json:"text"`
	Truncated      bool   `json:"truncated"`
	OriginalLength int    `json:"original_length"`
}

// Bound cuts text to at most budget characters (runes). A negative budget
// means unbounded.
func Bound(text string, budget int) Projection {
	n := utf8.RuneCountInString(text)
	if budget < 0 || n <= budget {
		return Projection{Text: text, OriginalLength: n}
	}

	cut, seen := 0, 0
	for i := range text {
		if seen == budget {
			cut = i
			break
		}
		seen++
	}
	return Projection{Text: text[:cut], Truncated: true, OriginalLength: n}
}

// BoundPtr is Bound for optional fields; nil projects to an empty string.
func BoundPtr(text *string, budget int) Projection {
	if text == nil {
		return Projection{}
	}
	return Bound(*text, budget)
}
