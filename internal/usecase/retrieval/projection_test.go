package retrieval

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBound(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		budget        int
		wantText      string
		wantTruncated bool
		wantLength    int
	}{
		{name: "under budget", text: "hello", budget: 10, wantText: "hello", wantLength: 5},
		{name: "exactly budget", text: "hello", budget: 5, wantText: "hello", wantLength: 5},
		{name: "over budget", text: "hello world", budget: 5, wantText: "hello", wantTruncated: true, wantLength: 11},
		{name: "zero budget", text: "abc", budget: 0, wantText: "", wantTruncated: true, wantLength: 3},
		{name: "unbounded", text: "abc", budget: -1, wantText: "abc", wantLength: 3},
		{name: "empty", text: "", budget: 3, wantText: "", wantLength: 0},
		{name: "multibyte runes", text: "héllo wörld", budget: 7, wantText: "héllo w", wantTruncated: true, wantLength: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bound(tt.text, tt.budget)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantTruncated, got.Truncated)
			assert.Equal(t, tt.wantLength, got.OriginalLength)
			assert.True(t, utf8.ValidString(got.Text))
		})
	}
}

func TestBound_LargeTranscript(t *testing.T) {
	transcript := strings.Repeat("a", 60000)

	summary := Bound(transcript, NotesSummaryBudget)
	assert.Len(t, summary.Text, NotesSummaryBudget)
	assert.True(t, summary.Truncated)

	full := Bound(transcript, TranscriptBudget)
	assert.Len(t, full.Text, 50000)
	assert.True(t, full.Truncated)
	assert.Equal(t, 60000, full.OriginalLength)
}

func TestBoundPtr(t *testing.T) {
	assert.Equal(t, Projection{}, BoundPtr(nil, 10))

	s := "abcdef"
	assert.Equal(t, "abc", BoundPtr(&s, 3).Text)
}
