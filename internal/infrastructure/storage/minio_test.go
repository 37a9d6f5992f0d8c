package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentKey(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{id: "doc-1", want: "raw/doc-1.json"},
		{id: "a/b", want: "raw/a/b.json"},
		{id: "../../etc/passwd", want: "raw/etc/passwd.json"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, DocumentKey(tt.id))
		})
	}
}
