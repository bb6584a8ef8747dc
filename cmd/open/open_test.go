package open

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjulian5/workops/internal/tree"
)

func TestCanonicalID(t *testing.T) {
	nodes := []*tree.Node{
		{ID: "item7"},
		{ID: "pr4538:created"},
		{ID: "pr4538:assigned"},
	}

	tests := []struct {
		id   string
		want string
	}{
		{"pr4538", "pr4538:created"},
		{"pr9", "pr9"},
		{"item7", "item7"},
		{"bogus", "bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalID(nodes, tt.id))
		})
	}
}

func TestIsNumber(t *testing.T) {
	assert.True(t, isNumber("1234"))
	assert.False(t, isNumber(""))
	assert.False(t, isNumber("12a"))
}
