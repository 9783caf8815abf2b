package donation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	now := time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC)
	ids := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := NewID(now)
		require.Nil(t, err)
		assert.True(t, IsID(id), id)
		assert.True(t, strings.HasPrefix(id, "DON_20240307_"), id)
		assert.Equal(t, 19, len(id))
		ids[id] = true
	}
	assert.Greater(t, len(ids), 95)
}

func TestIsID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "DON_20240307_ABC123", want: true},
		{id: "DON_20240307_000000", want: true},
		{id: "DON_20240307_abc123", want: false},
		{id: "DON_2024037_ABC123", want: false},
		{id: "DON_20240307_ABC12", want: false},
		{id: "XDON_20240307_ABC123", want: false},
		{id: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, IsID(tt.id))
		})
	}
}
