package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeight(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"129190044", 129190044},
		{"129_190_044", 129190044},
		{"129,190,044", 129190044},
		{"129.190.044", 129190044},
		{" 129 190 044 ", 129190044},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := ParseHeight(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "___", "-5", "12a", "99999999999999999999999"} {
		_, err := ParseHeight(bad)
		assert.Error(t, err, bad)
	}
}
