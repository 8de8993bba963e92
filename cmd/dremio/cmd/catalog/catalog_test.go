package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"sales", []string{"sales"}},
		{"adls.nyctaxi.trips", []string{"adls", "nyctaxi", "trips"}},
		{`adls."2024.q1".trips`, []string{"adls", "2024.q1", "trips"}},
		{"a..b", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPath(tt.in))
		})
	}
}
