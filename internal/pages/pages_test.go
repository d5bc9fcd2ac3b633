package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Sauce Labs Backpack", "sauce-labs-backpack"},
		{"Sauce Labs Bolt T-Shirt", "sauce-labs-bolt-t-shirt"},
		{"  Trimmed Name  ", "trimmed-name"},
		{"single", "single"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slug(tt.name))
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"$29.99", 29.99},
		{"Item total: $39.98", 39.98},
		{"Tax: $3.20", 3.2},
		{"Total: $43.18", 43.18},
	}
	for _, tt := range tests {
		got, err := parseMoney(tt.text)
		require.NoError(t, err, tt.text)
		assert.InDelta(t, tt.want, got, 0.001)
	}
}

func TestParseMoneyRejectsBadLabels(t *testing.T) {
	_, err := parseMoney("no amount here")
	require.Error(t, err)

	_, err = parseMoney("Total: $not-a-number")
	require.Error(t, err)
}
