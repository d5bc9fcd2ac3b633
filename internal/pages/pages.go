// Package pages wraps the storefront's screens as page objects. Every
// method reports errors with enough context to read a failure without
// opening the trace.
package pages

import (
	"fmt"
	"strconv"
	"strings"
)

// slug converts a product name into the identifier the storefront uses
// in its add-to-cart and remove button ids.
func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// parseMoney extracts the dollar amount from label text such as
// "Item total: $29.98".
func parseMoney(text string) (float64, error) {
	i := strings.IndexByte(text, '$')
	if i < 0 {
		return 0, fmt.Errorf("no dollar amount in %q", text)
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(text[i+1:]), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount in %q: %w", text, err)
	}
	return amount, nil
}
