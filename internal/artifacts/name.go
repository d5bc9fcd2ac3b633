package artifacts

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// astralRunes matches code points beyond the basic multilingual plane
// (emoji and friends), which have no place in artifact filenames.
var astralRunes = regexp.MustCompile(`[\x{10000}-\x{10FFFF}]`)

// unsafeChars matches everything outside the conservative filename set.
// Covers path separators, ':' and shell metacharacters.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

var dashRuns = regexp.MustCompile(`-{2,}`)

const maxNameLen = 100

// SafeName converts a test title into a filesystem-safe identifier.
// Accented characters are folded to their ASCII base, emoji are dropped,
// unsupported characters become '-', and runs of '-' collapse to one.
func SafeName(s string) string {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	s = astralRunes.ReplaceAllString(s, "")
	s = unsafeChars.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-.")
	if len(s) > maxNameLen {
		s = strings.Trim(s[:maxNameLen], "-.")
	}
	if s == "" {
		return "unnamed"
	}
	return s
}

// Token returns a unique artifact name component: a second-resolution
// timestamp plus a short random suffix. Uniqueness across parallel
// workers is probabilistic, not coordinated by any lock.
func Token() string {
	return time.Now().Format("20060102-150405") + "-" + uuid.NewString()[:8]
}
