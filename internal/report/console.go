package report

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

// PrintSummary writes the end-of-run console block.
func PrintSummary(s Summary) {
	fmt.Printf("\n📊 Test Summary (completed in %s)\n", s.Duration().Round(time.Millisecond))
	color.Green("✅ Passed: %d", s.Passed)
	if s.Failed > 0 {
		color.Red("❌ Failed: %d", s.Failed)
	}
	if s.Skipped > 0 {
		color.Yellow("⏭️  Skipped: %d", s.Skipped)
	}
	if s.Flaky > 0 {
		color.Cyan("🔁 Flaky: %d", s.Flaky)
	}
	fmt.Printf("📈 Total: %d tests (pass rate %s%%)\n", s.Total, s.PassRateString())
}
