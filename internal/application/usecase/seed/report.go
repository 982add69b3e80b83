package seed

import (
	"fmt"
	"strings"

	"github.com/khoahotran/portfolio/internal/domain/content"
)

func Totals(results []content.UploadResult) (success, errors int) {
	for _, r := range results {
		success += r.Success
		errors += r.Errors
	}
	return success, errors
}

// HasFailures is true when any record failed or any collection aborted.
func HasFailures(results []content.UploadResult) bool {
	for _, r := range results {
		if !r.OK() {
			return true
		}
	}
	return false
}

// FormatResults renders results the way the console entry points print them.
func FormatResults(results []content.UploadResult) string {
	var b strings.Builder
	for _, r := range results {
		icon := "📦"
		switch {
		case r.Aborted():
			icon = "💥"
		case r.Errors > 0:
			icon = "⚠️"
		}
		fmt.Fprintf(&b, "%s %s: %d/%d uploaded, %d failed\n", icon, r.Collection, r.Success, r.Total, r.Errors)
		for _, line := range r.Details {
			fmt.Fprintf(&b, "   %s\n", line)
		}
	}
	success, failed := Totals(results)
	fmt.Fprintf(&b, "🎉 Done: %d uploaded, %d failed across %d entries\n", success, failed, len(results))
	return b.String()
}
