package seed

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/portfolio/internal/domain/content"
)

func TestFormatResults(t *testing.T) {
	results := []content.UploadResult{
		{Collection: "projects", Success: 2, Errors: 1, Total: 3, Details: []string{"✅ A (1)", "❌ B: bad", "✅ C (2)"}},
		{Collection: "skills", Total: 2, Details: []string{content.AbortPrefix + "store unreachable"}},
		{Collection: "services", Success: 1, Total: 1, Details: []string{"✅ Consulting (9)"}},
	}

	got := strings.Split(strings.TrimSuffix(FormatResults(results), "\n"), "\n")
	want := []string{
		"⚠️ projects: 2/3 uploaded, 1 failed",
		"   ✅ A (1)",
		"   ❌ B: bad",
		"   ✅ C (2)",
		"💥 skills: 0/2 uploaded, 0 failed",
		"   " + content.AbortPrefix + "store unreachable",
		"📦 services: 1/1 uploaded, 0 failed",
		"   ✅ Consulting (9)",
		"🎉 Done: 3 uploaded, 1 failed across 3 entries",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestHasFailures(t *testing.T) {
	assert.False(t, HasFailures(nil))
	assert.False(t, HasFailures([]content.UploadResult{{Success: 1, Total: 1}}))
	assert.True(t, HasFailures([]content.UploadResult{{Errors: 1, Total: 1}}))
	assert.True(t, HasFailures([]content.UploadResult{{Total: 4, Details: []string{content.AbortPrefix + "x"}}}))
}
