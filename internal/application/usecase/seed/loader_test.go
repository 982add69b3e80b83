package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

const seedJSON = `{
  "projects": [
    {"title": "Portfolio", "description": "This site", "tags": ["go", "react"]},
    {"title": "CLI", "description": "A tool"}
  ],
  "skills": [{"name": "Go", "level": 90}],
  "services": null,
  "personalInfo": {"name": "Khoa", "email": "khoa@example.com"},
  "analytics": {"views": 0},
  "blog": []
}`

const seedYAML = `
projects:
  - title: Portfolio
    description: This site
skills:
  - name: Go
personalInfo:
  name: Khoa
`

func TestParseSeedJSON(t *testing.T) {
	s, err := ParseSeedJSON([]byte(seedJSON))
	require.NoError(t, err)

	projects := s.Records(content.CollectionProjects)
	require.Len(t, projects, 2)
	assert.Equal(t, "Portfolio", projects[0]["title"])
	assert.Equal(t, []any{"go", "react"}, projects[0]["tags"])

	assert.Len(t, s.Records(content.CollectionSkills), 1)
	assert.NotNil(t, s.Records(content.CollectionServices))
	assert.Empty(t, s.Records(content.CollectionServices))
	assert.Nil(t, s.Records(content.CollectionCertifications))

	assert.Equal(t, "Khoa", s.PersonalInfo["name"])
	assert.NotNil(t, s.Analytics)
	assert.Equal(t, []string{"blog"}, s.Ignored)
}

func TestParseSeedYAML(t *testing.T) {
	s, err := ParseSeedYAML([]byte(seedYAML))
	require.NoError(t, err)

	assert.Len(t, s.Records(content.CollectionProjects), 1)
	assert.Equal(t, "Go", s.Records(content.CollectionSkills)[0]["name"])
	assert.Equal(t, "Khoa", s.PersonalInfo["name"])
	assert.Nil(t, s.Analytics)
}

func TestParseSeed_InvalidShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"projects": [`},
		{"collection not an array", `{"projects": {"title": "x"}}`},
		{"record not an object", `{"skills": ["Go"]}`},
		{"singleton not an object", `{"personalInfo": [1, 2]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeedJSON([]byte(tt.input))
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		})
	}
}

func TestLoadSeed_ByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(seedJSON), 0o600))
	s, err := LoadSeed(jsonPath)
	require.NoError(t, err)
	assert.Len(t, s.Records(content.CollectionProjects), 2)

	yamlPath := filepath.Join(dir, "seed.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(seedYAML), 0o600))
	s, err = LoadSeed(yamlPath)
	require.NoError(t, err)
	assert.Len(t, s.Records(content.CollectionProjects), 1)

	_, err = LoadSeed(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestParseSeed_DropsSnapshotMetadata(t *testing.T) {
	s, err := ParseSeedJSON([]byte(`{
  "takenAt": "2025-05-04T03:02:01Z",
  "skills": [{"id": "665f1c", "name": "Go"}],
  "personalInfo": {"name": "Khoa"}
}`))
	require.NoError(t, err)

	assert.Empty(t, s.Ignored)
	assert.Equal(t, content.Record{"name": "Go"}, s.Records(content.CollectionSkills)[0])
}

func TestSeedRecords_NilSafe(t *testing.T) {
	var s *Seed
	assert.Nil(t, s.Records(content.CollectionProjects))
}
