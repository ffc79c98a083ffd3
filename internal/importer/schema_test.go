package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
items:
  - feature: Parse request headers
    effort: S
    progress: Mostly done
    search_ui: "+"
    shim: "+"
    activity_log: "+"
  - id: "42"
    feature: Query fan-out
    effort: L
    duration_days: 30
  - feature: Prompt library
    effort: M
    parent_feature: Generate LM - Search
`

func TestParseBacklog_YAML(t *testing.T) {
	file, err := ParseBacklog([]byte(sampleYAML), false)
	require.NoError(t, err)
	require.Len(t, file.Items, 3)

	assert.Equal(t, "Parse request headers", file.Items[0].Feature)
	assert.Equal(t, "+", file.Items[0].ActivityLog)
	assert.Equal(t, "42", file.Items[1].ID)
	require.NotNil(t, file.Items[1].DurationDays)
	assert.Equal(t, 30, *file.Items[1].DurationDays)
	assert.Equal(t, "Generate LM - Search", file.Items[2].ParentFeature)
	assert.Nil(t, file.Items[2].SubGroup)
}

func TestLoadBacklog_JSONByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backlog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items":[{"feature":"A","effort":"S","sub_group":false}]}`), 0o644))

	file, err := LoadBacklog(path)
	require.NoError(t, err)
	require.Len(t, file.Items, 1)
	require.NotNil(t, file.Items[0].SubGroup)
	assert.False(t, *file.Items[0].SubGroup)
}

func TestLoadBacklog_Errors(t *testing.T) {
	_, err := LoadBacklog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseBacklog([]byte(`{"items": [`), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing backlog json")
}
