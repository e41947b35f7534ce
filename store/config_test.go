package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	content := `tables:
  post:
    table: wp_postmeta
    id_column: post_id
    key_column: meta_key
    value_column: meta_value
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	tm := cfg.TableFor("post")
	assert.Equal(t, "wp_postmeta", tm.Table)
	assert.Equal(t, "post_id", tm.IDColumn)
}

func TestLoadConfig_RejectsBadIdentifiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	content := `tables:
  post:
    table: "wp_postmeta; DROP TABLE users"
    id_column: post_id
    key_column: meta_key
    value_column: meta_value
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_TableForConvention(t *testing.T) {
	cfg := Config{}

	tm := cfg.TableFor("term")
	assert.Equal(t, "termmeta", tm.Table)
	assert.Equal(t, "term_id", tm.IDColumn)
	assert.Equal(t, "meta_key", tm.KeyColumn)
	assert.Equal(t, "meta_value", tm.ValueColumn)
	assert.NoError(t, tm.Validate())
}
