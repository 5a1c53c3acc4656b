package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goss-platform/reposync/internal/maven"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "dependencies.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_BundleMappings(t *testing.T) {
	path := writeConfig(t, `{
		"bundles": {
			"org.apache.felix.scr": {"groupId": "org.apache.felix", "artifactId": "org.apache.felix.scr"},
			"com.example.custom": {"local": true},
			"com.example.empty": {}
		}
	}`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	coord := cfg.Bundles["org.apache.felix.scr"]
	require.NotNil(t, coord)
	assert.Equal(t, maven.Coordinate{GroupID: "org.apache.felix", ArtifactID: "org.apache.felix.scr"}, *coord)

	// Explicitly local and incompletely mapped entries both resolve to
	// nil coordinates, which the engine classifies as local-only.
	require.Contains(t, cfg.Bundles, "com.example.custom")
	assert.Nil(t, cfg.Bundles["com.example.custom"])
	require.Contains(t, cfg.Bundles, "com.example.empty")
	assert.Nil(t, cfg.Bundles["com.example.empty"])
}

func TestLoad_AdditionalDownloads(t *testing.T) {
	path := writeConfig(t, `{
		"bundles": {},
		"additionalDownloads": [
			{"_comment": "--- logging ---"},
			{"groupId": "org.slf4j", "artifactId": "slf4j-api", "folder": "logging"},
			{"groupId": "org.osgi", "artifactId": "osgi.residential", "source": "BND Hub", "version": "4.3.0"}
		]
	}`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)
	require.Len(t, cfg.Downloads, 3)

	assert.True(t, cfg.Downloads[0].IsComment())
	assert.False(t, cfg.Downloads[1].IsComment())
	assert.Equal(t, "logging", cfg.Downloads[1].DestFolder())
	assert.Equal(t, "misc", cfg.Downloads[0].DestFolder())
	assert.Equal(t, SourceBndHub, cfg.Downloads[2].Source)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read configuration file")
}

func TestLoad_SchemaViolation(t *testing.T) {
	path := writeConfig(t, `{"bundles": {"x": {"groupId": 42}}}`)
	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_BadRepoURL(t *testing.T) {
	path := writeConfig(t, `{
		"bundles": {},
		"additionalDownloads": [
			{"groupId": "g", "artifactId": "a", "repoUrl": "not a url"}
		]
	}`)
	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "additionalDownloads[0]")
}

func TestDefaults_Paths(t *testing.T) {
	cfg := Defaults("/repo")
	assert.Equal(t, filepath.Join("/repo", "dependencies"), cfg.RepoDir)
	assert.Equal(t, filepath.Join("/repo", "index.xml"), cfg.IndexFile)
	assert.Equal(t, 1, cfg.Workers)
	require.NotEmpty(t, cfg.Repositories)
	assert.Equal(t, "Maven Central", cfg.Repositories[0].Name)
}
