package indexer

import (
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goss-platform/reposync/internal/config"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("jar"), 0644))
}

func TestCollectJars(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "dependencies", "logging", "slf4j-api-2.0.9.jar"))
	touch(t, filepath.Join(root, "dependencies", "logging", "notes.txt"))
	touch(t, filepath.Join(root, "release", "app-1.0.0.jar"))
	touch(t, filepath.Join(root, "elsewhere", "ignored-1.0.0.jar"))

	jars, err := CollectJars(root)
	require.NoError(t, err)
	require.Len(t, jars, 2)
	assert.Contains(t, jars[0], "slf4j-api-2.0.9.jar")
	assert.Contains(t, jars[1], "app-1.0.0.jar")
}

func TestCollectJars_MissingFoldersSkipped(t *testing.T) {
	jars, err := CollectJars(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, jars)
}

func TestWriteSidecars(t *testing.T) {
	root := t.TempDir()
	indexPath := filepath.Join(root, "index.xml")
	content := []byte("<repository/>")
	require.NoError(t, os.WriteFile(indexPath, content, 0644))

	require.NoError(t, WriteSidecars(indexPath))

	gzFile, err := os.Open(indexPath + ".gz")
	require.NoError(t, err)
	defer func() { _ = gzFile.Close() }()
	gz, err := gzip.NewReader(gzFile)
	require.NoError(t, err)
	decompressed, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, content, decompressed)

	sha, err := os.ReadFile(indexPath + ".sha")
	require.NoError(t, err)
	sum := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(sum[:]), string(sha))
}

func TestRegenerate_MissingBndJar(t *testing.T) {
	cfg := config.Defaults(t.TempDir())
	err := Regenerate(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bnd jar not found")
}
