// Package indexer regenerates the OSGi repository index by invoking the
// external bnd indexing tool over every jar in the repository tree. The
// tool is a black box; this package only assembles its command line and
// writes the gzip and sha256 sidecars afterwards.
package indexer

import (
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goss-platform/reposync/internal/config"
)

// jarFolders are the repository subtrees whose jars go into the index.
var jarFolders = []string{"dependencies", "release", "snapshot"}

// CollectJars returns every .jar under the indexed repository folders,
// sorted for a deterministic command line. Folders that do not exist
// are skipped.
func CollectJars(root string) ([]string, error) {
	var jars []string
	for _, folder := range jarFolders {
		dir := filepath.Join(root, folder)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".jar") {
				jars = append(jars, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	}
	sort.Strings(jars)
	return jars, nil
}

// WriteSidecars writes indexPath.gz and the sha256 digest next to the
// index document.
func WriteSidecars(indexPath string) error {
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("failed to read index %s: %w", indexPath, err)
	}

	gzPath := indexPath + ".gz"
	gzFile, err := os.Create(gzPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", gzPath, err)
	}
	gz := gzip.NewWriter(gzFile)
	if _, err := gz.Write(data); err != nil {
		_ = gzFile.Close()
		return fmt.Errorf("failed to compress index: %w", err)
	}
	if err := gz.Close(); err != nil {
		_ = gzFile.Close()
		return fmt.Errorf("failed to finalize %s: %w", gzPath, err)
	}
	if err := gzFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", gzPath, err)
	}

	sum := sha256.Sum256(data)
	shaPath := indexPath + ".sha"
	if err := os.WriteFile(shaPath, []byte(hex.EncodeToString(sum[:])), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", shaPath, err)
	}
	return nil
}

// Regenerate runs the bnd index tool over the repository's jars and
// refreshes the sidecars. The tool jar must be present; a repository
// without it cannot be reindexed.
func Regenerate(ctx context.Context, cfg *config.Config) error {
	if _, err := os.Stat(cfg.BndJar); err != nil {
		return fmt.Errorf("bnd jar not found at %s: %w", cfg.BndJar, err)
	}

	jars, err := CollectJars(cfg.RepoRoot)
	if err != nil {
		return err
	}

	args := []string{"-jar", cfg.BndJar, "index", "-r", cfg.IndexFile, "-n", cfg.IndexName}
	args = append(args, jars...)

	cmd := exec.CommandContext(ctx, "java", args...)
	cmd.Dir = cfg.RepoRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("bnd index failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return WriteSidecars(cfg.IndexFile)
}
