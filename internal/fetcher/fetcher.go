// Package fetcher downloads artifact jars from remote repositories into
// the local repository tree. Payloads are validated before anything is
// written, so a failed attempt never leaves a partial file behind.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goss-platform/reposync/internal/httpget"
	"github.com/goss-platform/reposync/internal/maven"
)

// errorPageThreshold is the size under which a body containing an HTML
// marker is treated as a disguised error page rather than a jar.
const errorPageThreshold = 1000

// ValidationError reports a payload that is not really a jar: a small
// HTML document served with a success status.
type ValidationError struct {
	URL string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("received HTML error page instead of a jar from %s", e.URL)
}

// Client downloads jars. The zero value is ready to use.
type Client struct{}

// Download fetches one artifact version from the repository base URL
// into destDir, creating the directory if needed. The jar lands as
// <artifactId>-<version>.jar. Any failure is returned without writing.
func (c *Client) Download(ctx context.Context, coord maven.Coordinate, version, destDir, repoURL string) error {
	groupPath := strings.ReplaceAll(coord.GroupID, ".", "/")
	jarName := coord.JarName(version)
	jarURL := fmt.Sprintf("%s/%s/%s/%s/%s", repoURL, groupPath, coord.ArtifactID, version, jarName)

	return c.fetchTo(ctx, jarURL, destDir, jarName)
}

// DownloadWithFallback tries each repository in order and stops at the
// first success, returning the name of the repository that served the
// jar. All attempts failing is a single error; no partial file remains.
func (c *Client) DownloadWithFallback(ctx context.Context, coord maven.Coordinate, version, destDir string, repos []maven.Repository) (string, error) {
	var lastErr error
	for _, repo := range repos {
		if err := c.Download(ctx, coord, version, destDir, repo.URL); err != nil {
			lastErr = err
			continue
		}
		return repo.Name, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no repositories to try")
	}
	return "", fmt.Errorf("failed to download %s %s from all repositories: %w", coord, version, lastErr)
}

// DownloadFromHub fetches a bundle hub jar, which lives directly under
// <hubRawURL>/<name>/<name>-<version>.jar.
func (c *Client) DownloadFromHub(ctx context.Context, hubRawURL, bundleName, version, destDir string) error {
	jarName := fmt.Sprintf("%s-%s.jar", bundleName, version)
	jarURL := fmt.Sprintf("%s/%s/%s", hubRawURL, bundleName, jarName)

	return c.fetchTo(ctx, jarURL, destDir, jarName)
}

func (c *Client) fetchTo(ctx context.Context, jarURL, destDir, jarName string) error {
	opts := httpget.DefaultOptions()
	opts.Timeout = httpget.DownloadTimeout

	body, err := httpget.Bytes(ctx, jarURL, opts)
	if err != nil {
		return err
	}

	if !looksLikeJar(body) {
		return &ValidationError{URL: jarURL}
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", destDir, err)
	}

	destPath := filepath.Join(destDir, jarName)
	if err := os.WriteFile(destPath, body, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	return nil
}

// looksLikeJar rejects small bodies carrying an HTML document marker.
// Some repositories serve their error pages with a 200 status.
func looksLikeJar(body []byte) bool {
	if len(body) >= errorPageThreshold {
		return true
	}
	return !bytes.Contains(bytes.ToLower(body), []byte("<html"))
}
