// Package engine reconciles the local bundle repository against the
// upstream registries. It combines the index reader's view of what is
// on disk, the configured desired state, the version resolver and the
// artifact fetcher into one classified result set per run. A single
// artifact failing never aborts the run.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/goss-platform/reposync/internal/config"
	"github.com/goss-platform/reposync/internal/index"
	"github.com/goss-platform/reposync/internal/maven"
	"github.com/goss-platform/reposync/internal/mavenver"
	"github.com/goss-platform/reposync/internal/ratelimit"
	"github.com/goss-platform/reposync/internal/registry"
)

// Resolver resolves latest versions across upstream sources.
type Resolver interface {
	Latest(ctx context.Context, coord maven.Coordinate) (*registry.Resolved, error)
	HubLatest(ctx context.Context, bundleName string) (string, error)
}

// Fetcher downloads artifact jars.
type Fetcher interface {
	Download(ctx context.Context, coord maven.Coordinate, version, destDir, repoURL string) error
	DownloadWithFallback(ctx context.Context, coord maven.Coordinate, version, destDir string, repos []maven.Repository) (string, error)
	DownloadFromHub(ctx context.Context, hubRawURL, bundleName, version, destDir string) error
}

// Engine orchestrates a reconciliation run. Construct with New; the
// configuration is treated as read-only.
type Engine struct {
	cfg      *config.Config
	resolver Resolver
	fetcher  Fetcher
	limit    *ratelimit.PerHost
	out      io.Writer

	mu        sync.Mutex
	destLocks map[string]*sync.Mutex
}

// New returns an engine writing progress lines to out. Pass io.Discard
// to silence it.
func New(cfg *config.Config, resolver Resolver, fetcher Fetcher, out io.Writer) *Engine {
	if out == nil {
		out = io.Discard
	}
	return &Engine{
		cfg:       cfg,
		resolver:  resolver,
		fetcher:   fetcher,
		limit:     ratelimit.NewPerHost(cfg.HostRPS),
		out:       out,
		destLocks: make(map[string]*sync.Mutex),
	}
}

func (e *Engine) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}

// destLock serializes fetches that would write the same destination
// file; concurrent workers must not interleave writes to one path.
func (e *Engine) destLock(path string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.destLocks[path]
	if !ok {
		l = &sync.Mutex{}
		e.destLocks[path] = l
	}
	return l
}

// workers returns the pool size, never below one.
func (e *Engine) workers() int {
	if e.cfg.Workers < 1 {
		return 1
	}
	return e.cfg.Workers
}

// ReconcileIndex classifies every index-derived bundle and downloads
// the ones that are behind their resolved upstream version. Each bundle
// yields exactly one outcome.
func (e *Engine) ReconcileIndex(ctx context.Context, latest map[string]index.Bundle) *Results {
	results := &Results{}
	var resultsMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for _, identity := range index.Identities(latest) {
		bundle := latest[identity]
		g.Go(func() error {
			outcome := e.reconcileBundle(gctx, bundle)
			resultsMu.Lock()
			results.add(outcome)
			resultsMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// reconcileBundle runs the per-bundle state machine: not mapped, local
// only, unavailable, up to date, or updated/error after a fetch.
func (e *Engine) reconcileBundle(ctx context.Context, bundle index.Bundle) Outcome {
	e.printf("Processing: %s\n", bundle.Identity)
	e.printf("  Local version: %s\n", bundle.Version)

	coord, mapped := e.cfg.Bundles[bundle.Identity]
	if !mapped {
		e.printf("  NOT MAPPED - no Maven coordinates defined\n")
		return Outcome{
			Kind:         KindNotMapped,
			Identity:     bundle.Identity,
			LocalVersion: bundle.Version,
			ContentURL:   bundle.ContentURL,
		}
	}
	if coord == nil {
		e.printf("  LOCAL/CUSTOM - not on Maven Central\n")
		return Outcome{
			Kind:         KindLocalOnly,
			Identity:     bundle.Identity,
			LocalVersion: bundle.Version,
			ContentURL:   bundle.ContentURL,
		}
	}

	e.printf("  Maven coordinates: %s\n", *coord)

	if err := e.limit.Wait(ctx, e.cfg.SearchURL); err != nil {
		return e.bundleError(bundle, *coord, err)
	}
	resolved, err := e.resolver.Latest(ctx, *coord)
	if err != nil {
		e.printf("  NOT FOUND on Maven Central\n")
		return Outcome{
			Kind:         KindUnavailable,
			Identity:     bundle.Identity,
			Coordinate:   *coord,
			LocalVersion: bundle.Version,
			ContentURL:   bundle.ContentURL,
		}
	}
	e.printf("  Maven latest: %s\n", resolved.Version)

	if mavenver.Compare(bundle.Version, resolved.Version) >= 0 {
		e.printf("  UP TO DATE\n")
		return Outcome{
			Kind:         KindUpToDate,
			Identity:     bundle.Identity,
			Coordinate:   *coord,
			LocalVersion: bundle.Version,
		}
	}

	e.printf("  NEEDS UPDATE: %s -> %s\n", bundle.Version, resolved.Version)

	destDir := filepath.Join(e.cfg.RepoDir, bundle.Folder())
	central := e.cfg.Repositories[0]

	lock := e.destLock(filepath.Join(destDir, coord.JarName(resolved.Version)))
	lock.Lock()
	defer lock.Unlock()

	if err := e.limit.Wait(ctx, central.URL); err != nil {
		return e.bundleError(bundle, *coord, err)
	}
	if err := e.fetcher.Download(ctx, *coord, resolved.Version, destDir, central.URL); err != nil {
		return Outcome{
			Kind:         KindError,
			Identity:     bundle.Identity,
			Coordinate:   *coord,
			LocalVersion: bundle.Version,
			Reason:       fmt.Sprintf("Failed to download %s", resolved.Version),
		}
	}

	e.printf("  Downloaded: %s\n", coord.JarName(resolved.Version))
	return Outcome{
		Kind:         KindUpdated,
		Identity:     bundle.Identity,
		Coordinate:   *coord,
		LocalVersion: bundle.Version,
		NewVersion:   resolved.Version,
		Source:       resolved.Source,
	}
}

func (e *Engine) bundleError(bundle index.Bundle, coord maven.Coordinate, err error) Outcome {
	return Outcome{
		Kind:         KindError,
		Identity:     bundle.Identity,
		Coordinate:   coord,
		LocalVersion: bundle.Version,
		Reason:       err.Error(),
	}
}

// DownloadAdditional processes the explicit desired-state list. With
// checkExisting set (sync mode) artifacts already on disk are reported
// as existing and no network call is made for them.
func (e *Engine) DownloadAdditional(ctx context.Context, checkExisting bool) *Results {
	results := &Results{}
	var resultsMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for _, dl := range e.cfg.Downloads {
		if dl.IsComment() || dl.GroupID == "" || dl.ArtifactID == "" {
			continue
		}
		dl := dl
		g.Go(func() error {
			outcome := e.downloadOne(gctx, dl, checkExisting)
			resultsMu.Lock()
			results.add(outcome)
			resultsMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (e *Engine) downloadOne(ctx context.Context, dl config.Download, checkExisting bool) Outcome {
	coord := dl.Coordinate()
	e.printf("Processing: %s\n", coord)

	if dl.Source == config.SourceBndHub {
		return e.downloadFromHub(ctx, dl, checkExisting)
	}

	version := dl.Version
	if version != "" {
		e.printf("  Pinned version: %s\n", version)
	} else {
		if err := e.limit.Wait(ctx, e.cfg.SearchURL); err != nil {
			return e.downloadError(dl, err.Error())
		}
		resolved, err := e.resolver.Latest(ctx, coord)
		if err != nil {
			e.printf("  NOT FOUND on Maven Central or mvnrepository\n")
			return e.downloadError(dl, "Not found on Maven Central or mvnrepository")
		}
		version = resolved.Version
		e.printf("  Latest version: %s\n", version)
	}

	destDir := filepath.Join(e.cfg.RepoDir, dl.DestFolder())
	destPath := filepath.Join(destDir, coord.JarName(version))

	lock := e.destLock(destPath)
	lock.Lock()
	defer lock.Unlock()

	if checkExisting {
		if _, err := os.Stat(destPath); err == nil {
			e.printf("  Already exists: %s\n", coord.JarName(version))
			return Outcome{
				Kind:       KindAlreadyExists,
				Coordinate: coord,
				NewVersion: version,
				Folder:     dl.DestFolder(),
			}
		}
	}

	var source string
	if dl.RepoURL != "" {
		// A custom repository is a single attempt; the fallback list is
		// deliberately not consulted when it fails.
		e.printf("  Using custom repository: %s\n", dl.RepoURL)
		if err := e.limit.Wait(ctx, dl.RepoURL); err != nil {
			return e.downloadError(dl, err.Error())
		}
		if err := e.fetcher.Download(ctx, coord, version, destDir, dl.RepoURL); err != nil {
			return e.downloadError(dl, fmt.Sprintf("Failed to download %s from %s", version, dl.RepoURL))
		}
		source = dl.RepoURL
	} else {
		central := e.cfg.Repositories[0]
		if err := e.limit.Wait(ctx, central.URL); err != nil {
			return e.downloadError(dl, err.Error())
		}
		if err := e.fetcher.Download(ctx, coord, version, destDir, central.URL); err == nil {
			source = central.Name
		} else {
			e.printf("  %s failed, trying other repositories...\n", central.Name)
			name, fallbackErr := e.fetcher.DownloadWithFallback(ctx, coord, version, destDir, e.cfg.Repositories)
			if fallbackErr != nil {
				return e.downloadError(dl, fmt.Sprintf("Failed to download %s from any repository", version))
			}
			source = name
		}
	}

	e.printf("  Downloaded: %s to %s/ from %s\n", coord.JarName(version), dl.DestFolder(), source)
	return Outcome{
		Kind:       KindUpdated,
		Coordinate: coord,
		NewVersion: version,
		Folder:     dl.DestFolder(),
		Source:     source,
	}
}

func (e *Engine) downloadFromHub(ctx context.Context, dl config.Download, checkExisting bool) Outcome {
	version := dl.Version
	if version == "" {
		version = config.DefaultHubVersion
	}
	e.printf("  Source: %s, version: %s\n", config.SourceBndHub, version)

	bundleName := dl.ArtifactID
	destDir := filepath.Join(e.cfg.RepoDir, dl.DestFolder())
	jarName := fmt.Sprintf("%s-%s.jar", bundleName, version)
	destPath := filepath.Join(destDir, jarName)

	lock := e.destLock(destPath)
	lock.Lock()
	defer lock.Unlock()

	if checkExisting {
		if _, err := os.Stat(destPath); err == nil {
			e.printf("  Already exists: %s\n", jarName)
			return Outcome{
				Kind:       KindAlreadyExists,
				Coordinate: dl.Coordinate(),
				NewVersion: version,
				Folder:     dl.DestFolder(),
			}
		}
	}

	if err := e.limit.Wait(ctx, e.cfg.HubRawURL); err != nil {
		return e.downloadError(dl, err.Error())
	}
	if err := e.fetcher.DownloadFromHub(ctx, e.cfg.HubRawURL, bundleName, version, destDir); err != nil {
		return e.downloadError(dl, "Failed to download from BND Hub")
	}

	e.printf("  Downloaded: %s to %s/\n", jarName, dl.DestFolder())
	return Outcome{
		Kind:       KindUpdated,
		Coordinate: dl.Coordinate(),
		NewVersion: version,
		Folder:     dl.DestFolder(),
		Source:     config.SourceBndHub,
	}
}

func (e *Engine) downloadError(dl config.Download, reason string) Outcome {
	return Outcome{
		Kind:       KindError,
		Coordinate: dl.Coordinate(),
		Folder:     dl.DestFolder(),
		Reason:     reason,
	}
}

// CheckUpdates classifies the desired-state list without downloading
// anything: which entries have a newer upstream version, which are up
// to date, which cannot be resolved.
func (e *Engine) CheckUpdates(ctx context.Context) *Results {
	results := &Results{}
	var resultsMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for _, dl := range e.cfg.Downloads {
		if dl.IsComment() || dl.GroupID == "" || dl.ArtifactID == "" {
			continue
		}
		dl := dl
		g.Go(func() error {
			outcome := e.checkOne(gctx, dl)
			resultsMu.Lock()
			results.add(outcome)
			resultsMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (e *Engine) checkOne(ctx context.Context, dl config.Download) Outcome {
	coord := dl.Coordinate()

	var latest string
	if dl.Source == config.SourceBndHub {
		if err := e.limit.Wait(ctx, e.cfg.HubAPIURL); err != nil {
			return e.downloadError(dl, err.Error())
		}
		v, err := e.resolver.HubLatest(ctx, dl.ArtifactID)
		if err != nil {
			return e.downloadError(dl, "Not found on BND Hub")
		}
		latest = v
	} else {
		if err := e.limit.Wait(ctx, e.cfg.SearchURL); err != nil {
			return e.downloadError(dl, err.Error())
		}
		resolved, err := e.resolver.Latest(ctx, coord)
		if err != nil {
			return e.downloadError(dl, "Not found")
		}
		latest = resolved.Version
	}

	if dl.Version == "" {
		return Outcome{
			Kind:         KindUpdated,
			Coordinate:   coord,
			LocalVersion: "unpinned",
			NewVersion:   latest,
			Folder:       dl.DestFolder(),
		}
	}

	if mavenver.Compare(dl.Version, latest) < 0 {
		return Outcome{
			Kind:         KindUpdated,
			Coordinate:   coord,
			LocalVersion: dl.Version,
			NewVersion:   latest,
			Folder:       dl.DestFolder(),
		}
	}

	return Outcome{
		Kind:         KindUpToDate,
		Coordinate:   coord,
		LocalVersion: dl.Version,
	}
}
