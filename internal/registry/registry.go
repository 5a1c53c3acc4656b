// Package registry resolves the latest published version of an artifact
// across the upstream sources: the Maven Central search API, the
// mvnrepository.com artifact browser as a scraping fallback, and the
// community bundle hub for OSGi specification jars.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/goss-platform/reposync/internal/httpget"
	"github.com/goss-platform/reposync/internal/maven"
	"github.com/goss-platform/reposync/internal/mavenver"
)

// ErrNotFound reports that no source knows the artifact. Callers treat
// it as a per-artifact outcome, never as a fatal error.
var ErrNotFound = errors.New("artifact not found in any source")

// browserUserAgent is sent to the artifact browser, which serves
// scraping-hostile pages to non-browser agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const (
	sourceCentral       = "Maven Central"
	sourceMvnRepository = "mvnrepository"
	sourceBndHub        = "BND Hub"
)

// Resolved is the outcome of a successful version lookup. Repositories
// is only populated by the scraping path, which infers where the
// artifact is hosted from the page markup.
type Resolved struct {
	Version      string
	Source       string
	Repositories []maven.Repository
	DirectURL    string
}

// Client queries the upstream sources. The zero value is not usable;
// construct with NewClient.
type Client struct {
	searchURL  string
	mvnRepoURL string
	hubAPIURL  string
}

// NewClient returns a resolver talking to the given endpoints.
func NewClient(searchURL, mvnRepoURL, hubAPIURL string) *Client {
	return &Client{
		searchURL:  searchURL,
		mvnRepoURL: mvnRepoURL,
		hubAPIURL:  hubAPIURL,
	}
}

// Latest resolves the newest published version of the coordinate. The
// search API is tried first; any transport error, malformed response or
// zero-match answer falls through to the scraping path. When both paths
// fail the error wraps ErrNotFound.
func (c *Client) Latest(ctx context.Context, coord maven.Coordinate) (*Resolved, error) {
	if resolved, err := c.searchLatest(ctx, coord); err == nil {
		return resolved, nil
	}

	if resolved, err := c.Scrape(ctx, coord, ""); err == nil {
		return resolved, nil
	}

	return nil, fmt.Errorf("%s: %w", coord, ErrNotFound)
}

type searchResponse struct {
	Response struct {
		NumFound int `json:"numFound"`
		Docs     []struct {
			LatestVersion string `json:"latestVersion"`
			V             string `json:"v"`
			G             string `json:"g"`
			A             string `json:"a"`
		} `json:"docs"`
	} `json:"response"`
}

// searchLatest queries the central search endpoint for an exact
// group+artifact match, requesting a single result.
func (c *Client) searchLatest(ctx context.Context, coord maven.Coordinate) (*Resolved, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("g:%q AND a:%q", coord.GroupID, coord.ArtifactID))
	query.Set("rows", "1")
	query.Set("wt", "json")

	body, err := httpget.Bytes(ctx, c.searchURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("malformed search response for %s: %w", coord, err)
	}
	if parsed.Response.NumFound == 0 || len(parsed.Response.Docs) == 0 {
		return nil, fmt.Errorf("%s: %w", coord, ErrNotFound)
	}

	doc := parsed.Response.Docs[0]
	version := doc.LatestVersion
	if version == "" {
		version = doc.V
	}
	if version == "" {
		return nil, fmt.Errorf("search response for %s carries no version: %w", coord, ErrNotFound)
	}

	return &Resolved{Version: version, Source: sourceCentral}, nil
}

// Scrape looks the coordinate up on the public artifact browser. With
// an empty version it parses the latest release version from the page;
// either way it infers which repositories host the artifact from known
// markers in the markup, defaulting to the central repository.
func (c *Client) Scrape(ctx context.Context, coord maven.Coordinate, version string) (*Resolved, error) {
	pageURL := fmt.Sprintf("%s/%s/%s", c.mvnRepoURL, coord.GroupID, coord.ArtifactID)
	if version != "" {
		pageURL += "/" + version
	}

	opts := httpget.DefaultOptions()
	opts.UserAgent = browserUserAgent

	body, err := httpget.Bytes(ctx, pageURL, opts)
	if err != nil {
		return nil, err
	}
	html := string(body)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("malformed artifact browser page for %s: %w", coord, err)
	}

	resolved := &Resolved{Version: version, Source: sourceMvnRepository}
	if resolved.Version == "" {
		resolved.Version = strings.TrimSpace(doc.Find("a.vbtn.release").First().Text())
		if resolved.Version == "" {
			return nil, fmt.Errorf("no release version on artifact browser page for %s: %w", coord, ErrNotFound)
		}
	}

	resolved.Repositories = inferRepositories(html)

	if href, ok := doc.Find(`a[href$=".jar"]`).First().Attr("href"); ok {
		resolved.DirectURL = href
	}

	return resolved, nil
}

// inferRepositories maps known repository markers in the page markup to
// candidate download repositories.
func inferRepositories(html string) []maven.Repository {
	var repos []maven.Repository
	if strings.Contains(html, "repo1.maven.org") || strings.Contains(html, "Maven Central") {
		repos = append(repos, maven.CentralRepository())
	}
	if strings.Contains(html, "repository.spring.io") || strings.Contains(html, "Spring") {
		repos = append(repos, maven.Repository{Name: "Spring", URL: "https://repo.spring.io/plugins-release"})
	}
	if strings.Contains(html, "repository.jboss.org") {
		repos = append(repos, maven.Repository{Name: "JBoss", URL: "https://repository.jboss.org/nexus/content/repositories/releases"})
	}
	if len(repos) == 0 {
		repos = []maven.Repository{maven.CentralRepository()}
	}
	return repos
}

type hubEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// HubLatest lists the bundle's directory on the bundle hub and returns
// the highest version found among files named <name>-<version>.jar.
func (c *Client) HubLatest(ctx context.Context, bundleName string) (string, error) {
	opts := httpget.DefaultOptions()
	opts.Headers = map[string]string{"Accept": "application/vnd.github.v3+json"}

	body, err := httpget.Bytes(ctx, c.hubAPIURL+"/"+bundleName, opts)
	if err != nil {
		return "", err
	}

	var entries []hubEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return "", fmt.Errorf("malformed hub listing for %s: %w", bundleName, err)
	}

	prefix := bundleName + "-"
	var versions []string
	for _, e := range entries {
		if e.Type != "file" || !strings.HasSuffix(e.Name, ".jar") {
			continue
		}
		if !strings.HasPrefix(e.Name, prefix) {
			continue
		}
		versions = append(versions, strings.TrimSuffix(strings.TrimPrefix(e.Name, prefix), ".jar"))
	}

	latest, ok := mavenver.Max(versions)
	if !ok {
		return "", fmt.Errorf("no jars for %s on hub: %w", bundleName, ErrNotFound)
	}
	return latest, nil
}
