// Package config loads the desired-state declaration (dependencies.json)
// and assembles the immutable configuration the reconciliation engine is
// constructed with. Nothing in here is mutated after Load returns.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/goss-platform/reposync/internal/maven"
	"github.com/goss-platform/reposync/internal/schemas"
)

//go:embed dependencies.schema.json
var dependenciesSchema []byte

// SourceBndHub is the source name selecting the community bundle hub
// instead of a Maven registry.
const SourceBndHub = "BND Hub"

// DefaultHubVersion is downloaded from the bundle hub when an entry does
// not pin a version.
const DefaultHubVersion = "4.3.0"

// Mapping is one bundles-table row of the declaration: either Maven
// coordinates or an explicit local marker.
type Mapping struct {
	GroupID    string `json:"groupId,omitempty"`
	ArtifactID string `json:"artifactId,omitempty"`
	Local      bool   `json:"local,omitempty"`
}

// Download is one additionalDownloads entry: an artifact that should be
// materialized regardless of what the index contains.
type Download struct {
	Comment    string `json:"_comment,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
	ArtifactID string `json:"artifactId,omitempty"`
	Folder     string `json:"folder,omitempty"`
	Version    string `json:"version,omitempty"` // pinned; empty means resolve latest
	Source     string `json:"source,omitempty"`
	RepoURL    string `json:"repoUrl,omitempty" validate:"omitempty,url"`
}

// IsComment reports whether the entry is a pure annotation placeholder
// that should be skipped without producing an outcome.
func (d Download) IsComment() bool {
	return d.Comment != "" && d.GroupID == ""
}

// Coordinate returns the entry's Maven coordinate.
func (d Download) Coordinate() maven.Coordinate {
	return maven.Coordinate{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

// DestFolder returns the destination folder, defaulting to "misc".
func (d Download) DestFolder() string {
	if d.Folder == "" {
		return "misc"
	}
	return d.Folder
}

// document is the raw shape of dependencies.json.
type document struct {
	Bundles             map[string]Mapping `json:"bundles"`
	AdditionalDownloads []Download         `json:"additionalDownloads"`
}

// Config is the assembled, immutable configuration. Bundles maps every
// known bundle identity to its Maven coordinate; a nil value marks an
// explicitly local artifact.
type Config struct {
	RepoRoot  string
	RepoDir   string
	IndexFile string
	BndJar    string
	IndexName string

	SearchURL  string
	MvnRepoURL string
	HubAPIURL  string
	HubRawURL  string

	Repositories []maven.Repository

	Bundles   map[string]*maven.Coordinate
	Downloads []Download

	// Workers bounds the per-artifact worker pool; 1 reproduces the
	// reference sequential behavior.
	Workers int
	// HostRPS caps the request rate against any single upstream host.
	HostRPS float64
}

// Defaults returns a Config for a repository rooted at root, with the
// standard endpoints and fallback repository order filled in.
func Defaults(root string) *Config {
	repoDir := filepath.Join(root, "dependencies")
	return &Config{
		RepoRoot:  root,
		RepoDir:   repoDir,
		IndexFile: filepath.Join(root, "index.xml"),
		BndJar:    filepath.Join(repoDir, "biz.aQute.bnd", "biz.aQute.bnd-7.1.0.jar"),
		IndexName: "GOSS Dependencies",

		SearchURL:  "https://search.maven.org/solrsearch/select",
		MvnRepoURL: "https://mvnrepository.com/artifact",
		HubAPIURL:  "https://api.github.com/repos/bndtools/bundle-hub/contents",
		HubRawURL:  "https://raw.githubusercontent.com/bndtools/bundle-hub/master",

		Repositories: maven.FallbackRepositories(),

		Workers: 1,
		HostRPS: 3,
	}
}

// Load reads and validates the declaration at path and returns the
// configuration for the repository rooted at root. A missing or
// unparseable declaration is a hard error; the run cannot proceed
// without it.
func Load(path, root string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	if err := schemas.ValidateBytes(dependenciesSchema, data); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration JSON: %w", err)
	}

	cfg := Defaults(root)

	cfg.Bundles = make(map[string]*maven.Coordinate, len(doc.Bundles))
	for identity, mapping := range doc.Bundles {
		if mapping.Local || mapping.GroupID == "" || mapping.ArtifactID == "" {
			cfg.Bundles[identity] = nil
			continue
		}
		cfg.Bundles[identity] = &maven.Coordinate{
			GroupID:    mapping.GroupID,
			ArtifactID: mapping.ArtifactID,
		}
	}
	cfg.Downloads = doc.AdditionalDownloads

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate applies the struct-level rules that the schema cannot
// express, such as URL syntax on custom repository entries.
func (c *Config) Validate() error {
	validate := validator.New()
	for i, d := range c.Downloads {
		if err := validate.Struct(d); err != nil {
			return fmt.Errorf("additionalDownloads[%d] (%s:%s): %w", i, d.GroupID, d.ArtifactID, err)
		}
	}
	return nil
}
