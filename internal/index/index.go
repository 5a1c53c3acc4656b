// Package index reads the OSGi repository index document and reduces it
// to the per-bundle view the reconciliation engine works with.
package index

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/goss-platform/reposync/internal/mavenver"
)

// Namespace is the OSGi repository XML namespace the index uses.
const Namespace = "http://www.osgi.org/xmlns/repository/v1.0.0"

const (
	identityNamespace = "osgi.identity"
	contentNamespace  = "osgi.content"
)

// Bundle is one resource parsed from the index: the bundle's symbolic
// name, its version and where its content lives.
type Bundle struct {
	Identity   string
	Version    string
	ContentURL string
	Type       string
}

// Folder returns the first path segment of the bundle's content URL,
// the folder the artifact lives in under the repository directory.
func (b Bundle) Folder() string {
	parts := strings.Split(b.ContentURL, "/")
	return parts[0]
}

type xmlRepository struct {
	XMLName   xml.Name      `xml:"http://www.osgi.org/xmlns/repository/v1.0.0 repository"`
	Resources []xmlResource `xml:"http://www.osgi.org/xmlns/repository/v1.0.0 resource"`
}

type xmlResource struct {
	Capabilities []xmlCapability `xml:"http://www.osgi.org/xmlns/repository/v1.0.0 capability"`
}

type xmlCapability struct {
	Namespace  string         `xml:"namespace,attr"`
	Attributes []xmlAttribute `xml:"http://www.osgi.org/xmlns/repository/v1.0.0 attribute"`
}

type xmlAttribute struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Parse reads the repository descriptor and returns one Bundle per
// resource. Resources missing either identity or version are silently
// dropped; they cannot be reconciled and are not worth reporting.
func Parse(r io.Reader) ([]Bundle, error) {
	var doc xmlRepository
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse repository index: %w", err)
	}

	bundles := make([]Bundle, 0, len(doc.Resources))
	for _, res := range doc.Resources {
		var b Bundle
		for _, capability := range res.Capabilities {
			switch capability.Namespace {
			case identityNamespace:
				for _, attr := range capability.Attributes {
					switch attr.Name {
					case "osgi.identity":
						b.Identity = attr.Value
					case "version":
						b.Version = attr.Value
					case "type":
						b.Type = attr.Value
					}
				}
			case contentNamespace:
				for _, attr := range capability.Attributes {
					if attr.Name == "url" {
						b.ContentURL = attr.Value
					}
				}
			}
		}
		if b.Identity != "" && b.Version != "" {
			bundles = append(bundles, b)
		}
	}

	return bundles, nil
}

// ParseFile reads and parses the index document at path.
func ParseFile(path string) ([]Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Latest collapses the parsed bundles to the highest version per
// identity. Versions that compare equal fall back to the raw string,
// higher string wins.
func Latest(bundles []Bundle) map[string]Bundle {
	latest := make(map[string]Bundle)
	for _, b := range bundles {
		cur, ok := latest[b.Identity]
		if !ok {
			latest[b.Identity] = b
			continue
		}
		c := mavenver.Compare(b.Version, cur.Version)
		if c > 0 || (c == 0 && b.Version > cur.Version) {
			latest[b.Identity] = b
		}
	}
	return latest
}

// Identities returns the map keys in sorted order so iteration is
// deterministic.
func Identities(latest map[string]Bundle) []string {
	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
