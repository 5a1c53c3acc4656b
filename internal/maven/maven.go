// Package maven provides the shared identity types for artifacts in an
// upstream Maven-style registry.
package maven

import "fmt"

// Coordinate identifies an artifact by group and artifact id. It is
// opaque to the rest of the pipeline and immutable once constructed.
type Coordinate struct {
	GroupID    string
	ArtifactID string
}

func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID
}

// JarName returns the conventional jar filename for a version of this
// artifact.
func (c Coordinate) JarName(version string) string {
	return fmt.Sprintf("%s-%s.jar", c.ArtifactID, version)
}

// Repository is one remote repository artifacts can be downloaded from.
type Repository struct {
	Name string
	URL  string
}

// CentralRepository is the registry's own download repository, used as
// the default when nothing more specific is known.
func CentralRepository() Repository {
	return Repository{Name: "Maven Central", URL: "https://repo1.maven.org/maven2"}
}

// FallbackRepositories returns the ordered list of repositories tried
// when a download from the default repository fails.
func FallbackRepositories() []Repository {
	return []Repository{
		CentralRepository(),
		{Name: "Spring Plugins", URL: "https://repo.spring.io/plugins-release"},
		{Name: "Spring Libs", URL: "https://repo.spring.io/libs-release"},
		{Name: "JBoss", URL: "https://repository.jboss.org/nexus/content/repositories/releases"},
		{Name: "Sonatype", URL: "https://oss.sonatype.org/content/repositories/releases"},
	}
}
