package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleIndex = `<?xml version="1.0" encoding="UTF-8"?>
<repository xmlns="http://www.osgi.org/xmlns/repository/v1.0.0" name="GOSS Dependencies" increment="1">
  <resource>
    <capability namespace="osgi.identity">
      <attribute name="osgi.identity" value="org.apache.felix.scr"/>
      <attribute name="version" value="2.2.0"/>
      <attribute name="type" value="osgi.bundle"/>
    </capability>
    <capability namespace="osgi.content">
      <attribute name="url" value="scr/org.apache.felix.scr-2.2.0.jar"/>
    </capability>
  </resource>
  <resource>
    <capability namespace="osgi.identity">
      <attribute name="osgi.identity" value="org.apache.felix.scr"/>
      <attribute name="version" value="2.2.6"/>
      <attribute name="type" value="osgi.bundle"/>
    </capability>
    <capability namespace="osgi.content">
      <attribute name="url" value="scr/org.apache.felix.scr-2.2.6.jar"/>
    </capability>
  </resource>
  <resource>
    <capability namespace="osgi.identity">
      <attribute name="osgi.identity" value="com.example.nocontent"/>
      <attribute name="version" value="1.0.0"/>
    </capability>
  </resource>
  <resource>
    <capability namespace="osgi.identity">
      <attribute name="osgi.identity" value="com.example.noversion"/>
    </capability>
    <capability namespace="osgi.content">
      <attribute name="url" value="misc/whatever.jar"/>
    </capability>
  </resource>
</repository>`

func TestParse(t *testing.T) {
	bundles, err := Parse(strings.NewReader(sampleIndex))
	require.NoError(t, err)

	// The version-less resource is dropped; the content-less one is
	// kept since identity and version are both present.
	require.Len(t, bundles, 3)
	assert.Equal(t, "org.apache.felix.scr", bundles[0].Identity)
	assert.Equal(t, "2.2.0", bundles[0].Version)
	assert.Equal(t, "scr/org.apache.felix.scr-2.2.0.jar", bundles[0].ContentURL)
	assert.Equal(t, "osgi.bundle", bundles[0].Type)
	assert.Equal(t, "com.example.nocontent", bundles[2].Identity)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader("<repository><resource>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse repository index")
}

func TestLatest_KeepsHighestVersion(t *testing.T) {
	bundles, err := Parse(strings.NewReader(sampleIndex))
	require.NoError(t, err)

	latest := Latest(bundles)
	require.Len(t, latest, 2)
	assert.Equal(t, "2.2.6", latest["org.apache.felix.scr"].Version)
}

func TestLatest_NumericThenRawTieBreak(t *testing.T) {
	latest := Latest([]Bundle{
		{Identity: "x", Version: "1.2.0"},
		{Identity: "x", Version: "1.10.0"},
		{Identity: "y", Version: "1.0"},
		{Identity: "y", Version: "1.0-RELEASE"},
	})
	assert.Equal(t, "1.10.0", latest["x"].Version)
	// 1.0 and 1.0-RELEASE compare equal under normalization; the
	// lexicographically higher raw string wins.
	assert.Equal(t, "1.0-RELEASE", latest["y"].Version)
}

func TestBundle_Folder(t *testing.T) {
	b := Bundle{ContentURL: "logging/slf4j-api-2.0.9.jar"}
	assert.Equal(t, "logging", b.Folder())
}

func TestIdentities_Sorted(t *testing.T) {
	latest := map[string]Bundle{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, Identities(latest))
}
