package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["bundles"],
	"properties": {
		"bundles": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"properties": {
					"groupId": {"type": "string"},
					"artifactId": {"type": "string"},
					"local": {"type": "boolean"}
				}
			}
		}
	}
}`

func TestValidateBytes_Valid(t *testing.T) {
	doc := `{"bundles": {"org.example.bundle": {"groupId": "org.example", "artifactId": "bundle"}}}`
	err := ValidateBytes([]byte(testSchema), []byte(doc))
	assert.NoError(t, err)
}

func TestValidateBytes_MissingRequiredField(t *testing.T) {
	err := ValidateBytes([]byte(testSchema), []byte(`{}`))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 1)
	assert.Contains(t, ve.Errors[0].Message, "bundles")
}

func TestValidateBytes_WrongType(t *testing.T) {
	doc := `{"bundles": {"x": {"local": "yes"}}}`
	err := ValidateBytes([]byte(testSchema), []byte(doc))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateBytes_BrokenSchema(t *testing.T) {
	err := ValidateBytes([]byte(`{"type": "no-such-type"}`), []byte(`{}`))
	require.Error(t, err)

	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}
