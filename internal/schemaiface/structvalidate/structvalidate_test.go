package structvalidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var personSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{"type": "string"},
		"age":  map[string]any{"type": "integer", "minimum": 0},
	},
	"required": []any{"name"},
}

func TestValidateAcceptsConformingValue(t *testing.T) {
	v := New()
	err := v.Validate(personSchema, map[string]any{"name": "ada", "age": 30})
	assert.NoError(t, err)
}

func TestValidateRejectsMissingRequired(t *testing.T) {
	v := New()
	err := v.Validate(personSchema, map[string]any{"age": 30})
	assert.Error(t, err)
}

func TestValidateRejectsWrongType(t *testing.T) {
	v := New()
	err := v.Validate(personSchema, map[string]any{"name": "ada", "age": "thirty"})
	assert.Error(t, err)
}

func TestValidatePropertyChecksSubschema(t *testing.T) {
	v := New()
	assert.Error(t, v.ValidateProperty(personSchema, []string{"age"}, -1))
	assert.NoError(t, v.ValidateProperty(personSchema, []string{"age"}, 5))
}

func TestValidatePropertyMissingPathFails(t *testing.T) {
	v := New()
	assert.Error(t, v.ValidateProperty(personSchema, []string{"nickname"}, "x"))
}

func TestCompileIsCachedAcrossCalls(t *testing.T) {
	v := New()
	require.NoError(t, v.Validate(personSchema, map[string]any{"name": "a"}))
	require.NoError(t, v.Validate(personSchema, map[string]any{"name": "b"}))
	assert.Len(t, v.compiled, 1)
}
