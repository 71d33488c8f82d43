// Package structvalidate is a santhosh-tekuri/jsonschema-backed reference
// implementation of schemaiface.Validator.
package structvalidate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"reactor/internal/schemaiface"
)

// Validator compiles and caches jsonschema.Schema values keyed by their
// marshalled form, since the common caller pattern (configiface.Config's
// per-top-level-key parser) validates against the same schema on every
// mutation.
type Validator struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
	next     int
}

// New constructs an empty Validator.
func New() *Validator {
	return &Validator{compiled: make(map[string]*jsonschema.Schema)}
}

var _ schemaiface.Validator = (*Validator)(nil)

// Validate implements schemaiface.Validator.
func (v *Validator) Validate(schema any, value any) error {
	sch, err := v.compile(schema)
	if err != nil {
		return err
	}
	inst, err := toInstance(value)
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("structvalidate: %w", err)
	}
	return nil
}

// ValidateProperty implements schemaiface.Validator.
func (v *Validator) ValidateProperty(schema any, path []string, value any) error {
	sub, err := walkProperties(schema, path)
	if err != nil {
		return err
	}
	return v.Validate(sub, value)
}

func (v *Validator) compile(schema any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("structvalidate: marshalling schema: %w", err)
	}
	key := string(raw)

	v.mu.Lock()
	defer v.mu.Unlock()
	if sch, ok := v.compiled[key]; ok {
		return sch, nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("structvalidate: decoding schema: %w", err)
	}

	url := fmt.Sprintf("mem://structvalidate/%d", v.next)
	v.next++

	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("structvalidate: adding schema resource: %w", err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("structvalidate: compiling schema: %w", err)
	}
	v.compiled[key] = sch
	return sch, nil
}

func toInstance(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("structvalidate: marshalling value: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("structvalidate: decoding value: %w", err)
	}
	return inst, nil
}

// walkProperties descends schema's "properties" map along path and
// returns the subschema found there.
func walkProperties(schema any, path []string) (any, error) {
	node := schema
	for _, part := range path {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("structvalidate: %s: not an object schema", strings.Join(path, "."))
		}
		props, ok := m["properties"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("structvalidate: %s: schema has no properties", strings.Join(path, "."))
		}
		next, ok := props[part]
		if !ok {
			return nil, fmt.Errorf("structvalidate: %s: no subschema for %q", strings.Join(path, "."), part)
		}
		node = next
	}
	return node, nil
}
