package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// validator compiles each Schema once and checks replies against it.
type validator struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

var schemas = newValidator()

func newValidator() *validator {
	return &validator{compiled: make(map[string]*jsonschema.Schema)}
}

// check returns nil when s is nil or raw satisfies it, and an
// *ErrInvalidResponse otherwise.
func (v *validator) check(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("reply is not JSON: %w", err)}
	}
	sch, err := v.lookup(s)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("reply does not match %s: %w", s.Name, err)}
	}
	return nil
}

func (v *validator) lookup(s *Schema) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if sch, ok := v.compiled[s.Name]; ok {
		return sch, nil
	}

	// Round-trip through JSON so numbers arrive as json.Number, which is
	// what the compiler expects.
	def, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode schema %s: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", s.Name, err)
	}

	url := "phasa://schemas/" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}
	v.compiled[s.Name] = sch
	return sch, nil
}
