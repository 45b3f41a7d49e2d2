package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Generate reflects a JSON schema from v's type, using json struct tags and
// jsonschema tag hints. Nested types are inlined so the result is a single
// self-contained document.
func Generate(id string, v any) ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}

	s := r.Reflect(v)
	s.ID = jsonschema.ID(id)

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}
