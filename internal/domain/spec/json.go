package spec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/leengari/secindex/internal/domain/value"
)

// definitionSchema validates index definitions supplied as JSON
const definitionSchema = `{
  "type": "object",
  "required": ["properties"],
  "additionalProperties": false,
  "properties": {
    "unique": {"type": "boolean"},
    "properties": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["type"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var compiledSchema *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(definitionSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid index definition schema: %v", err))
	}
	compiledSchema = schema
}

// Definition is the JSON form of a Spec
type Definition struct {
	Unique     bool                 `json:"unique,omitempty"`
	Properties []PropertyDefinition `json:"properties"`
}

type PropertyDefinition struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

// FromJSON validates data against the definition schema and builds a Spec
func FromJSON(data []byte) (*Spec, error) {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("index definition validation error: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return nil, fmt.Errorf("index definition invalid: %s", strings.Join(errs, "; "))
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to decode index definition: %w", err)
	}
	return def.Spec()
}

// Spec converts the definition
func (d Definition) Spec() (*Spec, error) {
	props := make([]Property, len(d.Properties))
	for i, p := range d.Properties {
		kind, err := value.ParseKind(p.Type)
		if err != nil {
			return nil, fmt.Errorf("property %d: %w", i+1, err)
		}
		props[i] = Property{Name: p.Name, Type: kind}
	}
	var flags Flags
	if d.Unique {
		flags |= Unique
	}
	return New(flags, props...)
}

// Definition returns the JSON form of s
func (s *Spec) Definition() Definition {
	def := Definition{Unique: s.IsUnique()}
	for _, p := range s.props {
		def.Properties = append(def.Properties, PropertyDefinition{Name: p.Name, Type: p.Type.String()})
	}
	return def
}

func (s *Spec) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Definition())
}
