package spec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/leengari/secindex/internal/domain/value"
)

// Flags are index-level options
type Flags uint32

const (
	// Unique allows at most one id per distinct key
	Unique Flags = 1 << iota
	// Named lets predicates reference columns by name
	Named
)

// Property is one indexed column
type Property struct {
	Name string     // empty for positional indexes
	Type value.Kind // declared column type
}

// Spec describes the columns of one compound index. It is immutable after New.
type Spec struct {
	props []Property
	flags Flags
}

// New validates the properties and builds a Spec. The Named flag is set
// automatically when the properties carry names; names must then be present
// on every column and unique case-insensitively.
func New(flags Flags, props ...Property) (*Spec, error) {
	if len(props) == 0 {
		return nil, fmt.Errorf("index spec needs at least one property")
	}

	named := 0
	seen := make(map[string]bool, len(props))
	for i, p := range props {
		if !p.Type.Storable() {
			return nil, fmt.Errorf("property %d: invalid column type %s", i+1, p.Type)
		}
		if p.Name == "" {
			continue
		}
		named++
		lower := strings.ToLower(p.Name)
		if seen[lower] {
			return nil, fmt.Errorf("duplicate property name %q", p.Name)
		}
		seen[lower] = true
	}

	switch {
	case named == len(props):
		flags |= Named
	case named == 0:
		if flags&Named != 0 {
			return nil, fmt.Errorf("named index requires property names")
		}
	default:
		return nil, fmt.Errorf("either all properties are named or none are")
	}

	owned := make([]Property, len(props))
	copy(owned, props)
	return &Spec{props: owned, flags: flags}, nil
}

func (s *Spec) NumProps() int { return len(s.props) }
func (s *Spec) Flags() Flags { return s.flags }
func (s *Spec) IsUnique() bool { return s.flags&Unique != 0 }
func (s *Spec) IsNamed() bool { return s.flags&Named != 0 }

// Property returns the i-th (0-based) property
func (s *Spec) Property(i int) Property {
	return s.props[i]
}

// Properties returns a copy of the column list
func (s *Spec) Properties() []Property {
	out := make([]Property, len(s.props))
	copy(out, s.props)
	return out
}

// Kinds returns the declared column types in order
func (s *Spec) Kinds() []value.Kind {
	kinds := make([]value.Kind, len(s.props))
	for i, p := range s.props {
		kinds[i] = p.Type
	}
	return kinds
}

// PropertyByName looks a column up case-insensitively and returns its ordinal
func (s *Spec) PropertyByName(name string) (int, bool) {
	for i, p := range s.props {
		if p.Name != "" && strings.EqualFold(p.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// String renders the spec the way CREATE INDEX accepts it
func (s *Spec) String() string {
	var out bytes.Buffer
	if s.IsUnique() {
		out.WriteString("UNIQUE ")
	}
	out.WriteString("(")
	for i, p := range s.props {
		if i > 0 {
			out.WriteString(", ")
		}
		if p.Name != "" {
			out.WriteString(p.Name)
			out.WriteString(" ")
		}
		out.WriteString(p.Type.String())
	}
	out.WriteString(")")
	return out.String()
}
