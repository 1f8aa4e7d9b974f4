package value

import (
	"fmt"
	"strings"
)

// Kind identifies the type of a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt32
	KindInt64
	KindUint
	KindBool
	KindFloat
	KindDouble
	KindTime

	// Query-only sentinels. They bound open-ended ranges and are never stored.
	KindPosInf
	KindNegInf
)

var kindNames = map[Kind]string{
	KindNull:   "NULL",
	KindString: "STRING",
	KindInt32:  "INT32",
	KindInt64:  "INT64",
	KindUint:   "UINT",
	KindBool:   "BOOL",
	KindFloat:  "FLOAT",
	KindDouble: "DOUBLE",
	KindTime:   "TIME",
	KindPosInf: "+INF",
	KindNegInf: "-INF",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Storable reports whether k can be declared as an index column type
func (k Kind) Storable() bool {
	return k >= KindString && k <= KindTime
}

// IsNumeric reports whether k belongs to one of the numeric families
// (integers, time, bool, floating point)
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt32, KindInt64, KindUint, KindBool, KindFloat, KindDouble, KindTime:
		return true
	}
	return false
}

func (k Kind) isFloating() bool {
	return k == KindFloat || k == KindDouble
}

// ParseKind parses a column type name (STRING, INT32, INT64, UINT, BOOL,
// FLOAT, DOUBLE, TIME), case-insensitively
func ParseKind(name string) (Kind, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for k := KindString; k <= KindTime; k++ {
		if kindNames[k] == upper {
			return k, nil
		}
	}
	return KindNull, fmt.Errorf("unknown column type %q", name)
}
