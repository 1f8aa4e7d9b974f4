package key

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/secindex/internal/domain/value"
)

func TestComparatorLexicographic(t *testing.T) {
	cmp := NewComparator([]value.Kind{value.KindString, value.KindInt32})

	tests := []struct {
		name string
		a, b MultiKey
		want int
	}{
		{"equal", New(value.String("foo"), value.Int32(2)), New(value.String("foo"), value.Int32(2)), 0},
		{"first column decides", New(value.String("bar"), value.Int32(9)), New(value.String("foo"), value.Int32(1)), -1},
		{"second column decides", New(value.String("foo"), value.Int32(5)), New(value.String("foo"), value.Int32(2)), 1},
		{"prefix equals full", New(value.String("foo")), New(value.String("foo"), value.Int32(2)), 0},
		{"prefix orders", New(value.String("foz")), New(value.String("foo"), value.Int32(2)), 1},
		{"open upper bound", New(value.String("foo"), value.PosInf()), New(value.String("foo"), value.Int32(1 << 30)), 1},
		{"open lower bound", New(value.String("foo"), value.NegInf()), New(value.String("foo"), value.Int32(-1 << 30)), -1},
		{"null first", New(value.Null(), value.Int32(0)), New(value.String(""), value.Int32(0)), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, cmp.Compare(tt.a, tt.b), tt.want)
			assert.Equal(t, cmp.Compare(tt.b, tt.a), -tt.want)
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	vals := []value.Value{value.String("a"), value.Int64(1)}
	k := New(vals...)
	vals[0] = value.String("changed")
	assert.Equal(t, k[0].AsString(), "a")

	c := k.Clone()
	c[1] = value.Int64(2)
	assert.Equal(t, k[1].AsInt(), int64(1))
	assert.Equal(t, k.String(), `("a", 1)`)
}
