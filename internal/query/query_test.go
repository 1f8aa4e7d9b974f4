package query

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
)

func namedSpec(t *testing.T) *spec.Spec {
	t.Helper()
	sp, err := spec.New(0,
		spec.Property{Name: "name", Type: value.KindString},
		spec.Property{Name: "age", Type: value.KindInt32},
	)
	assert.NilError(t, err)
	return sp
}

func TestNormalizeResolvesAndCasts(t *testing.T) {
	sp := namedSpec(t)
	q := New(NewAnd(
		Equals(Name("NAME"), value.String("foo")),
		LessThan(Name("age"), value.Int64(10)),
	))

	assert.NilError(t, Normalize(q, sp))

	root := q.Root.(*LogicNode)
	left := root.Left.(*PredicateNode)
	right := root.Right.(*PredicateNode)

	i, ok := left.Pred.Column.Ordinal()
	assert.Assert(t, ok)
	assert.Equal(t, i, 0)

	i, ok = right.Pred.Column.Ordinal()
	assert.Assert(t, ok)
	assert.Equal(t, i, 1)
	assert.Equal(t, right.Pred.Max.Kind(), value.KindInt32)
	assert.Equal(t, right.Pred.Min.Kind(), value.KindNegInf)

	_, shared := root.SharedColumn()
	assert.Assert(t, !shared)
}

func TestNormalizeStringLiteralToNumber(t *testing.T) {
	sp := namedSpec(t)
	q := New(InValues(Ordinal(1), value.String("4"), value.Double(5.9)))

	assert.NilError(t, Normalize(q, sp))
	pred := q.Root.(*PredicateNode).Pred
	assert.Equal(t, len(pred.Values), 2)
	assert.Equal(t, pred.Values[0], value.Int32(4))
	assert.Equal(t, pred.Values[1], value.Int32(5))
}

func TestNormalizeTruncatesFloatOnIntegerColumn(t *testing.T) {
	sp := namedSpec(t)
	q := New(LessThan(Name("age"), value.Double(9.5)))

	assert.NilError(t, Normalize(q, sp))
	pred := q.Root.(*PredicateNode).Pred
	assert.Equal(t, pred.Max, value.Int32(9))
	assert.Assert(t, pred.MaxExclusive)

	// the bound is now 9 exclusive, so age = 9 no longer matches
	cmp := key.NewComparator(sp.Kinds())
	assert.Assert(t, !Eval(q.Root, key.New(value.String("x"), value.Int32(9)), cmp))
	assert.Assert(t, Eval(q.Root, key.New(value.String("x"), value.Int32(8)), cmp))
}

func TestNormalizeErrors(t *testing.T) {
	sp := namedSpec(t)
	positional, err := spec.New(0, spec.Property{Type: value.KindInt32})
	assert.NilError(t, err)

	tests := []struct {
		name    string
		sp      *spec.Spec
		root    Node
		wantErr error
	}{
		{"ordinal out of range", sp, Equals(Ordinal(2), value.Int32(1)), ErrInvalidProperty},
		{"negative ordinal", sp, Equals(Ordinal(-1), value.Int32(1)), ErrInvalidProperty},
		{"unknown name", sp, Equals(Name("height"), value.Int32(1)), ErrInvalidProperty},
		{"name on positional index", positional, Equals(Name("a"), value.Int32(1)), ErrInvalidProperty},
		{"uncastable literal", sp, Equals(Name("age"), value.String("old")), ErrInvalidValue},
		{"overflow", sp, GreaterThan(Name("age"), value.Int64(1 << 40)), ErrInvalidValue},
		{"bad member deep in tree", sp, NewOr(
			Equals(Name("name"), value.String("foo")),
			NewAnd(Passthrough{}, InValues(Name("age"), value.Int32(1), value.String("x"))),
		), ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Normalize(New(tt.root), tt.sp)
			assert.ErrorIs(t, err, tt.wantErr)

			var qerr *Error
			assert.Assert(t, errors.As(err, &qerr))
			assert.Assert(t, qerr.Column != "")
		})
	}
}

func TestSharedColumnAnnotation(t *testing.T) {
	sp := namedSpec(t)

	sameCol := NewOr(
		Equals(Ordinal(1), value.Int32(1)),
		NewAnd(Passthrough{}, Equals(Ordinal(1), value.Int32(2))),
	)
	assert.NilError(t, Normalize(New(sameCol), sp))

	col, ok := sameCol.SharedColumn()
	assert.Assert(t, ok)
	assert.Equal(t, col, 1)

	inner := sameCol.Right.(*LogicNode)
	col, ok = inner.SharedColumn()
	assert.Assert(t, ok)
	assert.Equal(t, col, 1)

	onlyPassthrough := NewAnd(Passthrough{}, Passthrough{})
	mixed := NewAnd(onlyPassthrough, NewOr(Equals(Ordinal(0), value.String("a")), Equals(Ordinal(1), value.Int32(1))))
	assert.NilError(t, Normalize(New(mixed), sp))

	_, ok = onlyPassthrough.SharedColumn()
	assert.Assert(t, !ok)
	_, ok = mixed.SharedColumn()
	assert.Assert(t, !ok)
}

func TestEval(t *testing.T) {
	cmp := key.NewComparator([]value.Kind{value.KindString, value.KindInt32})
	foo2 := key.New(value.String("foo"), value.Int32(2))
	null5 := key.New(value.Null(), value.Int32(5))

	tests := []struct {
		name string
		node Node
		k    key.MultiKey
		want bool
	}{
		{"eq", Equals(Ordinal(0), value.String("foo")), foo2, true},
		{"ne", NotEquals(Ordinal(0), value.String("foo")), foo2, false},
		{"range inside", Between(Ordinal(1), value.Int32(2), value.Int32(4), false, false), foo2, true},
		{"range exclusive low", Between(Ordinal(1), value.Int32(2), value.Int32(4), true, false), foo2, false},
		{"less than", LessThan(Ordinal(1), value.Int32(2)), foo2, false},
		{"less or equal", LessOrEqual(Ordinal(1), value.Int32(2)), foo2, true},
		{"prefix", PrefixOf(Ordinal(0), "fo"), foo2, true},
		{"in membership", InValues(Ordinal(1), value.Int32(7), value.Int32(2)), foo2, true},
		{"in miss", InValues(Ordinal(1), value.Int32(7), value.Int32(8)), foo2, false},
		{"in empty", InValues(Ordinal(1)), foo2, false},
		{"is null", NullCheck(Ordinal(0)), null5, true},
		{"is null on value", NullCheck(Ordinal(0)), foo2, false},
		{"range excludes null", LessOrEqual(Ordinal(0), value.String("zzz")), null5, false},
		{"ordinal beyond key", Equals(Ordinal(5), value.Int32(1)), foo2, false},
		{"or", NewOr(Equals(Ordinal(1), value.Int32(9)), Equals(Ordinal(1), value.Int32(2))), foo2, true},
		{"and", NewAnd(Equals(Ordinal(0), value.String("foo")), Equals(Ordinal(1), value.Int32(3))), foo2, false},
		{"passthrough", Passthrough{}, foo2, true},
		{"nil tree", nil, foo2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Eval(tt.node, tt.k, cmp), tt.want)
		})
	}
}

func TestQueryStringAndCount(t *testing.T) {
	q := New(AllOf(
		Equals(Name("name"), value.String("foo")),
		InValues(Ordinal(1), value.Int32(1), value.Int32(2)),
		GreaterThan(Ordinal(1), value.Int32(0)),
	))

	assert.Equal(t, q.NumPredicates(), 3)
	assert.Equal(t, q.String(), `((name = "foo" AND $2 IN (1, 2)) AND $2 IN RANGE (0, +inf])`)

	assert.Equal(t, New(Passthrough{}).NumPredicates(), 0)
	assert.Equal(t, (*Query)(nil).NumPredicates(), 0)
	assert.Assert(t, AnyOf() == nil)
}
