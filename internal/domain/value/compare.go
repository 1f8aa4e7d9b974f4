package value

import (
	"cmp"
	"strings"
)

// CompareFunc orders two values of one column
type CompareFunc func(a, b Value) int

// Compare orders a against b.
//
// Null is equal only to Null and sorts before everything else, including
// NegInf. PosInf sorts after everything and NegInf before every non-null
// value. Values of one kind compare by payload; values of different numeric
// kinds compare numerically.
func Compare(a, b Value) int {
	if c, done := compareSentinels(a, b); done {
		return c
	}
	if a.kind == b.kind {
		return comparePayload(a.kind, a, b)
	}
	return compareMixed(a, b)
}

// ComparatorFor returns the comparator for a declared column kind. It
// assumes values were cast to k on the way in and falls back to Compare
// when they were not.
func ComparatorFor(k Kind) CompareFunc {
	return func(a, b Value) int {
		if c, done := compareSentinels(a, b); done {
			return c
		}
		if a.kind == k && b.kind == k {
			return comparePayload(k, a, b)
		}
		return compareMixed(a, b)
	}
}

// Equal reports whether a and b compare as equal
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

func rank(v Value) int {
	switch v.kind {
	case KindNull:
		return -2
	case KindNegInf:
		return -1
	case KindPosInf:
		return 1
	}
	return 0
}

func compareSentinels(a, b Value) (int, bool) {
	ra, rb := rank(a), rank(b)
	if ra == 0 && rb == 0 {
		return 0, false
	}
	return cmp.Compare(ra, rb), true
}

func comparePayload(k Kind, a, b Value) int {
	switch k {
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindUint:
		return cmp.Compare(a.u, b.u)
	case KindFloat, KindDouble:
		return cmp.Compare(a.f, b.f)
	}
	return cmp.Compare(a.i, b.i)
}

func compareMixed(a, b Value) int {
	if !a.kind.IsNumeric() || !b.kind.IsNumeric() {
		// strings against numbers: order by kind so the result is total
		return cmp.Compare(a.kind, b.kind)
	}
	if a.kind.isFloating() || b.kind.isFloating() {
		return cmp.Compare(a.asFloat64(), b.asFloat64())
	}
	if a.kind == KindUint || b.kind == KindUint {
		ai, aok := a.signed()
		bi, bok := b.signed()
		switch {
		case aok && bok:
			return cmp.Compare(ai, bi)
		case !aok:
			return 1 // a is a uint beyond MaxInt64
		default:
			return -1
		}
	}
	return cmp.Compare(a.i, b.i)
}
