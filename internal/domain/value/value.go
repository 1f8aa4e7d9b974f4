package value

import (
	"math"
	"strconv"
	"time"
)

// Value is a tagged scalar. The zero Value is Null.
type Value struct {
	kind Kind
	s    string
	i    int64 // Int32, Int64, Bool (0/1), Time (unix seconds)
	u    uint64
	f    float64 // Float, Double
}

func Null() Value { return Value{} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Int32(i int32) Value { return Value{kind: KindInt32, i: int64(i)} }
func Int64(i int64) Value { return Value{kind: KindInt64, i: i} }
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }
func Float(f float32) Value { return Value{kind: KindFloat, f: float64(f)} }
func Double(f float64) Value { return Value{kind: KindDouble, f: f} }

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

// Time stores t with second precision
func Time(t time.Time) Value { return Unix(t.Unix()) }

// Unix builds a Time value from seconds since the epoch
func Unix(sec int64) Value { return Value{kind: KindTime, i: sec} }

// PosInf is greater than every stored value
func PosInf() Value { return Value{kind: KindPosInf} }

// NegInf is less than every stored non-null value
func NegInf() Value { return Value{kind: KindNegInf} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsInf() bool { return v.kind == KindPosInf || v.kind == KindNegInf }
func (v Value) AsString() string { return v.s }
func (v Value) AsInt() int64 { return v.i }
func (v Value) AsUint() uint64 { return v.u }
func (v Value) AsFloat() float64 { return v.f }
func (v Value) AsBool() bool { return v.i != 0 }

func (v Value) AsTime() time.Time {
	return time.Unix(v.i, 0).UTC()
}

// String renders v in the text form accepted by Parse for the same kind
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindString:
		return v.s
	case KindInt32, KindInt64, KindTime:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindBool:
		return strconv.FormatBool(v.i != 0)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindPosInf:
		return "+inf"
	case KindNegInf:
		return "-inf"
	}
	return "?"
}

// GoString quotes strings so they are distinguishable from numbers in
// plan output and test failures
func (v Value) GoString() string {
	if v.kind == KindString {
		return strconv.Quote(v.s)
	}
	return v.String()
}

// asFloat64 widens any numeric payload
func (v Value) asFloat64() float64 {
	switch v.kind {
	case KindFloat, KindDouble:
		return v.f
	case KindUint:
		return float64(v.u)
	}
	return float64(v.i)
}

// signed reports the payload as int64 and whether that is exact
func (v Value) signed() (int64, bool) {
	switch v.kind {
	case KindUint:
		if v.u > math.MaxInt64 {
			return 0, false
		}
		return int64(v.u), true
	case KindFloat, KindDouble:
		return int64(v.f), false
	}
	return v.i, true
}
