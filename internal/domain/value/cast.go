package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrCast is wrapped by every Cast and Parse failure
var ErrCast = errors.New("cannot cast value")

// Parse reads text as a value of kind k. It accepts what String produces,
// plus RFC 3339 timestamps for TIME and the usual spellings of booleans.
// The literal NULL (any case) parses to Null for every kind except STRING.
func Parse(k Kind, text string) (Value, error) {
	if k != KindString && strings.EqualFold(text, "null") {
		return Null(), nil
	}
	switch k {
	case KindString:
		return String(text), nil
	case KindInt32:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return Value{}, parseErr(k, text, err)
		}
		return Int32(int32(i)), nil
	case KindInt64:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, parseErr(k, text, err)
		}
		return Int64(i), nil
	case KindUint:
		u, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, parseErr(k, text, err)
		}
		return Uint(u), nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Value{}, parseErr(k, text, err)
		}
		return Bool(b), nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
		if err != nil {
			return Value{}, parseErr(k, text, err)
		}
		return Float(float32(f)), nil
	case KindDouble:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Value{}, parseErr(k, text, err)
		}
		return Double(f), nil
	case KindTime:
		return parseTime(text)
	}
	return Value{}, fmt.Errorf("%w: %s is not a column type", ErrCast, k)
}

func parseTime(text string) (Value, error) {
	text = strings.TrimSpace(text)
	if sec, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Unix(sec), nil
	}
	t, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return Value{}, parseErr(KindTime, text, err)
	}
	return Time(t), nil
}

func parseErr(k Kind, text string, err error) error {
	return fmt.Errorf("%w: parse %q as %s: %v", ErrCast, text, k, err)
}

// Cast converts v to kind k. Null and the infinity sentinels pass through
// unchanged. Numeric kinds convert across each other with range checks,
// strings are parsed, and numbers format into strings.
func Cast(v Value, k Kind) (Value, error) {
	if v.kind == k || v.kind == KindNull || v.IsInf() {
		return v, nil
	}
	if v.kind == KindString {
		return Parse(k, v.s)
	}
	if k == KindString {
		return String(v.String()), nil
	}
	if !v.kind.IsNumeric() || !k.IsNumeric() {
		return Value{}, castErr(v, k)
	}

	switch k {
	case KindFloat:
		return Float(float32(v.asFloat64())), nil
	case KindDouble:
		return Double(v.asFloat64()), nil
	case KindBool:
		if v.kind.isFloating() {
			return Bool(v.f != 0), nil
		}
		return Bool(v.i != 0 || v.u != 0), nil
	case KindUint:
		return toUint(v)
	}

	i, err := toInt64(v)
	if err != nil {
		return Value{}, err
	}
	switch k {
	case KindInt32:
		if i < math.MinInt32 || i > math.MaxInt32 {
			return Value{}, castErr(v, k)
		}
		return Int32(int32(i)), nil
	case KindInt64:
		return Int64(i), nil
	case KindTime:
		return Unix(i), nil
	}
	return Value{}, castErr(v, k)
}

func toInt64(v Value) (int64, error) {
	switch v.kind {
	case KindUint:
		if v.u > math.MaxInt64 {
			return 0, castErr(v, KindInt64)
		}
		return int64(v.u), nil
	case KindFloat, KindDouble:
		if math.IsNaN(v.f) || v.f < math.MinInt64 || v.f >= math.MaxInt64 {
			return 0, castErr(v, KindInt64)
		}
		return int64(v.f), nil
	}
	return v.i, nil
}

func toUint(v Value) (Value, error) {
	switch v.kind {
	case KindFloat, KindDouble:
		if math.IsNaN(v.f) || v.f < 0 || v.f >= math.MaxUint64 {
			return Value{}, castErr(v, KindUint)
		}
		return Uint(uint64(v.f)), nil
	}
	if v.i < 0 {
		return Value{}, castErr(v, KindUint)
	}
	return Uint(uint64(v.i)), nil
}

func castErr(v Value, k Kind) error {
	return fmt.Errorf("%w: %s %s to %s", ErrCast, v.kind, v.String(), k)
}
