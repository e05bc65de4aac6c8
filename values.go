package strknn

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// UploadValues is Upload for untyped input, such as decoded JSON or values
// handed over by a scripting host. v must be a slice or array whose elements
// are all strings; otherwise an *InvalidInputError naming the offending
// element is returned and the corpus is not modified.
func (e *Engine) UploadValues(ctx context.Context, v any) error {
	strs, err := stringsOf(v)
	if err != nil {
		return err
	}
	return e.Upload(ctx, strs)
}

// QueryValues is Query for untyped input.
//
// text must be a string. k must be an integer, or a float without a
// fractional part (JSON numbers decode as float64). orderSensitive must be a
// bool or nil; nil means true.
func (e *Engine) QueryValues(ctx context.Context, text, k, orderSensitive any) ([]string, error) {
	s, ok := text.(string)
	if !ok {
		return nil, invalidInput("text", "expected string, got %T", text)
	}

	n, err := intOf("k", k)
	if err != nil {
		return nil, err
	}

	ordered := true
	switch b := orderSensitive.(type) {
	case nil:
	case bool:
		ordered = b
	default:
		return nil, invalidInput("orderSensitive", "expected bool, got %T", orderSensitive)
	}

	return e.Query(ctx, s, n, ordered)
}

var stringType = reflect.TypeFor[string]()

// stringsOf accepts only elements of type string. Named string types such as
// json.Number are rejected.
func stringsOf(v any) ([]string, error) {
	switch v := v.(type) {
	case nil:
		return nil, invalidInput("strings", "expected a sequence of strings, got nil")
	case []string:
		return v, nil
	case string:
		return nil, invalidInput("strings", "expected a sequence of strings, got string")
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, invalidInput("strings", "expected a sequence of strings, got %T", v)
	}

	out := make([]string, rv.Len())
	for i := range out {
		elem := rv.Index(i)
		if elem.Kind() == reflect.Interface {
			if elem.IsNil() {
				return nil, invalidInput(fmt.Sprintf("strings[%d]", i), "expected string, got nil")
			}
			elem = elem.Elem()
		}
		if elem.Type() != stringType {
			return nil, invalidInput(fmt.Sprintf("strings[%d]", i), "expected string, got %s", elem.Type())
		}
		out[i] = elem.String()
	}
	return out, nil
}

func intOf(field string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return intFromInt64(field, n)
	case uint:
		return intFromUint64(field, uint64(n))
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return intFromUint64(field, uint64(n))
	case uint64:
		return intFromUint64(field, n)
	case float32:
		return intFromFloat(field, float64(n))
	case float64:
		return intFromFloat(field, n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return intFromInt64(field, i)
		}
		f, err := n.Float64()
		if err != nil {
			return 0, &InvalidInputError{Field: field, Reason: "not a number", cause: err}
		}
		return intFromFloat(field, f)
	case nil:
		return 0, invalidInput(field, "expected integer, got nil")
	default:
		return 0, invalidInput(field, "expected integer, got %T", v)
	}
}

func intFromInt64(field string, n int64) (int, error) {
	if n > math.MaxInt || n < math.MinInt {
		return 0, invalidInput(field, "%d out of range", n)
	}
	return int(n), nil
}

func intFromUint64(field string, n uint64) (int, error) {
	if n > math.MaxInt {
		return 0, invalidInput(field, "%d out of range", n)
	}
	return int(n), nil
}

// maxExactFloat is the largest magnitude below which every integer is exactly
// representable as a float64.
const maxExactFloat = 1 << 53

func intFromFloat(field string, f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, invalidInput(field, "expected integer, got %v", f)
	}
	if f > maxExactFloat || f < -maxExactFloat {
		return 0, invalidInput(field, "%v out of range", f)
	}
	return int(f), nil
}
