package record

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// NoneString is the string form of a missing or nil value.
const NoneString = "None"

// String returns the canonical string form of v.
//
// Scalars render bare (nil as "None", booleans as "True"/"False", integral
// floats without a fraction). Sequences render as "[a, b]" and mappings as
// "{'k': v}" with keys sorted; strings nested inside composites are quoted.
func String(v any) string {
	return format(v, false)
}

// IsComposite reports whether v is a sequence or a mapping.
func IsComposite(v any) bool {
	if v == nil {
		return false
	}
	switch v.(type) {
	case string, json.Number, []byte:
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

func format(v any, nested bool) string {
	switch x := v.(type) {
	case nil:
		return NoneString
	case string:
		if nested {
			return "'" + strings.ReplaceAll(x, "'", `\'`) + "'"
		}
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "[]"
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = format(rv.Index(i).Interface(), true)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		vals := make(map[string]string, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := format(iter.Key().Interface(), true)
			keys = append(keys, k)
			vals[k] = format(iter.Value().Interface(), true)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + vals[k]
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case reflect.Int, reflect.Int8, reflect.Int16:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return strconv.FormatUint(rv.Uint(), 10)
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e16:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
