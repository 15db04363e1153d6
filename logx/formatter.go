package logx

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// prettyValue renders composite values as indented JSON for console debug output.
// Scalars, errors and Stringers are returned unchanged so %d and %s verbs keep working.
func prettyValue(v any) any {
	if !isComposite(v) {
		return v
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

// jsonSafe converts a log argument into something json.Marshal will accept
func jsonSafe(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case error:
		return map[string]string{"error": val.Error(), "type": fmt.Sprintf("%T", val)}
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return v
}

func isComposite(v any) bool {
	switch v.(type) {
	case nil, error, fmt.Stringer, time.Time, []byte:
		return false
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}
