// Package querykey derives cache keys and URL query strings from request
// parameters. Unset values (nil, nil pointers, empty strings, multi-valued
// fields) are dropped; numeric zero is kept.
package querykey

import (
	"encoding/json"
	"math"
	"net/url"
	"reflect"
	"strconv"
)

type Values map[string]any

// Clean returns the effective parameters with every value normalized to a
// string, int64, float64 or bool.
func Clean(v Values) Values {
	out := make(Values, len(v))
	for name, raw := range v {
		if name == "" {
			continue
		}
		if value, ok := normalize(raw); ok {
			out[name] = value
		}
	}
	return out
}

// EncodeKey serializes namespace and the effective parameters. Map keys are
// emitted sorted, so insertion order never changes the key.
func EncodeKey(namespace string, v Values) string {
	payload, err := json.Marshal([]any{namespace, Clean(v)})
	if err != nil {
		// normalized values always marshal
		return namespace
	}
	return string(payload)
}

// DecodeKey is the inverse of EncodeKey. Malformed keys decode to an empty
// namespace and an empty parameter set.
func DecodeKey(key string) (string, Values) {
	var parts []json.RawMessage
	if err := json.Unmarshal([]byte(key), &parts); err != nil || len(parts) != 2 {
		return "", Values{}
	}
	var namespace string
	if err := json.Unmarshal(parts[0], &namespace); err != nil {
		return "", Values{}
	}
	var raw map[string]any
	if err := json.Unmarshal(parts[1], &raw); err != nil {
		return "", Values{}
	}
	return namespace, Clean(raw)
}

// EncodeQuery renders the effective parameters as a percent-encoded query
// string without the leading "?".
func EncodeQuery(v Values) string {
	q := url.Values{}
	for name, value := range Clean(v) {
		q.Set(name, format(value))
	}
	return q.Encode()
}

func format(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	}
	return ""
}

func normalize(raw any) (any, bool) {
	if raw == nil {
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		if rv.String() == "" {
			return nil, false
		}
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		if f == float64(int64(f)) {
			return int64(f), true
		}
		return f, true
	case reflect.Bool:
		return rv.Bool(), true
	}
	return nil, false
}
