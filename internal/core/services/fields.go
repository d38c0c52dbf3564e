package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fields is a loosely typed form or JSON body. Browser forms submit every
// value as a string while API callers send native JSON types.
type Fields map[string]interface{}

// String returns the trimmed textual value of key
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []string:
		if len(v) == 0 {
			return ""
		}
		return strings.TrimSpace(v[0])
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Bool normalizes true, "true", "on" and "yes" to true
func (f Fields) Bool(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "yes":
			return true
		}
	}
	return false
}

// Float returns the numeric value of key, or nil when absent or not a number
func (f Fields) Float(key string) *float64 {
	s := f.String(key)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}

// Int returns the integer value of key or def
func (f Fields) Int(key string, def int) int {
	if n := f.Float(key); n != nil {
		return int(*n)
	}
	return def
}

// present reports whether key carries a non-empty value. A false boolean
// counts as absent.
func (f Fields) present(key string) bool {
	switch v := f[key].(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return f.String(key) != ""
	}
}

// alias copies from into to when to is empty
func (f Fields) alias(to, from string) {
	if !f.present(to) && f.present(from) {
		f[to] = f[from]
	}
}
