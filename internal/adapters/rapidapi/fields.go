package rapidapi

import (
	"strconv"
	"strings"
)

// Lookup walks a dot path through nested JSON objects.
func Lookup(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// String returns the first non-empty value among paths. Numbers are
// formatted, so numeric ids come back as text.
func String(m map[string]any, paths ...string) string {
	for _, p := range paths {
		switch v := Lookup(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// Float reads a number from several paths (float64/int/string like "8,0").
func Float(m map[string]any, paths ...string) (float64, bool) {
	for _, p := range paths {
		switch v := Lookup(m, p).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// Int64 reads an integer from several paths (float64/int/string).
func Int64(m map[string]any, paths ...string) (int64, bool) {
	for _, p := range paths {
		switch v := Lookup(m, p).(type) {
		case float64:
			return int64(v), true
		case int:
			return int64(v), true
		case int64:
			return v, true
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// Objects returns the JSON objects of the first array found among paths.
func Objects(m map[string]any, paths ...string) []map[string]any {
	for _, p := range paths {
		raw, ok := Lookup(m, p).([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(raw))
		for _, it := range raw {
			if obj, ok := it.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		return out
	}
	return nil
}

// Strings accepts an array of strings or of objects carrying the string
// under one of the given nested paths (e.g. "image.url").
func Strings(m map[string]any, path string, itemPaths ...string) []string {
	raw, ok := Lookup(m, path).([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		switch t := it.(type) {
		case string:
			if t != "" {
				out = append(out, t)
			}
		case map[string]any:
			if s := String(t, itemPaths...); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
