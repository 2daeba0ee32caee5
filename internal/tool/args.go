package tool

// Argument extraction helpers. Tool arguments arrive as decoded JSON, so
// strings come through as string, numbers as float64, and lists as []any.

// StringArg extracts a string argument.
func StringArg(args map[string]any, key string) (string, bool) {
	val, ok := args[key].(string)
	if !ok {
		return "", false
	}
	return val, true
}

// StringSliceArg extracts a string slice argument. Both []any of strings
// (decoded JSON) and []string (direct callers) are accepted; non-string
// elements are dropped.
func StringSliceArg(args map[string]any, key string) ([]string, bool) {
	switch v := args[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}
