package environ

import (
	"maps"
	"slices"
	"strings"
)

// Parses KEY=VALUE entries into a map.
//
// Malformed entries (no "=") are skipped. When a key repeats, the last entry
// wins. Values may contain "=".
func Parse(entries []string) map[string]string {
	env := make(map[string]string, len(entries))
	for _, entry := range entries {
		if k, v, ok := strings.Cut(entry, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Merges base entries with override maps applied in order.
func Merge(base []string, overrides ...map[string]string) map[string]string {
	env := Parse(base)
	for _, o := range overrides {
		maps.Copy(env, o)
	}
	return env
}

// Formats a map as KEY=VALUE entries sorted by key.
func Format(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}

// Appends dir to the colon-separated list stored under key.
//
// An empty value is treated as unset: the key is set to dir alone, with no
// leading colon.
func AppendPath(env map[string]string, key, dir string) {
	if cur := env[key]; cur != "" {
		env[key] = cur + ":" + dir
		return
	}
	env[key] = dir
}
