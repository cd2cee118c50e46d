package envutil

import (
	"os"
	"strings"
)

// ExpandWindowsEnv resolves environment variables in a path, supporting both
// Windows %VAR% and Unix $VAR / ${VAR} syntax. Unknown %VAR% references are
// left untouched so a bad catalog entry stays recognisable in logs.
func ExpandWindowsEnv(path string) string {
	return expandWith(path, os.LookupEnv)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return home + path[1:]
}

func expandWith(path string, lookup func(string) (string, bool)) string {
	if strings.Contains(path, "%") {
		path = expandPercent(path, lookup)
	}
	if strings.Contains(path, "$") {
		path = os.Expand(path, func(name string) string {
			if v, ok := lookup(name); ok {
				return v
			}
			// Keep unresolved $VAR literally, os.Expand would drop it.
			return "$" + name
		})
	}
	return ExpandHome(path)
}

func expandPercent(path string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	b.Grow(len(path))

	for {
		start := strings.IndexByte(path, '%')
		if start < 0 {
			b.WriteString(path)
			break
		}
		end := strings.IndexByte(path[start+1:], '%')
		if end < 0 {
			b.WriteString(path)
			break
		}
		end += start + 1

		name := path[start+1 : end]
		b.WriteString(path[:start])
		if v, ok := lookupFold(name, lookup); ok && name != "" {
			b.WriteString(v)
		} else {
			b.WriteString(path[start : end+1])
		}
		path = path[end+1:]
	}

	return b.String()
}

// lookupFold tries the name as given and then upper-cased; Windows
// environment names are case-insensitive.
func lookupFold(name string, lookup func(string) (string, bool)) (string, bool) {
	if v, ok := lookup(name); ok {
		return v, true
	}
	return lookup(strings.ToUpper(name))
}
