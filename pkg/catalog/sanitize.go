package catalog

import "strings"

var nameReplacer = strings.NewReplacer(
	`"`, "_",
	" ", "_",
	"-", "_",
	"@", "_",
	".", "_",
)

// Sanitize turns a remote path segment into a child name. The mapping is
// deterministic but not reversible: distinct segments may collide.
func Sanitize(segment string) string {
	return nameReplacer.Replace(segment)
}

// DeriveName computes the child name of item below an ancestor that already
// represents the first trimPath segments of its path.
func DeriveName(item Item, trimPath int) string {
	path := item.Path
	if len(path) == 0 {
		path = []string{item.Name}
	}
	rest := path
	if trimPath > 0 {
		if trimPath >= len(path) {
			rest = path[len(path)-1:]
		} else {
			rest = path[trimPath:]
		}
	}
	return Sanitize(strings.Join(rest, "_"))
}

// QuotePath renders path as a quoted SQL identifier, e.g. "a"."b c".
func QuotePath(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
