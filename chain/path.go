package chain

import (
	"fmt"
	"strings"

	"github.com/arloliu/tdms/errs"
)

// RootPath is the path of the file object.
const RootPath = "/"

// ParsePath splits an object path into its unquoted components.
//
// "/" yields no components, "/'group'" one and "/'group'/'channel'" two.
// A single quote inside a component is escaped by doubling it.
//
// Returns:
//   - []string: Path components
//   - error: ErrInvalidPath for anything that does not follow this syntax
func ParsePath(path string) ([]string, error) {
	if path == RootPath {
		return nil, nil
	}

	var parts []string
	rest := path
	for rest != "" {
		if !strings.HasPrefix(rest, "/'") {
			return nil, fmt.Errorf("%w: %q", errs.ErrInvalidPath, path)
		}
		rest = rest[2:]

		var sb strings.Builder
		closed := false
		for i := 0; i < len(rest); i++ {
			if rest[i] != '\'' {
				sb.WriteByte(rest[i])
				continue
			}
			if i+1 < len(rest) && rest[i+1] == '\'' {
				sb.WriteByte('\'')
				i++
				continue
			}
			rest = rest[i+1:]
			closed = true

			break
		}

		if !closed {
			return nil, fmt.Errorf("%w: unterminated component in %q", errs.ErrInvalidPath, path)
		}
		parts = append(parts, sb.String())
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidPath, path)
	}

	return parts, nil
}

// BuildPath quotes components into an object path. No components yield "/".
func BuildPath(components ...string) string {
	if len(components) == 0 {
		return RootPath
	}

	var sb strings.Builder
	for _, c := range components {
		sb.WriteString("/'")
		sb.WriteString(strings.ReplaceAll(c, "'", "''"))
		sb.WriteByte('\'')
	}

	return sb.String()
}

// GroupPath returns the path of a group.
func GroupPath(group string) string {
	return BuildPath(group)
}

// ChannelPath returns the path of a channel.
func ChannelPath(group, channel string) string {
	return BuildPath(group, channel)
}
