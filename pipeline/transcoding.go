package pipeline

import (
	"fmt"
	"strings"

	"github.com/kbukum/pipekit/errors"
)

// transcodingSeparator splits a logical artifact name from its physical
// format, as in "shuttles@parquet".
const transcodingSeparator = "@"

// SplitTranscoding splits a name into its logical base and format suffix.
// Names without a suffix return an empty format.
func SplitTranscoding(name string) (base, format string, err error) {
	parts := strings.Split(name, transcodingSeparator)
	switch len(parts) {
	case 1:
		return name, "", nil
	case 2:
		return parts[0], parts[1], nil
	default:
		return "", "", errors.BadSpec(name, fmt.Sprintf("expected at most one %q in a dataset name", transcodingSeparator))
	}
}

// StripTranscoding returns the logical base of a name, dropping any @format
// suffix. Malformed names are returned unchanged; construction validates
// them separately.
func StripTranscoding(name string) string {
	if i := strings.Index(name, transcodingSeparator); i >= 0 {
		return name[:i]
	}
	return name
}
