// Package examcode parses the structured identifier codes printed on
// practice exam sheets, e.g. "INF.03-12-25.01-SG".
package examcode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedCode = errors.New("malformed exam code")

// YearOf derives the 4-digit exam year from a code of the form
// PREFIX-NN-YY.MM-SUFFIX. the two-digit year always maps into the
// 2000s: the upstream data set starts in 2014, so no century check is
// needed (and the reference behavior maps every value the same way).
func YearOf(code string) (int, error) {
	parts := strings.Split(code, "-")
	if len(parts) < 3 {
		return 0, fmt.Errorf("%w: %q has %d dash segments", ErrMalformedCode, code, len(parts))
	}
	yearPart := strings.SplitN(parts[2], ".", 2)[0]
	yy, err := strconv.Atoi(yearPart)
	if err != nil || yy < 0 {
		return 0, fmt.Errorf("%w: %q year segment %q", ErrMalformedCode, code, yearPart)
	}
	return 2000 + yy, nil
}

// ProfileOf returns the profile key encoded in the code's first
// segment: "INF.02-01-24.05-SG" -> "inf02".
func ProfileOf(code string) string {
	prefix, _, _ := strings.Cut(code, "-")
	return strings.ToLower(strings.ReplaceAll(prefix, ".", ""))
}
