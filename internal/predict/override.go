package predict

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/zyren-ai/zyren/internal/engine"
)

var overrideRe = regexp.MustCompile(`(?i)^\s*([a-z0-9]+)\s*:\s*(\S+)\s*$`)

// ParseOverride reads "mode:target" where target is a 0-based round index or
// a label under scheme, e.g. "a:3", "b:III-2".
func ParseOverride(input string, scheme engine.Scheme) (Mode, int, error) {
	m := overrideRe.FindStringSubmatch(input)
	if m == nil {
		return 0, 0, fmt.Errorf("override %q: want mode:round", input)
	}
	mode, err := ParseMode(m[1])
	if err != nil {
		return 0, 0, err
	}
	index, err := RoundIndex(m[2], scheme)
	if err != nil {
		return 0, 0, fmt.Errorf("override %q: %w", input, err)
	}
	return mode, index, nil
}

// RoundIndex resolves a round given as an index or as a label.
func RoundIndex(target string, scheme engine.Scheme) (int, error) {
	if n, err := strconv.Atoi(target); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("%w: %d", ErrRoundOutOfRange, n)
		}
		return n, nil
	}
	if i, ok := scheme.IndexOf(target); ok {
		return i, nil
	}
	return 0, fmt.Errorf("%w: no round labeled %q", ErrRoundOutOfRange, target)
}
