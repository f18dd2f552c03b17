package cli

import (
	"fmt"
	"strconv"
	"strings"
)

var heightSeparators = strings.NewReplacer("_", "", ",", "", ".", "", " ", "")

// ParseHeight parses a block height, ignoring digit group separators.
func ParseHeight(s string) (uint64, error) {
	cleaned := heightSeparators.Replace(s)
	if cleaned == "" {
		return 0, fmt.Errorf("empty block height %q", s)
	}
	h, err := strconv.ParseUint(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block height %q: %w", s, err)
	}
	return h, nil
}
