package mqtt

import (
	"fmt"
	"strings"
)

// ValidateFilter checks an MQTT topic filter.
//
// "+" must occupy a whole level and "#" must be the whole last level.
// The empty filter is rejected.
func ValidateFilter(filter string) error {
	if filter == "" {
		return ErrInvalidTopic
	}

	levels := strings.Split(filter, "/")
	for i, level := range levels {
		switch {
		case level == "#":
			if i != len(levels)-1 {
				return fmt.Errorf("%w: %q: '#' must be the last level", ErrInvalidTopic, filter)
			}
		case level == "+":
		case strings.ContainsAny(level, "#+"):
			return fmt.Errorf("%w: %q: wildcard must occupy a whole level", ErrInvalidTopic, filter)
		}
	}
	return nil
}
