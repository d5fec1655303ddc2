package core

import (
	"fmt"
	"strconv"
	"strings"
)

// NextCode generates the next business code for a collection: the largest
// numeric suffix among existing codes matching the prefix, plus one,
// zero-padded to three digits. Codes with an unparseable suffix count as 0.
// Uniqueness is ultimately enforced by the storage layer's unique index;
// this is only the friendly default offered to the operator.
func NextCode(existing []string, prefix string) string {
	max := 0
	for _, code := range existing {
		if !strings.HasPrefix(code, prefix) {
			continue
		}
		n, err := strconv.Atoi(code[len(prefix):])
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, max+1)
}
