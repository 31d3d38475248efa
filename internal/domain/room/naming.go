package room

import (
	"regexp"
	"strconv"
	"strings"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Name derives the upstream room name owned by ownerID.
func Name(prefix string, ownerID int64) string {
	return prefix + "-" + strconv.FormatInt(ownerID, 10)
}

// ParseOwnerID extracts the owner id from a room name of the form <prefix>-<digits>.
func ParseOwnerID(prefix, name string) (int64, bool) {
	rest, ok := strings.CutPrefix(name, prefix+"-")
	if !ok || rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ValidAddress reports whether address is a 0x-prefixed 20-byte hex string.
func ValidAddress(address string) bool {
	return addressPattern.MatchString(address)
}

// SameAddress compares two addresses case-insensitively.
func SameAddress(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}
