package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AppID is the numeric storefront identifier of the tracked item
type AppID int

// Storefront URL patterns carrying an identifier
var appURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https://store\.steampowered\.com/app/(\d+)`),
	regexp.MustCompile(`https://steamcommunity\.com/app/(\d+)`),
}

// Valid returns true for positive identifiers
func (id AppID) Valid() bool {
	return id > 0
}

// String returns the decimal form of the identifier
func (id AppID) String() string {
	return strconv.Itoa(int(id))
}

// AppIDFromURL extracts the identifier from a storefront or community URL
func AppIDFromURL(rawURL string) (AppID, error) {
	for _, re := range appURLPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return parseAppID(m[1])
		}
	}
	return 0, fmt.Errorf("%w: no app id in %q", ErrInvalidAppID, rawURL)
}

// ParseAppID accepts either a bare number or a storefront URL
func ParseAppID(s string) (AppID, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "http") {
		return AppIDFromURL(s)
	}
	return parseAppID(s)
}

func parseAppID(s string) (AppID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAppID, s)
	}
	id := AppID(n)
	if !id.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAppID, n)
	}
	return id, nil
}
