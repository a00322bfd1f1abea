package irc

import (
	"regexp"
	"strings"
)

// rgxHost validates and splits full hosts.
var rgxHost = regexp.MustCompile(
	`(?i)^` +
		`([\w\x5B-\x60][\w\d\x5B-\x60]*)` + // nickname
		`!([^\0@\s]+)` + // username
		`@([^\0\s]+)` + // host
		`$`,
)

// maskLiterals rewrites wildcards so a mask can be validated against the
// host grammar.
var maskLiterals = strings.NewReplacer("*", "x", "?", "x")

// Host is a type that represents an irc hostname. nickname!username@hostname
type Host string

// Nick returns the nick of the host. Prefixes that carry no separators,
// such as bare server names, are returned whole.
func (h Host) Nick() string {
	s := string(h)
	if index := strings.IndexAny(s, "!@"); index >= 0 {
		return s[:index]
	}
	return s
}

// Username returns the username of the host.
func (h Host) Username() string {
	_, user, _ := h.Split()
	return user
}

// Hostname returns the hostname of the host.
func (h Host) Hostname() string {
	_, _, hostname := h.Split()
	return hostname
}

// Split splits a host into its fragments: nick, user, and hostname. If the
// format is not acceptable empty string is returned for everything.
func (h Host) Split() (nick, user, hostname string) {
	fragments := rgxHost.FindStringSubmatch(string(h))
	if len(fragments) == 0 {
		return
	}
	return fragments[1], fragments[2], fragments[3]
}

// String returns the fullhost of this host.
func (h Host) String() string {
	return string(h)
}

// IsValid checks to ensure the host is in valid format.
func (h Host) IsValid() bool {
	return rgxHost.MatchString(string(h))
}

// Mask is an irc hostmask that contains the wildcard characters ? and *,
// where ? stands for any single character and * for any run of characters.
type Mask string

// Match checks if the mask covers the given host.
func (m Mask) Match(h Host) bool {
	return wildMatch(string(m), string(h))
}

// IsValid checks to ensure the mask is in valid format.
func (m Mask) IsValid() bool {
	return rgxHost.MatchString(maskLiterals.Replace(string(m)))
}

// String returns the mask as a plain string.
func (m Mask) String() string {
	return string(m)
}

// wildMatch matches s against a pattern holding the wildcards ? and *.
// Iterative with backtracking to the most recent *, so pathological
// patterns stay linear-ish instead of recursing.
func wildMatch(pattern, s string) bool {
	var pi, si int
	star, mark := -1, 0

	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == s[si]):
			pi++
			si++
		case pi < len(pattern) && pattern[pi] == '*':
			star, mark = pi, si
			pi++
		case star >= 0:
			mark++
			pi, si = star+1, mark
		default:
			return false
		}
	}

	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
