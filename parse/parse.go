/*
parse package deals with splitting the irc protocol into word tokens
*/
package parse

import (
	"strconv"
	"strings"
)

// Fields splits a single wire line into its space-delimited word tokens.
// The split happens on every single space, so consecutive spaces produce
// empty tokens; downstream scanners must see those and skip them rather
// than have the shape of the line silently change. One trailing CR, LF or
// CRLF pair is trimmed first. Returns nil for an empty line.
func Fields(line []byte) []string {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	if n == 0 {
		return nil
	}
	return strings.Split(string(line[:n]), " ")
}

// Numeric reports whether a verb token is a three-digit numeric server
// reply and decodes it. Verbs of any other shape are named commands.
func Numeric(verb string) (int, bool) {
	if len(verb) != 3 {
		return 0, false
	}
	for i := 0; i < len(verb); i++ {
		if verb[i] < '0' || verb[i] > '9' {
			return 0, false
		}
	}
	code, err := strconv.Atoi(verb)
	if err != nil {
		return 0, false
	}
	return code, true
}
