package irc

import "strings"

// CTCP framing bytes. A ctcp message rides inside a PRIVMSG or NOTICE body
// delimited by CTCPDelim, with two quoting levels so the delimiter and the
// line-framing bytes can appear in the data.
const (
	CTCPDelim     = '\x01'
	CTCPLowQuote  = '\x10'
	CTCPHighQuote = '\x5C'
	CTCPSep       = '\x20'
)

// IsCTCP reports whether a message body is framed as a ctcp message.
func IsCTCP(msg string) bool {
	return len(msg) >= 2 && msg[0] == CTCPDelim && msg[len(msg)-1] == CTCPDelim
}

// CTCPPack frames a tag and its data as a ctcp message, applying both
// quoting levels.
func CTCPPack(tag, data string) string {
	b := make([]byte, 0, len(tag)+len(data)+4)
	b = append(b, CTCPDelim)
	b = appendQuoted(b, tag)
	if len(data) > 0 {
		b = append(b, CTCPSep)
		b = appendQuoted(b, data)
	}
	b = append(b, CTCPDelim)
	return string(b)
}

// CTCPUnpack splits a ctcp message into its tag and data, reversing both
// quoting levels. ok is false when msg is not ctcp framed.
func CTCPUnpack(msg string) (tag, data string, ok bool) {
	if !IsCTCP(msg) {
		return "", "", false
	}

	body := unquote(msg[1 : len(msg)-1])
	if i := strings.IndexByte(body, CTCPSep); i >= 0 {
		return body[:i], body[i+1:], true
	}
	return body, "", true
}

// appendQuoted quotes one field. The delimiter and the high quote use the
// high level scheme, the line framing bytes the low level one.
func appendQuoted(b []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case CTCPDelim:
			b = append(b, CTCPHighQuote, 'a')
		case CTCPHighQuote:
			b = append(b, CTCPHighQuote, CTCPHighQuote)
		case 0x00:
			b = append(b, CTCPLowQuote, '0')
		case '\n':
			b = append(b, CTCPLowQuote, 'n')
		case '\r':
			b = append(b, CTCPLowQuote, 'r')
		case CTCPLowQuote:
			b = append(b, CTCPLowQuote, CTCPLowQuote)
		default:
			b = append(b, c)
		}
	}
	return b
}

// unquote reverses both quoting levels in one pass. Quote bytes followed
// by an unknown escape are kept verbatim rather than dropped.
func unquote(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c != CTCPHighQuote && c != CTCPLowQuote) || i+1 == len(s) {
			b = append(b, c)
			continue
		}

		i++
		switch n := s[i]; {
		case c == CTCPHighQuote && n == 'a':
			b = append(b, CTCPDelim)
		case c == CTCPHighQuote && n == CTCPHighQuote:
			b = append(b, CTCPHighQuote)
		case c == CTCPLowQuote && n == '0':
			b = append(b, 0x00)
		case c == CTCPLowQuote && n == 'n':
			b = append(b, '\n')
		case c == CTCPLowQuote && n == 'r':
			b = append(b, '\r')
		case c == CTCPLowQuote && n == CTCPLowQuote:
			b = append(b, CTCPLowQuote)
		default:
			b = append(b, c, n)
		}
	}
	return string(b)
}
