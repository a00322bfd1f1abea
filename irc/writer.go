package irc

import (
	"fmt"
	"io"
	"strings"
)

const (
	// IRC_MAX_LENGTH is the maximum length for an irc message. Normally it
	// is 510 bytes + crlf but the server has to truncate extra to allow for
	// our fullhost on rebroadcast to clients, so we should send less than
	// this by the maximum allowed fullhost length.
	IRC_MAX_LENGTH = 510 - 62
	// SPLIT_BACKWARD is the maximum number of characters a split searches
	// backwards from IRC_MAX_LENGTH for a space, so long messages break on
	// word boundaries when one is near.
	SPLIT_BACKWARD = 20

	// fmtPrivmsgHeader creates the beginning of a privmsg.
	fmtPrivmsgHeader = PRIVMSG + " %s :"
	// fmtNoticeHeader creates the beginning of a notice.
	fmtNoticeHeader = NOTICE + " %s :"
	// fmtCTCPReply creates a ctcp answer inside a notice.
	fmtCTCPReply = NOTICE + " %s :%s"
	// fmtPong answers a server ping.
	fmtPong = PONG + " :%s"
	// fmtNick requests a nickname.
	fmtNick = NICK + " :%s"
	// fmtUser registers the user identity.
	fmtUser = USER + " %s 0 * :%s"
	// fmtJoin creates a join message.
	fmtJoin = JOIN + " :%s"
	// fmtQuit creates a quit message.
	fmtQuit = QUIT + " :%s"
)

// Writer provides the write operations the bot performs against an irc
// connection, in protocol fashion over an underlying io.Writer. Each call
// produces whole protocol lines; the underlying writer owns framing.
type Writer interface {
	io.Writer
	// Send writes a raw protocol line with spaces between non-strings.
	Send(args ...interface{}) error
	// Sendf writes a formatted raw protocol line.
	Sendf(format string, args ...interface{}) error

	// Privmsg sends a privmsg to a target, splitting long messages.
	Privmsg(target string, args ...interface{}) error
	// Privmsgf sends a formatted privmsg to a target.
	Privmsgf(target, format string, args ...interface{}) error

	// Notice sends a notice to a target, splitting long messages.
	Notice(target string, args ...interface{}) error

	// CTCPReply answers a ctcp query over a notice.
	CTCPReply(target, tag, data string) error

	// Pong answers a server ping with its payload.
	Pong(payload string) error
	// Nick requests a nickname change.
	Nick(nick string) error
	// User sends the initial user registration.
	User(ident, realname string) error
	// Join joins the given channels.
	Join(channels ...string) error
	// Quit sends a quit message.
	Quit(msg string) error
}

// Helper fulfills the Writer interface over any io.Writer.
type Helper struct {
	io.Writer
}

// Send writes a raw protocol line with spaces between non-strings.
func (h Helper) Send(args ...interface{}) error {
	_, err := fmt.Fprint(h, args...)
	return err
}

// Sendf writes a formatted raw protocol line.
func (h Helper) Sendf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(h, format, args...)
	return err
}

// Privmsg sends a privmsg with spaces between non-strings.
func (h Helper) Privmsg(target string, args ...interface{}) error {
	header := []byte(fmt.Sprintf(fmtPrivmsgHeader, target))
	return h.splitSend(header, []byte(fmt.Sprint(args...)))
}

// Privmsgf sends a formatted privmsg.
func (h Helper) Privmsgf(target, format string, args ...interface{}) error {
	header := []byte(fmt.Sprintf(fmtPrivmsgHeader, target))
	return h.splitSend(header, []byte(fmt.Sprintf(format, args...)))
}

// Notice sends a notice with spaces between non-strings.
func (h Helper) Notice(target string, args ...interface{}) error {
	header := []byte(fmt.Sprintf(fmtNoticeHeader, target))
	return h.splitSend(header, []byte(fmt.Sprint(args...)))
}

// CTCPReply answers a ctcp query over a notice.
func (h Helper) CTCPReply(target, tag, data string) error {
	_, err := fmt.Fprintf(h, fmtCTCPReply, target, CTCPPack(tag, data))
	return err
}

// Pong answers a server ping with its payload.
func (h Helper) Pong(payload string) error {
	_, err := fmt.Fprintf(h, fmtPong, payload)
	return err
}

// Nick requests a nickname change.
func (h Helper) Nick(nick string) error {
	_, err := fmt.Fprintf(h, fmtNick, nick)
	return err
}

// User sends the initial user registration.
func (h Helper) User(ident, realname string) error {
	_, err := fmt.Fprintf(h, fmtUser, ident, realname)
	return err
}

// Join joins the given channels in one message.
func (h Helper) Join(channels ...string) error {
	if len(channels) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(h, fmtJoin, strings.Join(channels, ","))
	return err
}

// Quit sends a quit message.
func (h Helper) Quit(msg string) error {
	_, err := fmt.Fprintf(h, fmtQuit, msg)
	return err
}

// splitSend breaks a message into chunks no longer than IRC_MAX_LENGTH,
// repeating the header on each. A SPLIT_BACKWARD look-back prefers
// splitting on a space over the middle of a word, eliminating the space
// from the following chunk.
func (h Helper) splitSend(header, msg []byte) error {
	max := IRC_MAX_LENGTH - len(header)

	line := make([]byte, 0, IRC_MAX_LENGTH)
	for first := true; first || len(msg) > 0; first = false {
		size, skip := len(msg), 0
		if size > max {
			size = max
			for i := size; i > 0 && i > size-SPLIT_BACKWARD; i-- {
				if msg[i] == ' ' {
					size, skip = i, 1
					break
				}
			}
		}

		line = append(line[:0], header...)
		line = append(line, msg[:size]...)
		if _, err := h.Write(line); err != nil {
			return err
		}
		msg = msg[size+skip:]
	}

	return nil
}
