/*
Package command recognizes actionable commands inside an irc message
stream and classifies how each one was addressed to the bot.
*/
package command

import (
	"github.com/gorillabot/gorillabot/irc"
)

// Mode describes how a command was addressed to the bot.
type Mode int

const (
	// None means the message carried no command at all.
	None Mode = iota
	// Private means the message was sent directly to the bot's nick.
	Private
	// Direct means the message named the bot before the command, as in
	// "bot: help".
	Direct
	// Exclamation means the command appeared as an exclamation word
	// somewhere past the start of the message.
	Exclamation
	// ExclamationFirst means the exclamation word led the message.
	ExclamationFirst
)

var modeStrings = map[Mode]string{
	None:             "none",
	Private:          "private",
	Direct:           "direct",
	Exclamation:      "exclamation",
	ExclamationFirst: "exclamation_first",
}

// String returns the lowercase wire name of the mode.
func (m Mode) String() string {
	if s, ok := modeStrings[m]; ok {
		return s
	}
	return "unknown"
}

// Command is a single recognized command with its addressing details.
type Command struct {
	// Name is the bare command word, markers stripped.
	Name string
	// Mode records how the command was addressed.
	Mode Mode
	// Sender is the nick of the message's author, empty when the prefix
	// carried no nick.
	Sender string
	// Target is the nick or channel the message was delivered to.
	Target string
	// Private is true when the message went straight to the bot's nick.
	Private bool
}

// MalformedLineError is returned when a protocol line is too short to
// classify.
type MalformedLineError struct {
	// Msg describes what was wrong with the line.
	Msg string
	// Line is the offending line, rejoined for logging.
	Line string
}

// Error returns the description of the malformation.
func (m *MalformedLineError) Error() string {
	return m.Msg
}

// Handler receives each recognized command.
type Handler interface {
	Command(w irc.Writer, cmd *Command)
}

// NickservHandler receives notices authenticated as coming from nickserv.
type NickservHandler interface {
	NickservReply(w irc.Writer, line []string)
}

// NumericHandler receives server numeric replies.
type NumericHandler interface {
	Numeric(w irc.Writer, code int, line []string)
}
