package bot

import (
	"strings"
	"sync"

	"github.com/gorillabot/gorillabot/command"
	"github.com/gorillabot/gorillabot/irc"

	"gopkg.in/inconshreveable/log15.v2"
)

const (
	// nickservNick is the nick the services agent speaks from.
	nickservNick = "NickServ"
	// nickservMask filters out spoofed notices, anything claiming to be
	// nickserv must match it.
	nickservMask irc.Mask = "NickServ!*@services.*"
	// ctcpVersion answers a ctcp version query.
	ctcpVersion = "gorillabot"
)

// coreHandler deals with the mission critical events, registration, nick
// collisions, joining channels after the motd, and the built-in commands.
type coreHandler struct {
	// The bot this core handler belongs to.
	bot *Bot

	// How many nick collisions since the last connect.
	nickvalue int

	logger log15.Logger

	// Protect access to the core handler.
	protect sync.RWMutex
}

// connected registers the bot after the connection comes up.
func (c *coreHandler) connected(w irc.Writer) {
	conf := c.bot.Config()

	c.protect.Lock()
	c.nickvalue = 0
	c.protect.Unlock()

	w.Nick(conf.Nick)
	w.User(conf.Ident, conf.Realname)
}

// Numeric handles the server's numbered replies.
func (c *coreHandler) Numeric(w irc.Writer, code int, line []string) {
	switch code {

	case irc.RPL_WELCOME:
		if len(line) > 2 {
			c.bot.setNick(line[2])
		}
		c.logger.Info("connected to server", "nick", c.bot.Nick())

	case irc.ERR_NICKNAMEINUSE, irc.ERR_ERRONEUSNICKNAME:
		conf := c.bot.Config()

		c.protect.Lock()
		c.nickvalue++
		nick := conf.Nick + strings.Repeat("_", c.nickvalue)
		c.protect.Unlock()

		c.logger.Warn("nick in use, trying another", "nick", nick)
		w.Nick(nick)

	case irc.RPL_ENDOFMOTD, irc.ERR_NOMOTD:
		chans := c.bot.Config().Channels()
		c.logger.Info("joining channels", "chans", strings.Join(chans, ","))
		w.Join(chans...)

	default:
		c.logger.Debug("numeric", "code", code)
	}
}

// NickservReply handles notices from nickserv. The full prefix has to
// match the services mask so a user squatting the nick in a lowered case
// cannot feed us lines.
func (c *coreHandler) NickservReply(w irc.Writer, line []string) {
	host := irc.Host(strings.TrimPrefix(line[0], ":"))
	if !nickservMask.Match(host) {
		c.logger.Debug("ignoring spoofed nickserv notice", "host", string(host))
		return
	}

	var msg string
	if len(line) > 3 {
		msg = strings.TrimPrefix(strings.Join(line[3:], " "), ":")
	}
	c.logger.Info("nickserv", "msg", msg)
}

// ctcp answers queries addressed to the bot itself.
func (c *coreHandler) ctcp(w irc.Writer, sender, target, tag, data string) {
	if target != c.bot.Nick() || len(sender) == 0 {
		return
	}

	switch tag {
	case "VERSION":
		w.CTCPReply(sender, "VERSION", ctcpVersion)
	case "PING":
		w.CTCPReply(sender, "PING", data)
	default:
		c.logger.Debug("unanswered ctcp query", "tag", tag, "from", sender)
	}
}

// Command answers the built-in commands.
func (c *coreHandler) Command(w irc.Writer, cmd *command.Command) {
	target := cmd.Target
	if cmd.Private {
		target = cmd.Sender
	}
	if len(target) == 0 {
		return
	}

	switch strings.ToLower(cmd.Name) {

	case "ping":
		w.Privmsgf(target, "%s: pong", cmd.Sender)

	case "ops":
		ops := c.bot.Config().Operators()
		if len(ops) == 0 {
			w.Privmsg(target, "No operators are configured.")
			return
		}
		w.Privmsgf(target, "Operators: %s", strings.Join(ops, ", "))

	case "help":
		w.Privmsg(target, "Commands: ping, ops, help, version, shutdown.")
		w.Privmsgf(target,
			"Address me with %s: <command>, !<command>, or by private message.",
			c.bot.Nick())

	case "version":
		w.Privmsgf(target, "%s, an irc bot written in Go.", ctcpVersion)

	case "shutdown":
		if !c.isOperator(cmd.Sender) {
			w.Privmsgf(target, "%s: you are not a bot operator.", cmd.Sender)
			return
		}
		c.logger.Info("shutdown requested", "by", cmd.Sender)
		w.Privmsgf(target, "%s: shutting down.", cmd.Sender)
		w.Quit("Goodbye.")
		c.bot.Stop()

	default:
		c.logger.Debug("unknown command", "command", cmd.Name)
	}
}

// isOperator reports whether nick is listed as a bot operator.
func (c *coreHandler) isOperator(nick string) bool {
	if len(nick) == 0 {
		return false
	}
	for _, op := range c.bot.Config().Operators() {
		if strings.EqualFold(op, nick) {
			return true
		}
	}
	return false
}
