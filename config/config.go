/*
Package config creates the bot's configuration using toml.

An example configuration looks like this:
	host = "irc.freenode.net"
	port = 6667

	nick = "gorillabot"
	ident = "gorillabot"
	realname = "gorillabot"

	# Comma or space separated, the # prefix is optional.
	chans = "#gorillabot, #bots"

	# Nicks allowed to use operator commands.
	botop = "alice bob"
*/
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Defaults for a fresh configuration.
const (
	DefaultHost     = "irc.freenode.net"
	DefaultPort     = uint16(6667)
	DefaultNick     = "gorillabot"
	DefaultIdent    = "gorillabot"
	DefaultRealname = "gorillabot"
	DefaultChans    = "#gorillabot"
)

const (
	errFmtBadField = "config: bad %s value (%s)"
)

var validate = validator.New()

// Config holds the connection and identity settings for one bot.
type Config struct {
	// Host is the server to connect to.
	Host string `toml:"host" validate:"required,hostname|ip"`
	// Port is the plaintext irc port of the server.
	Port uint16 `toml:"port" validate:"required"`

	// Nick is the nickname to register with.
	Nick string `toml:"nick" validate:"required,excludesall=0x20"`
	// Ident is the username part of the bot's host.
	Ident string `toml:"ident" validate:"required,excludesall=0x20"`
	// Realname is the gecos field of the bot's registration.
	Realname string `toml:"realname" validate:"required"`

	// Chans lists the channels to join, comma or space separated.
	Chans string `toml:"chans" validate:"required"`
	// Botop lists the nicks allowed to use operator commands, comma or
	// space separated. Optional.
	Botop string `toml:"botop"`
}

// New creates a configuration filled with usable defaults.
func New() *Config {
	return &Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		Nick:     DefaultNick,
		Ident:    DefaultIdent,
		Realname: DefaultRealname,
		Chans:    DefaultChans,
	}
}

// Validate checks the configuration and returns one error per bad field.
func (c *Config) Validate() []error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{err}
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		errs = append(errs, errors.Errorf(errFmtBadField,
			strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
	}
	return errs
}

// Channels returns the channel list with each entry # prefixed.
func (c *Config) Channels() []string {
	chans := splitList(c.Chans)
	for i, ch := range chans {
		if !strings.HasPrefix(ch, "#") {
			chans[i] = "#" + ch
		}
	}
	return chans
}

// Operators returns the nicks allowed to use operator commands.
func (c *Config) Operators() []string {
	return splitList(c.Botop)
}

// splitList splits on commas when any are present, otherwise on spaces,
// trimming whitespace and dropping empty entries.
func splitList(s string) []string {
	sep := " "
	if strings.Contains(s, ",") {
		sep = ","
	}

	var list []string
	for _, entry := range strings.Split(s, sep) {
		if entry = strings.TrimSpace(entry); len(entry) > 0 {
			list = append(list, entry)
		}
	}
	return list
}
