/*
Package bot ties the pieces together, one Bot drives a connection,
recognizes commands in the message stream and answers them.
*/
package bot

import (
	"context"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/gorillabot/gorillabot/command"
	"github.com/gorillabot/gorillabot/config"
	"github.com/gorillabot/gorillabot/inet"
	"github.com/gorillabot/gorillabot/irc"
	"github.com/gorillabot/gorillabot/parse"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/inconshreveable/log15.v2"
)

const (
	// errMsgInvalidConfig is returned by New for a bad configuration.
	errMsgInvalidConfig = "bot: invalid configuration"
	// errFmtConnect wraps dial failures.
	errFmtConnect = "bot: failed to connect to %s"
)

// ConnProvider dials the server, swappable for testing.
type ConnProvider func(addr string) (net.Conn, error)

// Bot drives one irc connection, feeding every incoming line through the
// command recognizer.
type Bot struct {
	conf *config.Config

	// nick is the nick the server knows us by right now, it drifts from
	// the configured one through collisions and forced renames.
	nick        string
	protectNick sync.RWMutex

	client *inet.Client
	writer irc.Writer

	recognizer *command.Recognizer
	nickserv   command.NickservHandler
	numerics   command.NumericHandler
	core       *coreHandler

	connProvider ConnProvider

	logger  log15.Logger
	protect sync.RWMutex
}

// New creates a Bot from a validated configuration.
func New(conf *config.Config, logger log15.Logger) (*Bot, error) {
	if logger == nil {
		logger = log15.New("pkg", "bot")
	}

	if conf == nil {
		return nil, errors.New(errMsgInvalidConfig)
	}
	if errs := conf.Validate(); errs != nil {
		for _, err := range errs {
			logger.Error("bad configuration", "err", err)
		}
		return nil, errors.New(errMsgInvalidConfig)
	}

	b := &Bot{
		conf:   conf,
		nick:   conf.Nick,
		logger: logger,
	}

	b.core = &coreHandler{bot: b, logger: logger.New("pkg", "core")}
	b.recognizer = command.NewRecognizer(b.core, logger.New("pkg", "command"))
	b.nickserv = b.core
	b.numerics = b.core

	return b, nil
}

// connect dials the configured server and starts the io workers.
func (b *Bot) connect() error {
	conf := b.Config()
	addr := net.JoinHostPort(conf.Host, strconv.Itoa(int(conf.Port)))

	var conn net.Conn
	var err error
	if b.connProvider != nil {
		conn, err = b.connProvider(addr)
	} else {
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return errors.Wrapf(err, errFmtConnect, addr)
	}

	b.logger.Info("connected", "addr", addr)

	b.protect.Lock()
	b.client = inet.NewClient(conn, b.logger.New("pkg", "inet"))
	b.writer = irc.Helper{Writer: b.client}
	b.client.SpawnWorkers(true, true)
	b.protect.Unlock()

	return nil
}

// dispatch feeds every line from the connection through the router,
// bracketed by synthetic connect and disconnect events.
func (b *Bot) dispatch() {
	b.route([]string{irc.CONNECT})
	for raw := range b.client.ReadChannel() {
		b.route(parse.Fields(raw))
	}
	b.route([]string{irc.DISCONNECT})
}

// route sends one tokenized line where it belongs. Unroutable lines are
// logged and dropped, never fatal.
func (b *Bot) route(tokens []string) {
	if len(tokens) == 0 {
		return
	}

	w := b.writer

	switch tokens[0] {
	case irc.PING:
		if len(tokens) > 1 {
			w.Pong(strings.TrimPrefix(tokens[1], ":"))
		}
		return
	case irc.ERROR:
		b.logger.Error("server error", "msg", strings.Join(tokens[1:], " "))
		return
	case irc.CONNECT:
		b.core.connected(w)
		return
	case irc.DISCONNECT:
		b.logger.Info("disconnected")
		return
	}

	if len(tokens) < 2 {
		b.logger.Debug("dropping short line", "line", strings.Join(tokens, " "))
		return
	}

	if code, ok := parse.Numeric(tokens[1]); ok {
		b.numerics.Numeric(w, code, tokens)
		return
	}

	switch tokens[1] {
	case irc.PRIVMSG:
		if len(tokens) > 3 {
			msg := strings.TrimPrefix(strings.Join(tokens[3:], " "), ":")
			if irc.IsCTCP(msg) {
				sender := irc.Host(strings.TrimPrefix(tokens[0], ":")).Nick()
				if tag, data, ok := irc.CTCPUnpack(msg); ok {
					b.core.ctcp(w, sender, tokens[2], tag, data)
				}
				return
			}
		}
		if err := b.recognizer.Dispatch(w, b.Nick(), tokens); err != nil {
			b.logger.Debug("dropped malformed privmsg", "err", err)
		}

	case irc.NOTICE:
		sender := irc.Host(strings.TrimPrefix(tokens[0], ":")).Nick()
		if strings.EqualFold(sender, nickservNick) {
			b.nickserv.NickservReply(w, tokens)
			return
		}
		var msg string
		if len(tokens) > 3 {
			msg = strings.Join(tokens[3:], " ")
		}
		b.logger.Debug("notice", "from", sender, "msg", msg)

	default:
		b.logger.Debug("unrouted line", "verb", tokens[1])
	}
}

// Nick returns the nick the server currently knows us by.
func (b *Bot) Nick() string {
	b.protectNick.RLock()
	defer b.protectNick.RUnlock()
	return b.nick
}

func (b *Bot) setNick(nick string) {
	b.protectNick.Lock()
	b.nick = nick
	b.protectNick.Unlock()
}

// Config returns the active configuration.
func (b *Bot) Config() *config.Config {
	b.protect.RLock()
	defer b.protect.RUnlock()
	return b.conf
}

// Rehash swaps in a new configuration. New channels are joined right
// away, a changed server address only applies on the next connect.
func (b *Bot) Rehash(conf *config.Config) {
	if conf == nil {
		return
	}

	b.protect.Lock()
	old := b.conf
	b.conf = conf
	w := b.writer
	b.protect.Unlock()

	b.logger.Info("configuration rehashed")

	if old.Host != conf.Host || old.Port != conf.Port {
		b.logger.Warn("server change needs a restart to apply")
	}

	if w == nil {
		return
	}

	if old.Nick != conf.Nick {
		w.Nick(conf.Nick)
	}

	joined := make(map[string]bool)
	for _, ch := range old.Channels() {
		joined[ch] = true
	}
	var add []string
	for _, ch := range conf.Channels() {
		if !joined[ch] {
			add = append(add, ch)
		}
	}
	if len(add) > 0 {
		w.Join(add...)
	}
}

// Run connects and blocks until the connection dies or ctx is done. A
// non-empty configPath is watched for live rehashes.
func (b *Bot) Run(ctx context.Context, configPath string) error {
	if err := b.connect(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		b.dispatch()
		return nil
	})

	if configPath != "" {
		watchLogger := b.logger.New("pkg", "config")
		g.Go(func() error {
			return config.Watch(ctx, configPath, watchLogger, b.Rehash)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return b.Stop()
	})

	return g.Wait()
}

// Stop closes the connection, ending a Run in progress. Safe to call
// without one.
func (b *Bot) Stop() error {
	b.protect.RLock()
	client := b.client
	b.protect.RUnlock()

	if client == nil || client.IsClosed() {
		return nil
	}
	return client.Close()
}
