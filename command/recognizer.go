package command

import (
	"github.com/gorillabot/gorillabot/irc"

	"gopkg.in/inconshreveable/log15.v2"
)

// Recognizer pairs recognition with dispatch to a handler, logging each
// command it sees.
type Recognizer struct {
	handler Handler
	logger  log15.Logger
}

// NewRecognizer creates a Recognizer that dispatches to handler. A nil
// logger gets a package default.
func NewRecognizer(handler Handler, logger log15.Logger) *Recognizer {
	if logger == nil {
		logger = log15.New("pkg", "command")
	}
	return &Recognizer{handler: handler, logger: logger}
}

// Dispatch recognizes one protocol line and hands any command to the
// handler. Malformed lines are logged and returned, lines without
// commands are dropped without a word.
func (r *Recognizer) Dispatch(w irc.Writer, self string, line []string) error {
	cmd, err := Recognize(self, line)
	if err != nil {
		r.logger.Debug("dropping malformed line", "err", err)
		return err
	}
	if cmd == nil {
		return nil
	}

	r.logger.Info("recognized command",
		"command", cmd.Name,
		"mode", cmd.Mode,
		"sender", cmd.Sender,
	)

	if r.handler != nil {
		r.handler.Command(w, cmd)
	}
	return nil
}
