package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/inconshreveable/log15.v2"
)

const (
	errMsgPromptEOF = "config: input ended before the configuration was complete"
)

// Prompter builds a configuration by asking questions over a terminal.
type Prompter struct {
	in     *bufio.Scanner
	out    io.Writer
	logger log15.Logger
}

// NewPrompter creates a Prompter reading answers from in and writing
// questions to out.
func NewPrompter(in io.Reader, out io.Writer, logger log15.Logger) *Prompter {
	if logger == nil {
		logger = log15.New("pkg", "config")
	}
	return &Prompter{
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

// Run asks for every setting until the user confirms the result, then
// writes the configuration to path and returns it.
func (p *Prompter) Run(path string) (*Config, error) {
	for {
		conf, err := p.fill()
		if err != nil {
			return nil, err
		}

		fmt.Fprintln(p.out, "Current configuration:")
		if err = conf.Encode(p.out); err != nil {
			return nil, err
		}

		ok, err := p.confirm("Keep this configuration?")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if err = conf.WriteFile(path); err != nil {
			return nil, err
		}
		p.logger.Info("wrote configuration", "path", path)
		return conf, nil
	}
}

// fill asks one question per setting, empty answers keep the default.
func (p *Prompter) fill() (*Config, error) {
	conf := New()

	var err error
	if conf.Host, err = p.ask("Host", conf.Host); err != nil {
		return nil, err
	}
	if conf.Port, err = p.askPort("Port", conf.Port); err != nil {
		return nil, err
	}
	if conf.Nick, err = p.ask("Nick", conf.Nick); err != nil {
		return nil, err
	}
	if conf.Ident, err = p.ask("Ident", conf.Ident); err != nil {
		return nil, err
	}
	if conf.Realname, err = p.ask("Realname", conf.Realname); err != nil {
		return nil, err
	}
	if conf.Chans, err = p.ask("Chans (comma or space separated)", conf.Chans); err != nil {
		return nil, err
	}
	if conf.Botop, err = p.ask("Bot operators (comma or space separated)", conf.Botop); err != nil {
		return nil, err
	}

	return conf, nil
}

func (p *Prompter) ask(label, def string) (string, error) {
	fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", errors.Wrap(err, errMsgPromptEOF)
		}
		return "", errors.New(errMsgPromptEOF)
	}

	answer := strings.TrimSpace(p.in.Text())
	if len(answer) == 0 {
		return def, nil
	}
	return answer, nil
}

func (p *Prompter) askPort(label string, def uint16) (uint16, error) {
	for {
		answer, err := p.ask(label, strconv.Itoa(int(def)))
		if err != nil {
			return 0, err
		}

		port, err := strconv.ParseUint(answer, 10, 16)
		if err != nil || port == 0 {
			fmt.Fprintln(p.out, "Ports must be a number between 1 and 65535.")
			continue
		}
		return uint16(port), nil
	}
}

func (p *Prompter) confirm(label string) (bool, error) {
	for {
		answer, err := p.ask(label+" (y/n)", "y")
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// Load fetches the configuration at path, falling back to an interactive
// setup over in and out when the file is missing or invalid.
func Load(path string, in io.Reader, out io.Writer, logger log15.Logger) (*Config, error) {
	if logger == nil {
		logger = log15.New("pkg", "config")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("no configuration found, starting setup", "path", path)
		return NewPrompter(in, out, logger).Run(path)
	}

	conf, err := FromFile(path)
	if err != nil {
		return nil, err
	}

	if errs := conf.Validate(); errs != nil {
		for _, err := range errs {
			logger.Error("invalid configuration", "err", err)
		}
		fmt.Fprintln(out, "The configuration file has problems, please fix them.")
		return NewPrompter(in, out, logger).Run(path)
	}

	return conf, nil
}
