// The gorillabot irc bot.
package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorillabot/gorillabot/bot"
	"github.com/gorillabot/gorillabot/config"

	"gopkg.in/inconshreveable/log15.v2"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	verbose := flag.Bool("verbose", false, "log protocol traffic")
	flag.Parse()

	logger := log15.New()
	level := log15.LvlInfo
	if *verbose {
		level = log15.LvlDebug
	}
	logger.SetHandler(log15.LvlFilterHandler(level, log15.StdoutHandler))

	conf, err := config.Load(*configPath, os.Stdin, os.Stdout,
		logger.New("pkg", "config"))
	if err != nil {
		logger.Error("could not load configuration", "err", err)
		os.Exit(1)
	}

	b, err := bot.New(conf, logger.New("pkg", "bot"))
	if err != nil {
		logger.Error("could not create bot", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Enter on stdin shuts the bot down, same as a signal.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Scan()
		stop()
	}()

	if err = b.Run(ctx, *configPath); err != nil {
		logger.Error("bot died", "err", err)
		os.Exit(1)
	}

	logger.Info("shut down")
}
