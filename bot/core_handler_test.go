package bot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gorillabot/gorillabot/command"
	"github.com/gorillabot/gorillabot/config"
	"github.com/gorillabot/gorillabot/irc"

	"gopkg.in/inconshreveable/log15.v2"
)

func TestCoreHandler_Connected(t *testing.T) {
	b, _ := New(testConfig(), testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	b.core.connected(w)

	if len(rec.lines) != 2 {
		t.Fatal("Should have registered, had:", rec.lines)
	}
	if "NICK :gorillabot" != rec.lines[0] {
		t.Error("Should have sent the nick first, had:", rec.lines[0])
	}
	if "USER gorillabot 0 * :gorillabot" != rec.lines[1] {
		t.Error("Should have sent the user registration, had:", rec.lines[1])
	}
}

func TestCoreHandler_NickCollision(t *testing.T) {
	b, _ := New(testConfig(), testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	line := []string{":irc.server.net", "433", "*", "gorillabot"}
	b.core.Numeric(w, irc.ERR_NICKNAMEINUSE, line)
	b.core.Numeric(w, irc.ERR_NICKNAMEINUSE, line)

	if len(rec.lines) != 2 {
		t.Fatal("Should have retried twice, had:", rec.lines)
	}
	if "NICK :gorillabot_" != rec.lines[0] {
		t.Error("Should have suffixed one underscore, had:", rec.lines[0])
	}
	if "NICK :gorillabot__" != rec.lines[1] {
		t.Error("Should have suffixed two underscores, had:", rec.lines[1])
	}

	// A reconnect starts the suffixes over.
	b.core.connected(w)
	b.core.Numeric(w, irc.ERR_NICKNAMEINUSE, line)
	if last := rec.lines[len(rec.lines)-1]; "NICK :gorillabot_" != last {
		t.Error("Should have reset the suffixes, had:", last)
	}
}

func TestCoreHandler_Welcome(t *testing.T) {
	b, _ := New(testConfig(), testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	b.core.Numeric(w, irc.RPL_WELCOME, []string{":irc.server.net", "001", "gorillabot_"})

	if "gorillabot_" != b.Nick() {
		t.Error("Should have adopted the accepted nick, had:", b.Nick())
	}
	if len(rec.lines) != 0 {
		t.Error("Should not have written anything, had:", rec.lines)
	}
}

func TestCoreHandler_JoinsAfterMotd(t *testing.T) {
	conf := testConfig()
	conf.Chans = "#a, #b"
	b, _ := New(conf, testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	b.core.Numeric(w, irc.RPL_ENDOFMOTD, []string{":irc.server.net", "376", "gorillabot"})
	b.core.Numeric(w, irc.ERR_NOMOTD, []string{":irc.server.net", "422", "gorillabot"})

	if len(rec.lines) != 2 {
		t.Fatal("Should have joined on both numerics, had:", rec.lines)
	}
	if "JOIN :#a,#b" != rec.lines[0] {
		t.Error("Should have joined the configured channels, had:", rec.lines[0])
	}
}

func TestCoreHandler_Nickserv(t *testing.T) {
	b, _ := New(testConfig(), testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	buf := bytes.Buffer{}
	logger := log15.New()
	logger.SetHandler(log15.StreamHandler(&buf, log15.LogfmtFormat()))
	b.core.logger = logger

	b.core.NickservReply(w, []string{":NickServ!NickServ@services.", "NOTICE",
		"gorillabot", ":This", "nickname", "is", "registered."})

	if !strings.Contains(buf.String(), "registered") {
		t.Error("Should have logged the notice, had:", buf.String())
	}
	if strings.Contains(buf.String(), "spoofed") {
		t.Error("Should not have flagged the real services host.")
	}

	buf.Reset()
	b.core.NickservReply(w, []string{":NickServ!evil@evil.com", "NOTICE",
		"gorillabot", ":give", "me", "your", "password"})

	if !strings.Contains(buf.String(), "spoofed") {
		t.Error("Should have flagged the spoofed host, had:", buf.String())
	}
	if len(rec.lines) != 0 {
		t.Error("Should never write in response to notices, had:", rec.lines)
	}
}

func TestCoreHandler_CTCP(t *testing.T) {
	b, _ := New(testConfig(), testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	b.core.ctcp(w, "alice", "gorillabot", "VERSION", "")
	b.core.ctcp(w, "alice", "gorillabot", "PING", "12345")

	if len(rec.lines) != 2 {
		t.Fatal("Should have answered both queries, had:", rec.lines)
	}
	if "NOTICE alice :\x01VERSION gorillabot\x01" != rec.lines[0] {
		t.Error("Should have sent the version, had:", rec.lines[0])
	}
	if "NOTICE alice :\x01PING 12345\x01" != rec.lines[1] {
		t.Error("Should have echoed the ping payload, had:", rec.lines[1])
	}
}

func TestCoreHandler_CTCPIgnored(t *testing.T) {
	b, _ := New(testConfig(), testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	b.core.ctcp(w, "alice", "#chan", "VERSION", "")
	b.core.ctcp(w, "", "gorillabot", "VERSION", "")
	b.core.ctcp(w, "alice", "gorillabot", "TIME", "")

	if len(rec.lines) != 0 {
		t.Error("Should not have answered, had:", rec.lines)
	}
}

func TestCoreHandler_CommandPing(t *testing.T) {
	b, _ := New(testConfig(), testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	b.core.Command(w, &command.Command{
		Name: "ping", Mode: command.Exclamation,
		Sender: "alice", Target: "#chan",
	})
	b.core.Command(w, &command.Command{
		Name: "PiNg", Mode: command.Private,
		Sender: "alice", Target: "gorillabot", Private: true,
	})

	if len(rec.lines) != 2 {
		t.Fatal("Should have ponged twice, had:", rec.lines)
	}
	if "PRIVMSG #chan :alice: pong" != rec.lines[0] {
		t.Error("Should have ponged the channel, had:", rec.lines[0])
	}
	if "PRIVMSG alice :alice: pong" != rec.lines[1] {
		t.Error("Should have ponged the sender privately, had:", rec.lines[1])
	}
}

func TestCoreHandler_CommandOps(t *testing.T) {
	conf := testConfig()
	conf.Botop = "alice, bob"
	b, _ := New(conf, testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	b.core.Command(w, &command.Command{
		Name: "ops", Mode: command.Exclamation,
		Sender: "carol", Target: "#chan",
	})

	if len(rec.lines) != 1 || "PRIVMSG #chan :Operators: alice, bob" != rec.lines[0] {
		t.Error("Should have listed the operators, had:", rec.lines)
	}

	b2, _ := New(config.New(), testLogger)
	rec2 := &writeRecorder{}
	b2.core.Command(irc.Helper{Writer: rec2}, &command.Command{
		Name: "ops", Mode: command.Exclamation,
		Sender: "carol", Target: "#chan",
	})
	if len(rec2.lines) != 1 || "PRIVMSG #chan :No operators are configured." != rec2.lines[0] {
		t.Error("Should have said none are configured, had:", rec2.lines)
	}
}

func TestCoreHandler_CommandShutdown(t *testing.T) {
	b, _ := New(testConfig(), testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	b.core.Command(w, &command.Command{
		Name: "shutdown", Mode: command.Exclamation,
		Sender: "mallory", Target: "#chan",
	})
	if len(rec.lines) != 1 || "PRIVMSG #chan :mallory: you are not a bot operator." != rec.lines[0] {
		t.Fatal("Should have refused the request, had:", rec.lines)
	}

	b.core.Command(w, &command.Command{
		Name: "shutdown", Mode: command.Exclamation,
		Sender: "Alice", Target: "#chan",
	})
	if len(rec.lines) != 3 {
		t.Fatal("Should have said goodbye and quit, had:", rec.lines)
	}
	if "PRIVMSG #chan :Alice: shutting down." != rec.lines[1] {
		t.Error("Should have announced the shutdown, had:", rec.lines[1])
	}
	if "QUIT :Goodbye." != rec.lines[2] {
		t.Error("Should have quit, had:", rec.lines[2])
	}
}

func TestCoreHandler_CommandHelp(t *testing.T) {
	b, _ := New(testConfig(), testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	b.core.Command(w, &command.Command{
		Name: "help", Mode: command.Direct,
		Sender: "alice", Target: "#chan",
	})

	if len(rec.lines) != 2 {
		t.Fatal("Should have sent the help text, had:", rec.lines)
	}
	if !strings.Contains(rec.lines[0], "shutdown") {
		t.Error("Should have listed the commands, had:", rec.lines[0])
	}
	if !strings.Contains(rec.lines[1], "gorillabot") {
		t.Error("Should have named the current nick, had:", rec.lines[1])
	}

	rec.lines = nil
	b.core.Command(w, &command.Command{
		Name: "version", Mode: command.Direct,
		Sender: "alice", Target: "#chan",
	})
	if len(rec.lines) != 1 || !strings.Contains(rec.lines[0], "gorillabot") {
		t.Error("Should have described itself, had:", rec.lines)
	}
}

func TestCoreHandler_CommandUnknown(t *testing.T) {
	b, _ := New(testConfig(), testLogger)
	rec := &writeRecorder{}
	w := irc.Helper{Writer: rec}

	b.core.Command(w, &command.Command{
		Name: "dance", Mode: command.Exclamation,
		Sender: "alice", Target: "#chan",
	})
	b.core.Command(w, &command.Command{
		Name: "ping", Mode: command.Private,
		Sender: "", Target: "gorillabot", Private: true,
	})

	if len(rec.lines) != 0 {
		t.Error("Should have stayed quiet, had:", rec.lines)
	}
}
