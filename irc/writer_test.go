package irc

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

type lineRecorder struct {
	lines []string
}

func (l *lineRecorder) Write(p []byte) (int, error) {
	l.lines = append(l.lines, string(p))
	return len(p), nil
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestHelper_ImplementsWriter(t *testing.T) {
	var _ Writer = Helper{nil}
}

func TestHelper_Send(t *testing.T) {
	buf := bytes.Buffer{}
	h := Helper{&buf}
	h.Send("PING :", "server")

	expect := "PING :server"
	if s := buf.String(); s != expect {
		t.Errorf("Expected: %s, got: %s", expect, s)
	}
}

func TestHelper_Sendf(t *testing.T) {
	buf := bytes.Buffer{}
	h := Helper{&buf}
	h.Sendf("MODE %s", "#chan")

	expect := "MODE #chan"
	if s := buf.String(); s != expect {
		t.Errorf("Expected: %s, got: %s", expect, s)
	}
}

func TestHelper_Privmsg(t *testing.T) {
	rec := &lineRecorder{}
	h := Helper{rec}
	h.Privmsg("#chan", "hello ", 5)

	if len(rec.lines) != 1 {
		t.Error("Expected one line, got:", len(rec.lines))
	}
	expect := "PRIVMSG #chan :hello 5"
	if rec.lines[0] != expect {
		t.Errorf("Expected: %s, got: %s", expect, rec.lines[0])
	}
}

func TestHelper_Privmsgf(t *testing.T) {
	buf := bytes.Buffer{}
	h := Helper{&buf}
	h.Privmsgf("user", "pong: %s", "abc")

	expect := "PRIVMSG user :pong: abc"
	if s := buf.String(); s != expect {
		t.Errorf("Expected: %s, got: %s", expect, s)
	}
}

func TestHelper_Notice(t *testing.T) {
	buf := bytes.Buffer{}
	h := Helper{&buf}
	h.Notice("user", "note")

	expect := "NOTICE user :note"
	if s := buf.String(); s != expect {
		t.Errorf("Expected: %s, got: %s", expect, s)
	}
}

func TestHelper_Splitting(t *testing.T) {
	rec := &lineRecorder{}
	h := Helper{rec}

	header := "PRIVMSG #chan :"
	max := IRC_MAX_LENGTH - len(header)

	h.Privmsg("#chan", strings.Repeat("a", max+67))
	if len(rec.lines) != 2 {
		t.Error("Expected two lines, got:", len(rec.lines))
	}
	if ln := rec.lines[0]; len(ln) != IRC_MAX_LENGTH {
		t.Error("Expected a full first line, got length:", len(ln))
	}
	if expect := header + strings.Repeat("a", 67); rec.lines[1] != expect {
		t.Errorf("Expected: %s, got: %s", expect, rec.lines[1])
	}
	for _, ln := range rec.lines {
		if !strings.HasPrefix(ln, header) {
			t.Error("Expected the header on each line, got:", ln[:20])
		}
	}
}

func TestHelper_SplitsOnSpaces(t *testing.T) {
	rec := &lineRecorder{}
	h := Helper{rec}

	header := "PRIVMSG #chan :"
	max := IRC_MAX_LENGTH - len(header)

	first := strings.Repeat("a", max-3)
	second := strings.Repeat("b", 50)
	h.Privmsg("#chan", first+" "+second)

	if len(rec.lines) != 2 {
		t.Error("Expected two lines, got:", len(rec.lines))
	}
	if expect := header + first; rec.lines[0] != expect {
		t.Error("Expected the first line to break on the space.")
	}
	if expect := header + second; rec.lines[1] != expect {
		t.Error("Expected the space to be eaten, got:", rec.lines[1][:20])
	}
}

func TestHelper_SplitMidWord(t *testing.T) {
	rec := &lineRecorder{}
	h := Helper{rec}

	header := "PRIVMSG #chan :"
	max := IRC_MAX_LENGTH - len(header)

	h.Privmsg("#chan", strings.Repeat("a", max*2))
	if len(rec.lines) != 2 {
		t.Error("Expected two full lines, got:", len(rec.lines))
	}
	if len(rec.lines[0]) != IRC_MAX_LENGTH || len(rec.lines[1]) != IRC_MAX_LENGTH {
		t.Error("Expected spaceless text to split at the maximum length.")
	}
}

func TestHelper_SplitWriteError(t *testing.T) {
	h := Helper{failWriter{}}
	if err := h.Privmsg("#chan", "msg"); err != io.ErrClosedPipe {
		t.Error("Expected the write error back, got:", err)
	}
}

func TestHelper_CTCPReply(t *testing.T) {
	buf := bytes.Buffer{}
	h := Helper{&buf}
	h.CTCPReply("user", "VERSION", "somebot")

	expect := "NOTICE user :\x01VERSION somebot\x01"
	if s := buf.String(); s != expect {
		t.Errorf("Expected: %s, got: %s", expect, s)
	}
}

func TestHelper_Pong(t *testing.T) {
	buf := bytes.Buffer{}
	h := Helper{&buf}
	h.Pong("irc.test.net")

	expect := "PONG :irc.test.net"
	if s := buf.String(); s != expect {
		t.Errorf("Expected: %s, got: %s", expect, s)
	}
}

func TestHelper_Nick(t *testing.T) {
	buf := bytes.Buffer{}
	h := Helper{&buf}
	h.Nick("newnick")

	expect := "NICK :newnick"
	if s := buf.String(); s != expect {
		t.Errorf("Expected: %s, got: %s", expect, s)
	}
}

func TestHelper_User(t *testing.T) {
	buf := bytes.Buffer{}
	h := Helper{&buf}
	h.User("ident", "real name")

	expect := "USER ident 0 * :real name"
	if s := buf.String(); s != expect {
		t.Errorf("Expected: %s, got: %s", expect, s)
	}
}

func TestHelper_Join(t *testing.T) {
	buf := bytes.Buffer{}
	h := Helper{&buf}
	h.Join("#a", "#b")

	expect := "JOIN :#a,#b"
	if s := buf.String(); s != expect {
		t.Errorf("Expected: %s, got: %s", expect, s)
	}

	buf.Reset()
	h.Join()
	if s := buf.String(); s != "" {
		t.Error("Expected no write for an empty join, got:", s)
	}
}

func TestHelper_Quit(t *testing.T) {
	buf := bytes.Buffer{}
	h := Helper{&buf}
	h.Quit("bye")

	expect := "QUIT :bye"
	if s := buf.String(); s != expect {
		t.Errorf("Expected: %s, got: %s", expect, s)
	}
}
