/*
Package inet maintains the tcp connection to an irc server, pacing writes
and splitting reads into protocol lines.
*/
package inet

import (
	"bytes"
	"io"
	"net"
	"sync"
	"time"

	"gopkg.in/inconshreveable/log15.v2"
)

const (
	// bufferSize is the size of the read buffer, lines longer than this
	// are dropped.
	bufferSize = 16384
	// defaultWriteGap is the pause between consecutive writes so the
	// server's flood protection leaves us alone.
	defaultWriteGap = 500 * time.Millisecond
	// defaultKeepalive is how long the connection may sit idle before a
	// ping is sent to keep it open.
	defaultKeepalive = 60 * time.Second
)

var (
	// pongPrefix marks replies that skip the write pacing.
	pongPrefix = []byte("PONG")
	// keepalivePing is sent on an idle connection.
	keepalivePing = []byte("PING :keepalive\r\n")

	crlf = []byte{'\r', '\n'}
)

// Client wraps a connection to an irc server. Writes are paced through a
// pump goroutine, reads are split into lines by a siphon goroutine and
// delivered over a channel.
type Client struct {
	isShutdown bool
	protect    sync.RWMutex

	conn        net.Conn
	siphonchan  chan []byte
	pumpchan    chan []byte
	pumpservice chan chan []byte
	killpump    chan struct{}
	killsiphon  chan struct{}

	writeGap  time.Duration
	keepalive time.Duration

	logger log15.Logger
}

// NewClient creates a Client around conn with default pacing. A nil
// logger gets a package default.
func NewClient(conn net.Conn, logger log15.Logger) *Client {
	return NewClientTiming(conn, defaultWriteGap, defaultKeepalive, logger)
}

// NewClientTiming creates a Client with explicit write pacing and
// keepalive intervals, zero disables either.
func NewClientTiming(conn net.Conn, writeGap, keepalive time.Duration,
	logger log15.Logger) *Client {

	if logger == nil {
		logger = log15.New("pkg", "inet")
	}
	return &Client{
		conn:        conn,
		siphonchan:  make(chan []byte),
		pumpchan:    make(chan []byte),
		pumpservice: make(chan chan []byte),
		writeGap:    writeGap,
		keepalive:   keepalive,
		logger:      logger,
	}
}

// SpawnWorkers starts the pump and siphon goroutines and arms their kill
// channels.
func (c *Client) SpawnWorkers(pump, siphon bool) {
	c.protect.Lock()
	defer c.protect.Unlock()
	c.isShutdown = false

	if pump {
		c.killpump = make(chan struct{})
		go c.pump()
	}
	if siphon {
		c.killsiphon = make(chan struct{})
		go c.siphon()
	}
}

// pump serializes writes to the connection, keeping writeGap between them
// and pinging when the connection sits idle. Pong replies skip the queue
// so ping timeouts cannot stack up behind paced writes.
func (c *Client) pump() {
	var err error
	var gap <-chan time.Time
	var pinger <-chan time.Time
	if c.keepalive != 0 {
		pinger = time.After(c.keepalive)
	}

	var queue [][]byte
	defer close(c.pumpservice)

	for err == nil {
		select {
		case c.pumpservice <- c.pumpchan:
			msg := <-c.pumpchan
			if len(msg) == 0 {
				break
			}

			if bytes.HasPrefix(msg, pongPrefix) {
				err = c.writeMessage(msg)
				break
			}

			if gap == nil {
				if err = c.writeMessage(msg); err == nil && c.writeGap != 0 {
					gap = time.After(c.writeGap)
				}
			} else {
				queue = append(queue, msg)
			}

		case <-gap:
			if len(queue) == 0 {
				gap = nil
				break
			}
			msg := queue[0]
			queue = queue[1:]
			if err = c.writeMessage(msg); err == nil {
				gap = time.After(c.writeGap)
			}

		case <-pinger:
			pinger = time.After(c.keepalive)
			if gap == nil {
				if err = c.writeMessage(keepalivePing); err == nil && c.writeGap != 0 {
					gap = time.After(c.writeGap)
				}
			}

		case <-c.killpump:
			c.logger.Debug("write pump shutting down")
			return
		}
	}

	c.logger.Error("write pump closed", "err", err)
	<-c.killpump
}

// writeMessage writes one message fully out to the socket.
func (c *Client) writeMessage(msg []byte) error {
	var n int
	var err error
	for written := 0; written < len(msg); written += n {
		n, err = c.conn.Write(msg[written:])
		if err != nil {
			c.logger.Error("write failed", "err", err,
				"msg", string(bytes.TrimRight(msg, "\r\n")))
			return err
		}
	}

	c.logger.Debug("wrote line", "msg", string(bytes.TrimRight(msg, "\r\n")))
	return nil
}

// siphon reads from the connection and hands complete lines to the read
// channel. The channel closes when the connection dies.
func (c *Client) siphon() {
	buf := make([]byte, bufferSize)

	var err error
	var keep, n int
	var quit bool

	for err == nil {
		n, err = c.conn.Read(buf[keep:])

		if n > 0 && (err == nil || err == io.EOF) {
			keep, quit = c.extractLines(buf[:keep+n])
			if quit {
				// The kill was already received inside extractLines, only
				// the close remains to let readers drain out.
				close(c.siphonchan)
				return
			}
			if keep == len(buf) {
				c.logger.Warn("dropping oversized line", "bytes", keep)
				keep = 0
			}
		}

		if err != nil {
			if err != io.EOF {
				c.logger.Error("read failed", "err", err)
			}
			break
		}
	}

	close(c.siphonchan)
	<-c.killsiphon
}

// extractLines splits buf on crlf pairs and sends a copy of each complete
// line to the read channel. The copy matters, the buffer is refilled as
// soon as this returns. Leftover bytes move to the front of buf and their
// count is returned for the next read to append after.
func (c *Client) extractLines(buf []byte) (int, bool) {
	start := 0
	for {
		i := bytes.Index(buf[start:], crlf)
		if i < 0 {
			break
		}
		end := start + i

		line := make([]byte, end-start)
		copy(line, buf[start:end])

		select {
		case c.siphonchan <- line:
			c.logger.Debug("read line", "msg", string(line))
		case <-c.killsiphon:
			return 0, true
		}

		start = end + 2
	}

	keep := len(buf) - start
	if keep > 0 && start > 0 {
		copy(buf, buf[start:])
	}
	return keep, false
}

// Write hands one protocol line to the pump, appending the line ending
// when absent. Returns io.EOF once the client is closed.
func (c *Client) Write(buf []byte) (int, error) {
	n := len(buf)
	if n == 0 {
		return 0, nil
	}

	msg := make([]byte, 0, n+2)
	msg = append(msg, buf...)
	if !bytes.HasSuffix(msg, crlf) {
		msg = append(msg, crlf...)
	}

	service, ok := <-c.pumpservice
	if !ok {
		return 0, io.EOF
	}
	service <- msg

	return n, nil
}

// Close closes the socket and stops the workers. Safe to call twice.
func (c *Client) Close() error {
	if c.IsClosed() {
		return nil
	}

	err := c.conn.Close()

	c.protect.Lock()
	c.isShutdown = true
	if c.killpump != nil {
		c.killpump <- struct{}{}
	}
	if c.killsiphon != nil {
		c.killsiphon <- struct{}{}
	}
	c.protect.Unlock()

	return err
}

// IsClosed returns true once Close has run.
func (c *Client) IsClosed() bool {
	c.protect.RLock()
	defer c.protect.RUnlock()
	return c.isShutdown
}

// ReadChannel exposes the channel complete lines arrive on.
func (c *Client) ReadChannel() <-chan []byte {
	return c.siphonchan
}

// ReadMessage takes one line from the read channel, reporting false once
// the connection is gone.
func (c *Client) ReadMessage() ([]byte, bool) {
	msg, ok := <-c.siphonchan
	return msg, ok
}
