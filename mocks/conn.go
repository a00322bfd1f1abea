/*
Package mocks provides deterministic test doubles for network primitives.
*/
package mocks

import (
	"net"
	"sync"
	"time"
)

const (
	panicMsg = "mocks: this function is not properly mocked"
)

type ioResult struct {
	n   int
	err error
}

// Conn is a net.Conn whose reads and writes are scripted from the test's
// goroutine. Receive collects a pending Write, Send feeds a pending Read,
// both block until the other side arrives.
type Conn struct {
	writes   chan []byte
	writeRes chan ioResult
	reads    chan []byte
	readRes  chan ioResult
	death    sync.WaitGroup
}

// NewConn creates a scripted connection awaiting one Close.
func NewConn() *Conn {
	conn := &Conn{
		writes:   make(chan []byte),
		writeRes: make(chan ioResult),
		reads:    make(chan []byte),
		readRes:  make(chan ioResult),
	}

	conn.death.Add(1)
	return conn
}

// Receive collects one pending Write, directing its return values, and
// hands back what was written.
func (m *Conn) Receive(n int, err error) []byte {
	written := <-m.writes
	m.writeRes <- ioResult{n, err}
	return written
}

// Send feeds one pending Read, directing its return values.
func (m *Conn) Send(buffer []byte, n int, err error) {
	m.reads <- buffer
	m.readRes <- ioResult{n, err}
}

func (m *Conn) Write(buffer []byte) (int, error) {
	written := make([]byte, len(buffer))
	copy(written, buffer)
	m.writes <- written

	res := <-m.writeRes
	return res.n, res.err
}

func (m *Conn) Read(buffer []byte) (int, error) {
	read := <-m.reads
	copy(buffer, read)

	res := <-m.readRes
	return res.n, res.err
}

// Close releases anyone blocked in WaitForDeath.
func (m *Conn) Close() error {
	m.death.Done()
	return nil
}

// WaitForDeath blocks until the connection is closed.
func (m *Conn) WaitForDeath() {
	m.death.Wait()
}

// ResetDeath arms the connection for another Close.
func (m *Conn) ResetDeath() {
	m.death.Add(1)
}

func (m *Conn) LocalAddr() net.Addr {
	panic(panicMsg)
}

func (m *Conn) RemoteAddr() net.Addr {
	panic(panicMsg)
}

func (m *Conn) SetDeadline(time.Time) error {
	panic(panicMsg)
}

func (m *Conn) SetReadDeadline(time.Time) error {
	panic(panicMsg)
}

func (m *Conn) SetWriteDeadline(time.Time) error {
	panic(panicMsg)
}
