// Package logging mirrors standard-library log output to a Logstash TCP
// input without making any log call block on the network.
package logging

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	defaultDialTimeout   = 2 * time.Second
	defaultWriteTimeout  = time.Second
	defaultRetryInterval = 5 * time.Second
)

// LogstashWriter forwards each write as one newline-terminated event over a
// single TCP connection. While Logstash is unreachable, writes are dropped
// and reconnection is attempted at most once per retry interval, so the
// application log path never stalls.
type LogstashWriter struct {
	addr string

	mu        sync.Mutex
	conn      net.Conn
	nextRetry time.Time
	closed    bool
}

// NewLogstashWriter returns a writer that is safe for concurrent use.
func NewLogstashWriter(addr string) (*LogstashWriter, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("logstash: empty address")
	}
	return &LogstashWriter{addr: addr}, nil
}

// Write implements io.Writer. It always reports the full length as written:
// a dropped event must not surface as a log error to the caller.
func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	event := make([]byte, len(p))
	copy(event, p)
	if event[len(event)-1] != '\n' {
		event = append(event, '\n')
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, io.ErrClosedPipe
	}

	if w.conn == nil {
		if !w.nextRetry.IsZero() && time.Now().Before(w.nextRetry) {
			return len(p), nil
		}
		conn, err := net.DialTimeout("tcp", w.addr, defaultDialTimeout)
		if err != nil {
			w.nextRetry = time.Now().Add(defaultRetryInterval)
			return len(p), nil
		}
		w.conn = conn
		w.nextRetry = time.Time{}
	}

	_ = w.conn.SetWriteDeadline(time.Now().Add(defaultWriteTimeout))
	if _, err := w.conn.Write(event); err != nil {
		_ = w.conn.Close()
		w.conn = nil
		w.nextRetry = time.Now().Add(defaultRetryInterval)
	}

	return len(p), nil
}

// Close tears down the underlying TCP connection.
func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}
