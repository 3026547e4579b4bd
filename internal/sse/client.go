package sse

import (
	"errors"
	"io"
	"net/http"
	"sync"
)

var (
	ErrStreamingUnsupported = errors.New("streaming unsupported")
	ErrClientClosed         = errors.New("client closed")
)

// Client is one open event stream. Writes are serialized, and once closed
// the client never touches the underlying writer again.
type Client struct {
	UserID string

	w       io.Writer
	flusher http.Flusher

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewClient wraps a response writer that supports flushing.
func NewClient(userID string, w http.ResponseWriter) (*Client, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	return &Client{
		UserID:  userID,
		w:       w,
		flusher: flusher,
		done:    make(chan struct{}),
	}, nil
}

// Done is closed when the client is closed by the hub, e.g. after being
// replaced by a newer stream for the same user.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Write sends one pre-encoded frame and flushes it.
func (c *Client) Write(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}

	if _, err := c.w.Write(frame); err != nil {
		return err
	}
	c.flusher.Flush()

	return nil
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}
