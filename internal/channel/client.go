package channel

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/popsearch/popsearch/internal/codec"
	"github.com/popsearch/popsearch/internal/models"
)

// Dial connects to the daemon's unix socket. Calls on the returned
// connection use the CBOR codec.
func Dial(socketPath string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient("unix://"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codec.Name)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	return conn, nil
}

// Client is the content side of one channel stream.
type Client struct {
	stream grpc.ClientStream
	window string
	cancel context.CancelFunc

	sendMu sync.Mutex
}

// Attach opens the content stream for window over cc.
func Attach(ctx context.Context, cc grpc.ClientConnInterface, window string) (*Client, error) {
	ctx, cancel := context.WithCancel(ctx)
	stream, err := cc.NewStream(ctx, &ContentServiceDesc.Streams[0], AttachMethod, grpc.CallContentSubtype(codec.Name))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to attach: %w", err)
	}
	return &Client{stream: stream, window: window, cancel: cancel}, nil
}

// Window returns the window ID this client speaks for.
func (c *Client) Window() string { return c.window }

func (c *Client) send(op Op, body any) error {
	env, err := NewEnvelope(op, c.window, body)
	if err != nil {
		return err
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.stream.SendMsg(env)
}

// Hello reports that content finished loading.
func (c *Client) Hello(role Role) error {
	return c.send(OpHello, Hello{Role: role})
}

// RequestResize asks for a new window size in pixels.
func (c *Client) RequestResize(w, h float64) error {
	return c.send(OpResize, Resize{Width: w, Height: h})
}

// RequestDispatch asks the daemon to run dest with query. A nil dest
// closes the overlay without action.
func (c *Client) RequestDispatch(dest *models.Destination, query string, copyToClipboard bool) error {
	return c.send(OpDispatch, Dispatch{Destination: dest, Query: query, Copy: copyToClipboard})
}

// RequestClose asks the daemon to close this window.
func (c *Client) RequestClose() error { return c.send(OpClose, nil) }

// RequestContextMenu asks the daemon for the context menu.
func (c *Client) RequestContextMenu() error { return c.send(OpContextMenu, nil) }

// RequestMenuAction reports a chosen context menu entry.
func (c *Client) RequestMenuAction(id string) error {
	return c.send(OpMenuAction, MenuAction{ID: id})
}

// RequestReload asks the daemon to reload configuration everywhere.
func (c *Client) RequestReload() error { return c.send(OpReload, nil) }

// RequestMinimize asks the daemon to minimize the settings window.
func (c *Client) RequestMinimize() error { return c.send(OpMinimize, nil) }

// RequestSettings asks the daemon to show the settings window.
func (c *Client) RequestSettings() error { return c.send(OpSettings, nil) }

// Log sends a diagnostic line to the daemon log.
func (c *Client) Log(text string) error {
	return c.send(OpLog, Log{Text: text})
}

// Recv blocks for the next frame from the daemon.
func (c *Client) Recv() (*Envelope, error) {
	env := new(Envelope)
	if err := c.stream.RecvMsg(env); err != nil {
		return nil, err
	}
	return env, nil
}

// Close ends the stream.
func (c *Client) Close() error {
	c.sendMu.Lock()
	err := c.stream.CloseSend()
	c.sendMu.Unlock()
	c.cancel()
	return err
}

// LogWriter returns a writer that forwards each written line as a log
// frame. It is meant for log.SetOutput in content processes.
func (c *Client) LogWriter() io.Writer {
	return logWriter{c}
}

type logWriter struct {
	c *Client
}

func (w logWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if err := w.c.Log(string(line)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
