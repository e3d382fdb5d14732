package nvim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// DefaultTimeout bounds every connect, write and read on the editor socket
const DefaultTimeout = 500 * time.Millisecond

const (
	messageRequest  = 0
	messageResponse = 1

	// A fresh connection is opened per call, so a single id is enough.
	requestID = 1
)

// ErrInvalidResponse is returned when a reply is not a well formed response frame
var ErrInvalidResponse = errors.New("invalid rpc response")

// RemoteError is an error reported by Neovim in the response frame
type RemoteError struct {
	Method string
	Value  Value
}

func (e *RemoteError) Error() string {
	// Neovim reports errors as [type, message]
	if parts, ok := e.Value.AsArray(); ok && len(parts) == 2 {
		if msg, ok := parts[1].AsString(); ok {
			return fmt.Sprintf("%s: %s", e.Method, msg)
		}
	}
	return fmt.Sprintf("%s: %s", e.Method, e.Value)
}

// Client talks msgpack-rpc to a Neovim instance over a unix socket
type Client struct {
	Socket  string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewClient creates a client for the given socket path
func NewClient(socket string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{Socket: socket, Timeout: timeout, Logger: logger.With(slog.String("component", "nvim"))}
}

// Notify sends a request and drains one reply without inspecting it.
// Only connect and write failures are reported.
func (c *Client) Notify(method string, args ...Value) error {
	conn, err := c.send(method, args)
	if err != nil {
		return err
	}
	defer conn.Close()

	var reply Value
	if err := msgpack.NewDecoder(conn).Decode(&reply); err != nil {
		c.logger().Debug("no reply drained", slog.String("method", method), slog.Any("error", err))
	}
	return nil
}

// Call sends a request and returns the result of the response frame
func (c *Client) Call(method string, args ...Value) (Value, error) {
	conn, err := c.send(method, args)
	if err != nil {
		return Nil(), err
	}
	defer conn.Close()

	var reply Value
	if err := msgpack.NewDecoder(conn).Decode(&reply); err != nil {
		return Nil(), fmt.Errorf("failed to read %s response: %w", method, err)
	}
	return parseResponse(method, reply)
}

func (c *Client) send(method string, args []Value) (net.Conn, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	conn, err := net.DialTimeout("unix", c.Socket, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nvim: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	payload, err := EncodeRequest(method, args...)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Write(payload); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}
	return conn, nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// EncodeRequest builds the [0, id, method, args] request frame
func EncodeRequest(method string, args ...Value) ([]byte, error) {
	if args == nil {
		args = []Value{}
	}
	frame := Array(Int(messageRequest), Int(requestID), String(method), Array(args...))
	payload, err := msgpack.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	return payload, nil
}

// parseResponse validates a [1, id, error, result] frame
func parseResponse(method string, reply Value) (Value, error) {
	frame, ok := reply.AsArray()
	if !ok || len(frame) != 4 {
		return Nil(), fmt.Errorf("%w: expected 4 element array, got %s", ErrInvalidResponse, reply)
	}
	if typ, ok := frame[0].AsInt(); !ok || typ != messageResponse {
		return Nil(), fmt.Errorf("%w: not a response frame", ErrInvalidResponse)
	}
	if id, ok := frame[1].AsInt(); !ok || id != requestID {
		return Nil(), fmt.Errorf("%w: unexpected message id %s", ErrInvalidResponse, frame[1])
	}
	if !frame[2].IsNil() {
		return Nil(), &RemoteError{Method: method, Value: frame[2]}
	}
	return frame[3], nil
}
