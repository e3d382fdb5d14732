package nvim

import (
	"fmt"
	"log/slog"
	"strings"
)

// PreviewBufferName is the name given to the terminal buffer showing a session
const PreviewBufferName = "[Session Preview]"

// Command runs an ex command
func (c *Client) Command(cmd string) error {
	if err := c.Notify("nvim_command", String(cmd)); err != nil {
		return err
	}
	c.logger().Debug("sent command", slog.String("command", cmd))
	return nil
}

// Open edits the given file in the current window
func (c *Client) Open(path string) error {
	return c.Command("edit " + EscapePath(path))
}

// NewScratch replaces the current window's buffer with an empty one
func (c *Client) NewScratch() error {
	return c.Command("enew")
}

// OpenTerminal attaches a terminal to the current buffer and returns its channel
func (c *Client) OpenTerminal() (int64, error) {
	result, err := c.Call("nvim_open_term", Int(0), Map())
	if err != nil {
		return 0, err
	}
	channel, ok := result.AsInt()
	if !ok {
		return 0, fmt.Errorf("%w: nvim_open_term returned %s", ErrInvalidResponse, result)
	}

	setup := "setlocal bufhidden=wipe noswapfile | file " + EscapePath(PreviewBufferName)
	if err := c.Command(setup); err != nil {
		c.logger().Debug("failed to configure preview buffer", slog.Any("error", err))
	}
	return channel, nil
}

// Send writes raw bytes into a terminal channel
func (c *Client) Send(channel int64, data string) error {
	return c.Notify("nvim_chan_send", Int(channel), String(data))
}

// EscapePath escapes a file name for use on an ex command line
func EscapePath(path string) string {
	var b strings.Builder
	for _, r := range path {
		if strings.ContainsRune(" \t\n*?[{`$\\%#'\"|!<", r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
