package server

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"typethrough/logger"
)

// Client relays the editor's stdio channel to the daemon socket.
type Client struct {
	paths     Paths
	daemonCmd []string
}

// NewClient returns a client that starts the daemon with daemonArgs
// appended to the current executable when it is not running.
func NewClient(paths Paths, daemonArgs ...string) *Client {
	return &Client{
		paths:     paths,
		daemonCmd: append([]string{os.Args[0]}, daemonArgs...),
	}
}

// Connect relays stdin and stdout until the daemon closes the connection.
func (c *Client) Connect() error {
	conn, err := net.Dial("unix", c.paths.Socket)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w", err)
	}
	defer conn.Close()

	go func() {
		io.Copy(conn, os.Stdin)
		conn.Close()
	}()

	io.Copy(os.Stdout, conn)
	return nil
}

func (c *Client) EnsureDaemonRunning() error {
	if running, pid := daemonRunning(c.paths.PID); running {
		logger.Debug("daemon already running with PID %d", pid)
		return nil
	}
	return c.startDaemon()
}

func (c *Client) startDaemon() error {
	logger.Debug("starting daemon: %v", c.daemonCmd)

	_, err := os.StartProcess(c.daemonCmd[0], c.daemonCmd, &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{nil, nil, nil},
	})
	if err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	return c.waitForDaemon()
}

func (c *Client) waitForDaemon() error {
	for range 50 { // Wait up to 5 seconds
		if running, _ := daemonRunning(c.paths.PID); running {
			if _, err := os.Stat(c.paths.Socket); err == nil {
				logger.Debug("daemon started successfully")
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon failed to start within timeout")
}
