package server

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"typethrough/logger"
	"typethrough/metrics"

	"github.com/neovim/go-client/nvim"
)

const (
	idleTimeout      = 30 * time.Second
	idleRecheck      = 5 * time.Second
	debugIdleRecheck = 1 * time.Second
)

// Daemon serves Neovim connections on a unix socket until it is stopped or
// stays without clients for too long.
type Daemon struct {
	config      Config
	paths       Paths
	handlers    *Handlers
	listener    net.Listener
	clientCount int64
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewDaemon(config Config, paths Paths) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{
		config:   config,
		paths:    paths,
		handlers: NewHandlers(config, metrics.NewTracker()),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start blocks until the daemon shuts down.
func (d *Daemon) Start() error {
	d.writePidFile()
	defer d.removePidFile()

	if err := d.setupSocket(); err != nil {
		return err
	}
	defer d.cleanup()

	logger.Info("daemon listening on socket: %s", d.paths.Socket)

	d.setupShutdownHandling()
	go d.acceptConnections()
	go d.monitorIdleShutdown()

	<-d.ctx.Done()
	logger.Info("daemon shutting down, stats: %+v", d.handlers.Stats())
	return nil
}

func (d *Daemon) setupSocket() error {
	os.Remove(d.paths.Socket)

	listener, err := net.Listen("unix", d.paths.Socket)
	if err != nil {
		return err
	}
	d.listener = listener
	return nil
}

func (d *Daemon) setupShutdownHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
			d.Stop()
		case <-d.ctx.Done():
		}
		signal.Stop(sigChan)
	}()
}

func (d *Daemon) acceptConnections() {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-d.ctx.Done():
				return
			default:
				logger.Error("error accepting connection: %v", err)
				continue
			}
		}

		count := atomic.AddInt64(&d.clientCount, 1)
		logger.Info("new client connected, total clients: %d", count)
		go d.handleConnection(conn)
	}
}

func (d *Daemon) handleConnection(conn net.Conn) {
	defer conn.Close()
	defer func() {
		count := atomic.AddInt64(&d.clientCount, -1)
		logger.Info("client disconnected, remaining clients: %d", count)
	}()

	n, err := nvim.New(conn, conn, conn, logger.Printf)
	if err != nil {
		logger.Error("error creating nvim client: %v", err)
		return
	}

	if err := newSession(n, d.handlers, d.config).register(n); err != nil {
		logger.Error("error registering handlers: %v", err)
		return
	}

	if err := n.Serve(); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("error serving connection: %v", err)
	}
}

func (d *Daemon) monitorIdleShutdown() {
	wait := idleTimeout
	if d.config.DebugImmediateShutdown {
		wait = debugIdleRecheck
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-timer.C:
			if atomic.LoadInt64(&d.clientCount) == 0 {
				logger.Info("no clients connected, shutting down daemon")
				d.Stop()
				return
			}
		}

		switch {
		case d.config.DebugImmediateShutdown:
			timer.Reset(debugIdleRecheck)
		case atomic.LoadInt64(&d.clientCount) == 0:
			timer.Reset(idleRecheck)
		default:
			timer.Reset(idleTimeout)
		}
	}
}

// Stop cancels the daemon before closing the listener, so acceptConnections
// sees a done context when Accept fails.
func (d *Daemon) Stop() {
	d.cancel()
	if d.listener != nil {
		d.listener.Close()
	}
}

func (d *Daemon) cleanup() {
	os.Remove(d.paths.Socket)
}

func (d *Daemon) writePidFile() {
	pid := os.Getpid()
	if err := os.WriteFile(d.paths.PID, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		logger.Warn("could not write PID file: %v", err)
	}
	logger.Info("server started with PID %d", pid)
}

func (d *Daemon) removePidFile() {
	if err := os.Remove(d.paths.PID); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not remove PID file: %v", err)
	}
}
